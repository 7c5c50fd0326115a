package fanfield

import (
	"strings"

	"github.com/paulmach/osm"
)

// OsmConfiguration Allows to filter OSM objects by certain tags
type OsmConfiguration struct {
	// EntityName is the tag key of ways to be used as road network. Currently 'highway' is expected
	EntityName string
	// Tags are accepted values of EntityName
	Tags []string
	// NodeTags filter nodes becoming candidate locations. Each entry is either 'key' (any value) or 'key=value'
	NodeTags []string
}

// DefaultRoadTags is the set of highway values walkable by an agent.
// Cycleways are listed but pass the walk filter only with foot=yes|designated|permissive
var DefaultRoadTags = []string{
	"primary", "secondary", "tertiary", "unclassified", "residential", "living_street",
	"service", "pedestrian", "footway", "path", "steps", "track", "cycleway",
}

// DefaultNodeTags is the set of node tags treated as candidate locations
var DefaultNodeTags = []string{"historic", "tourism=artwork", "tourism=attraction", "amenity=place_of_worship", "leisure=playground"}

// CheckTag Checks if incoming tag is represented in configuration
func (cfg *OsmConfiguration) CheckTag(tag string) bool {
	for i := range cfg.Tags {
		if cfg.Tags[i] == tag {
			return true
		}
	}
	return false
}

// CheckNodeTags Checks if any of node tags matches NodeTags filter
func (cfg *OsmConfiguration) CheckNodeTags(tags osm.Tags) bool {
	for _, filter := range cfg.NodeTags {
		key, value, withValue := strings.Cut(filter, "=")
		found := tags.Find(key)
		if found == "" {
			continue
		}
		if !withValue || found == value {
			return true
		}
	}
	return false
}
