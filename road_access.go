package fanfield

import (
	"github.com/paulmach/osm"
)

// AccessType is the OSM key restricting access to a way
type AccessType uint16

const (
	ACCESS_HIGHWAY = AccessType(iota + 1)
	ACCESS_OSM_ACCESS
	ACCESS_SERVICE
	ACCESS_FOOT
)

func (iotaIdx AccessType) String() string {
	return [...]string{"highway", "access", "service", "foot"}[iotaIdx-1]
}

var (
	walkFiltersExclude = map[AccessType]map[string]struct{}{
		ACCESS_HIGHWAY: {
			"cycleway":      {},
			"motor":         {},
			"motorway":      {},
			"motorway_link": {},
		},
		ACCESS_FOOT: {
			"no": {},
		},
		ACCESS_SERVICE: {
			"private": {},
		},
		ACCESS_OSM_ACCESS: {
			"private": {},
			"no":      {},
		},
	}

	walkFiltersInclude = map[AccessType]map[string]struct{}{
		ACCESS_FOOT: {
			"yes":        {},
			"designated": {},
			"permissive": {},
		},
	}

	// See ref.: https://wiki.openstreetmap.org/wiki/Tag:oneway%3Dreversible
	onewayReversible = map[string]struct{}{
		"reversible":  {},
		"alternating": {},
	}
)

// walkable checks if an agent on foot may use the way. Explicit foot permission beats any exclusion
func walkable(tags osm.Tags) bool {
	for accessType, values := range walkFiltersInclude {
		if _, ok := values[tags.Find(accessType.String())]; ok {
			return true
		}
	}
	for accessType, values := range walkFiltersExclude {
		if _, ok := values[tags.Find(accessType.String())]; ok {
			return false
		}
	}
	return true
}

// onewayForWalk returns true when the way may be walked in its direction only.
// 'oneway:foot' wins over 'oneway'; reversible ways are walkable both directions
func onewayForWalk(tags osm.Tags) bool {
	value := tags.Find("oneway:foot")
	if value == "" {
		value = tags.Find("oneway")
	}
	if _, ok := onewayReversible[value]; ok {
		return false
	}
	return value == "yes" || value == "1" || value == "true"
}
