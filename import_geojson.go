package fanfield

import (
	"fmt"
	"os"

	geojson "github.com/paulmach/go.geojson"
	"github.com/pkg/errors"
)

// ImportCandidatesFromGeoJSONFile reads Point features of a FeatureCollection as candidate locations
func ImportCandidatesFromGeoJSONFile(fileName string) ([]Location, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "File open")
	}
	return ParseCandidatesGeoJSON(data)
}

// ParseCandidatesGeoJSON reads Point features of a FeatureCollection as candidate locations.
// Identifier is taken from 'id' property or from feature id, name from 'name' property.
// Features of other geometry types are skipped
func ParseCandidatesGeoJSON(data []byte) ([]Location, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errors.Wrap(err, "Can't parse GeoJSON")
	}
	locations := make([]Location, 0, len(fc.Features))
	seen := make(map[string]struct{}, len(fc.Features))
	for i, feature := range fc.Features {
		if feature.Geometry == nil || !feature.Geometry.IsPoint() {
			continue
		}
		if len(feature.Geometry.Point) < 2 {
			return nil, fmt.Errorf("Feature #%d has bad point geometry", i)
		}
		id := featureID(feature, "id")
		if id == "" {
			id = fmt.Sprintf("feature/%d", i)
		}
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("Duplicated location id '%s'", id)
		}
		seen[id] = struct{}{}
		name, _ := feature.PropertyString("name")
		locations = append(locations, NewLocation(id, name, feature.Geometry.Point[1], feature.Geometry.Point[0]))
	}
	return locations, nil
}

// ImportLinksFromGeoJSONFile reads LineString features of a FeatureCollection as existing links
func ImportLinksFromGeoJSONFile(fileName string) ([]Link, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "File open")
	}
	return ParseLinksGeoJSON(data)
}

// ParseLinksGeoJSON reads LineString features as links between their first and last vertices.
// Endpoint identifiers are taken from 'from' and 'to' properties when present
func ParseLinksGeoJSON(data []byte) ([]Link, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errors.Wrap(err, "Can't parse GeoJSON")
	}
	links := make([]Link, 0, len(fc.Features))
	for i, feature := range fc.Features {
		if feature.Geometry == nil || !feature.Geometry.IsLineString() {
			continue
		}
		line := feature.Geometry.LineString
		if len(line) < 2 || len(line[0]) < 2 || len(line[len(line)-1]) < 2 {
			return nil, fmt.Errorf("Feature #%d has bad linestring geometry", i)
		}
		first, last := line[0], line[len(line)-1]
		fromID, _ := feature.PropertyString("from")
		toID, _ := feature.PropertyString("to")
		description, _ := feature.PropertyString("description")
		kind := LINK_KIND_OTHER
		if kindText, err := feature.PropertyString("kind"); err == nil {
			kind, err = ParseLinkKind(kindText)
			if err != nil {
				return nil, errors.Wrapf(err, "Feature #%d", i)
			}
		}
		order := 0
		if value, err := feature.PropertyFloat64("order"); err == nil {
			order = int(value)
		}
		links = append(links, Link{
			From:        NewLocation(fromID, "", first[1], first[0]),
			To:          NewLocation(toID, "", last[1], last[0]),
			Order:       order,
			Kind:        kind,
			Description: description,
		})
	}
	return links, nil
}

func featureID(feature *geojson.Feature, property string) string {
	if id, err := feature.PropertyString(property); err == nil && id != "" {
		return id
	}
	switch id := feature.ID.(type) {
	case string:
		return id
	case float64:
		return fmt.Sprintf("%d", int64(id))
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", id)
	}
}
