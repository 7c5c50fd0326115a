package fanfield

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ImportCandidatesFromCSVFile reads candidate locations from 'Comma-Separated Values' file with ';' separator.
// Columns: id;name;lat;lon. Header row is optional
func ImportCandidatesFromCSVFile(fileName string) ([]Location, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "File open")
	}
	defer f.Close()
	return ReadCandidatesCSV(f)
}

// ReadCandidatesCSV reads candidate locations from ';' separated rows id;name;lat;lon
func ReadCandidatesCSV(r io.Reader) ([]Location, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = 4
	reader.TrimLeadingSpace = true

	locations := []Location{}
	seen := make(map[string]struct{})
	for row := 1; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "Can't read row %d", row)
		}
		if row == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "id") {
			continue
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "Bad latitude at row %d", row)
		}
		lng, err := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "Bad longitude at row %d", row)
		}
		id := strings.TrimSpace(record[0])
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("Duplicated location id '%s' at row %d", id, row)
		}
		seen[id] = struct{}{}
		locations = append(locations, NewLocation(id, strings.TrimSpace(record[1]), lat, lng))
	}
	return locations, nil
}

// ImportCandidates picks reader by file extension: GeoJSON (*.geojson, *.json), CSV (*.csv) or OSM (*.osm, *.xml, *.pbf)
func ImportCandidates(fileName string, cfg *OsmConfiguration, verbose bool) ([]Location, error) {
	lower := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lower, ".geojson"), strings.HasSuffix(lower, ".json"):
		return ImportCandidatesFromGeoJSONFile(fileName)
	case strings.HasSuffix(lower, ".csv"):
		return ImportCandidatesFromCSVFile(fileName)
	case strings.HasSuffix(lower, ".osm"), strings.HasSuffix(lower, ".xml"), strings.HasSuffix(lower, ".pbf"):
		return ImportCandidatesFromOSMFile(fileName, cfg, verbose)
	default:
		return nil, fmt.Errorf("Can't guess format of candidates file '%s'", fileName)
	}
}

// FindLocation returns location with given identifier
func FindLocation(locations []Location, id string) (*Location, error) {
	for i := range locations {
		if locations[i].ID == id {
			loc := locations[i]
			return &loc, nil
		}
	}
	return nil, errors.Wrapf(ErrNotFound, "Location '%s'", id)
}
