package fanfield

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"github.com/pkg/errors"
)

// OSMScanner is common interface of osmxml and osmpbf scanners
type OSMScanner interface {
	Scan() bool
	Close() error
	Err() error
	Object() osm.Object
}

// newOSMScanner guesses file format by its extension
func newOSMScanner(r io.Reader, filename string) (OSMScanner, error) {
	ext := filepath.Ext(filename)
	switch ext {
	case ".osm", ".xml":
		return osmxml.New(context.Background(), r), nil
	case ".pbf":
		return osmpbf.New(context.Background(), r, 4), nil
	default:
		return nil, fmt.Errorf("File extension '%s' for file '%s' is not handled yet", ext, filename)
	}
}

// ImportCandidatesFromOSMFile reads nodes matching cfg.NodeTags as candidate locations.
// File should be either OSM XML (*.osm, *.xml) or PBF (*.osm.pbf)
func ImportCandidatesFromOSMFile(fileName string, cfg *OsmConfiguration, verbose bool) ([]Location, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "File open")
	}
	defer f.Close()
	scanner, err := newOSMScanner(f, fileName)
	if err != nil {
		return nil, err
	}
	defer scanner.Close()
	return importCandidatesOSM(scanner, cfg, verbose)
}

func importCandidatesOSM(scanner OSMScanner, cfg *OsmConfiguration, verbose bool) ([]Location, error) {
	if verbose {
		fmt.Printf("Scanning candidate nodes...")
	}
	st := time.Now()
	locations := []Location{}
	for scanner.Scan() {
		obj := scanner.Object()
		if obj.ObjectID().Type() != osm.TypeNode {
			continue
		}
		node := obj.(*osm.Node)
		if !cfg.CheckNodeTags(node.Tags) {
			continue
		}
		name := strings.TrimSpace(node.Tags.Find("name"))
		locations = append(locations, NewLocation(fmt.Sprintf("node/%d", node.ID), name, node.Lat, node.Lon))
	}
	if scanner.Err() != nil {
		return nil, errors.Wrap(scanner.Err(), "Scanner error on Nodes")
	}
	if verbose {
		fmt.Printf("Done in %v\n\tCandidates: %d\n", time.Since(st), len(locations))
	}
	return locations, nil
}
