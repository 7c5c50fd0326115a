package fanfield

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/LdDl/ch"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/osm"
	"github.com/pkg/errors"
)

// RoadNetwork is a walkable graph prepared with contraction hierarchies
type RoadNetwork struct {
	graph    *ch.Graph
	vertices map[int64]orb.Point
}

// roadWay is a filtered OSM way
type roadWay struct {
	ID     osm.WayID
	Nodes  []osm.NodeID
	Oneway bool
}

// LoadRoadNetwork imports ways tagged with cfg.EntityName (one of cfg.Tags) from OSM file
func LoadRoadNetwork(fileName string, cfg *OsmConfiguration, verbose bool) (*RoadNetwork, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "File open")
	}
	defer f.Close()
	return ReadRoadNetwork(f, fileName, cfg, verbose)
}

// ReadRoadNetwork imports road network from OSM data. Name is used to guess format only.
// Data is scanned twice (ways, then nodes) so reader must be seekable
func ReadRoadNetwork(r io.ReadSeeker, name string, cfg *OsmConfiguration, verbose bool) (*RoadNetwork, error) {
	scannerWays, err := newOSMScanner(r, name)
	if err != nil {
		return nil, err
	}
	defer scannerWays.Close()

	if verbose {
		fmt.Printf("Scanning ways...")
	}
	st := time.Now()
	ways := []roadWay{}
	nodesSeen := make(map[osm.NodeID]struct{})
	for scannerWays.Scan() {
		obj := scannerWays.Object()
		if obj.ObjectID().Type() != osm.TypeWay {
			continue
		}
		way := obj.(*osm.Way)
		tag := way.Tags.Find(cfg.EntityName)
		if tag == "" || !cfg.CheckTag(tag) || !walkable(way.Tags) {
			continue
		}
		preparedWay := roadWay{
			ID:     way.ID,
			Nodes:  make([]osm.NodeID, 0, len(way.Nodes)),
			Oneway: onewayForWalk(way.Tags),
		}
		for _, node := range way.Nodes {
			preparedWay.Nodes = append(preparedWay.Nodes, node.ID)
			nodesSeen[node.ID] = struct{}{}
		}
		ways = append(ways, preparedWay)
	}
	if scannerWays.Err() != nil {
		return nil, errors.Wrap(scannerWays.Err(), "Scanner error on Ways")
	}
	if verbose {
		fmt.Printf("Done in %v\n\tWays: %d\n", time.Since(st), len(ways))
	}

	// Seek file to start
	_, err = r.Seek(0, io.SeekStart)
	if err != nil {
		return nil, errors.Wrap(err, "Can't repeat seeking")
	}
	scannerNodes, err := newOSMScanner(r, name)
	if err != nil {
		return nil, err
	}
	defer scannerNodes.Close()

	if verbose {
		fmt.Printf("Scanning nodes...")
	}
	st = time.Now()
	network := &RoadNetwork{
		graph:    &ch.Graph{},
		vertices: make(map[int64]orb.Point, len(nodesSeen)),
	}
	for scannerNodes.Scan() {
		obj := scannerNodes.Object()
		if obj.ObjectID().Type() != osm.TypeNode {
			continue
		}
		node := obj.(*osm.Node)
		if _, ok := nodesSeen[node.ID]; ok {
			delete(nodesSeen, node.ID)
			network.vertices[int64(node.ID)] = orb.Point{node.Lon, node.Lat}
		}
	}
	if scannerNodes.Err() != nil {
		return nil, errors.Wrap(scannerNodes.Err(), "Scanner error on Nodes")
	}
	if verbose {
		fmt.Printf("Done in %v\n\tNodes: %d\n", time.Since(st), len(network.vertices))
	}

	if verbose {
		fmt.Printf("Preparing edges...")
	}
	st = time.Now()
	for label := range network.vertices {
		err = network.graph.CreateVertex(label)
		if err != nil {
			return nil, errors.Wrapf(err, "Can't create vertex %d", label)
		}
	}
	edgesNum := 0
	for _, way := range ways {
		for i := 1; i < len(way.Nodes); i++ {
			source, target := int64(way.Nodes[i-1]), int64(way.Nodes[i])
			sourcePt, okSource := network.vertices[source]
			targetPt, okTarget := network.vertices[target]
			if !okSource || !okTarget {
				return nil, fmt.Errorf("Missing node for way %d: %d -> %d", way.ID, source, target)
			}
			cost := geo.Distance(sourcePt, targetPt)
			err = network.graph.AddEdge(source, target, cost)
			if err != nil {
				return nil, errors.Wrap(err, "Can't wrap Source and Target vertices as Edge")
			}
			edgesNum++
			if !way.Oneway {
				err = network.graph.AddEdge(target, source, cost)
				if err != nil {
					return nil, errors.Wrap(err, "Can't wrap Target and Source vertices as Edge")
				}
				edgesNum++
			}
		}
	}
	if verbose {
		fmt.Printf("Done in %v\n\tEdges: %d\n", time.Since(st), edgesNum)
		fmt.Printf("Starting contraction process...")
	}
	st = time.Now()
	network.graph.PrepareContractionHierarchies()
	if verbose {
		fmt.Printf("Done in %v\n", time.Since(st))
	}
	return network, nil
}

// VerticesNum returns number of vertices in the network
func (network *RoadNetwork) VerticesNum() int {
	return len(network.vertices)
}

// nearestVertex returns closest network vertex and distance to it (meters)
func (network *RoadNetwork) nearestVertex(pt orb.Point) (int64, float64, bool) {
	best := int64(-1)
	bestDist := 0.0
	found := false
	for label, vertex := range network.vertices {
		dist := geo.Distance(pt, vertex)
		if !found || dist < bestDist || (dist == bestDist && label < best) {
			best, bestDist, found = label, dist, true
		}
	}
	return best, bestDist, found
}

// RouteLeg is a walk between two consecutive stops
type RouteLeg struct {
	From      Location `json:"from"`
	To        Location `json:"to"`
	Meters    float64  `json:"meters"`
	Reachable bool     `json:"reachable"`
}

// RouteEstimate is a walk visiting every fan location in throw order
type RouteEstimate struct {
	Legs        []RouteLeg `json:"legs"`
	TotalMeters float64    `json:"total_meters"`
	Unreachable int        `json:"unreachable"`
}

// EstimateRoute walks through sources of fan links in the order they appear in the plan.
// Every stop is snapped to the nearest network vertex and snapping distance is added to the leg
func (network *RoadNetwork) EstimateRoute(plan *LinkPlan) (*RouteEstimate, error) {
	stops := []Location{}
	for _, link := range plan.Links {
		if link.Kind == LINK_KIND_FAN {
			stops = append(stops, link.From)
		}
	}
	estimate := &RouteEstimate{
		Legs: make([]RouteLeg, 0, len(stops)),
	}
	if len(stops) < 2 {
		return estimate, nil
	}
	if len(network.vertices) == 0 {
		return nil, errors.New("Road network is empty")
	}
	for i := 1; i < len(stops); i++ {
		leg := network.leg(stops[i-1], stops[i])
		estimate.Legs = append(estimate.Legs, leg)
		if !leg.Reachable {
			estimate.Unreachable++
			continue
		}
		estimate.TotalMeters += leg.Meters
	}
	return estimate, nil
}

func (network *RoadNetwork) leg(from, to Location) RouteLeg {
	leg := RouteLeg{From: from, To: to}
	source, sourceSnap, _ := network.nearestVertex(from.Point)
	target, targetSnap, _ := network.nearestVertex(to.Point)
	if source == target {
		leg.Meters = geo.Distance(from.Point, to.Point)
		leg.Reachable = true
		return leg
	}
	cost, _ := network.graph.ShortestPath(source, target)
	if cost < 0 {
		return leg
	}
	leg.Meters = sourceSnap + cost + targetSnap
	leg.Reachable = true
	return leg
}
