package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/LdDl/fanfield"
	"github.com/pkg/errors"
)

var (
	configFile     = flag.String("config", "", "Run file (YAML). Flags below override its values")
	printConfig    = flag.Bool("print-config", false, "Print run file template and exit")
	candidatesFile = flag.String("candidates", "", "Candidate locations: *.geojson / *.csv (id;name;lat;lon) / *.osm / *.osm.pbf")
	candidateTags  = flag.String("tags", "", "Node tags for OSM candidates (separated by commas). E.g.: historic,tourism=artwork")
	linksFile      = flag.String("links", "", "Existing links (GeoJSON LineStrings) imported into the store before planning")
	anchorID       = flag.String("anchor", "", "Anchor location ID")
	startID        = flag.String("start", "", "Start location ID")
	endID          = flag.String("end", "", "End location ID")
	dbFile         = flag.String("db", "", "SQLite file keeping links and last selection. Empty means in-memory run")
	clearLinks     = flag.Bool("clear", false, "Remove all links from database before planning")
	out            = flag.String("out", "", "Output plan: *.geojson or *.csv (WKT geometry)")
	debugOut       = flag.String("debug", "", "Output GeoJSON file with angles of evaluated candidates")
	roadsFile      = flag.String("roads", "", "OSM file with road network for route estimate")
	intersector    = flag.String("intersector", "", "Crossing test. Expected values: great_circle / planar / web_mercator")
	keepAll        = flag.Bool("keep-all", false, "Keep all candidates sharing exactly the same angle")
	scanOrder      = flag.String("scan", "", "Subfield scan order. Expected values: nearest_first / from_first")
	shortSide      = flag.Bool("short-side", false, "For wedges wider than half a turn select only the short side between start and end")
	verbose        = flag.Bool("verbose", false, "Print progress")
)

func main() {
	flag.Parse()

	if *printConfig {
		fmt.Print(fanfield.DefaultRunConfigYAML())
		return
	}

	cfg, err := prepareConfig()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	err = run(cfg)
	if err != nil {
		if fanfield.IsMissingSelection(err) {
			fmt.Println(errors.Cause(err))
			os.Exit(2)
		}
		fmt.Println(err)
		os.Exit(1)
	}
}

func prepareConfig() (*fanfield.RunConfig, error) {
	cfg := fanfield.DefaultRunConfig()
	if *configFile != "" {
		loaded, err := fanfield.LoadRunConfig(*configFile)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	}
	override := func(dst *string, value string) {
		if value != "" {
			*dst = value
		}
	}
	override(&cfg.Candidates, *candidatesFile)
	override(&cfg.Links, *linksFile)
	override(&cfg.Anchor, *anchorID)
	override(&cfg.Start, *startID)
	override(&cfg.End, *endID)
	override(&cfg.Database, *dbFile)
	override(&cfg.Output, *out)
	override(&cfg.DebugOutput, *debugOut)
	override(&cfg.Roads, *roadsFile)
	override(&cfg.Planner.Intersector, *intersector)
	override(&cfg.Planner.Scan, *scanOrder)
	if *candidateTags != "" {
		cfg.CandidateTags = strings.Split(*candidateTags, ",")
	}
	if *keepAll {
		cfg.Planner.Collisions = "keep_all"
	}
	if *shortSide {
		cfg.Planner.ShortSideInversion = true
	}
	if cfg.Candidates == "" {
		return nil, errors.New("Candidates file is not set")
	}
	return &cfg, nil
}

// linkSink is a store keeping both links and selection
type linkSink interface {
	fanfield.LinkStore
	fanfield.SelectionStore
}

type memorySink struct {
	*fanfield.MemoryStore
	*fanfield.MemorySelectionStore
}

func run(cfg *fanfield.RunConfig) error {
	osmCfg := cfg.OsmConfiguration()

	st := time.Now()
	candidates, err := fanfield.ImportCandidates(cfg.Candidates, osmCfg, *verbose)
	if err != nil {
		return errors.Wrap(err, "Can't import candidates")
	}
	if *verbose {
		fmt.Printf("Imported %d candidates in %v\n", len(candidates), time.Since(st))
	}

	var sink linkSink
	if cfg.Database != "" {
		sqliteStore, err := fanfield.OpenSQLiteStore(cfg.Database)
		if err != nil {
			return errors.Wrap(err, "Can't open database")
		}
		defer sqliteStore.Close()
		sink = sqliteStore
	} else {
		sink = memorySink{fanfield.NewMemoryStore(), fanfield.NewMemorySelectionStore()}
	}
	if *clearLinks {
		err = sink.ClearLinks()
		if err != nil {
			return errors.Wrap(err, "Can't clear links")
		}
	}
	if cfg.Links != "" {
		existing, err := fanfield.ImportLinksFromGeoJSONFile(cfg.Links)
		if err != nil {
			return errors.Wrap(err, "Can't import existing links")
		}
		for _, link := range existing {
			err = sink.AddLink(link)
			if err != nil {
				return errors.Wrap(err, "Can't store existing link")
			}
		}
	}

	// Selection given by identifiers is remembered, absent one is taken from previous runs
	selected := fanfield.RunContext{}
	for _, target := range []struct {
		id  string
		dst **fanfield.Location
	}{
		{cfg.Anchor, &selected.Anchor},
		{cfg.Start, &selected.Start},
		{cfg.End, &selected.End},
	} {
		if target.id == "" {
			continue
		}
		loc, err := fanfield.FindLocation(candidates, target.id)
		if err != nil {
			return errors.Wrap(err, "Can't find selected location among candidates")
		}
		*target.dst = loc
	}
	err = fanfield.SaveRunContext(sink, selected)
	if err != nil {
		return err
	}
	rc, err := fanfield.LoadRunContext(sink, candidates)
	if err != nil {
		return err
	}

	plannerOptions, err := cfg.Planner.Options()
	if err != nil {
		return err
	}
	plannerOptions = append(plannerOptions, fanfield.WithVerbose(*verbose))
	var debugLayer *fanfield.DebugLayer
	if cfg.DebugOutput != "" {
		debugLayer = &fanfield.DebugLayer{}
		plannerOptions = append(plannerOptions, fanfield.WithCandidateObserver(debugLayer.Observe))
	}
	planner := fanfield.NewPlanner(plannerOptions...)

	res, err := planner.Run(rc, sink)
	if err != nil {
		return err
	}
	fmt.Println(res.Plan.Summary)
	if len(res.Selection.Dropped) > 0 {
		fmt.Printf("Warning: %d location(s) lost due to equal angles\n", len(res.Selection.Dropped))
	}

	if cfg.Output != "" {
		err = fanfield.ExportPlan(res.Plan, cfg.Output)
		if err != nil {
			return errors.Wrap(err, "Can't export plan")
		}
	}
	if debugLayer != nil {
		err = fanfield.ExportDebugLayerToGeoJSON(debugLayer, cfg.DebugOutput)
		if err != nil {
			return errors.Wrap(err, "Can't export debug layer")
		}
	}

	if cfg.Roads != "" {
		network, err := fanfield.LoadRoadNetwork(cfg.Roads, osmCfg, *verbose)
		if err != nil {
			return errors.Wrap(err, "Can't load road network")
		}
		estimate, err := network.EstimateRoute(res.Plan)
		if err != nil {
			return errors.Wrap(err, "Can't estimate route")
		}
		fmt.Printf("Route through %d fan locations: %.0f meters", len(estimate.Legs)+1, estimate.TotalMeters)
		if estimate.Unreachable > 0 {
			fmt.Printf(" (%d legs unreachable)", estimate.Unreachable)
		}
		fmt.Println()
	}
	return nil
}
