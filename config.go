package fanfield

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const defaultRunConfigYAML = `# fanfield run configuration
version: 1

# Candidate locations: GeoJSON (*.geojson), CSV (id;name;lat;lon) or OSM (*.osm, *.osm.pbf)
candidates: portals.geojson
# Node tags used when candidates come from OSM file
candidate_tags:
  - historic
  - tourism=artwork

# Existing links (GeoJSON LineStrings) to be avoided
links: ""

# Location identifiers. Empty values are taken from database selection
anchor: ""
start: ""
end: ""

# SQLite file keeping links and last selection. Empty means in-memory
database: ""

# Output plan: *.geojson or *.csv
output: fanfield.geojson
debug_output: ""

# Optional road network for route estimate
roads: ""

planner:
  intersector: great_circle   # great_circle / planar / web_mercator
  collisions: overwrite       # overwrite / keep_all
  scan: nearest_first         # nearest_first / from_first
  # wedges wider than half a turn: select only the short side between start and end
  short_side_inversion: false
`

// PlannerConfig holds planner options as they are written in run file
type PlannerConfig struct {
	Intersector        string `yaml:"intersector" json:"intersector"`
	Collisions         string `yaml:"collisions" json:"collisions"`
	Scan               string `yaml:"scan" json:"scan"`
	ShortSideInversion bool   `yaml:"short_side_inversion" json:"short_side_inversion"`
}

// RunConfig models run file of fanfield CLI
type RunConfig struct {
	Version       int           `yaml:"version"`
	Candidates    string        `yaml:"candidates"`
	CandidateTags []string      `yaml:"candidate_tags"`
	Links         string        `yaml:"links"`
	Anchor        string        `yaml:"anchor"`
	Start         string        `yaml:"start"`
	End           string        `yaml:"end"`
	Database      string        `yaml:"database"`
	Output        string        `yaml:"output"`
	DebugOutput   string        `yaml:"debug_output"`
	Roads         string        `yaml:"roads"`
	RoadTags      []string      `yaml:"road_tags"`
	Planner       PlannerConfig `yaml:"planner"`
}

// DefaultRunConfig returns configuration used when no run file is given
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Version:       1,
		CandidateTags: append([]string{}, DefaultNodeTags...),
		Output:        "fanfield.geojson",
		RoadTags:      append([]string{}, DefaultRoadTags...),
		Planner: PlannerConfig{
			Intersector: "great_circle",
			Collisions:  "overwrite",
			Scan:        "nearest_first",
		},
	}
}

// DefaultRunConfigYAML returns commented template of run file
func DefaultRunConfigYAML() string {
	return defaultRunConfigYAML
}

// LoadRunConfig reads run file. Fields absent in file keep their default values
func LoadRunConfig(fname string) (*RunConfig, error) {
	cfg := DefaultRunConfig()
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, errors.Wrap(err, "Can't read run file")
	}
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, errors.Wrap(err, "Can't parse run file")
	}
	if cfg.Version != 1 {
		return nil, fmt.Errorf("Unsupported run file version %d", cfg.Version)
	}
	if _, err = cfg.Planner.Options(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// OsmConfiguration returns OSM filters for candidates and road network
func (cfg *RunConfig) OsmConfiguration() *OsmConfiguration {
	return &OsmConfiguration{
		EntityName: "highway",
		Tags:       cfg.RoadTags,
		NodeTags:   cfg.CandidateTags,
	}
}

// Options converts planner section into planner options
func (pc PlannerConfig) Options() ([]func(*Planner), error) {
	options := []func(*Planner){}
	switch pc.Intersector {
	case "", "great_circle":
		options = append(options, WithIntersector(GreatCircleIntersects))
	case "planar":
		options = append(options, WithIntersector(PlanarIntersects))
	case "web_mercator":
		options = append(options, WithIntersector(WebMercatorIntersects))
	default:
		return nil, fmt.Errorf("Unknown intersector '%s'", pc.Intersector)
	}
	switch pc.Collisions {
	case "", "overwrite":
		options = append(options, WithCollisionPolicy(COLLISION_OVERWRITE))
	case "keep_all":
		options = append(options, WithCollisionPolicy(COLLISION_KEEP_ALL))
	default:
		return nil, fmt.Errorf("Unknown collision policy '%s'", pc.Collisions)
	}
	switch pc.Scan {
	case "", "nearest_first":
		options = append(options, WithScanOrder(SCAN_NEAREST_FIRST))
	case "from_first":
		options = append(options, WithScanOrder(SCAN_FROM_FIRST))
	default:
		return nil, fmt.Errorf("Unknown scan order '%s'", pc.Scan)
	}
	options = append(options, WithShortSideInversion(pc.ShortSideInversion))
	return options, nil
}
