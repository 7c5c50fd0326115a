package fanfield

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	geojson "github.com/paulmach/go.geojson"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/pkg/errors"
)

// CandidateEvaluation is a single record of the debug angle layer
type CandidateEvaluation struct {
	Location Location
	Angle    float64
	Accepted bool
}

// DebugLayer collects candidate evaluations. Its Observe method is a CandidateObserver
type DebugLayer struct {
	Evaluations []CandidateEvaluation
}

// Observe records evaluation of a candidate
func (layer *DebugLayer) Observe(loc Location, angle float64, accepted bool) {
	layer.Evaluations = append(layer.Evaluations, CandidateEvaluation{Location: loc, Angle: angle, Accepted: accepted})
}

// PrepareGeoJSONLinestring returns GeoJSON feature of a link
func PrepareGeoJSONLinestring(link Link) *geojson.Feature {
	feature := geojson.NewLineStringFeature([][]float64{
		{link.From.Lng(), link.From.Lat()},
		{link.To.Lng(), link.To.Lat()},
	})
	feature.SetProperty("from", link.From.ID)
	feature.SetProperty("to", link.To.ID)
	feature.SetProperty("order", link.Order)
	feature.SetProperty("kind", link.Kind.String())
	feature.SetProperty("description", link.Description)
	feature.SetProperty("length_m", link.LengthMeters())
	return feature
}

// PlanToGeoJSON returns FeatureCollection with a LineString per link
func PlanToGeoJSON(plan *LinkPlan) ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	for _, link := range plan.Links {
		fc.AddFeature(PrepareGeoJSONLinestring(link))
	}
	b, err := fc.MarshalJSON()
	if err != nil {
		return nil, errors.Wrap(err, "Can't convert plan to geojson format")
	}
	return b, nil
}

// DebugLayerToGeoJSON returns FeatureCollection of evaluated candidates labeled with their angles
func DebugLayerToGeoJSON(layer *DebugLayer) ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	for _, eval := range layer.Evaluations {
		feature := geojson.NewPointFeature([]float64{eval.Location.Lng(), eval.Location.Lat()})
		feature.ID = eval.Location.ID
		feature.SetProperty("name", eval.Location.Name)
		feature.SetProperty("angle", eval.Angle)
		feature.SetProperty("label", fmt.Sprintf("%f", eval.Angle))
		feature.SetProperty("accepted", eval.Accepted)
		fc.AddFeature(feature)
	}
	b, err := fc.MarshalJSON()
	if err != nil {
		return nil, errors.Wrap(err, "Can't convert debug layer to geojson format")
	}
	return b, nil
}

// ExportPlanToGeoJSON writes plan as GeoJSON file
func ExportPlanToGeoJSON(plan *LinkPlan, fname string) error {
	b, err := PlanToGeoJSON(plan)
	if err != nil {
		return err
	}
	err = os.WriteFile(fname, b, 0644)
	if err != nil {
		return errors.Wrap(err, "Can't write file")
	}
	return nil
}

// ExportDebugLayerToGeoJSON writes debug angle layer as GeoJSON file
func ExportDebugLayerToGeoJSON(layer *DebugLayer, fname string) error {
	b, err := DebugLayerToGeoJSON(layer)
	if err != nil {
		return err
	}
	err = os.WriteFile(fname, b, 0644)
	if err != nil {
		return errors.Wrap(err, "Can't write file")
	}
	return nil
}

// ExportPlanToCSV writes plan as 'Comma-Separated Values' file with ';' separator and WKT geometry
func ExportPlanToCSV(plan *LinkPlan, fname string) error {
	file, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()
	writer.Comma = ';'

	err = writer.Write([]string{"order", "kind", "from_id", "from_name", "to_id", "to_name", "description", "length_meters", "geom"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}
	for _, link := range plan.Links {
		err = writer.Write([]string{
			fmt.Sprintf("%d", link.Order),
			link.Kind.String(),
			link.From.ID,
			link.From.Name,
			link.To.ID,
			link.To.Name,
			link.Description,
			fmt.Sprintf("%f", link.LengthMeters()),
			wkt.MarshalString(link.Segment().LineString()),
		})
		if err != nil {
			return errors.Wrap(err, "Can't write link")
		}
	}
	return nil
}

// ExportPlan picks writer by file extension: CSV (*.csv) or GeoJSON otherwise
func ExportPlan(plan *LinkPlan, fname string) error {
	if strings.HasSuffix(strings.ToLower(fname), ".csv") {
		return ExportPlanToCSV(plan, fname)
	}
	return ExportPlanToGeoJSON(plan, fname)
}
