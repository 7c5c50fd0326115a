package fanfield

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Location representation of a named point on the map.
// Point keeps longitude as X and latitude as Y (orb convention)
type Location struct {
	ID    string
	Name  string
	Point orb.Point
}

// NewLocation returns location for given identifier and coordinates (degrees)
func NewLocation(id, name string, lat, lng float64) Location {
	return Location{
		ID:    id,
		Name:  name,
		Point: orb.Point{lng, lat},
	}
}

// Lat returns latitude (degrees)
func (loc Location) Lat() float64 {
	return loc.Point.Lat()
}

// Lng returns longitude (degrees)
func (loc Location) Lng() float64 {
	return loc.Point.Lon()
}

// String returns pretty printed value for Location
func (loc Location) String() string {
	if loc.Name != "" {
		return fmt.Sprintf("%s (%s) | Lat: %f | Lng: %f", loc.Name, loc.ID, loc.Lat(), loc.Lng())
	}
	return fmt.Sprintf("%s | Lat: %f | Lng: %f", loc.ID, loc.Lat(), loc.Lng())
}

// SameAs checks identity of two locations. Locations without identifier are compared by coordinates
func (loc Location) SameAs(other Location) bool {
	if loc.ID != "" || other.ID != "" {
		return loc.ID == other.ID
	}
	return loc.Point == other.Point
}

// samePlace is looser than SameAs: same identifier or the very same coordinates
func samePlace(p, q Location) bool {
	if p.ID != "" && p.ID == q.ID {
		return true
	}
	return p.Point == q.Point
}

type locationJSON struct {
	ID   string  `json:"id"`
	Name string  `json:"name,omitempty"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// MarshalJSON encodes location as flat object {id, name, lat, lng}
func (loc Location) MarshalJSON() ([]byte, error) {
	return json.Marshal(locationJSON{
		ID:   loc.ID,
		Name: loc.Name,
		Lat:  loc.Lat(),
		Lng:  loc.Lng(),
	})
}

// UnmarshalJSON decodes location from flat object {id, name, lat, lng}
func (loc *Location) UnmarshalJSON(data []byte) error {
	var raw locationJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*loc = NewLocation(raw.ID, raw.Name, raw.Lat, raw.Lng)
	return nil
}

// LinkKind is the role of a link inside a plan
type LinkKind uint16

const (
	LINK_KIND_OTHER = LinkKind(iota)
	LINK_KIND_FAN
	LINK_KIND_SUBFIELD
)

func (iotaIdx LinkKind) String() string {
	return [...]string{"other", "fan", "subfield"}[iotaIdx]
}

// MarshalText implements encoding.TextMarshaler
func (iotaIdx LinkKind) MarshalText() ([]byte, error) {
	return []byte(iotaIdx.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (iotaIdx *LinkKind) UnmarshalText(text []byte) error {
	kind, err := ParseLinkKind(string(text))
	if err != nil {
		return err
	}
	*iotaIdx = kind
	return nil
}

// ParseLinkKind returns link kind for its text representation
func ParseLinkKind(text string) (LinkKind, error) {
	switch text {
	case "", "other":
		return LINK_KIND_OTHER, nil
	case "fan":
		return LINK_KIND_FAN, nil
	case "subfield":
		return LINK_KIND_SUBFIELD, nil
	default:
		return LINK_KIND_OTHER, fmt.Errorf("Unknown link kind '%s'", text)
	}
}

const (
	// DescriptionFan is attached to every link going to the anchor
	DescriptionFan = "fan anchor"
	// DescriptionSubfield is attached to every link between two fan locations
	DescriptionSubfield = "fan subfield"
)

// Link directed link between two locations
type Link struct {
	From        Location `json:"from"`
	To          Location `json:"to"`
	Order       int      `json:"order"`
	Kind        LinkKind `json:"kind"`
	Description string   `json:"description,omitempty"`
}

// Segment returns geometry of the link
func (link Link) Segment() Segment {
	return Segment{A: link.From, B: link.To}
}

// LengthMeters returns geodesic length of the link
func (link Link) LengthMeters() float64 {
	return geo.Distance(link.From.Point, link.To.Point)
}

func (link Link) String() string {
	return fmt.Sprintf("#%d %s: %s -> %s", link.Order, link.Kind, link.From.ID, link.To.ID)
}
