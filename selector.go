package fanfield

import (
	"fmt"
	"math"
	"time"
)

// Selection is the outcome of angular selection
type Selection struct {
	// Entries are accepted candidates by ascending (possibly rotated) bearing
	Entries []AngleEntry
	// Clockwise is set when start has been the larger forward bearing and reversed bearings were used
	Clockwise bool
	// Inverted is set when the wedge spans more than a half turn
	Inverted bool
	// StartAngle and EndAngle are bearings of boundaries in the chosen rotation sense
	StartAngle float64
	EndAngle   float64
	// Min and Max are bounds candidates were tested against (inclusive)
	Min float64
	Max float64
	// Dropped are accepted candidates lost due bearing collisions in the angle table
	Dropped []Location
}

// Locations returns ordered locations of the selection
func (sel *Selection) Locations() []Location {
	locs := make([]Location, len(sel.Entries))
	for i := range sel.Entries {
		locs[i] = sel.Entries[i].Location
	}
	return locs
}

// Select picks candidates lying angularly between start and end as seen from anchor and orders them by bearing.
// Anchor itself is skipped even if it is present in candidates
func (planner *Planner) Select(anchor, start, end *Location, candidates []Location) (*Selection, error) {
	rc := RunContext{Anchor: anchor, Start: start, End: end}
	if missing := rc.Missing(); len(missing) > 0 {
		return nil, &MissingSelectionError{Missing: missing}
	}

	st := time.Now()
	startAngle := Bearing(*anchor, *start, false)
	endAngle := Bearing(*anchor, *end, false)
	minAngle := math.Min(startAngle, endAngle)
	maxAngle := math.Max(startAngle, endAngle)
	clockwise := false
	if startAngle != minAngle {
		clockwise = true
		startAngle = Bearing(*anchor, *start, true)
		endAngle = Bearing(*anchor, *end, true)
		minAngle = math.Min(startAngle, endAngle)
		maxAngle = math.Max(startAngle, endAngle)
	}

	// inverted wedge: candidate bearings get rotated by π, bounds stay as they are
	inverted := false
	lo, hi := minAngle, maxAngle
	if maxAngle-minAngle > math.Pi {
		inverted = true
		if planner.shortSideInversion {
			// the short side [maxAngle, 2π) + [0, minAngle] lands on [maxAngle-π, minAngle+π] once rotated by π
			lo, hi = maxAngle-math.Pi, minAngle+math.Pi
		}
	}
	if planner.verbose {
		fmt.Printf("Wedge: %f ... %f (clockwise: %t, inverted: %t, span: %f)\n", lo, hi, clockwise, inverted, maxAngle-minAngle)
	}

	table := NewAngleTable(planner.collisionPolicy)
	for _, candidate := range candidates {
		if candidate.SameAs(*anchor) {
			continue
		}
		angle := Bearing(*anchor, candidate, clockwise)
		if inverted {
			angle = rotateHalfTurn(angle)
		}
		accepted := angle >= lo && angle <= hi
		if planner.observer != nil {
			planner.observer(candidate, angle, accepted)
		}
		if !accepted {
			continue
		}
		if !table.Insert(angle, candidate) && planner.verbose {
			fmt.Printf("[WARNING]: Location '%s' has the same angle %f as previous one and replaces it\n", candidate.ID, angle)
		}
	}

	sel := &Selection{
		Entries:    table.Sorted(),
		Clockwise:  clockwise,
		Inverted:   inverted,
		StartAngle: startAngle,
		EndAngle:   endAngle,
		Min:        lo,
		Max:        hi,
		Dropped:    table.Dropped(),
	}
	if planner.verbose {
		fmt.Printf("Selected %d of %d candidates in %v\n", len(sel.Entries), len(candidates), time.Since(st))
	}
	return sel, nil
}
