package fanfield

import (
	"sort"
)

// CollisionPolicy decides what happens when two locations produce the very same bearing
type CollisionPolicy uint16

const (
	// COLLISION_OVERWRITE keeps only the location inserted last for a bearing
	COLLISION_OVERWRITE = CollisionPolicy(iota)
	// COLLISION_KEEP_ALL keys entries by (bearing, location ID) so nothing is lost
	COLLISION_KEEP_ALL
)

func (iotaIdx CollisionPolicy) String() string {
	return [...]string{"overwrite", "keep_all"}[iotaIdx]
}

// AngleEntry is a location with its (possibly rotated) bearing from the anchor
type AngleEntry struct {
	Angle    float64  `json:"angle"`
	Location Location `json:"location"`
}

// AngleTable maps bearings to locations for a single planning run
type AngleTable struct {
	policy  CollisionPolicy
	byAngle map[float64]int
	entries []AngleEntry
	dropped []Location
}

// NewAngleTable returns empty table with given collision policy
func NewAngleTable(policy CollisionPolicy) *AngleTable {
	return &AngleTable{
		policy:  policy,
		byAngle: make(map[float64]int),
	}
}

// Insert puts location into the table. Returns false when insertion has replaced an earlier location
func (table *AngleTable) Insert(angle float64, loc Location) bool {
	if table.policy == COLLISION_OVERWRITE {
		if idx, ok := table.byAngle[angle]; ok {
			table.dropped = append(table.dropped, table.entries[idx].Location)
			table.entries[idx].Location = loc
			return false
		}
		table.byAngle[angle] = len(table.entries)
	}
	table.entries = append(table.entries, AngleEntry{Angle: angle, Location: loc})
	return true
}

// Len returns number of entries
func (table *AngleTable) Len() int {
	return len(table.entries)
}

// Dropped returns locations lost due bearing collisions
func (table *AngleTable) Dropped() []Location {
	return table.dropped
}

// Sorted returns entries by ascending bearing. Ties (possible with COLLISION_KEEP_ALL only) are ordered by location ID.
// Returned slice is a copy
func (table *AngleTable) Sorted() []AngleEntry {
	sorted := make([]AngleEntry, len(table.entries))
	copy(sorted, table.entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Angle != sorted[j].Angle {
			return sorted[i].Angle < sorted[j].Angle
		}
		return sorted[i].Location.ID < sorted[j].Location.ID
	})
	return sorted
}
