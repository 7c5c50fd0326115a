package fanfield

import (
	"testing"
)

func TestAngleTableOverwrite(t *testing.T) {
	table := NewAngleTable(COLLISION_OVERWRITE)
	table.Insert(2.0, NewLocation("b", "", 0, 0))
	table.Insert(1.0, NewLocation("a", "", 0, 0))
	if !table.Insert(3.0, NewLocation("c", "", 0, 0)) {
		t.Errorf("Insertion of new angle must be reported as non-overwriting")
	}
	if table.Insert(2.0, NewLocation("d", "", 0, 0)) {
		t.Errorf("Insertion of existing angle must be reported as overwriting")
	}
	if table.Len() != 3 {
		t.Errorf("Table length must be %d, but got %d", 3, table.Len())
	}
	correctIDs := []string{"a", "d", "c"}
	sorted := table.Sorted()
	for i := range sorted {
		if sorted[i].Location.ID != correctIDs[i] {
			t.Errorf("Entry #%d must be '%s', but got '%s'", i, correctIDs[i], sorted[i].Location.ID)
		}
	}
	dropped := table.Dropped()
	if len(dropped) != 1 || dropped[0].ID != "b" {
		t.Errorf("Dropped locations must be [b], but got %v", dropped)
	}
}

func TestAngleTableKeepAll(t *testing.T) {
	table := NewAngleTable(COLLISION_KEEP_ALL)
	table.Insert(2.0, NewLocation("z", "", 0, 0))
	table.Insert(2.0, NewLocation("y", "", 0, 0))
	table.Insert(1.0, NewLocation("x", "", 0, 0))
	if table.Len() != 3 {
		t.Errorf("Table length must be %d, but got %d", 3, table.Len())
	}
	if len(table.Dropped()) != 0 {
		t.Errorf("Nothing must be dropped, but got %v", table.Dropped())
	}
	correctIDs := []string{"x", "y", "z"}
	sorted := table.Sorted()
	for i := range sorted {
		if sorted[i].Location.ID != correctIDs[i] {
			t.Errorf("Entry #%d must be '%s', but got '%s'", i, correctIDs[i], sorted[i].Location.ID)
		}
	}
}
