package fanfield

import (
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
)

func TestSQLiteStoreRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fanfield.sqlite")
	store, err := OpenSQLiteStore(path)
	if err != nil {
		t.Error(err)
		return
	}
	rc := scenarioContext(NewLocation("c2", "", 1, 1.5), NewLocation("c1", "Fountain", 1, 1))
	res, err := NewPlanner().Run(rc, store)
	if err != nil {
		t.Error(err)
		return
	}
	if err = store.Close(); err != nil {
		t.Error(err)
		return
	}

	store, err = OpenSQLiteStore(path)
	if err != nil {
		t.Error(err)
		return
	}
	defer store.Close()
	links, err := store.ExistingLinks()
	if err != nil {
		t.Error(err)
		return
	}
	if len(links) != len(res.Plan.Links) {
		t.Errorf("Number of stored links must be %d, but got %d", len(res.Plan.Links), len(links))
		return
	}
	for i := range links {
		correct := res.Plan.Links[i]
		if links[i].From.ID != correct.From.ID || links[i].To.ID != correct.To.ID {
			t.Errorf("Link #%d must be %s->%s, but got %s->%s", i, correct.From.ID, correct.To.ID, links[i].From.ID, links[i].To.ID)
		}
		if links[i].Order != correct.Order || links[i].Kind != correct.Kind || links[i].Description != correct.Description {
			t.Errorf("Link #%d must be %s, but got %s", i, correct, links[i])
		}
		if links[i].From.Point != correct.From.Point || links[i].To.Point != correct.To.Point {
			t.Errorf("Link #%d coordinates must be kept", i)
		}
	}
	if links[0].From.Name != "Fountain" || links[0].To.Name != "Anchor" {
		t.Errorf("Names must be kept, but got '%s' and '%s'", links[0].From.Name, links[0].To.Name)
	}

	if err = store.ClearLinks(); err != nil {
		t.Error(err)
		return
	}
	links, _ = store.ExistingLinks()
	if len(links) != 0 {
		t.Errorf("Store must be empty after clear, but got %d links", len(links))
	}
}

func TestSQLiteStoreBatch(t *testing.T) {
	store, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "fanfield.sqlite"))
	if err != nil {
		t.Error(err)
		return
	}
	defer store.Close()
	link := Link{From: NewLocation("b", "", 1, 1), To: NewLocation("a", "", 0, 0), Order: 1, Kind: LINK_KIND_FAN}

	if err = store.BeginBatch(); err != nil {
		t.Error(err)
		return
	}
	if err = store.BeginBatch(); err != ErrBatchOpen {
		t.Errorf("Second BeginBatch must return ErrBatchOpen, but got %v", err)
	}
	if err = store.AddLink(link); err != nil {
		t.Error(err)
		return
	}
	if _, err = store.ExistingLinks(); errors.Cause(err) != ErrBatchOpen {
		t.Errorf("Reading links during batch must fail with ErrBatchOpen, but got %v", err)
	}
	if err = store.AbortBatch(); err != nil {
		t.Error(err)
		return
	}
	links, _ := store.ExistingLinks()
	if len(links) != 0 {
		t.Errorf("Aborted batch must leave nothing, but got %d links", len(links))
	}

	_ = store.BeginBatch()
	_ = store.AddLink(link)
	if err = store.EndBatch(); err != nil {
		t.Error(err)
		return
	}
	if err = store.EndBatch(); err != ErrNoBatch {
		t.Errorf("EndBatch without batch must return ErrNoBatch, but got %v", err)
	}
	links, _ = store.ExistingLinks()
	if len(links) != 1 {
		t.Errorf("Number of stored links must be %d, but got %d", 1, len(links))
	}
}

func TestSQLiteStoreSelection(t *testing.T) {
	store, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "fanfield.sqlite"))
	if err != nil {
		t.Error(err)
		return
	}
	defer store.Close()

	loc, err := store.LoadSelection(SelectionAnchor)
	if err != nil || loc != nil {
		t.Errorf("Absent selection must be nil without error, but got %v, %v", loc, err)
	}
	_ = store.SaveSelection(SelectionAnchor, NewLocation("a", "Anchor", 1, 2))
	_ = store.SaveSelection(SelectionAnchor, NewLocation("b", "Bridge", 3, 4))
	loc, err = store.LoadSelection(SelectionAnchor)
	if err != nil {
		t.Error(err)
		return
	}
	if loc == nil || loc.ID != "b" || loc.Name != "Bridge" || loc.Lat() != 3 || loc.Lng() != 4 {
		t.Errorf("Selection must be the last saved one, but got %v", loc)
	}
}
