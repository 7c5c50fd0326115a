package fanfield

import (
	"fmt"
	"math/rand"
	"testing"
)

func scenarioContext(candidates ...Location) RunContext {
	anchor := NewLocation("a", "Anchor", 0, 0)
	start := NewLocation("s", "Start", 1, 0)
	end := NewLocation("e", "End", 1, 2)
	return RunContext{
		Anchor:     &anchor,
		Start:      &start,
		End:        &end,
		Candidates: candidates,
	}
}

func TestBuildSingleCandidate(t *testing.T) {
	rc := scenarioContext(NewLocation("c1", "", 1, 1))
	res, err := NewPlanner().Plan(rc, nil)
	if err != nil {
		t.Error(err)
		return
	}
	plan := res.Plan
	if len(plan.Links) != 1 {
		t.Errorf("Number of links must be %d, but got %d", 1, len(plan.Links))
		return
	}
	link := plan.Links[0]
	if link.From.ID != "c1" || link.To.ID != "a" || link.Order != 1 || link.Kind != LINK_KIND_FAN {
		t.Errorf("Link must be fan link c1->a with order 1, but got %s", link)
	}
	if link.Description != DescriptionFan {
		t.Errorf("Link description must be '%s', but got '%s'", DescriptionFan, link.Description)
	}
	if plan.Summary.EstimatedScore != 313 {
		t.Errorf("Estimated score must be %d, but got %d", 313, plan.Summary.EstimatedScore)
	}
}

func TestBuildSubfield(t *testing.T) {
	rc := scenarioContext(NewLocation("c2", "", 1, 1.5), NewLocation("c1", "", 1, 1))
	res, err := NewPlanner().Plan(rc, nil)
	if err != nil {
		t.Error(err)
		return
	}
	plan := res.Plan
	correctLinks := []struct {
		from, to string
		order    int
		kind     LinkKind
	}{
		{"c1", "a", 1, LINK_KIND_FAN},
		{"c2", "a", 2, LINK_KIND_FAN},
		{"c2", "c1", 3, LINK_KIND_SUBFIELD},
	}
	if len(plan.Links) != len(correctLinks) {
		t.Errorf("Number of links must be %d, but got %d", len(correctLinks), len(plan.Links))
		return
	}
	for i, correct := range correctLinks {
		link := plan.Links[i]
		if link.From.ID != correct.from || link.To.ID != correct.to || link.Order != correct.order || link.Kind != correct.kind {
			t.Errorf("Link #%d must be %s->%s (order %d, %s), but got %s", i, correct.from, correct.to, correct.order, correct.kind, link)
		}
	}
	if plan.Summary.FanLinkCount != 2 || plan.Summary.SubfieldLinkCount != 1 {
		t.Errorf("Summary must count 2 fan and 1 subfield links, but got %+v", plan.Summary)
	}
	if plan.Summary.EstimatedScore != 1876 {
		t.Errorf("Estimated score must be %d, but got %d", 1876, plan.Summary.EstimatedScore)
	}
	if plan.Summary.String() != "Fanfield found 2 links and 1 fields for 1876 AP" {
		t.Errorf("Unexpected summary text: %s", plan.Summary)
	}
}

func TestBuildBlockedByExisting(t *testing.T) {
	rc := scenarioContext(NewLocation("c2", "", 1, 1.5), NewLocation("c1", "", 1, 1))
	existing := []Link{
		{From: NewLocation("x1", "", 0.5, 1.25), To: NewLocation("x2", "", 1.5, 1.25), Kind: LINK_KIND_OTHER},
	}
	res, err := NewPlanner(WithIntersector(PlanarIntersects)).Plan(rc, existing)
	if err != nil {
		t.Error(err)
		return
	}
	if res.Plan.Summary.SubfieldLinkCount != 0 {
		t.Errorf("Subfield crossing existing link must be rejected, but got %d subfield links", res.Plan.Summary.SubfieldLinkCount)
	}
	if res.Plan.Summary.EstimatedScore != 626 {
		t.Errorf("Estimated score must be %d, but got %d", 626, res.Plan.Summary.EstimatedScore)
	}
}

func TestBuildEmpty(t *testing.T) {
	plan := NewPlanner().Build(nil, NewLocation("a", "", 0, 0), nil)
	if len(plan.Links) != 0 {
		t.Errorf("Plan must be empty, but got %d links", len(plan.Links))
	}
	if plan.Summary != (PlanSummary{}) {
		t.Errorf("Summary must be zero, but got %+v", plan.Summary)
	}
}

func TestBuildScanOrder(t *testing.T) {
	anchor := NewLocation("a", "", 0, 0)
	c1 := NewLocation("c1", "", 2, -1)
	c2 := NewLocation("c2", "", 1, 0)
	c3 := NewLocation("c3", "", 2, 1)
	cases := []struct {
		scan  ScanOrder
		fifth string
		sixth string
	}{
		{SCAN_NEAREST_FIRST, "c2", "c1"},
		{SCAN_FROM_FIRST, "c1", "c2"},
	}
	for _, c := range cases {
		planner := NewPlanner(WithIntersector(PlanarIntersects), WithScanOrder(c.scan))
		sel, err := planner.Select(&anchor, &c1, &c3, []Location{c3, c2, c1})
		if err != nil {
			t.Error(err)
			return
		}
		plan := planner.Build(sel.Entries, anchor, nil)
		if len(plan.Links) != 6 {
			t.Errorf("%s: number of links must be %d, but got %d", c.scan, 6, len(plan.Links))
			continue
		}
		if plan.Links[4].To.ID != c.fifth || plan.Links[5].To.ID != c.sixth {
			t.Errorf("%s: last subfield links must end at %s and %s, but got %s and %s", c.scan, c.fifth, c.sixth, plan.Links[4].To.ID, plan.Links[5].To.ID)
		}
		if plan.Summary.EstimatedScore != Score(3, 3) {
			t.Errorf("%s: estimated score must be %d, but got %d", c.scan, Score(3, 3), plan.Summary.EstimatedScore)
		}
	}
}

func TestBuildKeepAllTiedAngles(t *testing.T) {
	anchor := NewLocation("a", "", 0, 0)
	c1 := NewLocation("c1", "", 1, 0.5)
	c2 := NewLocation("c2", "", 1, 1)
	c3 := NewLocation("c3", "", 2, 2)
	correctLinks := []struct {
		from, to string
		kind     LinkKind
	}{
		{"c1", "a", LINK_KIND_FAN},
		{"c2", "a", LINK_KIND_FAN},
		{"c2", "c1", LINK_KIND_SUBFIELD},
		{"c3", "a", LINK_KIND_FAN},
		{"c3", "c1", LINK_KIND_SUBFIELD},
	}
	for _, scan := range []ScanOrder{SCAN_NEAREST_FIRST, SCAN_FROM_FIRST} {
		planner := NewPlanner(WithIntersector(PlanarIntersects), WithCollisionPolicy(COLLISION_KEEP_ALL), WithScanOrder(scan))
		sel, err := planner.Select(&anchor, &c1, &c3, []Location{c1, c2, c3})
		if err != nil {
			t.Error(err)
			return
		}
		if len(sel.Entries) != 3 || sel.Entries[1].Angle != sel.Entries[2].Angle {
			t.Errorf("%s: c2 and c3 must be kept with the same angle, but got %+v", scan, sel.Entries)
			continue
		}
		plan := planner.Build(sel.Entries, anchor, nil)
		if len(plan.Links) != len(correctLinks) {
			t.Errorf("%s: number of links must be %d, but got %d", scan, len(correctLinks), len(plan.Links))
			continue
		}
		for i, correct := range correctLinks {
			link := plan.Links[i]
			if link.From.ID != correct.from || link.To.ID != correct.to || link.Order != i+1 || link.Kind != correct.kind {
				t.Errorf("%s: link #%d must be %s->%s (order %d, %s), but got %s", scan, i, correct.from, correct.to, i+1, correct.kind, link)
			}
		}
		if plan.Summary.EstimatedScore != Score(3, 2) {
			t.Errorf("%s: estimated score must be %d, but got %d", scan, Score(3, 2), plan.Summary.EstimatedScore)
		}
	}
}

func TestBuildNoCrossings(t *testing.T) {
	rnd := rand.New(rand.NewSource(2024))
	anchor := NewLocation("a", "", 0, 0)
	start := NewLocation("s", "", 1, -1)
	end := NewLocation("e", "", 1, 1)
	candidates := make([]Location, 40)
	for i := range candidates {
		candidates[i] = NewLocation(fmt.Sprintf("c%d", i), "", 1+2*rnd.Float64(), 2*rnd.Float64()-1)
	}
	existing := make([]Link, 10)
	for i := range existing {
		lat, lng := 1+2*rnd.Float64(), 2*rnd.Float64()-1
		existing[i] = Link{
			From: NewLocation("", "", lat, lng),
			To:   NewLocation("", "", lat+0.3*rnd.Float64(), lng+0.3*rnd.Float64()),
		}
	}

	planner := NewPlanner(WithIntersector(PlanarIntersects))
	sel, err := planner.Select(&anchor, &start, &end, candidates)
	if err != nil {
		t.Error(err)
		return
	}
	if len(sel.Entries) != len(candidates) {
		t.Errorf("Every candidate must be selected, but got %d of %d", len(sel.Entries), len(candidates))
	}
	plan := planner.Build(sel.Entries, anchor, existing)

	for i := range plan.Links {
		if plan.Links[i].Order != i+1 {
			t.Errorf("Link #%d must have order %d, but got %d", i, i+1, plan.Links[i].Order)
		}
		for j := i + 1; j < len(plan.Links); j++ {
			if PlanarIntersects(plan.Links[i].Segment(), plan.Links[j].Segment()) {
				t.Errorf("Links %s and %s cross each other", plan.Links[i], plan.Links[j])
			}
		}
		// fan links are never tested against existing links
		if plan.Links[i].Kind != LINK_KIND_SUBFIELD {
			continue
		}
		for _, e := range existing {
			if PlanarIntersects(plan.Links[i].Segment(), e.Segment()) {
				t.Errorf("Link %s crosses existing link %s", plan.Links[i], e)
			}
		}
	}

	fans := []Link{}
	for _, link := range plan.Links {
		if link.Kind == LINK_KIND_FAN {
			fans = append(fans, link)
		}
	}
	if len(fans) != len(sel.Entries) || plan.Summary.FanLinkCount != len(fans) {
		t.Errorf("Number of fan links must be %d, but got %d", len(sel.Entries), len(fans))
		return
	}
	for i := range fans {
		if fans[i].From.ID != sel.Entries[i].Location.ID || fans[i].To.ID != anchor.ID {
			t.Errorf("Fan link #%d must be %s->%s, but got %s", i, sel.Entries[i].Location.ID, anchor.ID, fans[i])
		}
	}
	if plan.Summary.EstimatedScore != Score(plan.Summary.FanLinkCount, plan.Summary.SubfieldLinkCount) {
		t.Errorf("Estimated score does not match link counts: %+v", plan.Summary)
	}
}
