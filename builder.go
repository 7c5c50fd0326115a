package fanfield

import (
	"fmt"
	"time"
)

const (
	// ScoreFanLink is the score of every fan link
	ScoreFanLink = 313
	// ScoreSubfieldLink is the score of every subfield link (the field it closes)
	ScoreSubfieldLink = 1250
)

// ScanOrder is the order in which earlier locations are tried as subfield partners
type ScanOrder uint16

const (
	// SCAN_NEAREST_FIRST walks from the predecessor of current location down to the first one
	SCAN_NEAREST_FIRST = ScanOrder(iota)
	// SCAN_FROM_FIRST walks from the first location up to the predecessor of current one
	SCAN_FROM_FIRST
)

func (iotaIdx ScanOrder) String() string {
	return [...]string{"nearest_first", "from_first"}[iotaIdx]
}

// PlanSummary counts links of the plan
type PlanSummary struct {
	FanLinkCount      int `json:"fan_links"`
	SubfieldLinkCount int `json:"subfield_links"`
	EstimatedScore    int `json:"estimated_score"`
}

// Score returns estimated score for given number of fan and subfield links
func Score(fanLinks, subfieldLinks int) int {
	return ScoreFanLink*fanLinks + ScoreSubfieldLink*subfieldLinks
}

func (summary PlanSummary) String() string {
	return fmt.Sprintf("Fanfield found %d links and %d fields for %d AP", summary.FanLinkCount, summary.SubfieldLinkCount, summary.EstimatedScore)
}

// LinkPlan is the ordered list of links produced by a run
type LinkPlan struct {
	Links   []Link      `json:"links"`
	Summary PlanSummary `json:"summary"`
}

// Build produces fan links from every ordered location to the anchor and greedily adds
// subfield links between ordered locations as long as they do not cross any link already
// in the plan or any of existing links.
//
// Ordered entries must be sorted by ascending angle (as Select returns them)
func (planner *Planner) Build(ordered []AngleEntry, anchor Location, existing []Link) *LinkPlan {
	st := time.Now()
	plan := &LinkPlan{
		Links: make([]Link, 0, 2*len(ordered)),
	}
	order := 0
	for i := range ordered {
		current := ordered[i]
		order++
		plan.Links = append(plan.Links, Link{
			From:        current.Location,
			To:          anchor,
			Order:       order,
			Kind:        LINK_KIND_FAN,
			Description: DescriptionFan,
		})
		plan.Summary.FanLinkCount++

		// partners are earlier entries only; tied angles (COLLISION_KEEP_ALL) lie on the same ray and are skipped
		tryPartner := func(j int) {
			if ordered[j].Angle >= current.Angle {
				return
			}
			if planner.addSubfield(plan, current.Location, ordered[j].Location, order+1, existing) {
				order++
			}
		}
		switch planner.scanOrder {
		case SCAN_FROM_FIRST:
			for j := 0; j < i; j++ {
				tryPartner(j)
			}
		default:
			for j := i - 1; j >= 0; j-- {
				tryPartner(j)
			}
		}
	}
	plan.Summary.EstimatedScore = Score(plan.Summary.FanLinkCount, plan.Summary.SubfieldLinkCount)
	if planner.verbose {
		fmt.Printf("Built plan of %d links in %v\n", len(plan.Links), time.Since(st))
	}
	return plan
}

// addSubfield appends link from->to when it crosses nothing committed so far
func (planner *Planner) addSubfield(plan *LinkPlan, from, to Location, order int, existing []Link) bool {
	candidate := Link{
		From:        from,
		To:          to,
		Order:       order,
		Kind:        LINK_KIND_SUBFIELD,
		Description: DescriptionSubfield,
	}
	if planner.crosses(candidate.Segment(), plan.Links) || planner.crosses(candidate.Segment(), existing) {
		return false
	}
	plan.Links = append(plan.Links, candidate)
	plan.Summary.SubfieldLinkCount++
	return true
}

func (planner *Planner) crosses(seg Segment, links []Link) bool {
	for i := range links {
		if planner.intersector(links[i].Segment(), seg) {
			return true
		}
	}
	return false
}
