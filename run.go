package fanfield

import (
	"fmt"

	"github.com/pkg/errors"
)

// RunContext holds everything a planning run needs. Nothing is read from global state
type RunContext struct {
	Anchor     *Location  `json:"anchor"`
	Start      *Location  `json:"start"`
	End        *Location  `json:"end"`
	Candidates []Location `json:"candidates"`
}

// Missing returns names of boundary selections which are not set
func (rc RunContext) Missing() []string {
	missing := []string{}
	if rc.Anchor == nil {
		missing = append(missing, SelectionAnchor)
	}
	if rc.Start == nil {
		missing = append(missing, SelectionStart)
	}
	if rc.End == nil {
		missing = append(missing, SelectionEnd)
	}
	return missing
}

// Result of a planning run
type Result struct {
	Selection *Selection `json:"-"`
	Plan      *LinkPlan  `json:"plan"`
}

// Plan runs selection and fan building without touching any store
func (planner *Planner) Plan(rc RunContext, existing []Link) (*Result, error) {
	sel, err := planner.Select(rc.Anchor, rc.Start, rc.End, rc.Candidates)
	if err != nil {
		return nil, err
	}
	plan := planner.Build(sel.Entries, *rc.Anchor, existing)
	return &Result{
		Selection: sel,
		Plan:      plan,
	}, nil
}

// Run plans fan field and commits it into the store in a single batch.
// Existing links of the store are read once, before anything is written.
// On MissingSelectionError the store is not touched at all
func (planner *Planner) Run(rc RunContext, store LinkStore) (*Result, error) {
	if missing := rc.Missing(); len(missing) > 0 {
		return nil, &MissingSelectionError{Missing: missing}
	}

	planner.mu.Lock()
	defer planner.mu.Unlock()

	existing, err := store.ExistingLinks()
	if err != nil {
		return nil, errors.Wrap(err, "Can't read existing links")
	}
	res, err := planner.Plan(rc, existing)
	if err != nil {
		return nil, err
	}

	err = store.BeginBatch()
	if err != nil {
		return nil, errors.Wrap(err, "Can't start batch")
	}
	for _, link := range res.Plan.Links {
		err = store.AddLink(link)
		if err != nil {
			abortBatch(store)
			return nil, errors.Wrapf(err, "Can't add link %s", link)
		}
	}
	err = store.EndBatch()
	if err != nil {
		abortBatch(store)
		return nil, errors.Wrap(err, "Can't finish batch")
	}
	if planner.verbose {
		fmt.Println(res.Plan.Summary)
	}
	return res, nil
}

func abortBatch(store LinkStore) {
	if aborter, ok := store.(BatchAborter); ok {
		_ = aborter.AbortBatch()
	}
}
