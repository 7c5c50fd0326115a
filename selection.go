package fanfield

import (
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
)

const (
	SelectionAnchor = "anchor"
	SelectionStart  = "start"
	SelectionEnd    = "end"
)

// SelectionStore persists anchor/start/end selections between runs
type SelectionStore interface {
	// LoadSelection returns nil location (and nil error) when nothing has been stored for the key
	LoadSelection(key string) (*Location, error)
	SaveSelection(key string, loc Location) error
}

// MemorySelectionStore keeps JSON encoded selections in memory
type MemorySelectionStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemorySelectionStore returns empty selection store
func NewMemorySelectionStore() *MemorySelectionStore {
	return &MemorySelectionStore{
		values: make(map[string][]byte),
	}
}

func (store *MemorySelectionStore) LoadSelection(key string) (*Location, error) {
	store.mu.RLock()
	raw, ok := store.values[key]
	store.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return decodeSelection(raw)
}

func (store *MemorySelectionStore) SaveSelection(key string, loc Location) error {
	raw, err := json.Marshal(loc)
	if err != nil {
		return errors.Wrap(err, "Can't encode location")
	}
	store.mu.Lock()
	store.values[key] = raw
	store.mu.Unlock()
	return nil
}

func decodeSelection(raw []byte) (*Location, error) {
	loc := Location{}
	err := json.Unmarshal(raw, &loc)
	if err != nil {
		return nil, errors.Wrap(err, "Can't decode stored location")
	}
	return &loc, nil
}

// LoadRunContext rebuilds run context from stored selections and given candidates.
// Absent selections stay nil so Run reports them with MissingSelectionError
func LoadRunContext(store SelectionStore, candidates []Location) (RunContext, error) {
	rc := RunContext{Candidates: candidates}
	targets := []struct {
		key string
		dst **Location
	}{
		{SelectionAnchor, &rc.Anchor},
		{SelectionStart, &rc.Start},
		{SelectionEnd, &rc.End},
	}
	for _, target := range targets {
		loc, err := store.LoadSelection(target.key)
		if err != nil {
			return rc, errors.Wrapf(err, "Can't load '%s' selection", target.key)
		}
		*target.dst = loc
	}
	return rc, nil
}

// SaveRunContext stores boundary selections which are set in run context
func SaveRunContext(store SelectionStore, rc RunContext) error {
	sources := []struct {
		key string
		loc *Location
	}{
		{SelectionAnchor, rc.Anchor},
		{SelectionStart, rc.Start},
		{SelectionEnd, rc.End},
	}
	for _, source := range sources {
		if source.loc == nil {
			continue
		}
		err := store.SaveSelection(source.key, *source.loc)
		if err != nil {
			return errors.Wrapf(err, "Can't save '%s' selection", source.key)
		}
	}
	return nil
}
