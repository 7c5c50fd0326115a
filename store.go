package fanfield

import (
	"sync"
)

// LinkStore is the sink of produced plans and the source of already existing links
type LinkStore interface {
	BeginBatch() error
	AddLink(link Link) error
	EndBatch() error
	// ExistingLinks returns committed links only
	ExistingLinks() ([]Link, error)
	ClearLinks() error
}

// BatchAborter is implemented by stores able to discard an open batch
type BatchAborter interface {
	AbortBatch() error
}

// MemoryStore keeps links of a single operation in memory.
// Links added during a batch become visible (and listeners are notified) only when the batch ends
type MemoryStore struct {
	mu        sync.RWMutex
	links     []Link
	pending   []Link
	batch     bool
	listeners []func(links []Link)
}

// NewMemoryStore returns store pre-filled with given links
func NewMemoryStore(links ...Link) *MemoryStore {
	store := &MemoryStore{
		links: make([]Link, len(links)),
	}
	copy(store.links, links)
	return store
}

// OnUpdate registers listener called with a snapshot of links after every committed change
func (store *MemoryStore) OnUpdate(listener func(links []Link)) {
	store.mu.Lock()
	store.listeners = append(store.listeners, listener)
	store.mu.Unlock()
}

func (store *MemoryStore) BeginBatch() error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.batch {
		return ErrBatchOpen
	}
	store.batch = true
	store.pending = store.pending[:0]
	return nil
}

func (store *MemoryStore) AddLink(link Link) error {
	store.mu.Lock()
	if store.batch {
		store.pending = append(store.pending, link)
		store.mu.Unlock()
		return nil
	}
	store.links = append(store.links, link)
	snapshot := store.snapshot()
	listeners := store.listeners
	store.mu.Unlock()
	notify(listeners, snapshot)
	return nil
}

func (store *MemoryStore) EndBatch() error {
	store.mu.Lock()
	if !store.batch {
		store.mu.Unlock()
		return ErrNoBatch
	}
	store.links = append(store.links, store.pending...)
	store.pending = nil
	store.batch = false
	snapshot := store.snapshot()
	listeners := store.listeners
	store.mu.Unlock()
	notify(listeners, snapshot)
	return nil
}

// AbortBatch discards links added since BeginBatch
func (store *MemoryStore) AbortBatch() error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if !store.batch {
		return ErrNoBatch
	}
	store.pending = nil
	store.batch = false
	return nil
}

func (store *MemoryStore) ExistingLinks() ([]Link, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.snapshot(), nil
}

func (store *MemoryStore) ClearLinks() error {
	store.mu.Lock()
	store.links = nil
	snapshot := store.snapshot()
	listeners := store.listeners
	store.mu.Unlock()
	notify(listeners, snapshot)
	return nil
}

// snapshot must be called with lock held
func (store *MemoryStore) snapshot() []Link {
	links := make([]Link, len(store.links))
	copy(links, store.links)
	return links
}

func notify(listeners []func(links []Link), links []Link) {
	for _, listener := range listeners {
		listener(links)
	}
}
