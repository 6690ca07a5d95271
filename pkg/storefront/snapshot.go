package storefront

import (
	"sync"

	"github.com/matst80/slask-storefront/pkg/catalog"
)

const AllCategories = "all"

// Snapshot holds the most recently fetched item collection together with a
// request sequence token. Two category fetches can be in flight at once; only
// the one carrying the latest token may install its result, so the snapshot
// always reflects the most recently requested filter.
type Snapshot struct {
	mu       sync.RWMutex
	seq      uint64
	category string
	items    []catalog.Item
}

func NewSnapshot() *Snapshot {
	return &Snapshot{category: AllCategories}
}

// Begin issues the token for a new fetch. Any fetch begun earlier becomes
// stale once this returns.
func (s *Snapshot) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

// Complete installs the fetched items if token is still the latest one issued.
// It reports whether the result was installed or discarded as stale.
func (s *Snapshot) Complete(token uint64, category string, items []catalog.Item) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.seq {
		return false
	}
	s.category = category
	s.items = items
	return true
}

func (s *Snapshot) Current() (string, []catalog.Item) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.category, s.items
}

func (s *Snapshot) Get(id catalog.ItemId) (catalog.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.Id == id {
			return item, true
		}
	}
	return catalog.Item{}, false
}
