package cart

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/matst80/slask-storefront/pkg/catalog"
)

// Store owns the authoritative in-memory state of one cart. Every mutation
// recomputes the total by a full re-sum and writes the whole line list to
// storage. A failed write is returned as a warning, memory stays authoritative.
type Store struct {
	mu      sync.Mutex
	key     string
	storage Storage
	lines   []Line
	total   float64
}

func NewStore(key string, storage Storage) *Store {
	return &Store{
		key:     key,
		storage: storage,
		lines:   make([]Line, 0),
	}
}

func sumLines(lines []Line) float64 {
	total := 0.0
	for _, line := range lines {
		total += line.Item.Price * float64(line.Quantity)
	}
	return total
}

func (s *Store) snapshotLocked() Cart {
	lines := make([]Line, len(s.lines))
	copy(lines, s.lines)
	return Cart{Lines: lines, Total: s.total}
}

// Snapshot returns a copy of the current cart state.
func (s *Store) Snapshot() Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) persistLocked(ctx context.Context) error {
	if err := s.storage.Save(ctx, s.key, s.lines); err != nil {
		return fmt.Errorf("cart %s persist failed: %w", s.key, err)
	}
	return nil
}

// Load replaces the in-memory cart with the stored form, if one exists and is
// well-formed. Otherwise the cart stays empty. Called once per Store.
func (s *Store) Load(ctx context.Context) error {
	lines, err := s.storage.Fetch(ctx, s.key)
	if err != nil {
		if err == ErrNotFound {
			return nil
		}
		return fmt.Errorf("cart %s load failed: %w", s.key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = lines
	if s.lines == nil {
		s.lines = make([]Line, 0)
	}
	s.total = sumLines(s.lines)
	return nil
}

// AddItem increments the quantity of an existing line for the item id, or
// appends a new line with quantity 1 at the end. There is no quantity cap.
func (s *Store) AddItem(ctx context.Context, item catalog.Item) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	found := false
	for i := range s.lines {
		if s.lines[i].Item.Id == item.Id {
			s.lines[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		s.lines = append(s.lines, Line{Item: item, Quantity: 1})
	}
	s.total = sumLines(s.lines)
	return s.snapshotLocked(), s.persistLocked(ctx)
}

// RemoveItem deletes the line for the item id. A missing line is a no-op.
func (s *Store) RemoveItem(ctx context.Context, id catalog.ItemId) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lines {
		if s.lines[i].Item.Id == id {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			break
		}
	}
	s.total = sumLines(s.lines)
	return s.snapshotLocked(), s.persistLocked(ctx)
}

// UpdateQuantity adds delta (possibly negative) to the line's quantity. A
// resulting quantity of zero or less removes the line. Calling this for an id
// with no line returns ErrLineNotFound.
func (s *Store) UpdateQuantity(ctx context.Context, id catalog.ItemId, delta int) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lines {
		if s.lines[i].Item.Id == id {
			s.lines[i].Quantity += delta
			if s.lines[i].Quantity <= 0 {
				s.lines = append(s.lines[:i], s.lines[i+1:]...)
			}
			s.total = sumLines(s.lines)
			return s.snapshotLocked(), s.persistLocked(ctx)
		}
	}
	return s.snapshotLocked(), fmt.Errorf("cart %s item %d: %w", s.key, id, ErrLineNotFound)
}

// Checkout returns the total as it was before clearing, empties the cart and
// erases the stored form. The payment is simulated, only the storage erase can
// fail, and that failure is non-fatal.
func (s *Store) Checkout(ctx context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := s.total
	s.lines = make([]Line, 0)
	s.total = 0
	if err := s.storage.Delete(ctx, s.key); err != nil {
		return total, fmt.Errorf("cart %s erase failed: %w", s.key, err)
	}
	return total, nil
}

// Registry hands out one Store per cart key, loading persisted state on first
// access.
type Registry struct {
	mu      sync.Mutex
	storage Storage
	stores  map[string]*Store
}

func NewRegistry(storage Storage) *Registry {
	return &Registry{
		storage: storage,
		stores:  make(map[string]*Store),
	}
}

func (r *Registry) Get(ctx context.Context, key string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	store, ok := r.stores[key]
	if !ok {
		store = NewStore(key, r.storage)
		if err := store.Load(ctx); err != nil {
			log.Printf("Discarding stored cart: %v", err)
		}
		r.stores[key] = store
	}
	return store
}
