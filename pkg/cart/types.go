package cart

import (
	"context"
	"errors"

	"github.com/matst80/slask-storefront/pkg/catalog"
)

// ErrNotFound is returned by Storage.Fetch when no cart is stored under a key.
var ErrNotFound = errors.New("cart not found")

// ErrLineNotFound is returned when a quantity change targets an item id that
// has no line in the cart. Removing a missing line is lenient, changing its
// quantity is a caller error.
var ErrLineNotFound = errors.New("cart line not found")

type Line struct {
	Item     catalog.Item `json:"item"`
	Quantity int          `json:"quantity"`
}

// Cart is a point-in-time copy of a Store's state. Lines keep the order items
// were first added in. Total is always the full re-sum over the lines.
type Cart struct {
	Lines []Line  `json:"items"`
	Total float64 `json:"total"`
}

// Storage persists the serialized line list under a key. Implementations must
// return ErrNotFound from Fetch when the key holds nothing.
type Storage interface {
	Fetch(ctx context.Context, key string) ([]Line, error)
	Save(ctx context.Context, key string, lines []Line) error
	Delete(ctx context.Context, key string) error
}
