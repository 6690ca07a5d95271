package tracking

import (
	"net/http"

	"github.com/matst80/slask-storefront/pkg/catalog"
)

type Tracking interface {
	TrackSession(sessionId int, r *http.Request)
	TrackSearch(sessionId int, category string, query string, resultLen int)
	TrackDetailView(sessionId int, itemId catalog.ItemId)
	TrackAddToCart(sessionId int, itemId catalog.ItemId, quantity int)
	TrackQuantityChange(sessionId int, itemId catalog.ItemId, delta int)
	TrackCheckout(sessionId int, total float64, lineCount int)
}
