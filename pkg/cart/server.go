package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/matst80/slask-storefront/pkg/catalog"
	"github.com/matst80/slask-storefront/pkg/common"
	"github.com/matst80/slask-storefront/pkg/presentation"
	"github.com/matst80/slask-storefront/pkg/tracking"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	addsToCart = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_add_to_cart_total",
		Help: "The total number of add to cart operations",
	})
	checkouts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_checkouts_total",
		Help: "The total number of completed checkouts",
	})
	persistWarnings = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_cart_persist_warnings_total",
		Help: "The total number of non-fatal cart persistence failures",
	})
)

// ItemSource resolves an item id to the full item, normally backed by the
// current catalog snapshot.
type ItemSource interface {
	Get(id catalog.ItemId) (catalog.Item, bool)
}

type CartServer struct {
	Registry *Registry
	Items    ItemSource
	Gateway  presentation.Gateway
	Tracking tracking.Tracking
}

// warnPersist surfaces a storage failure as a non-fatal warning. The cart in
// memory is still correct, so the request itself succeeds.
func (s *CartServer) warnPersist(err error) {
	if err == nil {
		return
	}
	persistWarnings.Inc()
	log.Printf("cart persistence warning: %v", err)
	if s.Gateway != nil {
		s.Gateway.Notify(presentation.NotifyWarning, "Your cart could not be saved for later", 4000)
	}
}

func (s *CartServer) GetCart(w http.ResponseWriter, r *http.Request) {
	store := s.Registry.Get(r.Context(), handleCartCookie(w, r))
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(store.Snapshot()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

type CartInputItem struct {
	ItemId   catalog.ItemId `json:"id"`
	Quantity int            `json:"quantity"`
}

func (s *CartServer) AddItem(w http.ResponseWriter, r *http.Request) {
	sessionId := common.HandleSessionCookie(s.Tracking, w, r)
	store := s.Registry.Get(r.Context(), handleCartCookie(w, r))

	var input CartInputItem
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("Invalid item"))
		return
	}
	item, ok := s.Items.Get(input.ItemId)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("Item not found"))
		return
	}
	if input.Quantity <= 0 {
		input.Quantity = 1
	}
	// The quantity is applied regardless of persist outcome, storage failures
	// only warn while memory stays authoritative.
	result, err := store.AddItem(r.Context(), item)
	s.warnPersist(err)
	if input.Quantity > 1 {
		result, err = store.UpdateQuantity(r.Context(), item.Id, input.Quantity-1)
		s.warnPersist(err)
	}

	addsToCart.Inc()
	if s.Gateway != nil {
		s.Gateway.Notify(presentation.NotifySuccess, fmt.Sprintf("%.40s added to cart", item.Title), 2000)
		s.Gateway.HideDetail()
	}
	if s.Tracking != nil {
		s.Tracking.TrackAddToCart(sessionId, item.Id, input.Quantity)
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

type ChangeQuantity struct {
	ItemId catalog.ItemId `json:"id"`
	Delta  int            `json:"delta"`
}

func (s *CartServer) ChangeItemQuantity(w http.ResponseWriter, r *http.Request) {
	sessionId := common.HandleSessionCookie(s.Tracking, w, r)
	store := s.Registry.Get(r.Context(), handleCartCookie(w, r))

	var input ChangeQuantity
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("Invalid item"))
		return
	}
	result, err := store.UpdateQuantity(r.Context(), input.ItemId, input.Delta)
	if err != nil {
		if errors.Is(err, ErrLineNotFound) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Item not in cart"))
			return
		}
		s.warnPersist(err)
	}
	if s.Tracking != nil {
		s.Tracking.TrackQuantityChange(sessionId, input.ItemId, input.Delta)
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *CartServer) RemoveItem(w http.ResponseWriter, r *http.Request) {
	store := s.Registry.Get(r.Context(), handleCartCookie(w, r))

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("Invalid item id"))
		return
	}
	result, err := store.RemoveItem(r.Context(), catalog.ItemId(id))
	s.warnPersist(err)
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

type CheckoutRequest struct {
	Confirm bool `json:"confirm"`
}

type CheckoutResponse struct {
	Paid                 bool    `json:"paid"`
	Total                float64 `json:"total"`
	RequiresConfirmation bool    `json:"requires_confirmation,omitempty"`
	Message              string  `json:"message,omitempty"`
}

// Checkout simulates the payment. The first call without confirm answers with
// a confirmation prompt and leaves the cart untouched; a confirmed call
// reports the total, then clears the cart and erases its stored form.
func (s *CartServer) Checkout(w http.ResponseWriter, r *http.Request) {
	sessionId := common.HandleSessionCookie(s.Tracking, w, r)
	store := s.Registry.Get(r.Context(), handleCartCookie(w, r))

	var input CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("Invalid checkout request"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if !input.Confirm {
		current := store.Snapshot()
		message := fmt.Sprintf("Pay $%.2f?", current.Total)
		if s.Gateway != nil {
			s.Gateway.Confirm(message)
		}
		err := json.NewEncoder(w).Encode(CheckoutResponse{
			Total:                current.Total,
			RequiresConfirmation: true,
			Message:              message,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	lineCount := len(store.Snapshot().Lines)
	total, err := store.Checkout(r.Context())
	s.warnPersist(err)

	checkouts.Inc()
	if s.Gateway != nil {
		s.Gateway.Notify(presentation.NotifySuccess, fmt.Sprintf("You paid $%.2f. Thank you for your purchase!", total), 0)
	}
	if s.Tracking != nil {
		s.Tracking.TrackCheckout(sessionId, total, lineCount)
	}
	err = json.NewEncoder(w).Encode(CheckoutResponse{Paid: true, Total: total})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (srv *CartServer) CartHandler() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", srv.GetCart)
	mux.HandleFunc("POST /", srv.AddItem)
	mux.HandleFunc("PUT /", srv.ChangeItemQuantity)
	mux.HandleFunc("DELETE /{id}", srv.RemoveItem)
	mux.HandleFunc("POST /checkout", srv.Checkout)
	return mux
}
