package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/matst80/slask-storefront/pkg/catalog"
	"github.com/matst80/slask-storefront/pkg/storefront"
)

type ProductListResponse struct {
	Category string         `json:"category"`
	Query    string         `json:"query,omitempty"`
	Items    []catalog.Item `json:"items"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *StorefrontServer) GetCategories(w http.ResponseWriter, r *http.Request, sessionId int, enc *json.Encoder) error {
	// Error bodies are json too, set the type before any status is written.
	w.Header().Set("Content-Type", "application/json")
	s.mu.RLock()
	categories := s.categories
	s.mu.RUnlock()
	if len(categories) == 0 {
		// Startup fetch failed or has not resolved, try again for this request.
		fetched, err := s.fetchCategories(r.Context())
		if err != nil {
			s.notifyError("Could not load categories")
			w.WriteHeader(http.StatusBadGateway)
			return enc.Encode(ErrorResponse{Error: "categories unavailable"})
		}
		categories = fetched
	}
	return enc.Encode(categories)
}

// GetProducts handles category selection and text search in one request:
// the category decides which item set is fetched, the query narrows it by
// case-insensitive title match.
func (s *StorefrontServer) GetProducts(w http.ResponseWriter, r *http.Request, sessionId int, enc *json.Encoder) error {
	w.Header().Set("Content-Type", "application/json")
	lr, err := GetListRequest(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return enc.Encode(ErrorResponse{Error: "invalid request"})
	}
	noSearches.Inc()

	var items []catalog.Item
	currentCategory, currentItems := s.Snapshot.Current()
	if lr.Category == currentCategory && len(currentItems) > 0 {
		// Search text changed, reapply the filter to the loaded set without
		// re-fetching.
		items = currentItems
	} else {
		items, err = s.loadSnapshot(r.Context(), lr.Category)
		if err != nil {
			// Prior snapshot stays in place, the failure is reported.
			s.notifyError("Could not load products")
			w.WriteHeader(http.StatusBadGateway)
			return enc.Encode(ErrorResponse{Error: "catalog unavailable"})
		}
	}

	filtered := storefront.Apply(items, lr.Query)
	if s.Tracking != nil && lr.Query != "" {
		s.Tracking.TrackSearch(sessionId, lr.Category, lr.Query, len(filtered))
	}
	return enc.Encode(ProductListResponse{
		Category: lr.Category,
		Query:    lr.Query,
		Items:    filtered,
	})
}

func (s *StorefrontServer) GetProduct(w http.ResponseWriter, r *http.Request, sessionId int, enc *json.Encoder) error {
	w.Header().Set("Content-Type", "application/json")
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return enc.Encode(ErrorResponse{Error: "invalid item id"})
	}
	item, ok := s.Snapshot.Get(catalog.ItemId(id))
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return enc.Encode(ErrorResponse{Error: "item not found"})
	}
	if s.Gateway != nil {
		s.Gateway.ShowDetail(item)
	}
	if s.Tracking != nil {
		s.Tracking.TrackDetailView(sessionId, item.Id)
	}
	return enc.Encode(item)
}

func (s *StorefrontServer) HideDetail(w http.ResponseWriter, r *http.Request, sessionId int, enc *json.Encoder) error {
	if s.Gateway != nil {
		s.Gateway.HideDetail()
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
