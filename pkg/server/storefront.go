package server

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/matst80/slask-storefront/pkg/catalog"
	"github.com/matst80/slask-storefront/pkg/presentation"
	"github.com/matst80/slask-storefront/pkg/storefront"
	"github.com/matst80/slask-storefront/pkg/tracking"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	noSearches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_searches_total",
		Help: "The total number of processed product list requests",
	})
	fetchErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_catalog_fetch_errors_total",
		Help: "The total number of failed catalog fetches",
	})
	staleFetches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_stale_fetches_total",
		Help: "The total number of catalog fetches superseded before completion",
	})
)

const (
	categoriesCacheKey = "catalog:categories"
	categoriesCacheTtl = time.Hour
	itemsCacheTtl      = 5 * time.Minute
)

// StorefrontServer composes the catalog client, the filter engine, the cart
// and the presentation gateway into the public API surface.
type StorefrontServer struct {
	Catalog  *catalog.Client
	Snapshot *storefront.Snapshot
	Cache    *Cache
	Gateway  presentation.Gateway
	Tracking tracking.Tracking

	mu         sync.RWMutex
	categories []string

	itemsCache      *CacheHelper[[]catalog.Item]
	categoriesCache *CacheHelper[[]string]
}

func NewStorefrontServer(client *catalog.Client, cache *Cache, gateway presentation.Gateway) *StorefrontServer {
	return &StorefrontServer{
		Catalog:         client,
		Snapshot:        storefront.NewSnapshot(),
		Cache:           cache,
		Gateway:         gateway,
		categories:      make([]string, 0),
		itemsCache:      NewCacheHelper[[]catalog.Item](cache),
		categoriesCache: NewCacheHelper[[]string](cache),
	}
}

func (s *StorefrontServer) notifyError(message string) {
	if s.Gateway != nil {
		s.Gateway.Notify(presentation.NotifyError, message, 0)
	}
}

func (s *StorefrontServer) fetchCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := s.categoriesCache.Handle(categoriesCacheKey, &categories, func() ([]string, error) {
		return s.Catalog.FetchCategories(ctx)
	}, categoriesCacheTtl)
	if err != nil {
		fetchErrors.Inc()
		return nil, err
	}
	s.mu.Lock()
	s.categories = categories
	s.mu.Unlock()
	return categories, nil
}

func (s *StorefrontServer) fetchItems(ctx context.Context, category string) ([]catalog.Item, error) {
	var items []catalog.Item
	err := s.itemsCache.Handle("catalog:items:"+category, &items, func() ([]catalog.Item, error) {
		if category == storefront.AllCategories {
			return s.Catalog.FetchAll(ctx)
		}
		return s.Catalog.FetchByCategory(ctx, category)
	}, itemsCacheTtl)
	if err != nil {
		fetchErrors.Inc()
		return nil, err
	}
	return items, nil
}

// loadSnapshot runs a tokenized category fetch. The fetched items are always
// returned to the caller; when a later fetch supersedes this one before it
// resolves they are only kept out of the shared snapshot, so the newest fetch
// wins there without mislabeling the response for this request.
func (s *StorefrontServer) loadSnapshot(ctx context.Context, category string) ([]catalog.Item, error) {
	token := s.Snapshot.Begin()
	items, err := s.fetchItems(ctx, category)
	if err != nil {
		return nil, err
	}
	if !s.Snapshot.Complete(token, category, items) {
		staleFetches.Inc()
	}
	return items, nil
}

// LoadInitial performs the startup fetches. Categories and the full item list
// load concurrently; neither depends on the other and either may fail without
// stopping the service.
func (s *StorefrontServer) LoadInitial(ctx context.Context) {
	wg := &sync.WaitGroup{}
	wg.Add(2)
	go func() {
		defer wg.Done()
		if _, err := s.fetchCategories(ctx); err != nil {
			log.Printf("Failed to load categories: %v", err)
			s.notifyError("Could not load categories")
		}
	}()
	go func() {
		defer wg.Done()
		if _, err := s.loadSnapshot(ctx, storefront.AllCategories); err != nil {
			log.Printf("Failed to load catalog: %v", err)
			s.notifyError("Could not load products")
		}
	}()
	wg.Wait()
}

// RefreshCatalog re-fetches the full catalog past the cache, replacing the
// snapshot wholesale. Used by the catalog refresh listener.
func (s *StorefrontServer) RefreshCatalog(ctx context.Context) error {
	token := s.Snapshot.Begin()
	items, err := s.Catalog.FetchAll(ctx)
	if err != nil {
		fetchErrors.Inc()
		return err
	}
	if s.Cache != nil {
		s.Cache.Set("catalog:items:"+storefront.AllCategories, items, itemsCacheTtl)
	}
	if !s.Snapshot.Complete(token, storefront.AllCategories, items) {
		staleFetches.Inc()
	}
	return nil
}
