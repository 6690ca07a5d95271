package server

import "time"

type CacheHelper[T any] struct {
	Cache *Cache
}

func NewCacheHelper[T any](cache *Cache) *CacheHelper[T] {
	return &CacheHelper[T]{Cache: cache}
}

// Handle fills out from the cache, falling back to fn on a miss. A fetch
// error is returned untouched; cache write failures are ignored, the fetched
// value is still delivered.
func (c *CacheHelper[T]) Handle(key string, out *T, fn func() (T, error), expiration time.Duration) error {
	if c.Cache == nil {
		value, err := fn()
		if err != nil {
			return err
		}
		*out = value
		return nil
	}
	if err := c.Cache.Get(key, out); err == nil {
		return nil
	}
	value, err := fn()
	if err != nil {
		return err
	}
	*out = value
	c.Cache.Set(key, value, expiration)
	return nil
}
