// Package offline keeps the app usable without a connection: a versioned
// response cache in front of the page shell, a persisted queue of mutations
// made while offline and a scheduler that drains it.
package offline

import (
	"net/http"
	"sort"
	"strconv"
	"sync"
)

// CachedResponse is a response body captured for replay.
type CachedResponse struct {
	Status int
	Header http.Header
	Body   []byte
}

func (c CachedResponse) serve(w http.ResponseWriter) {
	for k, vs := range c.Header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(c.Body)))
	w.WriteHeader(c.Status)
	w.Write(c.Body)
}

// Cache is one named bucket of responses keyed by request URI.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]CachedResponse
}

func (c *Cache) Put(key string, resp CachedResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = resp
}

func (c *Cache) Match(key string) (CachedResponse, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	resp, ok := c.entries[key]
	return resp, ok
}

// Keys lists the cached request URIs in sorted order.
func (c *Cache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CacheStorage holds every named cache bucket.
type CacheStorage struct {
	mu      sync.RWMutex
	buckets map[string]*Cache
}

func NewCacheStorage() *CacheStorage {
	return &CacheStorage{buckets: make(map[string]*Cache)}
}

// Open returns the bucket called name, creating it when missing.
func (s *CacheStorage) Open(name string) *Cache {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.buckets[name]
	if !ok {
		c = &Cache{entries: make(map[string]CachedResponse)}
		s.buckets[name] = c
	}
	return c
}

// Keys lists the bucket names in sorted order.
func (s *CacheStorage) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.buckets))
	for name := range s.buckets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Delete drops a bucket and reports whether it existed.
func (s *CacheStorage) Delete(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.buckets[name]
	delete(s.buckets, name)
	return ok
}

// Match looks key up in every bucket, in name order, and returns the first hit.
func (s *CacheStorage) Match(key string) (CachedResponse, bool) {
	for _, name := range s.Keys() {
		s.mu.RLock()
		c := s.buckets[name]
		s.mu.RUnlock()
		if c == nil {
			continue
		}
		if resp, ok := c.Match(key); ok {
			return resp, true
		}
	}
	return CachedResponse{}, false
}
