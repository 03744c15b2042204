package offline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/andrewpaige1/flashlearn/logger"
)

// Version names the cache bucket of the current shell.
const Version = "flashlearn-v1"

// OfflinePage is served for page loads that cannot reach the network.
const OfflinePage = "/offline.html"

// StaticAssets are precached on install.
var StaticAssets = []string{"/", "/sets", "/sets/new", "/manifest.json", OfflinePage}

// Shell serves the page shell cache-first, falling back to the network and
// then to the offline page.
type Shell struct {
	version string
	caches  *CacheStorage
	network http.RoundTripper
	log     *logger.Logger
}

func NewShell(version string, caches *CacheStorage, network http.RoundTripper, log *logger.Logger) *Shell {
	if version == "" {
		version = Version
	}
	return &Shell{
		version: version,
		caches:  caches,
		network: network,
		log:     log.With("service", "Shell", "cache", version),
	}
}

func (s *Shell) Version() string { return s.version }

// Install fetches every static asset and stores them in the shell's bucket.
// Nothing is stored unless all of them succeed.
func (s *Shell) Install(ctx context.Context) error {
	fetched := make(map[string]CachedResponse, len(StaticAssets))
	for _, asset := range StaticAssets {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, asset, nil)
		if err != nil {
			return fmt.Errorf("precache %s: %w", asset, err)
		}
		resp, err := s.fetch(req)
		if err != nil {
			return fmt.Errorf("precache %s: %w", asset, err)
		}
		if resp.Status != http.StatusOK {
			return fmt.Errorf("precache %s: status %d", asset, resp.Status)
		}
		fetched[asset] = resp
	}

	bucket := s.caches.Open(s.version)
	for key, resp := range fetched {
		bucket.Put(key, resp)
	}
	s.log.Info("shell installed", "assets", len(fetched))
	return nil
}

// Activate deletes every bucket left by other versions and returns their names.
func (s *Shell) Activate() []string {
	var deleted []string
	for _, name := range s.caches.Keys() {
		if name == s.version {
			continue
		}
		if s.caches.Delete(name) {
			s.log.Info("deleting old cache", "name", name)
			deleted = append(deleted, name)
		}
	}
	return deleted
}

func (s *Shell) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet || !sameOrigin(r) {
		s.passThrough(w, r)
		return
	}

	key := r.URL.RequestURI()
	if cached, ok := s.caches.Match(key); ok {
		cached.serve(w)
		return
	}

	resp, err := s.fetch(r)
	if err != nil {
		s.log.Debug("network fetch failed", "path", key, "error", err)
		if isNavigation(r) {
			if page, ok := s.caches.Match(OfflinePage); ok {
				page.serve(w)
				return
			}
		}
		http.Error(w, "Offline", http.StatusServiceUnavailable)
		return
	}
	if resp.Status == http.StatusOK {
		s.caches.Open(s.version).Put(key, resp)
	}
	resp.serve(w)
}

func (s *Shell) fetch(r *http.Request) (CachedResponse, error) {
	out := r.Clone(r.Context())
	out.RequestURI = ""
	resp, err := s.network.RoundTrip(out)
	if err != nil {
		return CachedResponse{}, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return CachedResponse{}, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	return CachedResponse{Status: resp.StatusCode, Header: resp.Header.Clone(), Body: body}, nil
}

func (s *Shell) passThrough(w http.ResponseWriter, r *http.Request) {
	resp, err := s.fetch(r)
	if err != nil {
		http.Error(w, "Offline", http.StatusServiceUnavailable)
		return
	}
	resp.serve(w)
}

// sameOrigin is false only for proxy-style requests naming another host.
func sameOrigin(r *http.Request) bool {
	return r.URL.Host == "" || strings.EqualFold(r.URL.Host, r.Host)
}

func isNavigation(r *http.Request) bool {
	if mode := r.Header.Get("Sec-Fetch-Mode"); mode != "" {
		return mode == "navigate"
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
