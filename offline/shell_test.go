package offline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewpaige1/flashlearn/logger"
)

// flakyNetwork serves pages from a mux until it is switched offline.
type flakyNetwork struct {
	offline atomic.Bool
	hits    atomic.Int32
	inner   http.RoundTripper
}

func (n *flakyNetwork) RoundTrip(req *http.Request) (*http.Response, error) {
	if n.offline.Load() {
		return nil, fmt.Errorf("%w: dial refused", ErrNetwork)
	}
	n.hits.Add(1)
	return n.inner.RoundTrip(req)
}

func pages() *http.ServeMux {
	mux := http.NewServeMux()
	for _, p := range StaticAssets {
		body := "page " + p
		pattern := "GET " + p
		if p == "/" {
			pattern += "{$}"
		}
		mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, body)
		})
	}
	mux.HandleFunc("GET /sets/{id}/study", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "study %s", r.PathValue("id"))
	})
	mux.HandleFunc("GET /broken", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc("POST /echo", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, "posted")
	})
	return mux
}

func newShell(t *testing.T) (*Shell, *CacheStorage, *flakyNetwork) {
	t.Helper()
	net := &flakyNetwork{inner: HandlerTransport{Handler: pages()}}
	caches := NewCacheStorage()
	return NewShell(Version, caches, net, logger.Nop()), caches, net
}

func get(t *testing.T, h http.Handler, path string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestInstallPrecachesStaticAssets(t *testing.T) {
	shell, caches, _ := newShell(t)
	require.NoError(t, shell.Install(context.Background()))

	keys := caches.Open(Version).Keys()
	assert.ElementsMatch(t, StaticAssets, keys)
}

func TestInstallFailsAtomically(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, "home") })
	caches := NewCacheStorage()
	shell := NewShell(Version, caches, HandlerTransport{Handler: mux}, logger.Nop())

	err := shell.Install(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/sets")
	assert.Empty(t, caches.Keys())
}

func TestActivateDeletesOtherVersions(t *testing.T) {
	shell, caches, _ := newShell(t)
	caches.Open("flashlearn-v0").Put("/", CachedResponse{Status: 200})
	caches.Open("other").Put("/", CachedResponse{Status: 200})
	caches.Open(Version)

	deleted := shell.Activate()
	assert.ElementsMatch(t, []string{"flashlearn-v0", "other"}, deleted)
	assert.Equal(t, []string{Version}, caches.Keys())
}

func TestServeIsCacheFirst(t *testing.T) {
	shell, _, net := newShell(t)
	require.NoError(t, shell.Install(context.Background()))
	before := net.hits.Load()

	rec := get(t, shell, "/sets")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "page /sets", rec.Body.String())
	assert.Equal(t, before, net.hits.Load(), "cached page does not touch the network")
}

func TestServeCachesSuccessfulMisses(t *testing.T) {
	shell, caches, net := newShell(t)

	rec := get(t, shell, "/sets/abc/study")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "study abc", rec.Body.String())
	_, ok := caches.Open(Version).Match("/sets/abc/study")
	assert.True(t, ok)

	net.offline.Store(true)
	rec = get(t, shell, "/sets/abc/study")
	assert.Equal(t, "study abc", rec.Body.String())
}

func TestServeDoesNotCacheErrors(t *testing.T) {
	shell, caches, _ := newShell(t)

	rec := get(t, shell, "/broken")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	_, ok := caches.Match("/broken")
	assert.False(t, ok)
}

func TestServeOfflineFallbacks(t *testing.T) {
	shell, _, net := newShell(t)
	require.NoError(t, shell.Install(context.Background()))
	net.offline.Store(true)

	rec := get(t, shell, "/sets/xyz/study", "Sec-Fetch-Mode", "navigate")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "page /offline.html", rec.Body.String())

	rec = get(t, shell, "/sets/xyz/study", "Accept", "text/html,application/xhtml+xml")
	assert.Equal(t, "page /offline.html", rec.Body.String())

	rec = get(t, shell, "/api/sets", "Sec-Fetch-Mode", "cors")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Offline", strings.TrimSpace(rec.Body.String()))
}

func TestServeOfflineWithoutInstall(t *testing.T) {
	shell, _, net := newShell(t)
	net.offline.Store(true)

	rec := get(t, shell, "/", "Sec-Fetch-Mode", "navigate")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestNonGetPassesThrough(t *testing.T) {
	shell, caches, _ := newShell(t)

	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	shell.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "posted", rec.Body.String())
	assert.Empty(t, caches.Keys())
}

func TestOtherOriginIsNotCached(t *testing.T) {
	shell, caches, _ := newShell(t)

	req := httptest.NewRequest(http.MethodGet, "http://cdn.example.com/sets", nil)
	req.Host = "flashlearn.local"
	rec := httptest.NewRecorder()
	shell.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, caches.Keys())
}

func TestUpstreamTransport(t *testing.T) {
	upstream := httptest.NewServer(pages())
	defer upstream.Close()

	tr, err := NewUpstreamTransport(upstream.URL, nil)
	require.NoError(t, err)
	shell := NewShell(Version, NewCacheStorage(), tr, logger.Nop())
	require.NoError(t, shell.Install(context.Background()))

	rec := get(t, shell, "/manifest.json")
	assert.Equal(t, "page /manifest.json", rec.Body.String())
}

func TestUpstreamTransportWrapsNetworkErrors(t *testing.T) {
	upstream := httptest.NewServer(pages())
	url := upstream.URL
	upstream.Close()

	tr, err := NewUpstreamTransport(url, nil)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err = tr.RoundTrip(req)
	assert.True(t, errors.Is(err, ErrNetwork))

	_, err = NewUpstreamTransport("not-a-url", nil)
	assert.Error(t, err)
}
