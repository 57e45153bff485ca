package middleware

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/providers"
)

// cacheRoute declares a cacheable path. Prefix routes also match their
// subresources, e.g. /api/facilities covers /api/facilities/{id}.
type cacheRoute struct {
	path   string
	prefix bool
	ttl    time.Duration
}

var cacheableRoutes = []cacheRoute{
	{path: "/api/facilities/search", ttl: 3 * time.Minute},
	{path: "/api/facilities", prefix: true, ttl: 5 * time.Minute},
	{path: "/api/promotions", prefix: true, ttl: 5 * time.Minute},
}

// CacheMiddleware caches responses for anonymous catalog reads. Keys embed
// the raw request path so event-driven invalidation can match them with a
// pattern scan.
type CacheMiddleware struct {
	cache providers.CacheProvider
}

// NewCacheMiddleware creates a new cache middleware
func NewCacheMiddleware(cache providers.CacheProvider) *CacheMiddleware {
	return &CacheMiddleware{cache: cache}
}

// Middleware returns the caching handler
func (m *CacheMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Authenticated responses may differ per caller; never cache them.
		if m.cache == nil || r.Method != http.MethodGet || r.Header.Get("Authorization") != "" {
			next.ServeHTTP(w, r)
			return
		}

		route, ok := matchCacheRoute(r.URL.Path)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		key := cacheKey(r)
		if cached, err := m.cache.Get(r.Context(), key); err == nil {
			w.Header().Set("X-Cache", "HIT")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(cached)
			return
		}
		w.Header().Set("X-Cache", "MISS")

		recorder := newResponseRecorder(w)
		next.ServeHTTP(recorder, r)

		if recorder.statusCode != http.StatusOK || recorder.body.Len() == 0 {
			return
		}
		ttlSeconds := int(route.ttl / time.Second)
		if err := m.cache.Set(r.Context(), key, recorder.body.Bytes(), ttlSeconds); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Failed to cache response")
		}
	})
}

func matchCacheRoute(path string) (cacheRoute, bool) {
	for _, route := range cacheableRoutes {
		if path == route.path || (route.prefix && strings.HasPrefix(path, route.path+"/")) {
			return route, true
		}
	}
	return cacheRoute{}, false
}

// cacheKey keeps the path readable inside the key; invalidation scans for
// "http:cache:*<path>*".
func cacheKey(r *http.Request) string {
	key := fmt.Sprintf("http:cache:%s:%s", r.Method, r.URL.Path)
	if r.URL.RawQuery != "" {
		key += "?" + r.URL.RawQuery
	}
	return key
}

// responseRecorder duplicates the response body so it can be stored after
// the handler runs.
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
	written    bool
}

func newResponseRecorder(w http.ResponseWriter) *responseRecorder {
	return &responseRecorder{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
		body:           &bytes.Buffer{},
	}
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	if r.written {
		return
	}
	r.statusCode = statusCode
	r.written = true
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *responseRecorder) Write(data []byte) (int, error) {
	if !r.written {
		r.WriteHeader(http.StatusOK)
	}
	r.body.Write(data)
	return r.ResponseWriter.Write(data)
}
