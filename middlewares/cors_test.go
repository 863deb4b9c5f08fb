package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/frame/internal"
	"github.com/dmitrymomot/frame/middlewares"
)

func newCORSApp(hits *int, opts ...middlewares.CORSOption) *internal.App {
	return internal.New(
		internal.WithWrappers(middlewares.CORS(opts...)),
		internal.WithRoutes(func(r *internal.Router) {
			r.Get("/api/notes", func(c internal.Context) error {
				*hits++
				return c.String(http.StatusOK, "notes")
			})
		}),
	)
}

func corsRequest(method, origin string) *http.Request {
	req := httptest.NewRequest(method, "/api/notes", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	return req
}

func TestCORS(t *testing.T) {
	t.Parallel()

	t.Run("no origin passes through", func(t *testing.T) {
		t.Parallel()
		var hits int
		rec := httptest.NewRecorder()
		newCORSApp(&hits).ServeHTTP(rec, corsRequest(http.MethodGet, ""))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, hits)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("wildcard answers star", func(t *testing.T) {
		t.Parallel()
		var hits int
		rec := httptest.NewRecorder()
		newCORSApp(&hits).ServeHTTP(rec, corsRequest(http.MethodGet, "https://a.example"))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rec.Header().Values("Vary"), "Origin")
		assert.Equal(t, "notes", rec.Body.String())
	})

	t.Run("listed origin is echoed", func(t *testing.T) {
		t.Parallel()
		var hits int
		app := newCORSApp(&hits, middlewares.WithAllowOrigins("https://a.example"))

		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, corsRequest(http.MethodGet, "https://a.example"))
		assert.Equal(t, "https://a.example", rec.Header().Get("Access-Control-Allow-Origin"))

		rec = httptest.NewRecorder()
		app.ServeHTTP(rec, corsRequest(http.MethodGet, "https://evil.example"))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, 2, hits)
	})

	t.Run("credentials echo the origin", func(t *testing.T) {
		t.Parallel()
		var hits int
		app := newCORSApp(&hits,
			middlewares.WithAllowCredentials(),
			middlewares.WithExposeHeaders("X-Request-ID"),
		)

		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, corsRequest(http.MethodGet, "https://a.example"))
		assert.Equal(t, "https://a.example", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
		assert.Equal(t, "X-Request-ID", rec.Header().Get("Access-Control-Expose-Headers"))
	})

	t.Run("origin func overrides list", func(t *testing.T) {
		t.Parallel()
		var hits int
		app := newCORSApp(&hits,
			middlewares.WithAllowOrigins("https://a.example"),
			middlewares.WithAllowOriginFunc(func(origin string) bool {
				return strings.HasSuffix(origin, ".trusted.example")
			}),
		)

		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, corsRequest(http.MethodGet, "https://app.trusted.example"))
		assert.Equal(t, "https://app.trusted.example", rec.Header().Get("Access-Control-Allow-Origin"))

		rec = httptest.NewRecorder()
		app.ServeHTTP(rec, corsRequest(http.MethodGet, "https://a.example"))
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight without an OPTIONS route", func(t *testing.T) {
		t.Parallel()
		var hits int
		app := newCORSApp(&hits,
			middlewares.WithAllowMethods(http.MethodGet, http.MethodPost),
			middlewares.WithAllowHeaders("Content-Type"),
			middlewares.WithMaxAge(time.Hour),
		)

		req := corsRequest(http.MethodOptions, "https://a.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNoContent, rec.Code)
		assert.Zero(t, hits)
		assert.Equal(t, "GET, POST", rec.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "Content-Type", rec.Header().Get("Access-Control-Allow-Headers"))
		assert.Equal(t, "3600", rec.Header().Get("Access-Control-Max-Age"))
		assert.Contains(t, rec.Header().Values("Vary"), "Access-Control-Request-Method")
	})

	t.Run("zero max age omits header", func(t *testing.T) {
		t.Parallel()
		var hits int
		app := newCORSApp(&hits, middlewares.WithMaxAge(0))

		req := corsRequest(http.MethodOptions, "https://a.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("plain OPTIONS is not a preflight", func(t *testing.T) {
		t.Parallel()
		var hits int
		rec := httptest.NewRecorder()
		newCORSApp(&hits).ServeHTTP(rec, corsRequest(http.MethodOptions, "https://a.example"))

		assert.NotEqual(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Methods"))
	})
}
