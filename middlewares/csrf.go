package middlewares

import (
	"crypto/subtle"
	"net/http"
	"slices"

	"github.com/dmitrymomot/frame/internal"
)

// Defaults for the CSRF middleware.
const (
	DefaultCSRFField  = "_token"
	DefaultCSRFHeader = "X-CSRF-Token"

	// StatusPageExpired is the status used when the CSRF token is missing or wrong.
	StatusPageExpired = 419
)

var csrfProtectedMethods = []string{
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

// CSRFConfig configures the CSRF middleware.
type CSRFConfig struct {
	Extractor internal.Extractor
	Message   string
	Status    int
}

// CSRFOption configures CSRFConfig.
type CSRFOption func(*CSRFConfig)

// WithCSRFSources replaces where the submitted token is read from.
// Default: the "_token" form field, then the "X-CSRF-Token" header.
func WithCSRFSources(sources ...internal.ExtractorSource) CSRFOption {
	return func(cfg *CSRFConfig) {
		cfg.Extractor = internal.NewExtractor(sources...)
	}
}

// WithCSRFResponse sets the status and body written on rejection.
func WithCSRFResponse(status int, message string) CSRFOption {
	return func(cfg *CSRFConfig) {
		cfg.Status = status
		cfg.Message = message
	}
}

// CSRF returns middleware that rejects state-changing requests whose token
// does not match the one stored in the session. Safe methods pass through.
// Requires frame.WithSession.
//
// Templates emit the token with the #csrf directive; JavaScript clients
// send it in the X-CSRF-Token header.
func CSRF(opts ...CSRFOption) internal.Middleware {
	cfg := &CSRFConfig{
		Extractor: internal.NewExtractor(
			internal.FromForm(DefaultCSRFField),
			internal.FromHeader(DefaultCSRFHeader),
		),
		Status:  StatusPageExpired,
		Message: "Invalid csrf token",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return internal.MiddlewareFunc(func(c internal.Context) (string, bool) {
		if !slices.Contains(csrfProtectedMethods, c.Request().Method) {
			return "", false
		}

		expected, err := c.CSRFToken()
		if err != nil {
			c.LogError("csrf: session unavailable", "error", err)
			return internal.Halt(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		}

		got, ok := cfg.Extractor.Extract(c)
		if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
			c.LogWarn("csrf token mismatch", "method", c.Request().Method, "path", c.Request().URL.Path)
			return internal.Halt(c, cfg.Status, cfg.Message)
		}
		return "", false
	})
}
