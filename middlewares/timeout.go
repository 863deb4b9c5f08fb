package middlewares

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrymomot/frame/internal"
)

// DefaultTimeout is the request deadline used when Timeout gets a
// non-positive duration.
const DefaultTimeout = 30 * time.Second

// TimeoutError reports that a request ran past its deadline.
type TimeoutError struct {
	Duration time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timeout after %s", e.Duration)
}

// AsTimeoutError extracts a TimeoutError from err.
func AsTimeoutError(err error) (*TimeoutError, bool) {
	var te *TimeoutError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}

// TimeoutConfig configures the timeout wrapper.
type TimeoutConfig struct {
	Message string
	Timeout time.Duration
	Code    int
}

// TimeoutOption configures TimeoutConfig.
type TimeoutOption func(*TimeoutConfig)

// WithTimeoutStatus sets the status answered on timeout. Default: 503.
func WithTimeoutStatus(code int) TimeoutOption {
	return func(cfg *TimeoutConfig) {
		if code > 0 {
			cfg.Code = code
		}
	}
}

func WithTimeoutMessage(msg string) TimeoutOption {
	return func(cfg *TimeoutConfig) {
		if msg != "" {
			cfg.Message = msg
		}
	}
}

// Timeout returns a wrapper that puts a deadline on the request context.
//
// The action runs on the calling goroutine, so it has to watch c.Done()
// (or pass c to pgx, go-redis and friends) to stop early. When the deadline
// has passed and nothing was written, the wrapper returns an *internal.HTTPError
// wrapping a *TimeoutError for the error handler.
func Timeout(timeout time.Duration, opts ...TimeoutOption) internal.Wrapper {
	cfg := &TimeoutConfig{
		Timeout: timeout,
		Code:    http.StatusServiceUnavailable,
		Message: "Request timeout",
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			ctx, cancel := context.WithTimeout(c.Context(), cfg.Timeout)
			defer cancel()

			c.SetContext(ctx)
			err := next(c)
			// Session saving and error handling run after the deadline.
			c.SetContext(context.WithoutCancel(c.Context()))

			if !errors.Is(ctx.Err(), context.DeadlineExceeded) || c.Written() {
				return err
			}
			c.LogWarn("request timeout", "timeout", cfg.Timeout.String())
			return internal.NewHTTPError(cfg.Code, cfg.Message,
				internal.WithError(errors.Join(&TimeoutError{Duration: cfg.Timeout}, err)))
		}
	}
}
