package middlewares_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/frame/internal"
	"github.com/dmitrymomot/frame/middlewares"
)

func newTimeoutApp(wrapper internal.Wrapper, h internal.HandlerFunc, handled *error) *internal.App {
	return internal.New(
		internal.WithWrappers(wrapper),
		internal.WithErrorHandler(func(c internal.Context, err error) error {
			*handled = err
			return internal.DefaultErrorHandler(c, err)
		}),
		internal.WithRoutes(func(r *internal.Router) {
			r.Get("/slow", h)
		}),
	)
}

func TestTimeout(t *testing.T) {
	t.Parallel()

	t.Run("deadline exceeded", func(t *testing.T) {
		t.Parallel()
		var handled error
		app := newTimeoutApp(middlewares.Timeout(20*time.Millisecond), func(c internal.Context) error {
			<-c.Done()
			return c.Err()
		}, &handled)

		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/slow", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "Request timeout", rec.Body.String())

		te, ok := middlewares.AsTimeoutError(handled)
		require.True(t, ok)
		assert.Equal(t, 20*time.Millisecond, te.Duration)
		assert.ErrorIs(t, handled, context.DeadlineExceeded)
	})

	t.Run("custom status and message", func(t *testing.T) {
		t.Parallel()
		var handled error
		app := newTimeoutApp(
			middlewares.Timeout(10*time.Millisecond,
				middlewares.WithTimeoutStatus(http.StatusGatewayTimeout),
				middlewares.WithTimeoutMessage("too slow"),
			),
			func(c internal.Context) error {
				<-c.Done()
				return nil
			}, &handled)

		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/slow", nil))

		assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
		assert.Equal(t, "too slow", rec.Body.String())
	})

	t.Run("fast action sees the deadline", func(t *testing.T) {
		t.Parallel()
		var (
			handled  error
			deadline time.Time
		)
		app := newTimeoutApp(middlewares.Timeout(time.Minute), func(c internal.Context) error {
			deadline, _ = c.Deadline()
			return c.String(http.StatusOK, "ok")
		}, &handled)

		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/slow", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NoError(t, handled)
		assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
	})

	t.Run("written response is kept", func(t *testing.T) {
		t.Parallel()
		var handled error
		app := newTimeoutApp(middlewares.Timeout(10*time.Millisecond), func(c internal.Context) error {
			if err := c.String(http.StatusAccepted, "partial"); err != nil {
				return err
			}
			<-c.Done()
			return nil
		}, &handled)

		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/slow", nil))

		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.Equal(t, "partial", rec.Body.String())
		assert.NoError(t, handled)
	})

	t.Run("action errors pass through", func(t *testing.T) {
		t.Parallel()
		var handled error
		app := newTimeoutApp(middlewares.Timeout(time.Minute), func(c internal.Context) error {
			return c.Error(http.StatusNotFound, "Note not found")
		}, &handled)

		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/slow", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		_, ok := middlewares.AsTimeoutError(handled)
		assert.False(t, ok)
	})

	t.Run("non-positive timeout uses default", func(t *testing.T) {
		t.Parallel()
		var (
			handled  error
			deadline time.Time
		)
		app := newTimeoutApp(middlewares.Timeout(0), func(c internal.Context) error {
			deadline, _ = c.Deadline()
			return c.NoContent(http.StatusNoContent)
		}, &handled)

		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/slow", nil))

		assert.WithinDuration(t, time.Now().Add(middlewares.DefaultTimeout), deadline, 5*time.Second)
	})

	t.Run("error handler runs without the deadline", func(t *testing.T) {
		t.Parallel()
		var ctxErr error
		app := internal.New(
			internal.WithWrappers(middlewares.Timeout(10*time.Millisecond)),
			internal.WithErrorHandler(func(c internal.Context, err error) error {
				ctxErr = c.Err()
				return c.String(internal.StatusCode(err), "handled")
			}),
			internal.WithRoutes(func(r *internal.Router) {
				r.Get("/slow", func(c internal.Context) error {
					<-c.Done()
					return errors.New("gave up")
				})
			}),
		)

		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/slow", nil))

		assert.NoError(t, ctxErr)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
