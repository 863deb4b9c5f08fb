package internal_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/frame/internal"
	"github.com/dmitrymomot/frame/pkg/validator"
)

func TestAsHTTPError(t *testing.T) {
	t.Parallel()

	t.Run("wrapped HTTPError preserves fields", func(t *testing.T) {
		t.Parallel()
		httpErr := internal.ErrForbidden("forbidden",
			internal.WithDetail("missing role"),
			internal.WithRequestID("req-1"),
		)
		err := fmt.Errorf("middleware: %w", httpErr)

		got := internal.AsHTTPError(err)
		require.NotNil(t, got)
		assert.Equal(t, http.StatusForbidden, got.Code)
		assert.Equal(t, "forbidden", got.Message)
		assert.Equal(t, "missing role", got.Detail)
		assert.Equal(t, "req-1", got.RequestID)
		assert.Equal(t, "Forbidden", got.StatusText())
	})

	t.Run("unwraps cause", func(t *testing.T) {
		t.Parallel()
		cause := errors.New("db down")
		err := internal.ErrInternal("try again", internal.WithError(cause))
		require.ErrorIs(t, err, cause)
	})

	t.Run("unrelated error returns nil", func(t *testing.T) {
		t.Parallel()
		require.Nil(t, internal.AsHTTPError(errors.New("plain error")))
		require.Nil(t, internal.AsHTTPError(nil))
	})
}

func TestStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"http error", internal.ErrNotFound("gone"), http.StatusNotFound},
		{"wrapped http error", fmt.Errorf("x: %w", internal.ErrUnprocessable("bad")), http.StatusUnprocessableEntity},
		{"invalid parameter", fmt.Errorf("users.show: %w", internal.ErrInvalidParameter), http.StatusBadRequest},
		{"unresolvable action", internal.ErrUnresolvableAction, http.StatusInternalServerError},
		{"panic", &internal.PanicError{Value: "boom"}, http.StatusInternalServerError},
		{"validation", fmt.Errorf("signup: %w", validator.Apply(validator.RequiredString("email", ""))), http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, internal.StatusCode(tt.err))
		})
	}
}

func TestDefaultErrorHandler(t *testing.T) {
	t.Parallel()

	app := internal.New(internal.WithRoutes(func(r *internal.Router) {
		r.Get("/http", func(c internal.Context) error {
			return c.Error(http.StatusConflict, "already exists")
		})
		r.Get("/internal", func(internal.Context) error {
			return errors.New("secret connection string")
		})
		r.Post("/validate", func(c internal.Context) error {
			return validator.New().Required("email", c.Form("email")).Err()
		})
		r.Get("/written", func(c internal.Context) error {
			_ = c.String(http.StatusAccepted, "partial")
			return errors.New("late failure")
		})
	}))

	rec := serve(t, app, http.MethodGet, "/http")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "already exists", rec.Body.String())

	rec = serve(t, app, http.MethodGet, "/internal")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal Server Error", rec.Body.String())

	rec = serve(t, app, http.MethodPost, "/validate")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "validation failed: email: This field is required.", rec.Body.String())

	rec = serve(t, app, http.MethodGet, "/written")
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "partial", rec.Body.String())
}
