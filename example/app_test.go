package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/frame"
	"github.com/dmitrymomot/frame/example/controllers"
)

func TestRoutes(t *testing.T) {
	t.Parallel()

	app := frame.New(
		frame.WithControllers(frame.Register("contacts", controllers.NewContacts(nil))),
		frame.WithRoutes(routes),
	)

	names := make(map[string]string)
	for _, r := range app.Router().Routes() {
		if r.Name() != "" {
			names[r.Name()] = r.URI()
		}
	}
	assert.Equal(t, map[string]string{
		"contacts.index":   "/contacts",
		"contacts.store":   "/contacts",
		"contacts.show":    `/contacts/{id:\d+}`,
		"contacts.destroy": `/contacts/{id:\d+}/delete`,
	}, names)

	u, err := app.Router().URL("contacts.destroy", map[string]string{"id": "4"})
	require.NoError(t, err)
	assert.Equal(t, "/contacts/4/delete", u)

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/contacts", rec.Header().Get("Location"))
}
