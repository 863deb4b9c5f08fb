package internal

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"io"
	"log/slog"
	"maps"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/dmitrymomot/frame/pkg/session"
)

// CSRFSessionKey is the session key holding the CSRF token.
const CSRFSessionKey = "_csrf_token"

// Component is the interface for renderable components.
// It is compatible with templ.Component.
type Component interface {
	Render(ctx context.Context, w io.Writer) error
}

// ViewRenderer renders a named template with data to HTML.
type ViewRenderer interface {
	Render(name string, data map[string]any) (string, error)
}

// Context provides request/response access and helper methods.
// It also implements context.Context by delegating to the request context.
type Context interface {
	context.Context

	Request() *http.Request
	Response() http.ResponseWriter

	// Context returns the request's context.Context.
	Context() context.Context

	// SetContext replaces the request's context.Context, for wrappers that
	// derive one with a deadline or cancellation.
	SetContext(ctx context.Context)

	// Route returns the matched route, or nil when no route matched.
	Route() *Route

	// Param returns a route parameter, or "" if it doesn't exist.
	Param(name string) string

	// Params returns all route parameters of the matched route.
	Params() Params

	Query(name string) string

	// QueryDefault returns the query parameter or defaultValue if it is empty.
	QueryDefault(name, defaultValue string) string

	// Form returns a form value, parsing the body on first access.
	Form(name string) string

	FormFile(name string) (multipart.File, *multipart.FileHeader, error)

	Header(name string) string
	SetHeader(name, value string)

	// SetStatus sets the status used when middleware halts dispatch.
	SetStatus(code int)

	// Status returns the status set with SetStatus, or 0.
	Status() int

	// JSON writes v as JSON with the given status code.
	JSON(code int, v any) error

	// String writes a plain text response.
	String(code int, s string) error

	// HTML writes an HTML response.
	HTML(code int, html string) error

	NoContent(code int) error

	Redirect(code int, url string) error

	// View renders a named template through the configured ViewRenderer.
	// The CSRF token is added to data as "csrf_token" when sessions are on.
	// Returns ErrViewsNotConfigured if WithViews was not called.
	View(code int, name string, data map[string]any) error

	// Render renders a component such as a templ.Component.
	Render(code int, component Component) error

	// URL builds the path of a named route.
	URL(name string, params map[string]string) (string, error)

	// Error creates an HTTPError without writing a response.
	// Return it from the action to hand it to the error handler.
	Error(code int, message string, opts ...HTTPErrorOption) *HTTPError

	// Written reports whether a response has been written.
	Written() bool

	Logger() *slog.Logger
	LogDebug(msg string, attrs ...any)
	LogInfo(msg string, attrs ...any)
	LogWarn(msg string, attrs ...any)
	LogError(msg string, attrs ...any)

	// Set stores a value in the request context.
	Set(key any, value any)

	// Get retrieves a value stored with Set, or nil.
	Get(key any) any

	// Cookie returns a plain cookie value.
	Cookie(name string) (string, error)

	SetCookie(name, value string, maxAge int)

	// Session returns the current session, creating one if needed.
	// Returns session.ErrNotConfigured if WithSession was not called.
	Session() (*session.Session, error)

	SessionValue(key string) (any, error)
	SetSessionValue(key string, val any) error
	DeleteSessionValue(key string) error

	// Flash returns and removes a flash message. ok is false if none is set.
	Flash(key string) (val any, ok bool)

	// SetFlash stores a message for the next request.
	SetFlash(key string, val any) error

	// RegenerateSession moves the session to a new ID. Call it after login.
	RegenerateSession() error

	// DestroySession deletes the session and clears its cookie.
	DestroySession() error

	// CSRFToken returns the session's CSRF token, creating it on first use.
	CSRFToken() (string, error)

	// ResponseWriter returns the wrapped writer.
	ResponseWriter() *ResponseWriter
}

type requestContext struct {
	request        *http.Request
	responseWriter *ResponseWriter
	app            *App
	route          *Route
	params         Params
	session        *session.Session
	status         int
	sessionHooked  bool
}

func newContext(w http.ResponseWriter, r *http.Request, app *App) *requestContext {
	return &requestContext{
		request:        r,
		responseWriter: NewResponseWriter(w),
		app:            app,
	}
}

// bind attaches the matched route and its parameters.
func (c *requestContext) bind(route *Route, params Params) {
	c.route = route
	c.params = params
}

func (c *requestContext) Request() *http.Request {
	return c.request
}

func (c *requestContext) Response() http.ResponseWriter {
	return c.responseWriter
}

func (c *requestContext) Context() context.Context {
	return c.request.Context()
}

func (c *requestContext) SetContext(ctx context.Context) {
	c.request = c.request.WithContext(ctx)
}

func (c *requestContext) Deadline() (time.Time, bool) {
	return c.request.Context().Deadline()
}

func (c *requestContext) Done() <-chan struct{} {
	return c.request.Context().Done()
}

func (c *requestContext) Err() error {
	return c.request.Context().Err()
}

func (c *requestContext) Value(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) Route() *Route {
	return c.route
}

func (c *requestContext) Param(name string) string {
	return c.params[name]
}

func (c *requestContext) Params() Params {
	return c.params
}

func (c *requestContext) Query(name string) string {
	return c.request.URL.Query().Get(name)
}

func (c *requestContext) QueryDefault(name, defaultValue string) string {
	if v := c.request.URL.Query().Get(name); v != "" {
		return v
	}
	return defaultValue
}

func (c *requestContext) Form(name string) string {
	return c.request.FormValue(name)
}

func (c *requestContext) FormFile(name string) (multipart.File, *multipart.FileHeader, error) {
	return c.request.FormFile(name)
}

func (c *requestContext) Header(name string) string {
	return c.request.Header.Get(name)
}

func (c *requestContext) SetHeader(name, value string) {
	c.responseWriter.Header().Set(name, value)
}

func (c *requestContext) SetStatus(code int) {
	c.status = code
}

func (c *requestContext) Status() int {
	return c.status
}

func (c *requestContext) JSON(code int, v any) error {
	c.SetHeader("Content-Type", "application/json; charset=utf-8")
	c.responseWriter.WriteHeader(code)
	return json.NewEncoder(c.responseWriter).Encode(v)
}

func (c *requestContext) String(code int, s string) error {
	return c.write(code, "text/plain; charset=utf-8", s)
}

func (c *requestContext) HTML(code int, html string) error {
	return c.write(code, "text/html; charset=utf-8", html)
}

func (c *requestContext) write(code int, contentType, body string) error {
	c.SetHeader("Content-Type", contentType)
	c.responseWriter.WriteHeader(code)
	_, err := io.WriteString(c.responseWriter, body)
	return err
}

func (c *requestContext) NoContent(code int) error {
	c.responseWriter.WriteHeader(code)
	return nil
}

func (c *requestContext) Redirect(code int, url string) error {
	http.Redirect(c.responseWriter, c.request, url, code)
	return nil
}

func (c *requestContext) View(code int, name string, data map[string]any) error {
	if c.app.views == nil {
		return ErrViewsNotConfigured
	}

	vars := make(map[string]any, len(data)+1)
	maps.Copy(vars, data)
	if c.app.sessionManager != nil {
		if _, ok := vars["csrf_token"]; !ok {
			token, err := c.CSRFToken()
			if err != nil {
				return err
			}
			vars["csrf_token"] = token
		}
	}

	html, err := c.app.views.Render(name, vars)
	if err != nil {
		return err
	}
	return c.HTML(code, html)
}

func (c *requestContext) Render(code int, component Component) error {
	c.SetHeader("Content-Type", "text/html; charset=utf-8")
	c.responseWriter.WriteHeader(code)
	return component.Render(c.request.Context(), c.responseWriter)
}

func (c *requestContext) URL(name string, params map[string]string) (string, error) {
	return c.app.router.URL(name, params)
}

func (c *requestContext) Error(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(code, message, opts...)
}

func (c *requestContext) Written() bool {
	return c.responseWriter.Written()
}

func (c *requestContext) Logger() *slog.Logger {
	return c.app.logger
}

func (c *requestContext) LogDebug(msg string, attrs ...any) {
	c.app.logger.DebugContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogInfo(msg string, attrs ...any) {
	c.app.logger.InfoContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogWarn(msg string, attrs ...any) {
	c.app.logger.WarnContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogError(msg string, attrs ...any) {
	c.app.logger.ErrorContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) Set(key, value any) {
	ctx := context.WithValue(c.request.Context(), key, value)
	c.request = c.request.WithContext(ctx)
}

func (c *requestContext) Get(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) Cookie(name string) (string, error) {
	ck, err := c.request.Cookie(name)
	if err != nil {
		return "", err
	}
	return ck.Value, nil
}

func (c *requestContext) SetCookie(name, value string, maxAge int) {
	http.SetCookie(c.responseWriter, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// hookSession saves a dirty session right before the response is written.
func (c *requestContext) hookSession() {
	if c.sessionHooked {
		return
	}
	c.sessionHooked = true
	c.responseWriter.OnBeforeWrite(c.saveSession)
}

// saveSession persists the session if it changed. Errors are logged and
// not propagated so that response rendering is never interrupted.
func (c *requestContext) saveSession() {
	if c.session == nil || !c.session.IsDirty() {
		return
	}
	if err := c.app.sessionManager.Store().Update(c.Context(), c.session); err != nil {
		c.LogError("failed to save session", "error", err)
		return
	}
	c.session.ClearDirty()
}

func (c *requestContext) Session() (*session.Session, error) {
	sm := c.app.sessionManager
	if sm == nil {
		return nil, session.ErrNotConfigured
	}
	if c.session != nil {
		return c.session, nil
	}

	c.hookSession()

	sess, err := sm.LoadSession(c.Context(), c.request)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		if sess, err = sm.CreateSession(c.Context()); err != nil {
			return nil, err
		}
		sm.SaveSession(c.responseWriter, sess)
	}

	c.session = sess
	return sess, nil
}

func (c *requestContext) SessionValue(key string) (any, error) {
	sess, err := c.Session()
	if err != nil {
		return nil, err
	}
	val, _ := sess.GetValue(key)
	return val, nil
}

func (c *requestContext) SetSessionValue(key string, val any) error {
	sess, err := c.Session()
	if err != nil {
		return err
	}
	sess.SetValue(key, val)
	return nil
}

func (c *requestContext) DeleteSessionValue(key string) error {
	sess, err := c.Session()
	if err != nil {
		return err
	}
	sess.DeleteValue(key)
	return nil
}

func (c *requestContext) Flash(key string) (any, bool) {
	sess, err := c.Session()
	if err != nil {
		return nil, false
	}
	return sess.Flash(key)
}

func (c *requestContext) SetFlash(key string, val any) error {
	sess, err := c.Session()
	if err != nil {
		return err
	}
	sess.SetFlash(key, val)
	return nil
}

func (c *requestContext) RegenerateSession() error {
	sess, err := c.Session()
	if err != nil {
		return err
	}
	sm := c.app.sessionManager
	if err := sm.Regenerate(c.Context(), sess); err != nil {
		return err
	}
	sm.SaveSession(c.responseWriter, sess)
	return nil
}

func (c *requestContext) DestroySession() error {
	sm := c.app.sessionManager
	if sm == nil {
		return session.ErrNotConfigured
	}
	if c.session != nil {
		if err := sm.Store().Delete(c.Context(), c.session.ID); err != nil {
			return err
		}
	}
	sm.DeleteSession(c.responseWriter)
	c.session = nil
	return nil
}

func (c *requestContext) CSRFToken() (string, error) {
	sess, err := c.Session()
	if err != nil {
		return "", err
	}
	if token, ok := sess.GetValue(CSRFSessionKey); ok {
		if s, ok := token.(string); ok && s != "" {
			return s, nil
		}
	}
	token := rand.Text()
	sess.SetValue(CSRFSessionKey, token)
	return token, nil
}

func (c *requestContext) ResponseWriter() *ResponseWriter {
	return c.responseWriter
}
