package frame

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/frame/internal"
	"github.com/dmitrymomot/frame/pkg/health"
	"github.com/dmitrymomot/frame/pkg/logger"
	"github.com/dmitrymomot/frame/pkg/session"
)

// Type aliases - public API
type (
	// App is the explicit application context: routes, controllers,
	// services, views, logger and sessions. It is immutable after New.
	App = internal.App

	// Router declares routes, groups and named routes.
	Router = internal.Router

	// GroupBuilder composes a group context before Group runs it.
	GroupBuilder = internal.GroupBuilder

	// Route is a registered route.
	Route = internal.Route

	// RouteOption configures a route at registration.
	RouteOption = internal.RouteOption

	// Pattern is a compiled route template.
	Pattern = internal.Pattern

	// Params holds route parameters by name.
	Params = internal.Params

	// Context provides request/response access and helper methods.
	Context = internal.Context

	// Handler declares routes on a router.
	Handler = internal.Handler

	// HandlerFunc is the signature for route actions.
	HandlerFunc = internal.HandlerFunc

	// PositionalFunc receives route parameters in template order.
	PositionalFunc = internal.PositionalFunc

	// Middleware runs before an action and may halt the request.
	Middleware = internal.Middleware

	// MiddlewareFunc adapts a function to Middleware.
	MiddlewareFunc = internal.MiddlewareFunc

	// Wrapper wraps the whole dispatch, including unmatched requests.
	Wrapper = internal.Wrapper

	// ErrorHandler handles errors returned from actions.
	ErrorHandler = internal.ErrorHandler

	// Controller declares its actions and their parameters.
	Controller = internal.Controller

	// ControllerEntry is a named controller for WithControllers.
	ControllerEntry = internal.ControllerEntry

	// Actions collects a controller's action declarations.
	Actions = internal.Actions

	// ActionFunc is the signature for controller actions.
	ActionFunc = internal.ActionFunc

	// Args holds the resolved parameters of a controller action.
	Args = internal.Args

	// ParamSpec describes how one action parameter is resolved.
	ParamSpec = internal.ParamSpec

	// Kind is the type a route parameter is coerced to.
	Kind = internal.Kind

	// ServiceFactory creates a service for Inject parameters.
	ServiceFactory = internal.ServiceFactory

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// Component is the interface for renderable templates.
	Component = internal.Component

	// ViewRenderer renders named views for Context.View.
	ViewRenderer = internal.ViewRenderer

	// HealthOption configures health check endpoints.
	HealthOption = internal.HealthOption

	// Scalar lists the types PathParam and Query convert to.
	Scalar = internal.Scalar

	// ContextExtractor extracts a slog attribute from context.
	// Used with WithLogger to add request-scoped values to logs.
	ContextExtractor = logger.ContextExtractor

	// SessionOption configures the session cookie.
	SessionOption = internal.SessionOption

	// Session represents a user session.
	Session = session.Session

	// SessionStore defines the interface for session persistence.
	SessionStore = session.Store

	// ResponseWriter wraps http.ResponseWriter with before-write hooks.
	ResponseWriter = internal.ResponseWriter

	// HTTPError is an error with an HTTP status shown to the client.
	HTTPError = internal.HTTPError

	// HTTPErrorOption configures an HTTPError.
	HTTPErrorOption = internal.HTTPErrorOption

	// PanicError is a panic recovered during dispatch.
	PanicError = internal.PanicError

	// Extractor reads a value from the first source that has one.
	Extractor = internal.Extractor

	// ExtractorSource reads a value from the request.
	ExtractorSource = internal.ExtractorSource
)

// Parameter kinds.
const (
	KindString = internal.KindString
	KindInt    = internal.KindInt
	KindFloat  = internal.KindFloat
	KindBool   = internal.KindBool
)

// CSRFSessionKey is the session key holding the CSRF token.
const CSRFSessionKey = internal.CSRFSessionKey

// Errors
var (
	ErrInvalidPattern         = internal.ErrInvalidPattern
	ErrDuplicateParameter     = internal.ErrDuplicateParameter
	ErrUnnamedRoute           = internal.ErrUnnamedRoute
	ErrUnresolvableAction     = internal.ErrUnresolvableAction
	ErrUnresolvableParameter  = internal.ErrUnresolvableParameter
	ErrUnresolvableDependency = internal.ErrUnresolvableDependency
	ErrInvalidParameter       = internal.ErrInvalidParameter
	ErrViewsNotConfigured     = internal.ErrViewsNotConfigured
)

// Constructors

// New creates an application. Routes are registered here; the App is
// read-only afterwards and safe for concurrent requests.
//
// Example:
//
//	app := frame.New(
//	    frame.WithControllers(frame.Register("users", controllers.NewUsers(db))),
//	    frame.WithMiddleware(middlewares.CSRF()),
//	    frame.WithRoutes(func(r *frame.Router) {
//	        r.Get("/", home)
//	        r.Controller("users").Prefix("/users").Group(func(r *frame.Router) {
//	            r.Get(`/{id:\d+}`, r.Method("show"), frame.Name("users.show"))
//	        })
//	    }),
//	)
//
//	err := app.Run(":8080", frame.Logger(log))
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// CompilePattern compiles a route template such as "/users/{id:\d+}".
func CompilePattern(template string) (*Pattern, error) {
	return internal.CompilePattern(template)
}

// Register names a controller for WithControllers.
func Register(name string, c Controller) ControllerEntry {
	return internal.Register(name, c)
}

// Param declares an action parameter read from the route and coerced to kind.
func Param(name string, kind Kind) ParamSpec {
	return internal.Param(name, kind)
}

// Inject declares an action parameter created by the service factory
// registered under name.
func Inject(name string) ParamSpec {
	return internal.Inject(name)
}

// Arg returns the resolved parameter name as T, or the zero value.
func Arg[T any](a Args, name string) T {
	return internal.Arg[T](a, name)
}

// Positional adapts an action that takes route parameters in template order.
func Positional(fn PositionalFunc) HandlerFunc {
	return internal.Positional(fn)
}

// Halt sets the status and returns a halting middleware result.
func Halt(c Context, code int, body string) (string, bool) {
	return internal.Halt(c, code, body)
}

// Name names a route for URL generation.
func Name(name string) RouteOption {
	return internal.Name(name)
}

// Use adds route middleware after the group's.
func Use(mw ...Middleware) RouteOption {
	return internal.Use(mw...)
}

// App options

// WithBasePath prefixes every route URI.
func WithBasePath(p string) Option {
	return internal.WithBasePath(p)
}

// WithMountPath strips p from request paths before matching.
func WithMountPath(p string) Option {
	return internal.WithMountPath(p)
}

// WithMiddleware adds global middleware, run before route middleware.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithWrappers adds wrappers around the whole dispatch, outermost first.
func WithWrappers(w ...Wrapper) Option {
	return internal.WithWrappers(w...)
}

// WithHandlers registers handlers that declare routes.
func WithHandlers(h ...Handler) Option {
	return internal.WithHandlers(h...)
}

// WithRoutes registers a route declaration function.
func WithRoutes(fn func(r *Router)) Option {
	return internal.WithRoutes(fn)
}

// WithControllers adds controllers to the registry.
func WithControllers(entries ...ControllerEntry) Option {
	return internal.WithControllers(entries...)
}

// WithService registers a factory for Inject parameters.
func WithService(name string, factory ServiceFactory) Option {
	return internal.WithService(name, factory)
}

// WithViews sets the renderer used by Context.View.
func WithViews(r ViewRenderer) Option {
	return internal.WithViews(r)
}

// WithStaticFiles mounts a static file handler at pattern.
//
// Example:
//
//	//go:embed public
//	var assets embed.FS
//
//	frame.New(frame.WithStaticFiles("/static/", assets, "public"))
func WithStaticFiles(pattern string, fsys fs.FS, subDir string) Option {
	return internal.WithStaticFiles(pattern, fsys, subDir)
}

// WithErrorHandler replaces DefaultErrorHandler.
func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

// WithHealthChecks enables liveness and readiness endpoints.
//
// Example:
//
//	frame.WithHealthChecks(
//	    frame.WithReadinessCheck("db", db.Healthcheck(pool)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

// WithLogger creates a JSON logger tagged with component.
func WithLogger(component string, extractors ...ContextExtractor) Option {
	return internal.WithLogger(component, extractors...)
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return internal.WithCustomLogger(l)
}

// WithSession enables server-side sessions backed by store.
func WithSession(store SessionStore, opts ...SessionOption) Option {
	return internal.WithSession(store, opts...)
}

// Session options

func WithSessionCookieName(name string) SessionOption {
	return internal.WithSessionCookieName(name)
}

// WithSessionMaxAge sets the session lifetime in seconds.
func WithSessionMaxAge(seconds int) SessionOption {
	return internal.WithSessionMaxAge(seconds)
}

func WithSessionDomain(domain string) SessionOption {
	return internal.WithSessionDomain(domain)
}

func WithSessionPath(path string) SessionOption {
	return internal.WithSessionPath(path)
}

func WithSessionSecure(secure bool) SessionOption {
	return internal.WithSessionSecure(secure)
}

func WithSessionSameSite(sameSite http.SameSite) SessionOption {
	return internal.WithSessionSameSite(sameSite)
}

// Health check options

// WithLivenessPath sets the liveness endpoint path. Default: "/health/live".
func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

// WithReadinessPath sets the readiness endpoint path. Default: "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

// WithReadinessCheck adds a named readiness check.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// Run options

// Logger sets the server logger. Defaults to the app logger.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout sets the graceful shutdown timeout. Default: 30s.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// StartupHook runs fn before the server accepts connections.
// An error aborts startup.
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook runs fn during shutdown, in registration order.
//
// Example:
//
//	frame.ShutdownHook(db.Shutdown(pool))
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets the base context for signal handling.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// Errors

// NewHTTPError creates an error shown to the client with code.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.NewHTTPError(code, message, opts...)
}

func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrBadRequest(message, opts...)
}

func ErrForbidden(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrForbidden(message, opts...)
}

func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrNotFound(message, opts...)
}

func ErrUnprocessable(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrUnprocessable(message, opts...)
}

func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrInternal(message, opts...)
}

// WithDetail adds detail to an HTTPError.
func WithDetail(detail string) HTTPErrorOption {
	return internal.WithDetail(detail)
}

// WithRequestID attaches the request ID to an HTTPError.
func WithRequestID(id string) HTTPErrorOption {
	return internal.WithRequestID(id)
}

// WithError sets the underlying cause of an HTTPError.
func WithError(err error) HTTPErrorOption {
	return internal.WithError(err)
}

// AsHTTPError extracts an HTTPError from err's chain, or nil.
func AsHTTPError(err error) *HTTPError {
	return internal.AsHTTPError(err)
}

// AsPanicError extracts a recovered panic from err's chain.
func AsPanicError(err error) (*PanicError, bool) {
	return internal.AsPanicError(err)
}

// StatusCode maps an action error to an HTTP status.
func StatusCode(err error) int {
	return internal.StatusCode(err)
}

// DefaultErrorHandler logs err and writes a plain text response.
func DefaultErrorHandler(c Context, err error) error {
	return internal.DefaultErrorHandler(c, err)
}

// Request helpers

// PathParam returns the route parameter converted to T.
func PathParam[T Scalar](c Context, name string) T {
	return internal.PathParam[T](c, name)
}

// Query returns the query parameter converted to T.
func Query[T Scalar](c Context, name string) T {
	return internal.Query[T](c, name)
}

// QueryDefault returns the query parameter converted to T, or defaultValue.
func QueryDefault[T Scalar](c Context, name string, defaultValue T) T {
	return internal.QueryDefault(c, name, defaultValue)
}

// ContextValue returns the request-scoped value stored under key as T.
func ContextValue[T any](c Context, key any) T {
	return internal.ContextValue[T](c, key)
}

// Extractors

// NewExtractor tries sources in order.
func NewExtractor(sources ...ExtractorSource) Extractor {
	return internal.NewExtractor(sources...)
}

func FromHeader(name string) ExtractorSource { return internal.FromHeader(name) }
func FromQuery(name string) ExtractorSource  { return internal.FromQuery(name) }
func FromCookie(name string) ExtractorSource { return internal.FromCookie(name) }
func FromParam(name string) ExtractorSource  { return internal.FromParam(name) }
func FromForm(name string) ExtractorSource   { return internal.FromForm(name) }
func FromSession(key string) ExtractorSource { return internal.FromSession(key) }

// FromBearerToken reads the token from "Authorization: Bearer <token>".
func FromBearerToken() ExtractorSource {
	return internal.FromBearerToken()
}
