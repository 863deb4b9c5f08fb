package internal

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/frame/pkg/health"
	"github.com/dmitrymomot/frame/pkg/logger"
)

// App is the explicit application context: it owns the logger, the
// controller registry, the route table and the view renderer.
// App is immutable after New returns and safe for concurrent requests.
type App struct {
	mux            chi.Router
	router         *Router
	invoker        *Invoker
	errorHandler   ErrorHandler
	handler        HandlerFunc
	healthConfig   *healthConfig
	logger         *slog.Logger
	sessionManager *SessionManager
	views          ViewRenderer
	basePath       string
	mountPath      string
	middlewares    []Middleware
	wrappers       []Wrapper
	handlers       []Handler
	routeFuncs     []func(r *Router)
	controllers    []ControllerEntry
	staticRoutes   []staticRoute
}

type staticRoute struct {
	handler http.Handler
	pattern string
}

// New creates an application with the given options.
// Route declarations run here, so an invalid route template panics in New.
//
// Example:
//
//	app := frame.New(
//	    frame.WithControllers(frame.Register("users", users)),
//	    frame.WithMiddleware(middlewares.CSRF()),
//	    frame.WithRoutes(func(r *frame.Router) {
//	        r.Get("/users/{id:\\d+}", r.Action("users", "show"), frame.Name("users.show"))
//	    }),
//	)
func New(opts ...Option) *App {
	a := &App{
		mux:          chi.NewRouter(),
		invoker:      newInvoker(),
		logger:       logger.NewNope(),
		errorHandler: DefaultErrorHandler,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.sessionManager != nil {
		a.sessionManager.SetLogger(a.logger)
	}

	for _, entry := range a.controllers {
		a.invoker.register(entry)
	}

	a.router = newRouter(a.basePath, a.invoker)
	for _, h := range a.handlers {
		h.Routes(a.router)
	}
	for _, fn := range a.routeFuncs {
		fn(a.router)
	}

	a.handler = a.dispatch
	for i := len(a.wrappers) - 1; i >= 0; i-- {
		a.handler = a.wrappers[i](a.handler)
	}

	a.setupMux()
	return a
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, r)
}

// Router returns the route table, for reverse routing and introspection.
func (a *App) Router() *Router {
	return a.router
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// setupMux mounts infrastructure routes on chi and sends everything else
// through the dispatcher.
func (a *App) setupMux() {
	for _, sr := range a.staticRoutes {
		a.mux.Mount(sr.pattern, sr.handler)
	}

	if a.healthConfig != nil {
		opts := []health.Option{health.WithLogger(a.logger)}
		a.mux.Get(a.healthConfig.livenessPath, health.LivenessHandler())
		a.mux.Get(a.healthConfig.readinessPath, health.ReadinessHandler(a.healthConfig.checks, opts...))
	}

	a.mux.Handle("/*", http.HandlerFunc(a.serve))
}

// serve runs one request through the wrapped dispatcher.
func (a *App) serve(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	c := newContext(w, r, a)

	if err := call(a.handler, c); err != nil {
		a.handleError(c, err)
	}
	c.saveSession()

	route := ""
	if c.route != nil {
		route = c.route.URI()
	}
	c.LogDebug("request dispatched",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("route", route),
		slog.Int("status", c.responseWriter.Status()),
		slog.Duration("duration", time.Since(start)),
	)
}

// handleError hands err to the configured error handler unless a response
// has already been written.
func (a *App) handleError(c Context, err error) {
	if c.Written() {
		c.LogError("error after response was written", "error", err)
		return
	}
	if herr := a.errorHandler(c, err); herr != nil {
		c.LogError("error handler failed", "error", herr, "original_error", err)
	}
}

type healthConfig struct {
	checks        health.Checks
	livenessPath  string
	readinessPath string
}

const (
	defaultLivenessPath  = "/health/live"
	defaultReadinessPath = "/health/ready"
)

// HealthOption configures health check endpoints.
type HealthOption func(*healthConfig)

// WithLivenessPath sets the liveness endpoint path. Default: "/health/live".
func WithLivenessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.livenessPath = path
		}
	}
}

// WithReadinessPath sets the readiness endpoint path. Default: "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.readinessPath = path
		}
	}
}

// WithReadinessCheck adds a named readiness check.
// Checks run in parallel during the readiness probe.
//
// Example:
//
//	frame.WithReadinessCheck("db", db.Healthcheck(pool))
func WithReadinessCheck(name string, fn func(context.Context) error) HealthOption {
	return func(c *healthConfig) {
		if c.checks == nil {
			c.checks = make(health.Checks)
		}
		c.checks[name] = fn
	}
}
