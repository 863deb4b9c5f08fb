package internal

import (
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/frame/pkg/logger"
	"github.com/dmitrymomot/frame/pkg/session"
)

// Option configures the application.
type Option func(*App)

// WithBasePath prefixes every registered route URI with p.
//
// Example:
//
//	frame.New(frame.WithBasePath("/api"))
//	// r.Get("/users", ...) answers GET /api/users
func WithBasePath(p string) Option {
	return func(a *App) {
		a.basePath = p
	}
}

// WithMountPath strips p from request paths before matching. Use it when
// the app is served under a sub-path by a proxy or a parent mux.
func WithMountPath(p string) Option {
	return func(a *App) {
		a.mountPath = "/" + strings.Trim(p, "/")
		if a.mountPath == "/" {
			a.mountPath = ""
		}
	}
}

// WithMiddleware adds global middleware. It runs before route middleware,
// in the order provided, for every matched route.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithWrappers adds wrappers around the whole dispatch, outermost first.
// Wrappers run for unmatched requests too.
func WithWrappers(w ...Wrapper) Option {
	return func(a *App) {
		a.wrappers = append(a.wrappers, w...)
	}
}

// WithHandlers registers handlers that declare routes.
// Each handler's Routes method is called during New.
func WithHandlers(h ...Handler) Option {
	return func(a *App) {
		a.handlers = append(a.handlers, h...)
	}
}

// WithRoutes registers a route declaration function, called during New
// after all handlers.
func WithRoutes(fn func(r *Router)) Option {
	return func(a *App) {
		if fn != nil {
			a.routeFuncs = append(a.routeFuncs, fn)
		}
	}
}

// WithControllers adds controllers to the registry used by Router.Action
// and Router.Method.
//
// Example:
//
//	frame.WithControllers(
//	    frame.Register("users", controllers.NewUsers(db)),
//	    frame.Register("pages", controllers.NewPages()),
//	)
func WithControllers(entries ...ControllerEntry) Option {
	return func(a *App) {
		a.controllers = append(a.controllers, entries...)
	}
}

// WithService registers a factory for Inject parameters.
// The factory is called once per action invocation.
//
// Example:
//
//	frame.WithService("validator", func() any { return validator.New() })
func WithService(name string, factory ServiceFactory) Option {
	return func(a *App) {
		a.invoker.provide(name, factory)
	}
}

// WithViews sets the renderer used by Context.View.
func WithViews(r ViewRenderer) Option {
	return func(a *App) {
		a.views = r
	}
}

// WithStaticFiles mounts a static file handler at pattern, serving subDir
// of fsys. Directory listings are disabled.
//
// Example:
//
//	//go:embed public
//	var assets embed.FS
//
//	frame.New(frame.WithStaticFiles("/static/", assets, "public"))
func WithStaticFiles(pattern string, fsys fs.FS, subDir string) Option {
	return func(a *App) {
		subFS, err := fs.Sub(fsys, subDir)
		if err != nil {
			panic(err)
		}

		prefix := strings.TrimRight(pattern, "/")
		fileServer := http.StripPrefix(prefix, http.FileServerFS(subFS))

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/") {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Cache-Control", "public, max-age=3600")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			fileServer.ServeHTTP(w, r)
		})

		a.staticRoutes = append(a.staticRoutes, staticRoute{handler: handler, pattern: prefix})
	}
}

// WithErrorHandler replaces DefaultErrorHandler.
//
// Example:
//
//	frame.WithErrorHandler(func(c frame.Context, err error) error {
//	    return c.View(frame.StatusCode(err), "errors/page", map[string]any{"error": err})
//	})
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		if h != nil {
			a.errorHandler = h
		}
	}
}

// WithHealthChecks enables liveness and readiness endpoints.
//
// Example:
//
//	frame.WithHealthChecks(
//	    frame.WithReadinessCheck("db", db.Healthcheck(pool)),
//	    frame.WithReadinessCheck("redis", redis.Healthcheck(client)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := &healthConfig{
			livenessPath:  defaultLivenessPath,
			readinessPath: defaultReadinessPath,
		}
		for _, opt := range opts {
			opt(cfg)
		}
		a.healthConfig = cfg
	}
}

// WithLogger creates a JSON logger tagged with component. Extractors pull
// values such as the request ID from the context into every entry.
//
// Example:
//
//	frame.New(frame.WithLogger("web", middlewares.RequestIDExtractor()))
func WithLogger(component string, extractors ...logger.ContextExtractor) Option {
	return func(a *App) {
		a.logger = logger.New(extractors...).With("component", component)
	}
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithSession enables server-side sessions backed by store.
// Sessions are loaded lazily and saved before the response is written.
//
// Example:
//
//	frame.New(
//	    frame.WithSession(session.NewRedisStore(client),
//	        frame.WithSessionSecure(true),
//	    ),
//	)
func WithSession(store session.Store, opts ...SessionOption) Option {
	return func(a *App) {
		a.sessionManager = NewSessionManager(store, opts...)
	}
}
