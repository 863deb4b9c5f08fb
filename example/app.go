package main

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrymomot/frame"
	"github.com/dmitrymomot/frame/example/controllers"
	"github.com/dmitrymomot/frame/middlewares"
	"github.com/dmitrymomot/frame/pkg/config"
	"github.com/dmitrymomot/frame/pkg/db"
	"github.com/dmitrymomot/frame/pkg/logger"
	"github.com/dmitrymomot/frame/pkg/redis"
	"github.com/dmitrymomot/frame/pkg/session"
	"github.com/dmitrymomot/frame/pkg/validator"
	"github.com/dmitrymomot/frame/pkg/view"
)

// build wires the application from cfg. Resources it opens are closed by
// the returned shutdown hooks.
func build(ctx context.Context, cfg config.App) (*frame.App, []frame.RunOption, error) {
	log := logger.NewWithConfig(cfg.Log, middlewares.RequestIDExtractor())

	dbCfg, err := config.Load[db.Config]()
	if err != nil {
		return nil, nil, err
	}
	conn, pool, err := db.Open(ctx, dbCfg, log)
	if err != nil {
		return nil, nil, err
	}

	runOpts := []frame.RunOption{
		frame.Logger(log),
		frame.ShutdownHook(db.Shutdown(pool)),
	}
	checks := []frame.HealthOption{
		frame.WithReadinessCheck("postgres", db.Healthcheck(pool)),
	}

	var store frame.SessionStore
	switch cfg.SessionDriver {
	case config.SessionRedis:
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		store = session.NewRedisStore(client)
		runOpts = append(runOpts, frame.ShutdownHook(redis.Shutdown(client)))
		checks = append(checks, frame.WithReadinessCheck("redis", redis.Healthcheck(client)))
	default:
		mem := session.NewMemoryStore(time.Minute)
		store = mem
		runOpts = append(runOpts, frame.ShutdownHook(func(context.Context) error {
			return mem.Close()
		}))
	}

	views := view.NewFromDir(cfg.ViewsDir,
		view.WithReload(cfg.ViewsReload),
		view.WithLogger(log),
	)

	app := frame.New(
		frame.WithCustomLogger(log),
		frame.WithBasePath(cfg.BasePath),
		frame.WithMountPath(cfg.MountPath),
		frame.WithSession(store,
			frame.WithSessionCookieName(cfg.SessionCookie),
			frame.WithSessionMaxAge(int(cfg.SessionLifetime.Seconds())),
			frame.WithSessionSecure(cfg.SessionSecure),
		),
		frame.WithViews(views),
		frame.WithWrappers(
			middlewares.RequestID(),
			middlewares.Timeout(cfg.RequestTimeout),
		),
		frame.WithMiddleware(middlewares.CSRF()),
		frame.WithHealthChecks(checks...),
		frame.WithService("validator", func() any { return validator.New() }),
		frame.WithControllers(
			frame.Register("contacts", controllers.NewContacts(conn)),
		),
		frame.WithErrorHandler(errorPage),
		frame.WithRoutes(routes),
	)
	return app, runOpts, nil
}

func routes(r *frame.Router) {
	r.Get("/", func(c frame.Context) error {
		u, err := c.URL("contacts.index", nil)
		if err != nil {
			return err
		}
		return c.Redirect(http.StatusFound, u)
	})

	r.Controller("contacts").Prefix("/contacts").Group(func(r *frame.Router) {
		r.Get("/", r.Method("index"), frame.Name("contacts.index"))
		r.Post("/", r.Method("store"), frame.Name("contacts.store"))
		r.Get(`/{id:\d+}`, r.Method("show"), frame.Name("contacts.show"))
		r.Post(`/{id:\d+}/delete`, r.Method("destroy"), frame.Name("contacts.destroy"))
	})
}

// errorPage renders server errors with the errors/page view and falls back
// to the default plain text response for everything else.
func errorPage(c frame.Context, err error) error {
	code := frame.StatusCode(err)
	if code < http.StatusInternalServerError {
		return frame.DefaultErrorHandler(c, err)
	}
	c.LogError("request failed", "error", err, "status", code)
	return c.View(code, "errors/page", map[string]any{
		"code":       code,
		"request_id": middlewares.GetRequestID(c),
	})
}
