// Package frame is a small MVC web framework for Go: a pattern router with
// named routes and groups, controllers with declared parameters, a
// middleware pipeline, sessions with CSRF protection, a template engine
// and a fluent SQL query builder.
//
// There is no global state. New builds an explicit application value that
// owns the routes, controllers, services, views, logger and sessions; it is
// read-only afterwards and serves requests concurrently.
//
// # Quick Start
//
//	app := frame.New(
//	    frame.WithLogger("web", middlewares.RequestIDExtractor()),
//	    frame.WithSession(session.NewMemoryStore(0)),
//	    frame.WithWrappers(middlewares.RequestID()),
//	    frame.WithMiddleware(middlewares.CSRF()),
//	    frame.WithRoutes(func(r *frame.Router) {
//	        r.Get("/", func(c frame.Context) error {
//	            return c.String(http.StatusOK, "Hello")
//	        })
//	    }),
//	)
//
//	if err := app.Run(":8080"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Routes
//
// Route templates are literal paths with {name} or {name:regex}
// placeholders. The first registered route that matches wins; a trailing
// slash on the request path is ignored. Groups compose a prefix,
// middleware and a default controller and restore the outer context when
// they return:
//
//	r.Prefix("/admin").Middleware(auth).Group(func(r *frame.Router) {
//	    r.Get(`/users/{id:\d+}`, showUser, frame.Name("admin.users.show"))
//	})
//
//	u, _ := app.Router().URL("admin.users.show", map[string]string{"id": "7"})
//	// u == "/admin/users/7"
//
// # Controllers
//
// A controller declares its actions and how each parameter is resolved:
// from the route, coerced to a kind, or from a registered service factory.
//
//	func (u *Users) Actions(a *frame.Actions) {
//	    a.Add("show", u.Show, frame.Param("id", frame.KindInt))
//	    a.Add("store", u.Store, frame.Inject("validator"))
//	}
//
//	func (u *Users) Show(c frame.Context, args frame.Args) error {
//	    return c.View(http.StatusOK, "users/show", map[string]any{"id": args.Int("id")})
//	}
//
// A parameter that fails coercion answers 400; an unknown action or
// service is a server error.
//
// # Middleware
//
// Middleware runs in order before the action: global first, then group,
// then route. Returning true halts the request and writes the returned
// body instead of calling the action:
//
//	auth := frame.MiddlewareFunc(func(c frame.Context) (string, bool) {
//	    if c.Header("Authorization") == "" {
//	        return frame.Halt(c, http.StatusUnauthorized, "denied")
//	    }
//	    return "", false
//	})
//
// # Shutdown
//
// Run handles SIGINT/SIGTERM for graceful shutdown. Register cleanup with
// ShutdownHook:
//
//	app.Run(":8080", frame.ShutdownHook(db.Shutdown(pool)))
package frame
