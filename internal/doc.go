// Package internal implements the frame application core.
//
// Import "github.com/dmitrymomot/frame" instead; it re-exports the public API.
//
// # Request flow
//
// App.ServeHTTP hands infrastructure paths (health probes, static files) to a
// chi mux. Everything else goes through the wrappers, then dispatch:
//
//  1. The path is normalized: the mount path is stripped, trailing slashes
//     are trimmed and a single leading slash is guaranteed.
//  2. The route table is scanned in registration order. The first route
//     whose method set contains the request method and whose compiled
//     pattern matches the path wins.
//  3. Global middleware, then the route's middleware, run in order. A
//     middleware that halts writes its body and ends the request.
//  4. The action runs. Controller actions go through the Invoker, which
//     resolves each declared parameter from the route, a registered service
//     or a default value.
//
// Without a match the fallback runs, or a plain 404 "Not Found".
// Errors returned by actions, and recovered panics, reach the ErrorHandler.
//
// # Routes
//
// Patterns use {name} and {name:regex} placeholders:
//
//	r.Get(`/users/{id:\d+}`, show, internal.Name("users.show"))
//	r.Prefix("/admin").Middleware(auth).Group(func(r *internal.Router) {
//	    r.Get("/dashboard", dashboard)
//	})
//	r.Controller("posts").Group(func(r *internal.Router) {
//	    r.Get("/posts/{slug}", r.Method("show"))
//	})
//
// Registration happens inside New; the table is read-only afterwards.
//
// # Context
//
// Context embeds context.Context and carries the response helpers used by
// actions (String, HTML, JSON, View, Redirect), the matched route and its
// parameters, and session, flash and CSRF access when WithSession is set.
package internal
