package internal

import (
	"fmt"
	"net/http"
	"slices"
	"strings"
)

var anyMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodOptions,
}

// Route is a registered (methods, URI template, action) triple.
// Routes are immutable once registered.
type Route struct {
	pattern    *Pattern
	handler    HandlerFunc
	methods    []string
	middleware []Middleware
	uri        string
	name       string
}

// Methods returns the HTTP methods the route answers to.
func (rt *Route) Methods() []string { return rt.methods }

// URI returns the full URI template, including base path and group prefixes.
func (rt *Route) URI() string { return rt.uri }

// Name returns the route name, or "" if it has none.
func (rt *Route) Name() string { return rt.name }

// Params returns placeholder names in template order.
func (rt *Route) Params() []string { return rt.pattern.Names() }

func (rt *Route) allows(method string) bool {
	return slices.Contains(rt.methods, method)
}

// RouteOption configures a single route at registration.
type RouteOption func(*Route)

// Name registers the route under name for reverse URL generation.
// A later route with the same name replaces the earlier one.
func Name(name string) RouteOption {
	return func(rt *Route) {
		rt.name = name
	}
}

// Use appends route-level middleware. It runs after group and global
// middleware.
func Use(mw ...Middleware) RouteOption {
	return func(rt *Route) {
		rt.middleware = append(rt.middleware, mw...)
	}
}

// groupContext is what a Group callback inherits.
type groupContext struct {
	prefix     string
	controller string
	middleware []Middleware
}

// Router is the ordered route table. Routes are registered during
// application setup only; lookups afterwards are read-only.
type Router struct {
	invoker  *Invoker
	named    map[string]*Route
	fallback HandlerFunc
	basePath string
	routes   []*Route
	stack    []groupContext
}

func newRouter(basePath string, invoker *Invoker) *Router {
	return &Router{
		invoker:  invoker,
		named:    make(map[string]*Route),
		basePath: basePath,
		stack:    []groupContext{{}},
	}
}

func (r *Router) current() groupContext {
	return r.stack[len(r.stack)-1]
}

// Get registers a GET route.
func (r *Router) Get(uri string, h HandlerFunc, opts ...RouteOption) *Route {
	return r.Match([]string{http.MethodGet}, uri, h, opts...)
}

// Post registers a POST route.
func (r *Router) Post(uri string, h HandlerFunc, opts ...RouteOption) *Route {
	return r.Match([]string{http.MethodPost}, uri, h, opts...)
}

// Put registers a PUT route.
func (r *Router) Put(uri string, h HandlerFunc, opts ...RouteOption) *Route {
	return r.Match([]string{http.MethodPut}, uri, h, opts...)
}

// Patch registers a PATCH route.
func (r *Router) Patch(uri string, h HandlerFunc, opts ...RouteOption) *Route {
	return r.Match([]string{http.MethodPatch}, uri, h, opts...)
}

// Delete registers a DELETE route.
func (r *Router) Delete(uri string, h HandlerFunc, opts ...RouteOption) *Route {
	return r.Match([]string{http.MethodDelete}, uri, h, opts...)
}

// Options registers an OPTIONS route.
func (r *Router) Options(uri string, h HandlerFunc, opts ...RouteOption) *Route {
	return r.Match([]string{http.MethodOptions}, uri, h, opts...)
}

// Any registers a route for every standard method.
func (r *Router) Any(uri string, h HandlerFunc, opts ...RouteOption) *Route {
	return r.Match(anyMethods, uri, h, opts...)
}

// Match registers a route for the given methods.
// It panics if uri is not a valid template; routes are declared at
// startup and a bad template is a programming error.
func (r *Router) Match(methods []string, uri string, h HandlerFunc, opts ...RouteOption) *Route {
	group := r.current()
	full := joinPath(r.basePath, group.prefix, uri)

	pattern, err := CompilePattern(full)
	if err != nil {
		panic(fmt.Sprintf("frame: route %v %s: %v", methods, full, err))
	}

	upper := make([]string, 0, len(methods))
	for _, m := range methods {
		upper = append(upper, strings.ToUpper(m))
	}

	rt := &Route{
		pattern:    pattern,
		handler:    h,
		methods:    upper,
		middleware: slices.Clone(group.middleware),
		uri:        full,
	}
	for _, opt := range opts {
		opt(rt)
	}

	r.routes = append(r.routes, rt)
	if rt.name != "" {
		r.named[rt.name] = rt
	}
	return rt
}

// Group runs fn with the current group context. Anything fn sets up is
// discarded when it returns.
func (r *Router) Group(fn func(r *Router)) {
	r.group(groupContext{}, fn)
}

// Prefix starts a group whose routes are registered under p.
//
// Example:
//
//	r.Prefix("/admin").Middleware(auth).Group(func(r *frame.Router) {
//	    r.Get("/settings", settings) // GET /admin/settings
//	})
func (r *Router) Prefix(p string) *GroupBuilder {
	return &GroupBuilder{router: r, ctx: groupContext{prefix: p}}
}

// Middleware starts a group whose routes run mw before their own middleware.
func (r *Router) Middleware(mw ...Middleware) *GroupBuilder {
	return &GroupBuilder{router: r, ctx: groupContext{middleware: slices.Clone(mw)}}
}

// Controller starts a group in which Method resolves against name.
func (r *Router) Controller(name string) *GroupBuilder {
	return &GroupBuilder{router: r, ctx: groupContext{controller: name}}
}

// group pushes parent+delta, runs fn and pops, also when fn panics.
func (r *Router) group(delta groupContext, fn func(r *Router)) {
	parent := r.current()
	next := groupContext{
		prefix:     joinPath(parent.prefix, delta.prefix),
		controller: parent.controller,
		middleware: slices.Concat(parent.middleware, delta.middleware),
	}
	if delta.controller != "" {
		next.controller = delta.controller
	}

	r.stack = append(r.stack, next)
	defer func() { r.stack = r.stack[:len(r.stack)-1] }()
	fn(r)
}

// Action returns a handler invoking method on the registered controller.
// Unknown controllers or methods fail at request time with
// ErrUnresolvableAction.
func (r *Router) Action(controller, method string) HandlerFunc {
	return r.invoker.handler(controller, method)
}

// Method returns a handler invoking method on the controller of the
// enclosing Controller group.
func (r *Router) Method(method string) HandlerFunc {
	controller := r.current().controller
	if controller == "" {
		return func(Context) error {
			return fmt.Errorf("%w: method %q outside a controller group", ErrUnresolvableAction, method)
		}
	}
	return r.invoker.handler(controller, method)
}

// Fallback sets the handler used when no route matches.
func (r *Router) Fallback(h HandlerFunc) {
	r.fallback = h
}

// URL builds the path of the route registered under name.
// Missing parameters are left out of the result.
//
// Example:
//
//	r.Get("/users/{id}", show, frame.Name("users.show"))
//	url, _ := r.URL("users.show", map[string]string{"id": "7"}) // "/users/7"
func (r *Router) URL(name string, params map[string]string) (string, error) {
	rt, ok := r.named[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnnamedRoute, name)
	}
	return rt.pattern.Build(params), nil
}

// Routes returns the registered routes in registration order.
func (r *Router) Routes() []*Route {
	return slices.Clone(r.routes)
}

// match returns the first route, in registration order, that allows method
// and whose pattern matches path.
func (r *Router) match(method, path string) (*Route, Params) {
	for _, rt := range r.routes {
		if !rt.allows(method) {
			continue
		}
		if params, ok := rt.pattern.Match(path); ok {
			return rt, params
		}
	}
	return nil, nil
}

// GroupBuilder composes group attributes before Group is called.
type GroupBuilder struct {
	router *Router
	ctx    groupContext
}

// Prefix appends p to the group prefix.
func (g *GroupBuilder) Prefix(p string) *GroupBuilder {
	g.ctx.prefix = joinPath(g.ctx.prefix, p)
	return g
}

// Middleware adds mw after the middleware already on the builder.
func (g *GroupBuilder) Middleware(mw ...Middleware) *GroupBuilder {
	g.ctx.middleware = slices.Concat(g.ctx.middleware, mw)
	return g
}

// Controller sets the controller Method resolves against.
func (g *GroupBuilder) Controller(name string) *GroupBuilder {
	g.ctx.controller = name
	return g
}

// Group registers the routes added by fn under the composed attributes.
func (g *GroupBuilder) Group(fn func(r *Router)) {
	g.router.group(g.ctx, fn)
}

// joinPath joins non-empty parts with single slashes: ("", "/") is "/",
// ("/admin", "/") is "/admin", ("admin/", "/users/") is "/admin/users".
func joinPath(parts ...string) string {
	segs := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.Trim(p, "/"); p != "" {
			segs = append(segs, p)
		}
	}
	return "/" + strings.Join(segs, "/")
}
