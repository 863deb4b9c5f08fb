package internal

// Handler declares routes on a router.
//
// Example:
//
//	type Pages struct{}
//
//	func (p *Pages) Routes(r *frame.Router) {
//	    r.Get("/", p.home, frame.Name("home"))
//	    r.Get("/about", p.about)
//	}
type Handler interface {
	Routes(r *Router)
}

// HandlerFunc is the signature for route actions.
// Returning a non-nil error hands it to the error handler.
type HandlerFunc func(c Context) error

// PositionalFunc is an action that receives the route parameters as
// positional arguments, in the order they appear in the URI template.
type PositionalFunc func(c Context, params ...string) error

// Positional adapts fn to a HandlerFunc.
//
// Example:
//
//	r.Get("/posts/{year}/{slug}", frame.Positional(func(c frame.Context, p ...string) error {
//	    return c.String(200, p[0]+"/"+p[1])
//	}))
func Positional(fn PositionalFunc) HandlerFunc {
	return func(c Context) error {
		var names []string
		if route := c.Route(); route != nil {
			names = route.Params()
		}
		params := c.Params()
		args := make([]string, len(names))
		for i, name := range names {
			args[i] = params[name]
		}
		return fn(c, args...)
	}
}

// Middleware runs before a route action. Returning halt=true makes body the
// entire response and stops dispatch: later middleware and the action are
// skipped. The status defaults to 200 unless the middleware set one with
// Context.SetStatus.
type Middleware interface {
	Handle(c Context) (body string, halt bool)
}

// MiddlewareFunc adapts a function to Middleware.
type MiddlewareFunc func(c Context) (string, bool)

func (f MiddlewareFunc) Handle(c Context) (string, bool) {
	return f(c)
}

// Halt sets the response status and returns body with halt=true.
//
// Example:
//
//	func auth(c frame.Context) (string, bool) {
//	    if c.Header("Authorization") == "" {
//	        return frame.Halt(c, http.StatusUnauthorized, "Unauthorized")
//	    }
//	    return "", false
//	}
func Halt(c Context, code int, body string) (string, bool) {
	c.SetStatus(code)
	return body, true
}

// Wrapper decorates the whole dispatch of a request, including route
// matching and error handling of the wrapped chain. Use it for concerns
// like request IDs that must run for every request, matched or not.
type Wrapper func(next HandlerFunc) HandlerFunc

// ErrorHandler handles errors returned from actions.
type ErrorHandler func(Context, error) error
