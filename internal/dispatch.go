package internal

import (
	"net/http"
	"runtime"
	"strings"
)

// routeBinder is implemented by contexts that can carry the matched route.
type routeBinder interface {
	bind(route *Route, params Params)
}

// dispatch matches the request against the route table, runs the
// middleware pipeline and invokes the action.
//
// A halting middleware writes its body with the status it set through
// Context.SetStatus (200 otherwise); the remaining middleware and the action
// are skipped. Without a matching route the fallback runs, or a plain 404.
func (a *App) dispatch(c Context) error {
	r := c.Request()
	route, params := a.router.match(r.Method, a.normalizePath(r.URL.Path))
	if route == nil {
		if a.router.fallback != nil {
			return a.router.fallback(c)
		}
		return c.String(http.StatusNotFound, "Not Found")
	}

	if b, ok := c.(routeBinder); ok {
		b.bind(route, params)
	}

	for _, mw := range a.middlewares {
		if body, halt := mw.Handle(c); halt {
			return writeHalt(c, body)
		}
	}
	for _, mw := range route.middleware {
		if body, halt := mw.Handle(c); halt {
			return writeHalt(c, body)
		}
	}

	return route.handler(c)
}

func writeHalt(c Context, body string) error {
	if c.Written() {
		return nil
	}
	code := c.Status()
	if code == 0 {
		code = http.StatusOK
	}
	return c.HTML(code, body)
}

// normalizePath strips the mount path and trailing slashes.
// The result always starts with a single slash.
func (a *App) normalizePath(p string) string {
	if m := a.mountPath; m != "" && strings.HasPrefix(p, m) {
		if rest := p[len(m):]; rest == "" || rest[0] == '/' {
			p = rest
		}
	}
	p = strings.TrimRight(p, "/")
	return "/" + strings.TrimLeft(p, "/")
}

// call runs h and converts a panic into a *PanicError.
// http.ErrAbortHandler is re-panicked so net/http can abort the response.
func call(h HandlerFunc, c Context) (err error) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		if v == http.ErrAbortHandler {
			panic(v)
		}
		buf := make([]byte, 64<<10)
		err = &PanicError{Value: v, Stack: buf[:runtime.Stack(buf, false)]}
	}()
	return h(c)
}
