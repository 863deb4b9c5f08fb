// Package middlewares provides the CSRF middleware and the request ID,
// CORS and timeout wrappers for frame applications.
//
// # CSRF
//
// CSRF halts POST, PUT, PATCH and DELETE requests whose "_token" form
// field or X-CSRF-Token header does not match the token kept in the
// session. The response is 419 "Invalid csrf token" and the action never
// runs.
//
//	app := frame.New(
//	    frame.WithSession(session.NewMemoryStore(time.Minute)),
//	    frame.WithMiddleware(middlewares.CSRF()),
//	)
//
// # Request ID
//
// RequestID is a wrapper, so it runs for every request including 404s. It
// keeps an incoming X-Request-ID or generates a UUID, stores it in the
// context and echoes it in the response. Pair it with RequestIDExtractor to
// get request_id in every log entry:
//
//	app := frame.New(
//	    frame.WithLogger("web", middlewares.RequestIDExtractor()),
//	    frame.WithWrappers(middlewares.RequestID()),
//	)
//
// # CORS
//
// CORS adds Access-Control-* headers for allowed origins and answers
// preflight OPTIONS requests with 204 before routing, so no OPTIONS route
// is needed:
//
//	frame.WithWrappers(middlewares.CORS(
//	    middlewares.WithAllowOrigins("https://app.example.com"),
//	    middlewares.WithAllowCredentials(),
//	))
//
// # Timeout
//
// Timeout puts a deadline on the request context. Actions pass c to pgx or
// go-redis calls, which then give up at the deadline; the wrapper turns
// the overrun into a 503 for the error handler. AsTimeoutError finds the
// *TimeoutError inside it.
//
//	frame.WithWrappers(middlewares.RequestID(), middlewares.Timeout(10*time.Second))
package middlewares
