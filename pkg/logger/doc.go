// Package logger builds slog loggers for frame applications.
//
// Loggers write JSON (or text) to stdout and can fan out to Sentry. Context
// extractors add request-scoped attributes, such as the request ID, to every
// record logged with a context:
//
//	log := logger.NewWithConfig(logger.Config{Level: "debug", Format: "text"},
//		middlewares.RequestIDExtractor(),
//	)
//	log.InfoContext(c, "user created", "id", id)
//
// Config carries env tags and is normally populated by pkg/config.
// NewNope returns a logger that discards everything; it is the framework
// default until WithLogger is used.
package logger
