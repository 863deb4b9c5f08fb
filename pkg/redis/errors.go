package redis

import "errors"

var (
	// ErrEmptyConnectionURL is returned when REDIS_URL is not set.
	ErrEmptyConnectionURL = errors.New("redis: empty connection URL")
	ErrFailedToParseURL   = errors.New("redis: failed to parse connection URL")

	// ErrConnectionFailed wraps the last ping error once all connect
	// attempts are used up.
	ErrConnectionFailed  = errors.New("redis: failed to establish connection")
	ErrHealthcheckFailed = errors.New("redis: healthcheck failed")
)
