package config

import "errors"

var (
	ErrLoadEnvFile          = errors.New("config: failed to load env file")
	ErrParse                = errors.New("config: failed to parse environment")
	ErrInvalidSessionDriver = errors.New("config: invalid session driver")
	ErrMissingRedisURL      = errors.New("config: redis session driver requires REDIS_URL")
)
