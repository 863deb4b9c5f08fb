// Package redis connects go-redis clients from environment configuration.
//
// The client backs session.NewRedisStore; Healthcheck plugs into the
// readiness probe and Shutdown into the server's shutdown hooks.
package redis
