// Package config loads application settings from .env files and the
// environment.
//
// Settings structs declare their variables with env struct tags. App covers
// the web server; db.Config, redis.Config and logger.Config are loaded the
// same way, on their own or embedded.
package config
