package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrymomot/frame/pkg/logger"
	"github.com/dmitrymomot/frame/pkg/redis"
)

// Session drivers.
const (
	SessionMemory = "memory"
	SessionRedis  = "redis"
)

// App holds the web application settings.
type App struct {
	Address         string        `env:"APP_ADDR" envDefault:":8080"`
	Env             string        `env:"APP_ENV" envDefault:"development"`
	BasePath        string        `env:"APP_BASE_PATH"`
	MountPath       string        `env:"APP_MOUNT_PATH"`
	ShutdownTimeout time.Duration `env:"APP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	RequestTimeout  time.Duration `env:"APP_REQUEST_TIMEOUT" envDefault:"30s"`
	Debug           bool          `env:"APP_DEBUG" envDefault:"false"`

	ViewsDir    string `env:"VIEWS_DIR" envDefault:"views"`
	ViewsReload bool   `env:"VIEWS_RELOAD" envDefault:"true"`

	SessionDriver   string        `env:"SESSION_DRIVER" envDefault:"memory"`
	SessionCookie   string        `env:"SESSION_COOKIE" envDefault:"frame_session"`
	SessionLifetime time.Duration `env:"SESSION_LIFETIME" envDefault:"168h"`
	SessionSecure   bool          `env:"SESSION_SECURE" envDefault:"false"`

	Log   logger.Config
	Redis redis.Config
}

// Validate checks settings that depend on each other.
func (a App) Validate() error {
	switch a.SessionDriver {
	case SessionMemory:
	case SessionRedis:
		if a.Redis.URL == "" {
			return ErrMissingRedisURL
		}
	default:
		return errors.Join(ErrInvalidSessionDriver, errors.New(a.SessionDriver))
	}
	return nil
}

// Load reads the given .env files (".env" when none are given) into the
// process environment and parses it into T. Missing files are skipped and
// variables already set in the environment win over file values.
//
// Example:
//
//	cfg, err := config.Load[config.App]()
//	dbCfg, err := config.Load[db.Config]()
func Load[T any](files ...string) (T, error) {
	var zero T
	if err := LoadEnv(files...); err != nil {
		return zero, err
	}
	cfg, err := env.ParseAs[T]()
	if err != nil {
		return zero, errors.Join(ErrParse, err)
	}
	return cfg, nil
}

// MustLoad is Load that panics on error. Use it in main.
func MustLoad[T any](files ...string) T {
	cfg, err := Load[T](files...)
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadEnv reads .env files into the process environment without parsing.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return errors.Join(ErrLoadEnvFile, err)
		}
	}
	return nil
}
