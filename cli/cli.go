package cli

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/frame/internal"
	"github.com/dmitrymomot/frame/pkg/config"
)

// AppFactory builds the application from loaded settings. The returned run
// options typically carry startup and shutdown hooks for the resources the
// factory opened.
type AppFactory func(ctx context.Context, cfg config.App) (*internal.App, []internal.RunOption, error)

type options struct {
	name       string
	app        AppFactory
	migrations fs.FS
	envFiles   []string
}

// Option configures the command tree.
type Option func(*options)

// WithName sets the root command name. Default: "frame".
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithApp enables the serve and routes commands.
func WithApp(f AppFactory) Option {
	return func(o *options) {
		o.app = f
	}
}

// WithMigrations makes migrate use an embedded file system instead of
// DB_MIGRATIONS_DIR.
func WithMigrations(fsys fs.FS) Option {
	return func(o *options) {
		o.migrations = fsys
	}
}

// WithEnvFiles sets the .env files loaded before each command.
// Default: ".env".
func WithEnvFiles(files ...string) Option {
	return func(o *options) {
		o.envFiles = files
	}
}

// New builds the command tree.
//
// A project binary usually embeds it so serve and routes see the project's
// routes:
//
//	func main() {
//	    cli.Execute(cli.WithApp(buildApp), cli.WithMigrations(migrations))
//	}
func New(opts ...Option) *cobra.Command {
	o := &options{name: "frame"}
	for _, opt := range opts {
		opt(o)
	}

	root := &cobra.Command{
		Use:           o.name,
		Short:         "Build and run frame applications",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		makeControllerCmd(),
		migrateCmd(o),
	)
	if o.app != nil {
		root.AddCommand(serveCmd(o), routesCmd(o))
	}
	return root
}

// Execute runs the command tree and exits non-zero on error.
func Execute(opts ...Option) {
	if err := New(opts...).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

func success(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}
