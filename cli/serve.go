package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/frame/internal"
	"github.com/dmitrymomot/frame/pkg/config"
)

func serveCmd(o *options) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Load settings from the environment, build the application and serve it
until SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load[config.App](o.envFiles...)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if addr != "" {
				cfg.Address = addr
			}

			app, runOpts, err := o.app(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			runOpts = append([]internal.RunOption{
				internal.ShutdownTimeout(cfg.ShutdownTimeout),
				internal.WithContext(cmd.Context()),
			}, runOpts...)
			return app.Run(cfg.Address, runOpts...)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default: APP_ADDR)")
	return cmd
}

func routesCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List registered routes in match order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load[config.App](o.envFiles...)
			if err != nil {
				return err
			}
			app, _, err := o.app(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return printRoutes(cmd, app.Router().Routes())
		},
	}
}

func printRoutes(cmd *cobra.Command, routes []*internal.Route) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METHOD\tURI\tNAME\tPARAMS")
	for _, rt := range routes {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			strings.Join(rt.Methods(), "|"),
			rt.URI(),
			rt.Name(),
			strings.Join(rt.Params(), ","),
		)
	}
	return w.Flush()
}
