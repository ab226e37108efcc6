package main

import (
	"github.com/spf13/cobra"

	"github.com/eringen/pensieve"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the built site for preview",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := pensieve.LoadConfig(rootOpts.ConfigPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			app := pensieve.New(cfg, nil, pensieve.WithLogger(rootOpts.logger))
			return app.Serve(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides addr)")

	return cmd
}
