package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/eringen/pensieve"
	"github.com/eringen/pensieve/content"
	"github.com/eringen/pensieve/wordpress"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Verbose    bool

	logger *slog.Logger
}

// NewRootCommand creates the root command for the pensieve CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "pensieve",
		Short: "Pensieve - static blog builder",
		Long: `Build the Pensieve blog as a static site from a headless WordPress
content graph, or from a local SQLite snapshot of it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.logger = newLogger(cmd.ErrOrStderr(), opts.Verbose)
			slog.SetDefault(opts.logger)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (default ./pensieve.yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewBuildCommand(opts))
	cmd.AddCommand(NewPagesCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewSnapshotCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadConfig reads and validates the site configuration.
func (o *RootOptions) loadConfig() (pensieve.SiteConfig, error) {
	cfg, err := pensieve.LoadConfig(o.ConfigPath)
	if err != nil {
		return pensieve.SiteConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return pensieve.SiteConfig{}, err
	}
	return cfg, nil
}

// openSource returns the content source cfg selects.
func (o *RootOptions) openSource(cfg pensieve.SiteConfig) (content.Source, error) {
	switch cfg.Source {
	case pensieve.SourceWordPress:
		return o.wordpressClient(cfg), nil
	case pensieve.SourceSQLite:
		st, err := pensieve.NewStore(cfg.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("open store %s: %w", cfg.DatabasePath, err)
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unknown source %q", cfg.Source)
	}
}

func (o *RootOptions) wordpressClient(cfg pensieve.SiteConfig) *wordpress.Client {
	return wordpress.NewClient(cfg.WordPress.Endpoint,
		wordpress.WithToken(cfg.WordPress.Token),
		wordpress.WithLogger(o.logger),
	)
}

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the pensieve version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pensieve %s\n", version)
		},
	}
}
