package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eringen/pensieve"
)

// NewSnapshotCommand creates the snapshot command.
func NewSnapshotCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Copy WordPress content into the local SQLite store",
		Long: `Copy every tag and post from the WordPress endpoint into database_path,
so builds can run with source: sqlite and no network access.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := pensieve.LoadConfig(rootOpts.ConfigPath)
			if err != nil {
				return err
			}
			if cfg.WordPress.Endpoint == "" {
				return fmt.Errorf("snapshot needs wordpress.endpoint")
			}
			st, err := pensieve.NewStore(cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("open store %s: %w", cfg.DatabasePath, err)
			}
			defer st.Close()

			res, err := pensieve.Snapshot(cmd.Context(), rootOpts.wordpressClient(cfg), st, cfg.Concurrency, rootOpts.logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Copied %d tags and %d posts into %s (removed %d tags, %d posts)\n",
				res.Tags, res.Posts, cfg.DatabasePath, res.RemovedTags, res.RemovedPosts)
			return nil
		},
	}
}
