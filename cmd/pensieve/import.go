package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eringen/pensieve"
)

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <dir>",
		Short: "Import Markdown posts into the local SQLite store",
		Long: `Import every .md file under <dir> into database_path. Front matter may
set title, date, uri, slug, excerpt, tags and draft; date is required.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := pensieve.LoadConfig(rootOpts.ConfigPath)
			if err != nil {
				return err
			}
			st, err := pensieve.NewStore(cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("open store %s: %w", cfg.DatabasePath, err)
			}
			defer st.Close()

			n, err := pensieve.ImportMarkdown(cmd.Context(), st, args[0], cfg.BasePath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d posts into %s\n", n, cfg.DatabasePath)
			return nil
		},
	}
}
