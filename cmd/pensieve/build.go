package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/eringen/pensieve"
)

// BuildOptions holds flags for the build command.
type BuildOptions struct {
	Output string
	DryRun bool
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BuildOptions{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Run one build pass",
		Long: `Fetch every tag and post, register one page for each and render the
site into the output directory. Any query or registration failure halts
the build.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, rootOpts, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output directory (overrides output_dir)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "materialize pages without rendering")

	return cmd
}

func runBuild(cmd *cobra.Command, rootOpts *RootOptions, opts *BuildOptions) error {
	cfg, err := rootOpts.loadConfig()
	if err != nil {
		return err
	}
	src, err := rootOpts.openSource(cfg)
	if err != nil {
		return err
	}
	app := pensieve.New(cfg, src,
		pensieve.WithLogger(rootOpts.logger),
		pensieve.WithOutputDir(opts.Output),
	)
	defer app.Close()

	if opts.DryRun {
		records, err := app.Pages(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d pages would be registered\n", len(records))
		return nil
	}

	res, err := app.Build(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Built %d pages into %s in %s\n",
		len(res.Pages), app.Config.OutputDir, res.Duration.Round(time.Millisecond))
	return nil
}
