package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/eringen/pensieve"
	"github.com/eringen/pensieve/pages"
)

// ValidFormats defines the allowed output formats of the pages command.
var ValidFormats = []string{"text", "json", "yaml"}

// PagesOptions holds flags for the pages command.
type PagesOptions struct {
	Format string
}

// NewPagesCommand creates the pages command.
func NewPagesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PagesOptions{}

	cmd := &cobra.Command{
		Use:   "pages",
		Short: "Print the page records a build would register",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			cfg, err := rootOpts.loadConfig()
			if err != nil {
				return err
			}
			src, err := rootOpts.openSource(cfg)
			if err != nil {
				return err
			}
			app := pensieve.New(cfg, src, pensieve.WithLogger(rootOpts.logger))
			defer app.Close()

			records, err := app.Pages(cmd.Context())
			if err != nil {
				return err
			}
			return writePages(cmd.OutOrStdout(), opts.Format, records)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "text", "output format (text|json|yaml)")

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func writePages(w io.Writer, format string, records []pages.Page) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return err
		}
		return enc.Close()
	default:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "TEMPLATE\tPATH\tCONTEXT")
		for _, p := range records {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Template, p.Path, formatContext(p))
		}
		return tw.Flush()
	}
}

func formatContext(p pages.Page) string {
	keys := []string{pages.KeyTag}
	if p.Template == pages.TemplatePost {
		keys = []string{pages.KeyID, pages.KeyPreviousPostID, pages.KeyNextPostID}
	}
	out := ""
	for i, k := range keys {
		if i > 0 {
			out += " "
		}
		v, ok := p.Context.Get(k)
		if !ok {
			v = "null"
		}
		out += k + "=" + v
	}
	return out
}
