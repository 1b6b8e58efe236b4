package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/kata/internal/demo"
)

// CatalogEntry describes one built-in case.
type CatalogEntry struct {
	Name  string `json:"name"`
	Topic string `json:"topic"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List the built-in katas",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, cmd)
		},
	}
}

func runList(opts *RootOptions, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	catalog := demo.Catalog()
	entries := make([]CatalogEntry, len(catalog))
	for i, c := range catalog {
		entries[i] = CatalogEntry{Name: c.Name, Topic: c.Topic}
	}

	if f.JSON() {
		return f.Success(entries)
	}

	tw := tabwriter.NewWriter(f.Writer, 0, 0, 2, ' ', 0)
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\n", e.Name, e.Topic)
	}
	return tw.Flush()
}
