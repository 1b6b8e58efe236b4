package cli

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"
)

// EnvDatabase names the environment variable that supplies the default
// --db path.
const EnvDatabase = "KATA_DB"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the kata CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "kata",
		Short: "kata - assertion harness for language katas",
		Long: `Run small demonstrations of language features through an assertion
harness. Every assertion prints PASS or FAIL with its description, and
the run ends with a tally.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))

	return cmd
}

// addDatabaseFlag registers --db, defaulting to $KATA_DB.
func addDatabaseFlag(cmd *cobra.Command, target *string, usage string) {
	cmd.Flags().StringVar(target, "db", os.Getenv(EnvDatabase), usage+" (default $"+EnvDatabase+")")
}
