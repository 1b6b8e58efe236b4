package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/kata/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Database string
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Print a saved run's result log",
		Long: `Print a saved run's assertions in PASS/FAIL form, its report
messages, and its tally.

Exit codes follow the stored run: 1 when it had failures.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args[0], cmd)
		},
	}

	addDatabaseFlag(cmd, &opts.Database, "path to SQLite database")
	return cmd
}

func runShow(opts *ShowOptions, id string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	st, err := openStore(opts.Database, nil, nil)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	run, err := st.GetRun(ctx, id)
	if errors.Is(err, store.ErrRunNotFound) {
		return f.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("run not found: %s", id), nil)
	}
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to read run", err)
	}

	if f.JSON() {
		resp := CLIResponse{Status: "ok", Data: run, RunID: run.ID}
		if run.Failed > 0 {
			resp.Status = "error"
			resp.Error = &CLIError{
				Code:    ErrCodeTestFailed,
				Message: fmt.Sprintf("%d assertion(s) failed", run.Failed),
			}
		}
		if err := f.Encode(resp); err != nil {
			return err
		}
	} else {
		w := f.Writer
		fmt.Fprintf(w, "Run %s (%s) at %s\n", run.ID, run.Name, run.StartedAt.Format(time.RFC3339))
		for _, r := range run.Results {
			fmt.Fprintln(w, r.Line())
		}
		if len(run.Reports) > 0 {
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Reports:")
			for _, msg := range run.Reports {
				fmt.Fprintln(w, msg)
			}
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Summary: %s\n", run.Tally())
		fmt.Fprintf(w, "Digest: %s\n", run.Digest)
	}

	if run.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("run %s had %d failure(s)", run.ID, run.Failed))
	}
	return nil
}
