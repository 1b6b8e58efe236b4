package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/kata/internal/casefile"
	"github.com/roach88/kata/internal/demo"
	"github.com/roach88/kata/internal/harness"
	"github.com/roach88/kata/internal/store"
)

// SourceBuiltin marks a case that comes from the compiled-in catalog.
const SourceBuiltin = "builtin"

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Filter   string // glob over case names
	Builtin  bool   // include the built-in catalog
	Database string // save the run here when set
	Name     string // run label stored with the history entry

	// IDGenerator and Now override the store defaults (for testing).
	IDGenerator store.IDGenerator
	Now         func() time.Time
}

// CaseReport is the outcome of one case.
type CaseReport struct {
	Name   string         `json:"name"`
	Source string         `json:"source"`
	Passed int            `json:"passed"`
	Failed int            `json:"failed"`
	Lines  []harness.Line `json:"lines"`
}

// RunReport is the outcome of a whole run.
type RunReport struct {
	Cases  []CaseReport `json:"cases"`
	Passed int          `json:"passed"`
	Failed int          `json:"failed"`
	Total  int          `json:"total"`
	Digest string       `json:"digest"`
}

type runnable struct {
	name   string
	source string
	run    func(h *harness.Harness) error
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run [case-files-or-dirs...]",
		Short: "Run katas through the assertion harness",
		Long: `Run the built-in catalog and any case files through the assertion
harness. Each case gets a fresh harness; its assertions print as
PASS/FAIL lines and its reports print verbatim.

Exit codes:
  0 - No assertion failed
  1 - One or more assertions failed
  2 - Command error (missing paths, invalid case files, database errors)

Examples:
  kata run
  kata run ./cases --builtin=false
  kata run ./cases --filter "closure*"
  kata run --db ./kata.db --name nightly`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCases(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "run only cases whose name (or file name, without extension) matches this glob")
	cmd.Flags().BoolVar(&opts.Builtin, "builtin", true, "include the built-in catalog")
	cmd.Flags().StringVar(&opts.Name, "name", "kata run", "label for the saved run")
	addDatabaseFlag(cmd, &opts.Database, "save the run to this SQLite database")

	return cmd
}

func runCases(opts *RunOptions, paths []string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)
	logger := f.Logger()

	cases, err := collectCases(opts, paths)
	if err != nil {
		var ce *collectError
		if errors.As(err, &ce) {
			return f.Fail(ExitCommandError, ce.code, ce.message, ce.err)
		}
		return f.Fail(ExitCommandError, ErrCodeGeneric, "failed to collect cases", err)
	}

	// An empty selection still reports a zero tally and is saved.
	if len(cases) == 0 && !f.JSON() {
		fmt.Fprintln(f.Writer, "No cases found.")
	}

	report := RunReport{Cases: make([]CaseReport, 0, len(cases))}
	var (
		results []harness.Result
		reports []string
	)

	for _, rc := range cases {
		list := harness.NewListSink()
		sinks := harness.MultiSink{list}
		if !f.JSON() {
			fmt.Fprintf(f.Writer, "=== %s\n", rc.name)
			sinks = append(sinks, harness.NewWriterSink(f.Writer))
		}
		if f.Verbose {
			sinks = append(sinks, harness.NewLogSink(logger))
		}

		h := harness.New(harness.WithSink(sinks), harness.WithLogger(logger))
		logger.Debug("running case", "case", rc.name, "source", rc.source)
		if err := rc.run(h); err != nil {
			return f.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("case %s did not complete", rc.name), err)
		}

		tally := h.Tally()
		report.Cases = append(report.Cases, CaseReport{
			Name:   rc.name,
			Source: rc.source,
			Passed: tally.Passed,
			Failed: tally.Failed,
			Lines:  list.Lines(),
		})
		results = append(results, h.Results()...)
		reports = append(reports, h.Reports()...)
	}

	tally := harness.TallyOf(results)
	report.Passed, report.Failed, report.Total = tally.Passed, tally.Failed, tally.Total()
	if report.Digest, err = harness.LogDigest(results); err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, "failed to digest results", err)
	}

	var runID string
	if opts.Database != "" {
		saved, err := saveRun(cmd.Context(), opts, store.RunInput{
			Name:    opts.Name,
			Results: results,
			Reports: reports,
		})
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeStore, "failed to save run", err)
		}
		runID = saved.ID
		logger.Debug("run saved", "id", runID, "db", opts.Database)
	}

	if f.JSON() {
		resp := CLIResponse{Status: "ok", Data: report, RunID: runID}
		if tally.Failed > 0 {
			resp.Status = "error"
			resp.Error = &CLIError{
				Code:    ErrCodeTestFailed,
				Message: fmt.Sprintf("%d assertion(s) failed", tally.Failed),
			}
		}
		if err := f.Encode(resp); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(f.Writer)
		fmt.Fprintf(f.Writer, "Summary: %s\n", tally)
		if runID != "" {
			fmt.Fprintf(f.Writer, "Saved run %s\n", runID)
		}
	}

	if tally.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d assertion(s) failed", tally.Failed))
	}
	return nil
}

type collectError struct {
	code    string
	message string
	err     error
}

func (e *collectError) Error() string { return fmt.Sprintf("%s: %v", e.message, e.err) }
func (e *collectError) Unwrap() error { return e.err }

// collectCases gathers the built-in catalog (when enabled) followed by
// every case file under paths, in the order given.
func collectCases(opts *RunOptions, paths []string) ([]runnable, error) {
	if opts.Filter != "" {
		if _, err := filepath.Match(opts.Filter, ""); err != nil {
			return nil, &collectError{ErrCodeGeneric, fmt.Sprintf("invalid filter pattern %q", opts.Filter), err}
		}
	}

	var cases []runnable
	if opts.Builtin {
		for _, c := range demo.Catalog() {
			if opts.Filter != "" {
				if ok, _ := filepath.Match(opts.Filter, c.Name); !ok {
					continue
				}
			}
			cases = append(cases, runnable{name: c.Name, source: SourceBuiltin, run: c.Run})
		}
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return nil, &collectError{ErrCodeNotFound, fmt.Sprintf("path not found: %s", p), err}
		}
		files, err := casefile.Find(p, opts.Filter)
		if err != nil {
			return nil, &collectError{ErrCodeLoadFailed, fmt.Sprintf("failed to scan %s", p), err}
		}
		for _, file := range files {
			c, err := casefile.Load(file)
			if err != nil {
				return nil, &collectError{ErrCodeLoadFailed, fmt.Sprintf("failed to load %s", file), err}
			}
			cases = append(cases, runnable{name: c.Name, source: file, run: c.Replay})
		}
	}
	return cases, nil
}

func saveRun(ctx context.Context, opts *RunOptions, in store.RunInput) (store.Run, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := openStore(opts.Database, opts.IDGenerator, opts.Now)
	if err != nil {
		return store.Run{}, err
	}
	defer st.Close()
	return st.SaveRun(ctx, in)
}
