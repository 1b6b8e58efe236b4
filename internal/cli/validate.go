package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/kata/internal/casefile"
)

// ValidationIssue is one problem found in a case file.
type ValidationIssue struct {
	Path    string `json:"path"`
	Line    int    `json:"line,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Files  int               `json:"files"`
	Errors []ValidationIssue `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <case-files-or-dirs>...",
		Short: "Check case files without running them",
		Long: `Parse and validate YAML and CUE case files without running them.

Every file is checked, so one run reports every problem. CUE assert
expressions are evaluated and must produce a concrete boolean.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	var files []string
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return f.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("path not found: %s", p), err)
		}
		found, err := casefile.Find(p, "")
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeLoadFailed, fmt.Sprintf("failed to scan %s", p), err)
		}
		files = append(files, found...)
	}

	if len(files) == 0 {
		return f.Fail(ExitCommandError, ErrCodeNotFound, "no case files found", nil)
	}

	result := ValidationResult{Valid: true, Files: len(files)}
	for _, file := range files {
		f.VerboseLog("Validating %s", file)
		if _, err := casefile.Load(file); err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, toIssue(file, err))
		}
	}

	if result.Valid {
		if f.JSON() {
			return f.Success(result)
		}
		fmt.Fprintf(f.Writer, "✓ %d case file(s) valid\n", result.Files)
		return nil
	}

	failure := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(result.Errors)))
	if f.JSON() {
		if err := f.Encode(CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    ErrCodeInvalidCase,
				Message: result.Errors[0].Message,
			},
		}); err != nil {
			return err
		}
		return failure
	}

	fmt.Fprintln(f.Writer, "✗ Validation failed")
	fmt.Fprintln(f.Writer)
	for _, issue := range result.Errors {
		loc := issue.Path
		if issue.Line > 0 {
			loc = fmt.Sprintf("%s:%d", issue.Path, issue.Line)
		}
		if issue.Field != "" {
			fmt.Fprintf(f.Writer, "%s\n  %s: %s\n\n", loc, issue.Field, issue.Message)
		} else {
			fmt.Fprintf(f.Writer, "%s\n  %s\n\n", loc, issue.Message)
		}
	}
	return failure
}

func toIssue(path string, err error) ValidationIssue {
	var ce *casefile.CaseError
	if errors.As(err, &ce) {
		return ValidationIssue{Path: path, Line: ce.Line, Field: ce.Field, Message: ce.Message}
	}
	return ValidationIssue{Path: path, Message: err.Error()}
}
