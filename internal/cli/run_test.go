package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kata/internal/demo"
	"github.com/roach88/kata/internal/testutil"
)

const (
	repoCases  = "../../cases"
	failingYML = "../casefile/testdata/suite_running.yaml"
)

type rawResponse struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *CLIError       `json:"error"`
	RunID  string          `json:"run_id"`
}

func decodeRun(t *testing.T, out string) (rawResponse, RunReport) {
	t.Helper()
	var resp rawResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	var report RunReport
	require.NoError(t, json.Unmarshal(resp.Data, &report))
	return resp, report
}

func TestRun_BuiltinCatalogPasses(t *testing.T) {
	out, err := execute(t, "run")
	require.NoError(t, err)

	for _, c := range demo.Catalog() {
		assert.Contains(t, out, "=== "+c.Name+"\n")
	}
	assert.NotContains(t, out, "FAIL:")
	assert.Contains(t, out, "Summary: ")
	assert.Contains(t, out, " 0 failed, ")
}

func TestRun_CaseFileOutput(t *testing.T) {
	out, err := execute(t, "run", "--builtin=false", failingYML)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	want := `=== suite_running
PASS: The test suite is running
FAIL: Fail!
tally follows 1 two
PASS: reached the end

Summary: 2 passed, 1 failed, 3 total
`
	assert.Equal(t, want, out)
}

func TestRun_JSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "run", "--builtin=false", repoCases)
	require.NoError(t, err)

	resp, report := decodeRun(t, out)
	assert.Equal(t, "ok", resp.Status)
	assert.Nil(t, resp.Error)
	assert.Empty(t, resp.RunID)

	require.Len(t, report.Cases, 2)
	assert.Equal(t, "basics", report.Cases[0].Name)
	assert.Equal(t, filepath.Join(repoCases, "basics.yaml"), report.Cases[0].Source)
	assert.Zero(t, report.Failed)
	assert.Equal(t, report.Passed, report.Total)
	assert.Len(t, report.Digest, 64)
	assert.NotContains(t, out, "===", "text headers never leak into JSON")
}

func TestRun_JSONFailure(t *testing.T) {
	out, err := execute(t, "--format", "json", "run", "--builtin=false", failingYML)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp, report := decodeRun(t, out)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeTestFailed, resp.Error.Code)
	assert.Equal(t, "1 assertion(s) failed", resp.Error.Message)

	require.Len(t, report.Cases, 1)
	c := report.Cases[0]
	assert.Equal(t, 2, c.Passed)
	assert.Equal(t, 1, c.Failed)
	require.Len(t, c.Lines, 4)
	assert.Equal(t, "tally follows 1 two", c.Lines[2].String())
	assert.Equal(t, "FAIL: Fail!", c.Lines[1].String())
}

func TestRun_Filter(t *testing.T) {
	out, err := execute(t, "run", "--filter", "gen*")
	require.NoError(t, err)

	assert.Contains(t, out, "=== generators")
	assert.NotContains(t, out, "=== closures")
}

func TestRun_InvalidFilter(t *testing.T) {
	out, err := execute(t, "run", "--filter", "[")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "invalid filter pattern")
}

func TestRun_MissingPath(t *testing.T) {
	out, err := execute(t, "run", "/nonexistent/cases")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]: path not found: /nonexistent/cases")
}

func TestRun_InvalidCaseFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("name: bad\n"), 0644))

	out, err := execute(t, "run", "--builtin=false", dir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E004]: failed to load")
	assert.NotContains(t, out, "Summary:", "nothing runs when a case file is invalid")
}

func TestRun_NoCases(t *testing.T) {
	out, err := execute(t, "run", "--filter", "no-such-kata")
	require.NoError(t, err)
	assert.Equal(t, "No cases found.\n\nSummary: 0 passed, 0 failed, 0 total\n", out)
}

func TestRun_NoCasesJSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "run", "--filter", "no-such-kata")
	require.NoError(t, err)

	var resp struct {
		Status string    `json:"status"`
		Data   RunReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Empty(t, resp.Data.Cases)
	assert.Equal(t, 0, resp.Data.Total)
	assert.Equal(t, "070320188334a440cfee9688105df8625a80fd743eea353a8276466bc498f04d", resp.Data.Digest)
}

func TestRun_NoCasesSaved(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "kata.db")
	out, err := execute(t, "run", "--builtin=false", "--db", dbPath, "--name", "empty", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "Summary: 0 passed, 0 failed, 0 total\n")
	assert.Contains(t, out, "Saved run ")

	history, err := execute(t, "history", "--db", dbPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(history), "\n")
	require.Len(t, lines, 2)
	fields := strings.Fields(lines[1])
	assert.Equal(t, []string{"0", "0", "empty"}, fields[len(fields)-3:])
}

func TestRun_UnknownFlagIsUsageError(t *testing.T) {
	_, err := execute(t, "run", "--bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown flag")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRun_SavesToDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "kata.db")
	clock := testutil.NewDeterministicClock()

	out := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})

	opts := &RunOptions{
		RootOptions: &RootOptions{Format: "text"},
		Database:    dbPath,
		Name:        "nightly",
		IDGenerator: testutil.NewFixedIDGenerator("run-1"),
		Now:         clock.Now,
	}
	err := runCases(opts, []string{failingYML}, cmd)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.True(t, strings.HasSuffix(out.String(), "Saved run run-1\n"), out.String())

	history, err := execute(t, "history", "--db", dbPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(history), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"ID", "STARTED", "PASSED", "FAILED", "NAME"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"run-1", "2024-01-01T00:00:01Z", "2", "1", "nightly"}, strings.Fields(lines[1]))
}

func TestRun_VerboseLogsToStderr(t *testing.T) {
	t.Setenv(EnvDatabase, "")
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs([]string{"-v", "run", "--builtin=false", failingYML})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, errOut.String(), `msg="assertion failed" description=Fail!`)
	assert.Contains(t, errOut.String(), "running case")
	assert.NotContains(t, out.String(), "level=")
}
