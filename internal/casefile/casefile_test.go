package casefile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kata/internal/harness"
)

func writeCase(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_YAML(t *testing.T) {
	c, err := Load("testdata/suite_running.yaml")
	require.NoError(t, err)

	assert.Equal(t, "suite_running", c.Name)
	assert.Equal(t, "testdata/suite_running.yaml", c.Path)
	require.Len(t, c.Steps, 4)
	assert.Equal(t, []StepKind{StepAssert}, c.Steps[0].Kinds())
	assert.Equal(t, []StepKind{StepReport}, c.Steps[2].Kinds())
	assert.Equal(t, []StepKind{StepPass}, c.Steps[3].Kinds())
}

func TestReplay_YAML(t *testing.T) {
	c, err := Load("testdata/suite_running.yaml")
	require.NoError(t, err)

	h := harness.New()
	require.NoError(t, c.Replay(h))

	assert.Equal(t, []harness.Result{
		{Condition: true, Description: "The test suite is running"},
		{Condition: false, Description: "Fail!"},
		{Condition: true, Description: "reached the end"},
	}, h.Results())
	assert.Equal(t, []string{"tally follows 1 two"}, h.Reports())
	assert.Equal(t, harness.Tally{Passed: 2, Failed: 1}, h.Tally())
}

func TestLoad_CUE(t *testing.T) {
	c, err := Load("testdata/computed.cue")
	require.NoError(t, err)

	assert.Equal(t, "computed", c.Name)
	require.Len(t, c.Steps, 5)

	h := harness.New()
	require.NoError(t, c.Replay(h))

	assert.Equal(t, []harness.Result{
		{Condition: true, Description: "three items"},
		{Condition: true, Description: "prefix matches"},
		{Condition: false, Description: "arithmetic is not broken"},
		{Condition: false, Description: "explicit failure"},
	}, h.Results())
	assert.Equal(t, []string{"sum 6"}, h.Reports())
}

func TestLoad_RepositoryCases(t *testing.T) {
	cases, err := LoadDir("../../cases", "")
	require.NoError(t, err)
	require.NotEmpty(t, cases)

	for _, c := range cases {
		h := harness.New()
		require.NoError(t, c.Replay(h), c.Name)
		assert.Zero(t, h.Tally().Failed, "case %s should pass", c.Name)
	}
}

func TestLoad_YAMLRejectsNonBooleanAssert(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"yaml 1.1 yes", "yes"},
		{"on", "on"},
		{"integer", "1"},
		{"quoted true", `"true"`},
		{"list", "[true]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCase(t, "bad.yaml", `name: bad
description: "non-boolean assert"
steps:
  - assert: `+tt.value+`
    description: "should be rejected"
`)
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "assert must be a boolean")
		})
	}
}

func TestLoad_YAMLAcceptsBooleanSpellings(t *testing.T) {
	path := writeCase(t, "ok.yaml", `name: ok
description: "core schema booleans"
steps:
  - assert: True
    description: "capitalised true"
  - assert: FALSE
    description: "upper-case false"
`)
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Condition(true), *c.Steps[0].Assert)
	assert.Equal(t, Condition(false), *c.Steps[1].Assert)
}

func TestLoad_YAMLUnknownField(t *testing.T) {
	path := writeCase(t, "typo.yaml", `name: typo
description: "typo in steps"
step:
  - pass: "x"
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field step not found")

	var caseErr *CaseError
	require.True(t, errors.As(err, &caseErr))
	assert.Equal(t, path, caseErr.Path)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "missing name",
			content: "description: d\nsteps:\n  - pass: x\n",
			want:    "name is required",
		},
		{
			name:    "missing description",
			content: "name: n\nsteps:\n  - pass: x\n",
			want:    "description is required",
		},
		{
			name:    "no steps",
			content: "name: n\ndescription: d\n",
			want:    "steps list is required",
		},
		{
			name:    "empty step",
			content: "name: n\ndescription: d\nsteps:\n  - values: [1]\n",
			want:    "steps[0]: one of assert, pass, fail, report is required",
		},
		{
			name:    "two operations",
			content: "name: n\ndescription: d\nsteps:\n  - pass: x\n    fail: y\n",
			want:    "only one of assert, pass, fail, report may be set",
		},
		{
			name:    "assert without description",
			content: "name: n\ndescription: d\nsteps:\n  - assert: true\n",
			want:    "assert requires a description",
		},
		{
			name:    "empty pass",
			content: "name: n\ndescription: d\nsteps:\n  - pass: \"  \"\n",
			want:    "pass requires a description",
		},
		{
			name:    "empty fail",
			content: "name: n\ndescription: d\nsteps:\n  - fail: \"\"\n",
			want:    "fail requires a description",
		},
		{
			name:    "description on pass",
			content: "name: n\ndescription: d\nsteps:\n  - pass: x\n    description: y\n",
			want:    "description is only valid with assert",
		},
		{
			name:    "values on fail",
			content: "name: n\ndescription: d\nsteps:\n  - fail: x\n    values: [1]\n",
			want:    "values are only valid with report",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCase(t, "case.yaml", tt.content)
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)

			var caseErr *CaseError
			assert.True(t, errors.As(err, &caseErr))
		})
	}
}

func TestLoad_CUERejectsNonBooleanAssert(t *testing.T) {
	path := writeCase(t, "bad.cue", `name: "bad"
description: "string assert"
steps: [{assert: "yes", description: "not a bool"}]
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "assert must evaluate to a boolean, got string")

	var caseErr *CaseError
	require.True(t, errors.As(err, &caseErr))
	assert.Equal(t, "steps[0].assert", caseErr.Field)
	assert.Equal(t, 3, caseErr.Line)
}

func TestLoad_YAMLStepErrorsCarryLine(t *testing.T) {
	path := writeCase(t, "case.yaml", "name: n\ndescription: d\nsteps:\n  - pass: ok\n  - pass: x\n    fail: y\n")
	_, err := Load(path)
	require.Error(t, err)

	var caseErr *CaseError
	require.True(t, errors.As(err, &caseErr))
	assert.Equal(t, "steps[1]", caseErr.Field)
	assert.Equal(t, 5, caseErr.Line)
	assert.Contains(t, err.Error(), path+":5: steps[1]: only one of")
}

func TestLoad_CUEStringFieldErrorsNameTheStep(t *testing.T) {
	path := writeCase(t, "num.cue", `name: "num"
description: "pass is not text"
steps: [{pass: "ok"}, {pass: 42}]
`)
	_, err := Load(path)
	require.Error(t, err)

	var caseErr *CaseError
	require.True(t, errors.As(err, &caseErr))
	assert.Equal(t, "steps[1].pass", caseErr.Field)
	assert.Equal(t, 3, caseErr.Line)
	assert.Contains(t, err.Error(), "pass must be a string")
}

func TestLoad_CUERejectsIncompleteAssert(t *testing.T) {
	path := writeCase(t, "open.cue", `name: "open"
description: "bool type, no value"
steps: [{assert: bool, description: "undecided"}]
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a concrete boolean")
}

func TestLoad_CUEUnknownField(t *testing.T) {
	path := writeCase(t, "typo.cue", `name: "typo"
description: "misspelled field"
steps: [{pas: "x"}]
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "steps[0].pas: unknown field")
}

func TestLoad_CUESyntaxError(t *testing.T) {
	path := writeCase(t, "broken.cue", `name: "broken"
steps: [
`)
	_, err := Load(path)
	require.Error(t, err)

	var caseErr *CaseError
	require.True(t, errors.As(err, &caseErr))
	assert.Equal(t, "cue", caseErr.Field)
	assert.Equal(t, path, caseErr.Path)
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := writeCase(t, "case.json", `{}`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported case file extension ".json"`)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read case file")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestReplay_StopsOnHarnessError(t *testing.T) {
	empty := ""
	c := &Case{
		Name:        "built",
		Description: "constructed without validation",
		Steps: []Step{
			{Pass: ptr("first")},
			{Fail: &empty},
			{Pass: ptr("never reached")},
		},
	}

	h := harness.New()
	err := c.Replay(h)
	require.Error(t, err)
	assert.ErrorIs(t, err, harness.ErrInvalidInput)
	assert.Contains(t, err.Error(), "built: step 1")
	assert.Equal(t, 1, h.Len())
}

func TestCaseError_Format(t *testing.T) {
	tests := []struct {
		err  CaseError
		want string
	}{
		{CaseError{Path: "a.cue", Line: 3, Column: 7, Field: "steps[0]", Message: "m"}, "a.cue:3:7: steps[0]: m"},
		{CaseError{Path: "a.yaml", Line: 4, Field: "steps[1]", Message: "m"}, "a.yaml:4: steps[1]: m"},
		{CaseError{Path: "a.yaml", Field: "name", Message: "m"}, "a.yaml: name: m"},
		{CaseError{Message: "bare"}, "bare"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Error())
	}
}

func TestFind_FilterAndOrder(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b_closures.yaml", "a_sets.cue", "notes.txt", "c_closures.yml"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "golden"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "golden", "skip.yaml"), []byte("x"), 0644))

	all, err := Find(dir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a_sets.cue"),
		filepath.Join(dir, "b_closures.yaml"),
		filepath.Join(dir, "c_closures.yml"),
	}, all)

	closures, err := Find(dir, "*_closures")
	require.NoError(t, err)
	assert.Len(t, closures, 2)

	_, err = Find(dir, "[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filter pattern")
}

func TestFind_SingleFile(t *testing.T) {
	files, err := Find("testdata/computed.cue", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"testdata/computed.cue"}, files)

	files, err = Find("testdata/computed.cue", "other")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestLoadDir_FailsOnBadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("name: x\n"), 0644))

	_, err := LoadDir(dir, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "description is required")
}

func ptr(s string) *string { return &s }
