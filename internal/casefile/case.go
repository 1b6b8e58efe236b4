package casefile

import (
	"fmt"
	"strings"

	"github.com/roach88/kata/internal/harness"
)

// Case is a named sequence of harness calls loaded from disk.
type Case struct {
	// Name identifies the case in runner output and run history.
	Name string `yaml:"name"`

	// Description says what the case demonstrates.
	Description string `yaml:"description"`

	// Steps are replayed against a harness in order.
	Steps []Step `yaml:"steps"`

	// Path is the file the case was loaded from.
	Path string `yaml:"-"`
}

// Step is one harness call. Exactly one of Assert, Pass, Fail or Report
// must be set.
type Step struct {
	// Assert is the condition for an assert step. Only genuine booleans
	// are accepted; see Condition.
	Assert *Condition `yaml:"assert,omitempty"`

	// Description accompanies Assert.
	Description string `yaml:"description,omitempty"`

	// Pass and Fail carry the description for the shortcut forms.
	Pass *string `yaml:"pass,omitempty"`
	Fail *string `yaml:"fail,omitempty"`

	// Report is a trace message; Values are appended to it.
	Report *string `yaml:"report,omitempty"`
	Values []any   `yaml:"values,omitempty"`

	// line is the source line of the step, zero when built in code.
	line int
}

// StepKind names the harness operation a step performs.
type StepKind string

const (
	StepAssert StepKind = "assert"
	StepPass   StepKind = "pass"
	StepFail   StepKind = "fail"
	StepReport StepKind = "report"
)

// Kinds lists every operation set on the step, in a fixed order.
// A valid step has exactly one.
func (s Step) Kinds() []StepKind {
	var kinds []StepKind
	if s.Assert != nil {
		kinds = append(kinds, StepAssert)
	}
	if s.Pass != nil {
		kinds = append(kinds, StepPass)
	}
	if s.Fail != nil {
		kinds = append(kinds, StepFail)
	}
	if s.Report != nil {
		kinds = append(kinds, StepReport)
	}
	return kinds
}

// Replay feeds the steps into h in order and stops at the first harness
// error. Failing assertions are not errors and do not stop the replay.
func (c *Case) Replay(h *harness.Harness) error {
	for i, step := range c.Steps {
		if err := step.apply(h); err != nil {
			return fmt.Errorf("%s: step %d: %w", c.Name, i, err)
		}
	}
	return nil
}

func (s Step) apply(h *harness.Harness) error {
	kinds := s.Kinds()
	if len(kinds) != 1 {
		return fmt.Errorf("step must set exactly one of assert, pass, fail, report (got %d)", len(kinds))
	}

	switch kinds[0] {
	case StepAssert:
		return h.Assert(bool(*s.Assert), s.Description)
	case StepPass:
		return h.Pass(*s.Pass)
	case StepFail:
		return h.Fail(*s.Fail)
	default:
		h.Report(*s.Report, s.Values...)
		return nil
	}
}

// Validate checks required fields and step shape.
func Validate(c *Case) error {
	if strings.TrimSpace(c.Name) == "" {
		return &CaseError{Path: c.Path, Field: "name", Message: "name is required"}
	}
	if strings.TrimSpace(c.Description) == "" {
		return &CaseError{Path: c.Path, Field: "description", Message: "description is required"}
	}
	if len(c.Steps) == 0 {
		return &CaseError{Path: c.Path, Field: "steps", Message: "steps list is required and must be non-empty"}
	}

	for i, step := range c.Steps {
		if err := validateStep(c.Path, i, step); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(path string, i int, s Step) error {
	field := fmt.Sprintf("steps[%d]", i)
	fail := func(msg string) error {
		return &CaseError{Path: path, Line: s.line, Field: field, Message: msg}
	}

	kinds := s.Kinds()
	switch len(kinds) {
	case 0:
		return fail("one of assert, pass, fail, report is required")
	case 1:
	default:
		return fail(fmt.Sprintf("only one of assert, pass, fail, report may be set (got %v)", kinds))
	}

	kind := kinds[0]
	if kind != StepAssert && s.Description != "" {
		return fail(fmt.Sprintf("description is only valid with assert (use the %s text)", kind))
	}
	if kind != StepReport && len(s.Values) > 0 {
		return fail("values are only valid with report")
	}

	switch kind {
	case StepAssert:
		if strings.TrimSpace(s.Description) == "" {
			return fail("assert requires a description")
		}
	case StepPass:
		if strings.TrimSpace(*s.Pass) == "" {
			return fail("pass requires a description")
		}
	case StepFail:
		if strings.TrimSpace(*s.Fail) == "" {
			return fail("fail requires a description")
		}
	}
	return nil
}

// CaseError reports a problem in a case file, with a position when known.
type CaseError struct {
	Path    string
	Line    int
	Column  int
	Field   string
	Message string
}

func (e *CaseError) Error() string {
	var loc string
	switch {
	case e.Path != "" && e.Line > 0 && e.Column > 0:
		loc = fmt.Sprintf("%s:%d:%d: ", e.Path, e.Line, e.Column)
	case e.Path != "" && e.Line > 0:
		loc = fmt.Sprintf("%s:%d: ", e.Path, e.Line)
	case e.Path != "":
		loc = e.Path + ": "
	}
	if e.Field == "" {
		return loc + e.Message
	}
	return fmt.Sprintf("%s%s: %s", loc, e.Field, e.Message)
}
