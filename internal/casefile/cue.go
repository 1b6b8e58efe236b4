package casefile

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

var (
	caseFields = map[string]bool{"name": true, "description": true, "steps": true}
	stepFields = map[string]bool{
		"assert": true, "description": true, "pass": true,
		"fail": true, "report": true, "values": true,
	}
)

// parseCUE evaluates a CUE case file.
//
// The shape matches the YAML form, but assert may be any expression that
// evaluates to a concrete bool:
//
//	name:        "strings"
//	description: "string builtins"
//	steps: [
//		{assert: len("abc") == 3, description: "len counts bytes"},
//		{report: "done"},
//	]
func parseCUE(path string, data []byte) (*Case, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(path, err)
	}

	if err := checkFields(path, v, caseFields, ""); err != nil {
		return nil, err
	}

	c := &Case{Path: path}
	var err error
	if c.Name, err = optionalString(path, v, "", "name"); err != nil {
		return nil, err
	}
	if c.Description, err = optionalString(path, v, "", "description"); err != nil {
		return nil, err
	}

	stepsVal := v.LookupPath(cue.ParsePath("steps"))
	if !stepsVal.Exists() {
		return c, nil
	}
	iter, err := stepsVal.List()
	if err != nil {
		return nil, formatCUEError(path, err)
	}
	for i := 0; iter.Next(); i++ {
		step, err := parseCUEStep(path, i, iter.Value())
		if err != nil {
			return nil, err
		}
		c.Steps = append(c.Steps, step)
	}
	return c, nil
}

func parseCUEStep(path string, i int, v cue.Value) (Step, error) {
	field := fmt.Sprintf("steps[%d]", i)
	var step Step
	if pos := v.Pos(); pos.IsValid() {
		step.line = pos.Line()
	}

	if err := checkFields(path, v, stepFields, field); err != nil {
		return step, err
	}

	if av := v.LookupPath(cue.ParsePath("assert")); av.Exists() {
		if av.IncompleteKind() != cue.BoolKind {
			return step, posError(path, av.Pos(), field+".assert",
				fmt.Sprintf("assert must evaluate to a boolean, got %v", av.IncompleteKind()))
		}
		b, err := av.Bool()
		if err != nil {
			return step, posError(path, av.Pos(), field+".assert",
				fmt.Sprintf("assert is not a concrete boolean: %v", err))
		}
		step.Assert = Bool(b)
	}

	var err error
	if step.Description, err = optionalString(path, v, field, "description"); err != nil {
		return step, err
	}
	if step.Pass, err = optionalStringPtr(path, v, field, "pass"); err != nil {
		return step, err
	}
	if step.Fail, err = optionalStringPtr(path, v, field, "fail"); err != nil {
		return step, err
	}
	if step.Report, err = optionalStringPtr(path, v, field, "report"); err != nil {
		return step, err
	}

	if vv := v.LookupPath(cue.ParsePath("values")); vv.Exists() {
		var values []any
		if err := vv.Decode(&values); err != nil {
			return step, posError(path, vv.Pos(), field+".values", fmt.Sprintf("values must be a concrete list: %v", err))
		}
		step.Values = values
	}

	return step, nil
}

// checkFields rejects labels outside allowed, mirroring KnownFields on the
// YAML side.
func checkFields(path string, v cue.Value, allowed map[string]bool, prefix string) error {
	iter, err := v.Fields()
	if err != nil {
		return formatCUEError(path, err)
	}
	for iter.Next() {
		label := iter.Label()
		if allowed[label] {
			continue
		}
		field := label
		if prefix != "" {
			field = prefix + "." + label
		}
		return posError(path, iter.Value().Pos(), field, "unknown field")
	}
	return nil
}

func optionalString(path string, v cue.Value, prefix, name string) (string, error) {
	p, err := optionalStringPtr(path, v, prefix, name)
	if err != nil || p == nil {
		return "", err
	}
	return *p, nil
}

// optionalStringPtr reads an optional string field. Errors name the field
// under prefix, e.g. steps[2].pass.
func optionalStringPtr(path string, v cue.Value, prefix, name string) (*string, error) {
	fv := v.LookupPath(cue.ParsePath(name))
	if !fv.Exists() {
		return nil, nil
	}
	s, err := fv.String()
	if err != nil {
		field := name
		if prefix != "" {
			field = prefix + "." + name
		}
		return nil, posError(path, fv.Pos(), field, fmt.Sprintf("%s must be a string: %v", name, err))
	}
	return &s, nil
}

func posError(path string, pos token.Pos, field, msg string) *CaseError {
	e := &CaseError{Path: path, Field: field, Message: msg}
	if pos.IsValid() {
		e.Line = pos.Line()
		e.Column = pos.Column()
	}
	return e
}

// formatCUEError extracts position info from the first CUE error.
func formatCUEError(path string, err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &CaseError{Path: path, Field: "cue", Message: err.Error()}
	}

	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return posError(path, positions[0], "cue", first.Error())
	}
	return &CaseError{Path: path, Field: "cue", Message: first.Error()}
}
