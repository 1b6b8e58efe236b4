// Package casefile loads declarative kata cases from YAML or CUE files.
//
// # Format
//
//	name: suite_running
//	description: "The suite reports itself running"
//	steps:
//	  - assert: true
//	    description: "The test suite is running"
//	  - fail: "Fail!"
//	  - pass: "reached the end"
//	  - report: "tally follows"
//	    values: [1, "two"]
//
// Each step sets exactly one of assert, pass, fail or report. assert takes
// a genuine boolean: YAML 1.1 spellings like "yes" are rejected rather than
// coerced. Unknown fields are errors in both formats.
//
// CUE files use the same fields, but assert may be any expression that
// evaluates to a concrete bool, which lets a case compute what it checks:
//
//	steps: [{assert: len([1, 2, 3]) == 3, description: "list length"}]
package casefile
