package harness

import "fmt"

// Result is one recorded assertion outcome.
// Results are values; once appended to a log they are never modified.
type Result struct {
	Condition   bool   `json:"condition"`
	Description string `json:"description"`
}

// Line renders the result in sink format ("PASS: d" or "FAIL: d").
func (r Result) Line() string {
	if r.Condition {
		return fmt.Sprintf("PASS: %s", r.Description)
	}
	return fmt.Sprintf("FAIL: %s", r.Description)
}

// EventKind distinguishes trace entries.
type EventKind string

const (
	EventAssert EventKind = "assert"
	EventReport EventKind = "report"
)

// Event is one entry in the harness trace.
// Result is set for EventAssert and nil for EventReport, which carries
// Message instead.
type Event struct {
	Seq     int64     `json:"seq"`
	Kind    EventKind `json:"kind"`
	Result  *Result   `json:"result,omitempty"`
	Message string    `json:"message,omitempty"`
}

// Tally counts passes and failures in a result log.
type Tally struct {
	Passed int `json:"passed"`
	Failed int `json:"failed"`
}

// TallyOf counts results.
func TallyOf(results []Result) Tally {
	var t Tally
	for _, r := range results {
		if r.Condition {
			t.Passed++
		} else {
			t.Failed++
		}
	}
	return t
}

// Total returns Passed + Failed.
func (t Tally) Total() int {
	return t.Passed + t.Failed
}

// Add returns the sum of two tallies.
func (t Tally) Add(other Tally) Tally {
	return Tally{Passed: t.Passed + other.Passed, Failed: t.Failed + other.Failed}
}

// ExitCode is the process status a runner should exit with:
// 0 when nothing failed, 1 otherwise.
func (t Tally) ExitCode() int {
	if t.Failed == 0 {
		return 0
	}
	return 1
}

// String renders the tally for summaries.
func (t Tally) String() string {
	return fmt.Sprintf("%d passed, %d failed, %d total", t.Passed, t.Failed, t.Total())
}
