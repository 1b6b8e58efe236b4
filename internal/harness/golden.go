package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/kata/internal/canonical"
)

// Snapshot renders a harness run as canonical JSON:
//
//	{"name":...,"tally":{"failed":F,"passed":P},"trace":[...]}
//
// Assert events carry condition and description, report events carry the
// message; both carry kind and seq. The output is byte-stable for a given
// sequence of calls, which is what golden comparison needs.
func Snapshot(name string, h *Harness) ([]byte, error) {
	trace := h.Trace()
	events := make([]any, len(trace))
	for i, e := range trace {
		m := map[string]any{
			"kind": string(e.Kind),
			"seq":  e.Seq,
		}
		switch e.Kind {
		case EventAssert:
			m["condition"] = e.Result.Condition
			m["description"] = e.Result.Description
		case EventReport:
			m["message"] = e.Message
		}
		events[i] = m
	}

	tally := TallyOf(h.Results())
	return canonical.Marshal(map[string]any{
		"name": name,
		"tally": map[string]any{
			"passed": tally.Passed,
			"failed": tally.Failed,
		},
		"trace": events,
	})
}

// AssertGolden compares the harness snapshot against
// testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./... -update
func AssertGolden(t *testing.T, name string, h *Harness) {
	t.Helper()

	data, err := Snapshot(name, h)
	if err != nil {
		t.Fatalf("snapshot %s: %v", name, err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
}
