package harness

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/roach88/kata/internal/canonical"
)

// Harness records assertion results for one run.
//
// The zero value is not usable; construct with New. A Harness is safe for
// concurrent use: calls are serialized, and the log reflects the order in
// which they acquired the lock.
type Harness struct {
	mu      sync.Mutex
	results []Result
	trace   []Event

	sink   Sink
	clock  Clock
	logger *slog.Logger
}

// Option configures a Harness.
type Option func(*Harness)

// WithSink mirrors every assert and report to s.
// Without it the harness records silently.
func WithSink(s Sink) Option {
	return func(h *Harness) {
		if s != nil {
			h.sink = s
		}
	}
}

// WithClock replaces the default logical clock used to stamp trace events.
func WithClock(c Clock) Option {
	return func(h *Harness) {
		if c != nil {
			h.clock = c
		}
	}
}

// WithLogger sets the logger used for sink diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) {
		if l != nil {
			h.logger = l
		}
	}
}

// New creates an empty harness.
func New(opts ...Option) *Harness {
	h := &Harness{
		results: []Result{},
		trace:   []Event{},
		sink:    Discard,
		clock:   &logicalClock{},
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Assert appends {condition, description} to the log and mirrors it to the sink.
//
// A false condition is recorded, not returned as an error. The only errors
// are an *InputError (empty description, nothing recorded) and a sink
// write error (the result is already recorded).
func (h *Harness) Assert(condition bool, description string) error {
	return h.record("assert", condition, description)
}

// Pass is Assert(true, description).
func (h *Harness) Pass(description string) error {
	return h.record("pass", true, description)
}

// Fail is Assert(false, description).
func (h *Harness) Fail(description string) error {
	return h.record("fail", false, description)
}

func (h *Harness) record(op string, condition bool, description string) error {
	if strings.TrimSpace(description) == "" {
		return &InputError{Op: op, Reason: "description is required"}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	r := Result{Condition: condition, Description: description}
	h.results = append(h.results, r)
	h.trace = append(h.trace, Event{Seq: h.clock.Next(), Kind: EventAssert, Result: &r})

	if err := h.sink.Record(r); err != nil {
		return fmt.Errorf("%s: sink: %w", op, err)
	}
	return nil
}

// Report writes an informational line to the sink. Values are appended to
// the message separated by spaces. The result log is not affected.
func (h *Harness) Report(message string, values ...any) {
	msg := formatReport(message, values)

	h.mu.Lock()
	defer h.mu.Unlock()

	h.trace = append(h.trace, Event{Seq: h.clock.Next(), Kind: EventReport, Message: msg})

	if err := h.sink.Report(msg); err != nil {
		h.logger.Warn("report sink write failed", "message", msg, "error", err)
	}
}

func formatReport(message string, values []any) string {
	if len(values) == 0 {
		return message
	}
	parts := make([]string, 0, len(values)+1)
	if message != "" {
		parts = append(parts, message)
	}
	for _, v := range values {
		parts = append(parts, fmt.Sprint(v))
	}
	return strings.Join(parts, " ")
}

// Results returns a copy of the result log in insertion order.
func (h *Harness) Results() []Result {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Result, len(h.results))
	copy(out, h.results)
	return out
}

// Trace returns a copy of every assert and report event in sequence order.
func (h *Harness) Trace() []Event {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Event, len(h.trace))
	for i, e := range h.trace {
		if e.Result != nil {
			r := *e.Result
			e.Result = &r
		}
		out[i] = e
	}
	return out
}

// Reports returns the report messages in the order they were written.
func (h *Harness) Reports() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	var out []string
	for _, e := range h.trace {
		if e.Kind == EventReport {
			out = append(out, e.Message)
		}
	}
	return out
}

// Len returns the number of recorded results.
func (h *Harness) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.results)
}

// Tally counts the recorded results.
func (h *Harness) Tally() Tally {
	h.mu.Lock()
	defer h.mu.Unlock()
	return TallyOf(h.results)
}

// Reset clears the result log and trace. The clock keeps counting, so
// sequence numbers stay unique across resets.
func (h *Harness) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.results = []Result{}
	h.trace = []Event{}
}

// Digest fingerprints the result log with canonical JSON.
// Two logs with the same results in the same order share a digest.
func (h *Harness) Digest() (string, error) {
	return LogDigest(h.Results())
}

// LogDigest fingerprints a result log.
func LogDigest(results []Result) (string, error) {
	return canonical.DigestValue(canonical.DomainResultLog, resultsToCanonical(results))
}

func resultsToCanonical(results []Result) []any {
	out := make([]any, len(results))
	for i, r := range results {
		out[i] = map[string]any{
			"condition":   r.Condition,
			"description": r.Description,
		}
	}
	return out
}
