package harness

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Sink consumes assertion outcomes and report messages.
// The harness calls a sink while holding its lock, so calls never overlap.
type Sink interface {
	Record(r Result) error
	Report(message string) error
}

// Discard drops everything.
var Discard Sink = discardSink{}

type discardSink struct{}

func (discardSink) Record(Result) error  { return nil }
func (discardSink) Report(string) error { return nil }

// WriterSink writes one line per call to a text stream.
type WriterSink struct {
	w io.Writer
}

// NewWriterSink creates a sink writing to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Record writes "PASS: <description>" or "FAIL: <description>".
func (s *WriterSink) Record(r Result) error {
	_, err := fmt.Fprintln(s.w, r.Line())
	return err
}

// Report writes the raw message.
func (s *WriterSink) Report(message string) error {
	_, err := fmt.Fprintln(s.w, message)
	return err
}

// Line is one entry in a ListSink.
type Line struct {
	Kind EventKind `json:"kind"`
	Pass bool      `json:"pass"`
	Text string    `json:"text"`
}

// String renders the line the way WriterSink would.
func (l Line) String() string {
	if l.Kind == EventReport {
		return l.Text
	}
	return Result{Condition: l.Pass, Description: l.Text}.Line()
}

// ListSink keeps lines in memory for structured display.
type ListSink struct {
	mu    sync.Mutex
	lines []Line
}

// NewListSink creates an empty list sink.
func NewListSink() *ListSink {
	return &ListSink{}
}

func (s *ListSink) Record(r Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, Line{Kind: EventAssert, Pass: r.Condition, Text: r.Description})
	return nil
}

func (s *ListSink) Report(message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, Line{Kind: EventReport, Text: message})
	return nil
}

// Lines returns a copy of the collected lines.
func (s *ListSink) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// LogSink mirrors outcomes to a structured logger.
// Passes and reports log at info, failures at warn.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a sink logging through l.
func NewLogSink(l *slog.Logger) *LogSink {
	return &LogSink{logger: l}
}

func (s *LogSink) Record(r Result) error {
	if r.Condition {
		s.logger.Info("assertion passed", "description", r.Description)
	} else {
		s.logger.Warn("assertion failed", "description", r.Description)
	}
	return nil
}

func (s *LogSink) Report(message string) error {
	s.logger.Info("report", "message", message)
	return nil
}

// MultiSink fans out to several sinks. Every sink is called even when an
// earlier one fails; the errors are joined.
type MultiSink []Sink

func (m MultiSink) Record(r Result) error {
	var errs []error
	for _, s := range m {
		if err := s.Record(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m MultiSink) Report(message string) error {
	var errs []error
	for _, s := range m {
		if err := s.Report(message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
