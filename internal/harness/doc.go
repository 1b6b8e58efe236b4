// Package harness provides the assertion harness used by every kata case.
//
// A Harness records boolean outcomes with a description and keeps them in
// an append-only ResultLog. A false condition is recorded data, not an
// error: nothing is thrown and the caller keeps going.
//
// # Operations
//
//   - Assert(condition, description): appends one Result
//   - Pass(description): same as Assert(true, description)
//   - Fail(description): same as Assert(false, description)
//   - Report(message, values...): writes a trace line, never touches the log
//
// Each call is mirrored to a Sink. WriterSink prints
//
//	PASS: <description>
//	FAIL: <description>
//
// and the raw message for reports. ListSink keeps the same lines as
// structured entries for display.
//
// # Instances, not globals
//
// There is no package-level harness. Construct one per run so independent
// runs never share results:
//
//	h := harness.New(harness.WithSink(harness.NewWriterSink(os.Stdout)))
//	_ = h.Assert(len(items) == 3, "three items collected")
//	h.Report("tally", h.Tally().Passed)
//	os.Exit(h.Tally().ExitCode())
//
// # Ordering
//
// Every assert and report also lands in the trace with a logical sequence
// number from the harness Clock. The trace is what callback-ordering
// cases inspect: reports show where execution went, asserts show what held.
package harness
