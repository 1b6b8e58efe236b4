// Package demo holds the built-in kata catalog.
//
// Each Case exercises one language idea and records what it shows through
// a harness. Every case in the catalog is expected to pass; a failure
// means the idea it demonstrates no longer holds.
package demo

import "github.com/roach88/kata/internal/harness"

// Case is a named demonstration.
type Case struct {
	Name  string
	Topic string
	Run   func(h *harness.Harness) error
}

// Catalog returns the built-in cases in presentation order.
// The slice is freshly allocated on every call.
func Catalog() []Case {
	return []Case{
		{Name: "closures", Topic: "captured state outlives the enclosing call", Run: closures},
		{Name: "generators", Topic: "iterators yield values on demand", Run: generators},
		{Name: "promises", Topic: "goroutines deliver results later", Run: promises},
		{Name: "collections", Topic: "maps, sets and slices", Run: collections},
		{Name: "embedding", Topic: "method promotion instead of prototype chains", Run: embedding},
		{Name: "proxies", Topic: "interface wrappers intercept access", Run: proxies},
		{Name: "memoization", Topic: "functions that remember answers", Run: memoization},
		{Name: "callbacks", Topic: "synchronous versus queued callback order", Run: callbacks},
	}
}

// Lookup finds a catalog case by name.
func Lookup(name string) (Case, bool) {
	for _, c := range Catalog() {
		if c.Name == name {
			return c, true
		}
	}
	return Case{}, false
}

// recorder forwards to a harness and keeps the first error. After an
// error the remaining calls are skipped, like bufio.Writer.
type recorder struct {
	h   *harness.Harness
	err error
}

func record(h *harness.Harness) *recorder {
	return &recorder{h: h}
}

func (r *recorder) assert(cond bool, description string) {
	if r.err != nil {
		return
	}
	r.err = r.h.Assert(cond, description)
}

func (r *recorder) report(message string, values ...any) {
	if r.err != nil {
		return
	}
	r.h.Report(message, values...)
}
