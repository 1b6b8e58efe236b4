package demo

import (
	"slices"
	"strings"

	"github.com/roach88/kata/internal/harness"
)

// loop runs queued callbacks after the current work finishes. Callbacks
// queued while draining run in the same drain, after those already
// waiting.
type loop struct {
	queue []func()
}

func (l *loop) later(fn func()) { l.queue = append(l.queue, fn) }

func (l *loop) drain() {
	for len(l.queue) > 0 {
		fn := l.queue[0]
		l.queue = l.queue[1:]
		fn()
	}
}

func each(items []string, fn func(i int, s string)) {
	for i, s := range items {
		fn(i, s)
	}
}

func callbacks(h *harness.Harness) error {
	r := record(h)
	var order []string
	trace := func(step string) {
		order = append(order, step)
		r.report(step)
	}

	trace("start")
	each([]string{"a", "b"}, func(_ int, s string) { trace("sync " + s) })
	trace("after each")
	r.assert(slices.Equal(order, []string{"start", "sync a", "sync b", "after each"}),
		"synchronous callbacks finish before the caller continues")

	order = nil
	var l loop
	trace("schedule")
	l.later(func() {
		trace("first")
		l.later(func() { trace("nested") })
	})
	l.later(func() { trace("second") })
	trace("end of turn")
	l.drain()
	r.assert(slices.Equal(order, []string{"schedule", "end of turn", "first", "second", "nested"}),
		"queued callbacks run after the current work in the order queued")

	order = nil
	func() {
		for _, s := range []string{"one", "two", "three"} {
			defer trace("deferred " + s)
		}
		trace("body")
	}()
	r.assert(strings.Join(order, ",") == "body,deferred three,deferred two,deferred one",
		"deferred calls run last in, first out when the function returns")

	done := make(chan string, 1)
	go func() { done <- "from goroutine" }()
	got := <-done
	r.assert(got == "from goroutine", "a channel carries a callback's result back to the caller")

	return r.err
}
