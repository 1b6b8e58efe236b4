package demo

import (
	"iter"
	"slices"

	"github.com/roach88/kata/internal/harness"
)

func weapons() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, w := range []string{"Katana", "Wakizashi", "Kusarigama"} {
			if !yield(w) {
				return
			}
		}
	}
}

// ids never ends; callers stop it by breaking out of the range.
func ids() iter.Seq[int] {
	return func(yield func(int) bool) {
		for id := 1; ; id++ {
			if !yield(id) {
				return
			}
		}
	}
}

type node struct {
	name     string
	children []*node
}

// walk yields names depth first, delegating to the children's iterators.
func (n *node) walk() iter.Seq[string] {
	return func(yield func(string) bool) {
		if !yield(n.name) {
			return
		}
		for _, c := range n.children {
			for name := range c.walk() {
				if !yield(name) {
					return
				}
			}
		}
	}
}

func generators(h *harness.Harness) error {
	r := record(h)

	got := slices.Collect(weapons())
	r.assert(slices.Equal(got, []string{"Katana", "Wakizashi", "Kusarigama"}),
		"ranging over a generator collects every value in order")

	next, stop := iter.Pull(weapons())
	first, ok1 := next()
	second, ok2 := next()
	stop()
	_, ok3 := next()
	r.assert(ok1 && ok2 && first == "Katana" && second == "Wakizashi",
		"pulling advances the generator one value at a time")
	r.assert(!ok3, "a stopped generator reports that it is done")

	var taken []int
	for id := range ids() {
		if id > 3 {
			break
		}
		taken = append(taken, id)
	}
	r.assert(slices.Equal(taken, []int{1, 2, 3}), "break ends an infinite generator")

	yields := 0
	counting := func(yield func(string) bool) {
		for w := range weapons() {
			yields++
			if !yield(w) {
				return
			}
		}
	}
	for range counting {
		break
	}
	r.assert(yields == 1, "a generator does no work past the value the consumer stopped at")

	tree := &node{name: "body", children: []*node{
		{name: "div", children: []*node{{name: "form"}, {name: "input"}}},
		{name: "span"},
	}}
	order := slices.Collect(tree.walk())
	r.report("walk order:", order)
	r.assert(slices.Equal(order, []string{"body", "div", "form", "input", "span"}),
		"nested generators delegate to their children in depth-first order")

	return r.err
}
