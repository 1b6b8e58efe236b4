package demo

import "github.com/roach88/kata/internal/harness"

func counter() func() int {
	n := 0
	return func() int {
		n++
		return n
	}
}

// ninja keeps feints reachable only through its closures.
type ninja struct {
	Feints func() int
	Feint  func()
}

func newNinja() ninja {
	feints := 0
	return ninja{
		Feints: func() int { return feints },
		Feint:  func() { feints++ },
	}
}

func closures(h *harness.Harness) error {
	r := record(h)

	next := counter()
	next()
	next()
	r.assert(next() == 3, "a closure keeps its counter between calls")

	other := counter()
	r.assert(other() == 1, "each call to counter gets its own variable")

	var fns []func() int
	for i := range 3 {
		fns = append(fns, func() int { return i })
	}
	r.assert(fns[0]() == 0 && fns[1]() == 1 && fns[2]() == 2,
		"loop closures capture a fresh variable per iteration")

	shared := 0
	inc := func() { shared++ }
	inc()
	inc()
	r.assert(shared == 2, "closures capture variables, not copies of values")

	n1 := newNinja()
	n2 := newNinja()
	n1.Feint()
	r.assert(n1.Feints() == 1, "the feint count is reached only through the closure")
	r.assert(n2.Feints() == 0, "a second ninja has its own private count")

	return r.err
}
