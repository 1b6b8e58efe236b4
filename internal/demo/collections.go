package demo

import (
	"maps"
	"slices"
	"strings"

	"github.com/roach88/kata/internal/harness"
)

type set[T comparable] map[T]struct{}

func setOf[T comparable](items ...T) set[T] {
	s := make(set[T], len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}

func (s set[T]) has(v T) bool {
	_, ok := s[v]
	return ok
}

func (s set[T]) union(o set[T]) set[T] {
	out := maps.Clone(s)
	maps.Copy(out, o)
	return out
}

func (s set[T]) intersect(o set[T]) set[T] {
	out := set[T]{}
	for v := range s {
		if o.has(v) {
			out[v] = struct{}{}
		}
	}
	return out
}

func (s set[T]) difference(o set[T]) set[T] {
	out := maps.Clone(s)
	maps.DeleteFunc(out, func(v T, _ struct{}) bool { return o.has(v) })
	return out
}

func collections(h *harness.Harness) error {
	r := record(h)

	ninjas := []string{"Kuma", "Hattori", "Yagyu"}
	r.assert(slices.Index(ninjas, "Yagyu") == 2, "Index finds the position of an element")
	r.assert(!slices.Contains(ninjas, "Fuma"), "Contains reports a missing element")

	upper := make([]string, 0, len(ninjas))
	for _, n := range ninjas {
		upper = append(upper, strings.ToUpper(n))
	}
	r.assert(slices.Equal(upper, []string{"KUMA", "HATTORI", "YAGYU"}), "a loop maps each element")

	long := slices.DeleteFunc(slices.Clone(ninjas), func(n string) bool { return len(n) <= 4 })
	r.assert(slices.Equal(long, []string{"Hattori", "Yagyu"}), "DeleteFunc filters a copy")
	r.assert(len(ninjas) == 3, "the source slice is left alone")

	total := 0
	for _, n := range ninjas {
		total += len(n)
	}
	r.assert(total == 16, "a loop reduces a slice to one value")

	sorted := slices.Sorted(slices.Values(ninjas))
	r.assert(slices.Equal(sorted, []string{"Hattori", "Kuma", "Yagyu"}), "Sorted orders a copy of the values")

	weapons := map[string]string{"Yoshi": "Katana", "Hattori": "Wakizashi"}
	weapon, ok := weapons["Yoshi"]
	r.assert(ok && weapon == "Katana", "a map returns the value stored under a key")
	_, ok = weapons["Kuma"]
	r.assert(!ok, "the comma-ok form tells a missing key from a zero value")
	delete(weapons, "Hattori")
	r.assert(len(weapons) == 1, "delete removes an entry")

	weapons["Kuma"] = "Kusarigama"
	keys := slices.Sorted(maps.Keys(weapons))
	r.report("keys:", keys)
	r.assert(slices.Equal(keys, []string{"Kuma", "Yoshi"}), "sorting the keys gives a stable order")

	samurai := setOf("Oda", "Tomoe", "Hattori")
	ninja := setOf("Yoshi", "Kuma", "Hattori", "Hattori")
	r.assert(len(ninja) == 3, "a set stores each member once")
	r.assert(len(samurai.union(ninja)) == 5, "union has the members of both sets")
	both := samurai.intersect(ninja)
	r.assert(len(both) == 1 && both.has("Hattori"), "intersection keeps the common members")
	pure := samurai.difference(ninja)
	r.assert(slices.Equal(slices.Sorted(maps.Keys(pure)), []string{"Oda", "Tomoe"}),
		"difference drops members of the other set")

	return r.err
}
