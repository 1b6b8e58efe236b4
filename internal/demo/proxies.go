package demo

import (
	"errors"
	"fmt"

	"github.com/roach88/kata/internal/harness"
)

type store interface {
	Get(key string) (int, bool)
	Set(key string, v int) error
}

type mapStore map[string]int

func (m mapStore) Get(key string) (int, bool) {
	v, ok := m[key]
	return v, ok
}

func (m mapStore) Set(key string, v int) error {
	m[key] = v
	return nil
}

// loggingStore reports every access before delegating.
type loggingStore struct {
	store
	log func(msg string, values ...any)
}

func (l loggingStore) Get(key string) (int, bool) {
	l.log("get", key)
	return l.store.Get(key)
}

func (l loggingStore) Set(key string, v int) error {
	l.log("set", key, v)
	return l.store.Set(key, v)
}

var errNegative = errors.New("value must not be negative")

// validatingStore refuses negative values.
type validatingStore struct {
	store
}

func (s validatingStore) Set(key string, v int) error {
	if v < 0 {
		return fmt.Errorf("set %s: %w", key, errNegative)
	}
	return s.store.Set(key, v)
}

// defaultingStore answers misses with a fallback instead of the zero value.
type defaultingStore struct {
	store
	fallback int
}

func (s defaultingStore) Get(key string) (int, bool) {
	if v, ok := s.store.Get(key); ok {
		return v, true
	}
	return s.fallback, false
}

func proxies(h *harness.Harness) error {
	r := record(h)

	target := mapStore{}
	var calls int
	logged := loggingStore{store: target, log: func(msg string, values ...any) {
		calls++
		r.report(msg, values...)
	}}

	r.assert(logged.Set("skulk", 3) == nil, "a wrapper passes writes through to the target")
	v, ok := logged.Get("skulk")
	r.assert(ok && v == 3, "a wrapper passes reads through to the target")
	r.assert(calls == 2, "the wrapper saw every access")
	r.assert(target["skulk"] == 3, "writes through the wrapper land on the target")

	guarded := validatingStore{store: target}
	err := guarded.Set("age", -1)
	r.assert(errors.Is(err, errNegative), "a validating wrapper rejects a bad write")
	_, ok = target["age"]
	r.assert(!ok, "the rejected write never reaches the target")
	r.assert(guarded.Set("age", 30) == nil && target["age"] == 30, "a valid write goes through")

	defaults := defaultingStore{store: target, fallback: 42}
	v, ok = defaults.Get("missing")
	r.assert(!ok && v == 42, "a wrapper can substitute a default for a miss")

	var chained store = loggingStore{store: validatingStore{store: target}, log: func(string, ...any) { calls++ }}
	r.assert(chained.Set("age", -5) != nil && calls == 3, "wrappers compose in the order they are nested")

	return r.err
}
