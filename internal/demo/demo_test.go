package demo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/roach88/kata/internal/harness"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestCatalog_EveryCasePasses(t *testing.T) {
	for _, c := range Catalog() {
		t.Run(c.Name, func(t *testing.T) {
			list := harness.NewListSink()
			h := harness.New(harness.WithSink(list))

			require.NoError(t, c.Run(h))

			tally := h.Tally()
			assert.NotZero(t, tally.Total(), "case records at least one assertion")
			for _, r := range h.Results() {
				assert.True(t, r.Condition, "FAIL: %s", r.Description)
			}
			assert.Equal(t, 0, tally.ExitCode())
		})
	}
}

func TestCatalog_NamesUniqueAndDescribed(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range Catalog() {
		assert.NotEmpty(t, c.Name)
		assert.NotEmpty(t, c.Topic, c.Name)
		assert.NotNil(t, c.Run, c.Name)
		assert.False(t, seen[c.Name], "duplicate case %s", c.Name)
		seen[c.Name] = true
	}
}

func TestCatalog_Deterministic(t *testing.T) {
	for _, c := range Catalog() {
		if c.Name == "promises" {
			continue
		}
		h1, h2 := harness.New(), harness.New()
		require.NoError(t, c.Run(h1))
		require.NoError(t, c.Run(h2))
		assert.Equal(t, h1.Digest(), h2.Digest(), c.Name)
		assert.Equal(t, h1.Reports(), h2.Reports(), c.Name)
	}
}

func TestLookup(t *testing.T) {
	c, ok := Lookup("closures")
	require.True(t, ok)
	assert.Equal(t, "closures", c.Name)

	_, ok = Lookup("nope")
	assert.False(t, ok)
}

func TestCallbacks_Golden(t *testing.T) {
	h := harness.New()
	require.NoError(t, callbacks(h))
	harness.AssertGolden(t, "callbacks", h)
}

type brokenSink struct{}

var errBroken = errors.New("sink closed")

func (brokenSink) Record(harness.Result) error { return errBroken }
func (brokenSink) Report(string) error         { return nil }

func TestRecorder_StopsAfterFirstError(t *testing.T) {
	h := harness.New(harness.WithSink(brokenSink{}))
	r := record(h)

	r.assert(true, "first")
	r.assert(true, "second")
	r.report("skipped")

	require.ErrorIs(t, r.err, errBroken)
	assert.Equal(t, 1, h.Len())
	assert.Empty(t, h.Reports())
}

func TestSet_Operations(t *testing.T) {
	a := setOf(1, 2, 3)
	b := setOf(3, 4)

	assert.Len(t, a.union(b), 4)
	assert.Equal(t, setOf(3), a.intersect(b))
	assert.Equal(t, setOf(1, 2), a.difference(b))
	assert.Len(t, a, 3, "operations leave the receiver alone")
}

func TestFuture_AwaitAfterResolve(t *testing.T) {
	f := async(func() (int, error) { return 7, nil })
	v, err := f.await(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	v, err = f.await(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 7, v, "a resolved future can be read again")
}

func TestIsPrime(t *testing.T) {
	var primes []int
	for n := range 20 {
		if isPrime(n) {
			primes = append(primes, n)
		}
	}
	assert.Equal(t, []int{2, 3, 5, 7, 11, 13, 17, 19}, primes)
}
