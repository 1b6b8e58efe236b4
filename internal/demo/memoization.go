package demo

import (
	"sync"

	"github.com/roach88/kata/internal/harness"
)

// memoize caches fn's answers by argument.
func memoize[K comparable, V any](fn func(K) V) (func(K) V, func() int) {
	var (
		mu    sync.Mutex
		cache = map[K]V{}
		calls int
	)
	get := func(k K) V {
		mu.Lock()
		defer mu.Unlock()
		if v, ok := cache[k]; ok {
			return v
		}
		calls++
		v := fn(k)
		cache[k] = v
		return v
	}
	return get, func() int {
		mu.Lock()
		defer mu.Unlock()
		return calls
	}
}

func isPrime(n int) bool {
	if n < 2 {
		return false
	}
	for d := 2; d*d <= n; d++ {
		if n%d == 0 {
			return false
		}
	}
	return true
}

func memoization(h *harness.Harness) error {
	r := record(h)

	prime, computed := memoize(isPrime)
	r.assert(prime(5), "5 is prime")
	r.assert(!prime(9), "9 is not prime")
	r.assert(prime(5), "the cached answer is the same")
	r.assert(computed() == 2, "a repeated argument is answered from the cache")

	memo := map[int]int{}
	var fib func(int) int
	fib = func(n int) int {
		if n < 2 {
			return n
		}
		if v, ok := memo[n]; ok {
			return v
		}
		v := fib(n-1) + fib(n-2)
		memo[n] = v
		return v
	}
	r.assert(fib(50) == 12586269025, "recursion over a cache finishes fib(50) at once")
	r.assert(len(memo) == 49, "each subproblem is stored exactly once")

	var once sync.Once
	loads := 0
	load := func() { loads++ }
	for range 3 {
		once.Do(load)
	}
	r.assert(loads == 1, "sync.Once runs its function a single time")

	lazy := sync.OnceValue(func() int {
		loads++
		return 7
	})
	r.assert(lazy() == 7 && lazy() == 7 && loads == 2, "OnceValue computes on first use and keeps the result")

	return r.err
}
