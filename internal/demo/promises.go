package demo

import (
	"context"
	"errors"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/kata/internal/harness"
)

// future is a value computed by a goroutine and read once it is ready.
type future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

func async[T any](fn func() (T, error)) *future[T] {
	f := &future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.val, f.err = fn()
	}()
	return f
}

func (f *future[T]) await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

var errShuriken = errors.New("shuriken missed")

func promises(h *harness.Harness) error {
	r := record(h)
	ctx := context.Background()

	release := make(chan struct{})
	f := async(func() (string, error) {
		<-release
		return "Hattori", nil
	})
	r.report("goroutine started, result pending")
	close(release)
	name, err := f.await(ctx)
	r.report("future resolved")
	r.assert(err == nil && name == "Hattori", "awaiting a future returns the goroutine's value")

	rejected := async(func() (int, error) { return 0, errShuriken })
	_, err = rejected.await(ctx)
	r.assert(errors.Is(err, errShuriken), "a failed goroutine hands its error to the awaiter")

	var (
		g       errgroup.Group
		mu      sync.Mutex
		arrived []string
	)
	for _, n := range []string{"Yoshi", "Hattori", "Hanzo"} {
		g.Go(func() error {
			mu.Lock()
			defer mu.Unlock()
			arrived = append(arrived, n)
			return nil
		})
	}
	err = g.Wait()
	slices.Sort(arrived)
	r.assert(err == nil && slices.Equal(arrived, []string{"Hanzo", "Hattori", "Yoshi"}),
		"waiting on a group resolves once every goroutine has finished")

	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error { return errShuriken })
	eg.Go(func() error {
		<-gctx.Done()
		return gctx.Err()
	})
	err = eg.Wait()
	r.assert(errors.Is(err, errShuriken), "the first failure in a group is the one reported")
	r.assert(gctx.Err() != nil, "a failure cancels the rest of the group")

	fast := async(func() (string, error) { return "fast", nil })
	hold := make(chan struct{})
	slow := async(func() (string, error) {
		<-hold
		return "slow", nil
	})
	var winner string
	select {
	case <-fast.done:
		winner = fast.val
	case <-slow.done:
		winner = slow.val
	}
	close(hold)
	_, _ = slow.await(ctx)
	r.assert(winner == "fast", "select takes whichever result is ready first")

	cctx, cancel := context.WithCancel(ctx)
	never := make(chan struct{})
	pending := async(func() (int, error) {
		<-never
		return 1, nil
	})
	cancel()
	_, err = pending.await(cctx)
	close(never)
	_, _ = pending.await(ctx)
	r.assert(errors.Is(err, context.Canceled), "a cancelled context stops the wait, not the work")

	return r.err
}
