package testutil

import (
	"context"
	"sync"
	"testing"

	"github.com/kbukum/featurekit/component"
)

// Resettable is anything that can drop its cached state. di.Entry and
// *injector.Delegate satisfy it.
type Resettable interface {
	Reset()
}

// ResetOnCleanup resets every r now and again when the test ends.
func ResetOnCleanup(t testing.TB, rs ...Resettable) {
	t.Helper()
	for _, r := range rs {
		r.Reset()
	}
	t.Cleanup(func() {
		for i := len(rs) - 1; i >= 0; i-- {
			rs[i].Reset()
		}
	})
}

// Start starts c and stops it when the test ends.
func Start(t testing.TB, c component.Component) {
	t.Helper()
	ctx := context.Background()
	if err := c.Start(ctx); err != nil {
		t.Fatalf("failed to start component %s: %v", c.Name(), err)
	}
	t.Cleanup(func() {
		if err := c.Stop(ctx); err != nil {
			t.Errorf("failed to stop component %s: %v", c.Name(), err)
		}
	})
}

// RunConcurrently calls fn from n goroutines released together and waits
// for all of them. fn receives the goroutine index.
func RunConcurrently(n int, fn func(i int)) {
	var wg sync.WaitGroup
	start := make(chan struct{})
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			<-start
			fn(i)
		}(i)
	}
	close(start)
	wg.Wait()
}
