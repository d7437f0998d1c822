package testkit

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestMustPanicPasses(t *testing.T) {
	MustPanic(t, func() { panic("boom") })
}

func TestMustNotPanicPasses(t *testing.T) {
	MustNotPanic(t, func() {})
}

func TestSwapRestores(t *testing.T) {
	target := func() int { return 1 }
	ptr := &target

	t.Run("inner", func(t *testing.T) {
		Swap(t, ptr, func() int { return 2 })
		if (*ptr)() != 2 {
			t.Fatalf("swap did not apply")
		}
	})

	if (*ptr)() != 1 {
		t.Fatalf("swap did not restore")
	}
}

func TestEventually(t *testing.T) {
	var flag atomic.Bool
	go func() {
		time.Sleep(5 * time.Millisecond)
		flag.Store(true)
	}()
	Eventually(t, time.Second, flag.Load)
}
