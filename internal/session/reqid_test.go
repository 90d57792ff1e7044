package session

import (
	"sync"
	"testing"
)

func TestAllocatorSequential(t *testing.T) {
	a := NewAllocator(100)
	for want := 100; want < 110; want++ {
		if got := a.Next(); got != want {
			t.Fatalf("Next() = %d, want %d", got, want)
		}
	}
}

func TestAllocatorAdvance(t *testing.T) {
	a := NewAllocator(0)

	a.Advance(50)
	if got := a.Next(); got != 51 {
		t.Errorf("after Advance(50): Next() = %d, want 51", got)
	}

	// Stale announcement must not regress the counter.
	a.Advance(10)
	if got := a.Next(); got != 52 {
		t.Errorf("after stale Advance(10): Next() = %d, want 52", got)
	}

	// Re-announcing the current floor is a no-op too.
	a.Advance(52)
	if got := a.Next(); got != 53 {
		t.Errorf("after Advance(52): Next() = %d, want 53", got)
	}
}

func TestAllocatorUniqueUnderConcurrency(t *testing.T) {
	a := NewAllocator(0)
	const n = 200

	ids := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- a.Next()
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int]bool, n)
	for id := range ids {
		if seen[id] {
			t.Fatalf("id %d handed out twice", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Errorf("got %d unique ids, want %d", len(seen), n)
	}
}
