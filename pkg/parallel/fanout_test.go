package parallel

import (
	"sync/atomic"
	"testing"
)

// TestFanoutCoversRange verifies every index in [0, n) is visited exactly
// once across the chunks.
func TestFanoutCoversRange(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	const n = 1000
	visits := make([]int32, n)

	pool.Fanout(n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			atomic.AddInt32(&visits[i], 1)
		}
	})

	for i, v := range visits {
		if v != 1 {
			t.Fatalf("index %d visited %d times", i, v)
		}
	}
}

// TestFanoutBarrier verifies Fanout does not return before every chunk has
// finished.
func TestFanoutBarrier(t *testing.T) {
	pool := NewWorkerPool(8)
	defer pool.Close()

	var sum int64
	pool.Fanout(100, func(lo, hi int) {
		var local int64
		for i := lo; i < hi; i++ {
			local += int64(i)
		}
		atomic.AddInt64(&sum, local)
	})

	// 0 + 1 + ... + 99
	if sum != 4950 {
		t.Errorf("Expected sum 4950 after barrier, got %d", sum)
	}
}

func TestFanoutEmptyRange(t *testing.T) {
	pool := NewWorkerPool(2)
	defer pool.Close()

	called := false
	pool.Fanout(0, func(lo, hi int) { called = true })

	if called {
		t.Error("Fanout over an empty range must not invoke fn")
	}
}

// TestFanoutSmallerThanWorkers checks chunking when n < workers.
func TestFanoutSmallerThanWorkers(t *testing.T) {
	pool := NewWorkerPool(16)
	defer pool.Close()

	var count int64
	pool.Fanout(3, func(lo, hi int) {
		atomic.AddInt64(&count, int64(hi-lo))
	})

	if count != 3 {
		t.Errorf("Expected 3 items processed, got %d", count)
	}
}

// TestFanoutClosedPoolRunsInline ensures the barrier holds even after Close.
func TestFanoutClosedPoolRunsInline(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Close()

	var count int64
	pool.Fanout(10, func(lo, hi int) {
		atomic.AddInt64(&count, int64(hi-lo))
	})

	if count != 10 {
		t.Errorf("Expected 10 items processed inline, got %d", count)
	}
}
