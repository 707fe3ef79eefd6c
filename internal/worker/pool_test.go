package worker_test

import (
	"sort"
	"testing"

	"github.com/asukabase7/ip-skill-quiz/internal/worker"
)

func TestPool_RunsAllJobs(t *testing.T) {
	pool := worker.NewPool[int](3, 10)

	go func() {
		for i := 1; i <= 5; i++ {
			n := i
			pool.Submit(int64(n), func() int { return n * 10 })
		}
		pool.Close()
	}()

	var outputs []int
	for result := range pool.Results() {
		outputs = append(outputs, result.Output)
	}

	sort.Ints(outputs)
	want := []int{10, 20, 30, 40, 50}
	if len(outputs) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(outputs))
	}
	for i := range want {
		if outputs[i] != want[i] {
			t.Errorf("result %d: got %d, want %d", i, outputs[i], want[i])
		}
	}
}

func TestPool_TrySubmitFullQueue(t *testing.T) {
	pool := worker.NewPool[struct{}](1, 1)

	// Park the single worker so nothing drains the job buffer.
	started := make(chan struct{})
	release := make(chan struct{})
	pool.Submit(1, func() struct{} { close(started); <-release; return struct{}{} })
	<-started

	// Fill the buffer, then verify the next attempt is refused, not blocked.
	accepted := 0
	for i := 0; i < 3; i++ {
		if pool.TrySubmit(int64(i+2), func() struct{} { return struct{}{} }) {
			accepted++
		}
	}
	if accepted != 1 {
		t.Errorf("expected exactly 1 accepted job with a full buffer, got %d", accepted)
	}

	close(release)
	done := make(chan struct{})
	go func() {
		for range pool.Results() {
		}
		close(done)
	}()
	pool.Close()
	<-done
}

func TestPool_CloseDrainsInFlight(t *testing.T) {
	pool := worker.NewPool[struct{}](1, 1)

	done := make(chan struct{})
	go func() {
		for range pool.Results() {
		}
		close(done)
	}()

	pool.Submit(1, func() struct{} { return struct{}{} })
	pool.Close()
	<-done
}
