// Package worker provides a small bounded pool for background jobs whose
// results are consumed on a single channel.
package worker

import "sync"

// Job produces one result value.
type Job[T any] func() T

// Result pairs a job's output with the ID it was submitted under.
type Result[T any] struct {
	JobID  int64
	Output T
}

type jobWrapper[T any] struct {
	id int64
	fn Job[T]
}

// Pool runs submitted jobs on a fixed set of goroutines.
type Pool[T any] struct {
	jobs    chan jobWrapper[T]
	results chan Result[T]
	wg      sync.WaitGroup
}

// NewPool starts workerCount goroutines. bufferSize bounds how many jobs and
// results may sit in flight before Submit blocks.
func NewPool[T any](workerCount, bufferSize int) *Pool[T] {
	p := &Pool[T]{
		jobs:    make(chan jobWrapper[T], bufferSize),
		results: make(chan Result[T], bufferSize),
	}

	p.wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go p.worker()
	}

	return p
}

func (p *Pool[T]) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		p.results <- Result[T]{JobID: job.id, Output: job.fn()}
	}
}

// Submit enqueues a job, blocking while the buffer is full. It must not be
// called after Close.
func (p *Pool[T]) Submit(id int64, fn Job[T]) {
	p.jobs <- jobWrapper[T]{id: id, fn: fn}
}

// TrySubmit enqueues a job only if buffer space is free, reporting whether
// the job was accepted. It never blocks and must not be called after Close.
func (p *Pool[T]) TrySubmit(id int64, fn Job[T]) bool {
	select {
	case p.jobs <- jobWrapper[T]{id: id, fn: fn}:
		return true
	default:
		return false
	}
}

// Results returns the channel job outputs arrive on. It is closed once
// Close has been called and all in-flight jobs have finished.
func (p *Pool[T]) Results() <-chan Result[T] {
	return p.results
}

// Close stops accepting jobs, waits for in-flight ones, and closes Results.
func (p *Pool[T]) Close() {
	close(p.jobs)
	p.wg.Wait()
	close(p.results)
}
