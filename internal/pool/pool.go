// Package pool runs opaque jobs with a fixed concurrency bound and hands
// results back in completion order.
//
// The pool is a fixed array of slots, each either empty or holding one
// in-flight job. Submitting a job claims an empty slot when one exists;
// otherwise the pool cycles over occupied slots with short bounded waits
// until one finishes, reuses that slot, and returns the finished result.
// At most N jobs are ever in flight. The round-robin cursor persists
// across calls so no slot is starved of polling.
//
// Individual jobs run for seconds to hours, so a poll interval of tens of
// milliseconds costs nothing measurable; see the driver for the single
// consumer loop that alternates submit and record.
package pool

import "time"

// DefaultPoll is the bounded wait applied to one occupied slot before the
// cursor moves on.
const DefaultPoll = 10 * time.Millisecond

// Pool is a bounded set of worker slots producing values of type T. It is
// driven by a single goroutine; only the job functions themselves run
// concurrently.
type Pool[T any] struct {
	slots  []chan T // nil = never used or closed; non-nil = in flight
	cursor int
	poll   time.Duration
}

// New creates a pool with n worker slots. n < 1 is treated as 1. A poll
// of 0 selects DefaultPoll.
func New[T any](n int, poll time.Duration) *Pool[T] {
	if n < 1 {
		n = 1
	}
	if poll <= 0 {
		poll = DefaultPoll
	}
	return &Pool[T]{
		slots: make([]chan T, n),
		poll:  poll,
	}
}

// Size returns the worker slot count.
func (p *Pool[T]) Size() int { return len(p.slots) }

// Submit hands one job to the pool.
//
// With a single slot the job runs inline and its own result is returned
// immediately. With more slots the job is started asynchronously: if an
// empty slot is found it is claimed and no result is returned; otherwise
// Submit polls occupied slots round-robin until one completes, reuses it,
// and returns that earlier job's result.
func (p *Pool[T]) Submit(run func() T) (T, bool) {
	if len(p.slots) == 1 {
		return run(), true
	}

	var evicted T
	found := false
	if !p.seekEmpty() {
		for !found {
			select {
			case evicted = <-p.slots[p.cursor]:
				found = true
			case <-time.After(p.poll):
				p.cursor = (p.cursor + 1) % len(p.slots)
			}
		}
	}

	ch := make(chan T, 1)
	p.slots[p.cursor] = ch
	go func() { ch <- run() }()

	return evicted, found
}

// seekEmpty advances the cursor to the next empty slot, if any exists.
func (p *Pool[T]) seekEmpty() bool {
	for range p.slots {
		if p.slots[p.cursor] == nil {
			return true
		}
		p.cursor = (p.cursor + 1) % len(p.slots)
	}
	return false
}

// Drain collects every remaining in-flight result, invoking yield once per
// result in completion order. Slots that never held a job are skipped.
// Drain returns once every slot is empty; the pool may then be reused.
func (p *Pool[T]) Drain(yield func(T)) {
	remaining := 0
	for _, slot := range p.slots {
		if slot != nil {
			remaining++
		}
	}

	for remaining > 0 {
		slot := p.slots[p.cursor]
		if slot != nil {
			select {
			case v := <-slot:
				p.slots[p.cursor] = nil
				remaining--
				yield(v)
			case <-time.After(p.poll):
			}
		}
		p.cursor = (p.cursor + 1) % len(p.slots)
	}
}
