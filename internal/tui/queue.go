package tui

import (
	"context"
	"sync"

	"dangit/internal/loop"
)

// keyQueue is an unbounded FIFO of input events. The bubbletea update
// goroutine pushes, the dashboard loop reads. Nothing is dropped while
// the loop is busy waiting out a transition.
type keyQueue struct {
	mu     sync.Mutex
	events []loop.Event
	closed bool
	notify chan struct{}
}

func newKeyQueue() *keyQueue {
	return &keyQueue{notify: make(chan struct{}, 1)}
}

// Push appends ev. It never blocks.
func (q *keyQueue) Push(ev loop.Event) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.events = append(q.events, ev)
	q.mu.Unlock()
	q.wake()
}

// Close makes Next return loop.ErrInputClosed once the queue drains.
func (q *keyQueue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.wake()
}

func (q *keyQueue) wake() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// Next implements loop.Input. It supports a single reader.
func (q *keyQueue) Next(ctx context.Context) (loop.Event, error) {
	for {
		q.mu.Lock()
		if len(q.events) > 0 {
			ev := q.events[0]
			q.events = q.events[1:]
			q.mu.Unlock()
			return ev, nil
		}
		closed := q.closed
		q.mu.Unlock()
		if closed {
			return loop.Event{}, loop.ErrInputClosed
		}

		select {
		case <-ctx.Done():
			return loop.Event{}, ctx.Err()
		case <-q.notify:
		}
	}
}

// Len reports the number of pending events.
func (q *keyQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}
