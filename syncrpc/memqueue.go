package syncrpc

import (
	"context"
	"sync"
)

// MemQueue is an in-memory Queue, usable in tests and demos. Real
// deployments back the queue with durable storage; the sync contract only
// assumes Pending/Ack semantics.
type MemQueue struct {
	mu      sync.Mutex
	pending []Expense
}

// Enqueue appends an expense to the queue.
func (q *MemQueue) Enqueue(e Expense) {
	q.mu.Lock()
	q.pending = append(q.pending, e)
	q.mu.Unlock()
}

// Pending returns a copy of all queued expenses.
func (q *MemQueue) Pending(_ context.Context) ([]Expense, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Expense, len(q.pending))
	copy(out, q.pending)
	return out, nil
}

// Ack removes the given IDs from the queue.
func (q *MemQueue) Ack(_ context.Context, ids []string) error {
	acked := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		acked[id] = struct{}{}
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	kept := q.pending[:0]
	for _, e := range q.pending {
		if _, ok := acked[e.ID]; !ok {
			kept = append(kept, e)
		}
	}
	q.pending = kept
	return nil
}
