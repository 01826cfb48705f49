// Package queue holds proofs that passed validation but failed the timing
// check, awaiting re-evaluation on a later agent cycle. Ordering is FIFO for
// retry fairness only; proofs are independent.
package queue

import (
	"sync"

	"github.com/intent-network/relayer/x/proof"
)

// Pending is a mutex-guarded FIFO of deferred proofs. The orchestrator is the
// only writer today, but drains and new-candidate processing may be
// parallelized later, so the queue synchronizes anyway.
type Pending struct {
	mu    sync.Mutex
	items []*proof.Proof
}

// NewPending returns an empty queue.
func NewPending() *Pending {
	return &Pending{}
}

// Push appends a proof for re-evaluation on the next cycle.
func (q *Pending) Push(p *proof.Proof) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, p)
}

// DrainAll removes and returns every queued proof in insertion order.
// Callers re-push entries that remain deferred.
func (q *Pending) DrainAll() []*proof.Proof {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := q.items
	q.items = nil
	return out
}

// Len returns the number of queued proofs.
func (q *Pending) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Snapshot returns a copy of the queued proofs without draining, for the
// observability surface.
func (q *Pending) Snapshot() []*proof.Proof {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]*proof.Proof, len(q.items))
	copy(out, q.items)
	return out
}
