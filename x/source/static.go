package source

import (
	"context"
	"sync"

	"github.com/intent-network/relayer/x/proof"
)

var _ Source = (*Static)(nil)

// Static serves a programmable candidate set; used in tests and local runs.
type Static struct {
	mu     sync.Mutex
	proofs []*proof.Proof
	err    error
}

// NewStatic returns an empty static source.
func NewStatic() *Static {
	return &Static{}
}

// Set replaces the candidate set returned by subsequent fetches.
func (s *Static) Set(proofs ...*proof.Proof) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.proofs = proofs
	s.err = nil
}

// Fail makes subsequent fetches return err until Set is called.
func (s *Static) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *Static) FetchCandidates(context.Context) ([]*proof.Proof, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	out := make([]*proof.Proof, len(s.proofs))
	copy(out, s.proofs)
	return out, nil
}
