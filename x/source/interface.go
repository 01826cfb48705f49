package source

import (
	"context"

	"github.com/intent-network/relayer/x/proof"
)

// Source produces candidate execution proofs for the agent to relay.
// A single call must not return duplicate identifiers; filtering of proofs the
// agent already knows is the agent's responsibility, not the source's.
type Source interface {
	FetchCandidates(ctx context.Context) ([]*proof.Proof, error)
}
