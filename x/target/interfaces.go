package target

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/intent-network/relayer/x/proof"
)

// FeeEstimate is the target's cost estimate for settling one proof.
type FeeEstimate struct {
	// Gas is the estimated gas for the settlement call, before any buffer.
	Gas uint64
	// FeePrice is the fee price observed at estimation time.
	FeePrice *big.Int
}

// Receipt identifies a submitted settlement awaiting confirmation.
type Receipt struct {
	TxHash      common.Hash
	SubmittedAt time.Time
	// Deadline is the submission validity window's end; a transaction not
	// confirmed by then is treated as failed rather than replayed later.
	Deadline time.Time
}

// Target is the narrow interface to the execution chain. Implementations own
// transport, signing and encoding; the relay core only sees these five calls.
type Target interface {
	// FeePrice returns the current network fee price in the native unit.
	FeePrice(ctx context.Context) (*big.Int, error)

	// BlockHeight returns the current chain head height.
	BlockHeight(ctx context.Context) (uint64, error)

	// EstimateFee estimates the settlement cost for the proof.
	EstimateFee(ctx context.Context, p *proof.Proof) (*FeeEstimate, error)

	// Submit signs and broadcasts the settlement call with the given gas
	// budget. The deadline bounds how long the submission stays valid.
	Submit(ctx context.Context, p *proof.Proof, gasBudget uint64, deadline time.Time) (*Receipt, error)

	// AwaitConfirmation blocks until the receipt's transaction is confirmed,
	// returning the confirmed block height.
	AwaitConfirmation(ctx context.Context, r *Receipt) (uint64, error)
}
