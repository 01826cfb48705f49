package proof

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Proof is a signed execution proof produced by the off-chain matching service.
// It asserts that the submitter's trade intent was matched and authorizes
// on-chain settlement at the recorded clearing price.
type Proof struct {
	// ID is derived from the underlying intent hash and is globally unique.
	ID        common.Hash    `json:"id"`
	Submitter common.Address `json:"submitter"`

	AssetIn   common.Address `json:"asset_in"`
	AssetOut  common.Address `json:"asset_out"`
	AmountIn  *big.Int       `json:"amount_in"`
	AmountOut *big.Int       `json:"amount_out"`

	// ClearingPrice is a fixed-point price in the matcher's native precision.
	ClearingPrice *big.Int `json:"clearing_price"`

	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`

	// Signature is the attester's signature over the proof contents,
	// [R || S || V] encoded.
	Signature []byte         `json:"signature"`
	Attester  common.Address `json:"attester"`

	// BatchRoot commits to the matching batch this proof settled in.
	BatchRoot common.Hash `json:"batch_root"`

	// ProtectionBenefit is the matcher's advisory estimate of value protected
	// for the counterparty. Informational only; accumulated into stats.
	ProtectionBenefit *big.Int `json:"protection_benefit,omitempty"`
}

// Age returns how long ago the proof was issued relative to now.
func (p *Proof) Age(now time.Time) time.Duration {
	return now.Sub(p.IssuedAt)
}

// Expired reports whether the proof's own expiry instant has passed.
func (p *Proof) Expired(now time.Time) bool {
	return !p.ExpiresAt.IsZero() && now.After(p.ExpiresAt)
}
