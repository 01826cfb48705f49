package store

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Record captures the settlement outcome kept for a settled proof identifier.
type Record struct {
	ProofID        common.Hash `json:"proof_id"`
	TxHash         common.Hash `json:"tx_hash"`
	ConfirmedBlock uint64      `json:"confirmed_block"`
	FeePaid        *big.Int    `json:"fee_paid,omitempty"`
	SettledAt      time.Time   `json:"settled_at"`
}

// Store tracks settled and in-flight proof identifiers. Settled entries are
// append-only; the only removal permitted is releasing an in-flight marking
// after a failed submission.
type Store interface {
	// MarkInFlight atomically claims the identifier for submission. It returns
	// false if the identifier is already in-flight or settled, guaranteeing at
	// most one outstanding submission per proof.
	MarkInFlight(id common.Hash) bool

	// MarkSettled promotes an identifier to settled and stores its record.
	// Settled markings are permanent.
	MarkSettled(id common.Hash, rec Record)

	// ReleaseInFlight removes an in-flight marking after a failed submission so
	// a later retry can re-attempt. It never touches a settled marking.
	ReleaseInFlight(id common.Hash)

	// IsKnown reports whether the identifier is settled or in-flight.
	IsKnown(id common.Hash) bool

	// IsSettled reports whether the identifier has been settled.
	IsSettled(id common.Hash) bool

	// Get returns the settlement record for a settled identifier.
	Get(id common.Hash) (Record, bool)

	// SettledCount returns the number of settled identifiers.
	SettledCount() int
}
