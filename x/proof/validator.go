package proof

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// MinSignatureLen is the encoded length of a secp256k1 [R || S || V] signature.
const MinSignatureLen = 65

// DefaultMaxProofAge bounds how long after issuance a proof is still accepted.
const DefaultMaxProofAge = 3600 * time.Second

// Validator applies the fixed acceptance rules to candidate proofs.
// Validation is a pure function of (proof, trusted attester, now); identical
// inputs always produce the identical outcome.
type Validator struct {
	trustedAttester common.Address
	maxAge          time.Duration
}

// NewValidator builds a validator for the given trusted attesting identity.
// A zero maxAge falls back to DefaultMaxProofAge.
func NewValidator(trustedAttester common.Address, maxAge time.Duration) *Validator {
	if maxAge <= 0 {
		maxAge = DefaultMaxProofAge
	}
	return &Validator{trustedAttester: trustedAttester, maxAge: maxAge}
}

// Validate runs the acceptance gates in fixed order, short-circuiting on the
// first failure. A nil return means the proof is accepted. The returned
// *RejectionError names the first failing rule.
func (v *Validator) Validate(p *Proof, now time.Time) *RejectionError {
	if p.Attester != v.trustedAttester {
		return reject(ReasonUntrustedSigner, "attester %s is not the trusted identity %s",
			p.Attester.Hex(), v.trustedAttester.Hex())
	}

	if age := p.Age(now); age > v.maxAge {
		return reject(ReasonExpired, "proof age %s exceeds maximum %s", age, v.maxAge)
	}
	if p.Expired(now) {
		return reject(ReasonExpired, "proof expired at %s", p.ExpiresAt.Format(time.RFC3339))
	}

	if len(p.Signature) < MinSignatureLen {
		return reject(ReasonMalformedSignature, "signature length %d below minimum %d",
			len(p.Signature), MinSignatureLen)
	}

	if p.AmountIn == nil || p.AmountIn.Sign() <= 0 {
		return reject(ReasonInvalidAmounts, "amount_in must be strictly positive")
	}
	if p.AmountOut == nil || p.AmountOut.Sign() <= 0 {
		return reject(ReasonInvalidAmounts, "amount_out must be strictly positive")
	}

	return nil
}
