package proof

import "fmt"

// RejectReason classifies why a proof was rejected by the validator.
// Rejections are terminal: a rejected proof identifier is never retried.
type RejectReason string

const (
	ReasonUntrustedSigner    RejectReason = "untrusted_signer"
	ReasonExpired            RejectReason = "expired"
	ReasonMalformedSignature RejectReason = "malformed_signature"
	ReasonInvalidAmounts     RejectReason = "invalid_amounts"
)

// RejectionError is returned by Validator.Validate when a proof fails a gate.
type RejectionError struct {
	Reason RejectReason
	Detail string
}

func (e *RejectionError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("proof rejected: %s", e.Reason)
	}
	return fmt.Sprintf("proof rejected: %s: %s", e.Reason, e.Detail)
}

func reject(reason RejectReason, format string, args ...any) *RejectionError {
	return &RejectionError{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}
