package proof

import (
	"bytes"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

var (
	testAttester  = common.HexToAddress("0x5409ED021D9299bf6814279A6A1411A7e866A631")
	testSubmitter = common.HexToAddress("0x6Ecbe1DB9EF729CBe972C83Fb886247691Fb6beb")
)

func validProof(now time.Time) *Proof {
	return &Proof{
		ID:            common.HexToHash("0xaa11"),
		Submitter:     testSubmitter,
		AssetIn:       common.HexToAddress("0x01"),
		AssetOut:      common.HexToAddress("0x02"),
		AmountIn:      big.NewInt(1_000_000_000),
		AmountOut:     big.NewInt(385_000_000_000_000_000),
		ClearingPrice: big.NewInt(385),
		IssuedAt:      now.Add(-10 * time.Second),
		ExpiresAt:     now.Add(30 * time.Minute),
		Signature:     bytes.Repeat([]byte{0x42}, 65),
		Attester:      testAttester,
		BatchRoot:     common.HexToHash("0xbb22"),
	}
}

func TestValidateAccept(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	v := NewValidator(testAttester, 0)

	require.Nil(t, v.Validate(validProof(now), now))
}

func TestValidateUntrustedSigner(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	v := NewValidator(testAttester, 0)

	p := validProof(now)
	p.Attester = common.HexToAddress("0xdead")

	rej := v.Validate(p, now)
	require.NotNil(t, rej)
	require.Equal(t, ReasonUntrustedSigner, rej.Reason)
}

func TestValidateExpiredByAge(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	v := NewValidator(testAttester, 0)

	p := validProof(now)
	p.IssuedAt = now.Add(-4000 * time.Second)

	rej := v.Validate(p, now)
	require.NotNil(t, rej)
	require.Equal(t, ReasonExpired, rej.Reason)
}

func TestValidateExpiredByDeadline(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	v := NewValidator(testAttester, 0)

	p := validProof(now)
	p.ExpiresAt = now.Add(-time.Second)

	rej := v.Validate(p, now)
	require.NotNil(t, rej)
	require.Equal(t, ReasonExpired, rej.Reason)
}

func TestValidateMalformedSignature(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	v := NewValidator(testAttester, 0)

	p := validProof(now)
	p.Signature = p.Signature[:64]

	rej := v.Validate(p, now)
	require.NotNil(t, rej)
	require.Equal(t, ReasonMalformedSignature, rej.Reason)

	p.Signature = nil
	rej = v.Validate(p, now)
	require.NotNil(t, rej)
	require.Equal(t, ReasonMalformedSignature, rej.Reason)
}

func TestValidateInvalidAmounts(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	v := NewValidator(testAttester, 0)

	for _, mutate := range []func(*Proof){
		func(p *Proof) { p.AmountIn = big.NewInt(0) },
		func(p *Proof) { p.AmountIn = nil },
		func(p *Proof) { p.AmountOut = big.NewInt(-1) },
		func(p *Proof) { p.AmountOut = nil },
	} {
		p := validProof(now)
		mutate(p)

		rej := v.Validate(p, now)
		require.NotNil(t, rej)
		require.Equal(t, ReasonInvalidAmounts, rej.Reason)
	}
}

// Gates apply in a fixed order; a proof failing several rules reports the first.
func TestValidateGateOrder(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	v := NewValidator(testAttester, 0)

	p := validProof(now)
	p.Attester = common.HexToAddress("0xdead")
	p.IssuedAt = now.Add(-5000 * time.Second)
	p.Signature = nil
	p.AmountIn = nil

	rej := v.Validate(p, now)
	require.Equal(t, ReasonUntrustedSigner, rej.Reason)

	p.Attester = testAttester
	rej = v.Validate(p, now)
	require.Equal(t, ReasonExpired, rej.Reason)

	p.IssuedAt = now.Add(-time.Second)
	rej = v.Validate(p, now)
	require.Equal(t, ReasonMalformedSignature, rej.Reason)

	p.Signature = bytes.Repeat([]byte{1}, 65)
	rej = v.Validate(p, now)
	require.Equal(t, ReasonInvalidAmounts, rej.Reason)
}

func TestValidateDeterministic(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	v := NewValidator(testAttester, 0)
	p := validProof(now)
	p.IssuedAt = now.Add(-4000 * time.Second)

	first := v.Validate(p, now)
	for i := 0; i < 10; i++ {
		again := v.Validate(p, now)
		require.Equal(t, first.Reason, again.Reason)
	}
}
