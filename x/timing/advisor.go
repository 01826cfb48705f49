package timing

import (
	"fmt"
	"math/big"

	"github.com/rs/zerolog"

	"github.com/intent-network/relayer/x/proof"
)

// RiskTier classifies a candidate proof for the risk gate.
type RiskTier string

const (
	RiskLow    RiskTier = "low"
	RiskMedium RiskTier = "medium"
	// RiskHigh is reserved for future order-book/mempool heuristics; nothing
	// produces it today, but it is the only tier that blocks execution.
	RiskHigh RiskTier = "high"
)

// NetworkState is the live view of the execution target sampled once per cycle.
type NetworkState struct {
	FeePrice    *big.Int
	BlockHeight uint64
}

// Decision is the advisor's verdict for one proof under one network state.
// BlockHeight is carried through for observability and future heuristics.
type Decision struct {
	Execute     bool
	Reason      string
	Tier        RiskTier
	BlockHeight uint64
}

// Advisor decides whether now is an acceptable moment to submit a proof.
// It is stateless; every call evaluates the gates fresh.
type Advisor struct {
	cfg        Config
	largeTrade *big.Int
	log        zerolog.Logger
}

// NewAdvisor builds an advisor with the given policy config. An unparsable
// threshold is a configuration error; validate the config before wiring.
func NewAdvisor(cfg Config, log zerolog.Logger) *Advisor {
	threshold, err := cfg.largeTradeThreshold()
	if err != nil {
		threshold, _ = new(big.Int).SetString(DefaultLargeTradeThreshold, 10)
	}
	return &Advisor{
		cfg:        cfg,
		largeTrade: threshold,
		log:        log.With().Str("component", "timing-advisor").Logger(),
	}
}

// ShouldExecuteNow evaluates the fee-price, risk and block-position gates.
// All gates must pass; a failing gate defers, never rejects.
func (a *Advisor) ShouldExecuteNow(p *proof.Proof, net NetworkState) Decision {
	d := Decision{BlockHeight: net.BlockHeight, Tier: RiskLow}

	ceiling := new(big.Int).SetUint64(a.cfg.FeeCeiling)
	if net.FeePrice != nil && net.FeePrice.Cmp(ceiling) > 0 {
		d.Reason = fmt.Sprintf("fee price %s above ceiling %d", net.FeePrice, a.cfg.FeeCeiling)
		a.log.Debug().
			Str("proof_id", p.ID.Hex()).
			Str("fee_price", net.FeePrice.String()).
			Uint64("fee_ceiling", a.cfg.FeeCeiling).
			Uint64("block_height", net.BlockHeight).
			Msg("deferring: fee price above ceiling")
		return d
	}

	if a.cfg.RiskGateEnabled {
		d.Tier = a.classify(p)
		if d.Tier == RiskHigh {
			d.Reason = "risk tier high"
			a.log.Debug().
				Str("proof_id", p.ID.Hex()).
				Str("risk_tier", string(d.Tier)).
				Uint64("block_height", net.BlockHeight).
				Msg("deferring: risk gate")
			return d
		}
	}

	d.Execute = true
	return d
}

// classify maps the proof's input amount onto a risk tier. Amounts above the
// large-trade threshold are medium risk; medium still passes the gate.
func (a *Advisor) classify(p *proof.Proof) RiskTier {
	if p.AmountIn != nil && p.AmountIn.Cmp(a.largeTrade) > 0 {
		return RiskMedium
	}
	return RiskLow
}
