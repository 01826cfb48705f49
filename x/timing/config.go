package timing

import (
	"fmt"
	"math/big"
	"strings"
)

// DefaultLargeTradeThreshold is the medium-risk cutoff in reference quote units.
const DefaultLargeTradeThreshold = "10000"

// Config holds timing-policy tunables.
type Config struct {
	// FeeCeiling is the maximum acceptable network fee price, in the network's
	// native fee-price unit. Submission is deferred while the live price is above it.
	FeeCeiling uint64 `mapstructure:"fee_ceiling" yaml:"fee_ceiling"`

	// RiskGateEnabled toggles risk-tier classification of candidate proofs.
	RiskGateEnabled bool `mapstructure:"risk_gate_enabled" yaml:"risk_gate_enabled"`

	// LargeTradeThreshold classifies input amounts above it as medium risk,
	// expressed as a decimal string in units of the reference quote asset.
	LargeTradeThreshold string `mapstructure:"large_trade_threshold" yaml:"large_trade_threshold"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		FeeCeiling:          50,
		RiskGateEnabled:     true,
		LargeTradeThreshold: DefaultLargeTradeThreshold,
	}
}

// Validate checks the timing configuration.
func (c *Config) Validate() error {
	if _, err := c.largeTradeThreshold(); err != nil {
		return err
	}
	return nil
}

// largeTradeThreshold parses the threshold string. An empty value falls back
// to the default.
func (c *Config) largeTradeThreshold() (*big.Int, error) {
	raw := strings.TrimSpace(c.LargeTradeThreshold)
	if raw == "" {
		raw = DefaultLargeTradeThreshold
	}
	v, ok := new(big.Int).SetString(raw, 10)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("timing.large_trade_threshold %q is not a non-negative decimal", c.LargeTradeThreshold)
	}
	return v, nil
}
