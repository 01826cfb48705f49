package agent

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/intent-network/relayer/x/engine"
	"github.com/intent-network/relayer/x/proof"
	"github.com/intent-network/relayer/x/timing"
)

// Config aggregates configuration for the relay agent and its components.
type Config struct {
	// TrustedAttester is the hex address of the attesting identity whose
	// proofs the agent will admit.
	TrustedAttester string `mapstructure:"trusted_attester" yaml:"trusted_attester"`

	// MaxProofAge bounds how long after issuance a proof is still accepted.
	MaxProofAge time.Duration `mapstructure:"max_proof_age" yaml:"max_proof_age"`

	// PollInterval is the cadence of the agent's poll cycle.
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`

	Timing timing.Config `mapstructure:"timing" yaml:"timing"`
	Engine engine.Config `mapstructure:"engine" yaml:"engine"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		MaxProofAge:  proof.DefaultMaxProofAge,
		PollInterval: 10 * time.Second,
		Timing:       timing.DefaultConfig(),
		Engine:       engine.DefaultConfig(),
	}
}

// Validate checks the agent configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.TrustedAttester) == "" {
		return fmt.Errorf("agent.trusted_attester is required")
	}
	if !common.IsHexAddress(c.TrustedAttester) {
		return fmt.Errorf("agent.trusted_attester %q is not a valid address", c.TrustedAttester)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("agent.poll_interval must be positive")
	}
	if c.MaxProofAge <= 0 {
		return fmt.Errorf("agent.max_proof_age must be positive")
	}
	if err := c.Timing.Validate(); err != nil {
		return err
	}
	return nil
}
