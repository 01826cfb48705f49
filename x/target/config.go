package target

import "time"

// Config holds execution-chain integration configuration.
type Config struct {
	// RPC endpoint of the chain node.
	RPCEndpoint string `mapstructure:"rpc_endpoint" yaml:"rpc_endpoint"`

	// SettlementContract is the hex address of the settlement contract.
	SettlementContract string `mapstructure:"settlement_contract" yaml:"settlement_contract"`

	// Chain configuration.
	ChainID       uint64 `mapstructure:"chain_id"      yaml:"chain_id"`
	Confirmations uint64 `mapstructure:"confirmations" yaml:"confirmations"`

	// GasLimitBufferPct pads the node's gas estimate in EstimateFee. This is
	// the target-side limit padding; the engine's fee buffer sizes the budget
	// it is willing to spend.
	GasLimitBufferPct uint64 `mapstructure:"gas_limit_buffer_pct" yaml:"gas_limit_buffer_pct"`

	// ReceiptPollInterval controls how often AwaitConfirmation polls.
	ReceiptPollInterval time.Duration `mapstructure:"receipt_poll_interval" yaml:"receipt_poll_interval"`

	// Signing configuration. RelayerPkHex is the relayer's private key.
	RelayerPkHex string `mapstructure:"relayer_pk_hex" yaml:"relayer_pk_hex" env:"TARGET_RELAYER_PK_HEX"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Confirmations:       2,
		GasLimitBufferPct:   20,
		ReceiptPollInterval: 3 * time.Second,
	}
}
