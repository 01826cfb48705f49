package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/intent-network/relayer/x/agent"
	"github.com/intent-network/relayer/x/source"
	"github.com/intent-network/relayer/x/target"
	"github.com/intent-network/relayer/x/timing"
)

// Config holds the complete application configuration
type Config struct {
	Agent   agent.Config    `mapstructure:"agent"   yaml:"agent"`
	Source  source.Config   `mapstructure:"source"  yaml:"source"`
	Target  target.Config   `mapstructure:"target"  yaml:"target"`
	API     APIServerConfig `mapstructure:"api"     yaml:"api"`
	Metrics MetricsConfig   `mapstructure:"metrics" yaml:"metrics"`
	Log     LogConfig       `mapstructure:"log"     yaml:"log"`
}

// APIServerConfig holds HTTP API server configuration
type APIServerConfig struct {
	ListenAddr        string        `mapstructure:"listen_addr"         yaml:"listen_addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"        yaml:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"       yaml:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"        yaml:"idle_timeout"`
	MaxHeaderBytes    int           `mapstructure:"max_header_bytes"    yaml:"max_header_bytes"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled" env:"METRICS_ENABLED"`
	Path    string `mapstructure:"path"    yaml:"path"    env:"METRICS_PATH"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"  env:"LOG_LEVEL"`
	Pretty bool   `mapstructure:"pretty" yaml:"pretty" env:"LOG_PRETTY"`
}

// Load loads configuration from file and environment
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Fallback env aliases for secrets and endpoints commonly set directly
	if strings.TrimSpace(cfg.Target.RPCEndpoint) == "" {
		if v := strings.TrimSpace(os.Getenv("TARGET_RPC_ENDPOINT")); v != "" {
			cfg.Target.RPCEndpoint = v
		}
	}
	if strings.TrimSpace(cfg.Target.RelayerPkHex) == "" {
		if v := strings.TrimSpace(os.Getenv("TARGET_RELAYER_PK_HEX")); v != "" {
			cfg.Target.RelayerPkHex = v
		}
	}
	if strings.TrimSpace(cfg.Source.BaseURL) == "" {
		if v := strings.TrimSpace(os.Getenv("SOURCE_BASE_URL")); v != "" {
			cfg.Source.BaseURL = v
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("agent.trusted_attester", "")
	v.SetDefault("agent.max_proof_age", "1h")
	v.SetDefault("agent.poll_interval", "10s")
	v.SetDefault("agent.timing.fee_ceiling", 50)
	v.SetDefault("agent.timing.risk_gate_enabled", true)
	v.SetDefault("agent.timing.large_trade_threshold", timing.DefaultLargeTradeThreshold)
	v.SetDefault("agent.engine.fee_buffer_pct", 20)
	v.SetDefault("agent.engine.validity_window", "5m")

	v.SetDefault("source.base_url", "")
	v.SetDefault("source.request_timeout", "30s")

	v.SetDefault("target.rpc_endpoint", "")
	v.SetDefault("target.settlement_contract", "")
	v.SetDefault("target.chain_id", 0)
	v.SetDefault("target.confirmations", 2)
	v.SetDefault("target.gas_limit_buffer_pct", 20)
	v.SetDefault("target.receipt_poll_interval", "3s")
	v.SetDefault("target.relayer_pk_hex", "")

	// API defaults (separate HTTP API server)
	v.SetDefault("api.listen_addr", ":8081")
	v.SetDefault("api.read_header_timeout", "5s")
	v.SetDefault("api.read_timeout", "15s")
	v.SetDefault("api.write_timeout", "30s")
	v.SetDefault("api.idle_timeout", "120s")
	v.SetDefault("api.max_header_bytes", 1048576)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Agent.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Source.BaseURL) == "" {
		return fmt.Errorf("source.base_url is required")
	}
	if strings.TrimSpace(c.Target.RPCEndpoint) == "" {
		return fmt.Errorf("target.rpc_endpoint is required")
	}
	if strings.TrimSpace(c.Target.SettlementContract) == "" {
		return fmt.Errorf("target.settlement_contract is required")
	}
	if strings.TrimSpace(c.Target.RelayerPkHex) == "" {
		return fmt.Errorf("target.relayer_pk_hex is required")
	}
	if strings.TrimSpace(c.API.ListenAddr) == "" {
		return fmt.Errorf("api.listen_addr is required")
	}
	return nil
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Agent:  agent.DefaultConfig(),
		Source: source.DefaultConfig(),
		Target: target.DefaultConfig(),
		API: APIServerConfig{
			ListenAddr:        ":8081",
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Log: LogConfig{
			Level:  "info",
			Pretty: false,
		},
	}
}
