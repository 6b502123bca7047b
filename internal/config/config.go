// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	pricingDomain "github.com/mgodoy/arb-scout/business/pricing/domain"
)

// Config holds all application configuration.
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Ethereum    EthereumConfig    `mapstructure:"ethereum"`
	Pairs       []PairConfig      `mapstructure:"pairs"`
	Arbitrage   ArbitrageConfig   `mapstructure:"arbitrage"`
	Retry       RetryConfig       `mapstructure:"retry"`
	Diagnostics DiagnosticsConfig `mapstructure:"diagnostics"`
	Telemetry   TelemetryConfig   `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// EthereumConfig holds Ethereum node configuration.
type EthereumConfig struct {
	HTTPURL      string  `mapstructure:"http_url"`
	ChainID      uint64  `mapstructure:"chain_id"`
	RPCRateLimit float64 `mapstructure:"rpc_rate_limit"` // requests per second
	RPCBurst     int     `mapstructure:"rpc_burst"`
}

// SourceConfig describes one liquidity source of a pair.
type SourceConfig struct {
	ID          string `mapstructure:"id"`
	PoolAddress string `mapstructure:"pool_address"`
	FeeTier     int    `mapstructure:"fee_tier"`
}

// PairConfig describes a priced pair and its sources.
type PairConfig struct {
	Name          string         `mapstructure:"name"`
	BaseSymbol    string         `mapstructure:"base_symbol"`
	QuoteSymbol   string         `mapstructure:"quote_symbol"`
	BaseDecimals  int            `mapstructure:"base_decimals"`
	QuoteDecimals int            `mapstructure:"quote_decimals"`
	Sources       []SourceConfig `mapstructure:"sources"`
}

// Pair converts to the pricing domain type.
func (c *PairConfig) Pair() pricingDomain.Pair {
	return pricingDomain.Pair{
		Name:          c.Name,
		BaseSymbol:    c.BaseSymbol,
		QuoteSymbol:   c.QuoteSymbol,
		BaseDecimals:  c.BaseDecimals,
		QuoteDecimals: c.QuoteDecimals,
	}
}

// DomainSources converts the source descriptors to domain types.
func (c *PairConfig) DomainSources() []pricingDomain.Source {
	sources := make([]pricingDomain.Source, len(c.Sources))
	for i, s := range c.Sources {
		sources[i] = pricingDomain.Source{
			ID:      s.ID,
			Pool:    common.HexToAddress(s.PoolAddress),
			FeeTier: s.FeeTier,
		}
	}
	return sources
}

// ArbitrageConfig holds detection thresholds and the execution model.
type ArbitrageConfig struct {
	MinPriceDiffPercent float64       `mapstructure:"min_price_diff_percent"`
	TradeSize           float64       `mapstructure:"trade_size"`
	SlippagePercent     float64       `mapstructure:"slippage_percent"`
	MinProfitThreshold  float64       `mapstructure:"min_profit_threshold"`
	ScanInterval        time.Duration `mapstructure:"scan_interval"`
	SwapGasLimit        uint64        `mapstructure:"swap_gas_limit"`
}

// TradeSizeDecimal returns the trade size as decimal.Decimal.
func (c *ArbitrageConfig) TradeSizeDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.TradeSize)
}

// SlippagePercentDecimal returns the slippage tolerance as decimal.Decimal.
func (c *ArbitrageConfig) SlippagePercentDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.SlippagePercent)
}

// MinProfitThresholdDecimal returns the profit floor as decimal.Decimal.
func (c *ArbitrageConfig) MinProfitThresholdDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.MinProfitThreshold)
}

// RetryConfig holds the retry policy for wrapped fetches.
type RetryConfig struct {
	MaxRetries         int           `mapstructure:"max_retries"`
	BaseDelay          time.Duration `mapstructure:"base_delay"`
	ExponentialBackoff bool          `mapstructure:"exponential_backoff"`
}

// DiagnosticsConfig holds the rolling failure history settings.
type DiagnosticsConfig struct {
	HistoryCap int `mapstructure:"history_cap"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
	HealthPort     int    `mapstructure:"health_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("ARBSCOUT")
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// No config file: env vars and defaults apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	v.BindEnv("app.name", "ARBSCOUT_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "ARBSCOUT_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "ARBSCOUT_LOG_LEVEL", "LOG_LEVEL")

	v.BindEnv("ethereum.http_url", "ARBSCOUT_ETH_HTTP_URL", "ETH_HTTP_URL")
	v.BindEnv("ethereum.chain_id", "ARBSCOUT_ETH_CHAIN_ID", "ETH_CHAIN_ID")

	v.BindEnv("arbitrage.min_price_diff_percent", "ARBSCOUT_MIN_PRICE_DIFF_PERCENT")
	v.BindEnv("arbitrage.trade_size", "ARBSCOUT_TRADE_SIZE")
	v.BindEnv("arbitrage.min_profit_threshold", "ARBSCOUT_MIN_PROFIT_THRESHOLD")
	v.BindEnv("arbitrage.scan_interval", "ARBSCOUT_SCAN_INTERVAL")

	v.BindEnv("telemetry.enabled", "ARBSCOUT_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "ARBSCOUT_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "ARBSCOUT_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "arb-scout")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("ethereum.chain_id", 1)
	v.SetDefault("ethereum.rpc_rate_limit", 10.0)
	v.SetDefault("ethereum.rpc_burst", 20)

	v.SetDefault("arbitrage.min_price_diff_percent", 0.1)
	v.SetDefault("arbitrage.trade_size", 1.0)
	v.SetDefault("arbitrage.slippage_percent", 0.5)
	v.SetDefault("arbitrage.min_profit_threshold", 1.0)
	v.SetDefault("arbitrage.scan_interval", "15s")
	v.SetDefault("arbitrage.swap_gas_limit", 150000)

	v.SetDefault("retry.max_retries", 3)
	v.SetDefault("retry.base_delay", "1s")
	v.SetDefault("retry.exponential_backoff", true)

	v.SetDefault("diagnostics.history_cap", 100)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "arb-scout")
	v.SetDefault("telemetry.prometheus_port", 9090)
	v.SetDefault("telemetry.health_port", 8081)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Ethereum.HTTPURL == "" {
		return fmt.Errorf("ethereum.http_url is required")
	}
	if len(c.Pairs) == 0 {
		return fmt.Errorf("at least one pair must be configured")
	}

	for _, pair := range c.Pairs {
		if pair.Name == "" {
			return fmt.Errorf("pair name is required")
		}
		if pair.BaseDecimals < 0 || pair.QuoteDecimals < 0 {
			return fmt.Errorf("pair %s: decimals must be non-negative", pair.Name)
		}
		for _, src := range pair.Sources {
			if src.ID == "" {
				return fmt.Errorf("pair %s: source id is required", pair.Name)
			}
			if !common.IsHexAddress(src.PoolAddress) {
				return fmt.Errorf("pair %s source %s: invalid pool_address %q",
					pair.Name, src.ID, src.PoolAddress)
			}
		}
	}

	if c.Arbitrage.TradeSize <= 0 {
		return fmt.Errorf("arbitrage.trade_size must be positive")
	}
	if c.Arbitrage.SlippagePercent < 0 {
		return fmt.Errorf("arbitrage.slippage_percent must be non-negative")
	}
	if c.Arbitrage.ScanInterval <= 0 {
		return fmt.Errorf("arbitrage.scan_interval must be positive")
	}
	if c.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry.max_retries must be non-negative")
	}

	return nil
}
