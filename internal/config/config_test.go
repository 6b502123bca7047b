package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const validYAML = `
ethereum:
  http_url: "https://eth.example.org"
pairs:
  - name: "ETH-USDC"
    base_symbol: "ETH"
    quote_symbol: "USDC"
    base_decimals: 18
    quote_decimals: 6
    sources:
      - id: "uniswap-3000"
        pool_address: "0x8ad599c3A0ff1De082011EFDDc58f1908eb6e6D8"
        fee_tier: 3000
      - id: "uniswap-500"
        pool_address: "0x88e6A0c2dDD26FEEb64F039a2c41296FcB3f5640"
        fee_tier: 500
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Ethereum.HTTPURL != "https://eth.example.org" {
		t.Errorf("HTTPURL = %q", cfg.Ethereum.HTTPURL)
	}
	if len(cfg.Pairs) != 1 {
		t.Fatalf("pairs = %d, want 1", len(cfg.Pairs))
	}
	if got := len(cfg.Pairs[0].Sources); got != 2 {
		t.Errorf("sources = %d, want 2", got)
	}

	// Defaults fill unset sections.
	if cfg.Arbitrage.MinPriceDiffPercent != 0.1 {
		t.Errorf("MinPriceDiffPercent = %v, want 0.1", cfg.Arbitrage.MinPriceDiffPercent)
	}
	if cfg.Arbitrage.ScanInterval != 15*time.Second {
		t.Errorf("ScanInterval = %v, want 15s", cfg.Arbitrage.ScanInterval)
	}
	if cfg.Retry.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.Retry.MaxRetries)
	}
	if !cfg.Retry.ExponentialBackoff {
		t.Error("ExponentialBackoff = false, want true")
	}
	if cfg.Diagnostics.HistoryCap != 100 {
		t.Errorf("HistoryCap = %d, want 100", cfg.Diagnostics.HistoryCap)
	}
}

func TestLoad_DomainConversion(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	pair := cfg.Pairs[0].Pair()
	if pair.BaseDecimals != 18 || pair.QuoteDecimals != 6 {
		t.Errorf("decimals = %d/%d, want 18/6", pair.BaseDecimals, pair.QuoteDecimals)
	}

	sources := cfg.Pairs[0].DomainSources()
	if len(sources) != 2 {
		t.Fatalf("sources = %d, want 2", len(sources))
	}
	if sources[0].ID != "uniswap-3000" {
		t.Errorf("source id = %s", sources[0].ID)
	}
	if sources[0].Pool.Hex() == "0x0000000000000000000000000000000000000000" {
		t.Error("pool address parsed as zero")
	}
}

func TestLoad_MissingHTTPURL(t *testing.T) {
	yaml := `
pairs:
  - name: "ETH-USDC"
    sources: []
`
	if _, err := Load(writeConfig(t, yaml)); err == nil {
		t.Fatal("expected error for missing ethereum.http_url")
	}
}

func TestLoad_InvalidPoolAddress(t *testing.T) {
	yaml := `
ethereum:
  http_url: "https://eth.example.org"
pairs:
  - name: "ETH-USDC"
    sources:
      - id: "bad"
        pool_address: "not-an-address"
`
	if _, err := Load(writeConfig(t, yaml)); err == nil {
		t.Fatal("expected error for invalid pool address")
	}
}

func TestLoad_NoPairs(t *testing.T) {
	yaml := `
ethereum:
  http_url: "https://eth.example.org"
`
	if _, err := Load(writeConfig(t, yaml)); err == nil {
		t.Fatal("expected error for empty pair list")
	}
}

func TestArbitrageConfig_DecimalAccessors(t *testing.T) {
	cfg := ArbitrageConfig{TradeSize: 1.5, SlippagePercent: 0.5, MinProfitThreshold: 2}

	if got := cfg.TradeSizeDecimal().String(); got != "1.5" {
		t.Errorf("TradeSizeDecimal = %s, want 1.5", got)
	}
	if got := cfg.SlippagePercentDecimal().String(); got != "0.5" {
		t.Errorf("SlippagePercentDecimal = %s, want 0.5", got)
	}
	if got := cfg.MinProfitThresholdDecimal().String(); got != "2" {
		t.Errorf("MinProfitThresholdDecimal = %s, want 2", got)
	}
}
