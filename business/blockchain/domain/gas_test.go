package domain

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewGasPrice(t *testing.T) {
	wei := big.NewInt(30_000_000_000) // 30 gwei
	price := NewGasPrice(wei)

	if price.Gwei != 30 {
		t.Errorf("Gwei = %v, want 30", price.Gwei)
	}
	if price.Wei.Cmp(wei) != 0 {
		t.Errorf("Wei = %s, want %s", price.Wei, wei)
	}

	// Defensive copy: mutating the input must not change the price.
	wei.SetInt64(1)
	if price.Wei.Cmp(big.NewInt(30_000_000_000)) != 0 {
		t.Error("GasPrice shares memory with its input")
	}
}

func TestNewLegCost(t *testing.T) {
	price := NewGasPrice(big.NewInt(30_000_000_000)) // 30 gwei
	nativePrice := decimal.NewFromInt(3000)          // 3000 quote per native

	cost := NewLegCost(150_000, price, nativePrice)

	// 150000 * 30 gwei = 0.0045 native
	wantNative := decimal.NewFromFloat(0.0045)
	if !cost.Native.Equal(wantNative) {
		t.Errorf("Native = %s, want %s", cost.Native, wantNative)
	}
	// 0.0045 * 3000 = 13.5 quote
	wantQuote := decimal.NewFromFloat(13.5)
	if !cost.Quote.Equal(wantQuote) {
		t.Errorf("Quote = %s, want %s", cost.Quote, wantQuote)
	}

	wantWei := new(big.Int).Mul(big.NewInt(30_000_000_000), big.NewInt(150_000))
	if cost.TotalWei.Cmp(wantWei) != 0 {
		t.Errorf("TotalWei = %s, want %s", cost.TotalWei, wantWei)
	}
}

func TestNewLegCost_ZeroGasPrice(t *testing.T) {
	price := NewGasPrice(big.NewInt(0))
	cost := NewLegCost(150_000, price, decimal.NewFromInt(3000))

	if !cost.Quote.IsZero() {
		t.Errorf("Quote = %s, want 0", cost.Quote)
	}
}
