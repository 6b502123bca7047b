// Package domain contains the core domain types for the blockchain context.
package domain

import (
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// GasPrice represents network fee information at a point in time.
type GasPrice struct {
	Wei       *big.Int
	Gwei      float64
	FetchedAt time.Time
}

// NewGasPrice creates a GasPrice from wei.
func NewGasPrice(wei *big.Int) *GasPrice {
	gwei := new(big.Float).SetInt(wei)
	gwei.Quo(gwei, big.NewFloat(1e9))
	gweiFloat, _ := gwei.Float64()

	return &GasPrice{
		Wei:       new(big.Int).Set(wei),
		Gwei:      gweiFloat,
		FetchedAt: time.Now(),
	}
}

// LegCost is the modeled transaction cost of one arbitrage leg,
// expressed both in the native token and converted to the pair's quote
// asset at the given native price.
type LegCost struct {
	GasLimit uint64
	GasPrice *GasPrice
	TotalWei *big.Int
	Native   decimal.Decimal
	Quote    decimal.Decimal
}

// NewLegCost computes the cost of one leg: gasLimit * gasPrice in wei,
// converted to native units and then to quote units. A round trip pays
// this twice.
func NewLegCost(gasLimit uint64, price *GasPrice, nativePriceInQuote decimal.Decimal) *LegCost {
	totalWei := new(big.Int).Mul(price.Wei, new(big.Int).SetUint64(gasLimit))

	weiPerNative := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	nativeFloat := new(big.Float).Quo(
		new(big.Float).SetInt(totalWei),
		new(big.Float).SetInt(weiPerNative),
	)
	native, _ := decimal.NewFromString(nativeFloat.Text('f', 18))

	return &LegCost{
		GasLimit: gasLimit,
		GasPrice: price,
		TotalWei: totalWei,
		Native:   native,
		Quote:    native.Mul(nativePriceInQuote),
	}
}
