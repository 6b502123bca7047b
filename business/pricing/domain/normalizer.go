package domain

import (
	"math"
	"math/big"
)

// q96 is 2^96, the fixed-point scale of the square-root price encoding.
var q96 = new(big.Float).SetInt(new(big.Int).Lsh(big.NewInt(1), 96))

// Normalize converts a raw sqrt(price)*2^96 encoding into a directional
// decimal price and its reciprocal.
//
//	price = (raw / 2^96)^2 * 10^(baseDecimals - quoteDecimals)
//
// The division happens in big.Float before the square so a full uint160
// raw value cannot overflow an intermediate; the result is then carried
// in float64, which is enough precision for comparative (not
// settlement-grade) use.
//
// A zero raw price is valid input: it normalizes to price 0 with the
// reciprocal set to the +Inf undefined sentinel. Never NaN, never panics.
func Normalize(rawSqrtPrice *big.Int, baseDecimals, quoteDecimals int) (priceBaseInQuote, priceQuoteInBase float64) {
	if rawSqrtPrice == nil || rawSqrtPrice.Sign() == 0 {
		return 0, math.Inf(1)
	}

	sqrtPrice, _ := new(big.Float).Quo(new(big.Float).SetInt(rawSqrtPrice), q96).Float64()
	price := sqrtPrice * sqrtPrice * math.Pow(10, float64(baseDecimals-quoteDecimals))

	if price == 0 || math.IsNaN(price) {
		return 0, math.Inf(1)
	}
	return price, 1 / price
}

// PriceDifferencePercent returns the symmetric percentage difference
// between two prices, using their average as the denominator:
//
//	|a - b| / ((a + b) / 2) * 100
//
// Swapping operands yields the same value. Returns 0 when either price
// is zero, so an empty pool never fabricates a spread.
func PriceDifferencePercent(a, b float64) float64 {
	if a == 0 || b == 0 {
		return 0
	}
	avg := (a + b) / 2
	return math.Abs(a-b) / avg * 100
}
