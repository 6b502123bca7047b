// Package domain contains the core domain types for the pricing context.
package domain

import (
	"fmt"
	"math"
	"math/big"
	"time"
)

// PricePoint is a source's raw quote as read from the pool contract:
// the square-root price encoding plus the decimal metadata needed to
// turn it into a comparable price.
type PricePoint struct {
	SourceID      string
	RawSqrtPrice  *big.Int // sqrt(price) * 2^96, quote-per-base before decimal adjustment
	Tick          int
	BaseDecimals  int
	QuoteDecimals int
}

// NormalizedQuote is one source's price sample in comparable decimal form.
// Constructed once per fetch and never mutated.
type NormalizedQuote struct {
	SourceID         string
	PriceBaseInQuote float64  // quote units per base unit
	PriceQuoteInBase float64  // reciprocal; +Inf sentinel when the base price is zero
	LiquidityRaw     *big.Int // source-native units, not comparable across sources
	ObservedAt       time.Time
}

// NewNormalizedQuote normalizes a raw price point and pairs it with the
// pool's current liquidity.
func NewNormalizedQuote(point PricePoint, liquidity *big.Int, observedAt time.Time) *NormalizedQuote {
	price, inverse := Normalize(point.RawSqrtPrice, point.BaseDecimals, point.QuoteDecimals)
	if liquidity == nil {
		liquidity = new(big.Int)
	}
	return &NormalizedQuote{
		SourceID:         point.SourceID,
		PriceBaseInQuote: price,
		PriceQuoteInBase: inverse,
		LiquidityRaw:     new(big.Int).Set(liquidity),
		ObservedAt:       observedAt,
	}
}

// PriceDefined reports whether the base-in-quote price is usable for
// comparison: finite and strictly positive. A zero price (empty pool) is
// valid data but carries no tradeable signal.
func (q *NormalizedQuote) PriceDefined() bool {
	p := q.PriceBaseInQuote
	return p > 0 && !math.IsInf(p, 0) && !math.IsNaN(p)
}

// InverseDefined reports whether the quote-in-base reciprocal is a real
// number rather than the undefined sentinel.
func (q *NormalizedQuote) InverseDefined() bool {
	return !math.IsInf(q.PriceQuoteInBase, 0) && !math.IsNaN(q.PriceQuoteInBase)
}

// FetchOutcome is the result of one source fetch: either a normalized
// quote or a source-scoped failure. A batch of these is the unit the
// aggregator produces per cycle.
type FetchOutcome struct {
	SourceID string
	Quote    *NormalizedQuote
	Err      error
}

// Ok reports whether the fetch produced a quote.
func (o FetchOutcome) Ok() bool {
	return o.Err == nil && o.Quote != nil
}

// String renders the outcome for logs.
func (o FetchOutcome) String() string {
	if o.Ok() {
		return fmt.Sprintf("%s: %.6f", o.SourceID, o.Quote.PriceBaseInQuote)
	}
	return fmt.Sprintf("%s: failed (%v)", o.SourceID, o.Err)
}

// Pair identifies the priced asset pair. Price is always quote-per-base.
type Pair struct {
	Name          string
	BaseSymbol    string
	QuoteSymbol   string
	BaseDecimals  int
	QuoteDecimals int
}

// String returns the pair name (e.g. "ETH-USDC").
func (p Pair) String() string {
	if p.Name != "" {
		return p.Name
	}
	return p.BaseSymbol + "-" + p.QuoteSymbol
}
