// Package domain contains the core domain types for the arbitrage context.
package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	pricingDomain "github.com/mgodoy/arb-scout/business/pricing/domain"
)

// Recommendation classifies the outcome of one analysis cycle.
type Recommendation string

const (
	// NoTradeBelowThreshold: the price spread never cleared the minimum
	// difference threshold.
	NoTradeBelowThreshold Recommendation = "no_trade_below_threshold"

	// NoTradeUnprofitableAfterCost: the spread cleared the threshold but
	// slippage and two-leg cost eat the profit.
	NoTradeUnprofitableAfterCost Recommendation = "no_trade_unprofitable_after_cost"

	// Profitable: the spread cleared the threshold and the modeled net
	// profit exceeds the configured floor.
	Profitable Recommendation = "profitable"
)

// Direction names the buy and sell venues of an opportunity.
type Direction struct {
	BuyFrom   string
	BuyPrice  float64
	SellTo    string
	SellPrice float64
}

// String renders the direction for logs and reports.
func (d Direction) String() string {
	return fmt.Sprintf("buy on %s @ %.6f, sell on %s @ %.6f", d.BuyFrom, d.BuyPrice, d.SellTo, d.SellPrice)
}

// Profit is the modeled economics of executing the round trip, in quote
// units.
type Profit struct {
	Gross                 decimal.Decimal
	TotalCost             decimal.Decimal // two legs of transaction cost
	Net                   decimal.Decimal
	IsProfitableAfterCost bool
}

// Analysis is the derived report of one detection cycle. Opportunity
// existence and post-cost profitability are independent flags, never
// conflated: a spread can clear the threshold yet lose money after cost.
type Analysis struct {
	Pair             string
	HasOpportunity   bool
	Direction        *Direction
	PriceDiffPercent float64
	Profit           *Profit
	Recommendation   Recommendation
	Outcomes         []pricingDomain.FetchOutcome
	ValidSources     int
	Reason           string
	GeneratedAt      time.Time
}

// Summary renders a one-line description of the analysis.
func (a *Analysis) Summary() string {
	if !a.HasOpportunity {
		return fmt.Sprintf("%s: no opportunity (%s)", a.Pair, a.Reason)
	}
	net := "n/a"
	if a.Profit != nil {
		net = a.Profit.Net.StringFixed(4)
	}
	return fmt.Sprintf("%s: %.4f%% spread, %s, net %s", a.Pair, a.PriceDiffPercent, a.Direction, net)
}
