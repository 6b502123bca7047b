package app

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mgodoy/arb-scout/business/arbitrage/domain"
	pricingDomain "github.com/mgodoy/arb-scout/business/pricing/domain"
)

// DetectorConfig holds the detection thresholds and execution model
// parameters. Money values are quote-denominated.
type DetectorConfig struct {
	MinPriceDiffPercent float64
	TradeSize           decimal.Decimal // in base units
	SlippagePercent     decimal.Decimal
	MinProfitThreshold  decimal.Decimal
}

// Detector finds the best buy/sell pair among a cycle's quotes and
// models round-trip profitability. Analyze is a pure function of its
// inputs plus the wall clock; it never retries and never errors on thin
// data.
type Detector struct {
	config DetectorConfig
}

// NewDetector creates a Detector with the given thresholds.
func NewDetector(config DetectorConfig) *Detector {
	return &Detector{config: config}
}

// Analyze classifies one cycle of outcomes for a pair. costPerLeg is
// the quote-denominated transaction cost of a single leg; the round
// trip pays it twice.
func (d *Detector) Analyze(pair string, outcomes []pricingDomain.FetchOutcome, costPerLeg decimal.Decimal) *domain.Analysis {
	analysis := &domain.Analysis{
		Pair:           pair,
		Outcomes:       outcomes,
		Recommendation: domain.NoTradeBelowThreshold,
		GeneratedAt:    time.Now(),
	}

	var valid []pricingDomain.FetchOutcome
	for _, o := range outcomes {
		if o.Ok() && o.Quote.PriceDefined() {
			valid = append(valid, o)
		}
	}
	analysis.ValidSources = len(valid)

	// Thin data is a normal negative result, not a failure.
	if len(valid) < 2 {
		analysis.Reason = fmt.Sprintf("insufficient data: %d valid quote(s), need 2", len(valid))
		return analysis
	}

	buy, sell := valid[0], valid[0]
	for _, o := range valid[1:] {
		if o.Quote.PriceBaseInQuote < buy.Quote.PriceBaseInQuote {
			buy = o
		}
		if o.Quote.PriceBaseInQuote > sell.Quote.PriceBaseInQuote {
			sell = o
		}
	}

	if buy.SourceID == sell.SourceID {
		analysis.Reason = "all sources report a single effective price"
		return analysis
	}

	buyPrice := buy.Quote.PriceBaseInQuote
	sellPrice := sell.Quote.PriceBaseInQuote

	analysis.PriceDiffPercent = pricingDomain.PriceDifferencePercent(buyPrice, sellPrice)
	analysis.Direction = &domain.Direction{
		BuyFrom:   buy.SourceID,
		BuyPrice:  buyPrice,
		SellTo:    sell.SourceID,
		SellPrice: sellPrice,
	}

	// Slippage moves both legs against us; cost is paid once per leg.
	one := decimal.NewFromInt(1)
	slip := d.config.SlippagePercent.Div(decimal.NewFromInt(100))
	effectiveBuy := decimal.NewFromFloat(buyPrice).Mul(one.Add(slip))
	effectiveSell := decimal.NewFromFloat(sellPrice).Mul(one.Sub(slip))

	gross := d.config.TradeSize.Mul(effectiveSell.Sub(effectiveBuy))
	totalCost := costPerLeg.Mul(decimal.NewFromInt(2))
	net := gross.Sub(totalCost)

	analysis.Profit = &domain.Profit{
		Gross:                 gross,
		TotalCost:             totalCost,
		Net:                   net,
		IsProfitableAfterCost: net.GreaterThan(d.config.MinProfitThreshold),
	}

	analysis.HasOpportunity = analysis.PriceDiffPercent >= d.config.MinPriceDiffPercent

	switch {
	case !analysis.HasOpportunity:
		analysis.Recommendation = domain.NoTradeBelowThreshold
		analysis.Reason = fmt.Sprintf("price difference %.4f%% below threshold %.4f%%",
			analysis.PriceDiffPercent, d.config.MinPriceDiffPercent)
	case !analysis.Profit.IsProfitableAfterCost:
		analysis.Recommendation = domain.NoTradeUnprofitableAfterCost
		analysis.Reason = fmt.Sprintf("net profit %s below floor %s after slippage and cost",
			net.StringFixed(6), d.config.MinProfitThreshold.StringFixed(6))
	default:
		analysis.Recommendation = domain.Profitable
	}

	return analysis
}
