package app

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mgodoy/arb-scout/business/arbitrage/domain"
	pricingDomain "github.com/mgodoy/arb-scout/business/pricing/domain"
	"github.com/mgodoy/arb-scout/internal/apperror"
)

func quoteOutcome(sourceID string, price float64) pricingDomain.FetchOutcome {
	inverse := 0.0
	if price != 0 {
		inverse = 1 / price
	}
	return pricingDomain.FetchOutcome{
		SourceID: sourceID,
		Quote: &pricingDomain.NormalizedQuote{
			SourceID:         sourceID,
			PriceBaseInQuote: price,
			PriceQuoteInBase: inverse,
		},
	}
}

func failedOutcome(sourceID string) pricingDomain.FetchOutcome {
	return pricingDomain.FetchOutcome{
		SourceID: sourceID,
		Err:      apperror.New(apperror.CodeRPCTimeout),
	}
}

func defaultDetector() *Detector {
	return NewDetector(DetectorConfig{
		MinPriceDiffPercent: 0.1,
		TradeSize:           decimal.NewFromInt(1),
		SlippagePercent:     decimal.Zero,
		MinProfitThreshold:  decimal.NewFromInt(1),
	})
}

func TestAnalyze_ProfitableSpread(t *testing.T) {
	detector := defaultDetector()
	outcomes := []pricingDomain.FetchOutcome{
		quoteOutcome("A", 3000),
		quoteOutcome("B", 3030),
	}

	analysis := detector.Analyze("ETH-USDC", outcomes, decimal.NewFromFloat(0.01))

	if !analysis.HasOpportunity {
		t.Error("HasOpportunity = false, want true")
	}
	if analysis.Direction.BuyFrom != "A" || analysis.Direction.SellTo != "B" {
		t.Errorf("direction = %s, want buy A sell B", analysis.Direction)
	}
	if analysis.ValidSources != 2 {
		t.Errorf("ValidSources = %d, want 2", analysis.ValidSources)
	}

	wantGross := decimal.NewFromInt(30)
	if !analysis.Profit.Gross.Equal(wantGross) {
		t.Errorf("Gross = %s, want %s", analysis.Profit.Gross, wantGross)
	}
	wantNet := decimal.NewFromFloat(29.98)
	if !analysis.Profit.Net.Equal(wantNet) {
		t.Errorf("Net = %s, want %s", analysis.Profit.Net, wantNet)
	}
	if !analysis.Profit.IsProfitableAfterCost {
		t.Error("IsProfitableAfterCost = false, want true")
	}
	if analysis.Recommendation != domain.Profitable {
		t.Errorf("Recommendation = %s, want %s", analysis.Recommendation, domain.Profitable)
	}
}

func TestAnalyze_BelowThreshold(t *testing.T) {
	detector := defaultDetector()
	outcomes := []pricingDomain.FetchOutcome{
		quoteOutcome("A", 3000),
		quoteOutcome("B", 3001),
	}

	analysis := detector.Analyze("ETH-USDC", outcomes, decimal.NewFromFloat(0.01))

	// diff = 1 / 3000.5 * 100 ~= 0.0333% < 0.1%
	if analysis.HasOpportunity {
		t.Error("HasOpportunity = true, want false")
	}
	if analysis.PriceDiffPercent > 0.04 || analysis.PriceDiffPercent < 0.03 {
		t.Errorf("PriceDiffPercent = %v, want ~0.0333", analysis.PriceDiffPercent)
	}
	if analysis.Recommendation != domain.NoTradeBelowThreshold {
		t.Errorf("Recommendation = %s, want %s", analysis.Recommendation, domain.NoTradeBelowThreshold)
	}
	// Economics are still reported even without an opportunity.
	if analysis.Profit == nil {
		t.Fatal("Profit not populated")
	}
}

func TestAnalyze_UnprofitableAfterCost(t *testing.T) {
	detector := defaultDetector()
	outcomes := []pricingDomain.FetchOutcome{
		quoteOutcome("A", 3000),
		quoteOutcome("B", 3030),
	}

	analysis := detector.Analyze("ETH-USDC", outcomes, decimal.NewFromInt(100))

	// Spread clears the threshold but two legs of cost bury it.
	if !analysis.HasOpportunity {
		t.Error("HasOpportunity = false, want true")
	}
	if analysis.Profit.IsProfitableAfterCost {
		t.Error("IsProfitableAfterCost = true, want false")
	}
	wantNet := decimal.NewFromInt(-170)
	if !analysis.Profit.Net.Equal(wantNet) {
		t.Errorf("Net = %s, want %s", analysis.Profit.Net, wantNet)
	}
	if analysis.Recommendation != domain.NoTradeUnprofitableAfterCost {
		t.Errorf("Recommendation = %s, want %s", analysis.Recommendation, domain.NoTradeUnprofitableAfterCost)
	}
}

func TestAnalyze_SlippageNarrowsSpread(t *testing.T) {
	detector := NewDetector(DetectorConfig{
		MinPriceDiffPercent: 0.1,
		TradeSize:           decimal.NewFromInt(1),
		SlippagePercent:     decimal.NewFromFloat(0.5),
		MinProfitThreshold:  decimal.NewFromInt(1),
	})
	outcomes := []pricingDomain.FetchOutcome{
		quoteOutcome("A", 3000),
		quoteOutcome("B", 3100),
	}

	analysis := detector.Analyze("ETH-USDC", outcomes, decimal.Zero)

	// effectiveBuy = 3000 * 1.005 = 3015, effectiveSell = 3100 * 0.995 = 3084.5
	wantGross := decimal.NewFromFloat(69.5)
	if !analysis.Profit.Gross.Equal(wantGross) {
		t.Errorf("Gross = %s, want %s", analysis.Profit.Gross, wantGross)
	}
}

func TestAnalyze_InsufficientValidQuotes(t *testing.T) {
	detector := defaultDetector()
	outcomes := []pricingDomain.FetchOutcome{
		quoteOutcome("A", 3000),
		failedOutcome("B"),
	}

	analysis := detector.Analyze("ETH-USDC", outcomes, decimal.Zero)

	if analysis.HasOpportunity {
		t.Error("HasOpportunity = true, want false")
	}
	if analysis.ValidSources != 1 {
		t.Errorf("ValidSources = %d, want 1", analysis.ValidSources)
	}
	if analysis.Reason == "" {
		t.Error("Reason is empty, want insufficient data explanation")
	}
	if analysis.Direction != nil {
		t.Error("Direction populated with insufficient data")
	}
	if analysis.Profit != nil {
		t.Error("Profit populated with insufficient data")
	}
}

func TestAnalyze_SingleSource(t *testing.T) {
	detector := defaultDetector()
	analysis := detector.Analyze("ETH-USDC", []pricingDomain.FetchOutcome{
		quoteOutcome("A", 3000),
	}, decimal.Zero)

	if analysis.HasOpportunity {
		t.Error("single source reported an opportunity")
	}
}

func TestAnalyze_IdenticalPrices(t *testing.T) {
	detector := defaultDetector()
	outcomes := []pricingDomain.FetchOutcome{
		quoteOutcome("A", 3000),
		quoteOutcome("B", 3000),
	}

	analysis := detector.Analyze("ETH-USDC", outcomes, decimal.Zero)

	if analysis.HasOpportunity {
		t.Error("identical prices reported an opportunity")
	}
	if analysis.Reason == "" {
		t.Error("Reason is empty")
	}
}

func TestAnalyze_ZeroPriceQuoteFiltered(t *testing.T) {
	detector := defaultDetector()
	outcomes := []pricingDomain.FetchOutcome{
		quoteOutcome("A", 3000),
		quoteOutcome("empty", 0),
	}

	analysis := detector.Analyze("ETH-USDC", outcomes, decimal.Zero)

	if analysis.ValidSources != 1 {
		t.Errorf("ValidSources = %d, want 1 (zero price excluded)", analysis.ValidSources)
	}
	if analysis.HasOpportunity {
		t.Error("zero-price quote produced an opportunity")
	}
}

func TestAnalyze_DirectionIndependentOfOrder(t *testing.T) {
	detector := defaultDetector()
	forward := detector.Analyze("ETH-USDC", []pricingDomain.FetchOutcome{
		quoteOutcome("A", 3000), quoteOutcome("B", 3030),
	}, decimal.Zero)
	reversed := detector.Analyze("ETH-USDC", []pricingDomain.FetchOutcome{
		quoteOutcome("B", 3030), quoteOutcome("A", 3000),
	}, decimal.Zero)

	if forward.Direction.BuyFrom != reversed.Direction.BuyFrom {
		t.Errorf("BuyFrom differs by input order: %s vs %s",
			forward.Direction.BuyFrom, reversed.Direction.BuyFrom)
	}
	if forward.PriceDiffPercent != reversed.PriceDiffPercent {
		t.Errorf("diff differs by input order: %v vs %v",
			forward.PriceDiffPercent, reversed.PriceDiffPercent)
	}
}

func BenchmarkAnalyze(b *testing.B) {
	detector := defaultDetector()
	outcomes := []pricingDomain.FetchOutcome{
		quoteOutcome("A", 3000),
		quoteOutcome("B", 3030),
		quoteOutcome("C", 2995),
		failedOutcome("D"),
	}
	cost := decimal.NewFromFloat(0.01)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		detector.Analyze("ETH-USDC", outcomes, cost)
	}
}
