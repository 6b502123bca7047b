package app

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	blockchainApp "github.com/mgodoy/arb-scout/business/blockchain/app"
	pricingApp "github.com/mgodoy/arb-scout/business/pricing/app"
	pricingDomain "github.com/mgodoy/arb-scout/business/pricing/domain"
	"github.com/mgodoy/arb-scout/internal/apm"
	"github.com/mgodoy/arb-scout/internal/logger"
	"github.com/mgodoy/arb-scout/internal/resilience"
)

const (
	tracerName = "arbitrage"
	meterName  = "arbitrage"
)

// scannerMetrics holds OTEL metric instruments.
type scannerMetrics struct {
	cyclesTotal        metric.Int64Counter
	opportunitiesTotal metric.Int64Counter
}

// PairSpec binds a pair to the sources it is scanned across.
type PairSpec struct {
	Pair    pricingDomain.Pair
	Sources []pricingDomain.Source
}

// ScannerConfig holds the scan loop parameters.
type ScannerConfig struct {
	ScanInterval time.Duration
	SwapGasLimit uint64 // modeled gas per swap leg
}

// Scanner drives the pipeline: every interval it aggregates quotes for
// each configured pair, prices the transaction cost, runs detection and
// hands the analysis to the reporter. Each cycle carries its own
// deadline so a stuck cycle cannot delay the next one indefinitely.
type Scanner struct {
	aggregator  *pricingApp.QuoteAggregator
	detector    *Detector
	gas         *blockchainApp.GasService
	reporter    Reporter
	diagnostics *resilience.DiagnosticsAggregator
	pairs       []PairSpec
	config      ScannerConfig
	logger      logger.LoggerInterface
	tracer      apm.Tracer
	metrics     *scannerMetrics
}

// NewScanner wires the scan loop. The diagnostics aggregator may be nil.
func NewScanner(
	aggregator *pricingApp.QuoteAggregator,
	detector *Detector,
	gas *blockchainApp.GasService,
	reporter Reporter,
	diagnostics *resilience.DiagnosticsAggregator,
	pairs []PairSpec,
	config ScannerConfig,
	log logger.LoggerInterface,
) (*Scanner, error) {
	s := &Scanner{
		aggregator:  aggregator,
		detector:    detector,
		gas:         gas,
		reporter:    reporter,
		diagnostics: diagnostics,
		pairs:       pairs,
		config:      config,
		logger:      log,
		tracer:      apm.NewTracer(tracerName),
	}

	if err := s.initMetrics(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Scanner) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	s.metrics = &scannerMetrics{}

	s.metrics.cyclesTotal, err = meter.Int64Counter(
		"scan_cycles_total",
		metric.WithDescription("Total scan cycles run"),
	)
	if err != nil {
		return err
	}

	s.metrics.opportunitiesTotal, err = meter.Int64Counter(
		"opportunities_total",
		metric.WithDescription("Total arbitrage opportunities detected"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Run blocks until the context is cancelled. The first cycle fires
// immediately, then one per interval.
func (s *Scanner) Run(ctx context.Context) error {
	if err := s.reporter.Start(ctx); err != nil {
		return err
	}

	s.logger.Info(ctx, "scanner started",
		"pairs", len(s.pairs),
		"interval", s.config.ScanInterval,
	)

	ticker := time.NewTicker(s.config.ScanInterval)
	defer ticker.Stop()

	s.scanCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "scanner stopping", "reason", ctx.Err())
			return s.reporter.Stop()
		case <-ticker.C:
			s.scanCycle(ctx)
		}
	}
}

// scanCycle runs one full pass over all pairs under a single deadline.
func (s *Scanner) scanCycle(ctx context.Context) {
	cycleCtx, cancel := context.WithTimeout(ctx, s.config.ScanInterval)
	defer cancel()

	cycleCtx, span := s.tracer.StartSpanFromContext(cycleCtx, "arbitrage.scan_cycle",
		trace.WithAttributes(attribute.Int("pairs", len(s.pairs))),
	)
	defer span.End()

	s.metrics.cyclesTotal.Add(cycleCtx, 1)

	for _, spec := range s.pairs {
		s.scanPair(cycleCtx, spec)
	}
}

func (s *Scanner) scanPair(ctx context.Context, spec PairSpec) {
	outcomes, err := s.aggregator.FetchAll(ctx, spec.Pair, spec.Sources)
	if err != nil {
		// Precondition faults are pipeline-level errors, not per-source ones.
		if s.diagnostics != nil {
			s.diagnostics.Record(resilience.Diagnose("scan_pair:"+spec.Pair.String(), err))
		}
		s.logger.Error(ctx, "pair scan failed", "pair", spec.Pair.String(), "error", err)
		return
	}

	costPerLeg := s.costPerLeg(ctx, spec.Pair, outcomes)
	analysis := s.detector.Analyze(spec.Pair.String(), outcomes, costPerLeg)

	if analysis.HasOpportunity {
		s.metrics.opportunitiesTotal.Add(ctx, 1,
			metric.WithAttributes(attribute.String("pair", analysis.Pair)))
	}

	s.logger.Info(ctx, "cycle analysis",
		"pair", analysis.Pair,
		"valid_sources", analysis.ValidSources,
		"has_opportunity", analysis.HasOpportunity,
		"diff_percent", analysis.PriceDiffPercent,
		"recommendation", analysis.Recommendation,
	)

	s.reporter.Report(analysis)
}

// costPerLeg models one leg's transaction cost in quote units. The gas
// fee is native-denominated, so it is converted at the mean valid quote
// price of this cycle. A gas fetch failure degrades to zero cost rather
// than dropping the cycle; the analysis is then optimistic, which only
// ever overstates opportunity, never hides one.
func (s *Scanner) costPerLeg(ctx context.Context, pair pricingDomain.Pair, outcomes []pricingDomain.FetchOutcome) decimal.Decimal {
	meanPrice := meanValidPrice(outcomes)
	if meanPrice.IsZero() {
		return decimal.Zero
	}

	cost, err := s.gas.CostPerLeg(ctx, s.config.SwapGasLimit, meanPrice)
	if err != nil {
		if s.diagnostics != nil {
			s.diagnostics.Record(resilience.Diagnose("gas_cost:"+pair.String(), err))
		}
		s.logger.Warn(ctx, "gas cost unavailable, assuming zero",
			"pair", pair.String(), "error", err)
		return decimal.Zero
	}

	return cost.Quote
}

func meanValidPrice(outcomes []pricingDomain.FetchOutcome) decimal.Decimal {
	sum := decimal.Zero
	n := 0
	for _, o := range outcomes {
		if o.Ok() && o.Quote.PriceDefined() {
			sum = sum.Add(decimal.NewFromFloat(o.Quote.PriceBaseInQuote))
			n++
		}
	}
	if n == 0 {
		return decimal.Zero
	}
	return sum.Div(decimal.NewFromInt(int64(n)))
}

// Healthy reports whether the rolling diagnostics consider the pipeline
// operational. Used by the health endpoint.
func (s *Scanner) Healthy() (bool, string) {
	if s.diagnostics == nil {
		return true, "no diagnostics configured"
	}
	report := s.diagnostics.Report()
	healthy := report.HealthStatus != resilience.HealthCritical
	return healthy, string(report.HealthStatus)
}
