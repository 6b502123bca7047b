package app

import (
	"context"
	"math/big"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/mgodoy/arb-scout/business/pricing/domain"
	"github.com/mgodoy/arb-scout/internal/apm"
	"github.com/mgodoy/arb-scout/internal/logger"
)

const (
	tracerName = "pricing"
	meterName  = "pricing"
)

// fetcherMetrics holds OTEL metric instruments.
type fetcherMetrics struct {
	fetchesTotal metric.Int64Counter
	fetchLatency metric.Float64Histogram
	fetchErrors  metric.Int64Counter
}

// SourceQuoteFetcher turns one source into one normalized quote per
// round trip. Price state and liquidity are read concurrently; a
// failure on either side fails the whole fetch for that source only.
type SourceQuoteFetcher struct {
	reader  PoolReader
	logger  logger.LoggerInterface
	tracer  apm.Tracer
	metrics *fetcherMetrics
}

// NewSourceQuoteFetcher creates a fetcher over the given pool reader.
func NewSourceQuoteFetcher(reader PoolReader, log logger.LoggerInterface) (*SourceQuoteFetcher, error) {
	f := &SourceQuoteFetcher{
		reader: reader,
		logger: log,
		tracer: apm.NewTracer(tracerName),
	}

	if err := f.initMetrics(); err != nil {
		return nil, err
	}

	return f, nil
}

func (f *SourceQuoteFetcher) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	f.metrics = &fetcherMetrics{}

	f.metrics.fetchesTotal, err = meter.Int64Counter(
		"quote_fetches_total",
		metric.WithDescription("Total quote fetch attempts"),
	)
	if err != nil {
		return err
	}

	f.metrics.fetchLatency, err = meter.Float64Histogram(
		"quote_fetch_latency_ms",
		metric.WithDescription("Quote fetch latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	f.metrics.fetchErrors, err = meter.Int64Counter(
		"quote_fetch_errors_total",
		metric.WithDescription("Total quote fetch failures"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Fetch reads the source's pool state and liquidity and normalizes them
// into a quote. A zero price (empty pool) is returned as valid data; the
// detector decides whether it carries signal.
func (f *SourceQuoteFetcher) Fetch(ctx context.Context, pair domain.Pair, src domain.Source) (*domain.NormalizedQuote, error) {
	ctx, span := f.tracer.StartSpanFromContext(ctx, "pricing.fetch_quote",
		trace.WithAttributes(
			attribute.String("pair", pair.String()),
			attribute.String("source", src.ID),
			attribute.String("pool", src.Pool.Hex()),
		),
	)
	defer span.End()

	start := time.Now()
	sourceAttr := metric.WithAttributes(attribute.String("source", src.ID))
	f.metrics.fetchesTotal.Add(ctx, 1, sourceAttr)

	var (
		wg       sync.WaitGroup
		state    *PoolState
		stateErr error
		liq      *big.Int
		liqErr   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		state, stateErr = f.reader.Slot0(ctx, src.Pool)
	}()
	go func() {
		defer wg.Done()
		liq, liqErr = f.reader.Liquidity(ctx, src.Pool)
	}()
	wg.Wait()

	f.metrics.fetchLatency.Record(ctx, float64(time.Since(start).Milliseconds()), sourceAttr)

	if stateErr != nil {
		f.metrics.fetchErrors.Add(ctx, 1, sourceAttr)
		span.NoticeError(stateErr)
		return nil, stateErr
	}
	if liqErr != nil {
		f.metrics.fetchErrors.Add(ctx, 1, sourceAttr)
		span.NoticeError(liqErr)
		return nil, liqErr
	}

	point := domain.PricePoint{
		SourceID:      src.ID,
		RawSqrtPrice:  state.SqrtPriceX96,
		Tick:          state.Tick,
		BaseDecimals:  pair.BaseDecimals,
		QuoteDecimals: pair.QuoteDecimals,
	}
	quote := domain.NewNormalizedQuote(point, liq, time.Now())

	span.SetAttributes(
		attribute.Float64("price", quote.PriceBaseInQuote),
		attribute.Bool("price_defined", quote.PriceDefined()),
	)

	f.logger.Debug(ctx, "quote fetched",
		"pair", pair.String(),
		"source", src.ID,
		"price", quote.PriceBaseInQuote,
		"tick", state.Tick,
	)

	return quote, nil
}
