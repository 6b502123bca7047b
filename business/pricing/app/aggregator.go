package app

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mgodoy/arb-scout/business/pricing/domain"
	"github.com/mgodoy/arb-scout/internal/apm"
	"github.com/mgodoy/arb-scout/internal/apperror"
	"github.com/mgodoy/arb-scout/internal/logger"
	"github.com/mgodoy/arb-scout/internal/resilience"
)

// QuoteAggregator fans one pair out to all of its configured sources
// concurrently and joins the results. A failed source produces a failed
// outcome in its slot; it never aborts its siblings.
type QuoteAggregator struct {
	fetcher     *SourceQuoteFetcher
	policy      resilience.Policy
	diagnostics resilience.Observer
	logger      logger.LoggerInterface
	tracer      apm.Tracer
}

// NewQuoteAggregator creates an aggregator. The observer may be nil.
func NewQuoteAggregator(
	fetcher *SourceQuoteFetcher,
	policy resilience.Policy,
	diagnostics resilience.Observer,
	log logger.LoggerInterface,
) *QuoteAggregator {
	return &QuoteAggregator{
		fetcher:     fetcher,
		policy:      policy,
		diagnostics: diagnostics,
		logger:      log,
		tracer:      apm.NewTracer(tracerName),
	}
}

// FetchAll queries every source for the pair in parallel and returns one
// outcome per source, in configuration order. The only error it returns
// itself is the precondition: a pair with no configured sources, raised
// before any network call. Individual source failures live inside their
// outcomes.
func (a *QuoteAggregator) FetchAll(ctx context.Context, pair domain.Pair, sources []domain.Source) ([]domain.FetchOutcome, error) {
	if len(sources) == 0 {
		return nil, apperror.New(apperror.CodePairNotConfigured,
			apperror.WithContext(fmt.Sprintf("pair %s has no sources", pair.String())))
	}

	ctx, span := a.tracer.StartSpanFromContext(ctx, "pricing.fetch_all",
		trace.WithAttributes(
			attribute.String("pair", pair.String()),
			attribute.Int("sources", len(sources)),
		),
	)
	defer span.End()

	outcomes := make([]domain.FetchOutcome, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src domain.Source) {
			defer wg.Done()

			quote, err := resilience.Execute(ctx, a.policy, a.diagnostics,
				"fetch_quote:"+src.ID,
				func(ctx context.Context) (*domain.NormalizedQuote, error) {
					return a.fetcher.Fetch(ctx, pair, src)
				})

			outcomes[i] = domain.FetchOutcome{
				SourceID: src.ID,
				Quote:    quote,
				Err:      err,
			}
		}(i, src)
	}
	wg.Wait()

	succeeded := 0
	for _, o := range outcomes {
		if o.Ok() {
			succeeded++
		} else {
			a.logger.Warn(ctx, "source fetch failed",
				"pair", pair.String(),
				"source", o.SourceID,
				"error", o.Err,
			)
		}
	}

	span.SetAttributes(attribute.Int("succeeded", succeeded))
	a.logger.Debug(ctx, "aggregation complete",
		"pair", pair.String(),
		"sources", len(sources),
		"succeeded", succeeded,
	)

	return outcomes, nil
}
