// Package app contains application services and port definitions for the arbitrage context.
package app

import (
	"context"

	"github.com/mgodoy/arb-scout/business/arbitrage/domain"
)

// Reporter defines the interface for presenting analysis results.
type Reporter interface {
	// Start initializes the reporter.
	Start(ctx context.Context) error

	// Report presents one cycle's analysis.
	Report(analysis *domain.Analysis)

	// Stop gracefully shuts down the reporter.
	Stop() error
}
