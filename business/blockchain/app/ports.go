// Package app contains application services and port definitions for the blockchain context.
package app

import (
	"context"

	"github.com/mgodoy/arb-scout/business/blockchain/domain"
)

// GasOracle defines the interface for network fee information.
type GasOracle interface {
	// GetGasPrice retrieves the current gas price.
	GetGasPrice(ctx context.Context) (*domain.GasPrice, error)
}
