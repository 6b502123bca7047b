package app

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mgodoy/arb-scout/business/blockchain/domain"
)

// GasService turns raw gas prices into per-leg trade costs.
type GasService struct {
	oracle GasOracle
}

// NewGasService creates a GasService over the given oracle.
func NewGasService(oracle GasOracle) *GasService {
	return &GasService{oracle: oracle}
}

// GetGasPrice retrieves the current gas price.
func (s *GasService) GetGasPrice(ctx context.Context) (*domain.GasPrice, error) {
	return s.oracle.GetGasPrice(ctx)
}

// CostPerLeg models the quote-denominated cost of one swap leg at the
// current gas price. nativePriceInQuote converts the native-token fee
// into the pair's quote asset.
func (s *GasService) CostPerLeg(ctx context.Context, gasLimit uint64, nativePriceInQuote decimal.Decimal) (*domain.LegCost, error) {
	price, err := s.oracle.GetGasPrice(ctx)
	if err != nil {
		return nil, err
	}
	return domain.NewLegCost(gasLimit, price, nativePriceInQuote), nil
}
