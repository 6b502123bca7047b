// Package app contains application services and port definitions for the pricing context.
package app

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// PoolState is the price-bearing slice of a pool's slot0 storage.
type PoolState struct {
	SqrtPriceX96 *big.Int // sqrt(price) * 2^96, zero for an uninitialized pool
	Tick         int
	Unlocked     bool
}

// PoolReader defines the interface for reading on-chain pool state. It
// performs single round trips and owns no retry policy; the aggregator
// layers resilience on top.
type PoolReader interface {
	// Slot0 reads the pool's current price state.
	Slot0(ctx context.Context, pool common.Address) (*PoolState, error)

	// Liquidity reads the pool's currently active liquidity.
	Liquidity(ctx context.Context, pool common.Address) (*big.Int, error)
}
