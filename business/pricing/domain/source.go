package domain

import (
	"github.com/ethereum/go-ethereum/common"
)

// Source is one independent liquidity venue queried for a price: a
// concrete pool contract holding the pair at a given fee tier.
type Source struct {
	ID      string
	Pool    common.Address
	FeeTier int
}

// String returns the source identifier.
func (s Source) String() string {
	return s.ID
}
