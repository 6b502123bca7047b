// Package resilience classifies pipeline failures into a closed taxonomy,
// wraps fallible operations with retry and backoff, and keeps a rolling
// diagnostic history for health reporting.
package resilience

// Category is the closed failure taxonomy. Every error maps to exactly
// one category; Unknown is the guaranteed fallback.
type Category string

const (
	CategoryNetwork       Category = "network"
	CategoryContract      Category = "contract"
	CategoryPrice         Category = "price"
	CategoryLiquidity     Category = "liquidity"
	CategoryGas           Category = "gas"
	CategorySlippage      Category = "slippage"
	CategoryConfiguration Category = "configuration"
	CategoryLogic         Category = "logic"
	CategoryUnknown       Category = "unknown"
)

// severities assigns each category a fixed severity on a 1-5 scale.
var severities = map[Category]int{
	CategoryConfiguration: 5,
	CategoryLogic:         5,
	CategoryLiquidity:     4,
	CategoryContract:      4,
	CategoryNetwork:       3,
	CategoryPrice:         3,
	CategoryGas:           3,
	CategoryUnknown:       3,
	CategorySlippage:      2,
}

// retryable is the set of categories worth another attempt. Everything
// else terminates immediately.
var retryable = map[Category]bool{
	CategoryNetwork: true,
	CategoryGas:     true,
	CategoryPrice:   true,
}

// Severity returns the fixed severity for the category (1-5).
func (c Category) Severity() int {
	if s, ok := severities[c]; ok {
		return s
	}
	return severities[CategoryUnknown]
}

// Retryable reports whether failures in this category may be retried.
func (c Category) Retryable() bool {
	return retryable[c]
}

// String implements fmt.Stringer.
func (c Category) String() string {
	return string(c)
}
