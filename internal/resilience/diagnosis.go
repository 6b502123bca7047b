package resilience

import (
	"time"
)

// RootCause describes what went wrong in operator terms.
type RootCause struct {
	Cause           string
	Details         string
	PossibleReasons []string
}

// Recommendation is advisory text for the operator. It is plain data,
// never an execution path; acting on one always requires a human.
type Recommendation struct {
	Priority  int // 1 = act first
	Action    string
	Reasoning string
}

// ErrorDiagnosis is the full classification of one failure. Created per
// failure, appended to the rolling history, never mutated afterwards.
type ErrorDiagnosis struct {
	Category              Category
	Severity              int
	RootCause             RootCause
	Recommendations       []Recommendation
	RequiresAuthorization bool
	Operation             string
	Err                   error
	OccurredAt            time.Time
}

// rootCauseTemplates holds the static root-cause text per category.
var rootCauseTemplates = map[Category]RootCause{
	CategoryNetwork: {
		Cause:   "RPC endpoint unreachable or unresponsive",
		Details: "A remote call to the node failed at the transport level.",
		PossibleReasons: []string{
			"node is down or restarting",
			"provider rate limiting",
			"transient network partition",
		},
	},
	CategoryContract: {
		Cause:   "on-chain call failed or returned undecodable data",
		Details: "The pool contract rejected the call or its response did not match the expected ABI.",
		PossibleReasons: []string{
			"wrong pool address for this network",
			"contract upgraded with a different ABI",
			"call executed against a pruned or lagging node",
		},
	},
	CategoryPrice: {
		Cause:   "price state could not be read or is implausible",
		Details: "The slot0 price read failed or produced a value outside sane bounds.",
		PossibleReasons: []string{
			"pool recently initialized with no trades",
			"extreme tick movement mid-read",
			"node returned stale state",
		},
	},
	CategoryLiquidity: {
		Cause:   "pool liquidity unavailable or insufficient",
		Details: "The liquidity read failed, or the pool cannot absorb the configured trade size.",
		PossibleReasons: []string{
			"liquidity withdrawn from the pool",
			"trade size configured too large for this venue",
		},
	},
	CategoryGas: {
		Cause:   "network fee information unavailable or abnormal",
		Details: "The gas price read failed or returned a value outside the configured ceiling.",
		PossibleReasons: []string{
			"fee spike during network congestion",
			"node fee oracle temporarily unavailable",
		},
	},
	CategorySlippage: {
		Cause:   "modeled execution moved past the slippage tolerance",
		Details: "The assumed adverse price movement exceeds what the configuration allows.",
		PossibleReasons: []string{
			"volatile market conditions",
			"slippage tolerance configured too tight",
		},
	},
	CategoryConfiguration: {
		Cause:   "invalid or incomplete configuration",
		Details: "The pipeline was asked to operate on something the configuration does not describe.",
		PossibleReasons: []string{
			"pair or source missing from the config file",
			"malformed pool address or decimals",
		},
	},
	CategoryLogic: {
		Cause:   "internal invariant violated",
		Details: "The pipeline reached a state its own logic should have made impossible.",
		PossibleReasons: []string{
			"bug in the calling code",
			"unvalidated input reached an internal component",
		},
	},
	CategoryUnknown: {
		Cause:   "unclassified failure",
		Details: "The error matched no known code or message pattern.",
		PossibleReasons: []string{
			"new failure mode not yet in the rule table",
		},
	},
}

// recommendationTemplates holds the static advisory actions per category.
var recommendationTemplates = map[Category][]Recommendation{
	CategoryNetwork: {
		{1, "check RPC endpoint health and provider status page", "transport failures are usually on the provider side"},
		{2, "lower the per-client RPC rate limit", "repeated 429s indicate the limiter is set above the plan's quota"},
	},
	CategoryContract: {
		{1, "verify the pool address and fee tier against the factory", "a wrong address fails on every cycle, not intermittently"},
		{2, "pin the node to an archive-capable endpoint", "pruned nodes reject historical state reads"},
	},
	CategoryPrice: {
		{1, "inspect the pool's recent swap activity", "freshly initialized or abandoned pools report degenerate prices"},
		{2, "cross-check the price against another source", "a single outlier source suggests venue-local state, not market movement"},
	},
	CategoryLiquidity: {
		{1, "reduce the configured trade size", "the profitability model is meaningless past available depth"},
		{2, "drop this source from the pair until depth recovers", "thin pools produce phantom spreads"},
	},
	CategoryGas: {
		{1, "raise the gas price ceiling or wait out the spike", "opportunities priced at spike-level fees are rarely real"},
	},
	CategorySlippage: {
		{1, "widen the slippage tolerance in config", "tolerance below realistic execution guarantees empty results"},
	},
	CategoryConfiguration: {
		{1, "fix the configuration and restart", "configuration faults never self-heal; retrying is wasted work"},
	},
	CategoryLogic: {
		{1, "capture the log context and file a bug", "invariant violations need a code change, not an operational fix"},
	},
	CategoryUnknown: {
		{1, "inspect the raw error and extend the classification rules", "every unknown is a gap in the rule table"},
	},
}

// Diagnose classifies err and assembles its full diagnosis from the
// static per-category templates.
func Diagnose(operation string, err error) *ErrorDiagnosis {
	category := Classify(err)

	return &ErrorDiagnosis{
		Category:              category,
		Severity:              category.Severity(),
		RootCause:             rootCauseTemplates[category],
		Recommendations:       recommendationTemplates[category],
		RequiresAuthorization: true, // recommendations are advisory text, never auto-applied
		Operation:             operation,
		Err:                   err,
		OccurredAt:            time.Now(),
	}
}
