package resilience

import (
	"errors"
	"strings"

	"github.com/mgodoy/arb-scout/internal/apperror"
)

// codeCategories maps structured error codes straight to their category.
// Codes are authoritative; message matching only runs for untyped errors.
var codeCategories = map[apperror.Code]Category{
	apperror.CodeRPCConnectionFailed: CategoryNetwork,
	apperror.CodeRPCError:            CategoryNetwork,
	apperror.CodeRPCTimeout:          CategoryNetwork,
	apperror.CodeCircuitOpen:         CategoryNetwork,

	apperror.CodeContractCallFailed: CategoryContract,
	apperror.CodeCallDecodeFailed:   CategoryContract,

	apperror.CodePoolStateInvalid: CategoryPrice,
	apperror.CodePriceOutOfRange:  CategoryPrice,
	apperror.CodeQuoteFetchFailed: CategoryPrice,

	apperror.CodeLiquidityReadFailed:   CategoryLiquidity,
	apperror.CodeInsufficientLiquidity: CategoryLiquidity,

	apperror.CodeGasPriceFetchFailed: CategoryGas,
	apperror.CodeGasEstimationFailed: CategoryGas,

	apperror.CodeSlippageExceeded: CategorySlippage,

	apperror.CodeConfigurationError: CategoryConfiguration,
	apperror.CodePairNotConfigured:  CategoryConfiguration,
	apperror.CodeValidationError:    CategoryConfiguration,
	apperror.CodeRequiredField:      CategoryConfiguration,
	apperror.CodeInvalidInput:       CategoryConfiguration,

	apperror.CodeInternalError:    CategoryLogic,
	apperror.CodeInvalidState:     CategoryLogic,
	apperror.CodeInvalidTradeSize: CategoryLogic,
}

// messageRule matches a category by error message substring.
type messageRule struct {
	category Category
	patterns []string
}

// messageRules is the ordered rule table for untyped errors. First match
// wins, so the order is part of the contract: a "gas price" message must
// land on gas, never price.
var messageRules = []messageRule{
	{CategoryNetwork, []string{
		"connection refused", "connection reset", "timeout", "timed out",
		"no such host", "dial tcp", "network", "unreachable", "eof",
		"rate limit", "too many requests", "circuit breaker",
	}},
	{CategoryContract, []string{
		"execution reverted", "revert", "abi:", "invalid opcode",
		"contract", "method not found", "unpack", "call returned",
	}},
	{CategoryGas, []string{
		"gas", "fee cap", "underpriced", "base fee",
	}},
	{CategoryLiquidity, []string{
		"liquidity",
	}},
	{CategorySlippage, []string{
		"slippage", "price impact", "amount out too low",
	}},
	{CategoryPrice, []string{
		"sqrt price", "price state", "price out of range", "slot0",
		"stale price", "tick",
	}},
	{CategoryConfiguration, []string{
		"config", "not configured", "invalid address", "missing",
		"required field", "unknown pair",
	}},
	{CategoryLogic, []string{
		"nil pointer", "index out of range", "divide by zero",
		"invalid state", "assertion",
	}},
}

// Classify maps an error to its category: structured code first, then the
// ordered message rule table, with Unknown as the fallback. nil classifies
// as Unknown rather than panicking so callers need no guard.
func Classify(err error) Category {
	if err == nil {
		return CategoryUnknown
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if cat, ok := codeCategories[appErr.Code]; ok {
			return cat
		}
	}

	return ClassifyMessage(err.Error())
}

// ClassifyMessage runs the ordered rule table against a bare message.
// Pure and deterministic: same message, same category, independent of any
// retry state.
func ClassifyMessage(message string) Category {
	msg := strings.ToLower(message)
	for _, rule := range messageRules {
		for _, pattern := range rule.patterns {
			if strings.Contains(msg, pattern) {
				return rule.category
			}
		}
	}
	return CategoryUnknown
}
