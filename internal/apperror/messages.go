package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidState:    "Invalid state for this operation",
	CodeValidationError: "Validation error",

	CodeConfigurationError: "Configuration error",
	CodePairNotConfigured:  "Pair has no configured sources",

	CodeInternalError: "Internal error",
	CodeUnknownError:  "An unknown error occurred",

	CodeRPCConnectionFailed: "Failed to connect to RPC node",
	CodeRPCError:            "RPC call failed",
	CodeRPCTimeout:          "RPC call timed out",

	CodeContractCallFailed: "Smart contract call failed",
	CodeCallDecodeFailed:   "Failed to decode contract call result",

	CodePoolStateInvalid: "Pool price state is invalid",
	CodePriceOutOfRange:  "Price is outside the acceptable range",
	CodeQuoteFetchFailed: "Failed to fetch source quote",
	CodeInsufficientData: "Not enough valid quotes for analysis",

	CodeLiquidityReadFailed:   "Failed to read pool liquidity",
	CodeInsufficientLiquidity: "Insufficient liquidity for trade size",

	CodeGasPriceFetchFailed: "Failed to fetch gas price",
	CodeGasEstimationFailed: "Gas estimation failed",

	CodeSlippageExceeded: "Slippage tolerance exceeded",
	CodeInvalidTradeSize: "Invalid trade size",

	CodeRetryExhausted: "Operation failed after all retry attempts",
	CodeCircuitOpen:    "Circuit breaker is open",
}
