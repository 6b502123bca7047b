package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidState    Code = "INVALID_STATE"
	CodeValidationError Code = "VALIDATION_ERROR"

	// Configuration
	CodeConfigurationError Code = "CONFIGURATION_ERROR"
	CodePairNotConfigured  Code = "PAIR_NOT_CONFIGURED"

	// System errors
	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Pipeline-specific error codes
const (
	// RPC / network errors
	CodeRPCConnectionFailed Code = "RPC_CONNECTION_FAILED"
	CodeRPCError            Code = "RPC_ERROR"
	CodeRPCTimeout          Code = "RPC_TIMEOUT"

	// Contract read errors
	CodeContractCallFailed Code = "CONTRACT_CALL_FAILED"
	CodeCallDecodeFailed   Code = "CALL_DECODE_FAILED"

	// Price state errors
	CodePoolStateInvalid Code = "POOL_STATE_INVALID"
	CodePriceOutOfRange  Code = "PRICE_OUT_OF_RANGE"
	CodeQuoteFetchFailed Code = "QUOTE_FETCH_FAILED"
	CodeInsufficientData Code = "INSUFFICIENT_DATA"

	// Liquidity errors
	CodeLiquidityReadFailed   Code = "LIQUIDITY_READ_FAILED"
	CodeInsufficientLiquidity Code = "INSUFFICIENT_LIQUIDITY"

	// Gas errors
	CodeGasPriceFetchFailed Code = "GAS_PRICE_FETCH_FAILED"
	CodeGasEstimationFailed Code = "GAS_ESTIMATION_FAILED"

	// Execution model errors
	CodeSlippageExceeded Code = "SLIPPAGE_EXCEEDED"
	CodeInvalidTradeSize Code = "INVALID_TRADE_SIZE"

	// Retry / resilience errors
	CodeRetryExhausted Code = "RETRY_EXHAUSTED"
	CodeCircuitOpen    Code = "CIRCUIT_OPEN"
)
