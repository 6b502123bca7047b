// Package univ3 implements the PoolReader interface for Uniswap V3 pools.
package univ3

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/mgodoy/arb-scout/business/pricing/app"
	"github.com/mgodoy/arb-scout/internal/apm"
	"github.com/mgodoy/arb-scout/internal/apperror"
	"github.com/mgodoy/arb-scout/internal/circuitbreaker"
	"github.com/mgodoy/arb-scout/internal/logger"
	"github.com/mgodoy/arb-scout/internal/ratelimit"
)

const (
	tracerName = "univ3"
	meterName  = "univ3"
)

// Ensure Reader implements PoolReader.
var _ app.PoolReader = (*Reader)(nil)

// readerMetrics holds OTEL metric instruments.
type readerMetrics struct {
	callsTotal  metric.Int64Counter
	callLatency metric.Float64Histogram
	callErrors  metric.Int64Counter
}

// Reader reads Uniswap V3 pool state over an Ethereum RPC connection.
// All contract calls share one rate limiter and one circuit breaker so
// a misbehaving endpoint is throttled and eventually cut off for every
// pool at once.
type Reader struct {
	client  *ethclient.Client
	poolABI abi.ABI

	limiter *ratelimit.Limiter
	cb      *circuitbreaker.CircuitBreaker[[]byte]

	logger  logger.LoggerInterface
	tracer  apm.Tracer
	metrics *readerMetrics
}

// NewReader creates a pool reader over an existing client connection.
func NewReader(client *ethclient.Client, requestsPerSecond float64, burst int, log logger.LoggerInterface) (*Reader, error) {
	parsedABI, err := abi.JSON(strings.NewReader(PoolABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse pool ABI: %w", err)
	}

	r := &Reader{
		client:  client,
		poolABI: parsedABI,
		limiter: ratelimit.New(requestsPerSecond, burst),
		logger:  log,
		tracer:  apm.NewTracer(tracerName),
	}

	cbCfg := circuitbreaker.DefaultConfig("univ3-pool")
	r.cb = circuitbreaker.New[[]byte](cbCfg)

	if err := r.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}

	return r, nil
}

func (r *Reader) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	r.metrics = &readerMetrics{}

	r.metrics.callsTotal, err = meter.Int64Counter(
		"pool_calls_total",
		metric.WithDescription("Total pool contract calls"),
	)
	if err != nil {
		return err
	}

	r.metrics.callLatency, err = meter.Float64Histogram(
		"pool_call_latency_ms",
		metric.WithDescription("Pool contract call latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	r.metrics.callErrors, err = meter.Int64Counter(
		"pool_call_errors_total",
		metric.WithDescription("Total pool contract call failures"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Slot0 reads the pool's current price state.
func (r *Reader) Slot0(ctx context.Context, pool common.Address) (*app.PoolState, error) {
	ctx, span := r.tracer.StartSpanFromContext(ctx, "univ3.slot0",
		trace.WithAttributes(attribute.String("pool", pool.Hex())),
	)
	defer span.End()

	raw, err := r.call(ctx, pool, "slot0")
	if err != nil {
		span.NoticeError(err)
		return nil, err
	}

	outputs, err := r.poolABI.Unpack("slot0", raw)
	if err != nil {
		span.NoticeError(err)
		return nil, apperror.New(apperror.CodeCallDecodeFailed,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("slot0 decode for pool %s", pool.Hex())))
	}
	if len(outputs) < 7 {
		return nil, apperror.New(apperror.CodeCallDecodeFailed,
			apperror.WithContext(fmt.Sprintf("slot0 returned %d outputs", len(outputs))))
	}

	sqrtPrice, ok := outputs[0].(*big.Int)
	if !ok {
		return nil, apperror.New(apperror.CodeCallDecodeFailed,
			apperror.WithContext("sqrtPriceX96 has unexpected type"))
	}
	tick, ok := outputs[1].(*big.Int)
	if !ok {
		return nil, apperror.New(apperror.CodeCallDecodeFailed,
			apperror.WithContext("tick has unexpected type"))
	}
	unlocked, _ := outputs[6].(bool)

	state := &app.PoolState{
		SqrtPriceX96: sqrtPrice,
		Tick:         int(tick.Int64()),
		Unlocked:     unlocked,
	}

	span.SetAttributes(
		attribute.String("sqrt_price_x96", sqrtPrice.String()),
		attribute.Int("tick", state.Tick),
	)

	return state, nil
}

// Liquidity reads the pool's currently active liquidity.
func (r *Reader) Liquidity(ctx context.Context, pool common.Address) (*big.Int, error) {
	ctx, span := r.tracer.StartSpanFromContext(ctx, "univ3.liquidity",
		trace.WithAttributes(attribute.String("pool", pool.Hex())),
	)
	defer span.End()

	raw, err := r.call(ctx, pool, "liquidity")
	if err != nil {
		span.NoticeError(err)
		if apperror.GetCode(err) == apperror.CodeContractCallFailed {
			return nil, apperror.New(apperror.CodeLiquidityReadFailed,
				apperror.WithCause(err),
				apperror.WithContext(fmt.Sprintf("liquidity read for pool %s", pool.Hex())))
		}
		return nil, err
	}

	outputs, err := r.poolABI.Unpack("liquidity", raw)
	if err != nil || len(outputs) < 1 {
		span.NoticeError(err)
		return nil, apperror.New(apperror.CodeLiquidityReadFailed,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("liquidity decode for pool %s", pool.Hex())))
	}

	liq, ok := outputs[0].(*big.Int)
	if !ok {
		return nil, apperror.New(apperror.CodeLiquidityReadFailed,
			apperror.WithContext("liquidity has unexpected type"))
	}

	span.SetAttributes(attribute.String("liquidity", liq.String()))

	return liq, nil
}

// call packs and executes one view method on the pool through the rate
// limiter and circuit breaker.
func (r *Reader) call(ctx context.Context, pool common.Address, method string) ([]byte, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, apperror.New(apperror.CodeRPCTimeout,
			apperror.WithCause(err),
			apperror.WithContext("rate limiter wait aborted"))
	}

	callData, err := r.poolABI.Pack(method)
	if err != nil {
		return nil, apperror.New(apperror.CodeInternalError,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("failed to encode %s call", method)))
	}

	start := time.Now()
	methodAttr := metric.WithAttributes(attribute.String("method", method))
	r.metrics.callsTotal.Add(ctx, 1, methodAttr)

	result, err := r.cb.Execute(func() ([]byte, error) {
		return r.client.CallContract(ctx, ethereum.CallMsg{
			To:   &pool,
			Data: callData,
		}, nil)
	})

	r.metrics.callLatency.Record(ctx, float64(time.Since(start).Milliseconds()), methodAttr)

	if err != nil {
		r.metrics.callErrors.Add(ctx, 1, methodAttr)
		if apperror.IsAppError(err) {
			// Circuit-open errors come back already coded.
			return nil, err
		}
		return nil, apperror.New(callErrorCode(err),
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("%s call to pool %s", method, pool.Hex())))
	}

	return result, nil
}

// callErrorCode separates transport faults from contract rejections so
// the retry layer treats only the former as transient.
func callErrorCode(err error) apperror.Code {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperror.CodeRPCTimeout
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "revert") || strings.Contains(msg, "invalid opcode") {
		return apperror.CodeContractCallFailed
	}

	return apperror.CodeRPCError
}
