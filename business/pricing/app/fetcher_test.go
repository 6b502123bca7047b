package app

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mgodoy/arb-scout/business/pricing/domain"
	"github.com/mgodoy/arb-scout/internal/apperror"
)

func TestFetch_NormalizesPoolState(t *testing.T) {
	reader := newFakePoolReader()
	pool := common.HexToAddress("0x0000000000000000000000000000000000000001")
	reader.setPool(pool, sqrtPrice3000(), 12345)

	fetcher, err := NewSourceQuoteFetcher(reader, testLogger())
	if err != nil {
		t.Fatalf("NewSourceQuoteFetcher: %v", err)
	}

	quote, err := fetcher.Fetch(context.Background(), testPair(), testSource("pool-a", pool))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if quote.SourceID != "pool-a" {
		t.Errorf("SourceID = %s, want pool-a", quote.SourceID)
	}
	// 18/6 decimal pair at this encoding prices near 3000 quote per base.
	if quote.PriceBaseInQuote < 2990 || quote.PriceBaseInQuote > 3010 {
		t.Errorf("price = %v, want ~3000", quote.PriceBaseInQuote)
	}
	if quote.LiquidityRaw.Cmp(big.NewInt(12345)) != 0 {
		t.Errorf("liquidity = %s, want 12345", quote.LiquidityRaw)
	}
	if quote.ObservedAt.IsZero() {
		t.Error("ObservedAt is zero")
	}
}

func TestFetch_Slot0FailurePropagates(t *testing.T) {
	reader := newFakePoolReader()
	pool := common.HexToAddress("0x0000000000000000000000000000000000000001")
	reader.errs[pool] = apperror.New(apperror.CodeRPCConnectionFailed)

	fetcher, err := NewSourceQuoteFetcher(reader, testLogger())
	if err != nil {
		t.Fatalf("NewSourceQuoteFetcher: %v", err)
	}

	_, err = fetcher.Fetch(context.Background(), testPair(), testSource("pool-a", pool))
	if err == nil {
		t.Fatal("expected error")
	}
	if code := apperror.GetCode(err); code != apperror.CodeRPCConnectionFailed {
		t.Errorf("code = %s, want %s", code, apperror.CodeRPCConnectionFailed)
	}
}

func TestFetch_NilLiquidityBecomesZero(t *testing.T) {
	reader := newFakePoolReader()
	pool := common.HexToAddress("0x0000000000000000000000000000000000000001")
	reader.states[pool] = &PoolState{SqrtPriceX96: sqrtPrice3000(), Tick: 0, Unlocked: true}
	reader.liqs[pool] = nil

	fetcher, err := NewSourceQuoteFetcher(reader, testLogger())
	if err != nil {
		t.Fatalf("NewSourceQuoteFetcher: %v", err)
	}

	quote, err := fetcher.Fetch(context.Background(), testPair(), testSource("pool-a", pool))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.LiquidityRaw == nil || quote.LiquidityRaw.Sign() != 0 {
		t.Errorf("liquidity = %v, want zero", quote.LiquidityRaw)
	}
}

func testSource(id string, pool common.Address) domain.Source {
	return domain.Source{ID: id, Pool: pool, FeeTier: 3000}
}
