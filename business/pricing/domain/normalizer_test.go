package domain

import (
	"math"
	"math/big"
	"testing"
	"time"
)

// sqrtX96 builds a raw sqrt price of value * 2^96 / divisor.
func sqrtX96(value int64, divisor int64) *big.Int {
	raw := new(big.Int).Lsh(big.NewInt(value), 96)
	return raw.Div(raw, big.NewInt(divisor))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name          string
		raw           *big.Int
		baseDecimals  int
		quoteDecimals int
		wantPrice     float64
		wantInverse   float64
	}{
		{
			name:          "unit_price_equal_decimals",
			raw:           sqrtX96(1, 1),
			baseDecimals:  18,
			quoteDecimals: 18,
			wantPrice:     1,
			wantInverse:   1,
		},
		{
			name:          "sqrt_two_squares_to_four",
			raw:           sqrtX96(2, 1),
			baseDecimals:  6,
			quoteDecimals: 6,
			wantPrice:     4,
			wantInverse:   0.25,
		},
		{
			name:          "sqrt_half_squares_to_quarter",
			raw:           sqrtX96(1, 2),
			baseDecimals:  6,
			quoteDecimals: 6,
			wantPrice:     0.25,
			wantInverse:   4,
		},
		{
			name:          "sqrt_three_squares_to_nine",
			raw:           sqrtX96(3, 1),
			baseDecimals:  8,
			quoteDecimals: 8,
			wantPrice:     9,
			wantInverse:   1.0 / 9.0,
		},
		{
			name:          "decimal_gap_scales_up",
			raw:           sqrtX96(1, 1),
			baseDecimals:  18,
			quoteDecimals: 6,
			wantPrice:     1e12,
			wantInverse:   1e-12,
		},
		{
			name:          "decimal_gap_scales_down",
			raw:           sqrtX96(1, 1),
			baseDecimals:  6,
			quoteDecimals: 18,
			wantPrice:     1e-12,
			wantInverse:   1e12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, inverse := Normalize(tt.raw, tt.baseDecimals, tt.quoteDecimals)

			if !closeTo(price, tt.wantPrice, 1e-9) {
				t.Errorf("price = %g, want %g", price, tt.wantPrice)
			}
			if !closeTo(inverse, tt.wantInverse, 1e-9) {
				t.Errorf("inverse = %g, want %g", inverse, tt.wantInverse)
			}
		})
	}
}

func TestNormalize_ZeroRawPrice(t *testing.T) {
	for _, raw := range []*big.Int{nil, big.NewInt(0)} {
		price, inverse := Normalize(raw, 18, 6)

		if price != 0 {
			t.Errorf("price = %g, want 0", price)
		}
		if !math.IsInf(inverse, 1) {
			t.Errorf("inverse = %g, want +Inf sentinel", inverse)
		}
		if math.IsNaN(price) || math.IsNaN(inverse) {
			t.Error("zero input must never produce NaN")
		}
	}
}

func TestNormalize_ReciprocalProduct(t *testing.T) {
	// priceBaseInQuote * priceQuoteInBase ~ 1 for any nonzero input.
	inputs := []struct {
		raw           *big.Int
		baseDecimals  int
		quoteDecimals int
	}{
		{sqrtX96(1, 1), 18, 6},
		{sqrtX96(7, 3), 6, 18},
		{sqrtX96(1000, 1), 8, 8},
		{bigFromString(t, "4339505179874779662909440"), 18, 6}, // ~3000 quote per base
		{big.NewInt(1), 18, 18},                                // tiniest nonzero encoding
	}

	for _, in := range inputs {
		price, inverse := Normalize(in.raw, in.baseDecimals, in.quoteDecimals)
		if price == 0 {
			t.Fatalf("unexpected zero price for raw=%s", in.raw)
		}
		product := price * inverse
		if !closeTo(product, 1, 1e-9) {
			t.Errorf("price*inverse = %g, want ~1 (raw=%s)", product, in.raw)
		}
	}
}

func TestNormalize_RealisticMainnetEncoding(t *testing.T) {
	// sqrt(3000 * 10^-12) * 2^96 for an 18/6 decimal pair prices the base
	// asset at ~3000 quote units.
	raw := bigFromString(t, "4339505179874779662909440")

	price, _ := Normalize(raw, 18, 6)

	if !closeTo(price, 3000, 1e-3) {
		t.Errorf("price = %f, want ~3000", price)
	}
}

func TestPriceDifferencePercent(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		want float64
	}{
		{"identical", 3000, 3000, 0},
		{"one_percent_apart", 3000, 3030.150753768844, 1},
		{"zero_a", 0, 3000, 0},
		{"zero_b", 3000, 0, 0},
		{"both_zero", 0, 0, 0},
		{"small_gap", 3000, 3001, 0.0333277},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PriceDifferencePercent(tt.a, tt.b)
			if !closeTo(got, tt.want, 1e-4) {
				t.Errorf("PriceDifferencePercent(%g, %g) = %g, want %g", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestPriceDifferencePercent_Symmetry(t *testing.T) {
	cases := [][2]float64{
		{3000, 3030},
		{1, 2},
		{0.001, 0.00101},
		{99999, 100001},
	}

	for _, c := range cases {
		ab := PriceDifferencePercent(c[0], c[1])
		ba := PriceDifferencePercent(c[1], c[0])
		if ab != ba {
			t.Errorf("not symmetric: f(%g,%g)=%g but f(%g,%g)=%g", c[0], c[1], ab, c[1], c[0], ba)
		}
	}
}

func TestNewNormalizedQuote(t *testing.T) {
	point := PricePoint{
		SourceID:      "univ3-500",
		RawSqrtPrice:  sqrtX96(1, 1),
		BaseDecimals:  18,
		QuoteDecimals: 18,
	}
	liquidity := big.NewInt(123456)
	observed := time.Now()

	q := NewNormalizedQuote(point, liquidity, observed)

	if q.SourceID != "univ3-500" {
		t.Errorf("SourceID = %q", q.SourceID)
	}
	if !q.PriceDefined() {
		t.Error("expected defined price")
	}
	if q.LiquidityRaw.Cmp(liquidity) != 0 {
		t.Errorf("LiquidityRaw = %s, want %s", q.LiquidityRaw, liquidity)
	}
	// Defensive copy: mutating the input must not reach the quote.
	liquidity.SetInt64(0)
	if q.LiquidityRaw.Sign() == 0 {
		t.Error("LiquidityRaw aliases caller's big.Int")
	}
	if !q.ObservedAt.Equal(observed) {
		t.Errorf("ObservedAt = %v, want %v", q.ObservedAt, observed)
	}
}

func TestNewNormalizedQuote_EmptyPool(t *testing.T) {
	point := PricePoint{SourceID: "dead-pool", RawSqrtPrice: big.NewInt(0), BaseDecimals: 18, QuoteDecimals: 6}

	q := NewNormalizedQuote(point, nil, time.Now())

	if q.PriceDefined() {
		t.Error("zero price must not be reported as defined")
	}
	if q.InverseDefined() {
		t.Error("inverse of zero price must be the undefined sentinel")
	}
	if q.LiquidityRaw == nil || q.LiquidityRaw.Sign() != 0 {
		t.Errorf("LiquidityRaw = %v, want zero", q.LiquidityRaw)
	}
}

func closeTo(got, want, relTol float64) bool {
	if want == 0 {
		return math.Abs(got) <= relTol
	}
	return math.Abs(got-want)/math.Abs(want) <= relTol
}

func bigFromString(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		t.Fatalf("bad big.Int fixture: %s", s)
	}
	return v
}

func BenchmarkNormalize(b *testing.B) {
	raw, _ := new(big.Int).SetString("4339505179874779662909440", 10)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Normalize(raw, 18, 6)
	}
}
