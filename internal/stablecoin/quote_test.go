package stablecoin

import (
	"math"
	"testing"
	"time"
)

func testRate() ExchangeRateSnapshot {
	return ExchangeRateSnapshot{
		ID:                 1,
		StablecoinIndex:    0,
		BaseUSDValueBps:    1016858791,
		ReceiptUSDValueBps: 1016858791,
		Timestamp:          time.Date(2025, 12, 19, 16, 55, 42, 0, time.UTC),
	}
}

func TestComputeQuote(t *testing.T) {
	tests := []struct {
		name     string
		amount   int64
		feeBps   int64
		wantFee  int64
		wantNet  int64
	}{
		{"reference amount at 10 bps", 1_000_000, 10, 1_000, 999_000},
		{"fee floors to zero below threshold", 999, 10, 0, 999},
		{"fee floors exactly at threshold", 1_000, 10, 1, 999},
		{"one unit", 1, 10, 0, 1},
		{"zero fee schedule", 1_000_000, 0, 0, 1_000_000},
		{"full fee schedule", 1_000_000, 10_000, 1_000_000, 0},
		{"odd amount floors", 123_456_789, 10, 123_456, 123_333_333},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := QuoteRequest{StablecoinIndex: 0, DepositAmount: tt.amount, Operation: OperationMint}
			quote := ComputeQuote(req, testRate(), tt.feeBps)

			if quote.Gross != tt.amount {
				t.Errorf("gross = %d, want %d", quote.Gross, tt.amount)
			}
			if quote.Fee != tt.wantFee {
				t.Errorf("fee = %d, want %d", quote.Fee, tt.wantFee)
			}
			if quote.Net != tt.wantNet {
				t.Errorf("net = %d, want %d", quote.Net, tt.wantNet)
			}
			if quote.Fee+quote.Net != quote.Gross {
				t.Errorf("fee (%d) + net (%d) != gross (%d)", quote.Fee, quote.Net, quote.Gross)
			}
		})
	}
}

func TestComputeQuoteUniformAcrossOperations(t *testing.T) {
	req := QuoteRequest{StablecoinIndex: 0, DepositAmount: 1_000_000}
	rate := testRate()

	mint := ComputeQuote(QuoteRequest{StablecoinIndex: req.StablecoinIndex, DepositAmount: req.DepositAmount, Operation: OperationMint}, rate, DefaultFeeBps)
	redeem := ComputeQuote(QuoteRequest{StablecoinIndex: req.StablecoinIndex, DepositAmount: req.DepositAmount, Operation: OperationRedeem}, rate, DefaultFeeBps)
	burn := ComputeQuote(QuoteRequest{StablecoinIndex: req.StablecoinIndex, DepositAmount: req.DepositAmount, Operation: OperationBurn}, rate, DefaultFeeBps)

	if mint.Fee != redeem.Fee || mint.Fee != burn.Fee {
		t.Errorf("fee schedule differs across operations: mint %d, redeem %d, burn %d", mint.Fee, redeem.Fee, burn.Fee)
	}
	if mint.Net != redeem.Net || mint.Net != burn.Net {
		t.Errorf("net differs across operations: mint %d, redeem %d, burn %d", mint.Net, redeem.Net, burn.Net)
	}
}

func TestComputeQuoteIsDeterministic(t *testing.T) {
	req := QuoteRequest{StablecoinIndex: 0, DepositAmount: 987_654_321, Operation: OperationRedeem}
	rate := testRate()

	first := ComputeQuote(req, rate, DefaultFeeBps)
	for i := 0; i < 10; i++ {
		if got := ComputeQuote(req, rate, DefaultFeeBps); got != first {
			t.Fatalf("quote changed between identical calls: %+v vs %+v", got, first)
		}
	}
}

func TestMulDivFloorNearInt64Limit(t *testing.T) {
	// amount * bps would overflow if computed naively
	amount := int64(math.MaxInt64 - 7)
	fee := mulDivFloor(amount, 10)

	if fee < 0 {
		t.Fatalf("fee overflowed: %d", fee)
	}

	// floor(amount/1000) with a small correction term; verify against the
	// decomposed arithmetic directly
	want := (amount/10000)*10 + (amount%10000)*10/10000
	if fee != want {
		t.Errorf("fee = %d, want %d", fee, want)
	}
}
