package stablecoin

// quote.go implements the quote engine.

// DefaultFeeBps is the documented protocol fee schedule: 10 basis points
// (0.1%) on mint, redeem and burn.
const DefaultFeeBps = 10

// ComputeQuote computes a deterministic quote for a validated request.
//
// fee = floor(amount * feeBps / 10000), net = amount - fee. The same
// schedule applies uniformly to mint and redeem; burn uses the amount
// without directional conversion. The rate snapshot is carried through for
// auditability but does not enter the arithmetic.
//
// ComputeQuote is total over the validated domain: it never fails once
// ValidateQuoteRequest has accepted the request.
func ComputeQuote(req QuoteRequest, rate ExchangeRateSnapshot, feeBps int64) Quote {
	fee := mulDivFloor(req.DepositAmount, feeBps)
	return Quote{
		StablecoinIndex: req.StablecoinIndex,
		Gross:           req.DepositAmount,
		Fee:             fee,
		Net:             req.DepositAmount - fee,
		FeeBps:          feeBps,
		Rate:            rate,
	}
}

// mulDivFloor computes floor(amount * bps / 10000) without overflowing for
// amounts near the int64 limit.
func mulDivFloor(amount, bps int64) int64 {
	quot := amount / 10000
	rem := amount % 10000
	return quot*bps + rem*bps/10000
}
