package stablecoin

// validate.go implements the validation layer. Rules run in a fixed order
// and the first failure wins. Validators are pure functions over their
// inputs and perform no I/O.

// Stable user-facing messages. These are part of the API contract and must
// not change between releases.
const (
	MsgInvalidAmount = "Invalid request data: depositAmount must be positive"
	MsgAssetNotFound = "Stablecoin with the specified index not found"
)

// ValidateQuoteRequest checks a quote request against the registry.
//
// Order: amount > 0, then asset known. The operation kind is checked at
// parse time, before this function runs.
func ValidateQuoteRequest(req QuoteRequest, registry *Registry) error {
	if req.DepositAmount <= 0 {
		return NewInvalidAmountError(MsgInvalidAmount)
	}
	if _, ok := registry.Lookup(req.StablecoinIndex); !ok {
		return NewAssetNotFoundError(MsgAssetNotFound)
	}
	return nil
}

// ValidateTxRequest checks a transaction-construction request.
//
// Order: amount > 0, asset known, then required operation parameters
// (signer and minimumReceived).
func ValidateTxRequest(req TxRequest, registry *Registry) error {
	quoteReq := QuoteRequest{
		StablecoinIndex: req.StablecoinIndex,
		DepositAmount:   req.DepositAmount,
		Operation:       req.Operation,
	}
	if err := ValidateQuoteRequest(quoteReq, registry); err != nil {
		return err
	}
	if req.Signer == "" {
		return NewMissingFieldError("Invalid request data: signer is required")
	}
	if req.MinimumReceived == nil {
		return NewMissingFieldError("Invalid request data: minimumReceived is required")
	}
	if *req.MinimumReceived < 0 {
		return NewInvalidAmountError("Invalid request data: minimumReceived must not be negative")
	}
	return nil
}

// ValidateDayCount checks the days parameter of historical queries.
func ValidateDayCount(days int) error {
	if days < 1 {
		return NewInvalidRangeError("Invalid request data: days must be at least 1")
	}
	return nil
}

// ValidateLimit checks the limit parameter of event queries.
func ValidateLimit(limit int) error {
	if limit < 1 {
		return NewInvalidRangeError("Invalid request data: limit must be at least 1")
	}
	return nil
}
