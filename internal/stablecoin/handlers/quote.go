package handlers

// quote.go implements the POST /stablecoins/quote endpoint

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/reflect-protocol/reflect-api/internal/services"
	"github.com/reflect-protocol/reflect-api/internal/stablecoin"
)

// QuoteHandler handles POST /stablecoins/quote requests
type QuoteHandler struct {
	rates    services.RateProvider
	registry *stablecoin.Registry
	feeBps   int64
	timeout  time.Duration
}

// NewQuoteHandler creates a new handler for mint/redeem/burn quotes
func NewQuoteHandler(rates services.RateProvider, registry *stablecoin.Registry, feeBps int64, timeout time.Duration) *QuoteHandler {
	return &QuoteHandler{
		rates:    rates,
		registry: registry,
		feeBps:   feeBps,
		timeout:  timeout,
	}
}

// QuoteRequestBody is the request body for POST /stablecoins/quote
type QuoteRequestBody struct {
	// StablecoinIndex is the index of the stablecoin (0 = USDC+)
	StablecoinIndex int `json:"stablecoinIndex" example:"0"`

	// DepositAmount is the amount to quote, in the smallest unit. Must be positive.
	DepositAmount int64 `json:"depositAmount" example:"1000000"`

	// Operation is one of "mint", "redeem" or "burn"
	Operation string `json:"operation" example:"mint"`
}

// QuoteResponse is the data payload of a successful quote
type QuoteResponse struct {
	Gross int64 `json:"gross" example:"1000000"`
	Fee   int64 `json:"fee" example:"1000"`
	Net   int64 `json:"net" example:"999000"`
}

// HandleQuote godoc
//
//	@Summary		Quote a mint/redeem/burn operation
//	@Description	Computes a deterministic, non-binding quote for the given deposit amount.
//	@Description	The fee schedule is a protocol constant (default 10 bps); net = gross - fee.
//	@Tags			Stablecoins
//	@Accept			json
//	@Produce		json
//	@Param			request	body		QuoteRequestBody				true	"Quote parameters"
//	@Success		200		{object}	stablecoin.ResponseEnvelope{data=QuoteResponse}
//	@Failure		400		{object}	stablecoin.ResponseEnvelope	"Invalid deposit amount"
//	@Failure		404		{object}	stablecoin.ResponseEnvelope	"Unknown stablecoin index or operation"
//	@Failure		500		{object}	stablecoin.ResponseEnvelope	"Rate provider unavailable"
//	@Router			/stablecoins/quote [post]
func (h *QuoteHandler) HandleQuote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body QuoteRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		stablecoin.RespondWithError(w, r, stablecoin.WrapMalformedRequestError(err, "failed to decode request JSON"))
		return
	}
	defer r.Body.Close()

	// Amount and asset are checked before the operation kind: a request that
	// is both malformed in amount and unknown in operation reports the amount.
	req := stablecoin.QuoteRequest{
		StablecoinIndex: body.StablecoinIndex,
		DepositAmount:   body.DepositAmount,
	}
	if err := stablecoin.ValidateQuoteRequest(req, h.registry); err != nil {
		stablecoin.RespondWithError(w, r, err)
		return
	}

	kind, err := stablecoin.ParseOperationKind(body.Operation)
	if err != nil {
		stablecoin.RespondWithError(w, r, err)
		return
	}
	req.Operation = kind

	rateCtx, cancel := providerContext(ctx, h.timeout)
	defer cancel()

	rate, err := h.rates.CurrentRate(rateCtx, req.StablecoinIndex)
	if err != nil {
		stablecoin.RespondWithError(w, r, mapProviderError(err, "failed to fetch exchange rate"))
		return
	}

	quote := stablecoin.ComputeQuote(req, rate, h.feeBps)

	stablecoin.RespondWithData(w, http.StatusOK, QuoteResponse{
		Gross: quote.Gross,
		Fee:   quote.Fee,
		Net:   quote.Net,
	})
}
