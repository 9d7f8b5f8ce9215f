package handlers

// integration.go implements the whitelabel integration endpoints. Partners
// mint and redeem through the same quote engine; the descriptor carries the
// partner's recipient/holder address alongside the signer.

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/reflect-protocol/reflect-api/internal/services"
	"github.com/reflect-protocol/reflect-api/internal/stablecoin"
)

// IntegrationHandler handles integration-partner requests
type IntegrationHandler struct {
	rates    services.RateProvider
	registry *stablecoin.Registry
	feeBps   int64
	timeout  time.Duration
}

// NewIntegrationHandler creates a new handler for integration-partner endpoints
func NewIntegrationHandler(rates services.RateProvider, registry *stablecoin.Registry, feeBps int64, timeout time.Duration) *IntegrationHandler {
	return &IntegrationHandler{
		rates:    rates,
		registry: registry,
		feeBps:   feeBps,
		timeout:  timeout,
	}
}

// IntegrationMintRequest is the request body for POST /integrations/mint/tx
type IntegrationMintRequest struct {
	StablecoinIndex int    `json:"stablecoinIndex" example:"0"`
	DepositAmount   int64  `json:"depositAmount" example:"1000000"`
	Signer          string `json:"signer" example:"9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM"`
	Recipient       string `json:"recipient" example:"4Nd1mBQtrMJVYVfKf2PJy9NZUZdTAsp7D4xWLs4gDB4T"`
	MinimumReceived *int64 `json:"minimumReceived" example:"999000"`
	CollateralMint  string `json:"collateralMint,omitempty"`
}

// IntegrationRedeemRequest is the request body for POST /integrations/redeem/tx
type IntegrationRedeemRequest struct {
	StablecoinIndex int    `json:"stablecoinIndex" example:"0"`
	DepositAmount   int64  `json:"depositAmount" example:"1000000"`
	Holder          string `json:"holder" example:"9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM"`
	MinimumReceived *int64 `json:"minimumReceived" example:"999000"`
}

// IntegrationClaimRequest is the request body for POST /integrations/claim/tx
type IntegrationClaimRequest struct {
	StablecoinIndex int    `json:"stablecoinIndex" example:"0"`
	DepositAmount   int64  `json:"depositAmount" example:"1000000"`
	Claimant        string `json:"claimant" example:"9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM"`
}

// HandleMintTx godoc
//
//	@Summary		Generate an unsigned whitelabel mint transaction
//	@Description	Mints to the partner's recipient address rather than the signer.
//	@Tags			Integrations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		IntegrationMintRequest	true	"Mint parameters"
//	@Success		200		{object}	stablecoin.ResponseEnvelope{data=TransactionResponse}
//	@Failure		400		{object}	stablecoin.ResponseEnvelope	"Invalid request data"
//	@Failure		404		{object}	stablecoin.ResponseEnvelope	"Unknown stablecoin index"
//	@Failure		500		{object}	stablecoin.ResponseEnvelope	"Rate provider unavailable"
//	@Router			/integrations/mint/tx [post]
func (h *IntegrationHandler) HandleMintTx(w http.ResponseWriter, r *http.Request) {
	var body IntegrationMintRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		stablecoin.RespondWithError(w, r, stablecoin.WrapMalformedRequestError(err, "failed to decode request JSON"))
		return
	}
	defer r.Body.Close()

	req := stablecoin.TxRequest{
		StablecoinIndex: body.StablecoinIndex,
		DepositAmount:   body.DepositAmount,
		Operation:       stablecoin.OperationMint,
		Signer:          body.Signer,
		MinimumReceived: body.MinimumReceived,
		CollateralMint:  body.CollateralMint,
	}
	if err := stablecoin.ValidateTxRequest(req, h.registry); err != nil {
		stablecoin.RespondWithError(w, r, err)
		return
	}
	if body.Recipient == "" {
		stablecoin.RespondWithError(w, r, stablecoin.NewMissingFieldError("Invalid request data: recipient is required"))
		return
	}

	h.buildAndRespond(w, r, req, stablecoin.OperationMint, stablecoin.DescriptorParties{
		Signer:          body.Signer,
		Recipient:       body.Recipient,
		CollateralMint:  body.CollateralMint,
		MinimumReceived: body.MinimumReceived,
	})
}

// HandleRedeemTx godoc
//
//	@Summary	Generate an unsigned whitelabel redemption transaction
//	@Tags		Integrations
//	@Accept		json
//	@Produce	json
//	@Param		request	body		IntegrationRedeemRequest	true	"Redemption parameters"
//	@Success	200		{object}	stablecoin.ResponseEnvelope{data=TransactionResponse}
//	@Failure	400		{object}	stablecoin.ResponseEnvelope	"Invalid request data"
//	@Failure	404		{object}	stablecoin.ResponseEnvelope	"Unknown stablecoin index"
//	@Failure	500		{object}	stablecoin.ResponseEnvelope	"Rate provider unavailable"
//	@Router		/integrations/redeem/tx [post]
func (h *IntegrationHandler) HandleRedeemTx(w http.ResponseWriter, r *http.Request) {
	var body IntegrationRedeemRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		stablecoin.RespondWithError(w, r, stablecoin.WrapMalformedRequestError(err, "failed to decode request JSON"))
		return
	}
	defer r.Body.Close()

	req := stablecoin.TxRequest{
		StablecoinIndex: body.StablecoinIndex,
		DepositAmount:   body.DepositAmount,
		Operation:       stablecoin.OperationRedeem,
		Signer:          body.Holder,
		MinimumReceived: body.MinimumReceived,
	}
	if err := stablecoin.ValidateTxRequest(req, h.registry); err != nil {
		stablecoin.RespondWithError(w, r, err)
		return
	}

	h.buildAndRespond(w, r, req, stablecoin.OperationRedeem, stablecoin.DescriptorParties{
		Signer:          body.Holder,
		MinimumReceived: body.MinimumReceived,
	})
}

// HandleClaimTx godoc
//
//	@Summary		Generate an unsigned collateral claim transaction
//	@Description	Claims collateral from a completed redemption. Claims construct a
//	@Description	redeem-kind descriptor for the claimant; no slippage threshold applies.
//	@Tags			Integrations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		IntegrationClaimRequest	true	"Claim parameters"
//	@Success		200		{object}	stablecoin.ResponseEnvelope{data=TransactionResponse}
//	@Failure		400		{object}	stablecoin.ResponseEnvelope	"Invalid request data"
//	@Failure		404		{object}	stablecoin.ResponseEnvelope	"Unknown stablecoin index"
//	@Failure		500		{object}	stablecoin.ResponseEnvelope	"Rate provider unavailable"
//	@Router			/integrations/claim/tx [post]
func (h *IntegrationHandler) HandleClaimTx(w http.ResponseWriter, r *http.Request) {
	var body IntegrationClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		stablecoin.RespondWithError(w, r, stablecoin.WrapMalformedRequestError(err, "failed to decode request JSON"))
		return
	}
	defer r.Body.Close()

	quoteReq := stablecoin.QuoteRequest{
		StablecoinIndex: body.StablecoinIndex,
		DepositAmount:   body.DepositAmount,
		Operation:       stablecoin.OperationRedeem,
	}
	if err := stablecoin.ValidateQuoteRequest(quoteReq, h.registry); err != nil {
		stablecoin.RespondWithError(w, r, err)
		return
	}
	if body.Claimant == "" {
		stablecoin.RespondWithError(w, r, stablecoin.NewMissingFieldError("Invalid request data: claimant is required"))
		return
	}

	req := stablecoin.TxRequest{
		StablecoinIndex: body.StablecoinIndex,
		DepositAmount:   body.DepositAmount,
		Operation:       stablecoin.OperationRedeem,
		Signer:          body.Claimant,
	}
	h.buildAndRespond(w, r, req, stablecoin.OperationRedeem, stablecoin.DescriptorParties{
		Signer: body.Claimant,
	})
}

// HandleExchangeRate godoc
//
//	@Summary	Get the current exchange rate for an integration's stablecoin
//	@Tags		Integrations
//	@Produce	json
//	@Param		stablecoinIndex	path		int	true	"Stablecoin index"
//	@Success	200				{object}	stablecoin.ResponseEnvelope{data=CurrentRateResponse}
//	@Failure	404				{object}	stablecoin.ResponseEnvelope	"Unknown stablecoin index"
//	@Failure	500				{object}	stablecoin.ResponseEnvelope	"Rate provider unavailable"
//	@Router		/integrations/{stablecoinIndex}/exchange-rate [get]
func (h *IntegrationHandler) HandleExchangeRate(w http.ResponseWriter, r *http.Request) {
	index, err := parseStablecoinIndex(r)
	if err != nil {
		stablecoin.RespondWithError(w, r, err)
		return
	}
	if _, ok := h.registry.Lookup(index); !ok {
		stablecoin.RespondWithError(w, r, stablecoin.NewAssetNotFoundError(stablecoin.MsgAssetNotFound))
		return
	}

	ctx, cancel := providerContext(r.Context(), h.timeout)
	defer cancel()

	rate, err := h.rates.CurrentRate(ctx, index)
	if err != nil {
		stablecoin.RespondWithError(w, r, mapProviderError(err, "failed to fetch exchange rate"))
		return
	}

	stablecoin.RespondWithData(w, http.StatusOK, CurrentRateResponse{
		Base:    rate.BaseUSDValueBps,
		Receipt: rate.ReceiptUSDValueBps,
	})
}

// buildAndRespond quotes the validated request, builds the descriptor and
// sends the transaction response.
func (h *IntegrationHandler) buildAndRespond(w http.ResponseWriter, r *http.Request, req stablecoin.TxRequest, kind stablecoin.OperationKind, parties stablecoin.DescriptorParties) {
	ctx, cancel := providerContext(r.Context(), h.timeout)
	defer cancel()

	rate, err := h.rates.CurrentRate(ctx, req.StablecoinIndex)
	if err != nil {
		stablecoin.RespondWithError(w, r, mapProviderError(err, "failed to fetch exchange rate"))
		return
	}

	quote := stablecoin.ComputeQuote(stablecoin.QuoteRequest{
		StablecoinIndex: req.StablecoinIndex,
		DepositAmount:   req.DepositAmount,
		Operation:       kind,
	}, rate, h.feeBps)

	descriptor, err := stablecoin.BuildDescriptor(quote, kind, parties)
	if err != nil {
		stablecoin.RespondWithError(w, r, err)
		return
	}

	stablecoin.RespondWithData(w, http.StatusOK, TransactionResponse{
		Transaction: descriptor.Transaction,
	})
}
