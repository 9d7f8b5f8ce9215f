package handlers

// transactions.go implements the POST /stablecoins/mint/tx and
// POST /stablecoins/burn/tx endpoints

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/reflect-protocol/reflect-api/internal/services"
	"github.com/reflect-protocol/reflect-api/internal/stablecoin"
)

// TransactionHandler handles transaction-construction requests
type TransactionHandler struct {
	rates    services.RateProvider
	registry *stablecoin.Registry
	feeBps   int64
	timeout  time.Duration
}

// NewTransactionHandler creates a new handler for mint/burn transaction construction
func NewTransactionHandler(rates services.RateProvider, registry *stablecoin.Registry, feeBps int64, timeout time.Duration) *TransactionHandler {
	return &TransactionHandler{
		rates:    rates,
		registry: registry,
		feeBps:   feeBps,
		timeout:  timeout,
	}
}

// TxRequestBody is the request body for the transaction-construction endpoints
type TxRequestBody struct {
	// StablecoinIndex is the index of the stablecoin (0 = USDC+)
	StablecoinIndex int `json:"stablecoinIndex" example:"0"`

	// DepositAmount is the amount in the smallest unit. Must be positive.
	DepositAmount int64 `json:"depositAmount" example:"1000000"`

	// Signer is the wallet address that will sign the transaction
	Signer string `json:"signer" example:"9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM"`

	// MinimumReceived is the slippage-protection threshold. Required.
	MinimumReceived *int64 `json:"minimumReceived" example:"999000"`

	// CollateralMint is the optional collateral mint address
	CollateralMint string `json:"collateralMint,omitempty" example:"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"`
}

// TransactionResponse is the data payload of a successful tx-construction request
type TransactionResponse struct {
	// Transaction is the base64-encoded unsigned transaction descriptor
	Transaction string `json:"transaction"`
}

// HandleMintTx godoc
//
//	@Summary		Generate an unsigned mint transaction
//	@Description	Validates the request, quotes the deposit and returns an opaque
//	@Description	transaction descriptor ready for external signing.
//	@Tags			Stablecoins
//	@Accept			json
//	@Produce		json
//	@Param			cluster	query		string			false	"Target network (mainnet or devnet)"
//	@Param			request	body		TxRequestBody	true	"Mint parameters"
//	@Success		200		{object}	stablecoin.ResponseEnvelope{data=TransactionResponse}
//	@Failure		400		{object}	stablecoin.ResponseEnvelope	"Invalid request data"
//	@Failure		404		{object}	stablecoin.ResponseEnvelope	"Unknown stablecoin index"
//	@Failure		500		{object}	stablecoin.ResponseEnvelope	"Rate provider unavailable"
//	@Router			/stablecoins/mint/tx [post]
func (h *TransactionHandler) HandleMintTx(w http.ResponseWriter, r *http.Request) {
	h.handleTx(w, r, stablecoin.OperationMint)
}

// HandleBurnTx godoc
//
//	@Summary	Generate an unsigned burn transaction
//	@Tags		Stablecoins
//	@Accept		json
//	@Produce	json
//	@Param		cluster	query		string			false	"Target network (mainnet or devnet)"
//	@Param		request	body		TxRequestBody	true	"Burn parameters"
//	@Success	200		{object}	stablecoin.ResponseEnvelope{data=TransactionResponse}
//	@Failure	400		{object}	stablecoin.ResponseEnvelope	"Invalid request data"
//	@Failure	404		{object}	stablecoin.ResponseEnvelope	"Unknown stablecoin index"
//	@Failure	500		{object}	stablecoin.ResponseEnvelope	"Rate provider unavailable"
//	@Router		/stablecoins/burn/tx [post]
func (h *TransactionHandler) HandleBurnTx(w http.ResponseWriter, r *http.Request) {
	h.handleTx(w, r, stablecoin.OperationBurn)
}

func (h *TransactionHandler) handleTx(w http.ResponseWriter, r *http.Request, kind stablecoin.OperationKind) {
	ctx := r.Context()

	cluster, err := parseCluster(r)
	if err != nil {
		stablecoin.RespondWithError(w, r, err)
		return
	}

	var body TxRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		stablecoin.RespondWithError(w, r, stablecoin.WrapMalformedRequestError(err, "failed to decode request JSON"))
		return
	}
	defer r.Body.Close()

	req := stablecoin.TxRequest{
		StablecoinIndex: body.StablecoinIndex,
		DepositAmount:   body.DepositAmount,
		Operation:       kind,
		Signer:          body.Signer,
		MinimumReceived: body.MinimumReceived,
		CollateralMint:  body.CollateralMint,
	}
	if err := stablecoin.ValidateTxRequest(req, h.registry); err != nil {
		stablecoin.RespondWithError(w, r, err)
		return
	}

	rateCtx, cancel := providerContext(ctx, h.timeout)
	defer cancel()

	rate, err := h.rates.CurrentRate(rateCtx, req.StablecoinIndex)
	if err != nil {
		stablecoin.RespondWithError(w, r, mapProviderError(err, "failed to fetch exchange rate"))
		return
	}

	quote := stablecoin.ComputeQuote(stablecoin.QuoteRequest{
		StablecoinIndex: req.StablecoinIndex,
		DepositAmount:   req.DepositAmount,
		Operation:       kind,
	}, rate, h.feeBps)

	descriptor, err := stablecoin.BuildDescriptor(quote, kind, stablecoin.DescriptorParties{
		Signer:          req.Signer,
		CollateralMint:  req.CollateralMint,
		MinimumReceived: req.MinimumReceived,
		Cluster:         cluster,
	})
	if err != nil {
		stablecoin.RespondWithError(w, r, err)
		return
	}

	stablecoin.RespondWithData(w, http.StatusOK, TransactionResponse{
		Transaction: descriptor.Transaction,
	})
}
