package handlers

// rates.go implements the exchange-rate read endpoints

import (
	"net/http"
	"time"

	"github.com/reflect-protocol/reflect-api/internal/services"
	"github.com/reflect-protocol/reflect-api/internal/stablecoin"
)

// RatesHandler handles exchange-rate queries
type RatesHandler struct {
	rates    services.RateProvider
	registry *stablecoin.Registry
	timeout  time.Duration
}

// NewRatesHandler creates a new handler for exchange-rate queries
func NewRatesHandler(rates services.RateProvider, registry *stablecoin.Registry, timeout time.Duration) *RatesHandler {
	return &RatesHandler{rates: rates, registry: registry, timeout: timeout}
}

// CurrentRateResponse is the data payload for the realtime exchange rate
type CurrentRateResponse struct {
	// Base is the base USD value in basis points
	Base int64 `json:"base" example:"1016858791"`

	// Receipt is the receipt USD value in basis points
	Receipt int64 `json:"receipt" example:"1016858791"`
}

// HistoricalRateResponse is one historical exchange-rate record
type HistoricalRateResponse struct {
	ID                 int64  `json:"id" example:"104135"`
	Stablecoin         int    `json:"stablecoin" example:"0"`
	BaseUSDValueBps    int64  `json:"baseUsdValueBps" example:"1016733625"`
	ReceiptUSDValueBps int64  `json:"receiptUsdValueBps" example:"1016733625"`
	Timestamp          string `json:"timestamp" example:"2025-12-18T17:46:10Z"`
}

// HandleCurrentRate godoc
//
//	@Summary	Get the realtime exchange rate for a stablecoin
//	@Tags		Stablecoins
//	@Produce	json
//	@Param		stablecoinIndex	path		int	true	"Stablecoin index"
//	@Success	200				{object}	stablecoin.ResponseEnvelope{data=CurrentRateResponse}
//	@Failure	404				{object}	stablecoin.ResponseEnvelope	"Unknown stablecoin index"
//	@Failure	500				{object}	stablecoin.ResponseEnvelope	"Rate provider unavailable"
//	@Router		/stablecoins/{stablecoinIndex}/exchange-rate [get]
func (h *RatesHandler) HandleCurrentRate(w http.ResponseWriter, r *http.Request) {
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

// HandleHistoricalRates godoc
//
//	@Summary		Get historical exchange rates
//	@Description	Returns exchange-rate snapshots for the requested window, oldest first.
//	@Tags			Stablecoins
//	@Produce		json
//	@Param			stablecoin	query		int	true	"Stablecoin index"
//	@Param			days		query		int	false	"Number of days (default 30)"
//	@Success		200			{object}	stablecoin.ResponseEnvelope{data=[]HistoricalRateResponse}
//	@Failure		400			{object}	stablecoin.ResponseEnvelope	"Invalid day count"
//	@Failure		404			{object}	stablecoin.ResponseEnvelope	"Unknown stablecoin index"
//	@Failure		500			{object}	stablecoin.ResponseEnvelope	"Rate provider unavailable"
//	@Router			/stablecoins/exchange-rates/historical [get]
func (h *RatesHandler) HandleHistoricalRates(w http.ResponseWriter, r *http.Request) {
	index, err := parseQueryIndex(r)
	if err != nil {
		stablecoin.RespondWithError(w, r, err)
		return
	}
	if _, ok := h.registry.Lookup(index); !ok {
		stablecoin.RespondWithError(w, r, stablecoin.NewAssetNotFoundError(stablecoin.MsgAssetNotFound))
		return
	}

	days, err := parseDays(r)
	if err != nil {
		stablecoin.RespondWithError(w, r, err)
		return
	}

	ctx, cancel := providerContext(r.Context(), h.timeout)
	defer cancel()

	rates, err := h.rates.HistoricalRates(ctx, index, days)
	if err != nil {
		stablecoin.RespondWithError(w, r, mapProviderError(err, "failed to fetch historical rates"))
		return
	}

	data := make([]HistoricalRateResponse, len(rates))
	for i, rate := range rates {
		data[i] = HistoricalRateResponse{
			ID:                 rate.ID,
			Stablecoin:         rate.StablecoinIndex,
			BaseUSDValueBps:    rate.BaseUSDValueBps,
			ReceiptUSDValueBps: rate.ReceiptUSDValueBps,
			Timestamp:          rate.Timestamp.UTC().Format(time.RFC3339),
		}
	}

	stablecoin.RespondWithData(w, http.StatusOK, data)
}
