package handlers

// apy.go implements the APY read endpoints

import (
	"errors"
	"net/http"
	"time"

	"github.com/reflect-protocol/reflect-api/internal/services"
	"github.com/reflect-protocol/reflect-api/internal/stablecoin"
)

// APYHandler handles APY queries
type APYHandler struct {
	rates    services.RateProvider
	registry *stablecoin.Registry
	timeout  time.Duration
}

// NewAPYHandler creates a new handler for APY queries
func NewAPYHandler(rates services.RateProvider, registry *stablecoin.Registry, timeout time.Duration) *APYHandler {
	return &APYHandler{rates: rates, registry: registry, timeout: timeout}
}

// APYResponse is one APY snapshot
type APYResponse struct {
	// Index is the stablecoin index
	Index int `json:"index" example:"0"`

	// APY is the annual percentage yield in basis points
	APY int64 `json:"apy" example:"224"`

	Timestamp string `json:"timestamp" example:"2025-12-19T16:55:42Z"`
}

// HandleAllAPY godoc
//
//	@Summary	Get the current APY for all stablecoins
//	@Tags		Stablecoins
//	@Produce	json
//	@Success	200	{object}	stablecoin.ResponseEnvelope{data=[]APYResponse}
//	@Failure	500	{object}	stablecoin.ResponseEnvelope	"Rate provider unavailable"
//	@Router		/stablecoins/apy [get]
func (h *APYHandler) HandleAllAPY(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := providerContext(r.Context(), h.timeout)
	defer cancel()

	// A provider with no APY rows is an empty collection, not a missing asset.
	snapshots, err := h.rates.AllAPY(ctx)
	if err != nil && !errors.Is(err, services.ErrNotFound) {
		stablecoin.RespondWithError(w, r, stablecoin.WrapUpstreamError(err, "failed to fetch APY snapshots"))
		return
	}

	stablecoin.RespondWithData(w, http.StatusOK, apyResponses(snapshots))
}

// HandleCurrentAPY godoc
//
//	@Summary	Get the current APY for a stablecoin
//	@Tags		Stablecoins
//	@Produce	json
//	@Param		stablecoinIndex	path		int	true	"Stablecoin index"
//	@Success	200				{object}	stablecoin.ResponseEnvelope{data=APYResponse}
//	@Failure	404				{object}	stablecoin.ResponseEnvelope	"Unknown stablecoin index"
//	@Failure	500				{object}	stablecoin.ResponseEnvelope	"Rate provider unavailable"
//	@Router		/stablecoins/{stablecoinIndex}/apy [get]
func (h *APYHandler) HandleCurrentAPY(w http.ResponseWriter, r *http.Request) {
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

	apy, err := h.rates.CurrentAPY(ctx, index)
	if err != nil {
		stablecoin.RespondWithError(w, r, mapProviderError(err, "failed to fetch APY"))
		return
	}

	stablecoin.RespondWithData(w, http.StatusOK, apyResponse(apy))
}

// HandleHistoricalAPY godoc
//
//	@Summary		Get historical APY for a stablecoin
//	@Description	Returns APY snapshots for the requested window, oldest first.
//	@Tags			Stablecoins
//	@Produce		json
//	@Param			stablecoinIndex	path		int	true	"Stablecoin index"
//	@Param			days			query		int	false	"Number of days (default 30)"
//	@Success		200				{object}	stablecoin.ResponseEnvelope{data=[]APYResponse}
//	@Failure		400				{object}	stablecoin.ResponseEnvelope	"Invalid day count"
//	@Failure		404				{object}	stablecoin.ResponseEnvelope	"Unknown stablecoin index"
//	@Failure		500				{object}	stablecoin.ResponseEnvelope	"Rate provider unavailable"
//	@Router			/stablecoins/{stablecoinIndex}/apy/historical [get]
func (h *APYHandler) HandleHistoricalAPY(w http.ResponseWriter, r *http.Request) {
	index, err := parseStablecoinIndex(r)
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

	snapshots, err := h.rates.HistoricalAPY(ctx, index, days)
	if err != nil {
		stablecoin.RespondWithError(w, r, mapProviderError(err, "failed to fetch historical APY"))
		return
	}

	stablecoin.RespondWithData(w, http.StatusOK, apyResponses(snapshots))
}

func apyResponse(apy stablecoin.ApySnapshot) APYResponse {
	return APYResponse{
		Index:     apy.StablecoinIndex,
		APY:       apy.ApyBps,
		Timestamp: apy.Timestamp.UTC().Format(time.RFC3339),
	}
}

func apyResponses(snapshots []stablecoin.ApySnapshot) []APYResponse {
	data := make([]APYResponse, len(snapshots))
	for i, apy := range snapshots {
		data[i] = apyResponse(apy)
	}
	return data
}
