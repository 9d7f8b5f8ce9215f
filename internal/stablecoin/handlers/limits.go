package handlers

// limits.go implements the supply-cap read endpoints

import (
	"errors"
	"net/http"
	"time"

	"github.com/reflect-protocol/reflect-api/internal/services"
	"github.com/reflect-protocol/reflect-api/internal/stablecoin"
)

// LimitsHandler handles supply-cap queries
type LimitsHandler struct {
	rates    services.RateProvider
	registry *stablecoin.Registry
	timeout  time.Duration
}

// NewLimitsHandler creates a new handler for supply-cap queries
func NewLimitsHandler(rates services.RateProvider, registry *stablecoin.Registry, timeout time.Duration) *LimitsHandler {
	return &LimitsHandler{rates: rates, registry: registry, timeout: timeout}
}

// SupplyCapResponse is the supply-cap record for one stablecoin
type SupplyCapResponse struct {
	Index                 int   `json:"index" example:"0"`
	SupplyCap             int64 `json:"supplyCap" example:"1000000000"`
	CurrentSupply         int64 `json:"currentSupply" example:"500000000"`
	RemainingCapacity     int64 `json:"remainingCapacity" example:"500000000"`
	UtilizationPercentage int64 `json:"utilizationPercentage" example:"50"`
}

// HandleAllLimits godoc
//
//	@Summary		Get supply caps for all stablecoins
//	@Description	Retrieve supply caps, current supply and remaining capacity for all stablecoins.
//	@Tags			Stablecoins
//	@Produce		json
//	@Success		200	{object}	stablecoin.ResponseEnvelope{data=[]SupplyCapResponse}
//	@Failure		500	{object}	stablecoin.ResponseEnvelope	"Supply provider unavailable"
//	@Router			/stablecoins/limits [get]
func (h *LimitsHandler) HandleAllLimits(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := providerContext(r.Context(), h.timeout)
	defer cancel()

	// A provider with no cap rows is an empty collection, not a missing asset.
	caps, err := h.rates.SupplyCaps(ctx)
	if err != nil && !errors.Is(err, services.ErrNotFound) {
		stablecoin.RespondWithError(w, r, stablecoin.WrapUpstreamError(err, "failed to fetch supply caps"))
		return
	}

	data := make([]SupplyCapResponse, len(caps))
	for i, c := range caps {
		data[i] = supplyCapResponse(c)
	}

	stablecoin.RespondWithData(w, http.StatusOK, data)
}

// HandleLimits godoc
//
//	@Summary	Get the supply cap for a stablecoin
//	@Tags		Stablecoins
//	@Produce	json
//	@Param		stablecoinIndex	path		int	true	"Stablecoin index"
//	@Success	200				{object}	stablecoin.ResponseEnvelope{data=SupplyCapResponse}
//	@Failure	404				{object}	stablecoin.ResponseEnvelope	"Unknown stablecoin index"
//	@Failure	500				{object}	stablecoin.ResponseEnvelope	"Supply provider unavailable"
//	@Router		/stablecoins/{stablecoinIndex}/limits [get]
func (h *LimitsHandler) HandleLimits(w http.ResponseWriter, r *http.Request) {
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

	c, err := h.rates.SupplyCap(ctx, index)
	if err != nil {
		stablecoin.RespondWithError(w, r, mapProviderError(err, "failed to fetch supply cap"))
		return
	}

	stablecoin.RespondWithData(w, http.StatusOK, supplyCapResponse(c))
}

func supplyCapResponse(c stablecoin.SupplyCap) SupplyCapResponse {
	return SupplyCapResponse{
		Index:                 c.StablecoinIndex,
		SupplyCap:             c.Cap,
		CurrentSupply:         c.CurrentSupply,
		RemainingCapacity:     c.RemainingCapacity(),
		UtilizationPercentage: c.UtilizationPercentage(),
	}
}
