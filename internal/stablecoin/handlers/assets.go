package handlers

// assets.go implements the GET /stablecoins endpoint

import (
	"net/http"

	"github.com/reflect-protocol/reflect-api/internal/stablecoin"
)

// AssetsHandler lists the available stablecoins
type AssetsHandler struct {
	registry *stablecoin.Registry
}

// NewAssetsHandler creates a new handler for the asset listing
func NewAssetsHandler(registry *stablecoin.Registry) *AssetsHandler {
	return &AssetsHandler{registry: registry}
}

// AssetResponse is one available stablecoin
type AssetResponse struct {
	Index int    `json:"index" example:"0"`
	Name  string `json:"name" example:"USDC+"`
}

// HandleList godoc
//
//	@Summary	List available stablecoins
//	@Tags		Stablecoins
//	@Produce	json
//	@Success	200	{object}	stablecoin.ResponseEnvelope{data=[]AssetResponse}
//	@Router		/stablecoins [get]
func (h *AssetsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	assets := h.registry.Assets()
	data := make([]AssetResponse, len(assets))
	for i, a := range assets {
		data[i] = AssetResponse{Index: a.Index, Name: a.Name}
	}
	stablecoin.RespondWithData(w, http.StatusOK, data)
}
