package handlers

// stats.go implements the protocol statistics endpoints

import (
	"net/http"
	"time"

	"github.com/reflect-protocol/reflect-api/internal/services"
	"github.com/reflect-protocol/reflect-api/internal/stablecoin"
)

// StatsHandler handles protocol statistics queries
type StatsHandler struct {
	stats   services.StatsProvider
	timeout time.Duration
}

// NewStatsHandler creates a new handler for protocol statistics
func NewStatsHandler(stats services.StatsProvider, timeout time.Duration) *StatsHandler {
	return &StatsHandler{stats: stats, timeout: timeout}
}

// ProtocolStatsResponse is the protocol-wide statistics payload
type ProtocolStatsResponse struct {
	TotalMinted   int64 `json:"totalMinted" example:"50000"`
	TotalRedeemed int64 `json:"totalRedeemed" example:"10000"`
}

// StatsPointResponse is one day of historical TVL and volume
type StatsPointResponse struct {
	Timestamp string `json:"timestamp" example:"2025-12-18T00:00:00Z"`
	TVL       int64  `json:"tvl" example:"1000000"`
	Volume    int64  `json:"volume" example:"50000"`
}

// HandleProtocolStats godoc
//
//	@Summary	Get protocol-wide statistics
//	@Tags		Stats
//	@Produce	json
//	@Success	200	{object}	stablecoin.ResponseEnvelope{data=ProtocolStatsResponse}
//	@Failure	500	{object}	stablecoin.ResponseEnvelope	"Stats provider unavailable"
//	@Router		/stats/protocol [get]
func (h *StatsHandler) HandleProtocolStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := providerContext(r.Context(), h.timeout)
	defer cancel()

	stats, err := h.stats.GetProtocolStats(ctx)
	if err != nil {
		stablecoin.RespondWithError(w, r, stablecoin.WrapUpstreamError(err, "failed to fetch protocol stats"))
		return
	}

	stablecoin.RespondWithData(w, http.StatusOK, ProtocolStatsResponse{
		TotalMinted:   stats.TotalMinted,
		TotalRedeemed: stats.TotalRedeemed,
	})
}

// HandleHistoricalStats godoc
//
//	@Summary		Get historical TVL and volume
//	@Description	Returns one point per day for the requested window, oldest first.
//	@Tags			Stats
//	@Produce		json
//	@Param			days	query		int	false	"Number of days (default 30)"
//	@Success		200		{object}	stablecoin.ResponseEnvelope{data=[]StatsPointResponse}
//	@Failure		400		{object}	stablecoin.ResponseEnvelope	"Invalid day count"
//	@Failure		500		{object}	stablecoin.ResponseEnvelope	"Stats provider unavailable"
//	@Router			/stats/historical [get]
func (h *StatsHandler) HandleHistoricalStats(w http.ResponseWriter, r *http.Request) {
	days, err := parseDays(r)
	if err != nil {
		stablecoin.RespondWithError(w, r, err)
		return
	}

	ctx, cancel := providerContext(r.Context(), h.timeout)
	defer cancel()

	points, err := h.stats.HistoricalStats(ctx, days)
	if err != nil {
		stablecoin.RespondWithError(w, r, stablecoin.WrapUpstreamError(err, "failed to fetch historical stats"))
		return
	}

	data := make([]StatsPointResponse, len(points))
	for i, p := range points {
		data[i] = StatsPointResponse{
			Timestamp: p.Timestamp.UTC().Format(time.RFC3339),
			TVL:       p.TVL,
			Volume:    p.Volume,
		}
	}

	stablecoin.RespondWithData(w, http.StatusOK, data)
}
