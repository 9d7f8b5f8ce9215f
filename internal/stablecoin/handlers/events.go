package handlers

// events.go implements the protocol event feed endpoints

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/reflect-protocol/reflect-api/internal/services"
	"github.com/reflect-protocol/reflect-api/internal/stablecoin"
)

// EventsHandler handles protocol event feed queries
type EventsHandler struct {
	events  services.EventSource
	timeout time.Duration
}

// NewEventsHandler creates a new handler for the event feed
func NewEventsHandler(events services.EventSource, timeout time.Duration) *EventsHandler {
	return &EventsHandler{events: events, timeout: timeout}
}

// EventResponse is one protocol event
type EventResponse struct {
	ID              string `json:"id" example:"7f1c9d2e-3a4b-4c5d-8e6f-9a0b1c2d3e4f"`
	Kind            string `json:"kind" example:"mint"`
	StablecoinIndex int    `json:"stablecoinIndex" example:"0"`
	Signer          string `json:"signer" example:"9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM"`
	Amount          int64  `json:"amount" example:"1000000"`
	Timestamp       string `json:"timestamp" example:"2025-12-19T16:55:42Z"`
}

// HandleRecentEvents godoc
//
//	@Summary		Get recent protocol events
//	@Description	Returns the most recent mint/redeem/burn events, newest first.
//	@Tags			Events
//	@Produce		json
//	@Param			limit	query		int	false	"Maximum number of events (default 20)"
//	@Success		200		{object}	stablecoin.ResponseEnvelope{data=[]EventResponse}
//	@Failure		400		{object}	stablecoin.ResponseEnvelope	"Invalid limit"
//	@Failure		500		{object}	stablecoin.ResponseEnvelope	"Event source unavailable"
//	@Router			/events/recent [get]
func (h *EventsHandler) HandleRecentEvents(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		stablecoin.RespondWithError(w, r, err)
		return
	}

	ctx, cancel := providerContext(r.Context(), h.timeout)
	defer cancel()

	events, err := h.events.RecentEvents(ctx, limit)
	if err != nil {
		stablecoin.RespondWithError(w, r, stablecoin.WrapUpstreamError(err, "failed to fetch recent events"))
		return
	}

	stablecoin.RespondWithData(w, http.StatusOK, eventResponses(events))
}

// HandleEventsBySigner godoc
//
//	@Summary	Get protocol events for a signer
//	@Tags		Events
//	@Produce	json
//	@Param		signer	path		string	true	"Signer address"
//	@Param		limit	query		int		false	"Maximum number of events (default 20)"
//	@Success	200		{object}	stablecoin.ResponseEnvelope{data=[]EventResponse}
//	@Failure	400		{object}	stablecoin.ResponseEnvelope	"Invalid limit or missing signer"
//	@Failure	500		{object}	stablecoin.ResponseEnvelope	"Event source unavailable"
//	@Router		/events/signer/{signer} [get]
func (h *EventsHandler) HandleEventsBySigner(w http.ResponseWriter, r *http.Request) {
	signer := chi.URLParam(r, "signer")
	if signer == "" {
		stablecoin.RespondWithError(w, r, stablecoin.NewMissingFieldError("Invalid request data: signer is required"))
		return
	}

	limit, err := parseLimit(r)
	if err != nil {
		stablecoin.RespondWithError(w, r, err)
		return
	}

	ctx, cancel := providerContext(r.Context(), h.timeout)
	defer cancel()

	events, err := h.events.EventsBySigner(ctx, signer, limit)
	if err != nil {
		stablecoin.RespondWithError(w, r, stablecoin.WrapUpstreamError(err, "failed to fetch events for signer"))
		return
	}

	stablecoin.RespondWithData(w, http.StatusOK, eventResponses(events))
}

func eventResponses(events []services.Event) []EventResponse {
	data := make([]EventResponse, len(events))
	for i, e := range events {
		data[i] = EventResponse{
			ID:              e.ID,
			Kind:            e.Kind,
			StablecoinIndex: e.StablecoinIndex,
			Signer:          e.Signer,
			Amount:          e.Amount,
			Timestamp:       e.Timestamp.UTC().Format(time.RFC3339),
		}
	}
	return data
}
