package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/callmeprinceyadav/Levich/internal/adapters/events"
	"github.com/callmeprinceyadav/Levich/internal/auction"
)

// Handler contains the HTTP request handlers for the auction API.
type Handler struct {
	service    *auction.Service
	dispatcher *events.Dispatcher
	logger     *slog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(service *auction.Service, dispatcher *events.Dispatcher, logger *slog.Logger) *Handler {
	return &Handler{
		service:    service,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Router configures all HTTP routes.
func (h *Handler) Router() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/items", h.ListItems).Methods(http.MethodGet)
	api.HandleFunc("/items/{id}", h.GetItem).Methods(http.MethodGet)
	api.HandleFunc("/items/{id}/bids", h.ListBids).Methods(http.MethodGet)
	api.HandleFunc("/items/{id}/bids", h.PlaceBid).Methods(http.MethodPost)
	api.HandleFunc("/reset", h.Reset).Methods(http.MethodPost)
	api.HandleFunc("/time", h.ServerTime).Methods(http.MethodGet)

	router.Use(h.loggingMiddleware)

	return router
}

// BidRequest is the body of a POST /items/{id}/bids request.
type BidRequest struct {
	BidderID string `json:"bidder_id"`
	Amount   int64  `json:"amount"`
}

// BidResponse is returned for an accepted bid.
type BidResponse struct {
	Bid              auction.Bid      `json:"bid"`
	Item             auction.ItemView `json:"item"`
	PreviousBidderID string           `json:"previous_bidder_id,omitempty"`
}

// ErrorResponse is the shape of every error body. Code is one of
// ITEM_NOT_FOUND, AUCTION_ENDED, BID_TOO_LOW, INVALID_INPUT; CurrentBid is
// set for BID_TOO_LOW so the UI can show the value to beat.
type ErrorResponse struct {
	Code       string `json:"code"`
	Error      string `json:"error"`
	CurrentBid int64  `json:"current_bid,omitempty"`
}

// TimeResponse carries the authoritative server time. Clients compute
// offset = serverTime - localTime + roundTrip/2 for deadline display.
type TimeResponse struct {
	ServerTime   time.Time `json:"server_time"`
	ServerTimeMS int64     `json:"server_time_ms"`
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// ListItems returns the public views of all items.
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.service.ListItems())
}

// GetItem returns the public view of a single item.
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	itemID := mux.Vars(r)["id"]

	view, err := h.service.GetItem(itemID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// ListBids returns an item's bid history in acceptance order.
func (h *Handler) ListBids(w http.ResponseWriter, r *http.Request) {
	itemID := mux.Vars(r)["id"]

	history, err := h.service.BidHistory(itemID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, history)
}

// PlaceBid handles bid placement. On acceptance the fanout events are handed
// to the dispatcher for broadcast; delivery never affects the response.
func (h *Handler) PlaceBid(w http.ResponseWriter, r *http.Request) {
	itemID := mux.Vars(r)["id"]

	var req BidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Code:  "INVALID_INPUT",
			Error: "invalid request body",
		})
		return
	}

	res, err := h.service.PlaceBid(r.Context(), auction.PlaceBidCommand{
		ItemID:   itemID,
		BidderID: req.BidderID,
		Amount:   req.Amount,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	// The bid is already applied; delivery to observers must not be tied to
	// the bidder's request lifetime. A bidder disconnecting right after the
	// POST must not suppress the broadcast.
	h.dispatcher.Dispatch(context.WithoutCancel(r.Context()), auction.FanOut(res))

	respondJSON(w, http.StatusCreated, BidResponse{
		Bid:              res.Bid,
		Item:             res.Item,
		PreviousBidderID: res.PreviousBidderID,
	})
}

// Reset re-seeds the catalog with fresh deadlines and returns the new views.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.service.Reset())
}

// ServerTime returns the authoritative clock reading.
func (h *Handler) ServerTime(w http.ResponseWriter, r *http.Request) {
	now := h.service.Now()
	respondJSON(w, http.StatusOK, TimeResponse{
		ServerTime:   now,
		ServerTimeMS: now.UnixMilli(),
	})
}

// respondError maps domain errors to HTTP status codes and error bodies.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var tooLow *auction.BidTooLowError
	switch {
	case errors.Is(err, auction.ErrItemNotFound):
		respondJSON(w, http.StatusNotFound, ErrorResponse{
			Code:  "ITEM_NOT_FOUND",
			Error: err.Error(),
		})
	case errors.Is(err, auction.ErrAuctionEnded):
		respondJSON(w, http.StatusGone, ErrorResponse{
			Code:  "AUCTION_ENDED",
			Error: err.Error(),
		})
	case errors.As(err, &tooLow):
		respondJSON(w, http.StatusConflict, ErrorResponse{
			Code:       "BID_TOO_LOW",
			Error:      err.Error(),
			CurrentBid: tooLow.CurrentBid,
		})
	case errors.Is(err, auction.ErrInvalidAmount), errors.Is(err, auction.ErrInvalidBidder):
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Code:  "INVALID_INPUT",
			Error: err.Error(),
		})
	default:
		h.logger.Error("unexpected error", "error", err)
		respondJSON(w, http.StatusInternalServerError, ErrorResponse{
			Code:  "INTERNAL",
			Error: "internal server error",
		})
	}
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// loggingMiddleware logs all HTTP requests
func (h *Handler) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		h.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}
