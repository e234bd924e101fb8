// Package handler internal/infrastructure/handler/rate_handler.go
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/solfx/rate-pipeline/internal/domain/entity"
	"github.com/solfx/rate-pipeline/internal/infrastructure/cache"
	"github.com/solfx/rate-pipeline/internal/infrastructure/logger"
	"github.com/solfx/rate-pipeline/internal/infrastructure/middleware"
)

// RateFinder reads stored rate records by exact date.
type RateFinder interface {
	Find(ctx context.Context, date time.Time) (*entity.RateRecord, error)
}

// RateResolver resolves the rate pair applicable on a date, backfilling from
// earlier dates when needed.
type RateResolver interface {
	Resolve(ctx context.Context, date time.Time) (cache.RatePair, error)
}

// RateHandler handles HTTP requests for stored and resolved rates
type RateHandler struct {
	store    RateFinder
	resolver RateResolver
	logger   logger.Logger
}

// NewRateHandler creates a new rate handler
func NewRateHandler(store RateFinder, resolver RateResolver, log logger.Logger) *RateHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &RateHandler{
		store:    store,
		resolver: resolver,
		logger:   log,
	}
}

// RegisterRoutes registers the rate query routes
func (h *RateHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/rates/{date}", h.GetRate).Methods(http.MethodGet)
	router.HandleFunc("/rates/{date}/resolved", h.GetResolvedRate).Methods(http.MethodGet)
}

// GetRate returns the record stored for the exact date, 404 when the date
// was never ingested.
func (h *RateHandler) GetRate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	date, ok := h.parseDate(w, r, requestID)
	if !ok {
		return
	}

	rec, err := h.store.Find(r.Context(), date)
	if err != nil {
		h.logger.Error("Failed to query rate", map[string]interface{}{
			"request_id": requestID,
			"date":       date.Format(entity.DateLayout),
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Failed to query rate", "", http.StatusInternalServerError, requestID)
		return
	}

	if rec == nil {
		sendErrorResponse(w, h.logger, "Rate not found",
			"No rate was ingested for the requested date", http.StatusNotFound, requestID)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, rateResponse(rec.Key(), rec.Buy, rec.Sell))
}

// GetResolvedRate returns the backfill-resolved pair for the date. An
// unresolvable date still answers 200, with both sides null.
func (h *RateHandler) GetResolvedRate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	date, ok := h.parseDate(w, r, requestID)
	if !ok {
		return
	}

	pair, err := h.resolver.Resolve(r.Context(), date)
	if err != nil {
		h.logger.Error("Failed to resolve rate", map[string]interface{}{
			"request_id": requestID,
			"date":       date.Format(entity.DateLayout),
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Failed to resolve rate", "", http.StatusInternalServerError, requestID)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, rateResponse(date.Format(entity.DateLayout), pair.Buy, pair.Sell))
}

func (h *RateHandler) parseDate(w http.ResponseWriter, r *http.Request, requestID string) (time.Time, bool) {
	raw := mux.Vars(r)["date"]

	date, err := time.Parse(entity.DateLayout, raw)
	if err != nil {
		h.logger.Warn("Invalid date parameter", map[string]interface{}{
			"request_id": requestID,
			"date":       raw,
		})
		sendErrorResponse(w, h.logger, "Invalid date",
			"Dates must use the YYYY-MM-DD form", http.StatusBadRequest, requestID)
		return time.Time{}, false
	}

	return date, true
}

func respondJSON(w http.ResponseWriter, log logger.Logger, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("Failed to encode response", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func sendErrorResponse(w http.ResponseWriter, log logger.Logger, message, description string, status int, requestID string) {
	respondJSON(w, log, status, ErrorResponse{
		Error:       message,
		Status:      status,
		Description: description,
		RequestID:   requestID,
	})
}
