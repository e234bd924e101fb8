// Package handler internal/infrastructure/handler/report_handler.go
package handler

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/solfx/rate-pipeline/internal/domain/entity"
	"github.com/solfx/rate-pipeline/internal/infrastructure/logger"
	"github.com/solfx/rate-pipeline/internal/infrastructure/middleware"
)

// ReportLister reads stored product totals.
type ReportLister interface {
	ListProductTotals(ctx context.Context) ([]entity.ProductTotal, error)
}

// ReportHandler handles HTTP requests for conversion reports
type ReportHandler struct {
	reports ReportLister
	logger  logger.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(reports ReportLister, log logger.Logger) *ReportHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ReportHandler{
		reports: reports,
		logger:  log,
	}
}

// RegisterRoutes registers the report query routes
func (h *ReportHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/reports/products", h.ListProductTotals).Methods(http.MethodGet)
}

// ListProductTotals returns every stored per-product converted total.
func (h *ReportHandler) ListProductTotals(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	totals, err := h.reports.ListProductTotals(r.Context())
	if err != nil {
		h.logger.Error("Failed to list product totals", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Failed to list product totals", "", http.StatusInternalServerError, requestID)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, productTotalResponses(totals))
}
