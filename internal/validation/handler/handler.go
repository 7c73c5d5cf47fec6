package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"fiscalcheck/internal/validation"
	"fiscalcheck/internal/validation/metrics"
	"fiscalcheck/internal/validation/models"
	dErrors "fiscalcheck/pkg/domain-errors"
	"fiscalcheck/pkg/platform/httputil"
	"fiscalcheck/pkg/requestcontext"
)

const (
	endpointValidate      = "validate"
	endpointValidateBatch = "validate_batch"

	// rejectedRequest labels bodies that failed decoding or Validate.
	rejectedRequest = "invalid_request"
)

// Service defines the interface for validation operations.
type Service interface {
	Validate(ctx context.Context, req validation.Request) (*models.Report, error)
	ValidateBatch(ctx context.Context, reqs []validation.Request) ([]*models.Report, error)
}

// Handler serves the validation endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
	metrics *metrics.Metrics
}

// New creates a new validation Handler.
func New(service Service, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
		metrics: metrics,
	}
}

// Register registers the validation routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/validate", h.HandleValidate)
	r.Post("/v1/validate/batch", h.HandleValidateBatch)
}

// HandleValidate validates a single document and answers with its report.
// Invalid documents still get a 200 with an error-status report; only
// malformed requests are rejected.
func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ValidateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		h.metrics.IncrementRejection(endpointValidate, rejectedRequest)
		return
	}

	report, err := h.service.Validate(ctx, validation.Request{Document: req.Document, Options: req.Options})
	if err != nil {
		h.writeServiceError(ctx, w, requestID, endpointValidate, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toReportResponse(report))
}

// HandleValidateBatch validates up to the configured number of documents in
// one call. Reports come back in request order.
func (h *Handler) HandleValidateBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[BatchRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		h.metrics.IncrementRejection(endpointValidateBatch, rejectedRequest)
		return
	}

	reqs := make([]validation.Request, len(req.Items))
	for i, item := range req.Items {
		reqs[i] = validation.Request{Document: item.Document, Options: item.Options}
	}
	reports, err := h.service.ValidateBatch(ctx, reqs)
	if err != nil {
		h.writeServiceError(ctx, w, requestID, endpointValidateBatch, err)
		return
	}

	resp := BatchResponse{
		BatchID: uuid.NewString(),
		Reports: make([]ReportResponse, 0, len(reports)),
	}
	for _, report := range reports {
		resp.Reports = append(resp.Reports, toReportResponse(report))
	}
	h.logger.InfoContext(ctx, "batch validated",
		"request_id", requestID,
		"batch_id", resp.BatchID,
		"documents", len(reports),
	)
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, requestID, op string, err error) {
	code := dErrors.CodeOf(err)
	h.metrics.IncrementRejection(op, string(code))
	if code == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, "validation failed",
			"request_id", requestID,
			"operation", op,
			"error", err,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "validation failed"))
		return
	}
	h.logger.WarnContext(ctx, "validation request rejected",
		"request_id", requestID,
		"operation", op,
		"error", err,
	)
	httputil.WriteError(w, err)
}
