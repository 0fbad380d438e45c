package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/BradenHooton/wikiboard/internal/auth"
	"github.com/BradenHooton/wikiboard/internal/models"
	pkghttp "github.com/BradenHooton/wikiboard/pkg/http"
)

// ReportService defines the content report operations the HTTP layer needs
type ReportService interface {
	CreateReport(ctx context.Context, actor *models.User, entryID, reason string, description *string) (*models.ContentReport, error)
	ListReports(ctx context.Context, actor *models.User, status string, limit, offset int) ([]*models.ContentReport, error)
	UpdateReportStatus(ctx context.Context, actor *models.User, id, status string) (*models.ContentReport, error)
	ListMyReports(ctx context.Context, actor *models.User) ([]*models.ContentReport, error)
}

// ReportHandler handles content report requests
type ReportHandler struct {
	service ReportService
	logger  *slog.Logger
}

func NewReportHandler(service ReportService, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{service: service, logger: logger}
}

// CreateReportRequest files a report against an entry
type CreateReportRequest struct {
	Reason      string  `json:"reason" validate:"required,oneof=spam harassment misinformation inappropriate copyright other"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// UpdateReportStatusRequest moves a report to any status
type UpdateReportStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending investigating resolved dismissed"`
}

// ListReportsResponse represents a page of reports
type ListReportsResponse struct {
	Reports []*ReportResponse `json:"reports"`
	Total   int               `json:"total"`
}

func newListReportsResponse(reports []*models.ContentReport) *ListReportsResponse {
	out := reportsToResponse(reports)
	return &ListReportsResponse{Reports: out, Total: len(out)}
}

// CreateReport files a pending report against the entry in the path
//
// @Router /entries/{id}/reports [post]
func (h *ReportHandler) CreateReport(w http.ResponseWriter, r *http.Request) {
	var req CreateReportRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	rep, err := h.service.CreateReport(r.Context(), auth.CurrentUser(r.Context()), chi.URLParam(r, "id"), req.Reason, req.Description)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusCreated, reportToResponse(rep))
}

// ListMyReports returns the reports the caller has filed
//
// @Router /me/reports [get]
func (h *ReportHandler) ListMyReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.service.ListMyReports(r.Context(), auth.CurrentUser(r.Context()))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, newListReportsResponse(reports))
}

// ListReports returns reports for review, optionally filtered by ?status=
//
// @Router /admin/reports [get]
func (h *ReportHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := pageParams(w, r)
	if !ok {
		return
	}

	reports, err := h.service.ListReports(r.Context(), auth.CurrentUser(r.Context()), r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, newListReportsResponse(reports))
}

// UpdateReportStatus sets a report's review status
//
// @Router /admin/reports/{id}/status [put]
func (h *ReportHandler) UpdateReportStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateReportStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	rep, err := h.service.UpdateReportStatus(r.Context(), auth.CurrentUser(r.Context()), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, reportToResponse(rep))
}
