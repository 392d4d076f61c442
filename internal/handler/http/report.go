package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/presensia/attendance-backend-go/internal/domain/report"
	"github.com/presensia/attendance-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	Summary(w http.ResponseWriter, r *http.Request)
}

type ReportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &ReportHandlerImpl{reportService: reportService}
}

// Summary implements ReportHandler.
func (h *ReportHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	var req report.SummaryRequest

	// Support both GET with query params and POST with body
	if r.Method == http.MethodPost {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "invalid request body", nil)
			return
		}
	} else {
		req.ReferenceDate = r.URL.Query().Get("reference_date")
		if ids := r.URL.Query().Get("employee_ids"); ids != "" {
			req.EmployeeIDs = strings.Split(ids, ",")
		}
	}

	if req.ReferenceDate == "" {
		req.ReferenceDate = time.Now().Format("2006-01-02")
	}

	result, err := h.reportService.Summarize(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
