package api

import (
	"errors"
	"net/http"

	"github.com/nyashahama/interview-report-backend/internal/report"
)

// ─── POST /generate-report ───────────────────────────────────────────────────

const (
	msgReportSent   = "Report generated and emailed to HR."
	msgReportFailed = "Failed to generate report."
)

type generateReportResponse struct {
	Message string `json:"message"`
	Report  string `json:"report"`
}

type validationResponse struct {
	Errors []report.FieldError `json:"errors"`
}

// handleGenerateReport runs the report pipeline synchronously. The response
// is sent only after the report has been generated, stored, and emailed.
//
// Returns 400 with every missing field when validation fails, and a generic
// 500 for any backend failure. The underlying error is only logged.
func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	var req report.Request
	if !decode(w, r, &req) {
		return
	}

	res, err := s.reports.Run(r.Context(), req)

	var verr *report.ValidationError
	switch {
	case err == nil:
		respond(w, http.StatusOK, generateReportResponse{
			Message: msgReportSent,
			Report:  res.ReportHTML,
		})
	case errors.As(err, &verr):
		respond(w, http.StatusBadRequest, validationResponse{Errors: verr.Errors})
	default:
		s.logger.Error("generate report failed",
			"stage", report.Stage(err),
			"interview_id", req.ID(),
			"error", err,
			logField(r),
		)
		respondErr(w, http.StatusInternalServerError, msgReportFailed)
	}
}
