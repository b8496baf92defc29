package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nyashahama/interview-report-backend/internal/db"
	"github.com/sqlc-dev/pqtype"
)

// ─── INPUT TYPES ─────────────────────────────────────────────────────────────

// UpsertReportParams is everything the pipeline hands to the store once the
// generator has returned a report.
type UpsertReportParams struct {
	InterviewID  string
	ReportHTML   string
	GenerationID uuid.UUID
	Model        string

	// Inputs is the request snapshot that produced the report. May be nil.
	Inputs json.RawMessage
}

// ─── ERRORS ──────────────────────────────────────────────────────────────────

// ErrReportNotFound is returned by GetReport for an unknown interview id.
var ErrReportNotFound = errors.New("store: report not found")

// ─── METHODS ─────────────────────────────────────────────────────────────────

// UpsertReport writes the report for p.InterviewID, replacing any earlier
// report for the same interview. The write is a single INSERT ... ON CONFLICT
// statement, so it either lands completely or not at all. updated_at is
// assigned by the database.
func (s *Store) UpsertReport(ctx context.Context, p UpsertReportParams) (db.Report, error) {
	if p.InterviewID == "" {
		return db.Report{}, errors.New("UpsertReport: empty interview id")
	}
	if p.GenerationID == uuid.Nil {
		p.GenerationID = uuid.New()
	}

	report, err := s.q.UpsertReport(ctx, db.UpsertReportParams{
		InterviewID:  p.InterviewID,
		ReportHtml:   p.ReportHTML,
		GenerationID: p.GenerationID,
		Model:        p.Model,
		Inputs: pqtype.NullRawMessage{
			RawMessage: p.Inputs,
			Valid:      len(p.Inputs) > 0,
		},
	})
	if err != nil {
		return db.Report{}, fmt.Errorf("UpsertReport: %w", err)
	}
	return report, nil
}

// GetReport returns the stored report for interviewID. There is no HTTP
// surface for reads; operators and tests use this directly.
func (s *Store) GetReport(ctx context.Context, interviewID string) (db.Report, error) {
	report, err := s.q.GetReport(ctx, interviewID)
	if errors.Is(err, sql.ErrNoRows) {
		return db.Report{}, ErrReportNotFound
	}
	if err != nil {
		return db.Report{}, fmt.Errorf("GetReport: %w", err)
	}
	return report, nil
}
