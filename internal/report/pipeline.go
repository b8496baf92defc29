package report

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nyashahama/interview-report-backend/internal/ai"
	"github.com/nyashahama/interview-report-backend/internal/db"
	"github.com/nyashahama/interview-report-backend/internal/email"
	"github.com/nyashahama/interview-report-backend/internal/store"
)

// Writer is the slice of *store.Store the pipeline needs.
type Writer interface {
	UpsertReport(ctx context.Context, p store.UpsertReportParams) (db.Report, error)
}

// Config is fixed at startup.
type Config struct {
	// From is the sender address; To the reviewer mailbox(es).
	From string
	To   []string

	Prompt PromptTemplate
}

// Result is what a successful Run produced.
type Result struct {
	InterviewID  string
	ReportHTML   string
	GenerationID uuid.UUID
	MessageID    string
}

// Pipeline holds the dependencies for validate -> prompt -> generate ->
// persist -> notify. Each step is a separate method so Run reads top to
// bottom. A Pipeline carries no per-request state and is safe for concurrent
// use.
type Pipeline struct {
	generator ai.Generator
	store     Writer
	mailer    email.Sender
	ids       *email.IDGenerator
	cfg       Config
	logger    *slog.Logger
}

// NewPipeline constructs a Pipeline with all required dependencies.
func NewPipeline(
	generator ai.Generator,
	st Writer,
	mailer email.Sender,
	ids *email.IDGenerator,
	cfg Config,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		generator: generator,
		store:     st,
		mailer:    mailer,
		ids:       ids,
		cfg:       cfg,
		logger:    logger,
	}
}

// Run executes the pipeline for one request. The first failing step aborts
// everything after it:
//
//  1. Validate the request. *ValidationError, nothing external touched.
//  2. Build the prompt.
//  3. Generate the report. *GenerationError, nothing stored or sent.
//  4. Upsert it under the interview id. *PersistenceError, nothing sent.
//  5. Email it. *DeliveryError, the stored report stays.
//
// Nothing is retried.
func (p *Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}

	interviewID := req.ID()
	log := p.logger.With("interview_id", interviewID, "model", p.generator.Model())

	prompt := p.cfg.Prompt.Build(req.PromptInput())

	html, err := p.generate(ctx, prompt)
	if err != nil {
		return Result{}, err
	}
	log.Debug("report: generated", "bytes", len(html))

	saved, err := p.persist(ctx, interviewID, html, req.Snapshot())
	if err != nil {
		return Result{}, err
	}
	log.Info("report: persisted", "generation_id", saved.GenerationID)

	messageID, err := p.notify(ctx, html)
	if err != nil {
		return Result{}, err
	}
	log.Info("report: emailed", "message_id", messageID, "recipients", len(p.cfg.To))

	return Result{
		InterviewID:  interviewID,
		ReportHTML:   html,
		GenerationID: saved.GenerationID,
		MessageID:    messageID,
	}, nil
}

func (p *Pipeline) generate(ctx context.Context, prompt string) (string, error) {
	html, err := p.generator.Generate(ctx, prompt)
	if err != nil {
		return "", &GenerationError{Err: err}
	}
	if html == "" {
		return "", &GenerationError{Err: ai.ErrEmptyResponse}
	}
	return html, nil
}

func (p *Pipeline) persist(ctx context.Context, interviewID, html string, inputs []byte) (db.Report, error) {
	saved, err := p.store.UpsertReport(ctx, store.UpsertReportParams{
		InterviewID:  interviewID,
		ReportHTML:   html,
		GenerationID: uuid.New(),
		Model:        p.generator.Model(),
		Inputs:       inputs,
	})
	if err != nil {
		return db.Report{}, &PersistenceError{Err: err}
	}
	return saved, nil
}

// notify builds a message with fresh thread-control headers and sends it.
func (p *Pipeline) notify(ctx context.Context, html string) (string, error) {
	if len(p.cfg.To) == 0 {
		return "", &DeliveryError{Err: errors.New("no recipient configured")}
	}

	th, err := p.ids.Next()
	if err != nil {
		return "", &DeliveryError{Err: err}
	}

	msg := email.NewReportMessage(p.cfg.From, p.cfg.To, html, th, p.ids.Now())
	if err := p.mailer.Send(ctx, msg); err != nil {
		return "", &DeliveryError{Err: err}
	}
	return th.MessageID, nil
}
