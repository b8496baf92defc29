package report_test

import (
	"context"
	"crypto/rand"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nyashahama/interview-report-backend/internal/db"
	"github.com/nyashahama/interview-report-backend/internal/email"
	"github.com/nyashahama/interview-report-backend/internal/report"
	"github.com/nyashahama/interview-report-backend/internal/store"
)

// ─── STUBS ────────────────────────────────────────────────────────────────────

type stubGenerator struct {
	mu      sync.Mutex
	reply   func(prompt string) string
	err     error
	prompts []string
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	return g.reply(prompt), nil
}

func (g *stubGenerator) Model() string { return "stub-model" }

func (g *stubGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

// memStore is an in-memory Writer keyed by interview id.
type memStore struct {
	mu     sync.Mutex
	rows   map[string]db.Report
	writes int
	err    error
}

func newMemStore() *memStore { return &memStore{rows: make(map[string]db.Report)} }

func (s *memStore) UpsertReport(_ context.Context, p store.UpsertReportParams) (db.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return db.Report{}, s.err
	}
	s.writes++
	r := db.Report{
		InterviewID:  p.InterviewID,
		ReportHtml:   p.ReportHTML,
		GenerationID: p.GenerationID,
		Model:        p.Model,
		UpdatedAt:    time.Now(),
	}
	s.rows[p.InterviewID] = r
	return r, nil
}

type stubMailer struct {
	mu   sync.Mutex
	sent []email.Message
	err  error
}

func (m *stubMailer) Send(_ context.Context, msg email.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

// ─── HELPERS ──────────────────────────────────────────────────────────────────

type deps struct {
	gen    *stubGenerator
	store  *memStore
	mailer *stubMailer
	p      *report.Pipeline
}

func echoReport(prompt string) string {
	return "<html>" + prompt + "</html>"
}

func newDeps() *deps {
	d := &deps{
		gen:    &stubGenerator{reply: echoReport},
		store:  newMemStore(),
		mailer: &stubMailer{},
	}
	ids := email.NewIDGenerator("test.invalid", nil, rand.Reader)
	d.p = report.NewPipeline(d.gen, d.store, d.mailer, ids, report.Config{
		From: "reports@example.com",
		To:   []string{"hr@example.com"},
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return d
}

const validBody = `{"currentInterviewId":"intv-1","emotions":{"happy":3,"neutral":2},"confidenceLevel":"78","average":"65"}`

// ─── Run ──────────────────────────────────────────────────────────────────────

func TestRun_HappyPath(t *testing.T) {
	d := newDeps()

	res, err := d.p.Run(context.Background(), decodeRequest(t, validBody))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.InterviewID != "intv-1" {
		t.Errorf("interview id: got %q", res.InterviewID)
	}
	for _, want := range []string{"intv-1", "happy", "neutral", "78", "65"} {
		if !strings.Contains(res.ReportHTML, want) {
			t.Errorf("report missing %q", want)
		}
	}

	row, ok := d.store.rows["intv-1"]
	if !ok || row.ReportHtml != res.ReportHTML || row.Model != "stub-model" {
		t.Errorf("stored row mismatch: %+v", row)
	}

	if len(d.mailer.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(d.mailer.sent))
	}
	msg := d.mailer.sent[0]
	if msg.HTML != res.ReportHTML || msg.Subject != email.ReportSubject {
		t.Errorf("unexpected message: %+v", msg)
	}
	if msg.MessageID != res.MessageID || msg.Headers["X-No-Thread"] != "true" {
		t.Errorf("thread headers not set: %+v", msg)
	}
	if msg.From != "reports@example.com" || len(msg.To) != 1 || msg.To[0] != "hr@example.com" {
		t.Errorf("addresses: %+v", msg)
	}
}

func TestRun_ValidationFailureTouchesNothing(t *testing.T) {
	d := newDeps()

	_, err := d.p.Run(context.Background(), decodeRequest(t, `{"currentInterviewId":"intv-1","confidenceLevel":"78"}`))
	if got := missingPaths(t, err); len(got) != 1 || got[0] != "emotions" {
		t.Fatalf("got %v", got)
	}
	if d.gen.calls() != 0 || d.store.writes != 0 || len(d.mailer.sent) != 0 {
		t.Errorf("backend touched: gen=%d writes=%d mails=%d", d.gen.calls(), d.store.writes, len(d.mailer.sent))
	}
}

func TestRun_GenerationErrorStopsBeforeStore(t *testing.T) {
	d := newDeps()
	cause := errors.New("backend unreachable")
	d.gen.err = cause

	_, err := d.p.Run(context.Background(), decodeRequest(t, validBody))

	var ge *report.GenerationError
	if !errors.As(err, &ge) {
		t.Fatalf("expected *GenerationError, got %T: %v", err, err)
	}
	if !errors.Is(err, cause) {
		t.Error("cause should be in the chain")
	}
	if d.store.writes != 0 {
		t.Errorf("store written %d times after generation failure", d.store.writes)
	}
	if len(d.mailer.sent) != 0 {
		t.Errorf("email sent after generation failure")
	}
}

func TestRun_EmptyGenerationIsAnError(t *testing.T) {
	d := newDeps()
	d.gen.reply = func(string) string { return "" }

	_, err := d.p.Run(context.Background(), decodeRequest(t, validBody))
	if report.Stage(err) != "generation" {
		t.Fatalf("expected generation stage, got %q (%v)", report.Stage(err), err)
	}
	if d.store.writes != 0 {
		t.Error("empty report must not be stored")
	}
}

func TestRun_PersistenceErrorStopsBeforeEmail(t *testing.T) {
	d := newDeps()
	d.store.err = errors.New("permission denied")

	_, err := d.p.Run(context.Background(), decodeRequest(t, validBody))

	var pe *report.PersistenceError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *PersistenceError, got %T: %v", err, err)
	}
	if d.gen.calls() != 1 {
		t.Errorf("generator should have been called once, got %d", d.gen.calls())
	}
	if len(d.mailer.sent) != 0 {
		t.Errorf("email sent after persistence failure")
	}
}

func TestRun_DeliveryErrorLeavesStoredReport(t *testing.T) {
	d := newDeps()
	d.mailer.err = errors.New("535 authentication failed")

	_, err := d.p.Run(context.Background(), decodeRequest(t, validBody))

	var de *report.DeliveryError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DeliveryError, got %T: %v", err, err)
	}
	if _, ok := d.store.rows["intv-1"]; !ok {
		t.Error("stored report should remain after delivery failure")
	}
}

func TestRun_SameInterviewOverwrites(t *testing.T) {
	d := newDeps()
	n := 0
	d.gen.reply = func(string) string {
		n++
		if n == 1 {
			return "<html>first</html>"
		}
		return "<html>second</html>"
	}

	first, err := d.p.Run(context.Background(), decodeRequest(t, validBody))
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := d.p.Run(context.Background(), decodeRequest(t, validBody))
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if len(d.store.rows) != 1 {
		t.Fatalf("expected one stored row, got %d", len(d.store.rows))
	}
	row := d.store.rows["intv-1"]
	if row.ReportHtml != "<html>second</html>" {
		t.Errorf("stored content should be from the latest run, got %q", row.ReportHtml)
	}
	if first.GenerationID == second.GenerationID {
		t.Error("each generation should get its own id")
	}
	if first.MessageID == second.MessageID {
		t.Error("identical payloads must still get distinct message ids")
	}
}

func TestRun_ConcurrentRequestsGetDistinctMessageIDs(t *testing.T) {
	d := newDeps()

	const n = 20
	var wg sync.WaitGroup
	ids := make([]string, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := d.p.Run(context.Background(), decodeRequest(t, validBody))
			ids[i], errs[i] = res.MessageID, err
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for i := range ids {
		if errs[i] != nil {
			t.Fatalf("run %d: %v", i, errs[i])
		}
		if seen[ids[i]] {
			t.Fatalf("duplicate message id %s", ids[i])
		}
		seen[ids[i]] = true
	}
}

func TestRun_PromptIsDeterministicAcrossRequests(t *testing.T) {
	d := newDeps()

	for i := 0; i < 2; i++ {
		if _, err := d.p.Run(context.Background(), decodeRequest(t, validBody)); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
	if d.gen.prompts[0] != d.gen.prompts[1] {
		t.Error("identical requests produced different prompts")
	}
}

func TestStage(t *testing.T) {
	cases := map[string]error{
		"validation":  &report.ValidationError{},
		"generation":  &report.GenerationError{Err: io.EOF},
		"persistence": &report.PersistenceError{Err: io.EOF},
		"delivery":    &report.DeliveryError{Err: io.EOF},
		"unknown":     io.EOF,
	}
	for want, err := range cases {
		if got := report.Stage(err); got != want {
			t.Errorf("Stage(%T): got %q, want %q", err, got, want)
		}
	}
}
