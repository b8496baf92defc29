package email

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"mime"
	"mime/quotedprintable"
	"sort"
	"strings"
	"time"
)

// ReportSubject is the subject line of every report notification.
const ReportSubject = "AI-Generated Interview Report"

// DefaultIDDomain is the right-hand side of generated message ids. It is a
// reserved, non-resolvable name: the ids only need to be unique.
const DefaultIDDomain = "interview-report.invalid"

// Message is one outbound email. It is built immediately before sending and
// discarded afterwards.
type Message struct {
	From    string
	To      []string
	Subject string
	HTML    string
	Date    time.Time

	// Thread-control headers. Each send gets values that reference no real
	// prior message, so mail clients never group reports into one thread.
	MessageID  string
	References string
	InReplyTo  string

	// Headers holds any additional headers, written in sorted key order.
	Headers map[string]string
}

// Threading is one set of thread-control header values.
type Threading struct {
	MessageID  string
	References string
	InReplyTo  string
}

// IDGenerator derives thread-control headers from wall-clock time plus four
// random bytes. It is safe for concurrent use when its random source is.
type IDGenerator struct {
	domain string
	now    func() time.Time
	random io.Reader
}

// NewIDGenerator returns an IDGenerator. A nil now uses time.Now, a nil random
// uses crypto/rand, and an empty domain uses DefaultIDDomain.
func NewIDGenerator(domain string, now func() time.Time, random io.Reader) *IDGenerator {
	if domain == "" {
		domain = DefaultIDDomain
	}
	if now == nil {
		now = time.Now
	}
	if random == nil {
		random = rand.Reader
	}
	return &IDGenerator{domain: domain, now: now, random: random}
}

// Next returns a fresh Threading value.
func (g *IDGenerator) Next() (Threading, error) {
	b := make([]byte, 4)
	if _, err := io.ReadFull(g.random, b); err != nil {
		return Threading{}, fmt.Errorf("email: read random bytes: %w", err)
	}
	// "<unix millis>-<8 hex chars>", shared by all three headers.
	suffix := fmt.Sprintf("%d-%s", g.now().UnixMilli(), hex.EncodeToString(b))

	return Threading{
		MessageID:  fmt.Sprintf("<%s@%s>", suffix, g.domain),
		References: fmt.Sprintf("<no-reference-%s@%s>", suffix, g.domain),
		InReplyTo:  fmt.Sprintf("<no-reply-%s@%s>", suffix, g.domain),
	}, nil
}

// Now returns the generator's current time, for the Date header.
func (g *IDGenerator) Now() time.Time {
	return g.now()
}

// NewReportMessage builds the notification carrying reportHTML as its body.
func NewReportMessage(from string, to []string, reportHTML string, th Threading, date time.Time) Message {
	return Message{
		From:       from,
		To:         to,
		Subject:    ReportSubject,
		HTML:       reportHTML,
		Date:       date,
		MessageID:  th.MessageID,
		References: th.References,
		InReplyTo:  th.InReplyTo,
		Headers: map[string]string{
			"X-No-Thread": "true",
		},
	}
}

// Bytes renders m as an RFC 5322 message with a quoted-printable HTML body.
func (m Message) Bytes() ([]byte, error) {
	var buf bytes.Buffer

	writeHeader(&buf, "From", m.From)
	writeHeader(&buf, "To", strings.Join(m.To, ", "))
	writeHeader(&buf, "Subject", mime.QEncoding.Encode("utf-8", m.Subject))
	if !m.Date.IsZero() {
		writeHeader(&buf, "Date", m.Date.Format(time.RFC1123Z))
	}
	if m.MessageID != "" {
		writeHeader(&buf, "Message-ID", m.MessageID)
	}
	if m.References != "" {
		writeHeader(&buf, "References", m.References)
	}
	if m.InReplyTo != "" {
		writeHeader(&buf, "In-Reply-To", m.InReplyTo)
	}

	keys := make([]string, 0, len(m.Headers))
	for k := range m.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		writeHeader(&buf, k, m.Headers[k])
	}

	writeHeader(&buf, "MIME-Version", "1.0")
	writeHeader(&buf, "Content-Type", "text/html; charset=UTF-8")
	writeHeader(&buf, "Content-Transfer-Encoding", "quoted-printable")
	buf.WriteString("\r\n")

	qp := quotedprintable.NewWriter(&buf)
	if _, err := qp.Write([]byte(m.HTML)); err != nil {
		return nil, fmt.Errorf("email: encode body: %w", err)
	}
	if err := qp.Close(); err != nil {
		return nil, fmt.Errorf("email: encode body: %w", err)
	}
	buf.WriteString("\r\n")

	return buf.Bytes(), nil
}

// writeHeader writes one header line. CR and LF are dropped from the value so
// a configured address can never inject extra headers.
func writeHeader(buf *bytes.Buffer, key, value string) {
	value = strings.NewReplacer("\r", "", "\n", "").Replace(value)
	fmt.Fprintf(buf, "%s: %s\r\n", key, value)
}
