// Package email builds the report notification message and delivers it over
// an authenticated SMTP relay or the Resend HTTP API.
package email

import "context"

// Sender is the interface the report pipeline uses to deliver mail.
// Tests inject a stub that records calls without hitting the network.
type Sender interface {
	// Send delivers m exactly as built. It does not retry.
	Send(ctx context.Context, m Message) error
}
