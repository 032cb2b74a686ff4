// Package gmail sends advisor notification mail, backed by the Gmail API
// in real mode and by a local outbox in mock mode.
package gmail

import "context"

// API is the mail surface the tool handler dispatches to.
type API interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

const defaultSubject = "New pre-booking from the voice assistant"
