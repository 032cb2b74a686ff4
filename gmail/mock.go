package gmail

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/voicedesk/google-mcp-server/localstore"
)

// Mock records mail in a local outbox instead of sending it.
type Mock struct {
	store  *localstore.Store
	logger *slog.Logger
}

// NewMock creates a gmail stand-in backed by store.
func NewMock(store *localstore.Store, logger *slog.Logger) *Mock {
	return &Mock{store: store, logger: logger}
}

func (m *Mock) Send(ctx context.Context, to, subject, htmlBody string) error {
	err := m.store.AppendOutbox(localstore.OutboxMessage{
		To:      to,
		Subject: subject,
		Body:    htmlBody,
		SentAt:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	m.logger.InfoContext(ctx, "mock mail recorded in outbox", "to", to, "subject", subject)
	return nil
}
