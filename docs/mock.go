package docs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/voicedesk/google-mcp-server/localstore"
)

// Mock records note markdown in the local store instead of updating a
// document.
type Mock struct {
	store  *localstore.Store
	logger *slog.Logger
}

// NewMock creates a docs stand-in backed by store.
func NewMock(store *localstore.Store, logger *slog.Logger) *Mock {
	return &Mock{store: store, logger: logger}
}

func (m *Mock) AppendMarkdown(ctx context.Context, documentID, markdown string) error {
	err := m.store.AppendNote(localstore.Note{
		DocID:     documentID,
		Markdown:  markdown,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to append note: %w", err)
	}

	m.logger.InfoContext(ctx, "mock note recorded", "document_id", documentID)
	return nil
}

func (m *Mock) GetNoteDoc(ctx context.Context, documentID string) (*NoteDoc, error) {
	notes, err := m.store.ListNotes(documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	var b strings.Builder
	for _, note := range notes {
		b.WriteString(note.Markdown)
		if !strings.HasSuffix(note.Markdown, "\n") {
			b.WriteString("\n")
		}
	}

	return &NoteDoc{
		ID:    documentID,
		Title: "Pre-Bookings (mock)",
		Text:  b.String(),
	}, nil
}
