package docs

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/docs/v1"
	"google.golang.org/api/option"

	"github.com/voicedesk/google-mcp-server/auth"
)

// Client wraps the Google Docs API client
type Client struct {
	service *docs.Service
}

// NewClient creates a new Docs client
func NewClient(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	service, err := docs.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create docs service: %w", err)
	}

	return &Client{service: service}, nil
}

// GetDocument gets a document by ID
func (c *Client) GetDocument(ctx context.Context, documentID string) (*docs.Document, error) {
	doc, err := c.service.Documents.Get(documentID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", auth.HandleServiceError(err, "docs"))
	}
	return doc, nil
}

// BatchUpdate performs batch updates on a document
func (c *Client) BatchUpdate(ctx context.Context, documentID string, requests []*docs.Request) (*docs.BatchUpdateDocumentResponse, error) {
	batchUpdate := &docs.BatchUpdateDocumentRequest{
		Requests: requests,
	}
	response, err := c.service.Documents.BatchUpdate(documentID, batchUpdate).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to batch update: %w", auth.HandleServiceError(err, "docs"))
	}
	return response, nil
}

// AppendMarkdown renders markdown and appends it at the document end.
func (c *Client) AppendMarkdown(ctx context.Context, documentID, markdown string) error {
	doc, err := c.GetDocument(ctx, documentID)
	if err != nil {
		return err
	}

	requests := NewConverter(endIndex(doc)).Convert(markdown)
	if len(requests) == 0 {
		return nil
	}

	_, err = c.BatchUpdate(ctx, documentID, requests)
	return err
}

// GetNoteDoc returns the document's title and flattened text.
func (c *Client) GetNoteDoc(ctx context.Context, documentID string) (*NoteDoc, error) {
	doc, err := c.GetDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	return &NoteDoc{
		ID:    doc.DocumentId,
		Title: doc.Title,
		Text:  extractText(doc),
	}, nil
}

// endIndex is the insertion point just before the body's trailing newline.
func endIndex(doc *docs.Document) int64 {
	if doc.Body == nil || len(doc.Body.Content) == 0 {
		return 1
	}
	last := doc.Body.Content[len(doc.Body.Content)-1]
	if last.EndIndex <= 1 {
		return 1
	}
	return last.EndIndex - 1
}

// extractText flattens every text run in the document body.
func extractText(doc *docs.Document) string {
	if doc.Body == nil {
		return ""
	}

	var b strings.Builder
	for _, elem := range doc.Body.Content {
		if elem.Paragraph == nil {
			continue
		}
		for _, pe := range elem.Paragraph.Elements {
			if pe.TextRun != nil {
				b.WriteString(pe.TextRun.Content)
			}
		}
	}
	return b.String()
}
