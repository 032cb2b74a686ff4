// Package docs appends structured pre-booking notes to the advisor's
// running document, backed by the Google Docs API in real mode and by the
// local store in mock mode.
package docs

import "context"

// NoteDoc is the readable form of the pre-bookings document.
type NoteDoc struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// API is the docs surface the tool handler dispatches to.
type API interface {
	AppendMarkdown(ctx context.Context, documentID, markdown string) error
	GetNoteDoc(ctx context.Context, documentID string) (*NoteDoc, error)
}
