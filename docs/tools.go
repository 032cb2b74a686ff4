package docs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/voicedesk/google-mcp-server/server"
)

// Handler implements the ServiceHandler interface for Docs
type Handler struct {
	api   API
	docID string
}

// NewHandler creates a new Docs handler bound to the pre-bookings document.
func NewHandler(api API, docID string) *Handler {
	return &Handler{api: api, docID: docID}
}

// GetTools returns the available Docs tools
func (h *Handler) GetTools() []server.Tool {
	return []server.Tool{
		{
			Name:        "docs_append_pre_booking_note",
			Description: "Append a pre-booking note to the advisor's document",
			InputSchema: server.InputSchema{
				Type: "object",
				Properties: map[string]server.Property{
					"note": {
						Type:        "string",
						Description: "Note body in markdown",
					},
				},
				Required: []string{"note"},
			},
		},
		{
			Name:        "docs_get_pre_bookings_doc",
			Description: "Read the pre-bookings document",
			InputSchema: server.InputSchema{
				Type:       "object",
				Properties: map[string]server.Property{},
			},
		},
	}
}

// HandleToolCall handles a tool call for Docs service
func (h *Handler) HandleToolCall(ctx context.Context, name string, arguments json.RawMessage) (interface{}, error) {
	switch name {
	case "docs_append_pre_booking_note":
		var args struct {
			Note string `json:"note"`
		}
		if err := json.Unmarshal(arguments, &args); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		if args.Note == "" {
			return nil, fmt.Errorf("note is required")
		}

		if err := h.api.AppendMarkdown(ctx, h.docID, args.Note); err != nil {
			return nil, err
		}
		return map[string]string{"status": "appended", "document_id": h.docID}, nil

	case "docs_get_pre_bookings_doc":
		doc, err := h.api.GetNoteDoc(ctx, h.docID)
		if err != nil {
			return nil, err
		}
		return doc, nil

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// GetResources returns the available Docs resources
func (h *Handler) GetResources() []server.Resource {
	return []server.Resource{}
}

// HandleResourceCall handles a resource call for Docs service
func (h *Handler) HandleResourceCall(ctx context.Context, uri string) (interface{}, error) {
	return nil, fmt.Errorf("unknown resource: %s", uri)
}
