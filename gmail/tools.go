package gmail

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/voicedesk/google-mcp-server/server"
)

// Handler implements the ServiceHandler interface for Gmail
type Handler struct {
	api          API
	advisorEmail string
}

// NewHandler creates a new Gmail handler addressing advisorEmail.
func NewHandler(api API, advisorEmail string) *Handler {
	return &Handler{api: api, advisorEmail: advisorEmail}
}

// GetTools returns the available Gmail tools
func (h *Handler) GetTools() []server.Tool {
	return []server.Tool{
		{
			Name:        "gmail_send_advisor_notification",
			Description: "Email the advisor about a new pre-booking",
			InputSchema: server.InputSchema{
				Type: "object",
				Properties: map[string]server.Property{
					"subject": {
						Type:        "string",
						Description: "Subject line (a frontmatter subject in the body wins)",
					},
					"body": {
						Type:        "string",
						Description: "Notification body in markdown",
					},
				},
				Required: []string{"body"},
			},
		},
	}
}

// HandleToolCall handles a tool call for Gmail service
func (h *Handler) HandleToolCall(ctx context.Context, name string, arguments json.RawMessage) (interface{}, error) {
	switch name {
	case "gmail_send_advisor_notification":
		var args struct {
			Subject string `json:"subject"`
			Body    string `json:"body"`
		}
		if err := json.Unmarshal(arguments, &args); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		return h.handleSendNotification(ctx, args.Subject, args.Body)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

func (h *Handler) handleSendNotification(ctx context.Context, subject, body string) (interface{}, error) {
	if body == "" {
		return nil, fmt.Errorf("body is required")
	}

	metaSubject, html, err := RenderNotification(body)
	if err != nil {
		return nil, err
	}
	if metaSubject != "" {
		subject = metaSubject
	}
	if subject == "" {
		subject = defaultSubject
	}

	if err := h.api.Send(ctx, h.advisorEmail, subject, html); err != nil {
		return nil, err
	}

	return map[string]string{
		"status":  "sent",
		"to":      h.advisorEmail,
		"subject": subject,
	}, nil
}

// GetResources returns the available Gmail resources
func (h *Handler) GetResources() []server.Resource {
	return []server.Resource{}
}

// HandleResourceCall handles a resource call for Gmail service
func (h *Handler) HandleResourceCall(ctx context.Context, uri string) (interface{}, error) {
	return nil, fmt.Errorf("unknown resource: %s", uri)
}
