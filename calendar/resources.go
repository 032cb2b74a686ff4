package calendar

import (
	"context"
	"fmt"
	"strings"

	"github.com/voicedesk/google-mcp-server/server"
)

// GetResources returns the available Calendar resources
func (h *Handler) GetResources() []server.Resource {
	return []server.Resource{
		{
			URI:         "calendar://upcoming",
			Name:        "Upcoming Appointments",
			Description: "Upcoming consultation holds on the advisor calendar",
			MimeType:    "application/json",
		},
	}
}

// HandleResourceCall handles a resource call for Calendar service
func (h *Handler) HandleResourceCall(ctx context.Context, uri string) (interface{}, error) {
	if !strings.HasPrefix(uri, "calendar://") {
		return nil, fmt.Errorf("invalid calendar URI: %s", uri)
	}

	switch strings.TrimPrefix(uri, "calendar://") {
	case "upcoming":
		appts, err := h.api.ListUpcoming(ctx, defaultUpcomingLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to get upcoming events: %w", err)
		}
		return map[string]interface{}{
			"events": appts,
			"count":  len(appts),
		}, nil

	default:
		return nil, fmt.Errorf("unknown calendar resource: %s", uri)
	}
}
