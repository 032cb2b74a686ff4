package sheets

import (
	"context"
	"fmt"
	"strings"

	"github.com/voicedesk/google-mcp-server/server"
)

// GetResources returns the available Sheets resources
func (h *Handler) GetResources() []server.Resource {
	return []server.Resource{
		{
			URI:         "sheets://pre-bookings",
			Name:        "Pre-Bookings",
			Description: "Pre-booking rows recorded by the voice assistant",
			MimeType:    "application/json",
		},
	}
}

// HandleResourceCall handles a resource call for Sheets service
func (h *Handler) HandleResourceCall(ctx context.Context, uri string) (interface{}, error) {
	if !strings.HasPrefix(uri, "sheets://") {
		return nil, fmt.Errorf("invalid sheets URI: %s", uri)
	}

	switch strings.TrimPrefix(uri, "sheets://") {
	case "pre-bookings":
		return h.handleListPreBookings(ctx)

	default:
		return nil, fmt.Errorf("unknown sheets resource: %s", uri)
	}
}
