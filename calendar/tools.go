package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/voicedesk/google-mcp-server/server"
)

// Handler implements the ServiceHandler interface for Calendar
type Handler struct {
	api API
}

// NewHandler creates a new Calendar handler
func NewHandler(api API) *Handler {
	return &Handler{api: api}
}

// GetTools returns the available Calendar tools
func (h *Handler) GetTools() []server.Tool {
	return []server.Tool{
		{
			Name:        "calendar_create_event",
			Description: "Create a consultation hold on the advisor calendar",
			InputSchema: server.InputSchema{
				Type: "object",
				Properties: map[string]server.Property{
					"summary": {
						Type:        "string",
						Description: "Event title",
					},
					"description": {
						Type:        "string",
						Description: "Event description",
					},
					"start_time": {
						Type:        "string",
						Description: "Start time (RFC3339 format)",
					},
					"end_time": {
						Type:        "string",
						Description: "End time (RFC3339 format)",
					},
					"attendee_email": {
						Type:        "string",
						Description: "Customer email to invite",
					},
				},
				Required: []string{"summary", "start_time", "end_time"},
			},
		},
		{
			Name:        "calendar_list_upcoming",
			Description: "List upcoming events on the advisor calendar",
			InputSchema: server.InputSchema{
				Type: "object",
				Properties: map[string]server.Property{
					"max_results": {
						Type:        "number",
						Description: "Maximum number of events to return (default 10)",
					},
				},
			},
		},
		{
			Name:        "calendar_delete_event",
			Description: "Delete an event from the advisor calendar",
			InputSchema: server.InputSchema{
				Type: "object",
				Properties: map[string]server.Property{
					"event_id": {
						Type:        "string",
						Description: "Event ID",
					},
				},
				Required: []string{"event_id"},
			},
		},
	}
}

// HandleToolCall handles a tool call for Calendar service
func (h *Handler) HandleToolCall(ctx context.Context, name string, arguments json.RawMessage) (interface{}, error) {
	switch name {
	case "calendar_create_event":
		var args struct {
			Summary       string `json:"summary"`
			Description   string `json:"description"`
			StartTime     string `json:"start_time"`
			EndTime       string `json:"end_time"`
			AttendeeEmail string `json:"attendee_email"`
		}
		if err := json.Unmarshal(arguments, &args); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		return h.handleCreateEvent(ctx, args.Summary, args.Description, args.StartTime, args.EndTime, args.AttendeeEmail)

	case "calendar_list_upcoming":
		var args struct {
			MaxResults float64 `json:"max_results"`
		}
		if err := json.Unmarshal(arguments, &args); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		return h.handleListUpcoming(ctx, int64(args.MaxResults))

	case "calendar_delete_event":
		var args struct {
			EventID string `json:"event_id"`
		}
		if err := json.Unmarshal(arguments, &args); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		return h.handleDeleteEvent(ctx, args.EventID)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

func (h *Handler) handleCreateEvent(ctx context.Context, summary, description, startStr, endStr, attendee string) (interface{}, error) {
	if summary == "" {
		return nil, fmt.Errorf("summary is required")
	}

	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		return nil, fmt.Errorf("invalid start_time format: %w", err)
	}
	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		return nil, fmt.Errorf("invalid end_time format: %w", err)
	}
	if !end.After(start) {
		return nil, fmt.Errorf("end_time must be after start_time")
	}

	appt, err := h.api.CreateEvent(ctx, Appointment{
		Summary:     summary,
		Description: description,
		Start:       start,
		End:         end,
		Attendee:    attendee,
	})
	if err != nil {
		return nil, err
	}
	return appt, nil
}

func (h *Handler) handleListUpcoming(ctx context.Context, maxResults int64) (interface{}, error) {
	appts, err := h.api.ListUpcoming(ctx, maxResults)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"events": appts,
		"count":  len(appts),
	}, nil
}

func (h *Handler) handleDeleteEvent(ctx context.Context, eventID string) (interface{}, error) {
	if eventID == "" {
		return nil, fmt.Errorf("event_id is required")
	}

	if err := h.api.DeleteEvent(ctx, eventID); err != nil {
		return nil, err
	}
	return map[string]string{"status": "deleted", "event_id": eventID}, nil
}
