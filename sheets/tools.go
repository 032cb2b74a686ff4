package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/voicedesk/google-mcp-server/server"
)

// Handler implements the ServiceHandler interface for Sheets
type Handler struct {
	api API
}

// NewHandler creates a new Sheets handler
func NewHandler(api API) *Handler {
	return &Handler{api: api}
}

// GetTools returns the available Sheets tools
func (h *Handler) GetTools() []server.Tool {
	return []server.Tool{
		{
			Name:        "sheets_append_pre_booking",
			Description: "Record a pre-booking row in the advisor's spreadsheet",
			InputSchema: server.InputSchema{
				Type: "object",
				Properties: map[string]server.Property{
					"booking_code": {
						Type:        "string",
						Description: "Booking reference code",
					},
					"name": {
						Type:        "string",
						Description: "Customer name",
					},
					"email": {
						Type:        "string",
						Description: "Customer email",
					},
					"topic": {
						Type:        "string",
						Description: "Consultation topic",
					},
					"slot": {
						Type:        "string",
						Description: "Chosen time slot",
					},
				},
				Required: []string{"booking_code", "name"},
			},
		},
		{
			Name:        "sheets_list_pre_bookings",
			Description: "List recorded pre-booking rows",
			InputSchema: server.InputSchema{
				Type:       "object",
				Properties: map[string]server.Property{},
			},
		},
	}
}

// HandleToolCall handles a tool call for Sheets service
func (h *Handler) HandleToolCall(ctx context.Context, name string, arguments json.RawMessage) (interface{}, error) {
	switch name {
	case "sheets_append_pre_booking":
		var args struct {
			BookingCode string `json:"booking_code"`
			Name        string `json:"name"`
			Email       string `json:"email"`
			Topic       string `json:"topic"`
			Slot        string `json:"slot"`
		}
		if err := json.Unmarshal(arguments, &args); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		return h.handleAppendPreBooking(ctx, args.BookingCode, args.Name, args.Email, args.Topic, args.Slot)

	case "sheets_list_pre_bookings":
		return h.handleListPreBookings(ctx)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

func (h *Handler) handleAppendPreBooking(ctx context.Context, code, name, email, topic, slot string) (interface{}, error) {
	if code == "" {
		return nil, fmt.Errorf("booking_code is required")
	}
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	err := h.api.AppendPreBooking(ctx, PreBooking{
		Code:      code,
		Name:      name,
		Email:     email,
		Topic:     topic,
		Slot:      slot,
		CreatedAt: time.Now(),
	})
	if errors.Is(err, ErrNoSpreadsheet) {
		return map[string]string{
			"status":       "skipped",
			"reason":       ErrNoSpreadsheet.Error(),
			"booking_code": code,
		}, nil
	}
	if err != nil {
		return nil, err
	}

	return map[string]string{"status": "recorded", "booking_code": code}, nil
}

func (h *Handler) handleListPreBookings(ctx context.Context) (interface{}, error) {
	rows, err := h.api.ListPreBookings(ctx)
	if errors.Is(err, ErrNoSpreadsheet) {
		return map[string]interface{}{
			"preBookings": []PreBooking{},
			"count":       0,
			"status":      "skipped",
			"reason":      ErrNoSpreadsheet.Error(),
		}, nil
	}
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"preBookings": rows,
		"count":       len(rows),
	}, nil
}
