// Package sheets records pre-bookings in the advisor's spreadsheet, backed
// by the Google Sheets API in real mode and by the local store in mock mode.
package sheets

import (
	"context"
	"errors"
	"time"
)

// PreBooking is one row of the pre-bookings sheet.
type PreBooking struct {
	Code      string    `json:"bookingCode"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Topic     string    `json:"topic,omitempty"`
	Slot      string    `json:"slot,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// API is the sheets surface the tool handler dispatches to.
type API interface {
	AppendPreBooking(ctx context.Context, pb PreBooking) error
	ListPreBookings(ctx context.Context) ([]PreBooking, error)
}

// ErrNoSpreadsheet is returned when no spreadsheet ID is configured. The
// tool handler reports these calls as skipped instead of failing the
// conversation.
var ErrNoSpreadsheet = errors.New("no pre-bookings spreadsheet configured")
