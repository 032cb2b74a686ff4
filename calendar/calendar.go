// Package calendar implements the consultation-calendar tools, backed by
// the Google Calendar API in real mode and by the local store in mock mode.
package calendar

import (
	"context"
	"time"
)

// Appointment is the calendar-facing shape of a consultation hold.
type Appointment struct {
	ID          string    `json:"id"`
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`
	Start       time.Time `json:"startTime"`
	End         time.Time `json:"endTime"`
	Attendee    string    `json:"attendee,omitempty"`
	HTMLLink    string    `json:"htmlLink,omitempty"`
}

// API is the calendar surface the tool handler dispatches to. Client
// implements it against Google Calendar, Mock against the local store.
type API interface {
	CreateEvent(ctx context.Context, appt Appointment) (*Appointment, error)
	ListUpcoming(ctx context.Context, maxResults int64) ([]Appointment, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

const defaultUpcomingLimit = 10
