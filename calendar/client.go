package calendar

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/voicedesk/google-mcp-server/auth"
)

// Client wraps the Google Calendar API client, bound to one calendar.
type Client struct {
	service    *calendar.Service
	calendarID string
}

// NewClient creates a new Calendar client for calendarID.
func NewClient(ctx context.Context, calendarID string, opts ...option.ClientOption) (*Client, error) {
	service, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	return &Client{
		service:    service,
		calendarID: calendarID,
	}, nil
}

// CreateEvent inserts a consultation hold into the calendar.
func (c *Client) CreateEvent(ctx context.Context, appt Appointment) (*Appointment, error) {
	event := &calendar.Event{
		Summary:     appt.Summary,
		Description: appt.Description,
		Start: &calendar.EventDateTime{
			DateTime: appt.Start.Format(time.RFC3339),
		},
		End: &calendar.EventDateTime{
			DateTime: appt.End.Format(time.RFC3339),
		},
	}
	if appt.Attendee != "" {
		event.Attendees = []*calendar.EventAttendee{{Email: appt.Attendee}}
	}

	created, err := c.service.Events.Insert(c.calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", auth.HandleServiceError(err, "calendar"))
	}

	return fromEvent(created), nil
}

// ListUpcoming lists events starting from now, soonest first.
func (c *Client) ListUpcoming(ctx context.Context, maxResults int64) ([]Appointment, error) {
	if maxResults <= 0 {
		maxResults = defaultUpcomingLimit
	}

	call := c.service.Events.List(c.calendarID).
		ShowDeleted(false).
		SingleEvents(true).
		OrderBy("startTime").
		TimeMin(time.Now().Format(time.RFC3339)).
		MaxResults(maxResults)

	events, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", auth.HandleServiceError(err, "calendar"))
	}

	res := make([]Appointment, 0, len(events.Items))
	for _, item := range events.Items {
		res = append(res, *fromEvent(item))
	}
	return res, nil
}

// DeleteEvent removes an event from the calendar.
func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	if err := c.service.Events.Delete(c.calendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete event: %w", auth.HandleServiceError(err, "calendar"))
	}
	return nil
}

func fromEvent(event *calendar.Event) *Appointment {
	appt := &Appointment{
		ID:          event.Id,
		Summary:     event.Summary,
		Description: event.Description,
		Start:       parseEventTime(event.Start),
		End:         parseEventTime(event.End),
		HTMLLink:    event.HtmlLink,
	}
	if len(event.Attendees) > 0 {
		appt.Attendee = event.Attendees[0].Email
	}
	return appt
}

// parseEventTime reads either the dateTime or the all-day date form.
func parseEventTime(edt *calendar.EventDateTime) time.Time {
	if edt == nil {
		return time.Time{}
	}
	if edt.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, edt.DateTime); err == nil {
			return t
		}
	}
	if edt.Date != "" {
		if t, err := time.Parse("2006-01-02", edt.Date); err == nil {
			return t
		}
	}
	return time.Time{}
}
