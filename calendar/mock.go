package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/voicedesk/google-mcp-server/localstore"
)

// Mock records calendar writes in the local store instead of calling
// Google. IDs carry a "mock-" prefix so transcripts are recognizable.
type Mock struct {
	store  *localstore.Store
	logger *slog.Logger
}

// NewMock creates a calendar stand-in backed by store.
func NewMock(store *localstore.Store, logger *slog.Logger) *Mock {
	return &Mock{store: store, logger: logger}
}

func (m *Mock) CreateEvent(ctx context.Context, appt Appointment) (*Appointment, error) {
	appt.ID = "mock-" + uuid.NewString()

	err := m.store.PutEvent(localstore.Event{
		ID:          appt.ID,
		Summary:     appt.Summary,
		Description: appt.Description,
		Start:       appt.Start.Format(time.RFC3339),
		End:         appt.End.Format(time.RFC3339),
		Attendee:    appt.Attendee,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	m.logger.InfoContext(ctx, "mock calendar event recorded", "id", appt.ID, "summary", appt.Summary)
	return &appt, nil
}

func (m *Mock) ListUpcoming(ctx context.Context, maxResults int64) ([]Appointment, error) {
	if maxResults <= 0 {
		maxResults = defaultUpcomingLimit
	}

	events, err := m.store.ListEvents()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	now := time.Now()
	res := make([]Appointment, 0, len(events))
	for _, ev := range events {
		appt := Appointment{
			ID:          ev.ID,
			Summary:     ev.Summary,
			Description: ev.Description,
			Attendee:    ev.Attendee,
		}
		appt.Start, _ = time.Parse(time.RFC3339, ev.Start)
		appt.End, _ = time.Parse(time.RFC3339, ev.End)
		if !appt.End.IsZero() && appt.End.Before(now) {
			continue
		}
		res = append(res, appt)
	}

	sort.Slice(res, func(i, j int) bool { return res[i].Start.Before(res[j].Start) })
	if int64(len(res)) > maxResults {
		res = res[:maxResults]
	}
	return res, nil
}

func (m *Mock) DeleteEvent(ctx context.Context, eventID string) error {
	_, found, err := m.store.GetEvent(eventID)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if !found {
		return fmt.Errorf("event %s not found", eventID)
	}

	if err := m.store.DeleteEvent(eventID); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	m.logger.InfoContext(ctx, "mock calendar event deleted", "id", eventID)
	return nil
}
