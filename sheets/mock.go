package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/voicedesk/google-mcp-server/localstore"
)

// Mock records pre-booking rows in the local store instead of a
// spreadsheet.
type Mock struct {
	store  *localstore.Store
	logger *slog.Logger
}

// NewMock creates a sheets stand-in backed by store.
func NewMock(store *localstore.Store, logger *slog.Logger) *Mock {
	return &Mock{store: store, logger: logger}
}

func (m *Mock) AppendPreBooking(ctx context.Context, pb PreBooking) error {
	if pb.Code == "" {
		pb.Code = "mock-" + uuid.NewString()
	}
	if pb.CreatedAt.IsZero() {
		pb.CreatedAt = time.Now()
	}

	err := m.store.PutPreBooking(localstore.PreBooking{
		Code:      pb.Code,
		Name:      pb.Name,
		Email:     pb.Email,
		Topic:     pb.Topic,
		Slot:      pb.Slot,
		CreatedAt: pb.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to append pre-booking: %w", err)
	}

	m.logger.InfoContext(ctx, "mock pre-booking row recorded", "code", pb.Code, "name", pb.Name)
	return nil
}

func (m *Mock) ListPreBookings(ctx context.Context) ([]PreBooking, error) {
	rows, err := m.store.ListPreBookings()
	if err != nil {
		return nil, fmt.Errorf("failed to list pre-bookings: %w", err)
	}

	res := make([]PreBooking, 0, len(rows))
	for _, row := range rows {
		res = append(res, PreBooking{
			Code:      row.Code,
			Name:      row.Name,
			Email:     row.Email,
			Topic:     row.Topic,
			Slot:      row.Slot,
			CreatedAt: row.CreatedAt,
		})
	}

	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.Before(res[j].CreatedAt) })
	return res, nil
}
