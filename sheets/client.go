package sheets

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/voicedesk/google-mcp-server/auth"
)

// Client wraps the Google Sheets API client, bound to one spreadsheet tab.
type Client struct {
	service       *sheets.Service
	spreadsheetID string
	sheetName     string
}

// NewClient creates a new Sheets client. An empty spreadsheetID is allowed;
// row operations then return ErrNoSpreadsheet.
func NewClient(ctx context.Context, spreadsheetID, sheetName string, opts ...option.ClientOption) (*Client, error) {
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{
		service:       service,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// AppendRow appends one row after the last non-empty row of the sheet.
func (c *Client) AppendRow(ctx context.Context, values []interface{}) error {
	if c.spreadsheetID == "" {
		return ErrNoSpreadsheet
	}

	valueRange := &sheets.ValueRange{
		Values: [][]interface{}{values},
	}
	_, err := c.service.Spreadsheets.Values.Append(c.spreadsheetID, c.sheetName, valueRange).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to append values: %w", auth.HandleServiceError(err, "sheets"))
	}
	return nil
}

// GetValues gets cell values from a range in A1 notation.
func (c *Client) GetValues(ctx context.Context, readRange string) (*sheets.ValueRange, error) {
	if c.spreadsheetID == "" {
		return nil, ErrNoSpreadsheet
	}

	values, err := c.service.Spreadsheets.Values.Get(c.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get values: %w", auth.HandleServiceError(err, "sheets"))
	}
	return values, nil
}

// AppendPreBooking writes one pre-booking row.
func (c *Client) AppendPreBooking(ctx context.Context, pb PreBooking) error {
	return c.AppendRow(ctx, []interface{}{
		pb.Code,
		pb.Name,
		pb.Email,
		pb.Topic,
		pb.Slot,
		pb.CreatedAt.Format(time.RFC3339),
	})
}

// ListPreBookings reads every row of the sheet as a pre-booking.
func (c *Client) ListPreBookings(ctx context.Context) ([]PreBooking, error) {
	values, err := c.GetValues(ctx, c.sheetName)
	if err != nil {
		return nil, err
	}

	res := make([]PreBooking, 0, len(values.Values))
	for _, row := range values.Values {
		pb := PreBooking{
			Code:  cell(row, 0),
			Name:  cell(row, 1),
			Email: cell(row, 2),
			Topic: cell(row, 3),
			Slot:  cell(row, 4),
		}
		if ts := cell(row, 5); ts != "" {
			pb.CreatedAt, _ = time.Parse(time.RFC3339, ts)
		}
		res = append(res, pb)
	}
	return res, nil
}

func cell(row []interface{}, i int) string {
	if i >= len(row) {
		return ""
	}
	s, _ := row[i].(string)
	return s
}
