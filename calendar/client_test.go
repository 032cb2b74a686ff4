package calendar

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// mockTransport is a mock HTTP transport for testing
type mockTransport struct {
	responses map[string]*http.Response
}

func (m *mockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if resp, ok := m.responses[req.URL.Path]; ok {
		return resp, nil
	}
	return &http.Response{
		StatusCode: 404,
		Body:       io.NopCloser(strings.NewReader("Not Found")),
	}, nil
}

func newTestClient(t *testing.T, responses map[string]*http.Response) *Client {
	t.Helper()

	httpClient := &http.Client{Transport: &mockTransport{responses: responses}}
	service, err := calendar.NewService(context.Background(), option.WithHTTPClient(httpClient))
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}
	return &Client{service: service, calendarID: "primary"}
}

func jsonResponse(body string) *http.Response {
	return &http.Response{
		StatusCode: 200,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func TestCreateEvent(t *testing.T) {
	mockResp := `{
		"id": "new-event-id",
		"summary": "Consultation: mortgage advice",
		"description": "Booked via voice assistant",
		"htmlLink": "https://calendar.google.com/event?eid=abc",
		"start": {
			"dateTime": "2024-03-15T10:00:00Z"
		},
		"end": {
			"dateTime": "2024-03-15T10:30:00Z"
		},
		"attendees": [
			{"email": "customer@example.com"}
		],
		"status": "confirmed"
	}`

	client := newTestClient(t, map[string]*http.Response{
		"/calendar/v3/calendars/primary/events": jsonResponse(mockResp),
	})

	appt, err := client.CreateEvent(context.Background(), Appointment{
		Summary:     "Consultation: mortgage advice",
		Description: "Booked via voice assistant",
		Start:       time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
		End:         time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
		Attendee:    "customer@example.com",
	})
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	if appt.ID != "new-event-id" {
		t.Errorf("Expected event ID 'new-event-id', got %s", appt.ID)
	}
	if appt.Attendee != "customer@example.com" {
		t.Errorf("Expected attendee 'customer@example.com', got %s", appt.Attendee)
	}
	if !appt.Start.Equal(time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected start time: %v", appt.Start)
	}
	if appt.HTMLLink == "" {
		t.Error("Expected htmlLink to be set")
	}
}

func TestListUpcoming(t *testing.T) {
	mockResp := `{
		"items": [
			{
				"id": "event1",
				"summary": "Consultation: pensions",
				"start": {
					"dateTime": "2024-03-15T10:00:00Z"
				},
				"end": {
					"dateTime": "2024-03-15T10:30:00Z"
				}
			},
			{
				"id": "event2",
				"summary": "Advisor offsite",
				"start": {
					"date": "2024-03-20"
				},
				"end": {
					"date": "2024-03-21"
				}
			}
		]
	}`

	client := newTestClient(t, map[string]*http.Response{
		"/calendar/v3/calendars/primary/events": jsonResponse(mockResp),
	})

	appts, err := client.ListUpcoming(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListUpcoming failed: %v", err)
	}

	if len(appts) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(appts))
	}
	if appts[0].ID != "event1" {
		t.Errorf("Expected first event ID 'event1', got %s", appts[0].ID)
	}
	if !appts[1].Start.Equal(time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected all-day start to parse, got %v", appts[1].Start)
	}
}

func TestDeleteEvent(t *testing.T) {
	client := newTestClient(t, map[string]*http.Response{
		"/calendar/v3/calendars/primary/events/event1": {
			StatusCode: 204,
			Body:       io.NopCloser(strings.NewReader("")),
		},
	})

	if err := client.DeleteEvent(context.Background(), "event1"); err != nil {
		t.Fatalf("DeleteEvent failed: %v", err)
	}
}

func TestDeleteEvent_NotFound(t *testing.T) {
	client := newTestClient(t, map[string]*http.Response{})

	if err := client.DeleteEvent(context.Background(), "missing"); err == nil {
		t.Fatal("Expected error for missing event")
	}
}

func TestParseEventTime(t *testing.T) {
	tests := []struct {
		name     string
		edt      *calendar.EventDateTime
		expected time.Time
	}{
		{
			name:     "dateTime",
			edt:      &calendar.EventDateTime{DateTime: "2024-03-15T10:00:00Z"},
			expected: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
		},
		{
			name:     "all-day date",
			edt:      &calendar.EventDateTime{Date: "2024-03-15"},
			expected: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "nil",
			edt:      nil,
			expected: time.Time{},
		},
		{
			name:     "garbage",
			edt:      &calendar.EventDateTime{DateTime: "not-a-time"},
			expected: time.Time{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseEventTime(tt.edt)
			if !got.Equal(tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}
