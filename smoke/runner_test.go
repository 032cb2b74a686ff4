package smoke_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/voicedesk/google-mcp-server/smoke"
	"github.com/voicedesk/google-mcp-server/smoke/mocks"
	"github.com/voicedesk/google-mcp-server/voice"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func reply(response, state string) *voice.Reply {
	return &voice.Reply{Response: response, State: state}
}

// expectBookingReplies sequences the scripted session by call order:
// topic, time preference, slot choice, confirmation.
func expectBookingReplies(api *mocks.MockVoiceAPI, sessionID string, replies []*voice.Reply) {
	calls := 0
	api.EXPECT().
		SendMessage(gomock.Any(), sessionID, gomock.Any()).
		DoAndReturn(func(context.Context, string, string) (*voice.Reply, error) {
			r := replies[calls]
			calls++
			return r, nil
		}).
		Times(len(replies))
}

func TestRun_ServerDownAbortsBeforeAnySession(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	api := mocks.NewMockVoiceAPI(ctrl)
	api.EXPECT().Probe(gomock.Any()).Return(fmt.Errorf("probe: %w", voice.ErrServerDown))
	// No StartSession, SendMessage, History or Logs expectations: any such
	// call fails the test.

	runner := smoke.NewRunner(api, discardLogger(), &bytes.Buffer{})
	summary, err := runner.Run(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, voice.ErrServerDown)
	assert.Nil(t, summary)
}

func TestRun_HappyPath(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	api := mocks.NewMockVoiceAPI(ctrl)
	api.EXPECT().Probe(gomock.Any()).Return(nil)

	// Exploratory session.
	api.EXPECT().StartSession(gomock.Any()).Return(&voice.Session{SessionID: "abc123", Greeting: "Hello"}, nil)
	api.EXPECT().History(gomock.Any(), "abc123").Return(&voice.History{
		Messages: []json.RawMessage{json.RawMessage(`{"role":"assistant","text":"Hello"}`)},
	}, nil)
	api.EXPECT().
		SendMessage(gomock.Any(), "abc123", gomock.Any()).
		Return(reply("I can help you book consultations.", "idle"), nil).
		Times(2)

	// Booking session follows the scripted states to completion.
	api.EXPECT().StartSession(gomock.Any()).Return(&voice.Session{SessionID: "s-book", Greeting: "Hi"}, nil)
	expectBookingReplies(api, "s-book", []*voice.Reply{
		reply("What time suits you?", "collecting_details"),
		reply("I have three slots on Tuesday.", smoke.StateOfferingSlots),
		reply("Shall I confirm 14:00?", smoke.StateConfirmingBooking),
		{Response: "Booked!", State: "booked", BookingCode: "VD-1234"},
	})

	api.EXPECT().Logs(gomock.Any()).Return([]json.RawMessage{
		json.RawMessage(`{"event":"session_started"}`),
		json.RawMessage(`{"event":"message"}`),
	}, nil)

	var out bytes.Buffer
	runner := smoke.NewRunner(api, discardLogger(), &out)
	summary, err := runner.Run(context.Background())

	require.NoError(t, err)
	assert.True(t, summary.Ok())
	assert.Equal(t, 11, summary.Total)
	assert.Equal(t, 11, summary.Passed)
	assert.Zero(t, summary.Failed)

	// The start-session report carries the session id so failures can be
	// cross-referenced with backend logs.
	assert.Contains(t, out.String(), "abc123")
	assert.Contains(t, out.String(), "11/11 checks passed")

	// The confirmation step keeps the booking code as result data.
	last := summary.Results[len(summary.Results)-2]
	assert.Equal(t, "booking confirmation", last.Name)
	assert.Equal(t, map[string]string{"bookingCode": "VD-1234"}, last.Data)
}

func TestRun_EmptyResponseIsFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	api := mocks.NewMockVoiceAPI(ctrl)
	api.EXPECT().Probe(gomock.Any()).Return(nil)

	api.EXPECT().StartSession(gomock.Any()).Return(&voice.Session{SessionID: "abc123", Greeting: "Hello"}, nil)
	api.EXPECT().History(gomock.Any(), "abc123").Return(&voice.History{
		Messages: []json.RawMessage{json.RawMessage(`{}`)},
	}, nil)
	// A present state does not rescue an empty response.
	api.EXPECT().
		SendMessage(gomock.Any(), "abc123", gomock.Any()).
		Return(reply("", "idle"), nil).
		Times(2)

	api.EXPECT().StartSession(gomock.Any()).Return(&voice.Session{SessionID: "s-book", Greeting: "Hi"}, nil)
	expectBookingReplies(api, "s-book", []*voice.Reply{
		reply("What time suits you?", "collecting_details"),
		reply("I have three slots.", smoke.StateOfferingSlots),
		reply("Shall I confirm?", smoke.StateConfirmingBooking),
		reply("Booked!", "booked"),
	})
	api.EXPECT().Logs(gomock.Any()).Return([]json.RawMessage{json.RawMessage(`{}`)}, nil)

	runner := smoke.NewRunner(api, discardLogger(), &bytes.Buffer{})
	summary, err := runner.Run(context.Background())

	require.NoError(t, err)
	assert.False(t, summary.Ok())
	assert.Equal(t, 2, summary.Failed)

	for _, res := range summary.Results {
		if !res.Passed {
			assert.Contains(t, res.Message, "empty response")
		}
	}
}

func TestRun_BookingDivergenceStopsEarlyWithoutFailing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	api := mocks.NewMockVoiceAPI(ctrl)
	api.EXPECT().Probe(gomock.Any()).Return(nil)

	api.EXPECT().StartSession(gomock.Any()).Return(&voice.Session{SessionID: "0123456789abcdef", Greeting: "Hello"}, nil)
	api.EXPECT().History(gomock.Any(), "0123456789abcdef").Return(&voice.History{
		Messages: []json.RawMessage{json.RawMessage(`{}`)},
	}, nil)
	api.EXPECT().
		SendMessage(gomock.Any(), "0123456789abcdef", gomock.Any()).
		Return(reply("Happy to help.", "idle"), nil).
		Times(2)

	// The second scripted turn never reaches offering_slots, so the slot
	// choice and confirmation must not be sent.
	api.EXPECT().StartSession(gomock.Any()).Return(&voice.Session{SessionID: "s-book", Greeting: "Hi"}, nil)
	expectBookingReplies(api, "s-book", []*voice.Reply{
		reply("What time suits you?", "collecting_details"),
		reply("Could you repeat that?", "collecting_details"),
	})

	api.EXPECT().Logs(gomock.Any()).Return([]json.RawMessage{json.RawMessage(`{}`)}, nil)

	var out bytes.Buffer
	runner := smoke.NewRunner(api, discardLogger(), &out)
	summary, err := runner.Run(context.Background())

	require.NoError(t, err)
	assert.True(t, summary.Ok(), "divergence is an early stop, not a failure")

	var stopped *smoke.Result
	for i := range summary.Results {
		if summary.Results[i].Name == "time preference" {
			stopped = &summary.Results[i]
		}
	}
	require.NotNil(t, stopped)
	assert.True(t, stopped.Passed)
	assert.Contains(t, stopped.Message, "stopped early")
	assert.Contains(t, stopped.Message, "offering_slots")

	// Long session ids are truncated in report lines.
	assert.Contains(t, out.String(), "01234567...")
}

func TestRun_HistoryIsPolledUntilReady(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	api := mocks.NewMockVoiceAPI(ctrl)
	api.EXPECT().Probe(gomock.Any()).Return(nil)

	api.EXPECT().StartSession(gomock.Any()).Return(&voice.Session{SessionID: "abc123", Greeting: "Hello"}, nil)
	// First poll sees an empty transcript, the retry sees the greeting.
	api.EXPECT().History(gomock.Any(), "abc123").Return(&voice.History{}, nil)
	api.EXPECT().History(gomock.Any(), "abc123").Return(&voice.History{
		Messages: []json.RawMessage{json.RawMessage(`{}`)},
	}, nil)
	api.EXPECT().
		SendMessage(gomock.Any(), "abc123", gomock.Any()).
		Return(reply("Happy to help.", "idle"), nil).
		Times(2)

	api.EXPECT().StartSession(gomock.Any()).Return(&voice.Session{SessionID: "s-book", Greeting: "Hi"}, nil)
	expectBookingReplies(api, "s-book", []*voice.Reply{
		reply("What time suits you?", "collecting_details"),
		reply("I have three slots.", smoke.StateOfferingSlots),
		reply("Shall I confirm?", smoke.StateConfirmingBooking),
		reply("Booked!", "booked"),
	})
	api.EXPECT().Logs(gomock.Any()).Return([]json.RawMessage{json.RawMessage(`{}`)}, nil)

	runner := smoke.NewRunner(api, discardLogger(), &bytes.Buffer{})
	summary, err := runner.Run(context.Background())

	require.NoError(t, err)
	assert.True(t, summary.Ok())
}

func TestRun_StepErrorIsRecordedAndRunContinues(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	api := mocks.NewMockVoiceAPI(ctrl)
	api.EXPECT().Probe(gomock.Any()).Return(nil)

	// The exploratory session cannot even start; the booking session and
	// the log fetch still run.
	api.EXPECT().StartSession(gomock.Any()).Return(nil, assert.AnError)

	api.EXPECT().StartSession(gomock.Any()).Return(&voice.Session{SessionID: "s-book", Greeting: "Hi"}, nil)
	expectBookingReplies(api, "s-book", []*voice.Reply{
		reply("What time suits you?", "collecting_details"),
		reply("I have three slots.", smoke.StateOfferingSlots),
		reply("Shall I confirm?", smoke.StateConfirmingBooking),
		reply("Booked!", "booked"),
	})
	api.EXPECT().Logs(gomock.Any()).Return([]json.RawMessage{json.RawMessage(`{}`)}, nil)

	runner := smoke.NewRunner(api, discardLogger(), &bytes.Buffer{})
	summary, err := runner.Run(context.Background())

	require.NoError(t, err)
	assert.False(t, summary.Ok())
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, "start session", summary.Results[1].Name)
	assert.False(t, summary.Results[1].Passed)
}
