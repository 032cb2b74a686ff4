// Package smoke drives the voice-session backend through a scripted booking
// conversation and records one result per check.
package smoke

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/voicedesk/google-mcp-server/retry"
	"github.com/voicedesk/google-mcp-server/voice"
)

// Conversation states the booking script keys on. The backend owns the
// state machine; these are the two checkpoints the script asserts.
const (
	StateOfferingSlots     = "offering_slots"
	StateConfirmingBooking = "confirming_booking"
)

// VoiceAPI is the backend surface the runner exercises.
//
//go:generate mockgen -package mocks -destination mocks/voiceapi.go . VoiceAPI
type VoiceAPI interface {
	Probe(ctx context.Context) error
	StartSession(ctx context.Context) (*voice.Session, error)
	SendMessage(ctx context.Context, sessionID, message string) (*voice.Reply, error)
	History(ctx context.Context, sessionID string) (*voice.History, error)
	Logs(ctx context.Context) ([]json.RawMessage, error)
}

// Result is one recorded check. The sequence is append-only for the run.
type Result struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Summary aggregates a finished run.
type Summary struct {
	Total   int
	Passed  int
	Failed  int
	Results []Result
}

// Ok reports whether every check passed.
func (s *Summary) Ok() bool {
	return s.Failed == 0
}

var exploratoryMessages = []string{
	"Hi! What can you help me with?",
	"Which topics can I book a consultation about?",
}

type scriptStep struct {
	name    string
	message string
	// expectState, when set, must match the reply state for the script to
	// continue.
	expectState string
}

var bookingScript = []scriptStep{
	{name: "booking topic", message: "I'd like to book a consultation about retirement planning."},
	{name: "time preference", message: "Sometime next Tuesday afternoon would suit me.", expectState: StateOfferingSlots},
	{name: "slot choice", message: "The first slot works for me, please.", expectState: StateConfirmingBooking},
	{name: "booking confirmation", message: "Yes, please confirm the booking."},
}

// Runner executes the smoke sequence against a voice backend.
type Runner struct {
	api     VoiceAPI
	poller  *retry.Retryer
	logger  *slog.Logger
	out     io.Writer
	results []Result
}

// NewRunner creates a runner reporting to out. Nil logger and out fall back
// to slog.Default and os.Stdout.
func NewRunner(api VoiceAPI, logger *slog.Logger, out io.Writer) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if out == nil {
		out = os.Stdout
	}
	return &Runner{
		api:    api,
		poller: retry.New(retry.Config{Logger: logger}),
		logger: logger,
		out:    out,
	}
}

// Run executes the whole sequence and returns the summary. An unreachable
// backend is the one fatal outcome: the run aborts before any session is
// created and the error carries the remediation.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	if err := r.api.Probe(ctx); err != nil {
		return nil, fmt.Errorf("voice backend is not reachable; start it and retry: %w", err)
	}
	r.record("health probe", true, "server is reachable", nil)

	r.exploratorySession(ctx)
	r.bookingSession(ctx)
	r.globalLogs(ctx)

	return r.summary(), nil
}

func (r *Runner) exploratorySession(ctx context.Context) {
	session, err := r.api.StartSession(ctx)
	if err != nil {
		r.record("start session", false, err.Error(), nil)
		return
	}
	if session.SessionID == "" || session.Greeting == "" {
		r.record("start session", false, "incomplete session payload", session)
		return
	}
	r.record("start session", true,
		fmt.Sprintf("session %s started, greeting %q", truncateID(session.SessionID), truncate(session.Greeting, 60)), nil)

	// The backend records transcript entries asynchronously; poll instead
	// of sleeping a fixed interval.
	history, err := retry.DoWithResult(ctx, r.poller, func(ctx context.Context) (*voice.History, error) {
		h, err := r.api.History(ctx, session.SessionID)
		if err != nil {
			return nil, err
		}
		if len(h.Messages) == 0 {
			return nil, errors.New("history is empty")
		}
		return h, nil
	})
	if err != nil {
		r.record("conversation history", false, err.Error(), nil)
	} else {
		r.record("conversation history", true, fmt.Sprintf("%d message(s) recorded", len(history.Messages)), nil)
	}

	for i, msg := range exploratoryMessages {
		name := fmt.Sprintf("exploratory message %d", i+1)
		reply, err := r.api.SendMessage(ctx, session.SessionID, msg)
		if err != nil {
			r.record(name, false, err.Error(), nil)
			continue
		}
		if reply.Response == "" {
			r.record(name, false, "empty response", reply)
			continue
		}
		if reply.State == "" {
			r.record(name, false, "reply carries no state", reply)
			continue
		}
		r.record(name, true, fmt.Sprintf("state %q, response %q", reply.State, truncate(reply.Response, 60)), nil)
	}
}

func (r *Runner) bookingSession(ctx context.Context) {
	session, err := r.api.StartSession(ctx)
	if err != nil {
		r.record("booking session", false, err.Error(), nil)
		return
	}
	if session.SessionID == "" {
		r.record("booking session", false, "missing session id", session)
		return
	}
	r.record("booking session", true, fmt.Sprintf("session %s started", truncateID(session.SessionID)), nil)

	for _, step := range bookingScript {
		reply, err := r.api.SendMessage(ctx, session.SessionID, step.message)
		if err != nil {
			r.record(step.name, false, err.Error(), nil)
			return
		}
		if reply.Response == "" {
			r.record(step.name, false, "empty response", reply)
			return
		}
		if step.expectState != "" && reply.State != step.expectState {
			// The backend took a different conversational turn, so the
			// rest of the script no longer applies. Recorded visibly, but
			// not as a failure.
			r.record(step.name, true,
				fmt.Sprintf("stopped early: expected state %q, got %q", step.expectState, reply.State), reply)
			return
		}
		var data any
		if reply.BookingCode != "" {
			data = map[string]string{"bookingCode": reply.BookingCode}
		}
		r.record(step.name, true, fmt.Sprintf("state %q", reply.State), data)
	}
}

func (r *Runner) globalLogs(ctx context.Context) {
	logs, err := retry.DoWithResult(ctx, r.poller, func(ctx context.Context) ([]json.RawMessage, error) {
		entries, err := r.api.Logs(ctx)
		if err != nil {
			return nil, err
		}
		if len(entries) == 0 {
			return nil, errors.New("no log entries yet")
		}
		return entries, nil
	})
	if err != nil {
		r.record("global logs", false, err.Error(), nil)
		return
	}
	r.record("global logs", true, fmt.Sprintf("%d entries", len(logs)), nil)
}

func (r *Runner) record(name string, passed bool, message string, data any) {
	r.results = append(r.results, Result{Name: name, Passed: passed, Message: message, Data: data})

	status := "PASS"
	if !passed {
		status = "FAIL"
	}
	fmt.Fprintf(r.out, "[%s] %s: %s\n", status, name, message)

	if passed {
		r.logger.Debug("check passed", slog.String("name", name))
	} else {
		r.logger.Error("check failed", slog.String("name", name), slog.String("message", message))
	}
}

func (r *Runner) summary() *Summary {
	s := &Summary{Results: append([]Result(nil), r.results...)}
	for _, res := range r.results {
		s.Total++
		if res.Passed {
			s.Passed++
		} else {
			s.Failed++
		}
	}
	fmt.Fprintf(r.out, "\n%d/%d checks passed\n", s.Passed, s.Total)
	return s
}

func truncateID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8] + "..."
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
