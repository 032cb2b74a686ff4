//nolint:errcheck,gosec // development fixture allows simpler error handling
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

func main() {
	addr := flag.String("addr", ":3000", "address to listen on")
	flag.Parse()

	f := newFixture()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /voice/session/start", f.handleStart)
	mux.HandleFunc("POST /voice/session/{id}/message", f.handleMessage)
	mux.HandleFunc("GET /voice/session/{id}/history", f.handleHistory)
	mux.HandleFunc("GET /voice/logs/all", f.handleLogs)

	log.Printf("Voice fixture listening on %s", *addr)
	log.Printf("Point the smoke tester at http://localhost%s", *addr)

	if err := http.ListenAndServe(*addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

type message struct {
	Role string `json:"role"`
	Text string `json:"text"`
	At   string `json:"timestamp"`
}

type logEntry struct {
	SessionID string `json:"sessionId"`
	Event     string `json:"event"`
	At        string `json:"timestamp"`
}

// session is one scripted conversation. The turn counter drives the canned
// state machine: collecting_details, offering_slots, confirming_booking,
// then booked.
type session struct {
	id          string
	turns       int
	bookingCode string
	messages    []message
}

type turnReply struct {
	Response    string `json:"response"`
	State       string `json:"state"`
	BookingCode string `json:"bookingCode,omitempty"`
}

// scriptedReply advances the conversation one turn.
func (s *session) scriptedReply() turnReply {
	switch s.turns {
	case 1:
		return turnReply{
			State:    "collecting_details",
			Response: "Happy to help. Which topic would you like to discuss, and when suits you?",
		}
	case 2:
		return turnReply{
			State:    "offering_slots",
			Response: "I can offer Tuesday 14:00, Tuesday 15:30 or Wednesday 10:00. Which works best?",
		}
	case 3:
		return turnReply{
			State:    "confirming_booking",
			Response: "Tuesday 14:00 it is. Shall I confirm the booking?",
		}
	default:
		if s.bookingCode == "" {
			s.bookingCode = "VD-" + strings.ToUpper(uuid.NewString()[:4])
		}
		return turnReply{
			State:       "booked",
			Response:    fmt.Sprintf("All set! Your booking code is %s. The advisor has been notified.", s.bookingCode),
			BookingCode: s.bookingCode,
		}
	}
}

type fixture struct {
	mu       sync.Mutex
	sessions map[string]*session
	logs     []logEntry
}

func newFixture() *fixture {
	return &fixture{sessions: make(map[string]*session), logs: []logEntry{}}
}

func (f *fixture) handleStart(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	greeting := "Hi! I'm the Voicedesk assistant. I can answer questions and book advisor consultations."

	f.mu.Lock()
	f.sessions[id] = &session{
		id:       id,
		messages: []message{{Role: "assistant", Text: greeting, At: now()}},
	}
	f.logs = append(f.logs, logEntry{SessionID: id, Event: "session_started", At: now()})
	f.mu.Unlock()

	log.Printf("Session %s started", id)
	writeJSON(w, http.StatusOK, map[string]string{"sessionId": id, "greeting": greeting})
}

func (f *fixture) handleMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Message == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	id := r.PathValue("id")

	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.sessions[id]
	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}

	s.turns++
	reply := s.scriptedReply()
	s.messages = append(s.messages,
		message{Role: "user", Text: payload.Message, At: now()},
		message{Role: "assistant", Text: reply.Response, At: now()},
	)
	f.logs = append(f.logs, logEntry{SessionID: id, Event: "message:" + reply.State, At: now()})

	log.Printf("Session %s turn %d -> %s", id, s.turns, reply.State)
	writeJSON(w, http.StatusOK, reply)
}

func (f *fixture) handleHistory(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	s, ok := f.sessions[r.PathValue("id")]
	var msgs []message
	if ok {
		msgs = append([]message(nil), s.messages...)
	}
	f.mu.Unlock()

	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"messages": msgs})
}

func (f *fixture) handleLogs(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	logs := append([]logEntry(nil), f.logs...)
	f.mu.Unlock()

	if logs == nil {
		logs = []logEntry{}
	}
	writeJSON(w, http.StatusOK, logs)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
