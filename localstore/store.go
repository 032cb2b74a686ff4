// Package localstore persists mock-mode side effects in an embedded bolt
// database so the assistant's dev flow works without Google credentials.
package localstore

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

type (
	// Event is a calendar hold recorded instead of a real calendar insert.
	Event struct {
		ID          string    `json:"id"`
		Summary     string    `json:"summary"`
		Description string    `json:"description,omitempty"`
		Start       string    `json:"start"`
		End         string    `json:"end"`
		Attendee    string    `json:"attendee,omitempty"`
		CreatedAt   time.Time `json:"created_at"`
	}

	// PreBooking is a row recorded instead of a spreadsheet append.
	PreBooking struct {
		Code      string    `json:"code"`
		Name      string    `json:"name"`
		Email     string    `json:"email"`
		Topic     string    `json:"topic"`
		Slot      string    `json:"slot"`
		CreatedAt time.Time `json:"created_at"`
	}

	// OutboxMessage is a mail recorded instead of a Gmail send.
	OutboxMessage struct {
		To      string    `json:"to"`
		Subject string    `json:"subject"`
		Body    string    `json:"body"`
		SentAt  time.Time `json:"sent_at"`
	}

	// Note is a document append recorded instead of a Docs batch update.
	Note struct {
		DocID     string    `json:"doc_id"`
		Markdown  string    `json:"markdown"`
		CreatedAt time.Time `json:"created_at"`
	}

	// Store wraps the bolt database backing mock mode.
	Store struct {
		db *bbolt.DB
	}
)

const eventsBucket = "events"
const preBookingsBucket = "pre_bookings"
const outboxBucket = "outbox"
const notesBucket = "notes"

// Open opens the database at path, creating it and its buckets as needed.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{eventsBucket, preBookingsBucket, outboxBucket, notesBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) PutEvent(ev Event) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(&ev)
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", ev.ID, err)
		}
		return tx.Bucket([]byte(eventsBucket)).Put([]byte(ev.ID), data)
	})
}

func (s *Store) DeleteEvent(id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(eventsBucket)).Delete([]byte(id))
	})
}

func (s *Store) GetEvent(id string) (Event, bool, error) {
	var res Event
	found := false

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(eventsBucket)).Get([]byte(id))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &res)
	})

	return res, found, err
}

func (s *Store) ListEvents() ([]Event, error) {
	var res []Event

	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(eventsBucket)).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var ev Event
			if err := json.Unmarshal(v, &ev); err != nil {
				return fmt.Errorf("failed to unmarshal event: %w", err)
			}
			res = append(res, ev)
		}
		return nil
	})

	return res, err
}

func (s *Store) PutPreBooking(pb PreBooking) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(&pb)
		if err != nil {
			return fmt.Errorf("marshal pre-booking %s: %w", pb.Code, err)
		}
		return tx.Bucket([]byte(preBookingsBucket)).Put([]byte(pb.Code), data)
	})
}

func (s *Store) ListPreBookings() ([]PreBooking, error) {
	var res []PreBooking

	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(preBookingsBucket)).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var pb PreBooking
			if err := json.Unmarshal(v, &pb); err != nil {
				return fmt.Errorf("failed to unmarshal pre-booking: %w", err)
			}
			res = append(res, pb)
		}
		return nil
	})

	return res, err
}

func (s *Store) AppendOutbox(msg OutboxMessage) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(outboxBucket))
		seq, err := b.NextSequence()
		if err != nil {
			return fmt.Errorf("outbox sequence: %w", err)
		}
		data, err := json.Marshal(&msg)
		if err != nil {
			return fmt.Errorf("marshal outbox message: %w", err)
		}
		return b.Put(u64tob(seq), data)
	})
}

func (s *Store) ListOutbox() ([]OutboxMessage, error) {
	var res []OutboxMessage

	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(outboxBucket)).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var msg OutboxMessage
			if err := json.Unmarshal(v, &msg); err != nil {
				return fmt.Errorf("failed to unmarshal outbox message: %w", err)
			}
			res = append(res, msg)
		}
		return nil
	})

	return res, err
}

func (s *Store) AppendNote(n Note) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(notesBucket))
		seq, err := b.NextSequence()
		if err != nil {
			return fmt.Errorf("notes sequence: %w", err)
		}
		data, err := json.Marshal(&n)
		if err != nil {
			return fmt.Errorf("marshal note: %w", err)
		}
		return b.Put(u64tob(seq), data)
	})
}

// ListNotes returns notes for docID, or every note when docID is empty.
func (s *Store) ListNotes(docID string) ([]Note, error) {
	var res []Note

	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(notesBucket)).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var n Note
			if err := json.Unmarshal(v, &n); err != nil {
				return fmt.Errorf("failed to unmarshal note: %w", err)
			}
			if docID == "" || n.DocID == docID {
				res = append(res, n)
			}
		}
		return nil
	})

	return res, err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// u64tob renders sequence numbers as zero-padded keys so cursor order
// matches insertion order.
func u64tob(seq uint64) []byte {
	return []byte(fmt.Sprintf("%020d", seq))
}
