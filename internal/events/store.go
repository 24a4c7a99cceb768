// Package events keeps an append-only journal of profile launches in
// events.jsonl next to the config.
package events

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/treykane/remotec/internal/config"
)

// Event types.
const (
	TypeLaunched = "launched"
	TypeFailed   = "failed"
)

// Event is one launch record.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Kind      string    `json:"kind"`
	Profile   string    `json:"profile"`
	EventType string    `json:"event_type"`
	Command   string    `json:"command,omitempty"`
	Message   string    `json:"message,omitempty"`
}

// Query controls event filtering and bounded reads.
type Query struct {
	Kind      string
	Profile   string
	EventType string
	Since     time.Time
	Limit     int
}

// Store provides append/read access to the journal.
type Store struct {
	path string
}

// NewStore returns a store backed by events.jsonl in the config directory.
func NewStore() (*Store, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return nil, err
	}
	return &Store{path: filepath.Join(dir, "events.jsonl")}, nil
}

// Append writes a single event as one JSON line.
func (s *Store) Append(evt Event) error {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	b, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	_, err = f.Write(append(b, '\n'))
	return err
}

// Read returns matching events in append order. With a limit, only the most
// recent Limit events are kept. Lines that fail to decode are skipped.
func (s *Store) Read(q Query) ([]Event, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var out []Event
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var evt Event
		if err := json.Unmarshal([]byte(line), &evt); err != nil {
			continue
		}
		if !matches(evt, q) {
			continue
		}
		out = append(out, evt)
		if q.Limit > 0 && len(out) > q.Limit {
			out = out[len(out)-q.Limit:]
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan events: %w", err)
	}
	return out, nil
}

func matches(evt Event, q Query) bool {
	if q.Kind != "" && !strings.EqualFold(evt.Kind, q.Kind) {
		return false
	}
	if q.Profile != "" && evt.Profile != q.Profile {
		return false
	}
	if q.EventType != "" && evt.EventType != q.EventType {
		return false
	}
	if !q.Since.IsZero() && evt.Timestamp.Before(q.Since) {
		return false
	}
	return true
}
