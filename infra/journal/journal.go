// Package journal persists ride lifecycle events to a JSONL file so a run
// can be audited after the fact.
package journal

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"
)

// Record is one journal line.
type Record struct {
	Timestamp  time.Time `json:"timestamp"`
	Tick       int       `json:"tick"`
	Event      string    `json:"event"`
	RideID     string    `json:"ride_id"`
	DriverID   string    `json:"driver_id,omitempty"`
	Distance   int       `json:"distance,omitempty"`
	Accepted   bool      `json:"accepted,omitempty"`
	Reassigned bool      `json:"reassigned,omitempty"`
}

// Journal event names.
const (
	EventAssigned  = "assigned"
	EventResponded = "responded"
	EventCompleted = "completed"
	EventFailed    = "failed"
)

// Query filters journal records. Zero fields match everything; ToTick zero
// means no upper bound.
type Query struct {
	RideID   string
	DriverID string
	Event    string
	FromTick int
	ToTick   int
}

// JSONLStore stores records in a JSONL file, one record per line.
type JSONLStore struct {
	path string
	mu   sync.Mutex
}

// NewJSONLStore creates the file if needed and returns the store.
func NewJSONLStore(path string) (*JSONLStore, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	if cerr := f.Close(); cerr != nil {
		return nil, cerr
	}
	return &JSONLStore{path: path}, nil
}

// Append writes one record to the end of the file.
func (s *JSONLStore) Append(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return json.NewEncoder(f).Encode(rec)
}

// Query scans the file and returns the records matching q in append order.
// Malformed lines are skipped.
func (s *JSONLStore) Query(_ context.Context, q Query) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	var res []Record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var r Record
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			continue
		}
		if q.RideID != "" && r.RideID != q.RideID {
			continue
		}
		if q.DriverID != "" && r.DriverID != q.DriverID {
			continue
		}
		if q.Event != "" && r.Event != q.Event {
			continue
		}
		if r.Tick < q.FromTick {
			continue
		}
		if q.ToTick != 0 && r.Tick > q.ToTick {
			continue
		}
		res = append(res, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return res, nil
}
