// Package store keeps each session's record collection for a limited time.
//
// A collection moves through absent → created → (updated)* → deleted|expired.
// Once deleted or expired its id is never reused: Replace on an absent id
// fails with ErrNotFound and callers must Create a new collection.
//
// Backends give no isolation beyond an atomic whole-collection overwrite;
// concurrent writers to the same id race and the last write wins.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/byhelaman/sched-planner/internal/schedule"
)

// ErrNotFound is returned when an id is unknown, deleted or expired.
var ErrNotFound = errors.New("record collection not found")

// Store persists record collections keyed by an opaque session id.
type Store interface {
	// Create stores records under a freshly generated id.
	Create(ctx context.Context, records []schedule.Record) (string, error)

	// Load returns the collection in stored order.
	Load(ctx context.Context, id string) ([]schedule.Record, error)

	// Replace overwrites an existing collection and refreshes its age.
	Replace(ctx context.Context, id string, records []schedule.Record) error

	// Delete removes a collection. Deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error

	// SweepExpired removes collections last written more than maxAge ago and
	// returns how many it removed. Safe to run concurrently with itself.
	SweepExpired(ctx context.Context, maxAge time.Duration) (int, error)

	Close() error
}

// NewID returns a new session id.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id has the shape of an id returned by NewID.
// Backends treat any other id as absent.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil && len(id) == 36
}

func encodeRecords(records []schedule.Record) ([]byte, error) {
	if records == nil {
		records = []schedule.Record{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode records: %w", err)
	}
	return data, nil
}

func decodeRecords(data []byte) ([]schedule.Record, error) {
	var records []schedule.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return records, nil
}
