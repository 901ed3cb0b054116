package core

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/byhelaman/sched-planner/internal/logging"
	"github.com/byhelaman/sched-planner/internal/schedule"
)

// DeleteRows removes the records at the given 0-based indices and stores the
// rest in their original order. Out-of-range and repeated indices are ignored.
// It returns the remaining records.
func (s *Service) DeleteRows(ctx context.Context, sessionID string, indices []int) ([]schedule.Record, error) {
	records, err := s.Records(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	kept := removeRows(records, indices)
	if len(kept) == len(records) {
		return records, nil
	}

	if err := s.store.Replace(ctx, sessionID, kept); err != nil {
		return nil, fmt.Errorf("replace session: %w", err)
	}

	logging.WithFields(ctx, "session_id", sessionID).Info("rows deleted",
		"deleted", len(records)-len(kept),
		"remaining", len(kept),
	)
	return kept, nil
}

// Discard deletes the session's collection. Discarding an unknown or empty
// session id is not an error.
func (s *Service) Discard(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	logging.WithFields(ctx, "session_id", sessionID).Info("session discarded")
	return nil
}

// ParseRowIndices parses a comma-separated list of row indices such as "1,3".
// Blank entries are skipped; anything else that is not a non-negative
// integer is an ErrInvalidRowIndex.
func ParseRowIndices(s string) ([]int, error) {
	var indices []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidRowIndex, part)
		}
		indices = append(indices, n)
	}
	return indices, nil
}

func removeRows(records []schedule.Record, indices []int) []schedule.Record {
	if len(indices) == 0 {
		return records
	}
	drop := make(map[int]struct{}, len(indices))
	for _, i := range indices {
		drop[i] = struct{}{}
	}

	kept := make([]schedule.Record, 0, len(records))
	for i, r := range records {
		if _, ok := drop[i]; !ok {
			kept = append(kept, r)
		}
	}
	return kept
}
