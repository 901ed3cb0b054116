package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/byhelaman/sched-planner/internal/logging"
	"github.com/byhelaman/sched-planner/internal/schedule"
	"github.com/byhelaman/sched-planner/internal/store"
	"github.com/byhelaman/sched-planner/internal/workbook"
)

// IngestResult describes one upload.
type IngestResult struct {
	// SessionID owns the collection after the upload. It differs from the
	// requested id when that one was unknown or expired. Empty when nothing
	// was stored and no session existed.
	SessionID string `json:"session_id,omitempty"`

	// Added is the number of records parsed from this upload.
	Added int `json:"added"`

	// Total is the collection size after the upload.
	Total int `json:"total"`

	Files   []workbook.FileResult `json:"files"`
	Ignored []string              `json:"ignored,omitempty"`
}

// Ingest parses uploads and appends their records to the collection of
// sessionID, in upload order.
//
// Files without the workbook extension are ignored. When sessionID is empty,
// unknown or expired a new collection is created. An upload that yields no
// records stores nothing and returns Added == 0; files that failed to parse
// are reported in Files.
func (s *Service) Ingest(ctx context.Context, sessionID string, uploads []workbook.Source) (*IngestResult, error) {
	if len(uploads) == 0 {
		return nil, ErrNoFiles
	}
	if s.maxFiles > 0 && len(uploads) > s.maxFiles {
		return nil, fmt.Errorf("%w: %d files, limit %d", ErrTooManyFiles, len(uploads), s.maxFiles)
	}

	if s.limiter != nil {
		if err := s.limiter.Acquire(ctx); err != nil {
			return nil, err
		}
		defer s.limiter.Release()
	}

	if s.uploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.uploadTimeout)
		defer cancel()
	}

	logger := logging.WithFields(ctx, "session_id", sessionID)
	start := time.Now()

	var accepted []workbook.Source
	result := &IngestResult{SessionID: sessionID}
	for _, u := range uploads {
		if workbook.Accepts(u.Name) {
			accepted = append(accepted, u)
		} else {
			result.Ignored = append(result.Ignored, u.Name)
		}
	}
	if len(result.Ignored) > 0 {
		logger.Info("ignoring non-workbook files", "files", result.Ignored)
	}
	if len(accepted) == 0 {
		return nil, ErrNoWorkbooks
	}

	parsed, err := s.parser.ParseAll(ctx, accepted)
	if err != nil {
		return nil, fmt.Errorf("parse upload: %w", err)
	}
	result.Files = parsed.Files
	result.Added = len(parsed.Records)

	if result.Added == 0 {
		logger.Warn("upload produced no records", "files", len(accepted))
		return result, nil
	}

	id, total, err := s.appendRecords(ctx, sessionID, parsed.Records)
	if err != nil {
		return nil, err
	}
	result.SessionID = id
	result.Total = total

	logging.WithFields(ctx, "session_id", id).Info("upload stored",
		"files", len(accepted),
		"records", result.Added,
		"total", total,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

// appendRecords merges records onto an existing collection or starts a new one.
func (s *Service) appendRecords(ctx context.Context, id string, records []schedule.Record) (string, int, error) {
	if id != "" {
		existing, err := s.store.Load(ctx, id)
		switch {
		case err == nil:
			merged := append(existing, records...)
			err = s.store.Replace(ctx, id, merged)
			if err == nil {
				return id, len(merged), nil
			}
			if !errors.Is(err, store.ErrNotFound) {
				return "", 0, fmt.Errorf("replace session: %w", err)
			}
			// Expired between Load and Replace.
		case errors.Is(err, store.ErrNotFound):
		default:
			return "", 0, fmt.Errorf("load session: %w", err)
		}
	}

	newID, err := s.store.Create(ctx, records)
	if err != nil {
		return "", 0, fmt.Errorf("create session: %w", err)
	}
	return newID, len(records), nil
}
