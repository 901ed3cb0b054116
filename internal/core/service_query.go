package core

import (
	"bytes"
	"context"
	"fmt"

	"github.com/byhelaman/sched-planner/internal/schedule"
	"github.com/byhelaman/sched-planner/internal/workbook"
)

// Records returns the session's collection.
// Returns ErrNoSession for an empty id and store.ErrNotFound (wrapped) when
// the collection is unknown or expired.
func (s *Service) Records(ctx context.Context, sessionID string) ([]schedule.Record, error) {
	if sessionID == "" {
		return nil, ErrNoSession
	}
	records, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return records, nil
}

// ExportXLSX renders the session's collection as a workbook.
func (s *Service) ExportXLSX(ctx context.Context, sessionID string) ([]byte, error) {
	records, err := s.Records(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := workbook.WriteRecords(&buf, records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExport, err)
	}
	return buf.Bytes(), nil
}

// ExportTSV renders the session's collection as tab-separated text without
// a header, for pasting into a spreadsheet.
func (s *Service) ExportTSV(ctx context.Context, sessionID string) ([]byte, error) {
	records, err := s.Records(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := schedule.WriteTSV(&buf, records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExport, err)
	}
	return buf.Bytes(), nil
}
