package workbook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/byhelaman/sched-planner/internal/logging"
	"github.com/byhelaman/sched-planner/internal/schedule"
)

// DefaultMaxWorkers bounds concurrent workbook decoding when none is configured.
const DefaultMaxWorkers = 4

// Source is one uploaded workbook. Open is called once, from a worker goroutine.
type Source struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// FileError reports a workbook that could not be decoded at all.
type FileError struct {
	Name string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("workbook %s: %v", e.Name, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// SheetSkip records a sheet that produced no records because it was empty
// or did not follow the layout.
type SheetSkip struct {
	Sheet  string `json:"sheet"`
	Reason string `json:"reason"`
}

// FileResult summarizes the parse of a single workbook.
type FileResult struct {
	Name    string            `json:"name"`
	Records []schedule.Record `json:"-"`
	Count   int               `json:"records"`
	Sheets  int               `json:"sheets"`
	Skipped []SheetSkip       `json:"skipped,omitempty"`
	Err     error             `json:"-"`
}

// Result is the outcome of parsing a batch of workbooks.
type Result struct {
	// Records holds every record of every file, in batch order.
	Records []schedule.Record
	Files   []FileResult
}

// Failed returns the files that could not be decoded.
func (r *Result) Failed() []FileResult {
	var failed []FileResult
	for _, f := range r.Files {
		if f.Err != nil {
			failed = append(failed, f)
		}
	}
	return failed
}

// Parser turns workbooks into schedule records.
type Parser struct {
	extractor  *schedule.Extractor
	maxWorkers int
}

// NewParser returns a parser that decodes at most maxWorkers files at once.
func NewParser(extractor *schedule.Extractor, maxWorkers int) *Parser {
	if maxWorkers <= 0 {
		maxWorkers = DefaultMaxWorkers
	}
	return &Parser{extractor: extractor, maxWorkers: maxWorkers}
}

// ParseWorkbook extracts every sheet of one workbook, in sheet order.
// Sheets that are empty or do not follow the layout are skipped and reported
// in the result; only an undecodable workbook is an error.
func (p *Parser) ParseWorkbook(ctx context.Context, name string, r io.Reader) (FileResult, error) {
	logger := logging.WithFields(ctx, "file", name)
	res := FileResult{Name: name}

	sheets, err := ReadSheets(r)
	if err != nil {
		return res, &FileError{Name: name, Err: err}
	}
	res.Sheets = len(sheets)

	for _, sheet := range sheets {
		records, err := p.extractor.Extract(sheet)
		if err != nil {
			var layoutErr *schedule.LayoutError
			switch {
			case errors.Is(err, schedule.ErrEmptySheet):
				logger.Debug("skipping empty sheet", "sheet", sheet.Name)
			case errors.As(err, &layoutErr):
				logger.Warn("skipping sheet", "sheet", sheet.Name, "error", err)
			default:
				logger.Error("sheet extraction failed", "sheet", sheet.Name, "error", err)
			}
			res.Skipped = append(res.Skipped, SheetSkip{Sheet: sheet.Name, Reason: err.Error()})
			continue
		}
		res.Records = append(res.Records, records...)
	}
	res.Count = len(res.Records)
	return res, nil
}

// ParseAll parses a batch of workbooks on a bounded worker pool.
//
// A file that fails to open or decode is reported in its FileResult and does
// not affect the others. Records are concatenated in batch order regardless
// of completion order. The only error returned is ctx's.
func (p *Parser) ParseAll(ctx context.Context, sources []Source) (*Result, error) {
	start := time.Now()
	results := make([]FileResult, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.maxWorkers)

	for i, src := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = p.parseSource(gctx, src)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &Result{Files: results}
	for _, fr := range results {
		out.Records = append(out.Records, fr.Records...)
		if fr.Err != nil {
			logging.FromContext(ctx).Error("workbook parse failed", "file", fr.Name, "error", fr.Err)
		}
	}

	logging.FromContext(ctx).Info("workbooks parsed",
		"files", len(sources),
		"failed", len(out.Failed()),
		"records", len(out.Records),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

func (p *Parser) parseSource(ctx context.Context, src Source) FileResult {
	rc, err := src.Open()
	if err != nil {
		return FileResult{Name: src.Name, Err: &FileError{Name: src.Name, Err: err}}
	}
	defer rc.Close()

	res, err := p.ParseWorkbook(ctx, src.Name, rc)
	if err != nil {
		res.Err = err
	}
	return res
}

