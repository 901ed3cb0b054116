package schedule

import (
	"strings"

	"github.com/byhelaman/sched-planner/internal/schema"
)

// Extractor builds records from sheets that follow one layout.
// It holds no mutable state and may be shared between goroutines.
type Extractor struct {
	layout schema.Layout
	tags   TagFilter
}

// NewExtractor returns an Extractor for layout, using tags to screen block cells.
func NewExtractor(layout schema.Layout, tags TagFilter) *Extractor {
	return &Extractor{layout: layout, tags: tags}
}

// Layout returns the layout the extractor reads.
func (e *Extractor) Layout() schema.Layout {
	return e.layout
}

type sheetMeta struct {
	date       string
	area       string
	code       string
	instructor string
}

// Extract returns one record per valid data row of sheet, in row order.
//
// It returns ErrEmptySheet for sheets without data and a *LayoutError when a
// metadata cell is missing; in both cases no records are produced. Incomplete
// rows are skipped without error.
func (e *Extractor) Extract(sheet Sheet) ([]Record, error) {
	f := newFrame(sheet, e.layout.HeaderRows)
	if f.empty() {
		return nil, ErrEmptySheet
	}

	meta, err := e.readMeta(sheet.Name, f)
	if err != nil {
		return nil, err
	}

	units := e.countGroups(f)

	var records []Record
	for row := e.layout.FirstDataRow; row < len(f.rows); row++ {
		rec, ok := e.extractRow(f, row, meta, units)
		if ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

func (e *Extractor) readMeta(sheetName string, f frame) (sheetMeta, error) {
	fields := []struct {
		name string
		cell schema.Cell
	}{
		{"date", e.layout.Date},
		{"location", e.layout.Location},
		{"instructor name", e.layout.InstructorName},
		{"instructor code", e.layout.InstructorCode},
	}
	for _, fd := range fields {
		if !f.inBounds(fd.cell.Row, fd.cell.Col) {
			return sheetMeta{}, &LayoutError{Sheet: sheetName, Field: fd.name, Cell: fd.cell}
		}
	}

	l := e.layout
	return sheetMeta{
		date:       FormatSheetDate(f.text(l.Date.Row, l.Date.Col), f.rawText(l.Date.Row, l.Date.Col)),
		area:       ExtractAreaKeyword(f.text(l.Location.Row, l.Location.Col)),
		code:       f.text(l.InstructorCode.Row, l.InstructorCode.Col),
		instructor: f.text(l.InstructorName.Row, l.InstructorName.Col),
	}, nil
}

// countGroups counts the group column values over the data window.
func (e *Extractor) countGroups(f frame) map[string]int {
	counts := make(map[string]int)
	for row := e.layout.FirstDataRow; row < len(f.rows); row++ {
		if v := f.text(row, e.layout.GroupCol); v != "" {
			counts[v]++
		}
	}
	return counts
}

func (e *Extractor) extractRow(f frame, row int, meta sheetMeta, units map[string]int) (Record, bool) {
	l := e.layout
	start := f.text(row, l.StartTimeCol)
	end := f.text(row, l.EndTimeCol)
	if strings.TrimSpace(start) == "" || strings.TrimSpace(end) == "" {
		return Record{}, false
	}

	group := f.text(row, l.GroupCol)
	if strings.TrimSpace(group) == "" {
		block := e.tags.Filter(f.text(row, l.BlockCol))
		if strings.TrimSpace(block) == "" {
			return Record{}, false
		}
		group = block
	}

	program := f.text(row, l.ProgramCol)

	area := meta.area
	if ExtractAreaKeyword(program) == "KIDS" && area != "" {
		area += KidsSuffix
	}

	startTime := ExtractParenthesized(start)
	return Record{
		Date:       meta.date,
		Shift:      ClassifyShift(startTime),
		Area:       area,
		StartTime:  NormalizeAmPm(startTime),
		EndTime:    NormalizeAmPm(ExtractParenthesized(end)),
		Code:       meta.code,
		Instructor: meta.instructor,
		Group:      group,
		Minutes:    ExtractDurationKeyword(program),
		Units:      units[group],
	}, true
}
