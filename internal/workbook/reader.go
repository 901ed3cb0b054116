// Package workbook reads schedule workbooks and writes exported tables.
package workbook

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/byhelaman/sched-planner/internal/schedule"
)

// Extension is the only workbook format accepted for upload.
const Extension = ".xlsx"

// Accepts reports whether name looks like a workbook the parser can read.
func Accepts(name string) bool {
	return strings.EqualFold(filepath.Ext(name), Extension)
}

// ReadSheets decodes a workbook and returns its sheets in file order.
//
// Each sheet carries both the displayed cell text and the raw cell values so
// that date cells can be told apart from text that merely looks like a date.
func ReadSheets(r io.Reader) ([]schedule.Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	names := f.GetSheetList()
	sheets := make([]schedule.Sheet, 0, len(names))
	for _, name := range names {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		raw, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("read raw sheet %q: %w", name, err)
		}
		sheets = append(sheets, schedule.Sheet{Name: name, Rows: rows, Raw: raw})
	}
	return sheets, nil
}
