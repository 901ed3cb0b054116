package workbook

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/byhelaman/sched-planner/internal/schedule"
)

// ExportSheet is the name of the single sheet in exported workbooks.
const ExportSheet = "Schedule"

const exportColWidth = 16

// WriteTable writes a one-sheet workbook with a bold header row followed by rows.
// Nothing is written to w unless the whole workbook was built successfully.
func WriteTable(w io.Writer, sheet string, header []string, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("stream writer: %w", err)
	}
	if len(header) > 0 {
		if err := sw.SetColWidth(1, len(header), exportColWidth); err != nil {
			return fmt.Errorf("column width: %w", err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := sw.SetRow("A1", headerRow, excelize.RowOpts{StyleID: bold}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("encode workbook: %w", err)
	}
	_, err = buf.WriteTo(w)
	return err
}

// WriteRecords exports records as a workbook in schedule.Columns order.
func WriteRecords(w io.Writer, records []schedule.Record) error {
	return WriteTable(w, ExportSheet, schedule.Columns, schedule.ToTable(records))
}
