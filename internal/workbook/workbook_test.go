package workbook

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/byhelaman/sched-planner/internal/schedule"
	"github.com/byhelaman/sched-planner/internal/schema"
)

// class is one data row; cells are addressed in sheet coordinates.
type class struct {
	start, end, group, block, program string
}

// buildSheet fills a sheet the way the schedule export lays it out:
// one header row, metadata in rows 2-6, classes from row 8.
func buildSheet(t *testing.T, f *excelize.File, sheet string, date any, location string, classes []class) {
	t.Helper()
	set := func(cell string, v any) {
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			t.Fatalf("SetCellValue %s: %v", cell, err)
		}
	}
	set("A1", "Horario")
	set("O2", date)
	set("V2", location)
	set("A5", "IC001")
	set("A6", "Jane Doe")
	for i, c := range classes {
		row := 8 + i
		set(cellName(t, 1, row), c.start)
		set(cellName(t, 4, row), c.end)
		set(cellName(t, 18, row), c.group)
		set(cellName(t, 20, row), c.block)
		set(cellName(t, 26, row), c.program)
	}
}

func cellName(t *testing.T, col, row int) string {
	t.Helper()
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		t.Fatalf("CoordinatesToCellName: %v", err)
	}
	return name
}

func workbookBytes(t *testing.T, f *excelize.File) []byte {
	t.Helper()
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf.Bytes()
}

// twoSheetWorkbook has a valid sheet, an empty sheet and another valid sheet.
func twoSheetWorkbook(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	buildSheet(t, f, "Sheet1", "19/10/2026", "Sede HUB", []class{
		{"9:00 (09:00 a.m.)", "10:00 (10:00 a.m.)", "G1", "", "English 60"},
		{"10:00 (10:00 a.m.)", "11:00 (11:00 a.m.)", "G1", "", "English 60"},
	})
	if _, err := f.NewSheet("Vacio"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.NewSheet("Martes"); err != nil {
		t.Fatal(err)
	}
	buildSheet(t, f, "Martes", time.Date(2026, time.October, 20, 0, 0, 0, 0, time.UTC), "CORPORATE", []class{
		{"15:00 (03:00 p.m.)", "16:00 (04:00 p.m.)", "", "K-7", "KIDS"},
	})
	return workbookBytes(t, f)
}

func newTestParser() *Parser {
	return NewParser(schedule.NewExtractor(schema.V1, schedule.NewTagFilter(schedule.TagMatchContains)), 2)
}

func bytesSource(name string, data []byte) Source {
	return Source{Name: name, Open: func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}}
}

func TestAccepts(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"horario.xlsx", true},
		{"HORARIO.XLSX", true},
		{"horario.xls", false},
		{"horario.csv", false},
		{"xlsx", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := Accepts(tt.name); got != tt.want {
			t.Errorf("Accepts(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestReadSheets(t *testing.T) {
	sheets, err := ReadSheets(bytes.NewReader(twoSheetWorkbook(t)))
	if err != nil {
		t.Fatalf("ReadSheets failed: %v", err)
	}

	var names []string
	for _, s := range sheets {
		names = append(names, s.Name)
	}
	if len(names) != 3 || names[0] != "Sheet1" || names[1] != "Vacio" || names[2] != "Martes" {
		t.Errorf("sheet order = %v, want [Sheet1 Vacio Martes]", names)
	}
	if got := sheets[0].Width(); got != 26 {
		t.Errorf("Width = %d, want 26", got)
	}
}

func TestParseWorkbook(t *testing.T) {
	res, err := newTestParser().ParseWorkbook(context.Background(), "a.xlsx", bytes.NewReader(twoSheetWorkbook(t)))
	if err != nil {
		t.Fatalf("ParseWorkbook failed: %v", err)
	}

	if res.Sheets != 3 {
		t.Errorf("Sheets = %d, want 3", res.Sheets)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Sheet != "Vacio" {
		t.Errorf("Skipped = %+v, want the empty sheet", res.Skipped)
	}
	if res.Count != 3 || len(res.Records) != 3 {
		t.Fatalf("got %d records, want 3", len(res.Records))
	}

	first := res.Records[0]
	if first.Date != "19/10/2026" || first.Area != "HUB" || first.Units != 2 || first.Minutes != "30" {
		t.Errorf("first record = %+v", first)
	}
	if first.StartTime != "09:00 AM" || first.Shift != schedule.ShiftMorning {
		t.Errorf("first record times = %q / %q", first.StartTime, first.Shift)
	}

	last := res.Records[2]
	if last.Date != "20/10/2026" {
		t.Errorf("date cell: Date = %q, want 20/10/2026", last.Date)
	}
	if last.Group != "K-7" || last.Area != "CORPORATE/KIDS" || last.Shift != schedule.ShiftAfternoon {
		t.Errorf("last record = %+v", last)
	}
}

func TestParseWorkbook_SkipsLayoutMismatch(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetRow("Sheet1", "A1", &[]any{"a", "b"}); err != nil {
		t.Fatal(err)
	}
	if err := f.SetSheetRow("Sheet1", "A2", &[]any{"c", "d"}); err != nil {
		t.Fatal(err)
	}

	res, err := newTestParser().ParseWorkbook(context.Background(), "narrow.xlsx", bytes.NewReader(workbookBytes(t, f)))
	if err != nil {
		t.Fatalf("ParseWorkbook failed: %v", err)
	}
	if len(res.Records) != 0 {
		t.Errorf("got %d records, want 0", len(res.Records))
	}
	if len(res.Skipped) != 1 {
		t.Errorf("Skipped = %+v, want one sheet", res.Skipped)
	}
}

func TestParseAll_IsolatesFailuresAndKeepsOrder(t *testing.T) {
	good := twoSheetWorkbook(t)

	sources := []Source{
		bytesSource("one.xlsx", good),
		bytesSource("broken.xlsx", []byte("not a workbook")),
		{Name: "gone.xlsx", Open: func() (io.ReadCloser, error) { return nil, errors.New("disk gone") }},
		bytesSource("two.xlsx", good),
	}

	res, err := newTestParser().ParseAll(context.Background(), sources)
	if err != nil {
		t.Fatalf("ParseAll failed: %v", err)
	}

	if len(res.Files) != 4 {
		t.Fatalf("got %d file results, want 4", len(res.Files))
	}
	for i, name := range []string{"one.xlsx", "broken.xlsx", "gone.xlsx", "two.xlsx"} {
		if res.Files[i].Name != name {
			t.Errorf("Files[%d].Name = %q, want %q", i, res.Files[i].Name, name)
		}
	}

	failed := res.Failed()
	if len(failed) != 2 {
		t.Fatalf("Failed() = %d files, want 2", len(failed))
	}
	var fileErr *FileError
	if !errors.As(failed[0].Err, &fileErr) || fileErr.Name != "broken.xlsx" {
		t.Errorf("failed[0].Err = %v, want FileError for broken.xlsx", failed[0].Err)
	}

	if len(res.Records) != 6 {
		t.Fatalf("got %d records, want 6", len(res.Records))
	}
	if res.Records[2].Group != "K-7" || res.Records[3].Group != "G1" {
		t.Errorf("records not in batch order: %+v", res.Records)
	}
}

func TestParseAll_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestParser().ParseAll(ctx, []Source{bytesSource("a.xlsx", twoSheetWorkbook(t))})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestWriteRecords(t *testing.T) {
	records := []schedule.Record{
		{Date: "19/10/2026", Shift: schedule.ShiftMorning, Area: "HUB", StartTime: "09:00 AM", EndTime: "10:00 AM",
			Code: "IC001", Instructor: "Jane Doe", Group: "G1", Minutes: "30", Units: 2},
	}

	var buf bytes.Buffer
	if err := WriteRecords(&buf, records); err != nil {
		t.Fatalf("WriteRecords failed: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	if got := f.GetSheetList(); len(got) != 1 || got[0] != ExportSheet {
		t.Fatalf("sheets = %v, want [%s]", got, ExportSheet)
	}
	rows, err := f.GetRows(ExportSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want header + 1", len(rows))
	}
	for i, col := range schedule.Columns {
		if rows[0][i] != col {
			t.Errorf("header[%d] = %q, want %q", i, rows[0][i], col)
		}
	}
	want := []string{"19/10/2026", "P. ZUÑIGA", "HUB", "09:00 AM", "10:00 AM", "IC001", "Jane Doe", "G1", "30", "2"}
	for i, v := range want {
		if rows[1][i] != v {
			t.Errorf("row[%d] = %q, want %q", i, rows[1][i], v)
		}
	}
}

func TestWriteRecords_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRecords(&buf, nil); err != nil {
		t.Fatalf("WriteRecords failed: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("expected a workbook with a header row")
	}
}
