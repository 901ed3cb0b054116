package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/byhelaman/sched-planner/internal/core"
	"github.com/byhelaman/sched-planner/internal/workbook"
)

// writeSchedule saves a one-sheet schedule workbook with one class per group.
func writeSchedule(t *testing.T, dir, name string, groups ...string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	set := func(col, row int, v any) {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetCellValue("Sheet1", cell, v); err != nil {
			t.Fatal(err)
		}
	}
	set(1, 1, "Horario")
	set(15, 2, "19/10/2026")
	set(22, 2, "LA MOLINA")
	set(1, 5, "IC002")
	set(1, 6, "John Roe")
	for i, g := range groups {
		set(1, 8+i, "8:00 (08:00 a.m.)")
		set(4, 8+i, "9:00 (09:00 a.m.)")
		set(18, 8+i, g)
		set(26, 8+i, "CEIBAL")
	}

	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestExtract_TSVToStdout(t *testing.T) {
	dir := t.TempDir()
	a := writeSchedule(t, dir, "a.xlsx", "G1", "G2")
	b := writeSchedule(t, dir, "b.xlsx", "G3")

	stdout, stderr, err := execute(t, "extract", a, b, filepath.Join(dir, "notes.txt"))
	if err != nil {
		t.Fatalf("extract failed: %v (stderr %s)", err, stderr)
	}

	lines := strings.Split(strings.TrimRight(stdout, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), stdout)
	}
	want := "19/10/2026\tP. ZUÑIGA\tLA MOLINA\t08:00 AM\t09:00 AM\tIC002\tJohn Roe\tG1\t45\t1"
	if lines[0] != want {
		t.Errorf("line 0 = %q\nwant     %q", lines[0], want)
	}
	if !strings.Contains(lines[2], "\tG3\t") {
		t.Errorf("batch order lost: %q", lines[2])
	}
	if !strings.Contains(stderr, "skipping") {
		t.Errorf("stderr = %q, want a skip notice", stderr)
	}
}

func TestExtract_WorkbookOutput(t *testing.T) {
	dir := t.TempDir()
	in := writeSchedule(t, dir, "a.xlsx", "G1")
	out := filepath.Join(dir, "clean.xlsx")

	if _, stderr, err := execute(t, "extract", in, "-o", out, "--workers", "1"); err != nil {
		t.Fatalf("extract failed: %v (stderr %s)", err, stderr)
	}

	f, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(workbook.ExportSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[0][0] != "Date" || rows[1][7] != "G1" {
		t.Errorf("rows = %v", rows)
	}

	leftovers, _ := filepath.Glob(filepath.Join(dir, ".schedctl-*"))
	if len(leftovers) != 0 {
		t.Errorf("temp files left behind: %v", leftovers)
	}
}

func TestExtract_TSVFileByExtension(t *testing.T) {
	dir := t.TempDir()
	in := writeSchedule(t, dir, "a.xlsx", "G1")
	out := filepath.Join(dir, "clean.tsv")

	if _, _, err := execute(t, "extract", in, "-o", out); err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(string(data), "\tG1\t45\t1\n") {
		t.Errorf("output = %q", data)
	}
}

func TestExtract_Errors(t *testing.T) {
	dir := t.TempDir()
	in := writeSchedule(t, dir, "a.xlsx", "G1")
	empty := writeSchedule(t, dir, "empty.xlsx")

	if _, _, err := execute(t, "extract", filepath.Join(dir, "a.csv")); !errors.Is(err, core.ErrNoWorkbooks) {
		t.Errorf("no workbooks: err = %v", err)
	}
	if _, _, err := execute(t, "extract", empty); !errors.Is(err, core.ErrNoRecords) {
		t.Errorf("no records: err = %v", err)
	}
	if _, _, err := execute(t, "extract", in, "--layout", "v99"); err == nil {
		t.Error("unknown layout: expected an error")
	}
	if _, _, err := execute(t, "extract"); err == nil {
		t.Error("no args: expected an error")
	}
}

func TestSweep(t *testing.T) {
	t.Setenv("STORE_BACKEND", "file")
	t.Setenv("STORE_DIR", t.TempDir())
	t.Setenv("LOG_LEVEL", "error")

	stdout, _, err := execute(t, "sweep")
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if !strings.Contains(stdout, "removed 0 expired sessions") {
		t.Errorf("stdout = %q", stdout)
	}
}
