package schedule

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Columns is the fixed column order of exported schedules.
var Columns = []string{
	"Date", "Shift", "Area", "Start Time", "End Time",
	"Code", "Instructor", "Group", "Minutes", "Units",
}

// Values returns the record's fields in Columns order.
func (r Record) Values() []any {
	return []any{
		r.Date, r.Shift, r.Area, r.StartTime, r.EndTime,
		r.Code, r.Instructor, r.Group, r.Minutes, r.Units,
	}
}

// ToTable flattens records into rows of Columns, in collection order.
func ToTable(records []Record) [][]any {
	table := make([][]any, len(records))
	for i, r := range records {
		table[i] = r.Values()
	}
	return table
}

var tsvCleaner = strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ", "\r", " ")

// WriteTSV writes records as tab-separated lines without a header, the
// format pasted into other spreadsheets.
func WriteTSV(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	fields := make([]string, len(Columns))
	for _, row := range ToTable(records) {
		for i, v := range row {
			fields[i] = tsvCleaner.Replace(fmt.Sprint(v))
		}
		if _, err := bw.WriteString(strings.Join(fields, "\t") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
