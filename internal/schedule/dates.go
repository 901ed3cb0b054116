package schedule

// dates.go parses the clock and calendar values found in schedule sheets.
//
// Cells arrive either as formatted text ("9:00 a.m.", "19/10/2026") or, for
// real date cells, as an Excel serial number. Both parsers report success
// explicitly; callers decide the fallback.

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// DateFormat is the display format of Record.Date.
const DateFormat = "02/01/2006"

var clockLayouts = []string{
	"15:04",
	"15:04:05",
	"3:04 PM",
	"3:04PM",
	"3:04:05 PM",
	"3:04:05PM",
	"3 PM",
	"3PM",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"1/2/06 15:04",
	"01-02-06 15:04",
}

// Day first: the sheets come from a DD/MM locale.
var dateLayouts = []string{
	"02/01/2006", "2/1/2006", "02-01-2006", "2-1-2006", "02.01.2006",
	"2006-01-02", "2006/01/02", "2006-01-02 15:04:05", "2006-01-02T15:04:05",
	"2 Jan 2006", "Jan 2, 2006",
}

var meridiemReplacer = strings.NewReplacer(
	"A.M.", "AM", "P.M.", "PM",
	"A. M.", "AM", "P. M.", "PM",
)

// ParseClock parses a time of day. The date part of the result is meaningless.
func ParseClock(text string) (time.Time, bool) {
	s := strings.Join(strings.Fields(strings.ToUpper(text)), " ")
	s = meridiemReplacer.Replace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseSheetDate parses the schedule date cell.
//
// raw is the unformatted cell value. When it is numeric and differs from the
// displayed text the cell is a date serial; otherwise text is tried against the
// known date layouts.
func ParseSheetDate(text, raw string) (time.Time, bool) {
	if raw != "" && raw != text {
		if serial, err := strconv.ParseFloat(raw, 64); err == nil && serial > 0 {
			if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
				return t, true
			}
		}
	}

	s := strings.TrimSpace(text)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatSheetDate renders the date cell for a Record, keeping the literal text
// when it is not a date.
func FormatSheetDate(text, raw string) string {
	if t, ok := ParseSheetDate(text, raw); ok {
		return t.Format(DateFormat)
	}
	return text
}
