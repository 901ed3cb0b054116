// Package schema describes the fixed cell positions of instructor schedule sheets.
//
// Schedule workbooks carry no header row that could be matched by name, so every
// value is read from a known row/column. Those positions are collected in a single
// versioned [Layout] so that a change in the source spreadsheet format is a
// one-place edit: register a new layout version and select it through config.
package schema

// DefaultVersion is the layout used when none is configured.
const DefaultVersion = "v1"

// Cell is a 0-based position inside a sheet, counted after the header rows.
type Cell struct {
	Row int
	Col int
}

// Layout is the cell-position contract every sheet of a workbook must follow.
type Layout struct {
	Version     string
	Description string

	// HeaderRows is the number of leading sheet rows consumed as a header.
	// All other positions are relative to the first row after them.
	HeaderRows int

	// Sheet-level metadata cells.
	Date           Cell
	Location       Cell
	InstructorCode Cell
	InstructorName Cell

	// FirstDataRow is the first row scanned for classes.
	FirstDataRow int

	// Data row columns.
	StartTimeCol int
	EndTimeCol   int
	GroupCol     int
	BlockCol     int // optional block tag, used when the group cell is blank
	ProgramCol   int
}

// V1 is the layout of the schedule export in use since the first release.
var V1 = Layout{
	Version:        "v1",
	Description:    "instructor schedule export (date O, location V, code/name in column A)",
	HeaderRows:     1,
	Date:           Cell{Row: 0, Col: 14},
	Location:       Cell{Row: 0, Col: 21},
	InstructorCode: Cell{Row: 3, Col: 0},
	InstructorName: Cell{Row: 4, Col: 0},
	FirstDataRow:   6,
	StartTimeCol:   0,
	EndTimeCol:     3,
	GroupCol:       17,
	BlockCol:       19,
	ProgramCol:     25,
}

// MetadataCells returns the sheet-level cells in read order.
func (l Layout) MetadataCells() []Cell {
	return []Cell{l.Date, l.Location, l.InstructorName, l.InstructorCode}
}

// SheetRow converts a layout row into a 0-based sheet row, header included.
func (l Layout) SheetRow(row int) int {
	return row + l.HeaderRows
}
