// Package schedule turns instructor schedule sheets into normalized records.
//
// A sheet is read through a fixed [schema.Layout]: a few metadata cells describe
// the whole sheet (date, location, instructor) and every data row below them is a
// candidate class. Rows that carry a start time, an end time and a usable group
// become one [Record] each. Classification of free text (area, duration, shift)
// is done by the heuristics in heuristics.go.
package schedule

// Shift labels. A class starting before 14:00 belongs to the morning shift.
const (
	ShiftMorning   = "P. ZUÑIGA"
	ShiftAfternoon = "H. GARCIA"
)

// KidsSuffix is appended to the area of classes whose program is a KIDS program.
const KidsSuffix = "/KIDS"

// Record is one class taken from a schedule sheet.
type Record struct {
	Date       string `json:"date"` // DD/MM/YYYY, or the literal cell text if it is not a date
	Shift      string `json:"shift"`
	Area       string `json:"area"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Code       string `json:"code"`
	Instructor string `json:"instructor"`
	Group      string `json:"group"`
	Minutes    string `json:"minutes"` // "30", "45" or empty
	Units      int    `json:"units"`   // rows of the same sheet sharing Group
}
