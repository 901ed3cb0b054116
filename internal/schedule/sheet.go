package schedule

// Sheet is the cell grid of one worksheet, header rows included.
type Sheet struct {
	Name string
	Rows [][]string // formatted cell text
	Raw  [][]string // unformatted values, same shape as Rows; may be nil
}

// Width returns the number of columns of the widest row.
func (s Sheet) Width() int {
	w := 0
	for _, row := range s.Rows {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}

// frame is the part of a sheet below its header rows. Cells inside the grid
// but past the end of a short row read as empty.
type frame struct {
	rows  [][]string
	raw   [][]string
	width int
}

func newFrame(s Sheet, headerRows int) frame {
	f := frame{width: s.Width()}
	if headerRows < len(s.Rows) {
		f.rows = s.Rows[headerRows:]
	}
	if headerRows < len(s.Raw) {
		f.raw = s.Raw[headerRows:]
	}
	return f
}

func (f frame) empty() bool {
	return len(f.rows) == 0 || f.width == 0
}

// inBounds reports whether (row, col) lies inside the grid.
func (f frame) inBounds(row, col int) bool {
	return row >= 0 && row < len(f.rows) && col >= 0 && col < f.width
}

// text returns the formatted value at (row, col), "" when out of range.
func (f frame) text(row, col int) string {
	return cellAt(f.rows, row, col)
}

// rawText returns the unformatted value at (row, col), "" when out of range.
func (f frame) rawText(row, col int) string {
	return cellAt(f.raw, row, col)
}

func cellAt(rows [][]string, row, col int) string {
	if row < 0 || row >= len(rows) || col < 0 || col >= len(rows[row]) {
		return ""
	}
	return rows[row][col]
}
