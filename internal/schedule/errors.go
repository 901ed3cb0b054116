package schedule

import (
	"errors"
	"fmt"

	"github.com/byhelaman/sched-planner/internal/schema"
)

// ErrEmptySheet is returned for sheets without any data below the header.
var ErrEmptySheet = errors.New("empty sheet")

// LayoutError reports a metadata cell that the sheet does not contain.
// The sheet does not follow the layout and is skipped as a whole.
type LayoutError struct {
	Sheet string
	Field string
	Cell  schema.Cell
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("sheet %q does not match layout: %s cell (row %d, col %d) is outside the sheet",
		e.Sheet, e.Field, e.Cell.Row, e.Cell.Col)
}
