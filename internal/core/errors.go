package core

import "errors"

var (
	// ErrNoSession is returned when a request carries no session id.
	ErrNoSession = errors.New("no active session")

	// ErrNoFiles is returned for an upload without any file.
	ErrNoFiles = errors.New("no file provided")

	// ErrNoWorkbooks is returned when none of the uploaded files is a workbook.
	ErrNoWorkbooks = errors.New("no workbook files in upload")

	// ErrNoRecords is returned when the uploaded workbooks yield no records.
	ErrNoRecords = errors.New("no schedule rows found in upload")

	// ErrTooManyFiles is returned when an upload exceeds the file count limit.
	ErrTooManyFiles = errors.New("too many files in upload")

	// ErrInvalidRowIndex is returned for a malformed row selection.
	ErrInvalidRowIndex = errors.New("invalid row index")

	// ErrExport wraps failures while building an export file.
	ErrExport = errors.New("export failed")
)
