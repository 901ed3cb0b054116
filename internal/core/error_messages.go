package core

// error_messages.go maps technical errors to user-facing messages with codes
// that users can quote to support.
//
// # Codes
//
//	FILE001 - Upload too large            Patterns: "request body too large"
//	FILE002 - Not a readable workbook     Patterns: "open workbook", "not a valid zip file"
//	FILE003 - No file selected            Sentinel: ErrNoFiles
//	FILE004 - No .xlsx file in upload     Sentinel: ErrNoWorkbooks
//	FILE005 - No schedule rows found      Sentinel: ErrNoRecords
//	FILE006 - Too many files              Sentinel: ErrTooManyFiles
//	SES001  - No data for this session    Sentinels: ErrNoSession, store.ErrNotFound
//	SES002  - Invalid row selection       Sentinel: ErrInvalidRowIndex
//	UPL001  - System busy                 Sentinel: ErrTooManyUploads
//	UPL002  - Request cancelled           Patterns: "context canceled"
//	UPL003  - Request timed out           Patterns: "context deadline exceeded"
//	EXP001  - Export failed               Sentinel: ErrExport
//	STO001  - Storage unavailable         Patterns: "connection refused", "connection reset"
//	RATE001 - Rate limited                Patterns: "rate limit"
//	ERR000  - Anything else; check the logs for the technical error
//
// Sentinels are matched with errors.Is before any pattern. Patterns are
// matched case-insensitively with strings.Contains; the first match wins.

import (
	"errors"
	"fmt"
	"strings"

	"github.com/byhelaman/sched-planner/internal/store"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

var (
	msgNoSession = UserMessage{
		Message: "There is no schedule data for this session",
		Action:  "Upload your schedule workbooks again",
		Code:    "SES001",
	}
)

type sentinelMessage struct {
	err error
	msg UserMessage
}

var sentinelMessages = []sentinelMessage{
	{ErrNoFiles, UserMessage{
		Message: "No file was selected",
		Action:  "Select one or more .xlsx schedule workbooks",
		Code:    "FILE003",
	}},
	{ErrNoWorkbooks, UserMessage{
		Message: "None of the uploaded files is an .xlsx workbook",
		Action:  "Save the schedules as Excel workbooks (.xlsx) and upload them again",
		Code:    "FILE004",
	}},
	{ErrNoRecords, UserMessage{
		Message: "No schedule rows were found in the uploaded workbooks",
		Action:  "Check that the sheets follow the schedule export layout",
		Code:    "FILE005",
	}},
	{ErrTooManyFiles, UserMessage{
		Message: "Too many files in one upload",
		Action:  "Upload the workbooks in smaller batches",
		Code:    "FILE006",
	}},
	{ErrNoSession, msgNoSession},
	{store.ErrNotFound, msgNoSession},
	{ErrInvalidRowIndex, UserMessage{
		Message: "The row selection is not valid",
		Action:  "Select rows from the table and try again",
		Code:    "SES002",
	}},
	{ErrTooManyUploads, UserMessage{
		Message: "System is busy processing other uploads",
		Action:  "Please wait a moment and try again",
		Code:    "UPL001",
	}},
	{ErrExport, UserMessage{
		Message: "The export file could not be created",
		Action:  "Please try again or contact support",
		Code:    "EXP001",
	}},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "The upload exceeds the maximum size",
			Action:  "Upload fewer or smaller workbooks at a time",
			Code:    "FILE001",
		},
	},
	{
		pattern: "open workbook",
		msg: UserMessage{
			Message: "The file is not a readable Excel workbook",
			Action:  "Open the file in Excel and save it again as .xlsx",
			Code:    "FILE002",
		},
	},
	{
		pattern: "not a valid zip file",
		msg: UserMessage{
			Message: "The file is not a readable Excel workbook",
			Action:  "Open the file in Excel and save it again as .xlsx",
			Code:    "FILE002",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL002",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Upload fewer workbooks at a time or try again later",
			Code:    "UPL003",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Session storage is unavailable",
			Action:  "Please try again in a few moments",
			Code:    "STO001",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Session storage is unavailable",
			Action:  "Please try again in a few moments",
			Code:    "STO001",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// A nil error maps to the zero UserMessage.
//
//	msg := MapError(fmt.Errorf("load: %w", store.ErrNotFound))
//	// msg.Code == "SES001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.err) {
			return sm.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error, kept for logging, with its user message.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
