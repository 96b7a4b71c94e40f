package ical

import (
	"fmt"
	"sort"
	"strings"
)

var (
	ErrTitleNotSet           = "title not set"
	ErrStartDateInvalid      = "start date not set"
	ErrStartDateAfterEndDate = "start date is after end date"
	ErrUnknownProvider       = "unknown calendar provider"
	ErrInvalidText           = "text is not valid UTF-8"
)

// CustomError reports a malformed CalendarEvent or an unsupported request.
// msg is one of the Err* strings above, args holds the offending values.
type CustomError struct {
	msg  string
	args map[string]any
}

// Create a new custom error
func NewCustomError(msg string, args map[string]any) *CustomError {
	if args == nil {
		args = make(map[string]any)
	}
	return &CustomError{
		msg:  msg,
		args: args,
	}
}

// Get the bare message, without the arguments
func (e CustomError) Msg() string {
	return e.msg
}

// Get the error message, arguments are listed in key order
func (e CustomError) Error() string {
	if len(e.args) == 0 {
		return e.msg
	}
	keys := make([]string, 0, len(e.args))
	for key := range e.args {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(e.msg)
	sb.WriteString(" |")
	for _, key := range keys {
		sb.WriteString(fmt.Sprintf(" %s: %v", key, e.args[key]))
	}
	return sb.String()
}
