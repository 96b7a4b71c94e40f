package ical

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Timed events without an end last this long.
const DefaultDuration = time.Hour

// A single event to export, immutable once constructed.
//
// Start and End are instants; for all-day events only their calendar date
// (in their own location) matters and End is the last inclusive day. A zero
// End means "start + DefaultDuration" for timed events and "same day" for
// all-day events.
type CalendarEvent struct {
	Title       string    `json:"title"` // required
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Start       time.Time `json:"start"` // required
	End         time.Time `json:"end"`
	AllDay      bool      `json:"allDay"`
}

// Check the event before formatting anything from it.
func (e CalendarEvent) Validate() error {
	switch {
	case strings.TrimSpace(e.Title) == "":
		return NewCustomError(ErrTitleNotSet, nil)
	case !utf8.ValidString(e.Title) || !utf8.ValidString(e.Description) || !utf8.ValidString(e.Location):
		return NewCustomError(ErrInvalidText, nil)
	case e.Start.IsZero():
		return NewCustomError(ErrStartDateInvalid, map[string]any{"title": e.Title})
	case !e.End.IsZero() && e.AllDay && dateOf(e.End).Before(dateOf(e.Start)):
		return NewCustomError(ErrStartDateAfterEndDate, map[string]any{
			"start": e.Start.Format(time.DateOnly),
			"end":   e.End.Format(time.DateOnly),
		})
	case !e.End.IsZero() && !e.AllDay && e.End.Before(e.Start):
		return NewCustomError(ErrStartDateAfterEndDate, map[string]any{
			"start": e.Start.Format(time.RFC3339),
			"end":   e.End.Format(time.RFC3339),
		})
	}
	return nil
}

// The end instant of a timed event, defaulted when unset.
func (e CalendarEvent) timedEnd() time.Time {
	if e.End.IsZero() {
		return e.Start.Add(DefaultDuration)
	}
	return e.End
}

// The first and the exclusive last day of an all-day event, both as UTC
// midnights carrying the event's own calendar dates.
func (e CalendarEvent) allDayBounds() (time.Time, time.Time) {
	start := dateOf(e.Start)
	last := start
	if !e.End.IsZero() {
		last = dateOf(e.End)
	}
	return start, last.AddDate(0, 0, 1)
}

// Strip the clock and location of a time, keeping its calendar date.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
