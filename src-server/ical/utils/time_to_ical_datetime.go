package utils

import (
	"fmt"
	"time"
)

// Convert a time to a UTC date-time string in iCalendar format: YYYYMMDDTHHMMSSZ
func TimeToIcalDatetime(time_ time.Time) (string, error) {
	if time_.IsZero() {
		return "", fmt.Errorf("time is zero")
	}
	return time_.UTC().Format("20060102T150405Z"), nil
}

// Convert a time to an iCalendar DATE value (YYYYMMDD), using the calendar
// fields of the time's own location.
func TimeToIcalDate(time_ time.Time) (string, error) {
	if time_.IsZero() {
		return "", fmt.Errorf("time is zero")
	}
	return time_.Format("20060102"), nil
}
