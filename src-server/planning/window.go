package planning

import "time"

var daysPerMonth = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// Gregorian leap year rule.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// Number of days of month (1-12) in year.
func DaysIn(year int, month time.Month) int {
	if month == time.February && IsLeapYear(year) {
		return 29
	}
	return daysPerMonth[month-1]
}

// The inclusive window of a calendar month: first day 00:00:00 to last day
// 23:59:59, in loc. month must be 1-12.
func MonthWindow(year int, month int, loc *time.Location) (time.Time, time.Time) {
	m := time.Month(month)
	start := time.Date(year, m, 1, 0, 0, 0, 0, loc)
	end := time.Date(year, m, DaysIn(year, m), 23, 59, 59, 0, loc)
	return start, end
}

// The inclusive window of the calendar day of t, in t's location.
func DayWindow(t time.Time) (time.Time, time.Time) {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	end := time.Date(y, m, d, 23, 59, 59, 999999999, t.Location())
	return start, end
}

// The calendar day string (YYYY-MM-DD) of t, from its own calendar fields.
func DayString(t time.Time) string {
	return t.Format(time.DateOnly)
}
