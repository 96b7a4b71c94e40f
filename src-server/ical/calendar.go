// The `ical` package exports club events to third-party calendars.
//
// # References:
// - RFC5545: https://datatracker.ietf.org/doc/html/rfc5545
//
// # Notes:
// - Only single-event calendars are produced, there is no parser here.
// - Timed events are written in UTC (`YYYYMMDDTHHMMSSZ`), all-day events as
//   `VALUE=DATE` with an exclusive DTEND.
// - Every content line is folded at 75 octets and terminated by CRLF.
//
// # Example usage:
//
// Generate a downloadable file
//
//	generator := ical.NewGenerator("-//ESL Team//Running Data//FR", "eslteam.com")
//	content, filename, _ := generator.GenerateFile(event)
//	_ := os.WriteFile(filename, content, 0644)
//
// Generate an "add to calendar" link
//
//	link, _ := ical.GenerateLink(ical.ProviderGoogle, event)
package ical

import (
	"bytes"
	"fmt"
	"time"

	"eslteam/src-server/ical/utils"

	"github.com/google/uuid"
)

const (
	MimeType  = "text/calendar; charset=utf-8"
	Extension = ".ics"
)

// The main struct of the package
type Generator struct {
	prodID    string
	uidDomain string
	now       func() time.Time
}

// Initialize a new Generator{} struct
func NewGenerator(prodID string, uidDomain string) *Generator {
	return &Generator{
		prodID:    prodID,
		uidDomain: uidDomain,
		now:       time.Now,
	}
}

// Replace the clock used for DTSTAMP and UID, for tests.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

func (g *Generator) GetProdID() string {
	return g.prodID
}

// Produce the content of an .ics file holding only this event, plus a
// filename derived from the event title.
func (g *Generator) GenerateFile(event CalendarEvent) ([]byte, string, error) {
	var buf bytes.Buffer
	if err := g.ToIcal(event, buf.WriteString); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), Filename(event.Title), nil
}

// Marshal the event into iCalendar format. Each content line is handed to
// the writer already folded and CRLF-terminated.
func (g *Generator) ToIcal(event CalendarEvent, writer func(string) (int, error)) error {
	if err := event.Validate(); err != nil {
		return err
	}

	now := g.now()
	stamp, err := utils.TimeToIcalDatetime(now)
	if err != nil {
		return fmt.Errorf("ToIcal: %w", err)
	}
	dtStart, dtEnd, err := icalDates(event)
	if err != nil {
		return fmt.Errorf("ToIcal: %w", err)
	}

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:" + g.prodID,
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"BEGIN:VEVENT",
		"UID:" + g.newUID(now),
		"DTSTAMP:" + stamp,
		dtStart,
		dtEnd,
		"SUMMARY:" + utils.EscapeText(event.Title),
	}
	if event.Description != "" {
		lines = append(lines, "DESCRIPTION:"+utils.EscapeText(event.Description))
	}
	if event.Location != "" {
		lines = append(lines, "LOCATION:"+utils.EscapeText(event.Location))
	}
	lines = append(lines,
		"STATUS:CONFIRMED",
		"SEQUENCE:0",
		"END:VEVENT",
		"END:VCALENDAR",
	)

	write := utils.Split75wrapper(writer)
	for _, line := range lines {
		if _, err := write(line); err != nil {
			return fmt.Errorf("ToIcal: %w", err)
		}
	}
	return nil
}

// A millisecond timestamp plus a random UUID, unique across calls.
func (g *Generator) newUID(now time.Time) string {
	return fmt.Sprintf("%d-%s@%s", now.UnixMilli(), uuid.NewString(), g.uidDomain)
}

// The DTSTART and DTEND content lines of an event.
func icalDates(event CalendarEvent) (string, string, error) {
	if event.AllDay {
		first, exclusiveEnd := event.allDayBounds()
		start, err := utils.TimeToIcalDate(first)
		if err != nil {
			return "", "", err
		}
		end, err := utils.TimeToIcalDate(exclusiveEnd)
		if err != nil {
			return "", "", err
		}
		return "DTSTART;VALUE=DATE:" + start, "DTEND;VALUE=DATE:" + end, nil
	}

	start, err := utils.TimeToIcalDatetime(event.Start)
	if err != nil {
		return "", "", err
	}
	end, err := utils.TimeToIcalDatetime(event.timedEnd())
	if err != nil {
		return "", "", err
	}
	return "DTSTART:" + start, "DTEND:" + end, nil
}
