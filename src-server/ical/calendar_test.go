package ical_test

import (
	"bytes"
	"errors"
	"eslteam/src-server/ical"
	"strings"
	"testing"
	"time"

	goical "github.com/arran4/golang-ical"
)

var fixedNow = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

func newTestGenerator() *ical.Generator {
	return ical.NewGenerator("-//ESL Team//Running Data//FR", "eslteam.com").
		WithClock(func() time.Time { return fixedNow })
}

// The library may or may not unescape TEXT values; undoing the escaping of
// an already plain value is a no-op as long as it holds no backslash.
func unescapeText(s string) string {
	return strings.NewReplacer(`\\`, `\`, `\;`, ";", `\,`, ",", `\n`, "\n", `\N`, "\n").Replace(s)
}

func parseSingleEvent(t *testing.T, content []byte) *goical.VEvent {
	t.Helper()
	cal, err := goical.ParseCalendar(bytes.NewReader(content))
	if err != nil {
		t.Fatalf("generated file is not parseable: %v", err)
	}
	events := cal.Events()
	if len(events) != 1 {
		t.Fatalf("expected exactly one VEVENT, got %d", len(events))
	}
	return events[0]
}

func TestGenerateFileRoundTrip(t *testing.T) {
	event := ical.CalendarEvent{
		Title:       "Fractionné 10x400m & récup",
		Description: "Échauffement 20', puis 10x400m;\nrécup 1'30, étirements",
		Location:    "Stade Charléty, Paris",
		Start:       time.Date(2024, 6, 10, 16, 30, 0, 0, time.UTC),
		End:         time.Date(2024, 6, 10, 18, 0, 0, 0, time.UTC),
	}

	content, filename, err := newTestGenerator().GenerateFile(event)
	if err != nil {
		t.Fatal(err)
	}
	if filename != "fractionne_10x400m___recup.ics" {
		t.Errorf("unexpected filename %s", filename)
	}

	vevent := parseSingleEvent(t, content)
	checks := map[goical.ComponentProperty]string{
		goical.ComponentPropertySummary:     event.Title,
		goical.ComponentPropertyDescription: event.Description,
		goical.ComponentPropertyLocation:    event.Location,
	}
	for property, want := range checks {
		prop := vevent.GetProperty(property)
		if prop == nil {
			t.Errorf("missing %s", property)
			continue
		}
		if got := unescapeText(prop.Value); got != want {
			t.Errorf("%s: got %q, want %q", property, got, want)
		}
	}

	start, err := vevent.GetStartAt()
	if err != nil {
		t.Fatal(err)
	}
	if !start.Equal(event.Start) {
		t.Errorf("start: got %v, want %v", start, event.Start)
	}
	end, err := vevent.GetEndAt()
	if err != nil {
		t.Fatal(err)
	}
	if !end.Equal(event.End) {
		t.Errorf("end: got %v, want %v", end, event.End)
	}
}

func TestGenerateFileFormat(t *testing.T) {
	event := ical.CalendarEvent{
		Title:       "Sortie longue",
		Description: strings.Repeat("Allure footing, ", 20),
		Start:       time.Date(2024, 6, 9, 7, 0, 0, 0, time.UTC),
	}
	content, _, err := newTestGenerator().GenerateFile(event)
	if err != nil {
		t.Fatal(err)
	}
	text := string(content)

	// case: CRLF only, every physical line within 75 octets
	func() {
		if !strings.HasSuffix(text, "\r\n") {
			t.Error("file must end with CRLF")
		}
		if strings.Contains(strings.ReplaceAll(text, "\r\n", ""), "\n") {
			t.Error("bare LF found")
		}
		for _, line := range strings.Split(strings.TrimSuffix(text, "\r\n"), "\r\n") {
			if len(line) > 75 {
				t.Errorf("line longer than 75 octets: %q", line)
			}
		}
	}()

	// case: envelope and required properties
	func() {
		lines := strings.Split(strings.TrimSuffix(text, "\r\n"), "\r\n")
		if lines[0] != "BEGIN:VCALENDAR" || lines[len(lines)-1] != "END:VCALENDAR" {
			t.Error("calendar envelope is missing")
		}
		for _, want := range []string{
			"VERSION:2.0",
			"PRODID:" + newTestGenerator().GetProdID(),
			"BEGIN:VEVENT",
			"DTSTAMP:20240501T080000Z",
			"DTSTART:20240609T070000Z",
			"DTEND:20240609T080000Z", // default one hour
			"SUMMARY:Sortie longue",
			"STATUS:CONFIRMED",
			"END:VEVENT",
		} {
			if !strings.Contains(text, want+"\r\n") {
				t.Errorf("missing line %q", want)
			}
		}
		if strings.Contains(text, "LOCATION:") {
			t.Error("empty location must be omitted")
		}
	}()

	// case: folded description unfolds to the escaped value
	func() {
		unfolded := strings.ReplaceAll(text, "\r\n ", "")
		want := "DESCRIPTION:" + strings.Repeat(`Allure footing\, `, 20) + "\r\n"
		if !strings.Contains(unfolded, want) {
			t.Error("description was not folded losslessly")
		}
	}()
}

func TestGenerateFileAllDay(t *testing.T) {
	event := ical.CalendarEvent{
		Title:  "Championnat régional",
		Start:  time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		End:    time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		AllDay: true,
	}
	content, _, err := newTestGenerator().GenerateFile(event)
	if err != nil {
		t.Fatal(err)
	}
	text := string(content)
	if !strings.Contains(text, "DTSTART;VALUE=DATE:20240610\r\n") {
		t.Error("all-day start must be a DATE value")
	}
	if !strings.Contains(text, "DTEND;VALUE=DATE:20240611\r\n") {
		t.Error("all-day end must be the exclusive next day")
	}

	vevent := parseSingleEvent(t, content)
	prop := vevent.GetProperty(goical.ComponentPropertyDtEnd)
	if prop == nil || prop.Value != "20240611" {
		t.Errorf("parsed DTEND mismatch: %+v", prop)
	}
}

func TestGenerateFileUniqueUID(t *testing.T) {
	generator := newTestGenerator()
	event := ical.CalendarEvent{
		Title: "Séance VMA",
		Start: time.Date(2024, 6, 10, 18, 0, 0, 0, time.UTC),
	}
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		content, _, err := generator.GenerateFile(event)
		if err != nil {
			t.Fatal(err)
		}
		uid := parseSingleEvent(t, content).GetProperty(goical.ComponentPropertyUniqueId)
		if uid == nil || uid.Value == "" {
			t.Fatal("missing UID")
		}
		if !strings.HasSuffix(uid.Value, "@eslteam.com") {
			t.Errorf("unexpected UID %s", uid.Value)
		}
		if _, ok := seen[uid.Value]; ok {
			t.Fatalf("duplicate UID %s", uid.Value)
		}
		seen[uid.Value] = struct{}{}
	}
}

func TestGenerateFileRejectsMalformedEvent(t *testing.T) {
	start := time.Date(2024, 6, 10, 18, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		event ical.CalendarEvent
		msg   string
	}{
		{"missing title", ical.CalendarEvent{Title: "  ", Start: start}, ical.ErrTitleNotSet},
		{"missing start", ical.CalendarEvent{Title: "Piste"}, ical.ErrStartDateInvalid},
		{"end before start", ical.CalendarEvent{Title: "Piste", Start: start, End: start.Add(-time.Minute)}, ical.ErrStartDateAfterEndDate},
		{"all-day end before start", ical.CalendarEvent{Title: "Stage", Start: start, End: start.AddDate(0, 0, -1), AllDay: true}, ical.ErrStartDateAfterEndDate},
		{"invalid UTF-8 title", ical.CalendarEvent{Title: "X" + strings.Repeat("\x80", 100), Start: start}, ical.ErrInvalidText},
		{"invalid UTF-8 location", ical.CalendarEvent{Title: "Piste", Location: "\xff\xfe", Start: start}, ical.ErrInvalidText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, filename, err := newTestGenerator().GenerateFile(tt.event)
			if err == nil {
				t.Fatal("expected an error")
			}
			var customErr *ical.CustomError
			if !errors.As(err, &customErr) {
				t.Fatalf("expected a CustomError, got %T", err)
			}
			if customErr.Msg() != tt.msg {
				t.Errorf("got %q, want %q", customErr.Msg(), tt.msg)
			}
			if content != nil || filename != "" {
				t.Error("no artifact must be produced for a malformed event")
			}
		})
	}
}
