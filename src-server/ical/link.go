package ical

import (
	"net/url"
	"strings"

	"eslteam/src-server/ical/utils"
)

type Provider string

const (
	ProviderGoogle    Provider = "google"
	ProviderOutlook   Provider = "outlook"
	ProviderOffice365 Provider = "office365"
)

const (
	googleCalendarURL = "https://calendar.google.com/calendar/render"
	outlookURL        = "https://outlook.live.com/calendar/0/deeplink/compose"
	office365URL      = "https://outlook.office.com/calendar/0/deeplink/compose"
)

// Parse a provider name coming from a request. Case-insensitive.
func ParseProvider(name string) (Provider, error) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(name))); p {
	case ProviderGoogle, ProviderOutlook, ProviderOffice365:
		return p, nil
	case "":
		return ProviderGoogle, nil
	default:
		return "", NewCustomError(ErrUnknownProvider, map[string]any{"provider": name})
	}
}

// Build the "add event" page URL of the given provider.
func GenerateLink(provider Provider, event CalendarEvent) (string, error) {
	switch provider {
	case ProviderGoogle:
		return GoogleCalendarURL(event)
	case ProviderOutlook:
		return outlookLink(outlookURL, event)
	case ProviderOffice365:
		return outlookLink(office365URL, event)
	default:
		return "", NewCustomError(ErrUnknownProvider, map[string]any{"provider": provider})
	}
}

// Google Calendar template link. `dates` is `start/end`, both UTC date-times
// for timed events, both dates with an exclusive end for all-day events.
func GoogleCalendarURL(event CalendarEvent) (string, error) {
	if err := event.Validate(); err != nil {
		return "", err
	}

	var start, end string
	var err error
	switch event.AllDay {
	case true:
		first, exclusiveEnd := event.allDayBounds()
		if start, err = utils.TimeToIcalDate(first); err != nil {
			return "", err
		}
		if end, err = utils.TimeToIcalDate(exclusiveEnd); err != nil {
			return "", err
		}
	case false:
		if start, err = utils.TimeToIcalDatetime(event.Start); err != nil {
			return "", err
		}
		if end, err = utils.TimeToIcalDatetime(event.timedEnd()); err != nil {
			return "", err
		}
	}

	params := url.Values{}
	params.Set("action", "TEMPLATE")
	params.Set("text", event.Title)
	params.Set("dates", start+"/"+end)
	if event.Description != "" {
		params.Set("details", event.Description)
	}
	if event.Location != "" {
		params.Set("location", event.Location)
	}
	return googleCalendarURL + "?" + encodeQuery(params), nil
}

// Outlook.com and Office 365 share the same deeplink contract.
func outlookLink(base string, event CalendarEvent) (string, error) {
	if err := event.Validate(); err != nil {
		return "", err
	}

	params := url.Values{}
	params.Set("path", "/calendar/action/compose")
	params.Set("rru", "addevent")
	params.Set("subject", event.Title)
	switch event.AllDay {
	case true:
		first, exclusiveEnd := event.allDayBounds()
		params.Set("startdt", first.Format("2006-01-02"))
		params.Set("enddt", exclusiveEnd.Format("2006-01-02"))
		params.Set("allday", "true")
	case false:
		params.Set("startdt", event.Start.UTC().Format("2006-01-02T15:04:05Z"))
		params.Set("enddt", event.timedEnd().UTC().Format("2006-01-02T15:04:05Z"))
	}
	if event.Description != "" {
		params.Set("body", event.Description)
	}
	if event.Location != "" {
		params.Set("location", event.Location)
	}
	return base + "?" + encodeQuery(params), nil
}

// url.Values.Encode writes spaces as "+"; a literal "+" is already "%2B"
// at that point, so every remaining "+" is a space.
func encodeQuery(params url.Values) string {
	return strings.ReplaceAll(params.Encode(), "+", "%20")
}
