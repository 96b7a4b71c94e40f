package planning

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// The only message a caller ever sees when a month can't be aggregated.
const MsgFailedToLoadPlanning = "Failed to load planning"

// The persistence collaborator: dates only, nothing else of the records.
type DateSource interface {
	// Dates of sessions in [from, to], sessions without a date excluded.
	SessionDates(ctx context.Context, from, to time.Time) ([]time.Time, error)
	// Dates of events in [from, to].
	EventDates(ctx context.Context, from, to time.Time) ([]time.Time, error)
}

// QueryFailedError is the failure variant of a Result. Its message never
// carries the cause; the cause is only reachable through Unwrap.
type QueryFailedError struct {
	cause error
}

func (e *QueryFailedError) Error() string {
	return MsgFailedToLoadPlanning
}

func (e *QueryFailedError) Unwrap() error {
	return e.cause
}

// Result of GetPlanningData. On success both date lists are set (possibly
// empty), sorted ascending and free of duplicates. On failure Err is a
// *QueryFailedError and no dates are returned.
type Result struct {
	Success      bool
	SessionDates []string
	EventDates   []string
	Err          error
}

func (r Result) MarshalJSON() ([]byte, error) {
	if !r.Success {
		msg := MsgFailedToLoadPlanning
		if r.Err != nil {
			msg = r.Err.Error()
		}
		return json.Marshal(struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
		}{false, msg})
	}
	return json.Marshal(struct {
		Success      bool     `json:"success"`
		SessionDates []string `json:"sessionDates"`
		EventDates   []string `json:"eventDates"`
	}{true, r.SessionDates, r.EventDates})
}

type Aggregator struct {
	source   DateSource
	location *time.Location
}

// location is the time reference the dates are stored in.
func NewAggregator(source DateSource, location *time.Location) *Aggregator {
	if location == nil {
		location = time.Local
	}
	return &Aggregator{
		source:   source,
		location: location,
	}
}

// Collect the days of a month that hold at least one dated session or one
// event. month is expected in 1-12, callers validate it.
//
// Both queries run concurrently; if either fails the whole call fails.
func (a *Aggregator) GetPlanningData(ctx context.Context, year int, month int) Result {
	from, to := MonthWindow(year, month, a.location)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg           sync.WaitGroup
		sessionDates []time.Time
		eventDates   []time.Time
		sessionErr   error
		eventErr     error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		sessionDates, sessionErr = a.source.SessionDates(ctx, from, to)
		if sessionErr != nil {
			cancel()
		}
	}()
	go func() {
		defer wg.Done()
		eventDates, eventErr = a.source.EventDates(ctx, from, to)
		if eventErr != nil {
			cancel()
		}
	}()
	wg.Wait()

	if err := errors.Join(sessionErr, eventErr); err != nil {
		slog.Error("can't load planning", "year", year, "month", month, "error", err)
		return Result{
			Success: false,
			Err:     &QueryFailedError{cause: err},
		}
	}

	return Result{
		Success:      true,
		SessionDates: uniqueDays(sessionDates, from, to),
		EventDates:   uniqueDays(eventDates, from, to),
	}
}

// Map dates to day strings, drop anything outside [from, to], deduplicate
// and sort.
func uniqueDays(dates []time.Time, from, to time.Time) []string {
	set := make(map[string]struct{}, len(dates))
	for _, date := range dates {
		if date.Before(from) || date.After(to) {
			continue
		}
		set[DayString(date)] = struct{}{}
	}
	days := make([]string, 0, len(set))
	for day := range set {
		days = append(days, day)
	}
	sort.Strings(days)
	return days
}
