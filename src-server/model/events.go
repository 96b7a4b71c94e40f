package model

import (
	"context"
	"eslteam/src-server/ical"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID          string `bun:"id,pk"`         // required
	Title       string `bun:"title,notnull"` // required
	Description string `bun:"description"`
	Type        string `bun:"type"`
	Location    string `bun:"location"`

	EventDateUnixUTC int64 `bun:"event_date,notnull"` // required
	EndDateUnixUTC   int64 `bun:"end_date,nullzero"`
	IsWholeDay       bool  `bun:"is_whole_day"`

	CreatedAt int64 `bun:"created_at,notnull"`
	UpdatedAt int64 `bun:"updated_at"`
}

func (e *Event) Upsert(ctx context.Context, db bun.IDB) error {
	switch {
	case e.ID == "":
		return fmt.Errorf("(*Event).Upsert: event id is blank")
	case e.Title == "":
		return fmt.Errorf("(*Event).Upsert: title is blank")
	case e.EventDateUnixUTC == 0:
		return fmt.Errorf("(*Event).Upsert: event date is blank")
	case e.EndDateUnixUTC != 0 && e.EndDateUnixUTC < e.EventDateUnixUTC:
		return fmt.Errorf("(*Event).Upsert: event date must be before end date")
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().UTC().Unix()
	}

	exists, err := db.NewSelect().
		Model((*Event)(nil)).
		Where("id = ?", e.ID).
		Exists(ctx)
	if err != nil {
		return fmt.Errorf("(*Event).Upsert: %w", err)
	}

	switch exists {
	case true:
		e.UpdatedAt = time.Now().UTC().Unix()
		if _, err := db.NewUpdate().
			Model(e).
			WherePK().
			Exec(ctx); err != nil {
			return fmt.Errorf("(*Event).Upsert: %w", err)
		}
	case false:
		if _, err := db.NewInsert().
			Model(e).
			Exec(ctx); err != nil {
			return fmt.Errorf("(*Event).Upsert: %w", err)
		}
	}

	return nil
}

// Build the exportable form of the event, dates expressed in loc.
func (e *Event) ToCalendarEvent(loc *time.Location) ical.CalendarEvent {
	calendarEvent := ical.CalendarEvent{
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		Start:       time.Unix(e.EventDateUnixUTC, 0).In(loc),
		AllDay:      e.IsWholeDay,
	}
	if e.EndDateUnixUTC != 0 {
		calendarEvent.End = time.Unix(e.EndDateUnixUTC, 0).In(loc)
	}
	return calendarEvent
}

// Events whose date falls in [from, to], earliest first.
func ListEventsInRange(ctx context.Context, db bun.IDB, from, to time.Time) ([]Event, error) {
	eventModels := make([]Event, 0)
	if err := db.NewSelect().
		Model(&eventModels).
		Where("event_date >= ?", from.Unix()).
		Where("event_date <= ?", to.Unix()).
		Order("event_date ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("ListEventsInRange: %w", err)
	}
	return eventModels, nil
}
