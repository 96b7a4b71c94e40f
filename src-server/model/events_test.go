package model_test

import (
	"context"
	"eslteam/src-server/model"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestEventUpsert(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	// case: validation
	func() {
		for _, invalid := range []model.Event{
			{Title: "no id", EventDateUnixUTC: 1},
			{ID: uuid.NewString(), EventDateUnixUTC: 1},
			{ID: uuid.NewString(), Title: "no date"},
			{ID: uuid.NewString(), Title: "backwards", EventDateUnixUTC: 10, EndDateUnixUTC: 5},
		} {
			if err := invalid.Upsert(ctx, db); err == nil {
				t.Errorf("expected an error for %+v", invalid)
			}
		}
	}()

	// case: insert then update
	func() {
		event := model.Event{
			ID:               uuid.NewString(),
			Title:            "Semi-marathon",
			EventDateUnixUTC: time.Date(2024, 10, 6, 9, 0, 0, 0, time.UTC).Unix(),
		}
		if err := event.Upsert(ctx, db); err != nil {
			t.Fatal(err)
		}
		event.Location = "Boulogne"
		if err := event.Upsert(ctx, db); err != nil {
			t.Fatal(err)
		}
		stored := new(model.Event)
		if err := db.NewSelect().Model(stored).Where("id = ?", event.ID).Scan(ctx); err != nil {
			t.Fatal(err)
		}
		if stored.Location != "Boulogne" || stored.UpdatedAt == 0 {
			t.Errorf("update not persisted: %+v", stored)
		}
	}()
}

func TestListInRange(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	day := time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC)

	insertEvent(t, db, day.Add(18*time.Hour))
	insertEvent(t, db, day.Add(7*time.Hour))
	insertEvent(t, db, day.Add(-time.Hour))
	insertSession(t, db, unix(day.Add(9*time.Hour)))
	insertSession(t, db, nil)

	events, err := model.ListEventsInRange(ctx, db, day, day.Add(24*time.Hour-time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].EventDateUnixUTC > events[1].EventDateUnixUTC {
		t.Error("events must be ordered by date")
	}

	sessions, err := model.ListSessionsInRange(ctx, db, day, day.Add(24*time.Hour-time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
}

func TestToCalendarEvent(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skip("tzdata not available:", err)
	}
	start := time.Date(2024, 6, 10, 0, 0, 0, 0, paris)

	event := model.Event{
		Title:            "Stage",
		EventDateUnixUTC: start.Unix(),
		EndDateUnixUTC:   start.AddDate(0, 0, 2).Unix(),
		IsWholeDay:       true,
	}
	calendarEvent := event.ToCalendarEvent(paris)
	if calendarEvent.Start.Day() != 10 || calendarEvent.End.Day() != 12 || !calendarEvent.AllDay {
		t.Errorf("unexpected conversion %+v", calendarEvent)
	}

	session := model.TrainingSession{Name: "VMA"}
	if _, ok := session.ToCalendarEvent(paris); ok {
		t.Error("an undated session can't be exported")
	}
	session.SessionDateUnixUTC = unix(start.Add(18 * time.Hour))
	calendarEvent, ok := session.ToCalendarEvent(paris)
	if !ok || calendarEvent.Title != "VMA" || calendarEvent.Start.Hour() != 18 {
		t.Errorf("unexpected conversion %+v", calendarEvent)
	}
}
