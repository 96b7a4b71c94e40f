package model

import (
	"context"
	"database/sql"
	"errors"
	"eslteam/src-server/ical"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// A training session. Sessions may be planned without a date yet, in which
// case SessionDateUnixUTC is nil and they never show up in the planning.
type TrainingSession struct {
	bun.BaseModel `bun:"table:training_sessions"`

	ID          string `bun:"id,pk"`        // required
	Name        string `bun:"name,notnull"` // required
	Description string `bun:"description"`

	VMA           float64 `bun:"vma"`            // km/h
	TotalDistance float64 `bun:"total_distance"` // meters
	TotalTime     float64 `bun:"total_time"`     // seconds

	SessionDateUnixUTC *int64 `bun:"session_date"`

	CreatedAt int64 `bun:"created_at,notnull"`
}

func (s *TrainingSession) Insert(ctx context.Context, db bun.IDB) error {
	switch {
	case s.ID == "":
		return fmt.Errorf("(*TrainingSession).Insert: session id is blank")
	case s.Name == "":
		return fmt.Errorf("(*TrainingSession).Insert: name is blank")
	}
	if s.CreatedAt == 0 {
		s.CreatedAt = time.Now().UTC().Unix()
	}
	if _, err := db.NewInsert().
		Model(s).
		Exec(ctx); err != nil {
		return fmt.Errorf("(*TrainingSession).Insert: %w", err)
	}
	return nil
}

// Build the exportable form of the session, false if it has no date.
func (s *TrainingSession) ToCalendarEvent(loc *time.Location) (ical.CalendarEvent, bool) {
	if s.SessionDateUnixUTC == nil {
		return ical.CalendarEvent{}, false
	}
	return ical.CalendarEvent{
		Title:       s.Name,
		Description: s.Description,
		Start:       time.Unix(*s.SessionDateUnixUTC, 0).In(loc),
	}, true
}

// Dated sessions falling in [from, to], most recently created first.
func ListSessionsInRange(ctx context.Context, db bun.IDB, from, to time.Time) ([]TrainingSession, error) {
	sessionModels := make([]TrainingSession, 0)
	if err := db.NewSelect().
		Model(&sessionModels).
		Where("session_date IS NOT NULL").
		Where("session_date >= ?", from.Unix()).
		Where("session_date <= ?", to.Unix()).
		Order("created_at DESC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("ListSessionsInRange: %w", err)
	}
	return sessionModels, nil
}

var ErrTrainingSessionNotFound = errors.New("training session not found")

func GetTrainingSession(ctx context.Context, db bun.IDB, id string) (*TrainingSession, error) {
	sessionModel := new(TrainingSession)
	if err := db.NewSelect().
		Model(sessionModel).
		Where("id = ?", id).
		Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetTrainingSession: %w", ErrTrainingSessionNotFound)
		}
		return nil, fmt.Errorf("GetTrainingSession: %w", err)
	}
	return sessionModel, nil
}

func DeleteTrainingSession(ctx context.Context, db bun.IDB, id string) error {
	result, err := db.NewDelete().
		Model((*TrainingSession)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("DeleteTrainingSession: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("DeleteTrainingSession: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("DeleteTrainingSession: %w", ErrTrainingSessionNotFound)
	}
	return nil
}
