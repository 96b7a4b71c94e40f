package model

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// PlanningSource answers the planning aggregator with date columns only.
// Dates come back in Location, the club's stored time reference.
type PlanningSource struct {
	DB       bun.IDB
	Location *time.Location

	// called with the duration of every query, may be nil
	OnRead func(time.Duration)
}

func (p *PlanningSource) SessionDates(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	startTimer := time.Now()
	var dates []int64
	if err := p.DB.NewSelect().
		Model((*TrainingSession)(nil)).
		Column("session_date").
		Where("session_date IS NOT NULL").
		Where("session_date >= ?", from.Unix()).
		Where("session_date <= ?", to.Unix()).
		Scan(ctx, &dates); err != nil {
		return nil, fmt.Errorf("(*PlanningSource).SessionDates: %w", err)
	}
	p.observe(startTimer)
	return p.toTimes(dates), nil
}

func (p *PlanningSource) EventDates(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	startTimer := time.Now()
	var dates []int64
	if err := p.DB.NewSelect().
		Model((*Event)(nil)).
		Column("event_date").
		Where("event_date >= ?", from.Unix()).
		Where("event_date <= ?", to.Unix()).
		Scan(ctx, &dates); err != nil {
		return nil, fmt.Errorf("(*PlanningSource).EventDates: %w", err)
	}
	p.observe(startTimer)
	return p.toTimes(dates), nil
}

func (p *PlanningSource) observe(startTimer time.Time) {
	if p.OnRead != nil {
		p.OnRead(time.Since(startTimer))
	}
}

func (p *PlanningSource) toTimes(dates []int64) []time.Time {
	loc := p.Location
	if loc == nil {
		loc = time.Local
	}
	times := make([]time.Time, 0, len(dates))
	for _, date := range dates {
		times = append(times, time.Unix(date, 0).In(loc))
	}
	return times
}
