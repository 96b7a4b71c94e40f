package utils

import (
	"context"
	"database/sql"
	"eslteam/src-server/ical"
	"eslteam/src-server/model"
	"eslteam/src-server/planning"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
)

type AppState struct {
	Config      *Config
	RawDB       *sql.DB
	BunDB       *bun.DB
	When        *when.Parser
	MetricChans *Metric

	Planning *planning.Aggregator
	Ical     *ical.Generator

	AppCloseSignalChan chan os.Signal

	startTime             time.Time
	gracefulShutdownMu    sync.Mutex
	gracefulShutdownChans []*chan struct{}
	gracefulShutdownWg    sync.WaitGroup
}

func NewAppState() (*AppState, error) {
	as := &AppState{
		startTime:          time.Now(),
		AppCloseSignalChan: make(chan os.Signal, 1),
		MetricChans:        NewMetric(),
	}

	// date parser
	as.When = when.New(nil)
	as.When.Add(en.All...)
	as.When.Add(common.All...)

	// env
	as.Config = NewConfig()

	// database
	var err error
	databasePath := as.Config.GetDatabasePath()
	as.RawDB, err = sql.Open(sqliteshim.ShimName, databasePath+dsnSeparator(databasePath)+"mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("NewAppState: can't open sqlite database: %w", err)
	}
	as.RawDB.SetMaxIdleConns(8)
	if strings.Contains(databasePath, ":memory:") {
		as.RawDB.SetMaxOpenConns(1)
	}

	as.BunDB = bun.NewDB(as.RawDB, sqlitedialect.New())
	as.BunDB.AddQueryHook(bundebug.NewQueryHook(
		bundebug.WithVerbose(true),
		bundebug.FromEnv("BUNDEBUG"),
	))

	if err := model.CreateSchema(context.Background(), as.BunDB); err != nil {
		return nil, fmt.Errorf("NewAppState: %w", err)
	}

	// services
	as.Planning = planning.NewAggregator(&model.PlanningSource{
		DB:       as.BunDB,
		Location: as.Config.GetLocation(),
		OnRead: func(d time.Duration) {
			as.MetricChans.ObserveDatabaseRead(float64(d.Microseconds()))
		},
	}, as.Config.GetLocation())
	as.Ical = ical.NewGenerator(as.Config.GetIcsProdID(), as.Config.GetIcsUIDDomain())

	return as, nil
}

func dsnSeparator(path string) string {
	if strings.Contains(path, "?") {
		return "&"
	}
	return "?"
}

func (as *AppState) GetUptime() time.Duration {
	return time.Since(as.startTime)
}

// Parse the day a request is about: `YYYY-MM-DD` first, then natural text
// such as "tomorrow" or "next friday", relative to now. The result is a
// time on that day in the configured location.
func (as *AppState) ParseDay(text string, now time.Time) (time.Time, error) {
	loc := as.Config.GetLocation()
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, fmt.Errorf("ParseDay: date is blank")
	}
	if day, err := time.ParseInLocation(time.DateOnly, text, loc); err == nil {
		return day, nil
	}
	result, err := as.When.Parse(text, now.In(loc))
	if err != nil {
		return time.Time{}, fmt.Errorf("ParseDay: %w", err)
	}
	if result == nil {
		return time.Time{}, fmt.Errorf("ParseDay: can't understand %q", text)
	}
	return result.Time.In(loc), nil
}

// Every goroutine that must stop on shutdown asks for its own channel, and
// calls done once it has stopped. The database is closed only after every
// done was called.
func (as *AppState) CreateGracefulShutdownChan() (ch *chan struct{}, done func()) {
	as.gracefulShutdownMu.Lock()
	defer as.gracefulShutdownMu.Unlock()
	c := make(chan struct{}, 1)
	as.gracefulShutdownChans = append(as.gracefulShutdownChans, &c)
	as.gracefulShutdownWg.Add(1)
	return &c, sync.OnceFunc(as.gracefulShutdownWg.Done)
}

func (as *AppState) GracefulShutdown() {
	as.gracefulShutdownMu.Lock()
	for _, ch := range as.gracefulShutdownChans {
		*ch <- struct{}{}
	}
	as.gracefulShutdownChans = nil
	as.gracefulShutdownMu.Unlock()
	as.gracefulShutdownWg.Wait()

	if err := as.BunDB.Close(); err != nil {
		slog.Warn("can't close database", "error", err)
	}
}
