package metric

import (
	"eslteam/src-server/utils"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Register a collector, tolerating one that is already registered, and
// unregister it once the app shuts down.
func register(as *utils.AppState, name string, collector prometheus.Collector) (prometheus.Collector, *chan struct{}, func()) {
	gracefulShutdownCh, done := as.CreateGracefulShutdownChan()
	if err := prometheus.Register(collector); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			slog.Error("can't register metric", "metric", name, "error", err)
			return collector, gracefulShutdownCh, done
		}
		collector = are.ExistingCollector
	}
	slog.Debug("metric registered", "metric", name)
	return collector, gracefulShutdownCh, done
}

func unregister(name string, collector prometheus.Collector) {
	switch prometheus.Unregister(collector) {
	case true:
		slog.Debug("metric unregistered", "metric", name)
	case false:
		slog.Warn("metric not registered", "metric", name)
	}
}

func databaseEmptyRead(as *utils.AppState, tickerInterval time.Duration) {
	const name = "eslteam_database_empty_read_microsec"
	collector, gracefulShutdownCh, done := register(as, name, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: name,
		Help: "The latency of an empty database read in microseconds",
	}))
	gauge := collector.(prometheus.Gauge)
	gauge.Set(0)

	go func() {
		defer done()
		ticker := time.NewTicker(tickerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				unregister(name, gauge)
				return
			case <-ticker.C:
				latency, err := database(as)
				if err != nil {
					slog.Error("can't get database latency", "error", err)
					continue
				}
				gauge.Set(float64(latency.Microseconds()))
			}
		}
	}()
}

func databaseRead(as *utils.AppState, clearTickerInterval time.Duration) {
	const name = "eslteam_database_read_microsec"
	collector, gracefulShutdownCh, done := register(as, name, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: name,
		Help: "The latency of a database read in microseconds",
	}))
	gauge := collector.(prometheus.Gauge)
	gauge.Set(0)

	go func() {
		defer done()
		clearTicker := time.NewTicker(clearTickerInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				unregister(name, gauge)
				return
			case latency := <-as.MetricChans.DatabaseRead:
				gauge.Set(latency)
				clearTicker.Reset(clearTickerInterval)
			case <-clearTicker.C:
				gauge.Set(0)
			}
		}
	}()
}

func planningFailures(as *utils.AppState) {
	const name = "eslteam_planning_failures_total"
	collector, gracefulShutdownCh, done := register(as, name, prometheus.NewCounter(prometheus.CounterOpts{
		Name: name,
		Help: "The number of months whose planning could not be loaded",
	}))
	counter := collector.(prometheus.Counter)

	go func() {
		defer done()
		for {
			select {
			case <-*gracefulShutdownCh:
				unregister(name, counter)
				return
			case <-as.MetricChans.PlanningFailure:
				counter.Inc()
			}
		}
	}()
}

func icsExports(as *utils.AppState) {
	const name = "eslteam_ics_exports_total"
	collector, gracefulShutdownCh, done := register(as, name, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: name,
		Help: "The number of calendar exports, by kind (file, link)",
	}, []string{"kind"}))
	counterVec := collector.(*prometheus.CounterVec)

	go func() {
		defer done()
		for {
			select {
			case <-*gracefulShutdownCh:
				unregister(name, counterVec)
				return
			case kind := <-as.MetricChans.IcsExport:
				counterVec.WithLabelValues(kind).Inc()
			}
		}
	}()
}

func Init(as *utils.AppState) {
	tickerInterval := as.Config.GetMetricCollectionInterval()
	clearTickerInterval := as.Config.GetMetricCollectionInterval() * 2

	databaseEmptyRead(as, tickerInterval)
	databaseRead(as, clearTickerInterval)
	planningFailures(as)
	icsExports(as)
}
