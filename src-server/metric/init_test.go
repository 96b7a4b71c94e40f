package metric_test

import (
	"eslteam/src-server/metric"
	"eslteam/src-server/utils"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func gather(t *testing.T) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatal(err)
	}
	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, family := range families {
		byName[family.GetName()] = family
	}
	return byName
}

// Poll the default registry until check holds or a second has passed.
func eventually(t *testing.T, check func(map[string]*dto.MetricFamily) bool) bool {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if check(gather(t)) {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func TestInit(t *testing.T) {
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("DATABASE_PATH", "file::memory:?cache=shared")
	as, err := utils.NewAppState()
	if err != nil {
		t.Fatal(err)
	}

	metric.Init(as)
	as.MetricChans.ObservePlanningFailure()
	as.MetricChans.ObservePlanningFailure()
	as.MetricChans.ObserveIcsExport("file")
	as.MetricChans.ObserveIcsExport("link")
	as.MetricChans.ObserveIcsExport("link")

	ok := eventually(t, func(families map[string]*dto.MetricFamily) bool {
		failures, found := families["eslteam_planning_failures_total"]
		if !found || failures.GetMetric()[0].GetCounter().GetValue() != 2 {
			return false
		}
		exports, found := families["eslteam_ics_exports_total"]
		if !found {
			return false
		}
		byKind := make(map[string]float64)
		for _, m := range exports.GetMetric() {
			byKind[m.GetLabel()[0].GetValue()] = m.GetCounter().GetValue()
		}
		return byKind["file"] == 1 && byKind["link"] == 2
	})
	if !ok {
		t.Error("counters never reached the expected values")
	}
	if _, found := gather(t)["eslteam_database_read_microsec"]; !found {
		t.Error("database read gauge is not registered")
	}

	as.GracefulShutdown()
	ok = eventually(t, func(families map[string]*dto.MetricFamily) bool {
		for _, name := range []string{
			"eslteam_database_empty_read_microsec",
			"eslteam_database_read_microsec",
			"eslteam_planning_failures_total",
			"eslteam_ics_exports_total",
		} {
			if _, found := families[name]; found {
				return false
			}
		}
		return true
	})
	if !ok {
		t.Error("metrics still registered after shutdown")
	}
}
