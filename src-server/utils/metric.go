package utils

type Metric struct {
	DatabaseRead    chan float64
	PlanningFailure chan struct{}
	IcsExport       chan string
}

func NewMetric() *Metric {
	return &Metric{
		DatabaseRead:    make(chan float64, 16),
		PlanningFailure: make(chan struct{}, 16),
		IcsExport:       make(chan string, 16),
	}
}

// The senders below never block: a sample is dropped when no collector is
// running or the buffer is full.

func (m *Metric) ObserveDatabaseRead(microsec float64) {
	select {
	case m.DatabaseRead <- microsec:
	default:
	}
}

func (m *Metric) ObservePlanningFailure() {
	select {
	case m.PlanningFailure <- struct{}{}:
	default:
	}
}

// kind is "file" or "link"
func (m *Metric) ObserveIcsExport(kind string) {
	select {
	case m.IcsExport <- kind:
	default:
	}
}
