package lectureauth

import "sync/atomic"

// MetricID indexes one engine counter.
type MetricID uint16

const (
	MetricLoginSuccess MetricID = iota
	MetricLoginFailure
	MetricRefreshSuccess
	MetricRefreshFailure
	MetricLogout
	MetricBlacklistHit
	MetricResetRequested
	MetricResetConfirmSuccess
	MetricResetConfirmFailure
	MetricStoreError

	metricIDCount
)

var metricNames = [metricIDCount]string{
	MetricLoginSuccess:        "login_success",
	MetricLoginFailure:        "login_failure",
	MetricRefreshSuccess:      "refresh_success",
	MetricRefreshFailure:      "refresh_failure",
	MetricLogout:              "logout",
	MetricBlacklistHit:        "blacklist_hit",
	MetricResetRequested:      "reset_requested",
	MetricResetConfirmSuccess: "reset_confirm_success",
	MetricResetConfirmFailure: "reset_confirm_failure",
	MetricStoreError:          "store_error",
}

// Metrics holds in-process counters for the engine's operations. Inc is
// lock-free; Snapshot is a point-in-time copy, not a consistent cut.
type Metrics struct {
	counters [metricIDCount]atomic.Uint64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

// Inc is safe on a nil receiver (metrics disabled).
func (m *Metrics) Inc(id MetricID) {
	if m == nil || id >= metricIDCount {
		return
	}
	m.counters[id].Add(1)
}

// Snapshot returns the current counter values keyed by metric name.
func (m *Metrics) Snapshot() map[string]uint64 {
	out := make(map[string]uint64, metricIDCount)
	if m == nil {
		return out
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		out[metricNames[id]] = m.counters[id].Load()
	}
	return out
}
