package application

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "profile_service"

// Metrics exports gateway and editor counters. A nil *Metrics records
// nothing.
type Metrics struct {
	loads         *prometheus.CounterVec
	writes        *prometheus.CounterVec
	storeDuration *prometheus.HistogramVec
	transitions   *prometheus.CounterVec
	sessions      prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	var err error
	m := &Metrics{}
	if m.loads, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "profile_loads_total",
		Help:      "Profile loads by outcome (found, not_found, failed).",
	}, []string{"result"})); err != nil {
		return nil, err
	}
	if m.writes, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "profile_writes_total",
		Help:      "Profile field writes by field and outcome.",
	}, []string{"field", "result"})); err != nil {
		return nil, err
	}
	if m.storeDuration, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "store_operation_duration_seconds",
		Help:      "Latency of profile store operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})); err != nil {
		return nil, err
	}
	if m.transitions, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "editor_transitions_total",
		Help:      "Selector interactions applied to editor drafts.",
	}, []string{"kind"})); err != nil {
		return nil, err
	}
	if m.sessions, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "editor_sessions",
		Help:      "Editor sessions currently held in memory.",
	})); err != nil {
		return nil, err
	}
	return m, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, collector T) (T, error) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return collector, fmt.Errorf("register profile metric: %w", err)
	}
	return collector, nil
}

func (m *Metrics) RecordLoad(status LoadStatus, duration time.Duration) {
	if m == nil {
		return
	}
	m.loads.WithLabelValues(status.String()).Inc()
	m.storeDuration.WithLabelValues("load").Observe(duration.Seconds())
}

func (m *Metrics) RecordWrite(field string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.writes.WithLabelValues(field, result).Inc()
	m.storeDuration.WithLabelValues("update_" + field).Observe(duration.Seconds())
}

func (m *Metrics) RecordTransition(kind string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(kind).Inc()
}

func (m *Metrics) SetSessions(count int) {
	if m == nil {
		return
	}
	m.sessions.Set(float64(count))
}
