// Package metrics exposes Prometheus metrics for CSV loads.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ccollicutt/chartcsv/pkg/csvload"
)

const namespace = "chartcsv"

// Loader implements csvload.Observer.
type Loader struct {
	LoadsTotal     *prometheus.CounterVec
	LoadErrors     *prometheus.CounterVec
	RecordsLoaded  *prometheus.CounterVec
	RowsSkipped    *prometheus.CounterVec
	LoadDuration   *prometheus.HistogramVec
	LastLoadedTime *prometheus.GaugeVec
}

var _ csvload.Observer = (*Loader)(nil)

// New registers the loader metrics with reg.
func New(reg prometheus.Registerer) *Loader {
	factory := promauto.With(reg)

	return &Loader{
		LoadsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loads_total",
			Help:      "Total number of successful CSV loads",
		}, []string{"path"}),
		LoadErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "load_errors_total",
			Help:      "Total number of failed CSV loads by error kind",
		}, []string{"path", "kind"}),
		RecordsLoaded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_loaded_total",
			Help:      "Total number of records returned by CSV loads",
		}, []string{"path"}),
		RowsSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_skipped_total",
			Help:      "Total number of data rows dropped during loads",
		}, []string{"path", "reason"}),
		LoadDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "load_duration_seconds",
			Help:      "Time taken by successful CSV loads",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path"}),
		LastLoadedTime: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_loaded_timestamp_seconds",
			Help:      "Unix time of the last successful load",
		}, []string{"path"}),
	}
}

func (m *Loader) RowSkipped(path string, reason csvload.SkipReason) {
	m.RowsSkipped.WithLabelValues(path, string(reason)).Inc()
}

func (m *Loader) LoadCompleted(path string, records int, duration time.Duration) {
	m.LoadsTotal.WithLabelValues(path).Inc()
	m.RecordsLoaded.WithLabelValues(path).Add(float64(records))
	m.LoadDuration.WithLabelValues(path).Observe(duration.Seconds())
	m.LastLoadedTime.WithLabelValues(path).SetToCurrentTime()
}

func (m *Loader) LoadFailed(path string, err error) {
	m.LoadErrors.WithLabelValues(path, csvload.ErrorKind(err)).Inc()
}
