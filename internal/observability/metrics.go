package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Skip reasons used as the "reason" label on EntriesSkipped.
const (
	SkipSeen      = "seen"
	SkipExcluded  = "excluded"
	SkipMalformed = "malformed"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the relay loop.
type Metrics struct {
	PollCycles      prometheus.Counter
	FetchErrors     prometheus.Counter
	EntriesFetched  prometheus.Counter
	EntriesSkipped  *prometheus.CounterVec // labels: reason={seen,excluded,malformed}
	AlertsPosted    prometheus.Counter
	PublishErrors   prometheus.Counter
	DedupSaveErrors prometheus.Counter
	DedupEntries    prometheus.Gauge
	RelayRunning    prometheus.Gauge

	CycleDuration prometheus.Histogram
}

// NewMetrics creates and registers all relay metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.PollCycles,
		m.FetchErrors,
		m.EntriesFetched,
		m.EntriesSkipped,
		m.AlertsPosted,
		m.PublishErrors,
		m.DedupSaveErrors,
		m.DedupEntries,
		m.RelayRunning,
		m.CycleDuration,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		PollCycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_alert_relay",
			Name:      "poll_cycles_total",
			Help:      "Total completed poll cycles.",
		}),
		FetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_alert_relay",
			Name:      "fetch_errors_total",
			Help:      "Total feed fetch or parse failures.",
		}),
		EntriesFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_alert_relay",
			Name:      "entries_fetched_total",
			Help:      "Total feed entries returned by the fetcher.",
		}),
		EntriesSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storm_alert_relay",
			Name:      "entries_skipped_total",
			Help:      "Feed entries not posted, by reason.",
		}, []string{"reason"}),
		AlertsPosted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_alert_relay",
			Name:      "alerts_posted_total",
			Help:      "Total alerts posted to the chat room.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_alert_relay",
			Name:      "publish_errors_total",
			Help:      "Total chat publish failures.",
		}),
		DedupSaveErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_alert_relay",
			Name:      "dedup_save_errors_total",
			Help:      "Total failures persisting the dedup file.",
		}),
		DedupEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "storm_alert_relay",
			Name:      "dedup_entries",
			Help:      "Identifiers currently held in the dedup set.",
		}),
		RelayRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "storm_alert_relay",
			Name:      "relay_running",
			Help:      "1 when the relay loop is active, 0 when shut down.",
		}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "storm_alert_relay",
			Name:      "cycle_duration_seconds",
			Help:      "Duration of a complete fetch-filter-publish-persist cycle.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
	}
}
