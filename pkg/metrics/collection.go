package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CollectionMetrics records ledger reads and mint outcomes.
type CollectionMetrics struct {
	readDuration *prometheus.HistogramVec
	reads        *prometheus.CounterVec
	degraded     prometheus.Counter
	mints        *prometheus.CounterVec
}

// NewCollectionMetrics registers the collection metrics on the provided registerer.
func NewCollectionMetrics(reg prometheus.Registerer) *CollectionMetrics {
	if reg == nil {
		return &CollectionMetrics{}
	}
	readDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_read_duration_seconds",
		Help:    "Duration of ledger holdings reads in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	reads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_reads_total",
		Help: "Ledger holdings reads by outcome.",
	}, []string{"outcome"})
	degraded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "collection_degraded_fetches_total",
		Help: "Collection fetches served from the local cache only.",
	})
	mints := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ticket_mints_total",
		Help: "Ticket mints by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(readDuration, reads, degraded, mints)
	return &CollectionMetrics{
		readDuration: readDuration,
		reads:        reads,
		degraded:     degraded,
		mints:        mints,
	}
}

// ObserveLedgerRead records one holdings read with its duration.
func (c *CollectionMetrics) ObserveLedgerRead(outcome string, duration time.Duration) {
	if c == nil || c.reads == nil {
		return
	}
	label := normalizeLabel(outcome)
	c.reads.WithLabelValues(label).Inc()
	c.readDuration.WithLabelValues(label).Observe(duration.Seconds())
}

// IncDegradedFetch counts a cache-only collection fetch.
func (c *CollectionMetrics) IncDegradedFetch() {
	if c == nil || c.degraded == nil {
		return
	}
	c.degraded.Inc()
}

// IncMint counts a mint attempt by outcome.
func (c *CollectionMetrics) IncMint(outcome string) {
	if c == nil || c.mints == nil {
		return
	}
	c.mints.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(outcome string) string {
	if outcome == "" {
		return "unknown"
	}
	return outcome
}
