package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilReceiverIsSafe(t *testing.T) {
	var m *CollectionMetrics
	m.ObserveLedgerRead("ok", time.Second)
	m.IncDegradedFetch()
	m.IncMint("ok")

	empty := NewCollectionMetrics(nil)
	empty.ObserveLedgerRead("ok", time.Second)
	empty.IncDegradedFetch()
	empty.IncMint("error")
}

func TestCountersIncrement(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCollectionMetrics(reg)

	m.ObserveLedgerRead("ok", 120*time.Millisecond)
	m.ObserveLedgerRead("error", 30*time.Millisecond)
	m.IncDegradedFetch()
	m.IncMint("")

	if got := testutil.ToFloat64(m.reads.WithLabelValues("ok")); got != 1 {
		t.Fatalf("expected 1 ok read, got %v", got)
	}
	if got := testutil.ToFloat64(m.reads.WithLabelValues("error")); got != 1 {
		t.Fatalf("expected 1 failed read, got %v", got)
	}
	if got := testutil.ToFloat64(m.degraded); got != 1 {
		t.Fatalf("expected 1 degraded fetch, got %v", got)
	}
	if got := testutil.ToFloat64(m.mints.WithLabelValues("unknown")); got != 1 {
		t.Fatalf("expected empty outcome normalized to unknown, got %v", got)
	}
}
