package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.RecordDispatch("inserted", 3)
	m.RecordConflictRecovered()
	m.ViewerConnected()
	m.RecordKafkaMessage("t", "ok")
}

func TestRecordDispatch(t *testing.T) {
	m := NewMetricsWith(prometheus.NewRegistry())

	m.RecordDispatch("inserted", 2)
	m.RecordDispatch("inserted", 0)
	m.RecordDispatch("invalid_output", 1)

	if got := testutil.ToFloat64(m.DispatchTotal.WithLabelValues("inserted")); got != 2 {
		t.Errorf("inserted = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.DispatchTotal.WithLabelValues("invalid_output")); got != 1 {
		t.Errorf("invalid_output = %v, want 1", got)
	}
}

func TestViewerGauge(t *testing.T) {
	m := NewMetricsWith(prometheus.NewRegistry())
	m.ViewerConnected()
	m.ViewerConnected()
	m.ViewerDisconnected()

	if got := testutil.ToFloat64(m.ViewersActive); got != 1 {
		t.Errorf("viewers = %v, want 1", got)
	}
}
