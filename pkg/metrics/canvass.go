package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeCreated  = "created"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// CanvassMetrics counts submissions and administrative status changes.
type CanvassMetrics struct {
	submissions   *prometheus.CounterVec
	statusUpdates *prometheus.CounterVec
	itemsPerReq   prometheus.Histogram
}

// NewCanvassMetrics registers the canvass metrics on reg. A nil reg yields a no-op recorder.
func NewCanvassMetrics(reg prometheus.Registerer) *CanvassMetrics {
	if reg == nil {
		return &CanvassMetrics{}
	}
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "canvass_submissions_total",
		Help: "Canvass request submissions by outcome.",
	}, []string{"outcome"})
	statusUpdates := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "canvass_status_updates_total",
		Help: "Canvass request status transitions by target status.",
	}, []string{"status"})
	itemsPerReq := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "canvass_request_items",
		Help:    "Number of line items per created canvass request.",
		Buckets: []float64{0, 1, 2, 5, 10, 25, 50},
	})
	reg.MustRegister(submissions, statusUpdates, itemsPerReq)
	return &CanvassMetrics{
		submissions:   submissions,
		statusUpdates: statusUpdates,
		itemsPerReq:   itemsPerReq,
	}
}

func (m *CanvassMetrics) IncSubmission(outcome string) {
	if m == nil || m.submissions == nil {
		return
	}
	m.submissions.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func (m *CanvassMetrics) ObserveItems(count int) {
	if m == nil || m.itemsPerReq == nil {
		return
	}
	m.itemsPerReq.Observe(float64(count))
}

func (m *CanvassMetrics) IncStatusUpdate(status string) {
	if m == nil || m.statusUpdates == nil {
		return
	}
	m.statusUpdates.WithLabelValues(normalizeLabel(status)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
