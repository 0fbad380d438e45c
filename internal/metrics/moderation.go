package metrics

import "github.com/prometheus/client_golang/prometheus"

// ModerationMetrics counts moderation workflow outcomes. A nil receiver is a
// valid no-op recorder.
type ModerationMetrics struct {
	decisions       *prometheus.CounterVec
	verifications   *prometheus.CounterVec
	editResets      prometheus.Counter
	bansCleared     prometheus.Counter
	bansIssued      prometheus.Counter
	duplicateLikes  prometheus.Counter
	reportsReceived *prometheus.CounterVec
}

// NewModerationMetrics creates and registers moderation metrics
func NewModerationMetrics(registry *prometheus.Registry) (*ModerationMetrics, error) {
	m := &ModerationMetrics{
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wikiboard",
			Name:      "moderation_decisions_total",
			Help:      "Entry status changes made by moderators, by resulting status",
		}, []string{"status"}),
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wikiboard",
			Name:      "entry_verifications_total",
			Help:      "Verification markers set by admins, by value",
		}, []string{"verification"}),
		editResets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wikiboard",
			Name:      "entry_edit_resets_total",
			Help:      "Owner edits that sent an entry back to pending",
		}),
		bansCleared: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wikiboard",
			Name:      "ban_expiries_cleared_total",
			Help:      "Lapsed timed bans cleared on a ban check or by wikictl bans sweep",
		}),
		bansIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wikiboard",
			Name:      "bans_issued_total",
			Help:      "Bans issued by admins",
		}),
		duplicateLikes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wikiboard",
			Name:      "likes_duplicate_total",
			Help:      "Like attempts rejected because the like already existed",
		}),
		reportsReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wikiboard",
			Name:      "content_reports_total",
			Help:      "Content reports filed, by reason",
		}, []string{"reason"}),
	}

	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *ModerationMetrics) RecordDecision(status string) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(status).Inc()
}

func (m *ModerationMetrics) RecordVerification(verification string) {
	if m == nil {
		return
	}
	m.verifications.WithLabelValues(verification).Inc()
}

func (m *ModerationMetrics) RecordEditReset() {
	if m == nil {
		return
	}
	m.editResets.Inc()
}

func (m *ModerationMetrics) RecordBanCleared() {
	if m == nil {
		return
	}
	m.bansCleared.Inc()
}

// RecordBansCleared counts lapsed bans cleared in one bulk sweep.
func (m *ModerationMetrics) RecordBansCleared(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.bansCleared.Add(float64(n))
}

func (m *ModerationMetrics) RecordBanIssued() {
	if m == nil {
		return
	}
	m.bansIssued.Inc()
}

func (m *ModerationMetrics) RecordDuplicateLike() {
	if m == nil {
		return
	}
	m.duplicateLikes.Inc()
}

func (m *ModerationMetrics) RecordReport(reason string) {
	if m == nil {
		return
	}
	m.reportsReceived.WithLabelValues(reason).Inc()
}

func (m *ModerationMetrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.decisions, m.verifications, m.editResets, m.bansCleared,
		m.bansIssued, m.duplicateLikes, m.reportsReceived,
	}
}

// Describe implements the Collector interface
func (m *ModerationMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, c := range m.collectors() {
		c.Describe(ch)
	}
}

// Collect implements the Collector interface
func (m *ModerationMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, c := range m.collectors() {
		c.Collect(ch)
	}
}
