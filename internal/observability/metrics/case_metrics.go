package metrics

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CaseMetrics tracks the dispute pipeline: analyses run, escalations fired,
// and the pending-response backlog the worker sweeps.
type CaseMetrics struct {
	analysesTotal    *prometheus.CounterVec
	escalationsTotal *prometheus.CounterVec
	pendingBacklog   prometheus.Gauge
	analysisDuration prometheus.Histogram
}

var (
	caseMetricsOnce sync.Once
	caseMetrics     *CaseMetrics
)

func Case() *CaseMetrics {
	return CaseWithConfig(Config{})
}

func CaseWithConfig(cfg Config) *CaseMetrics {
	caseMetricsOnce.Do(func() {
		caseMetrics = newCaseMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return caseMetrics
}

func ResetCaseMetricsForTest() {
	caseMetricsOnce = sync.Once{}
	caseMetrics = nil
}

func newCaseMetrics(registerer prometheus.Registerer, cfg Config) *CaseMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "arbiter"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}

	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	analysesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "arbiter_case_analyses_total",
			Help:        "Total case analyses run, by classification label.",
			ConstLabels: constLabels,
		},
		[]string{"label"},
	)

	escalationsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "arbiter_case_escalations_total",
			Help:        "Total cases escalated to staff, by trigger.",
			ConstLabels: constLabels,
		},
		[]string{"trigger"},
	)

	pendingBacklog := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name:        "arbiter_pending_response_cases",
			Help:        "Cases currently awaiting a party response.",
			ConstLabels: constLabels,
		},
	)

	analysisDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:        "arbiter_analysis_duration_seconds",
			Help:        "Wall time of one end-to-end case analysis.",
			Buckets:     []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			ConstLabels: constLabels,
		},
	)

	registerer.MustRegister(
		analysesTotal,
		escalationsTotal,
		pendingBacklog,
		analysisDuration,
	)

	return &CaseMetrics{
		analysesTotal:    analysesTotal,
		escalationsTotal: escalationsTotal,
		pendingBacklog:   pendingBacklog,
		analysisDuration: analysisDuration,
	}
}

func (m *CaseMetrics) IncAnalyses(label string) {
	if m == nil {
		return
	}
	m.analysesTotal.WithLabelValues(label).Inc()
}

func (m *CaseMetrics) IncEscalations(trigger string) {
	if m == nil {
		return
	}
	m.escalationsTotal.WithLabelValues(trigger).Inc()
}

func (m *CaseMetrics) SetPendingBacklog(value int) {
	if m == nil {
		return
	}
	m.pendingBacklog.Set(float64(value))
}

func (m *CaseMetrics) ObserveAnalysisDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.analysisDuration.Observe(d.Seconds())
}
