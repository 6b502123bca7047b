package resilience

import (
	"sync"
)

// DefaultHistoryCap bounds the rolling diagnosis history.
const DefaultHistoryCap = 100

// HealthStatus is the coarse pipeline health classification.
type HealthStatus string

const (
	HealthHealthy  HealthStatus = "healthy"
	HealthWarning  HealthStatus = "warning"
	HealthDegraded HealthStatus = "degraded"
	HealthCritical HealthStatus = "critical"
)

// Report is a point-in-time summary of accumulated diagnostics.
type Report struct {
	TotalAnalyses       int
	SuccessfulDiagnoses int
	ErrorRateByCategory map[Category]float64
	HealthScore         int
	HealthStatus        HealthStatus
}

// DiagnosticsAggregator accumulates classified failures and exposes
// rolling health summaries. Purely observational: nothing here feeds
// back into retry or detection behavior. Safe for concurrent use from
// multiple failure sites; a single mutex is plenty at this write rate.
type DiagnosticsAggregator struct {
	mu        sync.Mutex
	cap       int
	history   []*ErrorDiagnosis
	total     int
	successes int
}

var _ Observer = (*DiagnosticsAggregator)(nil)

// NewDiagnosticsAggregator creates an aggregator with the given history
// cap (DefaultHistoryCap when <= 0).
func NewDiagnosticsAggregator(historyCap int) *DiagnosticsAggregator {
	if historyCap <= 0 {
		historyCap = DefaultHistoryCap
	}
	return &DiagnosticsAggregator{cap: historyCap}
}

// Record appends a failure diagnosis, evicting the oldest entry past the
// cap.
func (d *DiagnosticsAggregator) Record(diagnosis *ErrorDiagnosis) {
	if diagnosis == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.total++
	d.history = append(d.history, diagnosis)
	if len(d.history) > d.cap {
		d.history = d.history[len(d.history)-d.cap:]
	}
}

// RecordSuccess counts a successful analysis so error rates have a
// denominator.
func (d *DiagnosticsAggregator) RecordSuccess() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.total++
	d.successes++
}

// History returns a snapshot copy of the rolling failure history,
// oldest first.
func (d *DiagnosticsAggregator) History() []*ErrorDiagnosis {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]*ErrorDiagnosis, len(d.history))
	copy(out, d.history)
	return out
}

// Report computes the rolling summary. The health score is a step
// function of the failure share of all analyses:
// >50% critical/20, >30% degraded/50, >10% warning/75, else healthy/100.
func (d *DiagnosticsAggregator) Report() Report {
	d.mu.Lock()
	defer d.mu.Unlock()

	report := Report{
		TotalAnalyses:       d.total,
		SuccessfulDiagnoses: d.successes,
		ErrorRateByCategory: make(map[Category]float64),
		HealthScore:         100,
		HealthStatus:        HealthHealthy,
	}

	if d.total == 0 {
		return report
	}

	counts := make(map[Category]int)
	for _, diag := range d.history {
		counts[diag.Category]++
	}
	for cat, n := range counts {
		report.ErrorRateByCategory[cat] = float64(n) / float64(d.total)
	}

	errorRate := float64(len(d.history)) / float64(d.total)
	switch {
	case errorRate > 0.5:
		report.HealthScore, report.HealthStatus = 20, HealthCritical
	case errorRate > 0.3:
		report.HealthScore, report.HealthStatus = 50, HealthDegraded
	case errorRate > 0.1:
		report.HealthScore, report.HealthStatus = 75, HealthWarning
	}

	return report
}
