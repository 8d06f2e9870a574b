package handlers

import (
	"context"
	"fmt"
	"html/template"
	"net/http"

	"github.com/alexholyk/sentiment-monitor/internal/infrastructure/observability"
	"github.com/alexholyk/sentiment-monitor/internal/monitoring"
)

// ReportProvider defines the monitoring operations used by the handler.
type ReportProvider interface {
	Snapshot(ctx context.Context) (*monitoring.Report, error)
}

// DashboardHandler serves monitoring reports. Every request re-reads the
// event log through the monitor; the page at / is a minimal rendering whose
// only hard requirements are the alert banner and the insufficient-data
// state.
type DashboardHandler struct {
	monitor ReportProvider
	metrics *observability.Metrics
}

// NewDashboardHandler creates a new dashboard handler. metrics may be nil.
func NewDashboardHandler(monitor ReportProvider, metrics *observability.Metrics) *DashboardHandler {
	return &DashboardHandler{monitor: monitor, metrics: metrics}
}

// GetReport handles GET /api/monitor/report
func (h *DashboardHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.monitor.Snapshot(r.Context())
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("failed to build monitor report")
		respondWithError(w, http.StatusInternalServerError, "failed to build monitor report")
		return
	}

	observability.RecordMonitorScan(r.Context(), h.metrics, report.SkippedRecords, report.Alert)
	respondWithJSON(w, http.StatusOK, report)
}

var dashboardPage = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html>
<head><title>Sentiment Monitoring</title></head>
<body>
<h1>Sentiment Monitoring Dashboard</h1>
{{if .Alert}}
<div style="background:#c0392b;color:#fff;padding:16px;font-size:1.3em;font-weight:bold">
  Warning: accuracy below threshold &mdash; {{printf "%.2f%%" .AccuracyPct}}
</div>
{{end}}
<p>Log entries: {{.TotalEvents}} ({{.SkippedRecords}} skipped)</p>
{{if .InsufficientData}}
<p><em>No user feedback available in logs yet. Accuracy and precision are undefined.</em></p>
{{else}}
<p>Accuracy: {{printf "%.2f%%" .AccuracyPct}}</p>
{{if .PrecisionDefined}}<p>Precision: {{printf "%.2f%%" .PrecisionPct}}</p>{{else}}<p>Precision: undefined (no positive predictions yet)</p>{{end}}
<p>Evaluated on {{.LabeledTotal}} log entries with feedback.</p>
{{end}}
<h2>Data Drift: Text Length Distribution</h2>
<pre>{{range .LengthRows}}{{.}}
{{end}}</pre>
<h2>Target Drift: Label Distribution</h2>
<pre>{{range .LabelRows}}{{.}}
{{end}}</pre>
</body>
</html>
`))

type dashboardView struct {
	Alert            bool
	InsufficientData bool
	TotalEvents      int
	SkippedRecords   int
	LabeledTotal     int
	AccuracyPct      float64
	PrecisionDefined bool
	PrecisionPct     float64
	LengthRows       []string
	LabelRows        []string
}

// GetPage handles GET /
func (h *DashboardHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	report, err := h.monitor.Snapshot(r.Context())
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("failed to build monitor report")
		http.Error(w, "failed to build monitor report", http.StatusInternalServerError)
		return
	}

	observability.RecordMonitorScan(r.Context(), h.metrics, report.SkippedRecords, report.Alert)

	view := dashboardView{
		Alert:            report.Alert,
		InsufficientData: report.InsufficientData,
		TotalEvents:      report.TotalEvents,
		SkippedRecords:   report.SkippedRecords,
		LabeledTotal:     report.Feedback.LabeledTotal,
		AccuracyPct:      report.Feedback.Accuracy.Value * 100,
		PrecisionDefined: report.Feedback.Precision.Defined,
		PrecisionPct:     report.Feedback.Precision.Value * 100,
	}
	for i, bin := range report.Drift.Length.Bins {
		view.LengthRows = append(view.LengthRows, fmt.Sprintf(
			"[%d-%d] reference=%d observed=%d",
			bin.Lo, bin.Hi, report.Drift.Length.Reference[i], report.Drift.Length.Observed[i],
		))
	}
	for _, share := range report.Drift.Label.Shares {
		view.LabelRows = append(view.LabelRows, fmt.Sprintf(
			"%s reference=%.2f observed=%.2f",
			share.Label, share.Reference, share.Observed,
		))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardPage.Execute(w, view); err != nil {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("failed to render dashboard page")
	}
}
