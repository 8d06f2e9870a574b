package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexholyk/sentiment-monitor/internal/api/handlers"
	"github.com/alexholyk/sentiment-monitor/internal/domain/entities"
	"github.com/alexholyk/sentiment-monitor/internal/monitoring"
)

type stubMonitor struct {
	report *monitoring.Report
	err    error
}

func (s *stubMonitor) Snapshot(ctx context.Context) (*monitoring.Report, error) {
	return s.report, s.err
}

func healthyReport() *monitoring.Report {
	return &monitoring.Report{
		GeneratedAt:    time.Now().UTC(),
		TotalEvents:    20,
		SkippedRecords: 1,
		Drift: &monitoring.DriftReport{
			Length: monitoring.NumericDrift{
				Bins:      []monitoring.Bin{{Lo: 0, Hi: 9}, {Lo: 10, Hi: 19}},
				Reference: []int{4, 6},
				Observed:  []int{10, 10},
			},
			Label: monitoring.CategoricalDrift{
				Shares: []monitoring.LabelShare{
					{Label: entities.SentimentPositive, Reference: 0.5, Observed: 0.6},
					{Label: entities.SentimentNegative, Reference: 0.5, Observed: 0.4},
				},
			},
			ObservedCount: 20,
		},
		Feedback: monitoring.FeedbackMetrics{
			TruePositives:  8,
			TrueNegatives:  10,
			FalsePositives: 1,
			FalseNegatives: 1,
			LabeledTotal:   20,
			Accuracy:       monitoring.DefinedRatio(0.90),
			Precision:      monitoring.DefinedRatio(8.0 / 9.0),
		},
		Alert:          false,
		AlertThreshold: monitoring.DefaultAlertThreshold,
	}
}

func TestDashboardHandler_GetReport(t *testing.T) {
	handler := handlers.NewDashboardHandler(&stubMonitor{report: healthyReport()}, nil)

	req := httptest.NewRequest("GET", "/api/monitor/report", nil)
	w := httptest.NewRecorder()

	handler.GetReport(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var report monitoring.Report
	require.NoError(t, json.NewDecoder(w.Body).Decode(&report))
	assert.Equal(t, 20, report.TotalEvents)
	assert.Equal(t, 1, report.SkippedRecords)
	assert.True(t, report.Feedback.Accuracy.Defined)
	assert.InDelta(t, 0.90, report.Feedback.Accuracy.Value, 1e-9)
	assert.False(t, report.Alert)
}

func TestDashboardHandler_GetReport_MonitorError(t *testing.T) {
	handler := handlers.NewDashboardHandler(&stubMonitor{err: errors.New("log unreadable")}, nil)

	req := httptest.NewRequest("GET", "/api/monitor/report", nil)
	w := httptest.NewRecorder()

	handler.GetReport(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestDashboardHandler_GetPage_NoAlert(t *testing.T) {
	handler := handlers.NewDashboardHandler(&stubMonitor{report: healthyReport()}, nil)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	handler.GetPage(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.NotContains(t, body, "Warning: accuracy below threshold")
	assert.Contains(t, body, "Accuracy: 90.00%")
	assert.Contains(t, body, "Log entries: 20 (1 skipped)")
	assert.Contains(t, body, "[0-9] reference=4 observed=10")
	assert.Contains(t, body, "positive reference=0.50 observed=0.60")
}

func TestDashboardHandler_GetPage_AlertBanner(t *testing.T) {
	report := healthyReport()
	report.Feedback.Accuracy = monitoring.DefinedRatio(0.60)
	report.Alert = true
	handler := handlers.NewDashboardHandler(&stubMonitor{report: report}, nil)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	handler.GetPage(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Warning: accuracy below threshold")
	assert.Contains(t, body, "60.00%")
}

func TestDashboardHandler_GetPage_InsufficientData(t *testing.T) {
	report := healthyReport()
	report.Feedback = monitoring.FeedbackMetrics{}
	report.Alert = false
	report.InsufficientData = true
	handler := handlers.NewDashboardHandler(&stubMonitor{report: report}, nil)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	handler.GetPage(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "No user feedback available in logs yet")
	assert.NotContains(t, body, "Warning: accuracy below threshold")
}

func TestDashboardHandler_GetPage_UndefinedPrecision(t *testing.T) {
	report := healthyReport()
	report.Feedback = monitoring.FeedbackMetrics{
		TrueNegatives:  3,
		FalseNegatives: 1,
		LabeledTotal:   4,
		Accuracy:       monitoring.DefinedRatio(0.75),
	}
	report.Alert = true
	handler := handlers.NewDashboardHandler(&stubMonitor{report: report}, nil)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	handler.GetPage(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Precision: undefined (no positive predictions yet)")
}
