package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexholyk/sentiment-monitor/internal/api/handlers"
	"github.com/alexholyk/sentiment-monitor/internal/domain/entities"
	apperrors "github.com/alexholyk/sentiment-monitor/pkg/errors"
)

type stubPredictionService struct {
	predicted entities.Sentiment
	logged    bool
	err       error

	lastText  string
	lastLabel *entities.Sentiment
}

func (s *stubPredictionService) Predict(ctx context.Context, text string, trueLabel *entities.Sentiment) (*entities.InferenceEvent, bool, error) {
	if s.err != nil {
		return nil, false, s.err
	}
	s.lastText = text
	s.lastLabel = trueLabel
	return &entities.InferenceEvent{
		Timestamp:          time.Now().UTC(),
		RequestText:        text,
		PredictedSentiment: s.predicted,
		TrueSentiment:      trueLabel,
	}, s.logged, nil
}

func TestPredictHandler_Predict_Success(t *testing.T) {
	service := &stubPredictionService{predicted: entities.SentimentPositive, logged: true}
	handler := handlers.NewPredictHandler(service)

	body := `{"text":"a lovely film","true_label":"positive"}`
	req := httptest.NewRequest("POST", "/predict", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Predict(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "positive", response["sentiment"])
	assert.Equal(t, "a lovely film", service.lastText)
	require.NotNil(t, service.lastLabel)
	assert.Equal(t, entities.SentimentPositive, *service.lastLabel)
}

func TestPredictHandler_Predict_WithoutTrueLabel(t *testing.T) {
	service := &stubPredictionService{predicted: entities.SentimentNegative, logged: true}
	handler := handlers.NewPredictHandler(service)

	req := httptest.NewRequest("POST", "/predict", strings.NewReader(`{"text":"meh"}`))
	w := httptest.NewRecorder()

	handler.Predict(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, service.lastLabel)
}

func TestPredictHandler_Predict_InvalidTrueLabel(t *testing.T) {
	handler := handlers.NewPredictHandler(&stubPredictionService{})

	req := httptest.NewRequest("POST", "/predict", strings.NewReader(`{"text":"x","true_label":"neutral"}`))
	w := httptest.NewRecorder()

	handler.Predict(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPredictHandler_Predict_InvalidPayload(t *testing.T) {
	handler := handlers.NewPredictHandler(&stubPredictionService{})

	req := httptest.NewRequest("POST", "/predict", strings.NewReader(`not json`))
	w := httptest.NewRecorder()

	handler.Predict(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPredictHandler_Predict_ModelUnavailable(t *testing.T) {
	service := &stubPredictionService{err: apperrors.NewInternalError("model not loaded", nil)}
	handler := handlers.NewPredictHandler(service)

	req := httptest.NewRequest("POST", "/predict", strings.NewReader(`{"text":"x"}`))
	w := httptest.NewRecorder()

	handler.Predict(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestPredictHandler_Predict_LoggingFailureStillResponds(t *testing.T) {
	// logged=false simulates an unwritable event log; the response must
	// still carry the prediction.
	service := &stubPredictionService{predicted: entities.SentimentPositive, logged: false}
	handler := handlers.NewPredictHandler(service)

	req := httptest.NewRequest("POST", "/predict", strings.NewReader(`{"text":"fine"}`))
	w := httptest.NewRecorder()

	handler.Predict(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "positive", response["sentiment"])
}
