package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/alexholyk/sentiment-monitor/internal/domain/entities"
	apperrors "github.com/alexholyk/sentiment-monitor/pkg/errors"
)

const maxRequestTextLength = 100_000

// PredictionProvider defines the prediction operations used by the handler.
type PredictionProvider interface {
	Predict(ctx context.Context, text string, trueLabel *entities.Sentiment) (*entities.InferenceEvent, bool, error)
}

// PredictHandler handles sentiment prediction requests.
type PredictHandler struct {
	service PredictionProvider
}

// NewPredictHandler creates a new predict handler.
func NewPredictHandler(service PredictionProvider) *PredictHandler {
	return &PredictHandler{service: service}
}

type predictRequest struct {
	Text      string `json:"text"`
	TrueLabel string `json:"true_label,omitempty"`
}

type predictResponse struct {
	Sentiment entities.Sentiment `json:"sentiment"`
}

// Predict handles POST /predict. A failed event log append does not fail
// the response; monitoring is best-effort.
func (h *PredictHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var payload predictRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if len(payload.Text) > maxRequestTextLength {
		respondWithError(w, http.StatusBadRequest, "text is too long")
		return
	}

	var trueLabel *entities.Sentiment
	if payload.TrueLabel != "" {
		label := entities.Sentiment(strings.ToLower(strings.TrimSpace(payload.TrueLabel)))
		if !label.IsValid() {
			respondWithError(w, http.StatusBadRequest, "true_label must be positive or negative")
			return
		}
		trueLabel = label.Ptr()
	}

	event, _, err := h.service.Predict(r.Context(), payload.Text, trueLabel)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeInternal) {
			respondWithError(w, http.StatusServiceUnavailable, "model is not available, cannot make predictions")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "prediction failed")
		return
	}

	respondWithJSON(w, http.StatusOK, predictResponse{Sentiment: event.PredictedSentiment})
}
