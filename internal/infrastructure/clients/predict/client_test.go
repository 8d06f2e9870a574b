package predict

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexholyk/sentiment-monitor/internal/domain/entities"
	apperrors "github.com/alexholyk/sentiment-monitor/pkg/errors"
)

func TestClient_Predict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var req struct {
			Text string `json:"text"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "a lovely film", req.Text)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"sentiment": "positive"})
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	sentiment, err := client.Predict(context.Background(), "a lovely film")
	require.NoError(t, err)
	assert.Equal(t, entities.SentimentPositive, sentiment)
}

func TestClient_Predict_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model is not loaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.Predict(context.Background(), "anything")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypePredictionCall))
}

func TestClient_Predict_UnknownSentiment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"sentiment": "neutral"})
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.Predict(context.Background(), "anything")
	assert.Error(t, err)
}

func TestClient_Predict_Timeout(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer server.Close()
	defer close(block)

	client := NewClient(server.URL, 50*time.Millisecond)
	_, err := client.Predict(context.Background(), "anything")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypePredictionCall))
}

func TestClient_Predict_RetriesTransientFailure(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "hiccup", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"sentiment": "negative"})
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	sentiment, err := client.Predict(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, entities.SentimentNegative, sentiment)
	assert.Equal(t, 2, calls)
}
