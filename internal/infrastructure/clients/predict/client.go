package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/alexholyk/sentiment-monitor/internal/domain/entities"
	"github.com/alexholyk/sentiment-monitor/internal/domain/providers"
	apperrors "github.com/alexholyk/sentiment-monitor/pkg/errors"
	"github.com/alexholyk/sentiment-monitor/pkg/retry"
)

// Client calls the prediction service over HTTP. Any failure, including a
// timeout, surfaces as a PREDICTION_CALL error so callers can count it as a
// per-item failure instead of aborting a batch.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retryCfg   retry.Config
}

// NewClient creates a predict client against the given endpoint URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		retryCfg: retry.Config{
			MaxAttempts:   2,
			InitialDelay:  100 * time.Millisecond,
			MaxDelay:      time.Second,
			BackoffFactor: 2.0,
		},
	}
}

var _ providers.Predictor = (*Client)(nil)

type predictRequest struct {
	Text string `json:"text"`
}

type predictResponse struct {
	Sentiment entities.Sentiment `json:"sentiment"`
}

// Predict requests a classification for the text.
func (c *Client) Predict(ctx context.Context, text string) (entities.Sentiment, error) {
	var result entities.Sentiment

	err := retry.Do(ctx, c.retryCfg, func() error {
		sentiment, err := c.doPredict(ctx, text)
		if err != nil {
			return err
		}
		result = sentiment
		return nil
	})
	if err != nil {
		return "", apperrors.NewPredictionCallError("predict call failed", err)
	}

	return result, nil
}

func (c *Client) doPredict(ctx context.Context, text string) (entities.Sentiment, error) {
	payload, err := json.Marshal(predictRequest{Text: text})
	if err != nil {
		return "", fmt.Errorf("failed to marshal predict request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("predict request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read predict response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("predict returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed predictResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse predict response: %w", err)
	}
	if !parsed.Sentiment.IsValid() {
		return "", fmt.Errorf("predict returned unknown sentiment %q", parsed.Sentiment)
	}

	return parsed.Sentiment, nil
}
