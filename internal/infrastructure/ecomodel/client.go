package ecomodel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ecocart/backend/internal/domain"
)

const maxBodyBytes = 1 << 20

// ServingClient calls a TensorFlow Serving compatible REST predict endpoint
type ServingClient struct {
	httpClient *http.Client
	baseURL    string
	model      string
}

// NewServingClient creates a client for {baseURL}/v1/models/{model}:predict
func NewServingClient(baseURL, model string, timeout time.Duration) *ServingClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ServingClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		model:      model,
	}
}

type predictRequest struct {
	Instances [][][][3]float32 `json:"instances"`
}

type predictResponse struct {
	Predictions [][]float64 `json:"predictions"`
	Error       string      `json:"error"`
}

// Predict runs one forward pass and returns the first output of the first instance
func (c *ServingClient) Predict(ctx context.Context, tensor [][][3]float32) (float64, error) {
	payload, err := json.Marshal(predictRequest{Instances: [][][][3]float32{tensor}})
	if err != nil {
		return 0, fmt.Errorf("failed to encode tensor: %w", err)
	}

	reqURL := fmt.Sprintf("%s/v1/models/%s:predict", c.baseURL, url.PathEscape(c.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrUpstreamUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, fmt.Errorf("failed to read response body: %w", err)
	}

	var pred predictResponse
	if err := json.Unmarshal(body, &pred); err != nil {
		if resp.StatusCode != http.StatusOK {
			return 0, fmt.Errorf("%w: model server returned status %d", domain.ErrUpstreamUnreachable, resp.StatusCode)
		}
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: model server returned status %d: %s", domain.ErrUpstreamUnreachable, resp.StatusCode, pred.Error)
	}
	if len(pred.Predictions) == 0 || len(pred.Predictions[0]) == 0 {
		return 0, fmt.Errorf("%w: empty prediction", domain.ErrInternal)
	}

	return pred.Predictions[0][0], nil
}
