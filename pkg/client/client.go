// pkg/client/client.go

// Package client is a small Go client for the clustering service API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Record maps feature names to values for one prediction request.
type Record map[string]float64

// Assignment is the POST /predict response.
type Assignment struct {
	Cluster     int     `json:"cluster"`
	ClusterName string  `json:"cluster_name"`
	Confidence  float64 `json:"confidence"`
	Description string  `json:"description"`
}

// BatchItem pairs a record's position in the request with its assigned cluster.
type BatchItem struct {
	Index   int `json:"index"`
	Cluster int `json:"cluster"`
}

// BatchResult is the POST /predict-batch response. Summary keys are
// stringified cluster ids.
type BatchResult struct {
	Total    int            `json:"total"`
	Clusters []BatchItem    `json:"clusters"`
	Summary  map[string]int `json:"summary"`
}

// Health is the GET /health response.
type Health struct {
	Status string `json:"status"`
	Ready  bool   `json:"ready"`
}

// ModelInfo is the GET /info response.
type ModelInfo struct {
	Model     string   `json:"model"`
	NClusters int      `json:"n_clusters"`
	Features  []string `json:"features"`
	NFeatures int      `json:"n_features"`
	NIter     int      `json:"n_iter"`
	Inertia   float64  `json:"inertia"`
}

// APIError is the structured error body the service returns on failures.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details"`
	Retryable  bool   `json:"retryable"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("clustering service error [%s]: %s", e.Code, e.Message)
}

// Client talks to one clustering service instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, e.g. to tune timeouts
// or inject a transport.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a client for the service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Health checks whether the service is up and serving a loaded model.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var health Health
	if err := c.do(ctx, http.MethodGet, "/health", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// Info returns metadata of the loaded model artifact.
func (c *Client) Info(ctx context.Context) (*ModelInfo, error) {
	var info ModelInfo
	if err := c.do(ctx, http.MethodGet, "/info", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Predict classifies a single record.
func (c *Client) Predict(ctx context.Context, record Record) (*Assignment, error) {
	var assignment Assignment
	if err := c.do(ctx, http.MethodPost, "/predict", record, &assignment); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// PredictBatch classifies up to the service's configured maximum of records
// in one request.
func (c *Client) PredictBatch(ctx context.Context, records []Record) (*BatchResult, error) {
	body := map[string]interface{}{"records": records}

	var result BatchResult
	if err := c.do(ctx, http.MethodPost, "/predict-batch", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

// decodeAPIError turns an error response into an *APIError when the body
// carries the service's structured envelope, otherwise a plain error.
func decodeAPIError(status int, data []byte) error {
	var envelope struct {
		Error *APIError `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Error != nil && envelope.Error.Code != "" {
		envelope.Error.StatusCode = status
		return envelope.Error
	}
	return fmt.Errorf("unexpected status %d: %s", status, strings.TrimSpace(string(data)))
}
