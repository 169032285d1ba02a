// pkg/client/client_test.go
package client

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
)

// ====== Test Helpers ======

func testRecord() Record {
	return Record{
		"ymophg_mean":    8500.5,
		"ymophg_median":  7200.0,
		"anosest_mean":   6.8,
		"edad_mean":      28.5,
		"totper_mean":    4.2,
		"tasa_ocupacion": 0.65,
		"tasa_pobreza":   0.45,
		"tasa_nbi":       0.38,
	}
}

func jsonResponse(t *testing.T, w http.ResponseWriter, status int, body interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

// ====== Requests & Decoding ======

func TestClientPredict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/predict", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var record Record
		require.NoError(t, json.NewDecoder(r.Body).Decode(&record))
		assert.Equal(t, testRecord(), record)

		jsonResponse(t, w, http.StatusOK, Assignment{
			Cluster:     1,
			ClusterName: "Desarrollo Medio-Alto 🔵",
			Confidence:  0.87,
			Description: "Departamento con indicadores socioeconómicos medio-altos",
		})
	}))
	defer server.Close()

	c := New(server.URL)
	assignment, err := c.Predict(context.Background(), testRecord())
	require.NoError(t, err)

	assert.Equal(t, 1, assignment.Cluster)
	assert.Equal(t, "Desarrollo Medio-Alto 🔵", assignment.ClusterName)
	assert.Equal(t, 0.87, assignment.Confidence)
}

func TestClientPredictBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/predict-batch", r.URL.Path)

		// The batch endpoint expects records wrapped in an object.
		var body struct {
			Records []Record `json:"records"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Records, 2)

		jsonResponse(t, w, http.StatusOK, BatchResult{
			Total: 2,
			Clusters: []BatchItem{
				{Index: 0, Cluster: 0},
				{Index: 1, Cluster: 3},
			},
			Summary: map[string]int{"0": 1, "1": 0, "2": 0, "3": 1},
		})
	}))
	defer server.Close()

	c := New(server.URL)
	result, err := c.PredictBatch(context.Background(), []Record{testRecord(), testRecord()})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Total)
	require.Len(t, result.Clusters, 2)
	assert.Equal(t, BatchItem{Index: 1, Cluster: 3}, result.Clusters[1])
	assert.Equal(t, map[string]int{"0": 1, "1": 0, "2": 0, "3": 1}, result.Summary)
}

func TestClientHealthAndInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			jsonResponse(t, w, http.StatusOK, Health{Status: "healthy", Ready: true})
		case "/info":
			jsonResponse(t, w, http.StatusOK, ModelInfo{
				Model:     "KMeans Socioeconómico HN",
				NClusters: 4,
				Features:  []string{"ymophg_mean", "tasa_nbi"},
				NFeatures: 2,
				NIter:     12,
				Inertia:   37.8,
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	c := New(server.URL)

	health, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", health.Status)
	assert.True(t, health.Ready)

	info, err := c.Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, info.NClusters)
	assert.Equal(t, 12, info.NIter)
	assert.Equal(t, 37.8, info.Inertia)
}

// ====== Error Handling ======

func TestClientDecodesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(t, w, http.StatusBadRequest, map[string]interface{}{
			"error": map[string]interface{}{
				"code":      "RANGE_ERROR",
				"message":   "Feature value is outside the allowed range",
				"details":   "field: tasa_pobreza, value: 45, allowed: [0, 1]",
				"retryable": false,
			},
		})
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.Predict(context.Background(), testRecord())
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "RANGE_ERROR", apiErr.Code)
	assert.Contains(t, apiErr.Details, "tasa_pobreza")
	assert.False(t, apiErr.Retryable)
}

func TestClientUnstructuredErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.Predict(context.Background(), testRecord())
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
	assert.Contains(t, err.Error(), "unexpected status 502")
	assert.Contains(t, err.Error(), "upstream exploded")
}

func TestClientContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		jsonResponse(t, w, http.StatusOK, Health{Status: "healthy", Ready: true})
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	c := New(server.URL)
	_, err := c.Health(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClientTrimsTrailingSlash(t *testing.T) {
	var seenPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenPath = r.URL.Path
		jsonResponse(t, w, http.StatusOK, Health{Status: "healthy", Ready: true})
	}))
	defer server.Close()

	c := New(server.URL + "/")
	_, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/health", seenPath)
}
