package artifact

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clustering-service/internal/common/errors"
	commonhttp "clustering-service/internal/common/http"
)

// ==========================
// Test Helpers
// ==========================

func writeTestArtifactDir(t *testing.T) string {
	t.Helper()
	bundle := createTestBundle()
	dir := t.TempDir()

	names := strings.Join(bundle.Schema.Names, ",")
	require.NoError(t, os.WriteFile(filepath.Join(dir, FeatureNamesFile), []byte(names), 0o644))

	paramsJSON, err := json.Marshal(bundle.Params)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ScalerParamsFile), paramsJSON, 0o644))

	centroidsJSON, err := json.Marshal(bundle.Model)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, CentroidsFile), centroidsJSON, 0o644))

	return dir
}

func overwriteArtifactFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

// ==========================
// LoadFromDir Tests
// ==========================

func TestLoadFromDir_Success(t *testing.T) {
	dir := writeTestArtifactDir(t)

	bundle, err := LoadFromDir(dir, testRatioFeatures())

	require.NoError(t, err)
	require.NotNil(t, bundle)
	assert.Equal(t, testFeatureNames(), bundle.Schema.Names)
	assert.Equal(t, 8, bundle.Schema.Count())
	assert.True(t, bundle.Schema.IsRatio("tasa_nbi"))
	assert.Equal(t, 4, bundle.Model.NClusters)
	assert.Len(t, bundle.Model.Centroids, 4)
	assert.Equal(t, 96.4, bundle.Model.Inertia)
	assert.Equal(t, 12, bundle.Model.NIter)
	assert.Len(t, bundle.Params.Mean, 8)
	assert.Len(t, bundle.Params.Scale, 8)
}

func TestLoadFromDir_MissingFile(t *testing.T) {
	dir := writeTestArtifactDir(t)
	require.NoError(t, os.Remove(filepath.Join(dir, CentroidsFile)))

	bundle, err := LoadFromDir(dir, testRatioFeatures())

	assert.Nil(t, bundle)
	stdErr := assertArtifactLoadError(t, err)
	assert.Contains(t, stdErr.Details, CentroidsFile)
}

func TestLoadFromDir_MalformedJSON(t *testing.T) {
	dir := writeTestArtifactDir(t)
	overwriteArtifactFile(t, dir, ScalerParamsFile, "{not valid json")

	bundle, err := LoadFromDir(dir, testRatioFeatures())

	assert.Nil(t, bundle)
	assertArtifactLoadError(t, err)
}

func TestLoadFromDir_SchemaInvalidDocuments(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name:    "scaler params missing scale",
			file:    ScalerParamsFile,
			content: `{"mean": [1, 2, 3]}`,
		},
		{
			name:    "scaler params with string entries",
			file:    ScalerParamsFile,
			content: `{"mean": ["a", "b"], "scale": [1, 2]}`,
		},
		{
			name:    "scaler params with empty mean",
			file:    ScalerParamsFile,
			content: `{"mean": [], "scale": []}`,
		},
		{
			name:    "centroids missing n_clusters",
			file:    CentroidsFile,
			content: `{"centroids": [[1, 2]]}`,
		},
		{
			name:    "centroids not nested arrays",
			file:    CentroidsFile,
			content: `{"n_clusters": 2, "centroids": [1, 2]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeTestArtifactDir(t)
			overwriteArtifactFile(t, dir, tt.file, tt.content)

			bundle, err := LoadFromDir(dir, testRatioFeatures())

			assert.Nil(t, bundle)
			stdErr := assertArtifactLoadError(t, err)
			assert.Contains(t, stdErr.Details, tt.file)
		})
	}
}

func TestLoadFromDir_DimensionMismatchRefused(t *testing.T) {
	dir := writeTestArtifactDir(t)
	// 7-entry mean against an 8-feature schema must refuse to load.
	overwriteArtifactFile(t, dir, ScalerParamsFile,
		`{"mean": [1, 2, 3, 4, 5, 6, 7], "scale": [1, 1, 1, 1, 1, 1, 1]}`)

	bundle, err := LoadFromDir(dir, testRatioFeatures())

	assert.Nil(t, bundle)
	stdErr := assertArtifactLoadError(t, err)
	assert.Contains(t, stdErr.Details, "mean has 7 entries")
}

// ==========================
// Feature Names Parsing Tests
// ==========================

func TestParseFeatureNames(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		expected    []string
		expectError bool
	}{
		{
			name:     "canonical single line",
			content:  "ymophg_mean,ymophg_median,anosest_mean",
			expected: []string{"ymophg_mean", "ymophg_median", "anosest_mean"},
		},
		{
			name:     "whitespace around names",
			content:  " ymophg_mean , tasa_nbi ",
			expected: []string{"ymophg_mean", "tasa_nbi"},
		},
		{
			name:     "trailing newline",
			content:  "ymophg_mean,tasa_nbi\n",
			expected: []string{"ymophg_mean", "tasa_nbi"},
		},
		{
			name:        "empty file",
			content:     "",
			expectError: true,
		},
		{
			name:        "blank file",
			content:     "   \n",
			expectError: true,
		},
		{
			name:        "trailing comma",
			content:     "ymophg_mean,tasa_nbi,",
			expectError: true,
		},
		{
			name:        "double comma",
			content:     "ymophg_mean,,tasa_nbi",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			names, err := parseFeatureNames([]byte(tt.content))

			if tt.expectError {
				assertArtifactLoadError(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, names)
		})
	}
}

// ==========================
// LoadFromURLs Tests
// ==========================

func newArtifactServer(t *testing.T) (*httptest.Server, URLs) {
	t.Helper()
	bundle := createTestBundle()

	mux := http.NewServeMux()
	mux.HandleFunc("/feature_names.txt", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Join(bundle.Schema.Names, ",")))
	})
	mux.HandleFunc("/scaler_params.json", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(bundle.Params)
	})
	mux.HandleFunc("/centroids.json", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(bundle.Model)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server, URLs{
		FeatureNames: server.URL + "/feature_names.txt",
		ScalerParams: server.URL + "/scaler_params.json",
		Centroids:    server.URL + "/centroids.json",
	}
}

func TestLoadFromURLs_Success(t *testing.T) {
	_, urls := newArtifactServer(t)
	client := commonhttp.NewClient(5 * time.Second)

	bundle, err := LoadFromURLs(context.Background(), client, urls, testRatioFeatures())

	require.NoError(t, err)
	require.NotNil(t, bundle)
	assert.Equal(t, 4, bundle.Model.NClusters)
	assert.Equal(t, testFeatureNames(), bundle.Schema.Names)
}

func TestLoadFromURLs_FetchFailureIsRetryable(t *testing.T) {
	server, urls := newArtifactServer(t)
	urls.Centroids = server.URL + "/missing.json"
	client := commonhttp.NewClient(5 * time.Second)

	bundle, err := LoadFromURLs(context.Background(), client, urls, testRatioFeatures())

	assert.Nil(t, bundle)
	require.Error(t, err)
	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeArtifactFetchError, stdErr.Code)
	assert.True(t, stdErr.Retryable, "transient fetch failures should be retried")
}
