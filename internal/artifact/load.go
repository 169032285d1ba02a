// internal/artifact/load.go
package artifact

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"clustering-service/internal/common/errors"
	commonhttp "clustering-service/internal/common/http"
)

// Artifact document file names, as produced by the training export.
const (
	FeatureNamesFile = "feature_names.txt"
	ScalerParamsFile = "scaler_params.json"
	CentroidsFile    = "centroids.json"
)

// URLs holds blob storage locations for the three artifact documents.
type URLs struct {
	FeatureNames string
	ScalerParams string
	Centroids    string
}

// LoadFromDir reads the artifact documents from a local directory and
// assembles a validated Bundle. ratioFeatures names the schema subset bounded
// to [0, 1].
func LoadFromDir(dir string, ratioFeatures []string) (*Bundle, error) {
	namesRaw, err := os.ReadFile(filepath.Join(dir, FeatureNamesFile))
	if err != nil {
		return nil, errors.NewArtifactLoadError(fmt.Sprintf("read %s: %v", FeatureNamesFile, err))
	}
	paramsRaw, err := os.ReadFile(filepath.Join(dir, ScalerParamsFile))
	if err != nil {
		return nil, errors.NewArtifactLoadError(fmt.Sprintf("read %s: %v", ScalerParamsFile, err))
	}
	centroidsRaw, err := os.ReadFile(filepath.Join(dir, CentroidsFile))
	if err != nil {
		return nil, errors.NewArtifactLoadError(fmt.Sprintf("read %s: %v", CentroidsFile, err))
	}

	return assemble(namesRaw, paramsRaw, centroidsRaw, ratioFeatures)
}

// LoadFromURLs fetches the artifact documents from blob storage and assembles
// a validated Bundle. Fetch failures are retryable; content failures are not.
func LoadFromURLs(ctx context.Context, client *commonhttp.Client, urls URLs, ratioFeatures []string) (*Bundle, error) {
	namesRaw, err := client.GetBytes(ctx, urls.FeatureNames)
	if err != nil {
		return nil, errors.NewArtifactFetchError(urls.FeatureNames, err)
	}
	paramsRaw, err := client.GetBytes(ctx, urls.ScalerParams)
	if err != nil {
		return nil, errors.NewArtifactFetchError(urls.ScalerParams, err)
	}
	centroidsRaw, err := client.GetBytes(ctx, urls.Centroids)
	if err != nil {
		return nil, errors.NewArtifactFetchError(urls.Centroids, err)
	}

	return assemble(namesRaw, paramsRaw, centroidsRaw, ratioFeatures)
}

// assemble parses the three raw documents, checks their content shape, and
// runs the bundle consistency validation.
func assemble(namesRaw, paramsRaw, centroidsRaw []byte, ratioFeatures []string) (*Bundle, error) {
	names, err := parseFeatureNames(namesRaw)
	if err != nil {
		return nil, err
	}

	if err := validateDocument(ScalerParamsFile, paramsRaw, scalerParamsSchemaJSON); err != nil {
		return nil, err
	}
	var params NormalizationParams
	if err := json.Unmarshal(paramsRaw, &params); err != nil {
		return nil, errors.NewArtifactLoadError(fmt.Sprintf("parse %s: %v", ScalerParamsFile, err))
	}

	if err := validateDocument(CentroidsFile, centroidsRaw, centroidsSchemaJSON); err != nil {
		return nil, err
	}
	var model CentroidModel
	if err := json.Unmarshal(centroidsRaw, &model); err != nil {
		return nil, errors.NewArtifactLoadError(fmt.Sprintf("parse %s: %v", CentroidsFile, err))
	}

	bundle := &Bundle{
		Schema: FeatureSchema{Names: names, Ratio: ratioFeatures},
		Params: params,
		Model:  model,
	}
	if err := bundle.Validate(); err != nil {
		return nil, err
	}
	return bundle, nil
}

// parseFeatureNames parses feature_names.txt: a single line of
// comma-separated names. Whitespace around each name is trimmed.
func parseFeatureNames(raw []byte) ([]string, error) {
	content := strings.TrimSpace(string(raw))
	if content == "" {
		return nil, errors.NewArtifactLoadError(fmt.Sprintf("%s is empty", FeatureNamesFile))
	}

	parts := strings.Split(content, ",")
	names := make([]string, 0, len(parts))
	for i, part := range parts {
		name := strings.TrimSpace(part)
		if name == "" {
			return nil, errors.NewArtifactLoadError(fmt.Sprintf(
				"%s has an empty name at position %d", FeatureNamesFile, i))
		}
		names = append(names, name)
	}
	return names, nil
}
