// Package artifact loads and validates the pre-trained model artifact: the
// feature schema, the normalization parameters, and the cluster centroids.
// A Bundle is assembled once at startup and shared read-only afterwards.
package artifact

import (
	"fmt"

	"clustering-service/internal/common/errors"
)

// FeatureSchema is the ordered list of feature names the model was trained
// on. Ratio names a subset of features bounded to the closed interval [0, 1].
type FeatureSchema struct {
	Names []string `json:"names"`
	Ratio []string `json:"ratio,omitempty"`
}

// Count returns the number of features.
func (s FeatureSchema) Count() int {
	return len(s.Names)
}

// IsRatio reports whether the named feature is bounded to [0, 1].
func (s FeatureSchema) IsRatio(name string) bool {
	for _, r := range s.Ratio {
		if r == name {
			return true
		}
	}
	return false
}

// NormalizationParams mirrors scaler_params.json as exported by the training
// pipeline. Mean and Scale are aligned to the schema order.
type NormalizationParams struct {
	Mean         []float64 `json:"mean"`
	Scale        []float64 `json:"scale"`
	Var          []float64 `json:"var,omitempty"`
	NFeaturesIn  int       `json:"n_features_in"`
	FeatureNames []string  `json:"feature_names,omitempty"`
}

// CentroidModel mirrors centroids.json. Centroids live in normalized feature
// space; Inertia and NIter are training metadata surfaced by the info endpoint.
type CentroidModel struct {
	NClusters int         `json:"n_clusters"`
	Centroids [][]float64 `json:"centroids"`
	Inertia   float64     `json:"inertia"`
	NIter     int         `json:"n_iter"`
}

// Bundle aggregates the three artifact documents. After a successful load it
// is never mutated; every request reads the same instance.
type Bundle struct {
	Schema FeatureSchema
	Params NormalizationParams
	Model  CentroidModel
}

// Validate fail-closes on any inconsistency between the three documents.
// The service must refuse to start when this returns an error: serving with
// mismatched dimensions would silently produce garbage assignments.
func (b *Bundle) Validate() error {
	n := b.Schema.Count()
	if n == 0 {
		return errors.NewArtifactLoadError("feature schema is empty")
	}

	seen := make(map[string]bool, n)
	for i, name := range b.Schema.Names {
		if name == "" {
			return errors.NewArtifactLoadError(fmt.Sprintf("feature name at position %d is empty", i))
		}
		if seen[name] {
			return errors.NewArtifactLoadError(fmt.Sprintf("duplicate feature name: %s", name))
		}
		seen[name] = true
	}

	for _, name := range b.Schema.Ratio {
		if !seen[name] {
			return errors.NewArtifactLoadError(fmt.Sprintf("ratio feature %q is not in the feature schema", name))
		}
	}

	if len(b.Params.Mean) != n {
		return errors.NewArtifactLoadError(fmt.Sprintf(
			"scaler mean has %d entries, schema has %d features", len(b.Params.Mean), n))
	}
	if len(b.Params.Scale) != n {
		return errors.NewArtifactLoadError(fmt.Sprintf(
			"scaler scale has %d entries, schema has %d features", len(b.Params.Scale), n))
	}
	if len(b.Params.Var) > 0 && len(b.Params.Var) != n {
		return errors.NewArtifactLoadError(fmt.Sprintf(
			"scaler var has %d entries, schema has %d features", len(b.Params.Var), n))
	}
	if b.Params.NFeaturesIn != 0 && b.Params.NFeaturesIn != n {
		return errors.NewArtifactLoadError(fmt.Sprintf(
			"scaler n_features_in is %d, schema has %d features", b.Params.NFeaturesIn, n))
	}
	if len(b.Params.FeatureNames) > 0 {
		if len(b.Params.FeatureNames) != n {
			return errors.NewArtifactLoadError(fmt.Sprintf(
				"scaler feature_names has %d entries, schema has %d features", len(b.Params.FeatureNames), n))
		}
		for i, name := range b.Params.FeatureNames {
			if name != b.Schema.Names[i] {
				return errors.NewArtifactLoadError(fmt.Sprintf(
					"scaler feature_names[%d] is %q, schema has %q", i, name, b.Schema.Names[i]))
			}
		}
	}

	if b.Model.NClusters < 1 {
		return errors.NewArtifactLoadError(fmt.Sprintf("n_clusters must be at least 1, got %d", b.Model.NClusters))
	}
	if len(b.Model.Centroids) != b.Model.NClusters {
		return errors.NewArtifactLoadError(fmt.Sprintf(
			"model declares %d clusters but has %d centroids", b.Model.NClusters, len(b.Model.Centroids)))
	}
	for i, centroid := range b.Model.Centroids {
		if len(centroid) != n {
			return errors.NewArtifactLoadError(fmt.Sprintf(
				"centroid %d has %d dimensions, schema has %d features", i, len(centroid), n))
		}
	}

	return nil
}
