// internal/inference/normalizer.go
package inference

import "clustering-service/internal/artifact"

// Normalizer applies the standard scaling transform (x - mean) / scale,
// element-wise against the training-time parameters.
type Normalizer struct {
	mean  []float64
	scale []float64
}

func NewNormalizer(params artifact.NormalizationParams) *Normalizer {
	return &Normalizer{
		mean:  params.Mean,
		scale: params.Scale,
	}
}

// Normalize returns a scaled copy of vector. A zero scale entry marks a
// constant training feature; its normalized value is 0, never a division by
// zero. The input slice is not modified.
func (n *Normalizer) Normalize(vector []float64) []float64 {
	out := make([]float64, len(vector))
	for j, x := range vector {
		if n.scale[j] == 0 {
			out[j] = 0
			continue
		}
		out[j] = (x - n.mean[j]) / n.scale[j]
	}
	return out
}
