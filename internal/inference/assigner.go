// internal/inference/assigner.go
package inference

import (
	"math"

	"clustering-service/internal/artifact"
)

// Assigner finds the nearest centroid for a normalized point.
type Assigner struct {
	centroids [][]float64
}

func NewAssigner(model artifact.CentroidModel) *Assigner {
	return &Assigner{
		centroids: model.Centroids,
	}
}

// Assign returns the index of the nearest centroid by Euclidean distance,
// plus the distance itself. The scan is seeded with centroid 0 (bundle
// validation guarantees at least one) and compares squared distances with a
// strict less-than, so equidistant centroids resolve to the lowest cluster
// id. Seeding with a real centroid keeps the result a known cluster even
// when every squared distance overflows to +Inf.
func (a *Assigner) Assign(point []float64) (int, float64) {
	best, bestDistSquared := 0, squaredDistance(point, a.centroids[0])
	for i := 1; i < len(a.centroids); i++ {
		if d := squaredDistance(point, a.centroids[i]); d < bestDistSquared {
			best, bestDistSquared = i, d
		}
	}
	return best, math.Sqrt(bestDistSquared)
}

func squaredDistance(a, b []float64) float64 {
	var sum float64
	for j := range a {
		d := a[j] - b[j]
		sum += d * d
	}
	return sum
}

// Confidence maps a centroid distance to (0, 1]: 1 / (1 + distance).
// It equals 1 exactly on the centroid and decreases monotonically.
func Confidence(distance float64) float64 {
	return 1 / (1 + distance)
}
