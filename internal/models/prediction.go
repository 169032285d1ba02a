// internal/models/prediction.go
package models

import (
	"strconv"

	"clustering-service/internal/inference"
)

// BatchPredictionRequest is the /predict-batch body: an ordered list of
// feature records, classified together.
type BatchPredictionRequest struct {
	Records []inference.RawRecord `json:"records"`
}

// BatchPredictionResponse is the /predict-batch wire shape. Summary keys are
// stringified cluster ids, matching JSON object key semantics.
type BatchPredictionResponse struct {
	Total    int                   `json:"total"`
	Clusters []inference.BatchItem `json:"clusters"`
	Summary  map[string]int        `json:"summary"`
}

// NewBatchPredictionResponse converts an engine BatchResult to its wire shape.
func NewBatchPredictionResponse(result *inference.BatchResult) *BatchPredictionResponse {
	summary := make(map[string]int, len(result.Summary))
	for cluster, count := range result.Summary {
		summary[strconv.Itoa(cluster)] = count
	}

	return &BatchPredictionResponse{
		Total:    result.Total,
		Clusters: result.Items,
		Summary:  summary,
	}
}
