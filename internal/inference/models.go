// internal/inference/models.go
package inference

// RawRecord is a prediction request record as received over the wire:
// feature name to JSON value. Values are validated before any math runs.
type RawRecord map[string]interface{}

// Assignment is the outcome of a single prediction: the winning cluster, its
// development tier label, and a confidence score in (0, 1].
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

// BatchResult summarizes a batch prediction. Items preserves request order;
// Summary covers every cluster id, zero-filled, and its counts sum to Total.
type BatchResult struct {
	Total   int
	Items   []BatchItem
	Summary map[int]int
}
