// internal/models/service.go
package models

// HomeResponse is the GET / service banner.
type HomeResponse struct {
	Message   string            `json:"message"`
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Model     string            `json:"model"`
	Features  int               `json:"features"`
	Endpoints map[string]string `json:"endpoints"`
}

// HealthResponse is the GET /health body. Ready is always true once the
// process serves: startup fails closed when the artifact cannot be loaded.
type HealthResponse struct {
	Status string `json:"status"`
	Ready  bool   `json:"ready"`
}

// ReadyResponse is the GET /ready body.
type ReadyResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// ModelInfoResponse is the GET /info body: metadata of the loaded artifact.
type ModelInfoResponse struct {
	Model     string   `json:"model"`
	NClusters int      `json:"n_clusters"`
	Features  []string `json:"features"`
	NFeatures int      `json:"n_features"`
	NIter     int      `json:"n_iter"`
	Inertia   float64  `json:"inertia"`
}
