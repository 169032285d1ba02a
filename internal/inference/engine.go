// internal/inference/engine.go
package inference

import (
	"fmt"

	"clustering-service/internal/artifact"
	"clustering-service/internal/common/errors"
	"clustering-service/internal/common/logger"
)

// Engine runs the prediction pipeline: validate, normalize, assign, score.
// It holds the model bundle by reference and never mutates it, keeps no
// per-request state, and is safe for concurrent use.
type Engine struct {
	config     *Config
	bundle     *artifact.Bundle
	validator  *RecordValidator
	normalizer *Normalizer
	assigner   *Assigner
	logger     logger.Logger
}

func NewEngine(config *Config, bundle *artifact.Bundle, log logger.Logger) *Engine {
	if config == nil || config.MaxBatchSize < 1 {
		config = LoadConfig()
	}
	return &Engine{
		config:     config,
		bundle:     bundle,
		validator:  NewRecordValidator(bundle.Schema),
		normalizer: NewNormalizer(bundle.Params),
		assigner:   NewAssigner(bundle.Model),
		logger:     log.WithFields(map[string]interface{}{"component": "inference-engine"}),
	}
}

// Bundle returns the model bundle the engine serves. Callers must treat it
// as read-only.
func (e *Engine) Bundle() *artifact.Bundle {
	return e.bundle
}

// MaxBatchSize returns the configured batch bound.
func (e *Engine) MaxBatchSize() int {
	return e.config.MaxBatchSize
}

// Predict runs one record through the pipeline. Identical inputs always
// produce identical assignments.
func (e *Engine) Predict(record RawRecord) (*Assignment, error) {
	vector, err := e.validator.Validate(record)
	if err != nil {
		return nil, err
	}

	cluster, distance := e.assigner.Assign(e.normalizer.Normalize(vector))

	assignment := &Assignment{
		Cluster:     cluster,
		ClusterName: ClusterName(cluster),
		Confidence:  Confidence(distance),
		Description: ClusterDescription(cluster),
	}

	e.logger.Debug("record assigned", map[string]interface{}{
		"cluster":    cluster,
		"distance":   distance,
		"confidence": assignment.Confidence,
	})

	return assignment, nil
}

// PredictBatch processes records in request order. The size bound is checked
// before any per-record work, and the first invalid record aborts the whole
// batch with its zero-based index attached to the error.
func (e *Engine) PredictBatch(records []RawRecord) (*BatchResult, error) {
	if len(records) < 1 || len(records) > e.config.MaxBatchSize {
		return nil, errors.NewBatchSizeError(len(records), 1, e.config.MaxBatchSize)
	}

	result := &BatchResult{
		Total:   len(records),
		Items:   make([]BatchItem, 0, len(records)),
		Summary: make(map[int]int, e.bundle.Model.NClusters),
	}
	for cluster := 0; cluster < e.bundle.Model.NClusters; cluster++ {
		result.Summary[cluster] = 0
	}

	for i, record := range records {
		vector, err := e.validator.Validate(record)
		if err != nil {
			return nil, annotateRecordIndex(err, i)
		}

		cluster, _ := e.assigner.Assign(e.normalizer.Normalize(vector))
		result.Items = append(result.Items, BatchItem{Index: i, Cluster: cluster})
		result.Summary[cluster]++
	}

	e.logger.Info("batch processed", map[string]interface{}{
		"total":   result.Total,
		"summary": result.Summary,
	})

	return result, nil
}

// annotateRecordIndex attaches the failing record's position to a validation
// error so batch callers can point at the exact input.
func annotateRecordIndex(err error, index int) error {
	stdErr, ok := err.(*errors.StandardError)
	if !ok {
		return err
	}
	if stdErr.Metadata == nil {
		stdErr.Metadata = map[string]interface{}{}
	}
	stdErr.Metadata["recordIndex"] = index
	stdErr.Details = fmt.Sprintf("record %d: %s", index, stdErr.Details)
	return stdErr
}
