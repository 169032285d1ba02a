// internal/inference/config.go
package inference

// DefaultMaxBatchSize bounds batch requests when no limit is configured.
const DefaultMaxBatchSize = 100

type Config struct {
	MaxBatchSize int
}

func LoadConfig() *Config {
	return &Config{
		MaxBatchSize: DefaultMaxBatchSize,
	}
}
