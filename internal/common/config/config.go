// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Server        ServerConfig        `mapstructure:"server"`
	Model         ModelConfig         `mapstructure:"model"`
	Engine        EngineConfig        `mapstructure:"engine"`
	HTTP          HTTPConfig          `mapstructure:"http"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

// Addr returns the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ModelConfig describes where the model artifact comes from and which
// features are ratio-bounded.
type ModelConfig struct {
	Name          string             `mapstructure:"name"`
	Dir           string             `mapstructure:"dir"`
	URLs          ArtifactURLsConfig `mapstructure:"urls"`
	RatioFeatures []string           `mapstructure:"ratio_features"`
	FetchTimeout  int                `mapstructure:"fetch_timeout"` // milliseconds
}

// ArtifactURLsConfig holds blob storage URLs for the three artifact documents.
// When all three are set they take precedence over the local directory.
type ArtifactURLsConfig struct {
	FeatureNames string `mapstructure:"feature_names"`
	ScalerParams string `mapstructure:"scaler_params"`
	Centroids    string `mapstructure:"centroids"`
}

// Complete reports whether every artifact URL is configured.
func (u ArtifactURLsConfig) Complete() bool {
	return u.FeatureNames != "" && u.ScalerParams != "" && u.Centroids != ""
}

// EngineConfig holds inference engine settings.
type EngineConfig struct {
	MaxBatchSize int `mapstructure:"max_batch_size"`
}

// HTTPConfig holds HTTP middleware settings.
type HTTPConfig struct {
	CORSEnabled bool `mapstructure:"cors_enabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// ObservabilityConfig holds metrics and tracing settings.
type ObservabilityConfig struct {
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`
	TracingEnabled bool   `mapstructure:"tracing_enabled"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
}
