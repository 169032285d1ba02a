// cmd/tools/artifact-inspector/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"clustering-service/internal/artifact"
)

const defaultRatioFeatures = "tasa_ocupacion,tasa_pobreza,tasa_nbi"

func main() {
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	inspectCmd := flag.NewFlagSet("inspect", flag.ExitOnError)
	sampleCmd := flag.NewFlagSet("sample", flag.ExitOnError)

	// Validate command flags
	validateDir := validateCmd.String("dir", "artifacts", "Artifact directory")
	validateRatio := validateCmd.String("ratio", defaultRatioFeatures, "Comma-separated ratio feature names")

	// Inspect command flags
	inspectDir := inspectCmd.String("dir", "artifacts", "Artifact directory")
	inspectRatio := inspectCmd.String("ratio", defaultRatioFeatures, "Comma-separated ratio feature names")

	// Sample command flags
	sampleDir := sampleCmd.String("dir", "artifacts", "Directory to write the sample artifact to")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "validate":
		validateCmd.Parse(os.Args[2:])
		bundle, err := artifact.LoadFromDir(*validateDir, splitFeatures(*validateRatio))
		if err != nil {
			fmt.Printf("Artifact validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Artifact validation passed. %d features, %d clusters.\n",
			bundle.Schema.Count(), bundle.Model.NClusters)

	case "inspect":
		inspectCmd.Parse(os.Args[2:])
		err := inspectArtifact(*inspectDir, splitFeatures(*inspectRatio))
		if err != nil {
			fmt.Printf("Error inspecting artifact: %v\n", err)
			os.Exit(1)
		}

	case "sample":
		sampleCmd.Parse(os.Args[2:])
		err := writeSampleArtifact(*sampleDir)
		if err != nil {
			fmt.Printf("Error writing sample artifact: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Sample artifact written to %s\n", *sampleDir)

	case "help":
		fallthrough
	default:
		help()
	}
}

func inspectArtifact(dir string, ratioFeatures []string) error {
	bundle, err := artifact.LoadFromDir(dir, ratioFeatures)
	if err != nil {
		return err
	}

	fmt.Printf("Artifact: %s\n", dir)
	fmt.Printf("Features: %d\n", bundle.Schema.Count())
	for i, name := range bundle.Schema.Names {
		marker := ""
		if bundle.Schema.IsRatio(name) {
			marker = "  [0, 1]"
		}
		fmt.Printf("  %-16s mean=%-12.4f scale=%-12.4f%s\n",
			name, bundle.Params.Mean[i], bundle.Params.Scale[i], marker)
	}

	fmt.Printf("Clusters: %d (inertia=%.4f, n_iter=%d)\n",
		bundle.Model.NClusters, bundle.Model.Inertia, bundle.Model.NIter)
	for i, centroid := range bundle.Model.Centroids {
		fmt.Printf("  centroid %d: %v\n", i, centroid)
	}

	return nil
}

// writeSampleArtifact produces a consistent demo bundle for local development:
// the eight census features with plausible scaler statistics and four
// well-separated centroids in normalized space.
func writeSampleArtifact(dir string) error {
	names := []string{
		"ymophg_mean", "ymophg_median", "anosest_mean", "edad_mean",
		"totper_mean", "tasa_ocupacion", "tasa_pobreza", "tasa_nbi",
	}
	mean := []float64{8500.5, 7200.0, 6.8, 28.5, 4.2, 0.62, 0.48, 0.41}
	scale := []float64{3200.75, 2800.4, 2.1, 3.9, 0.8, 0.11, 0.16, 0.14}

	variance := make([]float64, len(scale))
	for i, s := range scale {
		variance[i] = s * s
	}

	params := artifact.NormalizationParams{
		Mean:         mean,
		Scale:        scale,
		Var:          variance,
		NFeaturesIn:  len(names),
		FeatureNames: names,
	}

	model := artifact.CentroidModel{
		NClusters: 4,
		Centroids: [][]float64{
			{1.4, 1.3, 1.2, 0.9, -0.6, 0.8, -1.1, -1.0},
			{0.5, 0.4, 0.5, 0.3, -0.2, 0.3, -0.4, -0.3},
			{-0.4, -0.3, -0.4, -0.2, 0.3, -0.3, 0.4, 0.3},
			{-1.3, -1.2, -1.4, -0.8, 0.7, -0.9, 1.2, 1.1},
		},
		Inertia: 37.8,
		NIter:   12,
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, artifact.FeatureNamesFile),
		[]byte(strings.Join(names, ",")+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", artifact.FeatureNamesFile, err)
	}

	paramsData, err := json.MarshalIndent(params, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal scaler params: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, artifact.ScalerParamsFile), paramsData, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", artifact.ScalerParamsFile, err)
	}

	modelData, err := json.MarshalIndent(model, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal centroids: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, artifact.CentroidsFile), modelData, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", artifact.CentroidsFile, err)
	}

	// Round-trip what we just wrote so a broken sample never ships.
	_, err = artifact.LoadFromDir(dir, splitFeatures(defaultRatioFeatures))
	return err
}

func splitFeatures(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func help() {
	fmt.Println(`
Usage: artifact-inspector <command> [flags]

Commands:
  validate Load an artifact directory and run the consistency checks
  inspect  Print the feature schema, scaler statistics, and centroids
  sample   Write a consistent demo artifact for local development
  help     Show this help message

Examples:
  artifact-inspector validate -dir artifacts
  artifact-inspector inspect -dir artifacts -ratio tasa_ocupacion,tasa_pobreza,tasa_nbi
  artifact-inspector sample -dir artifacts

Use 'artifact-inspector <command> -h' for more information about a command.`)
}
