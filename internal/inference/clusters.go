// internal/inference/clusters.go
package inference

import "fmt"

// Development tier labels for the trained 4-cluster model. Labels and
// descriptions are model data and stay in Spanish.
type clusterTier struct {
	name        string
	description string
}

var clusterTiers = map[int]clusterTier{
	0: {"Desarrollo Alto 🟢", "Departamento con indicadores socioeconómicos altos"},
	1: {"Desarrollo Medio-Alto 🔵", "Departamento con indicadores socioeconómicos medio-altos"},
	2: {"Desarrollo Medio-Bajo 🟠", "Departamento con indicadores socioeconómicos medio-bajos"},
	3: {"Desarrollo Bajo 🔴", "Departamento con indicadores socioeconómicos bajos"},
}

// ClusterName returns the tier label for a cluster id. Ids outside the tier
// table get a generic label so retrained models with more clusters still serve.
func ClusterName(cluster int) string {
	if tier, ok := clusterTiers[cluster]; ok {
		return tier.name
	}
	return fmt.Sprintf("Cluster %d", cluster)
}

// ClusterDescription returns the tier description for a cluster id.
func ClusterDescription(cluster int) string {
	if tier, ok := clusterTiers[cluster]; ok {
		return tier.description
	}
	return fmt.Sprintf("Departamento asignado al cluster %d", cluster)
}
