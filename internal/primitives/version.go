// Package primitives provides versioning utilities for ChartConfig.
package primitives

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
)

// ComputeVersion computes a deterministic version for a chart document.
// Priority: user-provided config.Version, else SHA256(config JSON)[:8].
func ComputeVersion(config *ChartConfig) string {
	if config.Version != "" {
		return config.Version
	}

	data, err := json.Marshal(config)
	if err != nil {
		// ChartConfig holds only strings, slices and pointers; Marshal cannot fail.
		return "invalid"
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash[:8])
}
