// Package core defines the Registry interface for storing versioned chart documents.
package core

import (
	"context"
	"errors"
	"time"

	"github.com/comalice/chartpath/internal/primitives"
)

// Registry stores chart documents under a name, versioned by content.
// Registering identical content again returns the existing version.
type Registry interface {
	// Register validates and stores cfg, returning its version.
	Register(ctx context.Context, name string, cfg *primitives.ChartConfig) (string, error)

	// Latest returns the most recently registered version of name.
	Latest(ctx context.Context, name string) (*ChartVersion, error)

	// Version returns a specific version of name.
	Version(ctx context.Context, name, version string) (*ChartVersion, error)

	// ListVersions returns versions of name, newest first.
	ListVersions(ctx context.Context, name string) ([]string, error)

	// ListCharts returns all chart names, sorted.
	ListCharts(ctx context.Context) ([]string, error)
}

var ErrChartNotFound = errors.New("chart or version not found")

// ChartVersion is a stored chart document.
type ChartVersion struct {
	Name      string                  `json:"name" yaml:"name"`
	Version   string                  `json:"version" yaml:"version"`
	Config    *primitives.ChartConfig `json:"config" yaml:"config"`
	Timestamp time.Time               `json:"timestamp" yaml:"timestamp"`
}
