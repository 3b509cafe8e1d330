package production

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/comalice/chartpath/internal/core"
	"github.com/comalice/chartpath/internal/primitives"
)

// MemoryRegistry is an in-process core.Registry.
type MemoryRegistry struct {
	mu     sync.RWMutex
	charts map[string][]*core.ChartVersion // oldest first
}

var _ core.Registry = (*MemoryRegistry)(nil)

// NewMemoryRegistry creates an empty registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{charts: make(map[string][]*core.ChartVersion)}
}

func checkRegistration(name string, cfg *primitives.ChartConfig) error {
	if name == "" {
		return errors.New("chart name is required")
	}
	if cfg == nil {
		return errors.New("chart document is required")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid chart %q: %w", name, err)
	}
	return nil
}

func (r *MemoryRegistry) Register(ctx context.Context, name string, cfg *primitives.ChartConfig) (string, error) {
	if err := checkRegistration(name, cfg); err != nil {
		return "", err
	}
	version := primitives.ComputeVersion(cfg)

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cv := range r.charts[name] {
		if cv.Version == version {
			return version, nil
		}
	}
	r.charts[name] = append(r.charts[name], &core.ChartVersion{
		Name:      name,
		Version:   version,
		Config:    cfg,
		Timestamp: time.Now().UTC(),
	})
	return version, nil
}

func (r *MemoryRegistry) Latest(ctx context.Context, name string) (*core.ChartVersion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	versions := r.charts[name]
	if len(versions) == 0 {
		return nil, fmt.Errorf("chart %q: %w", name, core.ErrChartNotFound)
	}
	return versions[len(versions)-1], nil
}

func (r *MemoryRegistry) Version(ctx context.Context, name, version string) (*core.ChartVersion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, cv := range r.charts[name] {
		if cv.Version == version {
			return cv, nil
		}
	}
	return nil, fmt.Errorf("chart %q version %q: %w", name, version, core.ErrChartNotFound)
}

func (r *MemoryRegistry) ListVersions(ctx context.Context, name string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	versions := r.charts[name]
	if len(versions) == 0 {
		return nil, fmt.Errorf("chart %q: %w", name, core.ErrChartNotFound)
	}
	out := make([]string, len(versions))
	for i, cv := range versions {
		out[len(versions)-1-i] = cv.Version
	}
	return out, nil
}

func (r *MemoryRegistry) ListCharts(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.charts))
	for name := range r.charts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
