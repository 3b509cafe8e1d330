package production

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/comalice/chartpath/internal/primitives"
)

// LoadChartFile reads and validates a chart document. YAML and JSON are both accepted.
func LoadChartFile(path string) (*primitives.ChartConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("chart file %q: %w", path, os.ErrNotExist)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	cfg, err := primitives.ParseChartConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// SaveChartFile writes cfg to path. A .json extension selects JSON, anything else YAML.
func SaveChartFile(path string, cfg *primitives.ChartConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid chart: %w", err)
	}

	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("json marshal: %w", err)
		}
	} else {
		data, err = yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("yaml marshal: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// LoadChartDir loads every .yaml, .yml and .json document in dir, keyed by file name
// without extension.
func LoadChartDir(dir string) (map[string]*primitives.ChartConfig, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !isChartFile(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	charts := make(map[string]*primitives.ChartConfig, len(names))
	for _, name := range names {
		key := strings.TrimSuffix(name, filepath.Ext(name))
		if _, dup := charts[key]; dup {
			return nil, fmt.Errorf("chart %q defined twice in %s", key, dir)
		}
		cfg, err := LoadChartFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		charts[key] = cfg
	}
	return charts, nil
}

func isChartFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}
