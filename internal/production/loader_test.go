package production

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/chartpath/internal/primitives"
)

func doorConfig() *primitives.ChartConfig {
	return &primitives.ChartConfig{
		Owner: "door",
		Root: primitives.NewStateConfig("root").
			WithInitial("closed").
			AddTransition("error.*", "broken").
			AddChild(
				primitives.NewStateConfig("closed").AddEntry("lock").AddExit("unlock").AddTransition("open", "opened"),
				primitives.NewStateConfig("opened").AddTransition("close", "closed"),
				primitives.NewStateConfig("broken"),
			),
	}
}

func TestSaveLoadChartFile(t *testing.T) {
	for _, ext := range []string{".yaml", ".json"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "door"+ext)
			require.NoError(t, SaveChartFile(path, doorConfig()))

			loaded, err := LoadChartFile(path)
			require.NoError(t, err)
			assert.Equal(t, doorConfig(), loaded)
		})
	}
}

func TestLoadChartFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadChartFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("root:\n  name: r\n"), 0o644))
	_, err = LoadChartFile(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "owner is required")
}

func TestSaveChartFileRejectsInvalid(t *testing.T) {
	err := SaveChartFile(filepath.Join(t.TempDir(), "x.yaml"), &primitives.ChartConfig{})
	assert.Error(t, err)
}

func TestLoadChartDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, SaveChartFile(filepath.Join(dir, "door.yaml"), doorConfig()))
	require.NoError(t, SaveChartFile(filepath.Join(dir, "gate.json"), doorConfig()))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.yaml"), 0o755))

	charts, err := LoadChartDir(dir)
	require.NoError(t, err)
	assert.Len(t, charts, 2)
	assert.Contains(t, charts, "door")
	assert.Contains(t, charts, "gate")

	require.NoError(t, SaveChartFile(filepath.Join(dir, "door.json"), doorConfig()))
	_, err = LoadChartDir(dir)
	assert.ErrorContains(t, err, "defined twice")
}
