package production

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/chartpath/internal/core"
	"github.com/comalice/chartpath/internal/primitives"
)

// runRegistryContract exercises the behaviour every core.Registry must share.
func runRegistryContract(t *testing.T, reg core.Registry) {
	t.Helper()
	ctx := context.Background()

	first := doorConfig()
	second := doorConfig()
	second.Root.AddChild(primitives.NewStateConfig("ajar"))

	v1, err := reg.Register(ctx, "door", first)
	require.NoError(t, err)
	assert.Equal(t, primitives.ComputeVersion(first), v1)

	again, err := reg.Register(ctx, "door", doorConfig())
	require.NoError(t, err)
	assert.Equal(t, v1, again, "identical content keeps its version")

	v2, err := reg.Register(ctx, "door", second)
	require.NoError(t, err)
	assert.NotEqual(t, v1, v2)

	latest, err := reg.Latest(ctx, "door")
	require.NoError(t, err)
	assert.Equal(t, "door", latest.Name)
	assert.Equal(t, v2, latest.Version)
	assert.Equal(t, second, latest.Config)
	assert.False(t, latest.Timestamp.IsZero())

	old, err := reg.Version(ctx, "door", v1)
	require.NoError(t, err)
	assert.Equal(t, first, old.Config)

	versions, err := reg.ListVersions(ctx, "door")
	require.NoError(t, err)
	assert.Equal(t, []string{v2, v1}, versions)

	_, err = reg.Register(ctx, "bell", first)
	require.NoError(t, err)
	names, err := reg.ListCharts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"bell", "door"}, names)

	_, err = reg.Latest(ctx, "nope")
	assert.ErrorIs(t, err, core.ErrChartNotFound)
	_, err = reg.Version(ctx, "door", "0000")
	assert.ErrorIs(t, err, core.ErrChartNotFound)
	_, err = reg.ListVersions(ctx, "nope")
	assert.ErrorIs(t, err, core.ErrChartNotFound)

	_, err = reg.Register(ctx, "broken", &primitives.ChartConfig{Owner: "x"})
	assert.Error(t, err)
	_, err = reg.Register(ctx, "", first)
	assert.Error(t, err)
	_, err = reg.Register(ctx, "nil", nil)
	assert.Error(t, err)
}
