package primitives

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeVersion(t *testing.T) {
	cfg := &ChartConfig{Owner: "door", Root: NewStateConfig("root").AddChild(NewStateConfig("closed"))}

	v1 := ComputeVersion(cfg)
	v2 := ComputeVersion(cfg)
	assert.Equal(t, v1, v2, "version must be deterministic")
	assert.Len(t, v1, 16)

	cfg.Root.AddChild(NewStateConfig("opened"))
	assert.NotEqual(t, v1, ComputeVersion(cfg), "content change must change the version")

	cfg.Version = "v2"
	assert.Equal(t, "v2", ComputeVersion(cfg))
}
