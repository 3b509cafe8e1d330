package production

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRegistry_Contract(t *testing.T) {
	runRegistryContract(t, NewMemoryRegistry())
}

func TestMemoryRegistry_ConcurrentRegister(t *testing.T) {
	reg := NewMemoryRegistry()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cfg := doorConfig()
			cfg.Version = fmt.Sprintf("v%d", i%5)
			_, err := reg.Register(ctx, "door", cfg)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	versions, err := reg.ListVersions(ctx, "door")
	require.NoError(t, err)
	assert.Len(t, versions, 5)
}

func TestMemoryRegistry_ExplicitVersion(t *testing.T) {
	reg := NewMemoryRegistry()
	cfg := doorConfig()
	cfg.Version = "2024.1"

	v, err := reg.Register(context.Background(), "door", cfg)
	require.NoError(t, err)
	assert.Equal(t, "2024.1", v)

	got, err := reg.Version(context.Background(), "door", "2024.1")
	require.NoError(t, err)
	assert.Equal(t, "door", got.Config.Owner)
}
