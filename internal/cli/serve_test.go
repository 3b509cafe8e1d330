package cli

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/chartpath/internal/logging"
	"github.com/comalice/chartpath/internal/primitives"
	"github.com/comalice/chartpath/internal/production"
)

func TestOpenRegistryMemory(t *testing.T) {
	reg, closeFn := openRegistry(&ServeOptions{})
	defer func() { require.NoError(t, closeFn()) }()
	assert.IsType(t, &production.MemoryRegistry{}, reg)
}

func TestOpenRegistryRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	reg, closeFn := openRegistry(&ServeOptions{RedisAddr: mr.Addr(), Prefix: "test:"})
	defer func() { require.NoError(t, closeFn()) }()
	require.IsType(t, &production.RedisRegistry{}, reg)

	require.NoError(t, preload(context.Background(), reg, playerChart, "", logging.NewNop()))
	assert.True(t, mr.Exists("test:index"))
}

func TestPreload(t *testing.T) {
	dir := t.TempDir()
	door := &primitives.ChartConfig{
		Owner: "door",
		Root: primitives.NewStateConfig("door").AddChild(
			primitives.NewStateConfig("closed").AddTransition("open", "opened"),
			primitives.NewStateConfig("opened").AddTransition("close", "closed"),
		),
	}
	require.NoError(t, production.SaveChartFile(filepath.Join(dir, "door.yaml"), door))

	reg := production.NewMemoryRegistry()
	ctx := context.Background()
	require.NoError(t, preload(ctx, reg, playerChart, dir, logging.NewNop()))

	names, err := reg.ListCharts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"door", "player"}, names)
}

func TestPreloadErrors(t *testing.T) {
	reg := production.NewMemoryRegistry()
	ctx := context.Background()

	assert.Error(t, preload(ctx, reg, "testdata/nope.yaml", "", logging.NewNop()))
	assert.Error(t, preload(ctx, reg, "", filepath.Join(t.TempDir(), "missing"), logging.NewNop()))
	assert.NoError(t, preload(ctx, reg, "", "", logging.NewNop()))
}

func TestNewHandler(t *testing.T) {
	reg := production.NewMemoryRegistry()
	require.NoError(t, preload(context.Background(), reg, playerChart, "", logging.NewNop()))

	handler, err := newHandler(reg, logging.NewNop())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/charts/player/leaf/active", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var leaf map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &leaf))
	assert.Equal(t, "playing", leaf["name"])

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestServeShutsDownOnCancel(t *testing.T) {
	reg := production.NewMemoryRegistry()
	handler, err := newHandler(reg, logging.NewNop())
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, ln, handler, logging.NewNop()) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/charts")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"charts":[]}`, string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("serve did not return after cancel")
	}
}
