package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/starosca/pool-indexer/internal/logger"
	"github.com/starosca/pool-indexer/pkg/config"
	"github.com/stretchr/testify/require"
)

func TestServer_Handler(t *testing.T) {
	cfg := &config.MetricsConfig{Enabled: true}
	cfg.ApplyDefaults()

	LastIndexedBlockSet(1000)
	PollCycleLog(CycleAdvanced, 250*time.Millisecond)
	EventIndexedInc("PoolCreated")

	srv := httptest.NewServer(NewServer(cfg, logger.NewNopLogger()).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + cfg.Path)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), "starosca_last_indexed_block 1000")
	require.Contains(t, string(body), `starosca_poll_cycles_total{outcome="advanced"}`)
	require.Contains(t, string(body), `starosca_events_indexed_total{event="PoolCreated"}`)

	health, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer health.Body.Close()
	require.Equal(t, http.StatusOK, health.StatusCode)
}

func TestServer_StartStop(t *testing.T) {
	t.Run("disabled is a no-op", func(t *testing.T) {
		s := NewServer(&config.MetricsConfig{Enabled: false}, logger.NewNopLogger())
		require.NoError(t, s.Start(context.Background()))
		require.NoError(t, s.Stop(context.Background()))
	})

	t.Run("enabled", func(t *testing.T) {
		cfg := &config.MetricsConfig{Enabled: true, ListenAddress: "127.0.0.1:0"}
		cfg.ApplyDefaults()

		s := NewServer(cfg, logger.NewNopLogger())
		require.NoError(t, s.Start(context.Background()))

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, s.Stop(ctx))
	})
}
