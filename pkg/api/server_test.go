package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/starosca/pool-indexer/internal/common"
	"github.com/starosca/pool-indexer/internal/logger"
	"github.com/starosca/pool-indexer/internal/testutil"
	"github.com/starosca/pool-indexer/pkg/config"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Parallel()

	cfg := &config.APIConfig{
		Enabled:       true,
		ListenAddress: "localhost:8080",
		ReadTimeout:   common.Duration{Duration: 5 * time.Second},
		WriteTimeout:  common.Duration{Duration: 15 * time.Second},
	}

	server := NewServer(cfg, testutil.NewTestStore(t), logger.NewNopLogger())

	require.NotNil(t, server.Handler())
	require.Equal(t, "localhost:8080", server.server.Addr)
	require.Equal(t, 5*time.Second, server.server.ReadTimeout)
	require.Equal(t, 15*time.Second, server.server.WriteTimeout)
}

func TestServer_StartDisabled(t *testing.T) {
	t.Parallel()

	cfg := &config.APIConfig{Enabled: false}
	cfg.ApplyDefaults()

	server := NewServer(cfg, testutil.NewTestStore(t), logger.NewNopLogger())

	require.NoError(t, server.Start(context.Background()))
}

func TestServer_StartAndShutdown(t *testing.T) {
	t.Parallel()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	cfg := &config.APIConfig{Enabled: true, ListenAddress: addr}
	cfg.ApplyDefaults()

	server := NewServer(cfg, testutil.NewTestStore(t), logger.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(ctx)
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("http://%s/health", addr)) //nolint:noctx
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServer_StartListenError(t *testing.T) {
	t.Parallel()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = listener.Close() })

	cfg := &config.APIConfig{Enabled: true, ListenAddress: listener.Addr().String()}
	cfg.ApplyDefaults()

	server := NewServer(cfg, testutil.NewTestStore(t), logger.NewNopLogger())

	require.Error(t, server.Start(context.Background()))
}

func TestServer_Routes(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)

	tests := []struct {
		method string
		target string
		status int
	}{
		{method: http.MethodGet, target: "/swagger/doc.json", status: http.StatusOK},
		{method: http.MethodPost, target: "/api/pools", status: http.StatusMethodNotAllowed},
		{method: http.MethodGet, target: "/api/unknown", status: http.StatusNotFound},
		{method: http.MethodOptions, target: "/api/pools", status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(tt.method, tt.target, nil))
			require.Equal(t, tt.status, w.Code)
		})
	}
}
