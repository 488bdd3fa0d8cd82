package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/starosca/pool-indexer/internal/logger"
	"github.com/starosca/pool-indexer/pkg/api/docs"
	"github.com/starosca/pool-indexer/pkg/config"
	"github.com/starosca/pool-indexer/pkg/store"
)

// Ensure docs are initialized
var _ = docs.SwaggerInfo

const shutdownCtxTimeout = 10 * time.Second

// Server represents the API HTTP server.
type Server struct {
	config  *config.APIConfig
	handler http.Handler
	server  *http.Server
	log     *logger.Logger
}

// NewServer creates a new API server.
func NewServer(cfg *config.APIConfig, reader store.Reader, log *logger.Logger) *Server {
	handler := NewHandler(reader, log)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.Health)

	// Pools
	mux.HandleFunc("GET /api/pools", handler.ListPools)
	mux.HandleFunc("GET /api/pools/{address}", handler.GetPool)
	mux.HandleFunc("GET /api/pools/{address}/participants", handler.ListParticipants)
	mux.HandleFunc("GET /api/pools/{address}/payments", handler.ListPayments)
	mux.HandleFunc("GET /api/pools/{address}/drawings", handler.ListDrawings)
	mux.HandleFunc("GET /api/user/{address}/pools", handler.ListUserPools)

	// Yields
	mux.HandleFunc("GET /api/yields/snapshots", handler.ListYieldSnapshots)
	mux.HandleFunc("GET /api/yields/latest", handler.LatestYieldSnapshot)

	mux.HandleFunc("GET /api/indexer/status", handler.IndexerStatus)

	mux.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
	))

	var h http.Handler = mux
	h = RecoveryMiddleware(log)(h)
	h = LoggingMiddleware(log)(h)
	h = CORSMiddleware(cfg.CORSOrigins)(h)

	httpServer := &http.Server{
		Addr:         cfg.ListenAddress,
		Handler:      h,
		ReadTimeout:  cfg.ReadTimeout.Duration,
		WriteTimeout: cfg.WriteTimeout.Duration,
	}

	return &Server{
		config:  cfg,
		handler: h,
		server:  httpServer,
		log:     log,
	}
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves the API until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	if !s.config.Enabled {
		s.log.Info("API server is disabled")
		return nil
	}

	listener, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.ListenAddress, err)
	}

	s.log.Infof("Starting API server on %s", listener.Addr())

	serveErr := make(chan error, 1)
	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("API server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownCtxTimeout)
	defer cancel()

	s.log.Info("Shutting down API server...")
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("API server shutdown error: %w", err)
	}

	s.log.Info("API server stopped")
	return nil
}
