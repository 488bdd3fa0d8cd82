package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/starosca/pool-indexer/internal/common"
	"github.com/starosca/pool-indexer/internal/config"
	"github.com/starosca/pool-indexer/internal/indexer"
	"github.com/starosca/pool-indexer/internal/logger"
	"github.com/starosca/pool-indexer/internal/metrics"
	"github.com/starosca/pool-indexer/internal/rpc"
	"github.com/starosca/pool-indexer/internal/store"
	"github.com/starosca/pool-indexer/pkg/api"
	pkgconfig "github.com/starosca/pool-indexer/pkg/config"
)

const (
	version = "1.0.0"
	banner  = `
╔═══════════════════════════════════════════╗
║       Starosca Pool Indexer v%s        ║
║   Savings pool chain event indexer        ║
╚═══════════════════════════════════════════╝
`
	shutdownTimeout = 10 * time.Second
)

var (
	configPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "indexer",
	Short: "Starosca pool indexer",
	Long: `Indexes savings pool events emitted by the Starosca factory and its pools
into a local SQLite database and serves them through a read-only JSON API.`,
	Version:      version,
	SilenceUsage: true,
	RunE:         runIndexer,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the indexing progress stored in the database",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.LoadFromFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		st, err := store.OpenReadOnly(cfg.DB, logger.NewNopLogger())
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer st.Close()

		status, err := st.Status(cmd.Context())
		if err != nil {
			return err
		}

		return printJSON(cmd, status)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.LoadFromFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		log := rootLogger(cfg)
		st, err := store.Open(cfg.DB, nil, log)
		if err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}

		log.Infof("database %s is up to date", cfg.DB.Path)
		return st.Close()
	},
}

var configSchemaCmd = &cobra.Command{
	Use:   "config-schema",
	Short: "Print the JSON schema of the configuration file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		reflector := &jsonschema.Reflector{
			FieldNameTag:   "json",
			DoNotReference: true,
		}

		return printJSON(cmd, reflector.Reflect(&pkgconfig.Config{}))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to configuration file")
	rootCmd.AddCommand(statusCmd, migrateCmd, configSchemaCmd)
}

func printJSON(cmd *cobra.Command, v any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func rootLogger(cfg *pkgconfig.Config) *logger.Logger {
	log, err := logger.NewLogger(cfg.Logging.GetDefaultLevel(), cfg.Logging.IsDevelopment())
	if err != nil {
		return logger.GetDefaultLogger()
	}

	logger.SetDefaultLogger(log)
	return log
}

func runIndexer(cmd *cobra.Command, _ []string) error {
	fmt.Printf(banner, version)

	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log := rootLogger(cfg)
	defer func() { _ = log.Sync() }()

	st, err := store.Open(cfg.DB, cfg.Maintenance, log)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Warnf("failed to close store: %v", err)
		}
	}()

	if err := st.SeedCursor(ctx, cfg.Indexer.StartBlock); err != nil {
		return fmt.Errorf("failed to seed cursor: %w", err)
	}

	if err := st.Maintenance().Start(ctx); err != nil {
		return fmt.Errorf("failed to start database maintenance: %w", err)
	}

	log.Infof("connecting to %s", cfg.Indexer.RPCURL)
	chain, err := rpc.NewClient(ctx, cfg.Indexer,
		logger.NewComponentLoggerFromConfig(common.ComponentChainReader, cfg.Logging))
	if err != nil {
		return fmt.Errorf("failed to create RPC client: %w", err)
	}
	defer chain.Close()

	idx, err := indexer.New(cfg.Indexer, chain, st,
		logger.NewComponentLoggerFromConfig(common.ComponentIndexer, cfg.Logging))
	if err != nil {
		return fmt.Errorf("failed to create indexer: %w", err)
	}

	metricsServer := metrics.NewServer(cfg.Metrics, log)
	if err := metricsServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start metrics server: %w", err)
	}
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer stopCancel()

		if err := metricsServer.Stop(stopCtx); err != nil {
			log.Warnf("failed to stop metrics server: %v", err)
		}
	}()

	g, gctx := errgroup.WithContext(ctx)

	if cfg.API != nil && cfg.API.Enabled {
		apiServer := api.NewServer(cfg.API, st,
			logger.NewComponentLoggerFromConfig(common.ComponentAPI, cfg.Logging))
		g.Go(func() error {
			return apiServer.Start(gctx)
		})
	}

	if err := idx.Start(gctx); err != nil {
		return fmt.Errorf("failed to start indexer: %w", err)
	}

	g.Go(func() error {
		<-idx.Done()
		return nil
	})

	log.Info("indexer running, press Ctrl+C to stop")

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		idx.Stop()
		<-idx.Done()
		return err
	}

	log.Info("indexer stopped")
	return nil
}
