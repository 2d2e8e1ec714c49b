package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/bizsearch/internal/config"
	logpkg "github.com/kailas-cloud/bizsearch/internal/logger"
	"github.com/kailas-cloud/bizsearch/internal/metrics"
	chiTransport "github.com/kailas-cloud/bizsearch/internal/transport/chi"
	"github.com/kailas-cloud/bizsearch/internal/transport/kafka"
	healthuc "github.com/kailas-cloud/bizsearch/internal/usecase/health"
	"github.com/kailas-cloud/bizsearch/internal/version"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the search gateway and the index admin API",
		Long: `Run the search gateway and the index admin API.

The gateway listens on http.port and proxies every request to
upstream.base_url, rewriting accelerated list requests on the way.
The admin API listens on http.admin_port and serves index writes,
searches, health and metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(ctx context.Context, opts *rootOptions) error {
	cfg := opts.cfg

	logger, err := logpkg.NewLogger(opts.env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting bizsearch",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", opts.env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Int("admin_port", cfg.HTTP.AdminPort),
		zap.String("index_driver", cfg.Index.Driver),
		zap.String("upstream", cfg.Upstream.BaseURL),
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	a, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(context.Background()); err != nil {
			logger.Error("Error closing index tables", zap.Error(err))
		}
	}()

	healthSvc := healthuc.New(a.registry, a.catalog)
	server := chiTransport.NewServer(a.index, healthSvc, logger)

	gateway, err := newGatewayRouter(cfg.Upstream.BaseURL, a.index, logger)
	if err != nil {
		return err
	}
	servers := []*http.Server{
		newHTTPServer(cfg.HTTP, cfg.HTTP.Port, gateway),
		newHTTPServer(cfg.HTTP, cfg.HTTP.AdminPort, newAdminRouter(cfg.Auth.APIKeys, server, logger)),
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(func() error {
			logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server %s: %w", srv.Addr, err)
			}
			return nil
		})
	}

	if cfg.Kafka.Enabled {
		consumer := kafka.NewConsumer(kafka.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			GroupID: cfg.Kafka.GroupID,
		}, kafka.NewChangeHandler(a.index), logger)
		g.Go(func() error {
			defer func() { _ = consumer.Close() }()
			return consumer.Run(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
		defer cancel()
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("Error during shutdown", zap.String("addr", srv.Addr), zap.Error(err))
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Server stopped gracefully")
	return nil
}

func newHTTPServer(cfg config.HTTPConfig, port int, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      h,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSec) * time.Second,
	}
}
