package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	"seabattle/internal/config"
	"seabattle/internal/hub"
	"seabattle/internal/metrics"
	"seabattle/internal/netx"
	"seabattle/internal/session"
	"seabattle/internal/telemetry"
	"seabattle/pkg/types"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var cfg types.ServerConfig
	envErr := config.ParseEnv(&cfg)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the game server",
		Long: `Run the game server.

Clients connect over WebSocket (and plain TCP when --tcp is set). Settings
are read from SEABATTLE_* environment variables; flags take precedence.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if envErr != nil {
				return envErr
			}
			return serve(cmd.Context(), cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	f.StringVar(&cfg.TCPAddr, "tcp", cfg.TCPAddr, "optional raw TCP listen address")
	f.StringVar(&cfg.WSPath, "ws-path", cfg.WSPath, "WebSocket endpoint path")
	f.StringVar(&cfg.MetricsPath, "metrics-path", cfg.MetricsPath, "Prometheus endpoint path")
	f.StringVar(&cfg.StaticDir, "static", cfg.StaticDir, "directory with a browser client to serve")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	f.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "text or json")
	f.DurationVar(&cfg.WriteTimeout, "write-timeout", cfg.WriteTimeout, "per-message write deadline")
	f.DurationVar(&cfg.ReadTimeout, "read-timeout", cfg.ReadTimeout, "idle WebSocket timeout (0 disables pings)")
	f.IntVar(&cfg.OutboxSize, "outbox", cfg.OutboxSize, "queued messages per connection before it is dropped")
	f.StringVar(&cfg.OTelEndpoint, "otel-endpoint", cfg.OTelEndpoint, "OTLP/HTTP trace endpoint URL")
	f.Int64Var(&cfg.Seed, "seed", cfg.Seed, "fleet placement seed (0 uses the clock)")

	return cmd
}

func serve(ctx context.Context, cfg types.ServerConfig) error {
	logger, err := newLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	shutdownTracing, err := telemetry.Setup(ctx, "seabattle", cfg.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("tracing shutdown", "error", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	router := hub.NewRouter(cfg.OutboxSize, logger)
	ctrl, err := session.New(router, session.Options{
		Logger:  logger,
		Metrics: metrics.New(reg),
		Tracer:  otel.Tracer("seabattle/session"),
		Rand:    rand.New(rand.NewSource(seed)),
	})
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}

	ws := netx.NewWebSocket(netx.WebSocketConfig{
		WriteTimeout: cfg.WriteTimeout,
		ReadTimeout:  cfg.ReadTimeout,
	}, logger)
	networks := []netx.Network{ws}
	if cfg.TCPAddr != "" {
		networks = append(networks, netx.NewTCP(cfg.TCPAddr, cfg.WriteTimeout, logger))
	}

	g, ctx := errgroup.WithContext(ctx)
	if err := hub.New(ctrl, router, logger, networks...).Start(ctx); err != nil {
		return fmt.Errorf("start networks: %w", err)
	}

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: hub.NewHTTPHandler(hub.HTTPConfig{
			WSPath:      cfg.WSPath,
			MetricsPath: cfg.MetricsPath,
			StaticDir:   cfg.StaticDir,
		}, ws, ctrl, reg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		return ctrl.Run(ctx)
	})
	g.Go(func() error {
		logger.Info("listening", "addr", cfg.Addr, "ws", cfg.WSPath, "tcp", cfg.TCPAddr, "seed", seed)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		for _, nw := range networks {
			_ = nw.Close()
		}
		return srv.Shutdown(sctx)
	})

	return g.Wait()
}
