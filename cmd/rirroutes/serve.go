package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TomasB/rirroutes/internal/config"
	"github.com/TomasB/rirroutes/internal/data"
	"github.com/TomasB/rirroutes/internal/handler/check"
	"github.com/TomasB/rirroutes/internal/handler/generate"
	grpchandler "github.com/TomasB/rirroutes/internal/handler/grpc"
	"github.com/TomasB/rirroutes/internal/handler/health"
	"github.com/TomasB/rirroutes/internal/metrics"
	"github.com/TomasB/rirroutes/internal/registry"
	"github.com/TomasB/rirroutes/internal/routes"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
)

func newServeCommand(loadConfig func() (config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and gRPC service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			setupLogging(os.Stdout, cfg.LogLevel)
			return serve(cfg)
		},
	}
}

func serve(cfg config.Config) error {
	slog.Info("service starting", "log_level", cfg.LogLevel.String())

	// Set Gin mode based on log level
	if cfg.LogLevel == slog.LevelDebug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	src, readyFn, closeSrc, err := openSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSrc()

	observed := registry.Observed(src, func(r registry.Registry, err error, d time.Duration) {
		m.ObserveFetch(r.String(), err, d)
	})
	gen := routes.NewGenerator(observed, m)

	// MaxMind MMDB is optional; it only enriches route checks.
	var lookup data.CountryLookup
	if cfg.MMDBPath != "" {
		reader, err := data.NewMmdbReader(cfg.MMDBPath)
		if err != nil {
			slog.Error("failed to open MMDB", "path", cfg.MMDBPath, "error", err)
			return err
		}
		defer reader.Close()
		lookup = reader
		slog.Info("MMDB loaded", "path", cfg.MMDBPath)
	}

	router := newRouter(cfg, gen, lookup, readyFn, m)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	errCh := make(chan error, 2)
	go func() {
		slog.Info("service started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	var grpcSrv *grpc.Server
	if cfg.GRPCPort != "" {
		lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
		if err != nil {
			return fmt.Errorf("failed to listen on gRPC port: %w", err)
		}
		grpcSrv = grpc.NewServer()
		grpchandler.RegisterRouteServiceServer(grpcSrv, grpchandler.NewHandler(timeoutGenerator{gen: gen, timeout: cfg.FetchTimeout}))
		go func() {
			slog.Info("gRPC service started", "port", cfg.GRPCPort)
			if err := grpcSrv.Serve(lis); err != nil {
				errCh <- fmt.Errorf("grpc server: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
	case err := <-errCh:
		slog.Error("server failed", "error", err)
		return err
	}

	slog.Info("service shutting down")

	// Graceful shutdown with 30s timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if grpcSrv != nil {
		grpcSrv.GracefulStop()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		return err
	}

	slog.Info("service stopped")
	return nil
}

// openSource returns the local mirror when STATS_DIR is set and the
// upstream registries otherwise.
func openSource(ctx context.Context, cfg config.Config) (registry.Source, func() error, func(), error) {
	if cfg.StatsDir == "" {
		return registry.NewHTTPSource(nil, cfg.FetchTimeout), nil, func() {}, nil
	}

	dir, err := registry.NewDirSource(cfg.StatsDir)
	if err != nil {
		slog.Error("failed to open stats directory", "path", cfg.StatsDir, "error", err)
		return nil, nil, nil, err
	}
	go dir.Run(ctx)
	slog.Info("serving stats from local mirror", "path", cfg.StatsDir)
	return dir, dir.Ready, func() { dir.Close() }, nil
}

func newRouter(cfg config.Config, gen *routes.Generator, lookup data.CountryLookup, readyFn func() error, m *metrics.Metrics) *gin.Engine {
	router := gin.New()
	router.Use(ginLogger(slog.Default()))
	router.Use(gin.Recovery())

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, cfg.DocsURL)
	})
	router.NoRoute(func(c *gin.Context) {
		c.String(http.StatusNotFound, "404 Not Found\n")
	})

	healthHandler := health.NewHandler(readyFn)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	generateHandler := generate.NewHandler(gen, cfg.FetchTimeout)
	router.GET("/generate", generateHandler.Generate)

	checkHandler := check.NewHandler(gen, lookup)
	api := router.Group("/api/v1")
	{
		api.GET("/generate", generateHandler.Generate)
		api.POST("/check", checkHandler.Check)
	}

	return router
}

// timeoutGenerator bounds each generation by a deadline.
type timeoutGenerator struct {
	gen     generate.Generator
	timeout time.Duration
}

func (t timeoutGenerator) GenerateText(ctx context.Context, req routes.Request) (string, error) {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}
	return t.gen.GenerateText(ctx, req)
}

// ginLogger creates a Gin middleware that logs using slog
func ginLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		attrs := []any{
			"method", method,
			"path", path,
			"query", c.Request.URL.RawQuery,
			"status", statusCode,
			"duration_ms", duration.Milliseconds(),
		}

		if len(c.Errors) > 0 {
			logger.Error("request completed with errors", append(attrs, "errors", c.Errors.String())...)
		} else if statusCode >= 500 {
			logger.Error("request completed", attrs...)
		} else if statusCode >= 400 {
			logger.Warn("request completed", attrs...)
		} else {
			logger.Info("request completed", attrs...)
		}
	}
}
