package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nulzo/llm-mock-api/cmd"
	"github.com/nulzo/llm-mock-api/internal/cli"
	"github.com/nulzo/llm-mock-api/internal/config"
	"github.com/nulzo/llm-mock-api/internal/platform/logger"
	"github.com/nulzo/llm-mock-api/internal/platform/metrics"
	"github.com/nulzo/llm-mock-api/internal/platform/otel"
	"github.com/nulzo/llm-mock-api/internal/server"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s failed to load config: %v\n", cli.CrossMark(), err)
		os.Exit(1)
	}

	logCfg := logger.DefaultConfig()
	if cfg.Log.Level != "" {
		logCfg.Level = cfg.Log.Level
	}
	if cfg.Log.Format != "" {
		logCfg.Format = cfg.Log.Format
	}
	logger.Initialize(logCfg)
	defer logger.Sync()

	log := logger.With(zap.String("component", "server"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Tracing.Enabled {
		shutdown, err := otel.InitTracer(ctx, otel.Config{
			ServiceName: cfg.Tracing.ServiceName,
			Version:     cmd.AppVersion,
		}, log)
		if err != nil {
			log.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := shutdown(sctx); err != nil {
				log.Error("Failed to flush traces", zap.Error(err))
			}
		}()
	}

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(metrics.Config{
			Namespace: cfg.Metrics.Namespace,
			Subsystem: cfg.Metrics.Subsystem,
		}, nil)
	}

	srv := server.New(cfg, logger.Get(), collector)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	if cfg.Server.CheckUpdates {
		go cmd.CheckForUpdates(ctx)
	}

	printBanner(cfg)

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal("Server failed", zap.Error(err))
		}
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(sctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}
	log.Info("Server exited")
}

func printBanner(cfg *config.Config) {
	base := "http://localhost:" + cfg.Server.Port
	fmt.Println()
	fmt.Printf("  %s %s %s\n", cli.CheckMark(), cli.Style("LLM Mock API", cli.Bold), cli.Style(cmd.AppVersion, cli.Dim))
	fmt.Printf("  %s OpenAI     %s\n", cli.Arrow(), cli.Style(base+"/chat/completions", cli.Cyan))
	fmt.Printf("  %s Anthropic  %s\n", cli.Arrow(), cli.Style(base+"/claude/completions", cli.Cyan))
	fmt.Printf("  %s Docs       %s\n", cli.Arrow(), cli.Style(base+"/docs", cli.Cyan))
	if cfg.Metrics.Enabled {
		fmt.Printf("  %s Metrics    %s\n", cli.Arrow(), cli.Style(base+cfg.Metrics.Path, cli.Cyan))
	}
	if cfg.Auth.RequireKey {
		fmt.Printf("  %s API key required on completion routes\n", cli.WarningSign())
	}
	fmt.Println()
}
