package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/srivastav-asutosh/SIP-Calculator/internal/api"
	"github.com/srivastav-asutosh/SIP-Calculator/internal/config"
	"github.com/srivastav-asutosh/SIP-Calculator/internal/scheduler"
	"github.com/srivastav-asutosh/SIP-Calculator/internal/store"
	"github.com/srivastav-asutosh/SIP-Calculator/internal/tracing"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("config validation", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)})))
	slog.Info("sip calculator starting", "addr", cfg.Addr())

	// Контекст для graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Инициализируем трейсинг
	tracer, shutdownTracing, err := tracing.InitTracing(ctx, cfg.OTELServiceName, cfg.OTELEndpoint)
	if err != nil {
		slog.Error("init tracing", "error", err)
		os.Exit(1)
	}

	// Хранилище истории; при ошибке работаем без него
	recorder, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Warn("init recorder failed, using noop", "error", err)
		recorder = store.NewNoopRecorder()
	}

	// Очистка истории по сроку хранения
	if cfg.HistoryRetentionDays > 0 {
		retention := scheduler.NewRetention(ctx, recorder, cfg.HistoryRetentionDays)
		if err := retention.Register(cfg.RetentionCron); err != nil {
			slog.Error("register retention task", "error", err)
			os.Exit(1)
		}
		retention.Start()
		defer retention.Stop()
	}

	srv := api.NewServer(cfg, recorder, tracer)
	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Ждем сигнала остановки или падения сервера
	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received, stopping")
	case err := <-errCh:
		if err != nil {
			slog.Error("http server failed", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http server shutdown", "error", err)
	}
	if err := srv.Close(); err != nil {
		slog.Warn("close recorder", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Warn("tracing shutdown", "error", err)
	}
	slog.Info("sip calculator stopped")
}

// parseLevel разбирает LOG_LEVEL; неизвестное значение дает INFO
func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(strings.TrimSpace(s)))); err != nil {
		return slog.LevelInfo
	}
	return level
}
