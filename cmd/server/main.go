package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/byhelaman/sched-planner/internal/config"
	"github.com/byhelaman/sched-planner/internal/core"
	"github.com/byhelaman/sched-planner/internal/logging"
	"github.com/byhelaman/sched-planner/internal/store"
	"github.com/byhelaman/sched-planner/internal/web"
)

func main() {
	// Overload lets .env win over variables already set in the shell.
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"store", cfg.Store.Backend,
		"session_max_age", cfg.Session.MaxAge,
		"sheet_layout", cfg.Parse.SheetLayout,
		"upload_max_concurrent", cfg.Upload.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)
	slog.Debug("configuration", "config", cfg.String())

	ctx := context.Background()
	st, err := store.Open(ctx, cfg.Store, cfg.Session.MaxAge)
	if err != nil {
		slog.Error("failed to open store", "backend", cfg.Store.Backend, "error", err)
		os.Exit(1)
	}
	defer st.Close()

	service, err := core.NewServiceFromConfig(cfg, st)
	if err != nil {
		slog.Error("failed to create service", "error", err)
		os.Exit(1)
	}

	server := web.NewServer(service, cfg)

	jobCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()

	if cfg.Session.SweepEnabled() {
		go func() {
			if err := service.StartSweepScheduler(jobCtx, cfg.Session.SweepSchedule); err != nil {
				slog.Error("sweep scheduler failed", "error", err)
			}
		}()
	} else {
		slog.Info("scheduled sweep disabled; expired sessions are swept on request")
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if status := service.UploadLimiterStatus(); status.Active > 0 {
			slog.Info("waiting for uploads to complete", "active", status.Active)
			if err := service.WaitForUploads(shutdownCtx); err != nil {
				slog.Warn("uploads did not complete in time", "error", err)
			} else {
				slog.Info("all uploads completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		cancelJobs()
		st.Close()
		os.Exit(1)
	}
	slog.Info("server stopped")
}
