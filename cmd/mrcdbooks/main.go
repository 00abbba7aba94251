package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/mrcd-books/mrcd-books/internal/accounts"
	"github.com/mrcd-books/mrcd-books/internal/app"
	"github.com/mrcd-books/mrcd-books/internal/platform/cache"
	"github.com/mrcd-books/mrcd-books/internal/reports"
	reporthttp "github.com/mrcd-books/mrcd-books/internal/reports/http"
	"github.com/mrcd-books/mrcd-books/internal/sheet"
	"github.com/mrcd-books/mrcd-books/internal/vouchers"
	"github.com/mrcd-books/mrcd-books/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		// Reports degrade to uncached backend reads when Redis is away.
		logger.Warn("redis unavailable, caching disabled", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sheetClient := sheet.NewClient(cfg.SheetAPIURL, cfg.SheetAPIToken, logger)

	reportCache := reports.NewCache(redisClient, cfg.CacheTTL)
	reportService := reports.NewService(sheetClient, reportCache, logger)
	reportsHandler := reporthttp.NewHandler(logger, reportService)

	accountService := accounts.NewService(sheetClient, reportService, logger)
	accountsHandler := accounts.NewHandler(logger, accountService)

	voucherService := vouchers.NewService(sheetClient, reportService, logger)
	vouchersHandler := vouchers.NewHandler(logger, voucherService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		AccountsHandler: accountsHandler,
		VouchersHandler: vouchersHandler,
		ReportsHandler:  reportsHandler,
		JobHandler:      jobHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
