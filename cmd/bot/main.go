// Package main contains the entrypoint for the weather LINE bot application.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yclai/tianqibot/internal/bot"
	"github.com/yclai/tianqibot/internal/bot/tasks"
	"github.com/yclai/tianqibot/internal/config"
	"github.com/yclai/tianqibot/internal/gemini"
	"github.com/yclai/tianqibot/internal/history"
	"github.com/yclai/tianqibot/internal/line"
	"github.com/yclai/tianqibot/internal/logger"
	"github.com/yclai/tianqibot/internal/weather"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop() // Ensure context cancellation is signaled before exit
	os.Exit(exitCode)
}

// run initializes and starts all application components (config, logger,
// history store, weather and AI clients, webhook server, scheduler), handles
// graceful shutdown, and returns an exit code (0 for success, 1 for failure).
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.LogLevel, cfg.LogJSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.LogLevel, "json", cfg.LogJSON)

	var store history.Store
	switch cfg.HistoryBackend {
	case "sqlite":
		db, dbErr := history.NewDB(cfg.DBPath)
		if dbErr != nil {
			log.Error("Failed to open history database", "path", cfg.DBPath, "error", dbErr)
			return 1
		}
		defer history.CloseDB(db)
		store = history.NewSQLStore(db, log)
	default:
		store = history.NewFileStore(cfg.HistoryPath, log)
	}

	if err := store.Load(ctx); err != nil {
		log.Error("Failed to load conversation history", "error", err)
		return 1
	}

	weatherClient := weather.NewClient(cfg.CWAAPIKey, cfg.CWABaseURL, cfg.CWATimeout, log)

	aiClient, err := gemini.NewClient(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to initialize Gemini client", "error", err)
		return 1
	}

	router := bot.NewRouter(weatherClient, aiClient, log)

	sender, err := line.NewSender(cfg.LineChannelToken, log)
	if err != nil {
		log.Error("Failed to create LINE sender", "error", err)
		return 1
	}

	handler := line.NewHandler(cfg.LineChannelSecret, store, router, sender, log)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           logger.Middleware(log)(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	tDeps := tasks.TaskDeps{
		Logger: log,
		Store:  store,
	}
	sched := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))

	app := bot.NewBot(log, cfg, store, server, sched)

	log.Info("Starting bot...")
	runErr := app.Run(ctx) // Run blocks until context is cancelled or an error occurs
	log.Info("Bot run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	time.Sleep(time.Second)
	return 0
}
