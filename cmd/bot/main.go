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

	"starsbot/internal/config"
	"starsbot/internal/handler"
	"starsbot/internal/logger"
	"starsbot/internal/repository"
	"starsbot/internal/repository/memory"
	"starsbot/internal/repository/postgres"
	redisrepo "starsbot/internal/repository/redis"
	"starsbot/internal/repository/sqlite"
	"starsbot/internal/scheduler"
	"starsbot/internal/service"
	"starsbot/internal/webhook"
	"starsbot/internal/worker"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting Stars donation bot",
		zap.String("storage", cfg.Storage.Driver),
		zap.Bool("admin_configured", cfg.AdminUserID != 0),
	)

	shutdown := newShutdownStack(log, 30*time.Second)

	// Ledger
	ledger, err := openLedger(cfg, log, shutdown)
	if err != nil {
		log.Fatal("Failed to open ledger", zap.Error(err))
	}

	// Conversation state
	states, err := openStateStore(cfg, log, shutdown)
	if err != nil {
		log.Fatal("Failed to open state store", zap.Error(err))
	}

	// Initialize Telegram bot; updates arrive through the webhook server
	bot, err := tele.NewBot(tele.Settings{
		Token:       cfg.BotToken,
		Offline:     true,
		Synchronous: true,
		OnError: func(err error, c tele.Context) {
			fields := []zap.Field{zap.Error(err)}
			if c != nil {
				fields = append(fields, zap.Int("update_id", c.Update().ID))
			}
			log.Error("Failed to handle update", fields...)
		},
	})
	if err != nil {
		log.Fatal("Failed to create bot", zap.Error(err))
	}

	messenger := handler.NewMessenger(bot)

	// Initialize services
	reports := service.NewReportService(ledger, cfg.AdminUserID, log)
	donations := service.NewDonationService(ledger, states, reports, messenger, log)

	// Initialize handler
	h := handler.NewHandler(bot, donations, log)
	h.RegisterHandlers()

	log.Info("Handlers registered")

	// Scheduled admin report
	if cfg.ReportCron != "" {
		sched := scheduler.New(reports, messenger, log)
		if err := sched.ScheduleSummary(cfg.ReportCron); err != nil {
			log.Fatal("Failed to schedule admin report", zap.Error(err))
		}
		sched.Start()
		shutdown.add("scheduler", sched.Stop)
	}

	// Worker pool
	pool := worker.NewPool(bot, cfg.Workers, cfg.QueueSize, log)
	pool.Start()
	shutdown.add("worker pool", pool.Shutdown)

	// Webhook server
	gateway := webhook.NewServer(cfg.BotToken, cfg.WebhookSecret, pool, log)
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           gateway,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	go func() {
		log.Info("Webhook server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Webhook server failed", zap.Error(err))
		}
	}()
	shutdown.add("http server", server.Shutdown)

	if endpoint := cfg.WebhookEndpoint(); endpoint != "" {
		if err := registerWebhook(bot, endpoint, cfg.WebhookSecret); err != nil {
			log.Error("Failed to register webhook", zap.Error(err))
		} else {
			log.Info("Webhook registered", zap.String("url", cfg.WebhookURL+"/webhook/<token>"))
		}
	}

	log.Info("Bot started successfully")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	log.Info("Shutdown signal received, stopping bot...")

	shutdown.run()

	log.Info("Bot stopped gracefully")
}

func openLedger(cfg *config.Config, log *zap.Logger, shutdown *shutdownStack) (repository.LedgerRepository, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		db, err := postgres.Connect(cfg.DSN(), 30, 2*time.Second, log)
		if err != nil {
			return nil, err
		}
		shutdown.add("postgres", func(context.Context) error { return db.Close() })

		log.Info("Database connection established")

		if err := postgres.RunMigrations(db, "file://migrations", log); err != nil {
			return nil, err
		}
		return postgres.NewLedgerRepo(db), nil

	default:
		db, err := sqlite.Open(cfg.Storage.Path, log)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		shutdown.add("sqlite", func(context.Context) error { return sqlDB.Close() })
		return sqlite.NewLedgerRepo(db), nil
	}
}

func openStateStore(cfg *config.Config, log *zap.Logger, shutdown *shutdownStack) (repository.StateRepository, error) {
	if cfg.Redis.Addr == "" {
		log.Info("Conversation state kept in memory")
		return memory.NewStateRepo(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", cfg.Redis.Addr, err)
	}
	shutdown.add("redis", func(context.Context) error { return client.Close() })

	log.Info("Conversation state kept in redis", zap.String("addr", cfg.Redis.Addr))
	return redisrepo.NewStateRepo(client), nil
}

func registerWebhook(bot *tele.Bot, endpoint, secret string) error {
	return bot.SetWebhook(&tele.Webhook{
		Endpoint:       &tele.WebhookEndpoint{PublicURL: endpoint},
		SecretToken:    secret,
		AllowedUpdates: []string{"message", "callback_query", "pre_checkout_query"},
	})
}
