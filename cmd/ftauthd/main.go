// Command ftauthd serves the FootballTalento authentication API.
package main

import (
	"context"
	"database/sql"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	ftauth "github.com/mrra1yan/FootballTalento"
	"github.com/mrra1yan/FootballTalento/httpapi"
	"github.com/mrra1yan/FootballTalento/notify"
	"github.com/mrra1yan/FootballTalento/store/postgres"
)

func main() {
	configPath := flag.String("config", os.Getenv("FTAUTH_CONFIG"), "path to config file")
	flag.Parse()

	baseLogger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer baseLogger.Sync()
	logger := baseLogger.Sugar()

	if err := run(*configPath, logger); err != nil {
		logger.Fatalw("server exited", "error", err)
	}
}

func run(configPath string, logger *zap.SugaredLogger) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("pgx", cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return err
	}
	logger.Infow("connected to postgres", "host", cfg.Database.Host, "db", cfg.Database.Name)

	if err := postgres.RunMigrations(ctx, db); err != nil {
		return err
	}
	logger.Info("migrations applied")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return err
	}
	logger.Infow("connected to redis", "addr", cfg.Redis.Addr)

	var notifier notify.Notifier
	if cfg.Brevo.APIKey != "" {
		brevo, err := notify.NewBrevo(cfg.Brevo.APIKey, cfg.Brevo.FromEmail, cfg.Brevo.FromName)
		if err != nil {
			return err
		}
		notifier = notify.NewLogging(brevo, logger)
	} else {
		logger.Warn("brevo api key not set, notifications will only be logged")
		notifier = notify.NewLogging(nil, logger)
	}

	engineCfg := ftauth.DefaultConfig()
	if cfg.Frontend.BaseURL != "" {
		engineCfg.Frontend.BaseURL = cfg.Frontend.BaseURL
	}

	engine, err := ftauth.New().
		WithConfig(engineCfg).
		WithRedis(redisClient).
		WithCredentialStore(postgres.New(db)).
		WithNotifier(notifier).
		WithAuditSink(ftauth.NewJSONWriterSink(os.Stdout)).
		Build()
	if err != nil {
		return err
	}
	defer engine.Close()

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: httpapi.NewServer(engine, logger, cfg.Server.APIKey).Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infow("listening", "addr", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
