package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sukhad17/Roxiler-Assignment/internal/config"
	"github.com/Sukhad17/Roxiler-Assignment/internal/database"
	"github.com/Sukhad17/Roxiler-Assignment/internal/handler"
	"github.com/Sukhad17/Roxiler-Assignment/internal/logging"
	"github.com/Sukhad17/Roxiler-Assignment/internal/middleware"
	"github.com/Sukhad17/Roxiler-Assignment/internal/queue"
	"github.com/Sukhad17/Roxiler-Assignment/internal/repository"
	"github.com/Sukhad17/Roxiler-Assignment/internal/router"
	"github.com/Sukhad17/Roxiler-Assignment/internal/service"
	"github.com/Sukhad17/Roxiler-Assignment/internal/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tokens, err := utils.NewTokenManager(cfg.JWTSecret)
	if err != nil {
		return err
	}

	db, err := database.Open(ctx, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer db.Close()
	if cfg.DBMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
		log.Info("migrations applied")
	}

	users := repository.NewUserRepo(db)
	stores := repository.NewStoreRepo(db)
	ratings := repository.NewRatingRepo(db)
	stats := repository.NewStatsRepo(db)

	err = service.EnsureAdmin(ctx, users, service.AdminAccount{
		Name:     cfg.AdminName,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	}, cfg.BcryptCost, log)
	if err != nil {
		return err
	}

	// Redis is optional: rate limiting and caching are skipped without it.
	rdb, err := config.NewRedisClient(ctx, config.LoadRedisConfig())
	if err != nil {
		log.Warn("redis unavailable, rate limiting and caching disabled", "err", err)
	} else {
		defer rdb.Close()
	}

	var events handler.EventPublisher
	var publisher *service.RatingPublisher
	if cfg.RabbitURL != "" {
		publisher = service.NewRatingPublisher(cfg.RabbitURL, log)
		events = publisher
		if cfg.RatingConsumerEnabled {
			consumer := &queue.Consumer{URL: cfg.RabbitURL, LogPath: cfg.RatingLogPath, Log: log}
			go func() {
				if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					log.Error("rating consumer stopped", "err", err)
				}
			}()
		}
	}

	e := router.NewServer(router.Deps{
		Tokens: tokens,
		Auth:   handler.NewAuthHandler(users, tokens, cfg.BcryptCost, log),
		Rating: handler.NewRatingHandler(stores, ratings, events, log),
		Admin:  handler.NewAdminHandler(users, stores, ratings, stats, cfg.BcryptCost, log),
		Owner:  handler.NewOwnerHandler(stores, ratings, log),
		DB:     db,
		Log:    log,

		CORSOrigins:    cfg.CORSOrigins,
		GlobalLimit:    middleware.NewTokenBucket("global", config.LoadRateLimitConfig(), rdb, log),
		AuthLimit:      middleware.NewTokenBucket("auth", config.LoadAuthRateLimitConfig(), rdb, log),
		DashboardCache: middleware.NewRedisCache(config.LoadCacheConfig(), rdb, log),
	})

	errc := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		log.Info("listening", "addr", addr, "env", cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if publisher != nil {
		publisher.Wait()
	}
	return nil
}
