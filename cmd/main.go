package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/luxedrive/internal/auth"
	"github.com/ukydev/luxedrive/internal/config"
	"github.com/ukydev/luxedrive/internal/db"
	"github.com/ukydev/luxedrive/internal/describe"
	"github.com/ukydev/luxedrive/internal/events"
	"github.com/ukydev/luxedrive/internal/handlers"
	"github.com/ukydev/luxedrive/internal/jobs"
	applog "github.com/ukydev/luxedrive/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}

	logger := applog.New(cfg.Environment)
	ctx := context.Background()

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open record store")
	}
	defer closeStore()

	repo := db.NewRepository(store, db.WithStrictTransitions(cfg.Bookings.StrictTransitions))
	authService := auth.NewService(cfg.Auth, repo, repo, logger)

	seed, err := newSeed(cfg.Auth, authService, time.Now().UTC())
	if err != nil {
		logger.WithError(err).Fatal("Failed to prepare seed data")
	}
	if err := db.Bootstrap(ctx, store, seed); err != nil {
		logger.WithError(err).Fatal("Failed to seed record store")
	}

	publisher := newPublisher(cfg.MQTT, logger)
	defer publisher.Close()

	describer := newDescriber(cfg.Gemini, logger)

	router := handlers.NewRouter(handlers.Dependencies{
		Auth:           authService,
		Cars:           repo,
		Users:          repo,
		Bookings:       repo,
		Describer:      describer,
		Assistant:      describer,
		Publisher:      publisher,
		Logger:         logger,
		LoginMax:       cfg.RateLimit.LoginMax,
		LoginWindow:    cfg.RateLimit.LoginWindow,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
	})
	srv := newServer(cfg.HTTP, router)

	scheduler := jobs.NewScheduler(cfg.Jobs.StatsSchedule, repo, publisher, logger)
	if err := scheduler.Start(); err != nil {
		logger.WithError(err).Error("Scheduler start failed")
	}

	go func() {
		logger.WithFields(log.Fields{"addr": srv.Addr, "store": cfg.Store.Backend}).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("HTTP server failed")
		}
	}()

	waitForShutdown(logger, srv, scheduler)
}

// openStore returns the configured record store and a function releasing
// its connection.
func openStore(ctx context.Context, cfg *config.AppConfig, logger log.FieldLogger) (db.RecordStore, func(), error) {
	switch cfg.Store.Backend {
	case "memory":
		logger.Warn("Using in-memory record store; data is lost on restart")
		return db.NewMemoryStore(), func() {}, nil

	case "mongo":
		client, err := db.ConnectMongo(ctx, cfg.Mongo.URI)
		if err != nil {
			return nil, nil, err
		}
		logger.WithField("database", cfg.Mongo.Database).Info("Connected to MongoDB")
		store := &db.MongoStore{Collection: client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)}
		return store, func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.WithError(err).Error("MongoDB disconnect failed")
			}
		}, nil

	case "redis":
		client, err := db.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		logger.WithField("addr", cfg.Redis.Addr).Info("Connected to Redis")
		return db.NewRedisStore(client, cfg.Redis.Prefix), func() {
			if err := client.Close(); err != nil {
				logger.WithError(err).Error("Redis close failed")
			}
		}, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}

// newSeed returns the bootstrap data. When passwords are required the seeded
// admin gets a hash of cfg.AdminPassword. An already seeded store keeps its
// users unchanged.
func newSeed(cfg config.AuthConfig, authService *auth.Service, now time.Time) (db.Seed, error) {
	seed := db.DefaultSeed(now)
	if !cfg.RequirePassword {
		return seed, nil
	}
	if cfg.AdminPassword == "" {
		return db.Seed{}, errors.New("auth.adminpassword is required when auth.requirepassword is enabled")
	}
	hash, err := authService.HashPassword(cfg.AdminPassword)
	if err != nil {
		return db.Seed{}, err
	}
	return seed.WithAdminPasswordHash(hash), nil
}

// newPublisher connects to MQTT when a broker is configured and falls back to
// logging events otherwise.
func newPublisher(cfg config.MQTTConfig, logger log.FieldLogger) events.Publisher {
	if cfg.Broker == "" {
		return events.NewLogPublisher(logger)
	}
	pub, err := events.NewMQTTPublisher(cfg, logger)
	if err != nil {
		logger.WithError(err).Warn("MQTT unavailable, logging events instead")
		return events.NewLogPublisher(logger)
	}
	return pub
}

func newDescriber(cfg config.GeminiConfig, logger log.FieldLogger) *describe.Service {
	client, err := describe.NewGeminiClient(cfg)
	if err != nil {
		logger.WithError(err).Warn("Text generation disabled, serving stored descriptions")
		return describe.NewService(nil, logger)
	}
	return describe.NewService(client, logger)
}

func newServer(cfg config.HTTPConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

func waitForShutdown(logger log.FieldLogger, srv *http.Server, scheduler *jobs.Scheduler) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Graceful shutdown failed")
		_ = srv.Close()
	}

	select {
	case <-scheduler.Stop().Done():
	case <-shutdownCtx.Done():
		logger.Warn("Scheduler did not stop in time")
	}

	logger.Info("Server exited cleanly")
}
