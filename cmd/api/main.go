package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"servicehub/internal/app"
	"servicehub/internal/config"
	"servicehub/internal/database"
	"servicehub/internal/pkg/logger"
	"servicehub/internal/repository"
	"servicehub/internal/scheduler"
)

func main() {
	boot, _ := logger.New("info", false)

	cfg, err := config.Load()
	if err != nil {
		boot.Fatal("config: %v", err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.IsProdLike())
	if err != nil {
		boot.Fatal("logger: %v", err)
	}
	log = log.WithField("service", "servicehub")

	db, err := database.Connect(cfg.DatabaseURL, log, database.Options{
		MaxOpenConns:    20,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
	})
	if err != nil {
		log.Fatal("database: %v", err)
	}
	if err := repository.Migrate(db); err != nil {
		log.Fatal("migrate: %v", err)
	}

	plans := config.DefaultPlans
	if cfg.PlansFile != "" {
		if _, statErr := os.Stat(cfg.PlansFile); statErr == nil {
			if plans, err = config.LoadPlans(cfg.PlansFile); err != nil {
				log.Fatal("plans: %v", err)
			}
		} else {
			log.Warn("plans file %s not found, using built-in catalog", cfg.PlansFile)
		}
	}
	if err := repository.NewSubscriptionRepository(db).UpsertPlans(context.Background(), plans); err != nil {
		log.Fatal("plans: %v", err)
	}

	a := app.New(cfg, db, log, nil)

	sched, err := scheduler.New(a.Subscriptions, cfg.SweepInterval, time.Minute, log.WithField("component", "scheduler"))
	if err != nil {
		log.Fatal("scheduler: %v", err)
	}
	sched.Start()

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      a.Router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		log.Info("http: listening on %s env=%s", srv.Addr, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := sched.Stop(); err != nil {
		log.Warn("scheduler stop: %v", err)
	}
	a.Hub.Close()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("http shutdown: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("bye")
}
