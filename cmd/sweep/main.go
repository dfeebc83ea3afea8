// Command sweep runs the subscription bookkeeping once, for cron setups that
// do not keep the API's built-in scheduler running.
package main

import (
	"context"
	"time"

	"servicehub/internal/config"
	"servicehub/internal/database"
	"servicehub/internal/modules/subscription"
	"servicehub/internal/pkg/logger"
	"servicehub/internal/repository"
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

	db, err := database.Connect(cfg.DatabaseURL, log, database.Options{MaxOpenConns: 1})
	if err != nil {
		log.Fatal("db connect failed: %v", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	svc := subscription.NewService(
		repository.NewSubscriptionRepository(db),
		repository.NewPropertyRepository(db),
		nil,
		log,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	res, err := svc.Sweep(ctx)
	if err != nil {
		log.Fatal("sweep failed: %v", err)
	}
	log.Info("sweep completed: expired=%d trials_ended=%d", res.Expired, res.TrialsEnded)
}
