package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/digihealth/clinic-booking/internal/booking"
	"github.com/digihealth/clinic-booking/internal/config"
	"github.com/digihealth/clinic-booking/internal/db"
	"github.com/digihealth/clinic-booking/internal/notify"
	redisclient "github.com/digihealth/clinic-booking/internal/redis"
)

// The reminder worker periodically emits reminder events for appointments
// starting within the configured lead window. It runs outside any request
// path; the booking core has no background work of its own.
func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Str("service", "reminder-worker").Logger()
	logger.Info().Msg("starting up")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("config load error")
	}
	logger.Info().
		Str("env", cfg.Env).
		Dur("interval", cfg.WorkerInterval).
		Dur("lead", cfg.ReminderLead).
		Msg("configured")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connection error")
	}
	defer pgPool.Close()

	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connection error")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			logger.Error().Err(err).Msg("error closing redis")
		}
	}()

	repo := booking.NewPgRepository(pgPool)
	dispatcher := notify.NewDispatcher(rdb, logger)
	svc := booking.NewService(repo, nil, dispatcher, logger)

	runOnce(rootCtx, svc, cfg.ReminderLead, logger)

	ticker := time.NewTicker(cfg.WorkerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rootCtx.Done():
			logger.Info().Msg("shutdown signal received, stopping reminder worker")
			return
		case <-ticker.C:
			runOnce(rootCtx, svc, cfg.ReminderLead, logger)
		}
	}
}

func runOnce(ctx context.Context, svc *booking.Service, lead time.Duration, logger zerolog.Logger) {
	runCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	start := time.Now()
	sent, err := svc.DispatchReminders(runCtx, lead)
	if err != nil {
		logger.Error().Err(err).Msg("reminder run error")
		return
	}
	logger.Info().Int("sent", sent).Dur("took", time.Since(start)).Msg("reminder run complete")
}
