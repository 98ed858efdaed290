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

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/BruksfildServices01/services-booking/internal/audit"
	"github.com/BruksfildServices01/services-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/services-booking/internal/db"
	domain "github.com/BruksfildServices01/services-booking/internal/domain/booking"
	"github.com/BruksfildServices01/services-booking/internal/handlers"
	infraRepo "github.com/BruksfildServices01/services-booking/internal/infra/repository"
	"github.com/BruksfildServices01/services-booking/internal/infra/lock"
	"github.com/BruksfildServices01/services-booking/internal/infra/storage"
	"github.com/BruksfildServices01/services-booking/internal/jobs"
	"github.com/BruksfildServices01/services-booking/internal/metrics"
	"github.com/BruksfildServices01/services-booking/internal/notify"
	"github.com/BruksfildServices01/services-booking/internal/routes"
	"github.com/BruksfildServices01/services-booking/internal/timezone"
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

	logger := newLogger(cfg)
	loc, err := timezone.Load(cfg.Timezone)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ======================================================
	// STORAGE
	// ======================================================
	db, err := dbpkg.Open(cfg)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	pingers := map[string]handlers.Pinger{}

	var locker domain.Locker
	if cfg.RedisEnabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect redis %s: %w", cfg.Redis.Address, err)
		}
		locker = lock.NewRedisLocker(rdb, cfg.Lock.TTL, cfg.Lock.Wait, logger)
		pingers["redis"] = handlers.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
		logger.Info().Str("addr", cfg.Redis.Address).Msg("booking locks in redis")
	} else {
		locker = lock.NewLocalLocker(cfg.Lock.Wait)
		logger.Warn().Msg("REDIS_ADDR not set, booking locks are local to this process")
	}

	var store storage.ObjectStore = storage.DisabledStore{}
	if cfg.S3Enabled() {
		s3, err := storage.NewS3Store(storage.S3Config{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			PublicURL: cfg.S3.PublicURL,
		})
		if err != nil {
			return err
		}
		store = s3
	} else {
		logger.Warn().Msg("S3_BUCKET not set, blog uploads are disabled")
	}

	// ======================================================
	// BACKGROUND WORKERS
	// ======================================================
	auditDispatcher := audit.NewDispatcher(audit.New(db), logger)

	var sender notify.Sender = notify.NewLogSender(logger)
	if cfg.SMTPEnabled() {
		sender = notify.NewSMTPSender(notify.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			User:     cfg.SMTP.User,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	}
	mailer := notify.NewDispatcher(sender, logger)

	var scheduler interface{ Stop() context.Context }
	if cfg.AgendaCron != "" && cfg.OperatorEmail != "" {
		job := jobs.NewAgendaJob(infraRepo.NewBookingGormRepository(db), mailer, cfg.OperatorEmail, loc, logger)
		c, err := jobs.Schedule(cfg.AgendaCron, job)
		if err != nil {
			return err
		}
		c.Start()
		scheduler = c
		logger.Info().Str("spec", cfg.AgendaCron).Msg("daily agenda scheduled")
	}

	// ======================================================
	// HTTP
	// ======================================================
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	routes.RegisterRoutes(r, routes.Deps{
		DB:       db,
		Config:   cfg,
		Logger:   logger,
		Location: loc,
		Locker:   locker,
		Audit:    auditDispatcher,
		Mailer:   mailer,
		Store:    store,
		Pingers:  pingers,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 2)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	var metricsSrv *http.Server
	if cfg.Metrics.Enabled {
		metrics.Register()
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info().Str("addr", metricsSrv.Addr).Msg("metrics listening")
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errc <- err
			}
		}()
	}

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutting down")
	case err := <-errc:
		logger.Error().Err(err).Msg("server failed")
	}

	// ======================================================
	// SHUTDOWN
	// ======================================================
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
	if scheduler != nil {
		<-scheduler.Stop().Done()
	}
	if err := auditDispatcher.Close(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("audit queue not drained")
	}
	if err := mailer.Close(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("email queue not drained")
	}

	return nil
}
