package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flyncarry/flyncarry/config"
	"github.com/flyncarry/flyncarry/internal/cache"
	"github.com/flyncarry/flyncarry/internal/email"
	"github.com/flyncarry/flyncarry/internal/kafka"
	"github.com/flyncarry/flyncarry/internal/logger"
	"github.com/flyncarry/flyncarry/internal/repository"
	"github.com/flyncarry/flyncarry/internal/service/itineraries"
	"github.com/flyncarry/flyncarry/internal/service/notifications"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog, err := logger.New(cfg.Logging, "worker")
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Cache.ItinerariesTTLSeconds)*time.Second)

	itineraryRepo := repository.NewItineraryRepository(pool)
	savedSearchRepo := repository.NewSavedSearchRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)

	itineraryService := itineraries.NewItineraryService(itineraryRepo, bookingRepo, savedSearchRepo, redisCache, zlog)
	notificationService := notifications.NewNotificationService(notificationRepo)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, zlog)
	defer consumer.Close()

	emailSender := email.NewSender()

	// Notification events fan out to a persisted in-app notification
	// and an email.
	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, event kafka.NotificationEvent) error {
			if _, err := notificationService.Store(ctx, event); err != nil {
				zlog.Error("store notification", zap.String("event_id", event.EventID), zap.Error(err))
				return nil
			}
			if err := emailSender.Send(ctx, event); err != nil {
				zlog.Warn("send email", zap.String("event_id", event.EventID), zap.Error(err))
			}
			return nil
		}); err != nil && ctx.Err() == nil {
			zlog.Error("consumer stopped", zap.Error(err))
		}
	}()

	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.Worker.CompletionSweepCron, func() {
		completed, err := itineraryService.CompletePastItineraries(ctx)
		if err != nil {
			zlog.Error("complete past itineraries", zap.Error(err))
			return
		}
		if len(completed) > 0 {
			zlog.Info("completed itineraries", zap.Int("count", len(completed)))
		}
	})
	if err != nil {
		log.Fatalf("schedule completion sweep: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	<-ctx.Done()
	zlog.Info("worker shutting down")
}
