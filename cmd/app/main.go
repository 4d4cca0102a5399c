package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flyncarry/flyncarry/config"
	"github.com/flyncarry/flyncarry/internal/bootstrap"
	"github.com/flyncarry/flyncarry/internal/cache"
	"github.com/flyncarry/flyncarry/internal/gateway"
	"github.com/flyncarry/flyncarry/internal/kafka"
	"github.com/flyncarry/flyncarry/internal/logger"
	"github.com/flyncarry/flyncarry/internal/pricing"
	"github.com/flyncarry/flyncarry/internal/repository"
	"github.com/flyncarry/flyncarry/internal/service/booking"
	"github.com/flyncarry/flyncarry/internal/service/itineraries"
	"github.com/flyncarry/flyncarry/internal/service/messaging"
	"github.com/flyncarry/flyncarry/internal/service/notifications"
	"github.com/flyncarry/flyncarry/internal/service/notify"
	"github.com/flyncarry/flyncarry/internal/service/payments"
	"github.com/flyncarry/flyncarry/internal/service/ratings"
	"github.com/flyncarry/flyncarry/internal/service/requests"
	"github.com/jackc/pgx/v5/pgxpool"
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

	zlog, err := logger.New(cfg.Logging, "app")
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
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	notifier := notify.NewEmitter(producer, cfg.Kafka.NotificationsTopic, zlog)

	engine, err := pricing.NewEngine(cfg.Pricing)
	if err != nil {
		log.Fatalf("init pricing: %v", err)
	}
	provider := gateway.NewHTTPClient(cfg.Gateway)

	itineraryRepo := repository.NewItineraryRepository(pool)
	savedSearchRepo := repository.NewSavedSearchRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	requestRepo := repository.NewRequestRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)
	ratingRepo := repository.NewRatingRepository(pool)

	dedupTTL := time.Duration(cfg.Cache.WebhookDedupTTLHours) * time.Hour

	svc := bootstrap.Services{
		Itineraries:   itineraries.NewItineraryService(itineraryRepo, bookingRepo, savedSearchRepo, redisCache, zlog),
		Bookings:      booking.NewBookingService(bookingRepo, itineraryRepo, engine, notifier, zlog),
		Requests:      requests.NewRequestService(requestRepo, notifier, zlog),
		Payments:      payments.NewPaymentService(paymentRepo, bookingRepo, itineraryRepo, engine, provider, redisCache, dedupTTL, notifier, zlog),
		Notifications: notifications.NewNotificationService(notificationRepo),
		Messaging:     messaging.NewMessagingService(messageRepo, notifier),
		Ratings:       ratings.NewRatingService(ratingRepo, bookingRepo, itineraryRepo, notifier),
	}

	if err := bootstrap.Run(ctx, cfg, svc, zlog); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
