package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/flyncarry/flyncarry/api"
	"github.com/flyncarry/flyncarry/config"
	"github.com/flyncarry/flyncarry/internal/service/booking"
	"github.com/flyncarry/flyncarry/internal/service/itineraries"
	"github.com/flyncarry/flyncarry/internal/service/messaging"
	"github.com/flyncarry/flyncarry/internal/service/notifications"
	"github.com/flyncarry/flyncarry/internal/service/payments"
	"github.com/flyncarry/flyncarry/internal/service/ratings"
	"github.com/flyncarry/flyncarry/internal/service/requests"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// Services bundles the use cases the HTTP surface exposes.
type Services struct {
	Itineraries   itineraries.ItineraryUseCase
	Bookings      booking.BookingUseCase
	Requests      requests.RequestUseCase
	Payments      payments.PaymentUseCase
	Notifications notifications.NotificationUseCase
	Messaging     messaging.MessagingUseCase
	Ratings       ratings.RatingUseCase
}

// Run starts the HTTP server and blocks until the context is canceled
// or the server fails.
func Run(ctx context.Context, cfg *config.Config, svc Services, log *zap.Logger) error {
	router := newRouter(cfg, svc, log)

	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	log.Info("http server started", zap.String("address", cfg.HTTP.Address))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newRouter(cfg *config.Config, svc Services, log *zap.Logger) *gin.Engine {
	api.RegisterValidators()

	router := gin.New()
	router.Use(gin.Recovery())

	// Provider callbacks authenticate with an HMAC signature, so they
	// stay outside the actor middleware.
	webhooks := router.Group("/webhooks")
	api.NewWebhookHandler(svc.Payments, cfg.Gateway.WebhookSecret, log).Register(webhooks)

	v1 := router.Group("/api/v1")
	v1.Use(api.ActorMiddleware())

	api.NewItineraryHandler(svc.Itineraries).Register(v1.Group("/itineraries"))
	api.NewBookingHandler(svc.Bookings).Register(v1.Group("/bookings"))
	api.NewRequestHandler(svc.Requests).Register(v1.Group("/requests"))
	api.NewPaymentHandler(svc.Payments).Register(v1.Group("/payments"))
	api.NewNotificationHandler(svc.Notifications).Register(v1.Group("/notifications"))
	api.NewMessageHandler(svc.Messaging).Register(v1.Group("/messages"))
	api.NewRatingHandler(svc.Ratings).Register(v1.Group("/ratings"))

	if cfg.HTTP.SwaggerDir != "" {
		router.StaticFS("/swagger", http.Dir(cfg.HTTP.SwaggerDir))
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/swagger/openapi.json"),
		)))
	}

	return router
}
