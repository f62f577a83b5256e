package routers

import (
	"fmt"
	"time"

	"myserv-service/internal/app/config"
	"myserv-service/internal/app/delivery/http/controllers"
	"myserv-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	middlewares *middlewares.Middlewares,
	bookingController *controllers.BookingController,
	paymentController *controllers.PaymentController,
	webhookController *controllers.WebhookController,
) {

	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-User-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))

	rateLimiter := httprate.LimitByIP(internalConfig.App.MaxRequests, time.Second)
	router.Use(rateLimiter)

	router.Use(middlewares.RequestIDMiddleware)
	router.Use(middlewares.Logging(middlewares.Log))
	router.Use(middlewares.ErrorHandler)

	endpointPrefix := fmt.Sprintf("/%s", internalConfig.App.EndpointPrefix)
	versionPrefix := fmt.Sprintf("/%s", internalConfig.App.Version)

	router.Route(endpointPrefix, func(r chi.Router) {
		r.Route(versionPrefix, func(r chi.Router) {
			r.Route("/bookings", func(r chi.Router) {
				attachBookingRouter(r, middlewares, bookingController)
			})

			r.Route("/payments", func(r chi.Router) {
				attachPaymentRouter(r, middlewares, paymentController)
			})

			r.Route("/webhooks", func(r chi.Router) {
				attachWebhookRouter(r, middlewares, webhookController)
			})
		})
	})
}
