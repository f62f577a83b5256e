package routers

import (
	"myserv-service/internal/app/delivery/http/controllers"
	"myserv-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachWebhookRouter(router chi.Router, middlewares *middlewares.Middlewares, webhookController *controllers.WebhookController) {
	router.Post("/payment", webhookController.PaymentWebhook)
}
