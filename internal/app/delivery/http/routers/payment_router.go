package routers

import (
	"myserv-service/internal/app/delivery/http/controllers"
	"myserv-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachPaymentRouter(router chi.Router, middlewares *middlewares.Middlewares, paymentController *controllers.PaymentController) {
	router.Post("/intent", paymentController.CreateIntent)
}
