package routers

import (
	"myserv-service/internal/app/delivery/http/controllers"
	"myserv-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachBookingRouter(router chi.Router, middlewares *middlewares.Middlewares, bookingController *controllers.BookingController) {
	router.Patch("/{bookingID}/status", bookingController.UpdateStatus)
	router.Patch("/{bookingID}/schedule", bookingController.Schedule)
	router.Post("/{bookingID}/review", bookingController.SubmitReview)
}
