package routers

import (
	"medibook-service/internal/app/delivery/http/controllers"
	"medibook-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachAppointmentRoutes(router chi.Router, m *middlewares.Middlewares, c *controllers.AppointmentController) {
	router.Post("/", c.Book)
	router.Get("/{appointmentID}", c.FindByID)
	router.Post("/{appointmentID}/cancel", c.Cancel)
	router.Post("/{appointmentID}/check-in", c.CheckIn)
	router.Post("/{appointmentID}/fulfill", c.Fulfill)
	router.Post("/{appointmentID}/no-show", c.NoShow)
}
