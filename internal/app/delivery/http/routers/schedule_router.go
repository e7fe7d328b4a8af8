package routers

import (
	"medibook-service/internal/app/delivery/http/controllers"
	"medibook-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachScheduleRoutes(router chi.Router, m *middlewares.Middlewares, c *controllers.ScheduleController, slots *controllers.SlotController) {
	router.Post("/", c.Create)
	router.Post("/{scheduleID}/slots", c.GenerateSlots)
	router.Get("/{scheduleID}/availability", slots.FindAvailability)
	router.Delete("/{scheduleID}/slots", c.PurgeSlots)
	router.Post("/{scheduleID}/deactivate", c.Deactivate)
	router.Delete("/{scheduleID}", c.Delete)
}
