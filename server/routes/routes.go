package routes

import (
	"travelmap/server/handlers"
	"travelmap/services/tracker"

	"github.com/gofiber/fiber/v2"
)

// TrackerRoutes wires the travel tracker pages and the health endpoints
type TrackerRoutes struct {
	tsrv   *tracker.Service
	health *handlers.HealthCheckHandler
}

func NewTrackerRoutes(tsrv *tracker.Service, health *handlers.HealthCheckHandler) *TrackerRoutes {
	return &TrackerRoutes{
		tsrv:   tsrv,
		health: health,
	}
}

// Register sets up all routes
func (tr *TrackerRoutes) Register(app *fiber.App) {
	app.Get("/", handlers.HandleHome(tr.tsrv))
	app.Post("/add", handlers.HandleAddCountry(tr.tsrv))
	app.Post("/user", handlers.HandleSelectUser(tr.tsrv))
	app.Post("/new", handlers.HandleCreateUser(tr.tsrv))

	if tr.health != nil {
		app.Get("/health", tr.health.HandleHealthCheck())
		app.Get("/ready", tr.health.HandleReadinessCheck())
	}
}
