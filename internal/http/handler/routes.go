package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"github.com/kavirajan452/poel-step-registeration-form/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Keep handlers minimal and free of business logic.
func RegisterRoutes(app *fiber.App, db *sql.DB, subSvc service.SubmissionService, locSvc service.LocationService) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Post("/registrations", SubmitRegistration(subSvc))
	app.Get("/registrations", ListRegistrations(subSvc))
	app.Get("/registrations/:id", GetRegistration(subSvc))

	app.Get("/locations/countries", ListCountries(locSvc))
	app.Post("/locations/states", GetStates(locSvc))
	app.Post("/locations/cities", GetCities(locSvc))
}
