package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kavirajan452/poel-step-registeration-form/internal/service"
)

// locationQuery is the body of the dependent-select lookups.
type locationQuery struct {
	Country string `json:"country"`
	State   string `json:"state"`
}

// ListCountries returns every known country for the form's country dropdown.
func ListCountries(svc service.LocationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		countries, err := svc.Countries(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "internal server error")
		}
		return c.JSON(fiber.Map{"countries": countries})
	}
}

// GetStates returns the states of the posted country. Unknown countries yield
// an empty list, not an error.
func GetStates(svc service.LocationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var q locationQuery
		if err := c.BodyParser(&q); err != nil {
			return writeError(c, fiber.StatusBadRequest, "invalid request body")
		}
		states, err := svc.States(c.UserContext(), q.Country)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "internal server error")
		}
		return c.JSON(fiber.Map{"states": states})
	}
}

// GetCities returns the cities of the posted state.
func GetCities(svc service.LocationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var q locationQuery
		if err := c.BodyParser(&q); err != nil {
			return writeError(c, fiber.StatusBadRequest, "invalid request body")
		}
		cities, err := svc.Cities(c.UserContext(), q.State)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "internal server error")
		}
		return c.JSON(fiber.Map{"cities": cities})
	}
}
