package handlers

import (
	"strconv"
	"strings"

	"travelmap/apperrors"
	"travelmap/pkg/logger"
	"travelmap/services/tracker"

	"github.com/gofiber/fiber/v2"
)

// HandleHome renders the visited countries of the current user
func HandleHome(tsrv *tracker.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Render("index", tsrv.HomePage(c.UserContext(), ""))
	}
}

// HandleAddCountry marks a country as visited. Failures re-render the home
// page with the message inline instead of going to the error page.
func HandleAddCountry(tsrv *tracker.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		err := tsrv.AddVisitedCountry(ctx, c.FormValue("country"))
		if err == nil {
			return c.Redirect("/")
		}

		appErr := apperrors.FromError(err)
		requestLogger(c).WithFields(appErr.LogFields()).Warn("Add country rejected")

		return c.Render("index", tsrv.HomePage(ctx, appErr.Message))
	}
}

// HandleSelectUser either opens the new-user form or switches the current user
func HandleSelectUser(tsrv *tracker.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.FormValue("add") == "new" {
			return c.Render("new", fiber.Map{
				"Error": "",
				"Name":  "",
				"Color": "",
			})
		}

		// Any value is accepted. One that is not an id is stored as 0,
		// which matches no user, so the page falls back to the first user.
		raw := strings.TrimSpace(c.FormValue("user"))
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			requestLogger(c).WithField("user", raw).Warn("Non-numeric user id, selection will match no user")
			userID = 0
		}

		tsrv.SwitchUser(c.UserContext(), userID)
		return c.Redirect("/")
	}
}

// HandleCreateUser stores a family member and makes them the current user.
// A failed insert re-renders the form with the message and the submitted values.
func HandleCreateUser(tsrv *tracker.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name, color := c.FormValue("name"), c.FormValue("color")

		if _, err := tsrv.CreateUser(c.UserContext(), name, color); err != nil {
			appErr := apperrors.FromError(err)
			requestLogger(c).WithFields(appErr.LogFields()).Error("Create user failed")

			return c.Render("new", fiber.Map{
				"Error": appErr.Message,
				"Name":  name,
				"Color": color,
			})
		}
		return c.Redirect("/")
	}
}

func requestLogger(c *fiber.Ctx) *logger.Logger {
	l := logger.WithFields(map[string]any{
		"method": c.Method(),
		"path":   c.Path(),
	})
	if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
		l = l.WithRequestID(rid)
	}
	return l
}
