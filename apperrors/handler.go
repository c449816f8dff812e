package apperrors

import (
	"strings"

	"travelmap/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// HandlerConfig configures the error handler
type HandlerConfig struct {
	Logger *logger.Logger

	// ShowInternalErrors shows internal error details in JSON responses (dev only)
	ShowInternalErrors bool

	// OnError is called for each error (metrics)
	OnError func(c *fiber.Ctx, err *AppError)
}

// Handler creates a Fiber error handler
func Handler(config HandlerConfig) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		appErr := FromError(err)

		if config.Logger != nil {
			logError(config.Logger, c, appErr)
		}

		if config.OnError != nil {
			config.OnError(c, appErr)
		}

		if wantsJSON(c) {
			return handleAPIError(c, appErr, config.ShowInternalErrors)
		}

		return handleBrowserError(c, appErr)
	}
}

func wantsJSON(c *fiber.Ctx) bool {
	if strings.HasPrefix(c.Path(), "/api") {
		return true
	}
	return strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMEApplicationJSON)
}

func handleAPIError(c *fiber.Ctx, err *AppError, showInternal bool) error {
	body := fiber.Map{
		"code":    err.Code,
		"message": err.Message,
	}
	if len(err.Details) > 0 {
		body["details"] = err.Details
	}
	if showInternal && err.Internal != nil {
		body["internal"] = err.Internal.Error()
	}

	return c.Status(err.StatusCode).JSON(fiber.Map{"error": body})
}

func handleBrowserError(c *fiber.Ctx, err *AppError) error {
	renderErr := c.Status(err.StatusCode).Render("error", fiber.Map{
		"Code":    err.Code,
		"Message": err.Message,
		"Status":  err.StatusCode,
	})

	// Fallback to plain text if render fails
	if renderErr != nil {
		return c.Status(err.StatusCode).SendString(err.Message)
	}

	return nil
}

func logError(l *logger.Logger, c *fiber.Ctx, err *AppError) {
	entry := l.WithFields(err.LogFields()).WithFields(map[string]any{
		"method": c.Method(),
		"path":   c.Path(),
		"ip":     c.IP(),
	})
	if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
		entry = entry.WithRequestID(rid)
	}

	// Expected errors are not worth an ERROR line
	if err.StatusCode < 500 {
		entry.Warn("%s", err.Message)
		return
	}
	entry.Error("%s", err.Message)
}
