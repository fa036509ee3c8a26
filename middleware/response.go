package middleware

import (
	"errors"

	"learnhub/apperror"
	"learnhub/logger"

	"github.com/gofiber/fiber/v2"
)

func JsonResponse(c *fiber.Ctx, statusCode int, success bool, message string, data interface{}) error {
	body := fiber.Map{
		"success": success,
		"message": message,
	}
	if success || data != nil {
		body["data"] = data
	}
	return c.Status(statusCode).JSON(body)
}

func Success(c *fiber.Ctx, data interface{}) error {
	return JsonResponse(c, fiber.StatusOK, true, "OK", data)
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Validation failed!", errors)
}

// ErrorResponse renders a service error with the status tied to its kind.
func ErrorResponse(c *fiber.Ctx, err error) error {
	kind := apperror.KindOf(err)
	if kind == apperror.KindInternal {
		if log, ok := c.Locals("logger").(*logger.Logger); ok {
			log.Error("request failed", "path", c.Path(), "error", err)
		}
	}
	return JsonResponse(c, apperror.Status(kind), false, apperror.PublicMessage(err), nil)
}

// FiberErrorHandler keeps framework errors (404 routes, body limits, panics) in the same envelope.
func FiberErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonResponse(c, fe.Code, false, fe.Message, nil)
	}
	return ErrorResponse(c, err)
}

// RequestLogger stores a request scoped logger carrying the request id.
func RequestLogger(base *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid, _ := c.Locals("requestid").(string)
		c.Locals("logger", base.With("request_id", rid))
		return c.Next()
	}
}
