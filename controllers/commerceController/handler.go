package commerceController

import (
	"learnhub/middleware"
	"learnhub/services/commerce"
	"learnhub/utils"

	"github.com/gofiber/fiber/v2"
)

// Handler serves enrollments, favorites, payments and revenue stats.
type Handler struct {
	Enrollments *commerce.EnrollmentService
	Favorites   *commerce.FavoriteService
	Payments    *commerce.PaymentService
}

func idParam(c *fiber.Ctx, name string) (uint, bool) {
	id, err := utils.ParamUint(c, name)
	if err != nil {
		_ = middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid "+name+"!", nil)
		return 0, false
	}
	return id, true
}

func actingUser(c *fiber.Ctx, requested uint) (uint, bool) {
	userID, err := middleware.ActingUser(c, requested)
	if err != nil {
		_ = middleware.ErrorResponse(c, err)
		return 0, false
	}
	return userID, true
}
