package catalogController

import (
	"learnhub/integrations/video"
	"learnhub/middleware"
	"learnhub/services/catalog"
	"learnhub/utils"

	"github.com/gofiber/fiber/v2"
)

// Handler serves the category, course, section, lecture and pricing endpoints.
type Handler struct {
	Categories *catalog.CategoryService
	Courses    *catalog.CourseService
	Content    *catalog.ContentService
	Pricing    *catalog.PricingService
	Video      video.Source
}

func idParam(c *fiber.Ctx, name string) (uint, bool) {
	id, err := utils.ParamUint(c, name)
	if err != nil {
		_ = middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid "+name+"!", nil)
		return 0, false
	}
	return id, true
}
