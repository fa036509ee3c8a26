package catalogController

import (
	"learnhub/middleware"
	"learnhub/services/catalog"
	validators "learnhub/validators/catalogValidator"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) GetAllPricing(c *fiber.Ctx) error {
	rows, err := h.Pricing.All(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pricing fetched successfully!", rows)
}

func (h *Handler) UpsertPricing(c *fiber.Ctx) error {
	req := middleware.Validated[validators.PricingRequest](c, "validatedPricing")

	pricing, err := h.Pricing.Upsert(c.UserContext(), catalog.PricingInput{
		ID:               req.ID,
		CourseID:         req.CourseID,
		BasePrice:        req.BasePrice,
		SalePrice:        req.SalePrice,
		DiscountPercent:  req.DiscountPercent,
		DiscountTag:      req.DiscountTag,
		IsDiscountActive: req.IsDiscountActive,
		SaleStart:        req.SaleStart,
		SaleEnd:          req.SaleEnd,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pricing saved successfully!", pricing)
}

// GetCoursePricing answers with data null when the course has no price sheet.
func (h *Handler) GetCoursePricing(c *fiber.Ctx) error {
	courseID, ok := idParam(c, "courseId")
	if !ok {
		return nil
	}
	pricing, err := h.Pricing.ForCourse(c.UserContext(), courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pricing fetched successfully!", pricing)
}

func (h *Handler) TrackView(c *fiber.Ctx) error {
	courseID, ok := idParam(c, "courseId")
	if !ok {
		return nil
	}
	if err := h.Pricing.TrackView(c.UserContext(), courseID); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "View tracked", nil)
}

func (h *Handler) TrackPurchase(c *fiber.Ctx) error {
	courseID, ok := idParam(c, "courseId")
	if !ok {
		return nil
	}
	if err := h.Pricing.TrackPurchase(c.UserContext(), courseID); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Purchase tracked", nil)
}
