package commerceController

import (
	"learnhub/middleware"
	validators "learnhub/validators/commerceValidator"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) ToggleFavorite(c *fiber.Ctx) error {
	req := middleware.Validated[validators.FavoriteRequest](c, "validatedFavorite")
	userID, ok := actingUser(c, req.UserID)
	if !ok {
		return nil
	}

	result, err := h.Favorites.Toggle(c.UserContext(), userID, req.CourseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	message := "Removed from favorites"
	if result.IsFavorite {
		message = "Added to favorites"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, result)
}

func (h *Handler) GetFavorites(c *fiber.Ctx) error {
	requested, ok := idParam(c, "userId")
	if !ok {
		return nil
	}
	userID, ok := actingUser(c, requested)
	if !ok {
		return nil
	}

	favorites, err := h.Favorites.ByUser(c.UserContext(), userID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Favorites fetched successfully!", favorites)
}
