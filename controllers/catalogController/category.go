package catalogController

import (
	"learnhub/middleware"
	"learnhub/services/catalog"
	validators "learnhub/validators/catalogValidator"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) CreateCategory(c *fiber.Ctx) error {
	req := middleware.Validated[validators.CategoryRequest](c, "validatedCategory")

	category, err := h.Categories.Create(c.UserContext(), catalog.CreateCategoryInput{
		Name:     req.Name,
		ParentID: req.ParentID,
		IsActive: req.IsActive,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Category created successfully!", category)
}

// GetCategories lists categories; ?active=true hides disabled ones.
func (h *Handler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.Categories.List(c.UserContext(), c.QueryBool("active"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Categories fetched successfully!", categories)
}

func (h *Handler) GetCategoryTree(c *fiber.Ctx) error {
	tree, err := h.Categories.Tree(c.UserContext(), c.QueryBool("active"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Category tree fetched successfully!", tree)
}

func (h *Handler) GetCategory(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return nil
	}
	category, err := h.Categories.Get(c.UserContext(), id)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Category fetched successfully!", category)
}

func (h *Handler) UpdateCategory(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return nil
	}
	req := middleware.Validated[validators.CategoryUpdateRequest](c, "validatedCategoryUpdate")

	category, err := h.Categories.Update(c.UserContext(), id, catalog.UpdateCategoryInput{
		Name:     req.Name,
		Slug:     req.Slug,
		IsActive: req.IsActive,
		Level:    req.Level,
		RootID:   req.RootID,
		ParentID: req.ParentID,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Category updated successfully!", category)
}

func (h *Handler) DeleteCategory(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return nil
	}
	if err := h.Categories.Delete(c.UserContext(), id); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Category deleted successfully!", nil)
}
