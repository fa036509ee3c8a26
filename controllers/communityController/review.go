package communityController

import (
	"learnhub/middleware"
	"learnhub/services/review"
	"learnhub/utils"
	validators "learnhub/validators/communityValidator"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) GetReviewForm(c *fiber.Ctx) error {
	form, err := h.Reviews.Form(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review form fetched successfully!", form)
}

func (h *Handler) UpdateReviewForm(c *fiber.Ctx) error {
	req := middleware.Validated[validators.ReviewFormRequest](c, "validatedReviewForm")

	form, err := h.Reviews.UpdateForm(c.UserContext(), req.Questions)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review form updated successfully!", form)
}

// GetReviews pages every review; ?userId narrows to one reviewer.
func (h *Handler) GetReviews(c *fiber.Ctx) error {
	page, err := h.Reviews.List(c.UserContext(), utils.QueryUint(c, "userId"), utils.PageFromQuery(c, 10))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reviews fetched successfully!", page)
}

func (h *Handler) SubmitReview(c *fiber.Ctx) error {
	courseID, ok := idParam(c, "courseId")
	if !ok {
		return nil
	}
	req := middleware.Validated[validators.ReviewRequest](c, "validatedReview")
	userID, ok := actingUser(c, req.UserID)
	if !ok {
		return nil
	}

	saved, err := h.Reviews.Submit(c.UserContext(), review.SubmitInput{
		CourseID:     courseID,
		UserID:       userID,
		Rating:       req.Rating,
		Satisfaction: req.Satisfaction,
		Comment:      req.Comment,
		Answers:      req.Answers,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review submitted successfully!", saved)
}

// GetMyReview answers with data null when the user has not reviewed the course.
func (h *Handler) GetMyReview(c *fiber.Ctx) error {
	courseID, ok := idParam(c, "courseId")
	if !ok {
		return nil
	}
	userID, ok := actingUser(c, utils.QueryUint(c, "userId"))
	if !ok {
		return nil
	}

	mine, err := h.Reviews.Mine(c.UserContext(), courseID, userID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review fetched successfully!", mine)
}
