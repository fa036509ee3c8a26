package commerceController

import (
	"learnhub/middleware"
	validators "learnhub/validators/commerceValidator"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) Enroll(c *fiber.Ctx) error {
	req := middleware.Validated[validators.EnrollRequest](c, "validatedEnrollment")
	userID, ok := actingUser(c, req.UserID)
	if !ok {
		return nil
	}

	enrollment, err := h.Enrollments.Enroll(c.UserContext(), userID, req.CourseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrolled successfully!", enrollment)
}

func (h *Handler) UpdateEnrollmentStatus(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return nil
	}
	req := middleware.Validated[validators.StatusRequest](c, "validatedStatus")

	enrollment, err := h.Enrollments.UpdateStatus(c.UserContext(), id, req.Status)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Status updated successfully!", enrollment)
}

func (h *Handler) GetCoursesByUser(c *fiber.Ctx) error {
	requested, ok := idParam(c, "userId")
	if !ok {
		return nil
	}
	userID, ok := actingUser(c, requested)
	if !ok {
		return nil
	}

	courses, err := h.Enrollments.CoursesByUser(c.UserContext(), userID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", courses)
}

func (h *Handler) GetUsersByCourse(c *fiber.Ctx) error {
	courseID, ok := idParam(c, "courseId")
	if !ok {
		return nil
	}
	users, err := h.Enrollments.UsersByCourse(c.UserContext(), courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched successfully!", users)
}

func (h *Handler) DeleteEnrollment(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return nil
	}
	enrollment, err := h.Enrollments.Delete(c.UserContext(), id)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment deleted successfully!", enrollment)
}
