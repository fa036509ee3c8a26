package catalogController

import (
	"learnhub/middleware"
	"learnhub/repository"
	"learnhub/services/catalog"
	"learnhub/utils"
	validators "learnhub/validators/catalogValidator"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) CreateCourse(c *fiber.Ctx) error {
	req := middleware.Validated[validators.CourseRequest](c, "validatedCourse")

	// Teachers create courses for themselves unless an admin names someone.
	teacherID := req.TeacherID
	if teacherID == 0 || middleware.CurrentRole(c) == middleware.RoleTeacher {
		teacherID = middleware.CurrentUserID(c)
	}

	course, err := h.Courses.Create(c.UserContext(), catalog.CourseInput{
		Title:       req.Title,
		Description: req.Description,
		Avatar:      req.Avatar,
		CategoryID:  req.CategoryID,
		TeacherID:   teacherID,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

func (h *Handler) UpdateCourse(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return nil
	}
	req := middleware.Validated[validators.CourseUpdateRequest](c, "validatedCourseUpdate")

	course, err := h.Courses.Update(c.UserContext(), id, catalog.CourseUpdate{
		Title:       req.Title,
		Description: req.Description,
		Avatar:      req.Avatar,
		CategoryID:  req.CategoryID,
		TeacherID:   req.TeacherID,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

func (h *Handler) DeleteCourse(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return nil
	}
	if err := h.Courses.Delete(c.UserContext(), id); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

func (h *Handler) GetCourse(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return nil
	}
	course, err := h.Courses.Get(c.UserContext(), id)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", course)
}

// GetCourses lists courses with optional teacher_id, category_id and q filters.
func (h *Handler) GetCourses(c *fiber.Ctx) error {
	f := repository.CourseFilter{
		Page:      utils.PageFromQuery(c, 12),
		TeacherID: utils.QueryUint(c, "teacher_id"),
		Query:     c.Query("q"),
	}
	if categoryID := utils.QueryUint(c, "category_id"); categoryID != 0 {
		f.CategoryIDs = []uint{categoryID}
	}

	page, err := h.Courses.List(c.UserContext(), f)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", page)
}

func (h *Handler) GetCoursesByTeacher(c *fiber.Ctx) error {
	teacherID, ok := idParam(c, "teacherId")
	if !ok {
		return nil
	}
	page, err := h.Courses.List(c.UserContext(), repository.CourseFilter{
		Page:      utils.PageFromQuery(c, 12),
		TeacherID: teacherID,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", page)
}

func (h *Handler) SearchCourses(c *fiber.Ctx) error {
	page, err := h.Courses.Search(c.UserContext(), c.Query("q"), utils.PageFromQuery(c, 12))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", page)
}

func (h *Handler) GetRelatedCourses(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return nil
	}
	courses, err := h.Courses.Related(c.UserContext(), id)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Related courses fetched successfully!", courses)
}
