package learningController

import (
	"learnhub/middleware"
	"learnhub/services/progress"
	"learnhub/utils"
	validators "learnhub/validators/learningValidator"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) UpdateLectureProgress(c *fiber.Ctx) error {
	req := middleware.Validated[validators.ProgressRequest](c, "validatedProgress")
	userID, ok := actingUser(c, req.UserID)
	if !ok {
		return nil
	}

	record, err := h.Progress.RecordWatchEvent(c.UserContext(), progress.WatchEvent{
		UserID:         userID,
		CourseID:       req.CourseID,
		SectionID:      req.SectionID,
		LectureID:      req.LectureID,
		WatchedSeconds: req.WatchedSeconds,
		Percentage:     req.Percentage,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress updated successfully!", record)
}

func (h *Handler) GetLectureProgress(c *fiber.Ctx) error {
	lectureID, ok := idParam(c, "lectureId")
	if !ok {
		return nil
	}
	requested, ok := idParam(c, "userId")
	if !ok {
		return nil
	}
	userID, ok := actingUser(c, requested)
	if !ok {
		return nil
	}

	record, err := h.Progress.ForLecture(c.UserContext(), userID, lectureID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", record)
}

// GetSectionProgress returns the caller's records for a section, or ?user_id for staff.
func (h *Handler) GetSectionProgress(c *fiber.Ctx) error {
	sectionID, ok := idParam(c, "sectionId")
	if !ok {
		return nil
	}
	userID, ok := actingUser(c, utils.QueryUint(c, "user_id"))
	if !ok {
		return nil
	}

	records, err := h.Progress.ForSection(c.UserContext(), sectionID, userID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", records)
}

func (h *Handler) GetCourseLearners(c *fiber.Ctx) error {
	courseID, ok := idParam(c, "courseId")
	if !ok {
		return nil
	}
	learners, err := h.Progress.LearnersOfCourse(c.UserContext(), courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Learners fetched successfully!", learners)
}

func (h *Handler) GetUserCourses(c *fiber.Ctx) error {
	userID, ok := idParam(c, "userId")
	if !ok {
		return nil
	}
	courses, err := h.Progress.RecomputeAllCoursesForUser(c.UserContext(), userID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", courses)
}

func (h *Handler) ComputeProgress(c *fiber.Ctx) error {
	userCourseID, ok := idParam(c, "userCourseId")
	if !ok {
		return nil
	}
	result, err := h.Progress.ComputeProgress(c.UserContext(), userCourseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress computed successfully!", result)
}

func (h *Handler) GetUserCourseLectures(c *fiber.Ctx) error {
	userID, ok := idParam(c, "userId")
	if !ok {
		return nil
	}
	courseID, ok := idParam(c, "courseId")
	if !ok {
		return nil
	}
	records, err := h.Progress.ForUserCourse(c.UserContext(), userID, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lecture progress fetched successfully!", records)
}

func (h *Handler) GetAllUsersProgress(c *fiber.Ctx) error {
	overview, err := h.Progress.OverallProgressAcrossUsers(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", overview)
}
