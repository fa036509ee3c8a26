package catalogController

import (
	"errors"
	"strconv"

	"learnhub/apperror"
	"learnhub/integrations/video"
	"learnhub/middleware"
	"learnhub/services/catalog"
	validators "learnhub/validators/catalogValidator"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) CreateSection(c *fiber.Ctx) error {
	req := middleware.Validated[validators.SectionRequest](c, "validatedSection")

	section, err := h.Content.CreateSection(c.UserContext(), req.CourseID, req.Title)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Section created successfully!", section)
}

func (h *Handler) GetSectionsByCourse(c *fiber.Ctx) error {
	courseID, ok := idParam(c, "courseId")
	if !ok {
		return nil
	}
	sections, err := h.Content.SectionsByCourse(c.UserContext(), courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Sections fetched successfully!", sections)
}

func (h *Handler) GetSection(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return nil
	}
	section, err := h.Content.SectionDetail(c.UserContext(), id)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Section fetched successfully!", section)
}

func (h *Handler) UpdateSection(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return nil
	}
	req := middleware.Validated[validators.SectionUpdateRequest](c, "validatedSectionUpdate")

	section, err := h.Content.RenameSection(c.UserContext(), id, req.Title)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Section updated successfully!", section)
}

func (h *Handler) DeleteSection(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return nil
	}
	if err := h.Content.DeleteSection(c.UserContext(), id); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Section deleted successfully!", nil)
}

func (h *Handler) ReorderSections(c *fiber.Ctx) error {
	courseID, ok := idParam(c, "courseId")
	if !ok {
		return nil
	}
	req := middleware.Validated[validators.ReorderRequest](c, "validatedReorder")

	if err := h.Content.ReorderSections(c.UserContext(), courseID, req.Order); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Sections reordered successfully!", nil)
}

func (h *Handler) CreateLecture(c *fiber.Ctx) error {
	req := middleware.Validated[validators.LectureRequest](c, "validatedLecture")

	lecture, err := h.Content.CreateLecture(c.UserContext(), catalog.LectureInput{
		SectionID: req.SectionID,
		Title:     req.Title,
		Video:     req.Video,
		Duration:  req.Duration,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lecture created successfully!", lecture)
}

func (h *Handler) GetLecture(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return nil
	}
	lecture, err := h.Content.Lecture(c.UserContext(), id)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lecture fetched successfully!", lecture)
}

func (h *Handler) GetLecturesBySection(c *fiber.Ctx) error {
	sectionID, ok := idParam(c, "sectionId")
	if !ok {
		return nil
	}
	lectures, err := h.Content.LecturesBySection(c.UserContext(), sectionID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lectures fetched successfully!", lectures)
}

func (h *Handler) UpdateLecture(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return nil
	}
	req := middleware.Validated[validators.LectureUpdateRequest](c, "validatedLectureUpdate")

	lecture, err := h.Content.UpdateLecture(c.UserContext(), id, catalog.LectureUpdate{
		Title:    req.Title,
		Video:    req.Video,
		Duration: req.Duration,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lecture updated successfully!", lecture)
}

func (h *Handler) DeleteLecture(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return nil
	}
	if err := h.Content.DeleteLecture(c.UserContext(), id); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lecture deleted successfully!", nil)
}

func (h *Handler) ReorderLectures(c *fiber.Ctx) error {
	sectionID, ok := idParam(c, "sectionId")
	if !ok {
		return nil
	}
	req := middleware.Validated[validators.ReorderRequest](c, "validatedReorder")

	if err := h.Content.ReorderLectures(c.UserContext(), sectionID, req.Order); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lectures reordered successfully!", nil)
}

// StreamLecture relays one byte range of the lecture video. A request without Range gets 416.
func (h *Handler) StreamLecture(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return nil
	}
	rangeHeader := c.Get(fiber.HeaderRange)
	if rangeHeader == "" {
		return middleware.JsonResponse(c, fiber.StatusRequestedRangeNotSatisfiable, false, "Requires Range header", nil)
	}

	location, err := h.Content.LectureVideo(c.UserContext(), id)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	chunk, err := h.Video.Fetch(c.UserContext(), location, rangeHeader)
	switch {
	case errors.Is(err, video.ErrRangeNotSatisfiable):
		return middleware.JsonResponse(c, fiber.StatusRequestedRangeNotSatisfiable, false, "Requested range not satisfiable", nil)
	case errors.Is(err, video.ErrNotFound):
		return middleware.ErrorResponse(c, apperror.NotFound("Video not found"))
	case err != nil:
		return middleware.ErrorResponse(c, apperror.Internal(err, "Failed to stream video"))
	}

	c.Set(fiber.HeaderContentRange, chunk.ContentRange)
	c.Set(fiber.HeaderAcceptRanges, "bytes")
	c.Set(fiber.HeaderContentType, chunk.ContentType)
	size := -1
	if chunk.ContentLength >= 0 {
		size = int(chunk.ContentLength)
		c.Set(fiber.HeaderContentLength, strconv.FormatInt(chunk.ContentLength, 10))
	}
	return c.Status(fiber.StatusPartialContent).SendStream(chunk.Body, size)
}
