package learningController

import (
	"learnhub/middleware"
	"learnhub/services/quiz"
	validators "learnhub/validators/learningValidator"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) CreateQuiz(c *fiber.Ctx) error {
	req := middleware.Validated[validators.QuizRequest](c, "validatedQuiz")

	created, err := h.Quizzes.CreateQuiz(c.UserContext(), quiz.QuizInput{
		SectionID:         req.SectionID,
		Title:             req.Title,
		PassingPercentage: req.PassingPercentage,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz created successfully!", created)
}

func (h *Handler) CreateQuestion(c *fiber.Ctx) error {
	req := middleware.Validated[validators.QuestionRequest](c, "validatedQuestion")

	question, err := h.Quizzes.CreateQuestion(c.UserContext(), quiz.QuestionInput{
		QuizID:  req.SectionQuizID,
		Content: req.Question,
		Options: validators.Options(req.Options),
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Question created successfully!", question)
}

func (h *Handler) UpdateQuestion(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return nil
	}
	req := middleware.Validated[validators.QuestionUpdateRequest](c, "validatedQuestionUpdate")

	question, err := h.Quizzes.UpdateQuestion(c.UserContext(), id, req.Question, validators.Options(req.Options))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Question updated successfully!", question)
}

func (h *Handler) DeleteQuestion(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return nil
	}
	if err := h.Quizzes.DeleteQuestion(c.UserContext(), id); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Question deleted successfully!", nil)
}

func (h *Handler) GetQuiz(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return nil
	}
	found, err := h.Quizzes.Quiz(c.UserContext(), id)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully!", found)
}

func (h *Handler) GetSectionQuizzes(c *fiber.Ctx) error {
	sectionID, ok := idParam(c, "sectionId")
	if !ok {
		return nil
	}
	quizzes, err := h.Quizzes.QuizzesBySection(c.UserContext(), sectionID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quizzes fetched successfully!", quizzes)
}

func (h *Handler) GetQuizResults(c *fiber.Ctx) error {
	requested, ok := idParam(c, "userId")
	if !ok {
		return nil
	}
	sectionID, ok := idParam(c, "sectionId")
	if !ok {
		return nil
	}
	userID, ok := actingUser(c, requested)
	if !ok {
		return nil
	}

	results, err := h.Quizzes.Results(c.UserContext(), userID, sectionID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Results fetched successfully!", results)
}

func (h *Handler) SubmitQuiz(c *fiber.Ctx) error {
	req := middleware.Validated[validators.SubmitRequest](c, "validatedSubmission")
	userID, ok := actingUser(c, req.UserID)
	if !ok {
		return nil
	}

	result, err := h.Quizzes.Submit(c.UserContext(), quiz.Submission{
		QuizID:    req.SectionQuizID,
		UserID:    userID,
		SectionID: req.SectionID,
		CourseID:  req.CourseID,
		Answers:   req.Answers,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz submitted successfully!", result)
}

func (h *Handler) DeleteQuiz(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return nil
	}
	if err := h.Quizzes.DeleteQuiz(c.UserContext(), id); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz deleted successfully!", nil)
}
