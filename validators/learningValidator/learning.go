package learningValidator

import (
	"strings"

	"learnhub/middleware"
	"learnhub/services/quiz"

	"github.com/gofiber/fiber/v2"
)

type ProgressRequest struct {
	UserID         uint    `json:"user_id"`
	CourseID       uint    `json:"course_id"`
	SectionID      uint    `json:"section_id"`
	LectureID      uint    `json:"lecture_id" validate:"required"`
	WatchedSeconds float64 `json:"watched_seconds" validate:"gte=0"`
	Percentage     float64 `json:"percentage" validate:"gte=0,lte=100"`
}

type QuizRequest struct {
	SectionID         uint   `json:"section_id" validate:"required"`
	Title             string `json:"title" validate:"required,max=200"`
	PassingPercentage *int   `json:"passing_percentage" validate:"omitempty,gte=0,lte=100"`
}

type OptionRequest struct {
	Text      string `json:"text" validate:"required"`
	IsCorrect bool   `json:"is_correct"`
}

type QuestionRequest struct {
	SectionQuizID uint            `json:"section_quiz_id" validate:"required"`
	Question      string          `json:"question" validate:"required"`
	Options       []OptionRequest `json:"options" validate:"required,min=2,dive"`
}

type QuestionUpdateRequest struct {
	Question string          `json:"question" validate:"required"`
	Options  []OptionRequest `json:"options" validate:"required,min=2,dive"`
}

type SubmitRequest struct {
	SectionQuizID uint          `json:"section_quiz_id" validate:"required"`
	SectionID     uint          `json:"section_id"`
	CourseID      uint          `json:"course_id"`
	UserID        uint          `json:"user_id"`
	Answers       []quiz.Answer `json:"answers"`
}

// Options converts the request options into service input.
func Options(in []OptionRequest) []quiz.OptionInput {
	out := make([]quiz.OptionInput, len(in))
	for i, o := range in {
		out[i] = quiz.OptionInput{Content: strings.TrimSpace(o.Text), IsCorrect: o.IsCorrect}
	}
	return out
}

func hasCorrect(options []OptionRequest, errors map[string]string) {
	for _, o := range options {
		if o.IsCorrect {
			return
		}
	}
	if _, taken := errors["options"]; !taken {
		errors["options"] = "At least one option must be correct!"
	}
}

func UpdateProgress() fiber.Handler {
	return middleware.Body[ProgressRequest]("validatedProgress")
}

func CreateQuiz() fiber.Handler {
	return middleware.Body[QuizRequest]("validatedQuiz")
}

func CreateQuestion() fiber.Handler {
	return middleware.Body[QuestionRequest]("validatedQuestion", func(r *QuestionRequest, errors map[string]string) {
		hasCorrect(r.Options, errors)
	})
}

func UpdateQuestion() fiber.Handler {
	return middleware.Body[QuestionUpdateRequest]("validatedQuestionUpdate", func(r *QuestionUpdateRequest, errors map[string]string) {
		hasCorrect(r.Options, errors)
	})
}

func SubmitQuiz() fiber.Handler {
	return middleware.Body[SubmitRequest]("validatedSubmission", func(r *SubmitRequest, errors map[string]string) {
		for _, a := range r.Answers {
			if a.QuestionID == 0 {
				errors["answers"] = "Every answer needs a question_id!"
				return
			}
		}
	})
}
