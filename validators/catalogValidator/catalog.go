package catalogValidator

import (
	"strings"
	"time"

	"learnhub/middleware"
	"learnhub/services/catalog"

	"github.com/gofiber/fiber/v2"
)

type CategoryRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	ParentID *uint  `json:"parent_id"`
	IsActive *bool  `json:"is_active"`
}

// CategoryUpdateRequest accepts a full record; hierarchy fields are read but ignored.
type CategoryUpdateRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=120"`
	Slug     *string `json:"slug" validate:"omitempty,max=160"`
	IsActive *bool   `json:"is_active"`
	Level    *int    `json:"level"`
	RootID   *uint   `json:"root_id"`
	ParentID *uint   `json:"parent_id"`
}

type CourseRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Description string `json:"description"`
	Avatar      string `json:"avatar"`
	CategoryID  uint   `json:"category_id" validate:"required"`
	TeacherID   uint   `json:"teacher_id"`
}

type CourseUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=3,max=200"`
	Description *string `json:"description"`
	Avatar      *string `json:"avatar"`
	CategoryID  *uint   `json:"category_id"`
	TeacherID   *uint   `json:"teacher_id"`
}

type SectionRequest struct {
	CourseID uint   `json:"course_id" validate:"required"`
	Title    string `json:"title" validate:"required,max=200"`
}

type SectionUpdateRequest struct {
	Title string `json:"title" validate:"required,max=200"`
}

type ReorderRequest struct {
	Order []catalog.PositionInput `json:"order" validate:"required,min=1"`
}

type LectureRequest struct {
	SectionID uint   `json:"section_id" validate:"required"`
	Title     string `json:"lecture_title" validate:"required,max=200"`
	Video     string `json:"video"`
	Duration  int    `json:"duration" validate:"gte=0"`
}

type LectureUpdateRequest struct {
	Title    *string `json:"lecture_title" validate:"omitempty,max=200"`
	Video    *string `json:"video"`
	Duration *int    `json:"duration" validate:"omitempty,gte=0"`
}

type PricingRequest struct {
	ID               *uint      `json:"id"`
	CourseID         uint       `json:"course_id" validate:"required"`
	BasePrice        float64    `json:"base_price" validate:"gte=0"`
	SalePrice        float64    `json:"sale_price" validate:"gte=0"`
	DiscountPercent  float64    `json:"discount_percent" validate:"gte=0,lte=100"`
	DiscountTag      string     `json:"discount_tag"`
	IsDiscountActive bool       `json:"is_discount_active"`
	SaleStart        *time.Time `json:"sale_start"`
	SaleEnd          *time.Time `json:"sale_end"`
}

func CreateCategory() fiber.Handler {
	return middleware.Body[CategoryRequest]("validatedCategory", func(r *CategoryRequest, errors map[string]string) {
		r.Name = strings.TrimSpace(r.Name)
		if r.Name == "" {
			errors["name"] = "name is required!"
		}
	})
}

func UpdateCategory() fiber.Handler {
	return middleware.Body[CategoryUpdateRequest]("validatedCategoryUpdate", func(r *CategoryUpdateRequest, errors map[string]string) {
		if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
			errors["name"] = "name cannot be empty!"
		}
	})
}

func CreateCourse() fiber.Handler {
	return middleware.Body[CourseRequest]("validatedCourse", func(r *CourseRequest, errors map[string]string) {
		r.Title = strings.TrimSpace(r.Title)
		if len(r.Title) < 3 {
			errors["title"] = "title must be at least 3 characters long!"
		}
	})
}

func UpdateCourse() fiber.Handler {
	return middleware.Body[CourseUpdateRequest]("validatedCourseUpdate")
}

func CreateSection() fiber.Handler {
	return middleware.Body[SectionRequest]("validatedSection")
}

func UpdateSection() fiber.Handler {
	return middleware.Body[SectionUpdateRequest]("validatedSectionUpdate")
}

func Reorder() fiber.Handler {
	return middleware.Body[ReorderRequest]("validatedReorder", func(r *ReorderRequest, errors map[string]string) {
		seen := make(map[uint]bool, len(r.Order))
		for _, p := range r.Order {
			if p.ID == 0 {
				errors["order"] = "every item needs an id!"
				return
			}
			if seen[p.ID] {
				errors["order"] = "ids must be unique!"
				return
			}
			seen[p.ID] = true
		}
	})
}

func CreateLecture() fiber.Handler {
	return middleware.Body[LectureRequest]("validatedLecture")
}

func UpdateLecture() fiber.Handler {
	return middleware.Body[LectureUpdateRequest]("validatedLectureUpdate")
}

func UpsertPricing() fiber.Handler {
	return middleware.Body[PricingRequest]("validatedPricing", func(r *PricingRequest, errors map[string]string) {
		if r.SaleStart != nil && r.SaleEnd != nil && r.SaleEnd.Before(*r.SaleStart) {
			errors["sale_end"] = "sale_end must be after sale_start!"
		}
	})
}
