package catalog

import (
	"context"
	"errors"
	"time"

	"learnhub/apperror"
	"learnhub/logger"
	"learnhub/models"
	"learnhub/repository"
)

const (
	counterViews     = "view_count"
	counterPurchases = "purchased_count"
)

type PricingService struct {
	pricing repository.PricingRepo
	courses repository.CourseRepo
	log     *logger.Logger
}

func NewPricingService(pricing repository.PricingRepo, courses repository.CourseRepo, baseLog *logger.Logger) *PricingService {
	return &PricingService{pricing: pricing, courses: courses, log: baseLog.With("service", "PricingService")}
}

type PricingInput struct {
	ID               *uint
	CourseID         uint
	BasePrice        float64
	SalePrice        float64
	DiscountPercent  float64
	DiscountTag      string
	IsDiscountActive bool
	SaleStart        *time.Time
	SaleEnd          *time.Time
}

// CoursePricingView is one row of the admin price sheet.
type CoursePricingView struct {
	CourseID     uint                  `json:"course_id"`
	Title        string                `json:"title"`
	Avatar       string                `json:"avatar"`
	NameTeacher  string                `json:"name_teacher"`
	StudentCount int                   `json:"student_count"`
	Pricing      *models.CoursePricing `json:"pricing"`
}

// Upsert writes the price sheet of a course and mirrors the prices onto the course row.
func (s *PricingService) Upsert(ctx context.Context, in PricingInput) (*models.CoursePricing, error) {
	if in.BasePrice < 0 || in.SalePrice < 0 {
		return nil, apperror.Validation("Prices cannot be negative")
	}
	if in.DiscountPercent < 0 || in.DiscountPercent > 100 {
		return nil, apperror.Validation("Discount percent must be between 0 and 100")
	}
	if in.SaleStart != nil && in.SaleEnd != nil && in.SaleEnd.Before(*in.SaleStart) {
		return nil, apperror.Validation("Sale end must be after sale start")
	}
	if _, err := s.courses.GetByID(ctx, in.CourseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("Course not found")
		}
		return nil, apperror.Internal(err, "Failed to load course")
	}

	var (
		p   *models.CoursePricing
		err error
	)
	if in.ID != nil {
		p, err = s.pricing.GetByID(ctx, *in.ID)
	} else {
		p, err = s.pricing.GetByCourse(ctx, in.CourseID)
		if errors.Is(err, repository.ErrNotFound) {
			p, err = &models.CoursePricing{CourseID: in.CourseID}, nil
		}
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("Pricing not found")
	}
	if err != nil {
		return nil, apperror.Internal(err, "Failed to load pricing")
	}

	p.CourseID = in.CourseID
	p.BasePrice = in.BasePrice
	p.SalePrice = in.SalePrice
	p.DiscountPercent = in.DiscountPercent
	p.DiscountTag = in.DiscountTag
	p.IsDiscountActive = in.IsDiscountActive
	p.SaleStart = in.SaleStart
	p.SaleEnd = in.SaleEnd
	if err := s.pricing.Save(ctx, p); err != nil {
		return nil, apperror.Internal(err, "Failed to save pricing")
	}

	err = s.courses.UpdateFields(ctx, in.CourseID, map[string]interface{}{
		"price_old":          p.BasePrice,
		"price_current":      p.SalePrice,
		"discount_percent":   p.DiscountPercent,
		"discount_tag":       p.DiscountTag,
		"is_discount_active": p.IsDiscountActive,
		"sale_start":         p.SaleStart,
		"sale_end":           p.SaleEnd,
	})
	if err != nil {
		return nil, apperror.Internal(err, "Failed to sync course prices")
	}
	return p, nil
}

// ForCourse returns nil without error when the course has no price sheet yet.
func (s *PricingService) ForCourse(ctx context.Context, courseID uint) (*models.CoursePricing, error) {
	p, err := s.pricing.GetByCourse(ctx, courseID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.Internal(err, "Failed to load pricing")
	}
	return p, nil
}

// All joins every course with its price sheet, if any.
func (s *PricingService) All(ctx context.Context) ([]CoursePricingView, error) {
	courses, _, err := s.courses.List(ctx, repository.CourseFilter{})
	if err != nil {
		return nil, apperror.Internal(err, "Failed to list courses")
	}
	sheets, err := s.pricing.List(ctx)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to list pricing")
	}
	byCourse := make(map[uint]*models.CoursePricing, len(sheets))
	for i := range sheets {
		byCourse[sheets[i].CourseID] = &sheets[i]
	}
	out := make([]CoursePricingView, 0, len(courses))
	for _, c := range courses {
		out = append(out, CoursePricingView{
			CourseID:     c.ID,
			Title:        c.Title,
			Avatar:       c.Avatar,
			NameTeacher:  c.NameTeacher,
			StudentCount: c.StudentCount,
			Pricing:      byCourse[c.ID],
		})
	}
	return out, nil
}

func (s *PricingService) TrackView(ctx context.Context, courseID uint) error {
	return s.bump(ctx, courseID, counterViews)
}

func (s *PricingService) TrackPurchase(ctx context.Context, courseID uint) error {
	return s.bump(ctx, courseID, counterPurchases)
}

func (s *PricingService) bump(ctx context.Context, courseID uint, column string) error {
	err := s.pricing.Increment(ctx, courseID, column)
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound("Pricing not found")
	}
	if err != nil {
		return apperror.Internal(err, "Failed to update pricing counter")
	}
	return nil
}
