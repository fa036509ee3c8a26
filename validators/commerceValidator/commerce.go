package commerceValidator

import (
	"learnhub/middleware"
	"learnhub/models"

	"github.com/gofiber/fiber/v2"
)

type EnrollRequest struct {
	UserID   uint `json:"user_id"`
	CourseID uint `json:"course_id" validate:"required"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type FavoriteRequest struct {
	UserID   uint `json:"userId"`
	CourseID uint `json:"courseId" validate:"required"`
}

// ReturnQuery mirrors the gateway's return parameters.
type ReturnQuery struct {
	ResponseCode string `query:"vnp_ResponseCode"`
	TxnRef       string `query:"vnp_TxnRef"`
	BankCode     string `query:"vnp_BankCode"`
	Amount       int64  `query:"vnp_Amount"`
}

func Enroll() fiber.Handler {
	return middleware.Body[EnrollRequest]("validatedEnrollment")
}

func UpdateStatus() fiber.Handler {
	return middleware.Body[StatusRequest]("validatedStatus", func(r *StatusRequest, errors map[string]string) {
		if r.Status != models.EnrollmentInProgress && r.Status != models.EnrollmentCompleted {
			errors["status"] = "status must be IN_PROGRESS or COMPLETED!"
		}
	})
}

func ToggleFavorite() fiber.Handler {
	return middleware.Body[FavoriteRequest]("validatedFavorite")
}

// PaymentReturn never rejects: the gateway must always be redirected somewhere.
func PaymentReturn() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ReturnQuery)
		_ = c.QueryParser(reqData)
		c.Locals("validatedReturn", reqData)
		return c.Next()
	}
}
