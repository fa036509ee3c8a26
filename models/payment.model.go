package models

import "time"

const (
	PaymentSuccess = "success"
	PaymentFailed  = "failed"
)

type Payment struct {
	Base
	OrderID  string  `json:"order_id" gorm:"uniqueIndex;not null"`
	UserID   uint    `json:"user_id" gorm:"index;not null"`
	CourseID uint    `json:"course_id" gorm:"index"`
	Type     string  `json:"type" gorm:"default:'single'"`
	Amount   float64 `json:"amount"`
	Status   string  `json:"status" gorm:"index"`
	BankCode string  `json:"bank_code"`
}

// CoursePricing is the editable price sheet of a course; its values are mirrored onto Course.
type CoursePricing struct {
	Base
	CourseID         uint       `json:"course_id" gorm:"uniqueIndex;not null"`
	BasePrice        float64    `json:"base_price"`
	SalePrice        float64    `json:"sale_price"`
	DiscountPercent  float64    `json:"discount_percent"`
	DiscountTag      string     `json:"discount_tag"`
	IsDiscountActive bool       `json:"is_discount_active"`
	SaleStart        *time.Time `json:"sale_start"`
	SaleEnd          *time.Time `json:"sale_end"`
	ViewCount        int        `json:"view_count" gorm:"default:0"`
	PurchasedCount   int        `json:"purchased_count" gorm:"default:0"`
}
