package models

import "time"

// Course is a sellable course. NameTeacher and the pricing fields are copies kept in sync on write.
type Course struct {
	Base
	Title            string     `json:"title" gorm:"not null"`
	Description      string     `json:"description" gorm:"type:text"`
	Avatar           string     `json:"avatar"`
	CategoryID       uint       `json:"category_id" gorm:"index;not null"`
	TeacherID        uint       `json:"teacher_id" gorm:"index;not null"`
	NameTeacher      string     `json:"name_teacher"`
	PriceOld         float64    `json:"price_old" gorm:"default:0"`
	PriceCurrent     float64    `json:"price_current" gorm:"default:0"`
	DiscountPercent  float64    `json:"discount_percent" gorm:"default:0"`
	DiscountTag      string     `json:"discount_tag"`
	IsDiscountActive bool       `json:"is_discount_active"`
	SaleStart        *time.Time `json:"sale_start"`
	SaleEnd          *time.Time `json:"sale_end"`
	StudentCount     int        `json:"student_count" gorm:"default:0"`
	RatingAverage    float64    `json:"rating_average" gorm:"default:0"`
	RatingCount      int        `json:"rating_count" gorm:"default:0"`
}

type Section struct {
	Base
	CourseID uint   `json:"course_id" gorm:"index;not null"`
	Title    string `json:"title" gorm:"not null"`
	Position int    `json:"order" gorm:"default:0"`
}

type Lecture struct {
	Base
	CourseID  uint   `json:"course_id" gorm:"index;not null"`
	SectionID uint   `json:"section_id" gorm:"index;not null"`
	Title     string `json:"lecture_title" gorm:"not null"`
	Video     string `json:"video"`
	Duration  int    `json:"duration" gorm:"default:0"` // seconds
	Position  int    `json:"order" gorm:"default:0"`
}
