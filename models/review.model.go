package models

import "gorm.io/datatypes"

// ReviewQuestion is one custom question of the review form. Answers must be one of Options.
type ReviewQuestion struct {
	ID      string   `json:"id"`
	Label   string   `json:"label"`
	Options []string `json:"options"`
}

type ReviewAnswer struct {
	QuestionID string `json:"question_id"`
	Value      string `json:"value"`
}

// ReviewForm is a singleton row holding the custom questions asked on every review.
type ReviewForm struct {
	Base
	Questions datatypes.JSONSlice[ReviewQuestion] `json:"questions"`
	IsActive  bool                                `json:"is_active"`
}

type CourseReview struct {
	Base
	CourseID     uint                              `json:"course_id" gorm:"uniqueIndex:idx_course_review;not null"`
	UserID       uint                              `json:"user_id" gorm:"uniqueIndex:idx_course_review;not null"`
	Rating       int                               `json:"rating" gorm:"not null"`
	Satisfaction bool                              `json:"satisfaction"`
	Comment      string                            `json:"comment" gorm:"type:text"`
	Answers      datatypes.JSONSlice[ReviewAnswer] `json:"answers"`
}
