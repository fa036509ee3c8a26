package models

// DefaultPassingPercentage applies when a quiz is created without a threshold.
const DefaultPassingPercentage = 80

// SectionQuiz is the quiz attached to a course section.
type SectionQuiz struct {
	Base
	SectionID         uint           `json:"section_id" gorm:"index;not null"`
	CourseID          uint           `json:"course_id" gorm:"index"`
	Title             string         `json:"title" gorm:"not null"`
	PassingPercentage int            `json:"passing_percentage" gorm:"default:80"`
	Position          int            `json:"order" gorm:"default:0"`
	Questions         []QuizQuestion `json:"questions,omitempty" gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`
}

type QuizQuestion struct {
	Base
	QuizID   uint         `json:"quiz_id" gorm:"index;not null"`
	Content  string       `json:"content" gorm:"type:text;not null"`
	Position int          `json:"order" gorm:"default:0"`
	Options  []QuizOption `json:"options" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
}

type QuizOption struct {
	Base
	QuestionID uint   `json:"question_id" gorm:"index;not null"`
	Content    string `json:"content" gorm:"not null"`
	IsCorrect  bool   `json:"is_correct"`
}

// SectionQuizResult is the latest graded attempt, one row per (user, section, quiz).
type SectionQuizResult struct {
	Base
	UserID         uint `json:"user_id" gorm:"uniqueIndex:idx_quiz_result;not null"`
	SectionID      uint `json:"section_id" gorm:"uniqueIndex:idx_quiz_result;not null"`
	QuizID         uint `json:"section_quiz_id" gorm:"uniqueIndex:idx_quiz_result;not null"`
	CourseID       uint `json:"course_id" gorm:"index"`
	CorrectCount   int  `json:"correct_count"`
	TotalQuestions int  `json:"total_questions"`
	Percentage     int  `json:"percentage"`
	IsPassed       bool `json:"is_passed"`
}
