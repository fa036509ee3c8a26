package models

import "time"

const (
	EnrollmentInProgress = "IN_PROGRESS"
	EnrollmentCompleted  = "COMPLETED"

	// CompletionThreshold is the percentage at which a lecture or a course counts as done.
	CompletionThreshold = 95
)

// UserCourse is an enrollment. One row per (user, course).
type UserCourse struct {
	Base
	UserID       uint       `json:"user_id" gorm:"uniqueIndex:idx_user_course;not null"`
	CourseID     uint       `json:"course_id" gorm:"uniqueIndex:idx_user_course;not null"`
	Status       string     `json:"status" gorm:"default:'IN_PROGRESS'"`
	Progress     int        `json:"progress" gorm:"default:0"`
	LastAccessAt *time.Time `json:"last_access_at"`
}

// StatusFor maps a progress percentage onto an enrollment status.
func StatusFor(progress int) string {
	if progress >= CompletionThreshold {
		return EnrollmentCompleted
	}
	return EnrollmentInProgress
}

// LectureProgress holds one learner's watch state for one lecture.
type LectureProgress struct {
	Base
	UserID            uint    `json:"user_id" gorm:"uniqueIndex:idx_user_lecture;not null"`
	LectureID         uint    `json:"lecture_id" gorm:"uniqueIndex:idx_user_lecture;not null"`
	CourseID          uint    `json:"course_id" gorm:"index;not null"`
	SectionID         uint    `json:"section_id" gorm:"index"`
	WatchedSeconds    float64 `json:"watched_seconds" gorm:"default:0"`
	PercentageWatched float64 `json:"percentage_watched" gorm:"default:0"`
	IsCompleted       bool    `json:"is_completed"`
}

type FavoriteCourse struct {
	Base
	UserID   uint `json:"user_id" gorm:"uniqueIndex:idx_favorite;not null"`
	CourseID uint `json:"course_id" gorm:"uniqueIndex:idx_favorite;not null"`
}
