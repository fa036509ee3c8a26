package models

import "gorm.io/datatypes"

type ForumTopic struct {
	Base
	UserID   uint                        `json:"user_id" gorm:"index;not null"`
	CourseID *uint                       `json:"course_id" gorm:"index"`
	Title    string                      `json:"title" gorm:"not null"`
	Content  string                      `json:"content" gorm:"type:text"`
	PostType string                      `json:"post_type" gorm:"index;default:'discussion'"`
	Tags     datatypes.JSONSlice[string] `json:"tags"`
	Upvotes  IDSet                       `json:"upvotes"`
}

type ForumReply struct {
	Base
	TopicID  uint   `json:"topic_id" gorm:"index;not null"`
	UserID   uint   `json:"user_id" gorm:"index;not null"`
	ParentID *uint  `json:"parent_id" gorm:"index"`
	Content  string `json:"content" gorm:"type:text;not null"`
	Upvotes  IDSet  `json:"upvotes"`
}

type Comment struct {
	Base
	LectureID uint   `json:"lecture_id" gorm:"index;not null"`
	UserID    uint   `json:"user_id" gorm:"index;not null"`
	ParentID  *uint  `json:"parent_id" gorm:"index"`
	Content   string `json:"content" gorm:"type:text;not null"`
	Likes     IDSet  `json:"likes"`
}
