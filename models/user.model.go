package models

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

type User struct {
	Base
	Name     string `json:"name" gorm:"default:''"`
	Email    string `json:"email" gorm:"uniqueIndex;not null"`
	Phone    string `json:"phone" gorm:"default:''"`
	Avatar   string `json:"avatar" gorm:"default:''"`
	Role     string `json:"role" gorm:"default:'student'"`
	Password string `json:"-" gorm:"not null"`
}
