package models

// MaxCategoryLevel bounds the depth of the category forest.
const MaxCategoryLevel = 4

// Category is a node of the course taxonomy. Level and RootID are derived at creation.
type Category struct {
	Base
	Name     string `json:"name" gorm:"not null"`
	Slug     string `json:"slug" gorm:"uniqueIndex;not null"`
	ParentID *uint  `json:"parent_id" gorm:"index"`
	RootID   *uint  `json:"root_id" gorm:"index"`
	Level    int    `json:"level" gorm:"not null"`
	IsActive bool   `json:"is_active" gorm:"not null"`
}

func (c *Category) IsRoot() bool { return c.ParentID == nil }
