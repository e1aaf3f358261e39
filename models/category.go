package models

// Category is a product grouping. Categories form a tree through ParentID;
// a category must never be its own ancestor (checked on write).
type Category struct {
	ID       uint       `json:"id" gorm:"primaryKey"`
	Name     string     `json:"name" gorm:"size:100;not null"`
	ParentID *uint      `json:"parent_id"`
	Parent   *Category  `json:"parent,omitempty" gorm:"foreignKey:ParentID"`
	Children []Category `json:"children,omitempty" gorm:"foreignKey:ParentID"`
}
