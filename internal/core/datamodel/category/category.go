package category

import "time"

// Category is owned by a Director; Admins creating a category record it
// against their Director so the whole tree shares one namespace.
type Category struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;uniqueIndex:idx_categories_name_owner;not null"`
	Description string    `gorm:"column:description"`
	CreatedByID int64     `gorm:"column:created_by;uniqueIndex:idx_categories_name_owner;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Category) TableName() string {
	return "categories"
}
