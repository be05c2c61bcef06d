package tariff

import "time"

// Tariff is the per-Director quota object. At most one row per director may
// have status=active; activation of a new tariff deactivates the prior one.
type Tariff struct {
	ID            int64     `gorm:"primaryKey"`
	DirectorID    int64     `gorm:"column:director_id;not null"`
	AdminCount    int64     `gorm:"column:admin_count;not null"`
	SellerCount   int64     `gorm:"column:seller_count;not null"`
	ProductCount  int64     `gorm:"column:product_count;not null"`
	CategoryCount int64     `gorm:"column:category_count;not null"`
	StartDate     time.Time `gorm:"column:start_date;type:date"`
	EndDate       time.Time `gorm:"column:end_date;type:date"`
	Status        string    `gorm:"column:status;not null;default:active"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Tariff) TableName() string {
	return "tariffs"
}
