package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product carries exactly one of Price (SELL) or RentalPrice (RENT) and
// exactly one of Quantity or Weight; both pairs are enforced at the service
// layer, the columns here just allow either shape.
type Product struct {
	ID          int64               `gorm:"primaryKey"`
	Name        string              `gorm:"column:name;not null"`
	Description string              `gorm:"column:description"`
	CategoryID  *int64              `gorm:"column:category_id"`
	Choice      string              `gorm:"column:choice;not null"`
	Price       decimal.NullDecimal `gorm:"column:price;type:numeric(12,2)"`
	RentalPrice decimal.NullDecimal `gorm:"column:rental_price;type:numeric(12,2)"`
	Status      string              `gorm:"column:status;not null;default:AVAILABLE"`
	Quantity    *int64              `gorm:"column:quantity"`
	Weight      decimal.NullDecimal `gorm:"column:weight;type:numeric(12,2)"`
	LendCount   int64               `gorm:"column:lend_count;default:0"`
	CreatedByID int64               `gorm:"column:created_by;not null"`
	AdminID     int64               `gorm:"column:admin_id;not null"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string {
	return "products"
}
