package sale

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale mirrors the product's inventory mode: Quantity for discrete products,
// ProductWeight for weighed ones, never both.
type Sale struct {
	ID            int64               `gorm:"primaryKey"`
	ProductID     int64               `gorm:"column:product_id;not null"`
	SellerID      int64               `gorm:"column:seller_id;not null"`
	BuyerName     string              `gorm:"column:buyer_name"`
	Quantity      *int64              `gorm:"column:quantity"`
	ProductWeight decimal.NullDecimal `gorm:"column:product_weight;type:numeric(12,2)"`
	SalePrice     decimal.Decimal     `gorm:"column:sale_price;type:numeric(12,2)"`
	Status        string              `gorm:"column:status;not null;default:PENDING"`
	PaymentType   string              `gorm:"column:payment_type;not null;default:CASH"`
	SoldAt        time.Time           `gorm:"column:sold_at;autoCreateTime"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Sale) TableName() string {
	return "sales"
}

// Cart is a per-seller draft of pending purchases, consumed by checkout.
type Cart struct {
	ID        int64     `gorm:"primaryKey"`
	SellerID  int64     `gorm:"column:seller_id;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Cart) TableName() string {
	return "carts"
}

type CartItem struct {
	ID        int64     `gorm:"primaryKey"`
	CartID    int64     `gorm:"column:cart_id;not null"`
	ProductID int64     `gorm:"column:product_id;not null"`
	Quantity  int64     `gorm:"column:quantity;not null;default:1"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
