package lending

import "time"

// Lending records one rent-out cycle of a product. Percentage is the integer
// share of the rental price collected upfront (25, 50, 75 or 100); the "25%"
// string form exists only at the JSON boundary.
type Lending struct {
	ID               int64      `gorm:"primaryKey"`
	ProductID        int64      `gorm:"column:product_id;not null"`
	SellerID         int64      `gorm:"column:seller_id;not null"`
	BorrowerName     string     `gorm:"column:borrower_name;not null"`
	BorrowDate       time.Time  `gorm:"column:borrow_date;type:date"`
	ReturnDate       time.Time  `gorm:"column:return_date;type:date"`
	ActualReturnDate *time.Time `gorm:"column:actual_return_date;type:date"`
	Percentage       int        `gorm:"column:percentage;not null"`
	Status           string     `gorm:"column:status;not null;default:LENT"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Lending) TableName() string {
	return "lendings"
}
