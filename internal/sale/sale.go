package sale

import (
	"time"

	"github.com/shopspring/decimal"

	saleDatamodel "github.com/javokhirdev/rental-management/internal/core/datamodel/sale"
)

const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"

	PaymentCash = "CASH"
	PaymentCard = "CARD"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func ValidPaymentType(pt string) bool {
	return pt == PaymentCash || pt == PaymentCard
}

// Sale mirrors the product's inventory mode: Quantity for unit products,
// ProductWeight for weighed ones. SalePrice is the total for the line.
type Sale struct {
	ID            int64            `json:"id"`
	ProductID     int64            `json:"product_id"`
	SellerID      int64            `json:"seller_id"`
	BuyerName     string           `json:"buyer_name,omitempty"`
	Quantity      *int64           `json:"quantity,omitempty"`
	ProductWeight *decimal.Decimal `json:"product_weight,omitempty"`
	SalePrice     decimal.Decimal  `json:"sale_price"`
	Status        string           `json:"status"`
	PaymentType   string           `json:"payment_type"`
	SoldAt        time.Time        `json:"sold_at"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

func (s *Sale) IsCancelled() bool { return s.Status == StatusCancelled }

type CartItem struct {
	ID        int64 `json:"id"`
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type Cart struct {
	ID       int64      `json:"id"`
	SellerID int64      `json:"seller_id"`
	Items    []CartItem `json:"items"`
}

// CheckoutResult reports how far a checkout got. FailedLine is the zero-based
// index of the first cart line that could not be sold; lines before it are
// committed and stay committed.
type CheckoutResult struct {
	Sales      []*Sale         `json:"sales"`
	Total      decimal.Decimal `json:"total"`
	FailedLine *int            `json:"failed_line,omitempty"`
}

func ToDataModel(s *Sale) *saleDatamodel.Sale {
	return &saleDatamodel.Sale{
		ID:            s.ID,
		ProductID:     s.ProductID,
		SellerID:      s.SellerID,
		BuyerName:     s.BuyerName,
		Quantity:      s.Quantity,
		ProductWeight: toNull(s.ProductWeight),
		SalePrice:     s.SalePrice,
		Status:        s.Status,
		PaymentType:   s.PaymentType,
		SoldAt:        s.SoldAt,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func FromDataModel(dm *saleDatamodel.Sale) *Sale {
	return &Sale{
		ID:            dm.ID,
		ProductID:     dm.ProductID,
		SellerID:      dm.SellerID,
		BuyerName:     dm.BuyerName,
		Quantity:      dm.Quantity,
		ProductWeight: fromNull(dm.ProductWeight),
		SalePrice:     dm.SalePrice,
		Status:        dm.Status,
		PaymentType:   dm.PaymentType,
		SoldAt:        dm.SoldAt,
		CreatedAt:     dm.CreatedAt,
		UpdatedAt:     dm.UpdatedAt,
	}
}

func toNull(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func fromNull(nd decimal.NullDecimal) *decimal.Decimal {
	if !nd.Valid {
		return nil
	}
	d := nd.Decimal
	return &d
}
