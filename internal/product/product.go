package product

import (
	"time"

	"github.com/shopspring/decimal"

	productDatamodel "github.com/javokhirdev/rental-management/internal/core/datamodel/product"
)

const (
	ChoiceRent = "RENT"
	ChoiceSell = "SELL"

	StatusAvailable    = "AVAILABLE"
	StatusNotAvailable = "NOT_AVAILABLE"
	StatusLentOut      = "LENT_OUT"
)

func ValidChoice(choice string) bool {
	return choice == ChoiceRent || choice == ChoiceSell
}

func ValidStatus(status string) bool {
	switch status {
	case StatusAvailable, StatusNotAvailable, StatusLentOut:
		return true
	}
	return false
}

// Product carries exactly one of Price (SELL) or RentalPrice (RENT), and
// exactly one of Quantity or Weight depending on how its stock is counted.
type Product struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	CategoryID  *int64           `json:"category_id,omitempty"`
	Choice      string           `json:"choice"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	RentalPrice *decimal.Decimal `json:"rental_price,omitempty"`
	Status      string           `json:"status"`
	Quantity    *int64           `json:"quantity,omitempty"`
	Weight      *decimal.Decimal `json:"weight,omitempty"`
	LendCount   int64            `json:"lend_count"`
	CreatedByID int64            `json:"created_by"`
	AdminID     int64            `json:"admin"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func (p *Product) IsRentable() bool { return p.Choice == ChoiceRent }
func (p *Product) IsSellable() bool { return p.Choice == ChoiceSell }

// ByWeight reports whether stock is tracked as weight rather than units.
func (p *Product) ByWeight() bool { return p.Weight != nil }

func ToDataModel(p *Product) *productDatamodel.Product {
	return &productDatamodel.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		Choice:      p.Choice,
		Price:       toNull(p.Price),
		RentalPrice: toNull(p.RentalPrice),
		Status:      p.Status,
		Quantity:    p.Quantity,
		Weight:      toNull(p.Weight),
		LendCount:   p.LendCount,
		CreatedByID: p.CreatedByID,
		AdminID:     p.AdminID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func FromDataModel(dm *productDatamodel.Product) *Product {
	return &Product{
		ID:          dm.ID,
		Name:        dm.Name,
		Description: dm.Description,
		CategoryID:  dm.CategoryID,
		Choice:      dm.Choice,
		Price:       fromNull(dm.Price),
		RentalPrice: fromNull(dm.RentalPrice),
		Status:      dm.Status,
		Quantity:    dm.Quantity,
		Weight:      fromNull(dm.Weight),
		LendCount:   dm.LendCount,
		CreatedByID: dm.CreatedByID,
		AdminID:     dm.AdminID,
		CreatedAt:   dm.CreatedAt,
		UpdatedAt:   dm.UpdatedAt,
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
