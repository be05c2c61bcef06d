package lending

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	lendingDatamodel "github.com/javokhirdev/rental-management/internal/core/datamodel/lending"
)

const (
	StatusLent     = "LENT"
	StatusReturned = "RETURNED"
)

// Percentage is the share of the rental price collected upfront. It is
// stored as a plain int and crosses the JSON boundary as a "25%" literal.
type Percentage int

func (p Percentage) Valid() bool {
	switch p {
	case 25, 50, 75, 100:
		return true
	}
	return false
}

func (p Percentage) String() string {
	return strconv.Itoa(int(p)) + "%"
}

func (p Percentage) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON accepts both the "25%" literal and a bare number.
func (p *Percentage) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		s = strings.TrimSuffix(strings.TrimSpace(s), "%")
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid percentage %q", s)
		}
		*p = Percentage(n)
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid percentage: %s", string(data))
	}
	*p = Percentage(n)
	return nil
}

// Lending is one rent-out cycle. The payment fields are derived from the
// product's rental price at read time, never stored.
type Lending struct {
	ID               int64      `json:"id"`
	ProductID        int64      `json:"product_id"`
	SellerID         int64      `json:"seller_id"`
	BorrowerName     string     `json:"borrower_name"`
	BorrowDate       time.Time  `json:"borrow_date"`
	ReturnDate       time.Time  `json:"return_date"`
	ActualReturnDate *time.Time `json:"actual_return_date,omitempty"`
	Percentage       Percentage `json:"percentage"`
	Status           string     `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	AmountGiven         *decimal.Decimal `json:"amount_given,omitempty"`
	AmountRemaining     *decimal.Decimal `json:"amount_remaining,omitempty"`
	RemainingPercentage *Percentage      `json:"remaining_percentage,omitempty"`
}

func (l *Lending) IsReturned() bool { return l.Status == StatusReturned }

// ApplyPayment fills the derived payment view from the product's rental
// price: given = price × percentage / 100, remaining = price − given.
func (l *Lending) ApplyPayment(rentalPrice decimal.Decimal) {
	given := rentalPrice.
		Mul(decimal.NewFromInt(int64(l.Percentage))).
		Div(decimal.NewFromInt(100)).
		Round(2)
	remaining := rentalPrice.Sub(given).Round(2)
	remainingPct := Percentage(100 - int(l.Percentage))

	l.AmountGiven = &given
	l.AmountRemaining = &remaining
	l.RemainingPercentage = &remainingPct
}

func ToDataModel(l *Lending) *lendingDatamodel.Lending {
	return &lendingDatamodel.Lending{
		ID:               l.ID,
		ProductID:        l.ProductID,
		SellerID:         l.SellerID,
		BorrowerName:     l.BorrowerName,
		BorrowDate:       l.BorrowDate,
		ReturnDate:       l.ReturnDate,
		ActualReturnDate: l.ActualReturnDate,
		Percentage:       int(l.Percentage),
		Status:           l.Status,
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
	}
}

func FromDataModel(dm *lendingDatamodel.Lending) *Lending {
	return &Lending{
		ID:               dm.ID,
		ProductID:        dm.ProductID,
		SellerID:         dm.SellerID,
		BorrowerName:     dm.BorrowerName,
		BorrowDate:       dm.BorrowDate,
		ReturnDate:       dm.ReturnDate,
		ActualReturnDate: dm.ActualReturnDate,
		Percentage:       Percentage(dm.Percentage),
		Status:           dm.Status,
		CreatedAt:        dm.CreatedAt,
		UpdatedAt:        dm.UpdatedAt,
	}
}
