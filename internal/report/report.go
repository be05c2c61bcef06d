package report

import (
	"time"

	"github.com/shopspring/decimal"

	withdrawalDatamodel "github.com/javokhirdev/rental-management/internal/core/datamodel/withdrawal"
)

// Revenue buckets.
const (
	BucketDay   = "day"
	BucketWeek  = "week"
	BucketMonth = "month"
)

func ValidBucket(b string) bool {
	return b == BucketDay || b == BucketWeek || b == BucketMonth
}

// RevenuePoint is one time bucket of revenue. Only non-cancelled sales and
// the upfront share of lendings count.
type RevenuePoint struct {
	Period         string          `json:"period"`
	SalesRevenue   decimal.Decimal `json:"sales_revenue"`
	LendingRevenue decimal.Decimal `json:"lending_revenue"`
	Total          decimal.Decimal `json:"total"`
}

// SellerKPI aggregates one seller's activity over a range.
type SellerKPI struct {
	SellerID       int64           `json:"seller_id"`
	SaleCount      int64           `json:"sale_count"`
	SalesRevenue   decimal.Decimal `json:"sales_revenue"`
	LendingCount   int64           `json:"lending_count"`
	LendingRevenue decimal.Decimal `json:"lending_revenue"`
}

type Withdrawal struct {
	ID        int64           `json:"id"`
	SellerID  int64           `json:"seller_id"`
	Amount    decimal.Decimal `json:"amount"`
	Comment   string          `json:"comment,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// SellerBalance is revenue taken in minus cash withdrawn, per seller.
type SellerBalance struct {
	SellerID  int64           `json:"seller_id"`
	Revenue   decimal.Decimal `json:"revenue"`
	Withdrawn decimal.Decimal `json:"withdrawn"`
	Balance   decimal.Decimal `json:"balance"`
}

func WithdrawalFromDataModel(dm *withdrawalDatamodel.CashWithdrawal) *Withdrawal {
	return &Withdrawal{
		ID:        dm.ID,
		SellerID:  dm.SellerID,
		Amount:    dm.Amount,
		Comment:   dm.Comment,
		CreatedAt: dm.CreatedAt,
	}
}
