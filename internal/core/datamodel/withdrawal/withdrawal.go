package withdrawal

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashWithdrawal is a ledger entry of money taken out by a seller. The
// lifecycle engine never mutates these; they feed balance reporting only.
type CashWithdrawal struct {
	ID        int64           `gorm:"primaryKey"`
	SellerID  int64           `gorm:"column:seller_id;not null"`
	Amount    decimal.Decimal `gorm:"column:amount;type:numeric(12,2)"`
	Comment   string          `gorm:"column:comment"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (CashWithdrawal) TableName() string {
	return "cash_withdrawals"
}
