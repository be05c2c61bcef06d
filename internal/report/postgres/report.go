package postgres

import (
	"time"

	"gorm.io/gorm"

	withdrawalDatamodel "github.com/javokhirdev/rental-management/internal/core/datamodel/withdrawal"
	"github.com/javokhirdev/rental-management/internal/report"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

const saleRevenueQuery = `
SELECT s.sold_at, s.seller_id, s.sale_price
FROM sales s
JOIN products p ON p.id = s.product_id
WHERE p.admin_id IN ?
  AND s.status <> 'CANCELLED'
  AND s.sold_at >= ? AND s.sold_at < ?
`

func (r *ReportRepository) SaleRevenue(ownerIDs []int64, from, to time.Time) ([]report.RevenueRow, error) {
	return r.scanRows(saleRevenueQuery, ownerIDs, from, to)
}

const lendingRevenueQuery = `
SELECT l.borrow_date, l.seller_id, p.rental_price * l.percentage / 100.0
FROM lendings l
JOIN products p ON p.id = l.product_id
WHERE p.admin_id IN ?
  AND l.borrow_date >= ? AND l.borrow_date < ?
`

func (r *ReportRepository) LendingRevenue(ownerIDs []int64, from, to time.Time) ([]report.RevenueRow, error) {
	return r.scanRows(lendingRevenueQuery, ownerIDs, from, to)
}

func (r *ReportRepository) scanRows(query string, ownerIDs []int64, from, to time.Time) ([]report.RevenueRow, error) {
	rows, err := r.db.Raw(query, ownerIDs, from, to).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []report.RevenueRow
	for rows.Next() {
		var row report.RevenueRow
		if err := rows.Scan(&row.Day, &row.SellerID, &row.Amount); err != nil {
			return nil, err
		}
		row.Amount = row.Amount.Round(2)
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *ReportRepository) ListWithdrawals(sellerIDs []int64) ([]*withdrawalDatamodel.CashWithdrawal, error) {
	var out []*withdrawalDatamodel.CashWithdrawal
	err := r.db.
		Where("seller_id IN ?", sellerIDs).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ReportRepository) CreateWithdrawal(dm *withdrawalDatamodel.CashWithdrawal) error {
	return r.db.Create(dm).Error
}
