package tariff

import (
	"time"

	tariffDatamodel "github.com/javokhirdev/rental-management/internal/core/datamodel/tariff"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Quota kinds checked against the owning Director's active tariff.
const (
	QuotaAdmins     = "admins"
	QuotaSellers    = "sellers"
	QuotaProducts   = "products"
	QuotaCategories = "categories"
)

type Tariff struct {
	ID            int64     `json:"id"`
	DirectorID    int64     `json:"director_id"`
	AdminCount    int64     `json:"admin_count"`
	SellerCount   int64     `json:"seller_count"`
	ProductCount  int64     `json:"product_count"`
	CategoryCount int64     `json:"category_count"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Covers reports whether the tariff's validity window contains the given day.
// Both boundary dates are inclusive.
func (t *Tariff) Covers(day time.Time) bool {
	d := day.Truncate(24 * time.Hour)
	return !d.Before(t.StartDate.Truncate(24*time.Hour)) &&
		!d.After(t.EndDate.Truncate(24*time.Hour))
}

// Limit returns the ceiling for a quota kind.
func (t *Tariff) Limit(kind string) int64 {
	switch kind {
	case QuotaAdmins:
		return t.AdminCount
	case QuotaSellers:
		return t.SellerCount
	case QuotaProducts:
		return t.ProductCount
	case QuotaCategories:
		return t.CategoryCount
	}
	return 0
}

func ToDataModel(t *Tariff) *tariffDatamodel.Tariff {
	return &tariffDatamodel.Tariff{
		ID:            t.ID,
		DirectorID:    t.DirectorID,
		AdminCount:    t.AdminCount,
		SellerCount:   t.SellerCount,
		ProductCount:  t.ProductCount,
		CategoryCount: t.CategoryCount,
		StartDate:     t.StartDate,
		EndDate:       t.EndDate,
		Status:        t.Status,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func FromDataModel(dm *tariffDatamodel.Tariff) *Tariff {
	return &Tariff{
		ID:            dm.ID,
		DirectorID:    dm.DirectorID,
		AdminCount:    dm.AdminCount,
		SellerCount:   dm.SellerCount,
		ProductCount:  dm.ProductCount,
		CategoryCount: dm.CategoryCount,
		StartDate:     dm.StartDate,
		EndDate:       dm.EndDate,
		Status:        dm.Status,
		CreatedAt:     dm.CreatedAt,
		UpdatedAt:     dm.UpdatedAt,
	}
}
