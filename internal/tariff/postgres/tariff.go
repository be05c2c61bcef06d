package postgres

import (
	"gorm.io/gorm"

	categoryDatamodel "github.com/javokhirdev/rental-management/internal/core/datamodel/category"
	productDatamodel "github.com/javokhirdev/rental-management/internal/core/datamodel/product"
	tariffDatamodel "github.com/javokhirdev/rental-management/internal/core/datamodel/tariff"
	userDatamodel "github.com/javokhirdev/rental-management/internal/core/datamodel/user"
	"github.com/javokhirdev/rental-management/internal/tariff"
)

type TariffRepository struct {
	db *gorm.DB
}

func NewTariffRepository(db *gorm.DB) tariff.RepositoryAPI {
	return &TariffRepository{db: db}
}

// CreateAndActivate inserts the new tariff and deactivates any previously
// active one for the same director in a single transaction.
func (r *TariffRepository) CreateAndActivate(t *tariffDatamodel.Tariff) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&tariffDatamodel.Tariff{}).
			Where("director_id = ? AND status = ?", t.DirectorID, tariff.StatusActive).
			Update("status", tariff.StatusInactive).Error
		if err != nil {
			return err
		}
		t.Status = tariff.StatusActive
		return tx.Create(t).Error
	})
}

func (r *TariffRepository) GetActive(directorID int64) (*tariffDatamodel.Tariff, error) {
	var t tariffDatamodel.Tariff
	err := r.db.Where("director_id = ? AND status = ?", directorID, tariff.StatusActive).
		Order("created_at DESC").
		First(&t).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TariffRepository) ListByDirector(directorID int64) ([]*tariffDatamodel.Tariff, error) {
	var tariffs []*tariffDatamodel.Tariff
	err := r.db.Where("director_id = ?", directorID).
		Order("created_at DESC").
		Find(&tariffs).Error
	return tariffs, err
}

// CountUsage counts the director's live resources of one quota kind. Products
// are owned by the director or one of their admins, so the owner set is
// resolved through the users table.
func (r *TariffRepository) CountUsage(directorID int64, kind string) (int64, error) {
	var count int64
	var err error

	switch kind {
	case tariff.QuotaAdmins, tariff.QuotaSellers:
		role := "ADMIN"
		if kind == tariff.QuotaSellers {
			role = "SELLER"
		}
		err = r.db.Model(&userDatamodel.User{}).
			Where("created_by = ? AND role = ? AND is_active = ?", directorID, role, true).
			Count(&count).Error
	case tariff.QuotaProducts:
		sub := r.db.Model(&userDatamodel.User{}).
			Select("id").
			Where("id = ? OR created_by = ?", directorID, directorID)
		err = r.db.Model(&productDatamodel.Product{}).
			Where("admin_id IN (?)", sub).
			Count(&count).Error
	case tariff.QuotaCategories:
		err = r.db.Model(&categoryDatamodel.Category{}).
			Where("created_by = ?", directorID).
			Count(&count).Error
	}

	return count, err
}
