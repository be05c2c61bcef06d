package postgres

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	lendingDatamodel "github.com/javokhirdev/rental-management/internal/core/datamodel/lending"
	productDatamodel "github.com/javokhirdev/rental-management/internal/core/datamodel/product"
	"github.com/javokhirdev/rental-management/internal/lending"
)

type LendingRepository struct {
	db *gorm.DB
}

func NewLendingRepository(db *gorm.DB) lending.RepositoryAPI {
	return &LendingRepository{db: db}
}

// Transaction runs fn with a repository bound to one database transaction.
func (r *LendingRepository) Transaction(fn func(lending.RepositoryAPI) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&LendingRepository{db: tx})
	})
}

func (r *LendingRepository) Create(l *lendingDatamodel.Lending) error {
	return r.db.Create(l).Error
}

func (r *LendingRepository) GetByID(id int64) (*lendingDatamodel.Lending, error) {
	var l lendingDatamodel.Lending
	err := r.db.Where("id = ?", id).First(&l).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (r *LendingRepository) ListByOwners(ownerIDs []int64) ([]*lendingDatamodel.Lending, error) {
	var lendings []*lendingDatamodel.Lending
	err := r.db.
		Joins("JOIN products ON products.id = lendings.product_id").
		Where("products.admin_id IN ?", ownerIDs).
		Order("lendings.created_at DESC").
		Find(&lendings).Error
	return lendings, err
}

func (r *LendingRepository) Update(l *lendingDatamodel.Lending) error {
	return r.db.Save(l).Error
}

// GetProductForUpdate locks the product row for the rest of the transaction.
// sqlite has no row locks, so the clause is applied on postgres only.
func (r *LendingRepository) GetProductForUpdate(id int64) (*productDatamodel.Product, error) {
	q := r.db
	if r.db.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var p productDatamodel.Product
	err := q.Where("id = ?", id).First(&p).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *LendingRepository) UpdateProduct(p *productDatamodel.Product) error {
	return r.db.Save(p).Error
}

func (r *LendingRepository) ProductsByID(ids []int64) (map[int64]*productDatamodel.Product, error) {
	products := make(map[int64]*productDatamodel.Product, len(ids))
	if len(ids) == 0 {
		return products, nil
	}

	var rows []*productDatamodel.Product
	if err := r.db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, p := range rows {
		products[p.ID] = p
	}
	return products, nil
}
