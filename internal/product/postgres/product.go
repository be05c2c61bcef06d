package postgres

import (
	"gorm.io/gorm"

	productDatamodel "github.com/javokhirdev/rental-management/internal/core/datamodel/product"
	"github.com/javokhirdev/rental-management/internal/product"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) product.RepositoryAPI {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(p *productDatamodel.Product) error {
	return r.db.Create(p).Error
}

func (r *ProductRepository) GetByID(id int64) (*productDatamodel.Product, error) {
	var p productDatamodel.Product
	err := r.db.Where("id = ?", id).First(&p).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) ListByOwners(ownerIDs []int64, status string) ([]*productDatamodel.Product, error) {
	var products []*productDatamodel.Product
	q := r.db.Where("admin_id IN ?", ownerIDs)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("created_at DESC").Find(&products).Error
	return products, err
}

func (r *ProductRepository) Update(p *productDatamodel.Product) error {
	return r.db.Save(p).Error
}

func (r *ProductRepository) Delete(id int64) error {
	return r.db.Delete(&productDatamodel.Product{}, id).Error
}
