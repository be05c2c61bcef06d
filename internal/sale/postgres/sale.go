package postgres

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	productDatamodel "github.com/javokhirdev/rental-management/internal/core/datamodel/product"
	saleDatamodel "github.com/javokhirdev/rental-management/internal/core/datamodel/sale"
	"github.com/javokhirdev/rental-management/internal/sale"
)

type SaleRepository struct {
	db *gorm.DB
}

func NewSaleRepository(db *gorm.DB) sale.RepositoryAPI {
	return &SaleRepository{db: db}
}

// Transaction runs fn with a repository bound to one database transaction.
func (r *SaleRepository) Transaction(fn func(sale.RepositoryAPI) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&SaleRepository{db: tx})
	})
}

func (r *SaleRepository) CreateSale(s *saleDatamodel.Sale) error {
	return r.db.Create(s).Error
}

func (r *SaleRepository) GetSaleByID(id int64) (*saleDatamodel.Sale, error) {
	var s saleDatamodel.Sale
	err := r.db.Where("id = ?", id).First(&s).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *SaleRepository) ListByOwners(ownerIDs []int64) ([]*saleDatamodel.Sale, error) {
	var sales []*saleDatamodel.Sale
	err := r.db.
		Joins("JOIN products ON products.id = sales.product_id").
		Where("products.admin_id IN ?", ownerIDs).
		Order("sales.sold_at DESC").
		Find(&sales).Error
	return sales, err
}

func (r *SaleRepository) UpdateSale(s *saleDatamodel.Sale) error {
	return r.db.Save(s).Error
}

// GetProductForUpdate locks the product row for the rest of the transaction.
// sqlite has no row locks, so the clause is applied on postgres only.
func (r *SaleRepository) GetProductForUpdate(id int64) (*productDatamodel.Product, error) {
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

func (r *SaleRepository) UpdateProduct(p *productDatamodel.Product) error {
	return r.db.Save(p).Error
}

func (r *SaleRepository) ProductsByID(ids []int64) (map[int64]*productDatamodel.Product, error) {
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

func (r *SaleRepository) GetCartBySeller(sellerID int64) (*saleDatamodel.Cart, error) {
	var c saleDatamodel.Cart
	err := r.db.Where("seller_id = ?", sellerID).First(&c).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *SaleRepository) CreateCart(c *saleDatamodel.Cart) error {
	return r.db.Create(c).Error
}

func (r *SaleRepository) GetCartItems(cartID int64) ([]*saleDatamodel.CartItem, error) {
	var items []*saleDatamodel.CartItem
	err := r.db.Where("cart_id = ?", cartID).Order("id ASC").Find(&items).Error
	return items, err
}

func (r *SaleRepository) GetCartItem(id int64) (*saleDatamodel.CartItem, error) {
	var item saleDatamodel.CartItem
	err := r.db.Where("id = ?", id).First(&item).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *SaleRepository) AddCartItem(item *saleDatamodel.CartItem) error {
	return r.db.Create(item).Error
}

func (r *SaleRepository) UpdateCartItem(item *saleDatamodel.CartItem) error {
	return r.db.Save(item).Error
}

func (r *SaleRepository) DeleteCartItem(id int64) error {
	return r.db.Delete(&saleDatamodel.CartItem{}, id).Error
}

func (r *SaleRepository) ClearCart(cartID int64) error {
	return r.db.Where("cart_id = ?", cartID).Delete(&saleDatamodel.CartItem{}).Error
}
