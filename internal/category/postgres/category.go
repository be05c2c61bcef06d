package postgres

import (
	"gorm.io/gorm"

	"github.com/javokhirdev/rental-management/internal/category"
	categoryDatamodel "github.com/javokhirdev/rental-management/internal/core/datamodel/category"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) category.RepositoryAPI {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(c *categoryDatamodel.Category) error {
	return r.db.Create(c).Error
}

func (r *CategoryRepository) GetByID(id int64) (*categoryDatamodel.Category, error) {
	var c categoryDatamodel.Category
	err := r.db.Where("id = ?", id).First(&c).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepository) GetByName(name string, directorID int64) (*categoryDatamodel.Category, error) {
	var c categoryDatamodel.Category
	err := r.db.Where("name = ? AND created_by = ?", name, directorID).First(&c).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepository) ListByOwner(directorID int64) ([]*categoryDatamodel.Category, error) {
	var categories []*categoryDatamodel.Category
	err := r.db.Where("created_by = ?", directorID).
		Order("name ASC").
		Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) Update(c *categoryDatamodel.Category) error {
	return r.db.Save(c).Error
}

func (r *CategoryRepository) Delete(id int64) error {
	return r.db.Delete(&categoryDatamodel.Category{}, id).Error
}
