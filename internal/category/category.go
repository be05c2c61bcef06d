package category

import (
	"time"

	categoryDatamodel "github.com/javokhirdev/rental-management/internal/core/datamodel/category"
)

// Category names are shared across one Director's whole tree; created_by is
// always the Director even when an Admin did the creating.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedByID int64     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ToDataModel(c *Category) *categoryDatamodel.Category {
	return &categoryDatamodel.Category{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedByID: c.CreatedByID,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func FromDataModel(dm *categoryDatamodel.Category) *Category {
	return &Category{
		ID:          dm.ID,
		Name:        dm.Name,
		Description: dm.Description,
		CreatedByID: dm.CreatedByID,
		CreatedAt:   dm.CreatedAt,
		UpdatedAt:   dm.UpdatedAt,
	}
}
