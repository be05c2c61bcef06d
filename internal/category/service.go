package category

import (
	"log/slog"

	"github.com/javokhirdev/rental-management/internal"
	"github.com/javokhirdev/rental-management/internal/auth"
	categoryDatamodel "github.com/javokhirdev/rental-management/internal/core/datamodel/category"
	"github.com/javokhirdev/rental-management/internal/tariff"
)

type RepositoryAPI interface {
	Create(c *categoryDatamodel.Category) error
	GetByID(id int64) (*categoryDatamodel.Category, error)
	GetByName(name string, directorID int64) (*categoryDatamodel.Category, error)
	ListByOwner(directorID int64) ([]*categoryDatamodel.Category, error)
	Update(c *categoryDatamodel.Category) error
	Delete(id int64) error
}

type QuotaChecker interface {
	WithinQuota(directorID int64, kind string) error
}

type Service struct {
	repo   RepositoryAPI
	quotas QuotaChecker
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, quotas QuotaChecker, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		quotas: quotas,
		logger: logger,
	}
}

// CreateCategory creates a category owned by the actor's Director. Sellers
// cannot create categories.
func (s *Service) CreateCategory(actor *auth.User, dto CreateCategoryDTO) (*Category, error) {
	if actor.IsSeller() {
		return nil, internal.ErrPermissionDenied
	}
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	directorID := actor.DirectorID()
	if err := s.quotas.WithinQuota(directorID, tariff.QuotaCategories); err != nil {
		s.logger.Warn("category creation blocked by tariff", "director_id", directorID, "error", err)
		return nil, err
	}

	if existing, err := s.repo.GetByName(dto.Name, directorID); err == nil && existing != nil {
		return nil, internal.NewConflictError("category name is already taken", internal.ErrCodeDuplicateName)
	}

	dm := &categoryDatamodel.Category{
		Name:        dto.Name,
		Description: dto.Description,
		CreatedByID: directorID,
	}
	if err := s.repo.Create(dm); err != nil {
		s.logger.Error("failed to create category", "error", err, "name", dto.Name)
		return nil, err
	}

	s.logger.Info("category created", "category_id", dm.ID, "owner_id", directorID, "actor_id", actor.ID)
	return FromDataModel(dm), nil
}

// ListCategories returns the categories of the actor's tree.
func (s *Service) ListCategories(actor *auth.User) ([]*Category, error) {
	dms, err := s.repo.ListByOwner(actor.DirectorID())
	if err != nil {
		s.logger.Error("failed to list categories", "error", err, "actor_id", actor.ID)
		return nil, err
	}

	categories := make([]*Category, 0, len(dms))
	for _, dm := range dms {
		categories = append(categories, FromDataModel(dm))
	}
	return categories, nil
}

func (s *Service) GetCategory(actor *auth.User, id int64) (*Category, error) {
	dm, err := s.fetchInScope(actor, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(dm), nil
}

// UpdateCategory renames or re-describes a category. Only the owning
// Director or their Admins may do this.
func (s *Service) UpdateCategory(actor *auth.User, id int64, dto UpdateCategoryDTO) (*Category, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	dm, err := s.fetchInScope(actor, id)
	if err != nil {
		return nil, err
	}
	if actor.IsSeller() {
		return nil, internal.ErrPermissionDenied
	}

	if dto.Name != nil && *dto.Name != dm.Name {
		if existing, err := s.repo.GetByName(*dto.Name, dm.CreatedByID); err == nil && existing != nil {
			return nil, internal.NewConflictError("category name is already taken", internal.ErrCodeDuplicateName)
		}
		dm.Name = *dto.Name
	}
	if dto.Description != nil {
		dm.Description = *dto.Description
	}

	if err := s.repo.Update(dm); err != nil {
		s.logger.Error("failed to update category", "error", err, "category_id", id)
		return nil, err
	}

	s.logger.Info("category updated", "category_id", id, "actor_id", actor.ID)
	return FromDataModel(dm), nil
}

func (s *Service) DeleteCategory(actor *auth.User, id int64) error {
	dm, err := s.fetchInScope(actor, id)
	if err != nil {
		return err
	}
	if actor.IsSeller() {
		return internal.ErrPermissionDenied
	}

	if err := s.repo.Delete(dm.ID); err != nil {
		s.logger.Error("failed to delete category", "error", err, "category_id", id)
		return err
	}

	s.logger.Info("category deleted", "category_id", id, "actor_id", actor.ID)
	return nil
}

// fetchInScope loads a category and hides other trees' categories behind
// not-found.
func (s *Service) fetchInScope(actor *auth.User, id int64) (*categoryDatamodel.Category, error) {
	dm, err := s.repo.GetByID(id)
	if err != nil || dm == nil {
		return nil, internal.ErrCategoryNotFound
	}
	if dm.CreatedByID != actor.DirectorID() {
		s.logger.Warn("out-of-scope category read", "actor_id", actor.ID, "category_id", id)
		return nil, internal.ErrCategoryNotFound
	}
	return dm, nil
}
