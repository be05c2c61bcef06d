package product

import (
	"log/slog"

	"github.com/javokhirdev/rental-management/internal"
	"github.com/javokhirdev/rental-management/internal/auth"
	productDatamodel "github.com/javokhirdev/rental-management/internal/core/datamodel/product"
	"github.com/javokhirdev/rental-management/internal/tariff"
)

type RepositoryAPI interface {
	Create(p *productDatamodel.Product) error
	GetByID(id int64) (*productDatamodel.Product, error)
	ListByOwners(ownerIDs []int64, status string) ([]*productDatamodel.Product, error)
	Update(p *productDatamodel.Product) error
	Delete(id int64) error
}

type QuotaChecker interface {
	WithinQuota(directorID int64, kind string) error
}

type Service struct {
	repo     RepositoryAPI
	quotas   QuotaChecker
	children auth.ChildLister
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, quotas QuotaChecker, children auth.ChildLister, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		quotas:   quotas,
		children: children,
		logger:   logger,
	}
}

// CreateProduct registers a product owned by the creating Director or Admin.
func (s *Service) CreateProduct(actor *auth.User, dto CreateProductDTO) (*Product, error) {
	if actor.IsSeller() {
		return nil, internal.ErrPermissionDenied
	}
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	directorID := actor.DirectorID()
	if err := s.quotas.WithinQuota(directorID, tariff.QuotaProducts); err != nil {
		s.logger.Warn("product creation blocked by tariff", "director_id", directorID, "error", err)
		return nil, err
	}

	dm := &productDatamodel.Product{
		Name:        dto.Name,
		Description: dto.Description,
		CategoryID:  dto.CategoryID,
		Choice:      dto.Choice,
		Price:       toNull(dto.Price),
		RentalPrice: toNull(dto.RentalPrice),
		Status:      StatusAvailable,
		Quantity:    dto.Quantity,
		Weight:      toNull(dto.Weight),
		CreatedByID: actor.ID,
		AdminID:     actor.ID,
	}
	if err := s.repo.Create(dm); err != nil {
		s.logger.Error("failed to create product", "error", err, "name", dto.Name)
		return nil, err
	}

	s.logger.Info("product created",
		"product_id", dm.ID,
		"choice", dm.Choice,
		"owner_id", dm.AdminID)

	return FromDataModel(dm), nil
}

// ListProducts returns the products inside the actor's scope, optionally
// filtered by status.
func (s *Service) ListProducts(actor *auth.User, status string) ([]*Product, error) {
	if status != "" && !ValidStatus(status) {
		return nil, internal.NewValidationError("invalid status filter", internal.ErrCodeInvalidStatus)
	}

	scope, err := auth.ScopeFor(actor, s.children)
	if err != nil {
		return nil, internal.ErrPermissionDenied
	}

	dms, err := s.repo.ListByOwners(scope.OwnerIDs, status)
	if err != nil {
		s.logger.Error("failed to list products", "error", err, "actor_id", actor.ID)
		return nil, err
	}

	products := make([]*Product, 0, len(dms))
	for _, dm := range dms {
		products = append(products, FromDataModel(dm))
	}
	return products, nil
}

func (s *Service) GetProduct(actor *auth.User, id int64) (*Product, error) {
	dm, _, err := s.fetchInScope(actor, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(dm), nil
}

// UpdateProduct applies partial changes and re-validates the pricing and
// inventory pairing afterwards.
func (s *Service) UpdateProduct(actor *auth.User, id int64, dto UpdateProductDTO) (*Product, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	dm, scope, err := s.fetchInScope(actor, id)
	if err != nil {
		return nil, err
	}
	if !scope.CanManage(dm.AdminID, dm.CreatedByID) {
		return nil, internal.ErrPermissionDenied
	}

	if dto.Name != nil {
		dm.Name = *dto.Name
	}
	if dto.Description != nil {
		dm.Description = *dto.Description
	}
	if dto.CategoryID != nil {
		dm.CategoryID = dto.CategoryID
	}
	if dto.Price != nil {
		dm.Price = toNull(dto.Price)
	}
	if dto.RentalPrice != nil {
		dm.RentalPrice = toNull(dto.RentalPrice)
	}
	if dto.Quantity != nil {
		dm.Quantity = dto.Quantity
		dm.Weight = toNull(nil)
	}
	if dto.Weight != nil {
		dm.Weight = toNull(dto.Weight)
		dm.Quantity = nil
	}

	if err := validatePricing(dm.Choice, fromNull(dm.Price), fromNull(dm.RentalPrice)); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}
	if err := validateInventory(dm.Quantity, fromNull(dm.Weight)); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeInvalidInventory)
	}

	if err := s.repo.Update(dm); err != nil {
		s.logger.Error("failed to update product", "error", err, "product_id", id)
		return nil, err
	}

	s.logger.Info("product updated", "product_id", id, "actor_id", actor.ID)
	return FromDataModel(dm), nil
}

// UpdateStatus handles the manual status endpoint. LENT_OUT belongs to the
// lending lifecycle and cannot be set by hand, and a lent-out product cannot
// be touched until it comes back.
func (s *Service) UpdateStatus(actor *auth.User, id int64, dto UpdateStatusDTO) (*Product, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeInvalidStatus)
	}
	if dto.Status == StatusLentOut {
		return nil, internal.NewValidationError("LENT_OUT is set by the lending lifecycle", internal.ErrCodeInvalidStatus)
	}

	dm, scope, err := s.fetchInScope(actor, id)
	if err != nil {
		return nil, err
	}
	if !scope.CanManage(dm.AdminID, dm.CreatedByID) {
		return nil, internal.ErrPermissionDenied
	}
	if dm.Status == StatusLentOut {
		return nil, internal.NewValidationError("product is currently lent out", internal.ErrCodeInvalidStatus)
	}

	dm.Status = dto.Status
	if err := s.repo.Update(dm); err != nil {
		s.logger.Error("failed to update product status", "error", err, "product_id", id)
		return nil, err
	}

	s.logger.Info("product status updated", "product_id", id, "status", dto.Status, "actor_id", actor.ID)
	return FromDataModel(dm), nil
}

func (s *Service) DeleteProduct(actor *auth.User, id int64) error {
	dm, scope, err := s.fetchInScope(actor, id)
	if err != nil {
		return err
	}
	if !scope.CanManage(dm.AdminID, dm.CreatedByID) {
		return internal.ErrPermissionDenied
	}
	if dm.Status == StatusLentOut {
		return internal.NewValidationError("product is currently lent out", internal.ErrCodeInvalidStatus)
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete product", "error", err, "product_id", id)
		return err
	}

	s.logger.Info("product deleted", "product_id", id, "actor_id", actor.ID)
	return nil
}

// fetchInScope loads a product and hides other tenants' products behind
// not-found.
func (s *Service) fetchInScope(actor *auth.User, id int64) (*productDatamodel.Product, *auth.Scope, error) {
	scope, err := auth.ScopeFor(actor, s.children)
	if err != nil {
		return nil, nil, internal.ErrPermissionDenied
	}

	dm, err := s.repo.GetByID(id)
	if err != nil || dm == nil {
		return nil, nil, internal.ErrProductNotFound
	}
	if !scope.Sees(dm.AdminID) {
		s.logger.Warn("out-of-scope product read", "actor_id", actor.ID, "product_id", id)
		return nil, nil, internal.ErrProductNotFound
	}
	return dm, scope, nil
}
