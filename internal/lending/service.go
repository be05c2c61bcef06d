package lending

import (
	"context"
	"log/slog"
	"time"

	"github.com/javokhirdev/rental-management/internal"
	"github.com/javokhirdev/rental-management/internal/auth"
	"github.com/javokhirdev/rental-management/internal/core/common/schedule"
	lendingDatamodel "github.com/javokhirdev/rental-management/internal/core/datamodel/lending"
	productDatamodel "github.com/javokhirdev/rental-management/internal/core/datamodel/product"
	"github.com/javokhirdev/rental-management/internal/core/events"
	"github.com/javokhirdev/rental-management/internal/product"
)

// RepositoryAPI owns lending rows plus the product access the lifecycle
// needs. Transaction hands back a repository bound to the transaction so the
// product lock and both writes commit together.
type RepositoryAPI interface {
	Transaction(fn func(RepositoryAPI) error) error
	Create(l *lendingDatamodel.Lending) error
	GetByID(id int64) (*lendingDatamodel.Lending, error)
	ListByOwners(ownerIDs []int64) ([]*lendingDatamodel.Lending, error)
	Update(l *lendingDatamodel.Lending) error
	GetProductForUpdate(id int64) (*productDatamodel.Product, error)
	UpdateProduct(p *productDatamodel.Product) error
	ProductsByID(ids []int64) (map[int64]*productDatamodel.Product, error)
}

// DirectorLookup resolves the Director whose working-hours window gates the
// actor's operations.
type DirectorLookup interface {
	GetActor(userID int64) (*auth.User, error)
}

type Service struct {
	repo      RepositoryAPI
	children  auth.ChildLister
	directors DirectorLookup
	eventBus  *events.EventBus
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo RepositoryAPI, children auth.ChildLister, directors DirectorLookup, eventBus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		children:  children,
		directors: directors,
		eventBus:  eventBus,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateLending lends a product out. Inside one transaction the product row
// is locked, checked to be an AVAILABLE rent product in the actor's scope,
// flipped to LENT_OUT and its lend count incremented.
func (s *Service) CreateLending(actor *auth.User, dto CreateLendingDTO) (*Lending, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	scope, err := auth.ScopeFor(actor, s.children)
	if err != nil {
		return nil, internal.ErrPermissionDenied
	}
	if err := s.insideWorkingHours(actor); err != nil {
		return nil, err
	}

	var (
		dm *lendingDatamodel.Lending
		p  *productDatamodel.Product
	)
	err = s.repo.Transaction(func(tx RepositoryAPI) error {
		p, err = tx.GetProductForUpdate(dto.ProductID)
		if err != nil || p == nil || !scope.Sees(p.AdminID) {
			return internal.ErrProductNotFound
		}
		if p.Choice != product.ChoiceRent {
			return internal.ErrProductNotRentable
		}
		if p.Status != product.StatusAvailable {
			return internal.ErrProductNotAvailable
		}

		dm = &lendingDatamodel.Lending{
			ProductID:    p.ID,
			SellerID:     actor.ID,
			BorrowerName: dto.BorrowerName,
			BorrowDate:   schedule.DayOf(s.now()),
			ReturnDate:   dto.PromisedReturn(),
			Percentage:   int(dto.Percentage),
			Status:       StatusLent,
		}
		if err := tx.Create(dm); err != nil {
			return err
		}

		p.Status = product.StatusLentOut
		p.LendCount++
		return tx.UpdateProduct(p)
	})
	if err != nil {
		s.logger.Error("failed to create lending", "error", err, "product_id", dto.ProductID, "actor_id", actor.ID)
		return nil, err
	}

	s.eventBus.Publish(context.Background(), events.NewLendingCreatedEvent(dm.ID, dm.ProductID, dm.SellerID))
	s.logger.Info("lending created",
		"lending_id", dm.ID,
		"product_id", dm.ProductID,
		"seller_id", dm.SellerID,
		"percentage", dm.Percentage)

	l := FromDataModel(dm)
	if p.RentalPrice.Valid {
		l.ApplyPayment(p.RentalPrice.Decimal)
	}
	return l, nil
}

// ReturnProduct closes a lending. RETURNED is terminal; the product flips
// back to AVAILABLE in the same transaction.
func (s *Service) ReturnProduct(actor *auth.User, id int64) (*Lending, error) {
	scope, err := auth.ScopeFor(actor, s.children)
	if err != nil {
		return nil, internal.ErrPermissionDenied
	}

	var (
		dm *lendingDatamodel.Lending
		p  *productDatamodel.Product
	)
	err = s.repo.Transaction(func(tx RepositoryAPI) error {
		dm, err = tx.GetByID(id)
		if err != nil || dm == nil {
			return internal.ErrLendingNotFound
		}

		p, err = tx.GetProductForUpdate(dm.ProductID)
		if err != nil || p == nil || !scope.Sees(p.AdminID) {
			return internal.ErrLendingNotFound
		}
		if dm.Status == StatusReturned {
			return internal.ErrLendingReturned
		}

		now := s.now()
		dm.Status = StatusReturned
		dm.ActualReturnDate = &now
		if err := tx.Update(dm); err != nil {
			return err
		}

		p.Status = product.StatusAvailable
		return tx.UpdateProduct(p)
	})
	if err != nil {
		return nil, err
	}

	s.eventBus.Publish(context.Background(), events.NewLendingReturnedEvent(dm.ID, dm.ProductID, dm.SellerID))
	s.logger.Info("lending returned", "lending_id", dm.ID, "product_id", dm.ProductID, "actor_id", actor.ID)

	l := FromDataModel(dm)
	if p.RentalPrice.Valid {
		l.ApplyPayment(p.RentalPrice.Decimal)
	}
	return l, nil
}

// ListLendings returns the lendings whose product is inside the actor's
// scope, with the derived payment view filled in.
func (s *Service) ListLendings(actor *auth.User) ([]*Lending, error) {
	scope, err := auth.ScopeFor(actor, s.children)
	if err != nil {
		return nil, internal.ErrPermissionDenied
	}

	dms, err := s.repo.ListByOwners(scope.OwnerIDs)
	if err != nil {
		s.logger.Error("failed to list lendings", "error", err, "actor_id", actor.ID)
		return nil, err
	}

	productIDs := make([]int64, 0, len(dms))
	for _, dm := range dms {
		productIDs = append(productIDs, dm.ProductID)
	}
	products, err := s.repo.ProductsByID(productIDs)
	if err != nil {
		return nil, err
	}

	lendings := make([]*Lending, 0, len(dms))
	for _, dm := range dms {
		l := FromDataModel(dm)
		if p, ok := products[dm.ProductID]; ok && p.RentalPrice.Valid {
			l.ApplyPayment(p.RentalPrice.Decimal)
		}
		lendings = append(lendings, l)
	}
	return lendings, nil
}

func (s *Service) GetLending(actor *auth.User, id int64) (*Lending, error) {
	scope, err := auth.ScopeFor(actor, s.children)
	if err != nil {
		return nil, internal.ErrPermissionDenied
	}

	dm, err := s.repo.GetByID(id)
	if err != nil || dm == nil {
		return nil, internal.ErrLendingNotFound
	}

	products, err := s.repo.ProductsByID([]int64{dm.ProductID})
	if err != nil {
		return nil, err
	}
	p, ok := products[dm.ProductID]
	if !ok || !scope.Sees(p.AdminID) {
		return nil, internal.ErrLendingNotFound
	}

	l := FromDataModel(dm)
	if p.RentalPrice.Valid {
		l.ApplyPayment(p.RentalPrice.Decimal)
	}
	return l, nil
}

// insideWorkingHours enforces the tree Director's working window. Directors
// without a configured window are unrestricted.
func (s *Service) insideWorkingHours(actor *auth.User) error {
	director := actor
	if !actor.IsDirector() {
		d, err := s.directors.GetActor(actor.DirectorID())
		if err != nil {
			return internal.ErrUserNotFound
		}
		director = d
	}

	w, err := schedule.NewWindow(director.WorkStartTime, director.WorkEndTime, "")
	if err != nil {
		return internal.NewInternalError("invalid working-hours configuration", err)
	}
	if !w.Contains(s.now()) {
		s.logger.Warn("operation outside working hours",
			"actor_id", actor.ID,
			"window_start", director.WorkStartTime,
			"window_end", director.WorkEndTime)
		return internal.ErrOutsideWorkingHours
	}
	return nil
}
