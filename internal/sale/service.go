package sale

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/javokhirdev/rental-management/internal"
	"github.com/javokhirdev/rental-management/internal/auth"
	"github.com/javokhirdev/rental-management/internal/core/common/schedule"
	productDatamodel "github.com/javokhirdev/rental-management/internal/core/datamodel/product"
	saleDatamodel "github.com/javokhirdev/rental-management/internal/core/datamodel/sale"
	"github.com/javokhirdev/rental-management/internal/core/events"
	"github.com/javokhirdev/rental-management/internal/product"
)

// RepositoryAPI owns sale and cart rows plus the product access the
// lifecycle needs. Transaction hands back a repository bound to the
// transaction so stock movements commit atomically with the sale row.
type RepositoryAPI interface {
	Transaction(fn func(RepositoryAPI) error) error
	CreateSale(s *saleDatamodel.Sale) error
	GetSaleByID(id int64) (*saleDatamodel.Sale, error)
	ListByOwners(ownerIDs []int64) ([]*saleDatamodel.Sale, error)
	UpdateSale(s *saleDatamodel.Sale) error
	GetProductForUpdate(id int64) (*productDatamodel.Product, error)
	UpdateProduct(p *productDatamodel.Product) error
	ProductsByID(ids []int64) (map[int64]*productDatamodel.Product, error)

	GetCartBySeller(sellerID int64) (*saleDatamodel.Cart, error)
	CreateCart(c *saleDatamodel.Cart) error
	GetCartItems(cartID int64) ([]*saleDatamodel.CartItem, error)
	GetCartItem(id int64) (*saleDatamodel.CartItem, error)
	AddCartItem(item *saleDatamodel.CartItem) error
	UpdateCartItem(item *saleDatamodel.CartItem) error
	DeleteCartItem(id int64) error
	ClearCart(cartID int64) error
}

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

// CreateSale sells an amount of a product, decrementing stock inside one
// transaction with the product row locked.
func (s *Service) CreateSale(actor *auth.User, dto CreateSaleDTO) (*Sale, error) {
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

	dm, err := s.sellOne(scope, actor, dto)
	if err != nil {
		return nil, err
	}
	return FromDataModel(dm), nil
}

// sellOne runs one sale line in its own transaction. Checkout reuses it per
// cart line.
func (s *Service) sellOne(scope *auth.Scope, actor *auth.User, dto CreateSaleDTO) (*saleDatamodel.Sale, error) {
	paymentType := dto.PaymentType
	if paymentType == "" {
		paymentType = PaymentCash
	}

	var dm *saleDatamodel.Sale
	err := s.repo.Transaction(func(tx RepositoryAPI) error {
		p, err := tx.GetProductForUpdate(dto.ProductID)
		if err != nil || p == nil || !scope.Sees(p.AdminID) {
			return internal.ErrProductNotFound
		}
		if p.Choice != product.ChoiceSell {
			return internal.ErrProductNotSellable
		}
		if p.Status == product.StatusNotAvailable {
			return internal.ErrProductNotAvailable
		}

		total, err := deductStock(p, dto.Quantity, dto.ProductWeight)
		if err != nil {
			return err
		}

		dm = &saleDatamodel.Sale{
			ProductID:     p.ID,
			SellerID:      actor.ID,
			BuyerName:     dto.BuyerName,
			Quantity:      dto.Quantity,
			ProductWeight: toNull(dto.ProductWeight),
			SalePrice:     total,
			Status:        StatusPending,
			PaymentType:   paymentType,
			SoldAt:        s.now(),
		}
		if err := tx.CreateSale(dm); err != nil {
			return err
		}
		return tx.UpdateProduct(p)
	})
	if err != nil {
		s.logger.Warn("sale rejected", "error", err, "product_id", dto.ProductID, "actor_id", actor.ID)
		return nil, err
	}

	s.eventBus.Publish(context.Background(),
		events.NewSaleEvent(events.EventTypeSaleCreated, dm.ID, dm.ProductID, dm.SellerID, dm.SalePrice.String()))
	s.logger.Info("sale created",
		"sale_id", dm.ID,
		"product_id", dm.ProductID,
		"seller_id", dm.SellerID,
		"total", dm.SalePrice.String())

	return dm, nil
}

// UpdateSaleStatus moves a sale between PENDING, COMPLETED and CANCELLED.
// Entering CANCELLED restores the sold amount to stock; leaving CANCELLED
// re-validates and re-decrements it.
func (s *Service) UpdateSaleStatus(actor *auth.User, id int64, dto UpdateSaleStatusDTO) (*Sale, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeInvalidStatus)
	}

	scope, err := auth.ScopeFor(actor, s.children)
	if err != nil {
		return nil, internal.ErrPermissionDenied
	}

	var (
		dm        *saleDatamodel.Sale
		oldStatus string
	)
	err = s.repo.Transaction(func(tx RepositoryAPI) error {
		dm, err = tx.GetSaleByID(id)
		if err != nil || dm == nil {
			return internal.ErrSaleNotFound
		}

		p, err := tx.GetProductForUpdate(dm.ProductID)
		if err != nil || p == nil || !scope.Sees(p.AdminID) {
			return internal.ErrSaleNotFound
		}
		if !scope.CanManage(p.AdminID, dm.SellerID) {
			return internal.ErrPermissionDenied
		}

		oldStatus = dm.Status
		if oldStatus == dto.Status {
			return nil
		}

		switch {
		case dto.Status == StatusCancelled:
			restoreStock(p, dm.Quantity, fromNull(dm.ProductWeight))
		case oldStatus == StatusCancelled:
			if _, err := deductStock(p, dm.Quantity, fromNull(dm.ProductWeight)); err != nil {
				return err
			}
		}

		dm.Status = dto.Status
		if err := tx.UpdateSale(dm); err != nil {
			return err
		}
		return tx.UpdateProduct(p)
	})
	if err != nil {
		return nil, err
	}

	switch {
	case oldStatus != StatusCancelled && dto.Status == StatusCancelled:
		s.eventBus.Publish(context.Background(),
			events.NewSaleEvent(events.EventTypeSaleCancelled, dm.ID, dm.ProductID, dm.SellerID, dm.SalePrice.String()))
	case oldStatus == StatusCancelled && dto.Status != StatusCancelled:
		s.eventBus.Publish(context.Background(),
			events.NewSaleEvent(events.EventTypeSaleReinstated, dm.ID, dm.ProductID, dm.SellerID, dm.SalePrice.String()))
	}

	s.logger.Info("sale status updated", "sale_id", id, "status", dto.Status, "actor_id", actor.ID)
	return FromDataModel(dm), nil
}

func (s *Service) ListSales(actor *auth.User) ([]*Sale, error) {
	scope, err := auth.ScopeFor(actor, s.children)
	if err != nil {
		return nil, internal.ErrPermissionDenied
	}

	dms, err := s.repo.ListByOwners(scope.OwnerIDs)
	if err != nil {
		s.logger.Error("failed to list sales", "error", err, "actor_id", actor.ID)
		return nil, err
	}

	sales := make([]*Sale, 0, len(dms))
	for _, dm := range dms {
		sales = append(sales, FromDataModel(dm))
	}
	return sales, nil
}

func (s *Service) GetSale(actor *auth.User, id int64) (*Sale, error) {
	scope, err := auth.ScopeFor(actor, s.children)
	if err != nil {
		return nil, internal.ErrPermissionDenied
	}

	dm, err := s.repo.GetSaleByID(id)
	if err != nil || dm == nil {
		return nil, internal.ErrSaleNotFound
	}

	products, err := s.repo.ProductsByID([]int64{dm.ProductID})
	if err != nil {
		return nil, err
	}
	p, ok := products[dm.ProductID]
	if !ok || !scope.Sees(p.AdminID) {
		return nil, internal.ErrSaleNotFound
	}
	return FromDataModel(dm), nil
}

// GetCart returns the actor's cart, empty if none exists yet.
func (s *Service) GetCart(actor *auth.User) (*Cart, error) {
	cart, err := s.repo.GetCartBySeller(actor.ID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return &Cart{SellerID: actor.ID, Items: []CartItem{}}, nil
	}

	items, err := s.repo.GetCartItems(cart.ID)
	if err != nil {
		return nil, err
	}

	view := &Cart{ID: cart.ID, SellerID: cart.SellerID, Items: make([]CartItem, 0, len(items))}
	for _, item := range items {
		view.Items = append(view.Items, CartItem{ID: item.ID, ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return view, nil
}

// AddCartItem puts a product line into the actor's cart, creating the cart
// on first use. Only unit-tracked SELL products can be carted.
func (s *Service) AddCartItem(actor *auth.User, dto AddCartItemDTO) (*Cart, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	scope, err := auth.ScopeFor(actor, s.children)
	if err != nil {
		return nil, internal.ErrPermissionDenied
	}

	products, err := s.repo.ProductsByID([]int64{dto.ProductID})
	if err != nil {
		return nil, err
	}
	p, ok := products[dto.ProductID]
	if !ok || !scope.Sees(p.AdminID) {
		return nil, internal.ErrProductNotFound
	}
	if p.Choice != product.ChoiceSell {
		return nil, internal.ErrProductNotSellable
	}
	if p.Quantity == nil {
		return nil, internal.NewValidationError("weighed products cannot be added to a cart", internal.ErrCodeInvalidInventory)
	}

	cart, err := s.repo.GetCartBySeller(actor.ID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		cart = &saleDatamodel.Cart{SellerID: actor.ID}
		if err := s.repo.CreateCart(cart); err != nil {
			return nil, err
		}
	}

	items, err := s.repo.GetCartItems(cart.ID)
	if err != nil {
		return nil, err
	}

	var existing *saleDatamodel.CartItem
	for _, item := range items {
		if item.ProductID == dto.ProductID {
			existing = item
			break
		}
	}
	if existing != nil {
		existing.Quantity += dto.Quantity
		if err := s.repo.UpdateCartItem(existing); err != nil {
			return nil, err
		}
	} else {
		item := &saleDatamodel.CartItem{CartID: cart.ID, ProductID: dto.ProductID, Quantity: dto.Quantity}
		if err := s.repo.AddCartItem(item); err != nil {
			return nil, err
		}
	}

	return s.GetCart(actor)
}

func (s *Service) RemoveCartItem(actor *auth.User, itemID int64) (*Cart, error) {
	cart, err := s.repo.GetCartBySeller(actor.ID)
	if err != nil || cart == nil {
		return nil, internal.ErrCartNotFound
	}

	item, err := s.repo.GetCartItem(itemID)
	if err != nil || item == nil || item.CartID != cart.ID {
		return nil, internal.ErrCartNotFound
	}

	if err := s.repo.DeleteCartItem(itemID); err != nil {
		return nil, err
	}
	return s.GetCart(actor)
}

// Checkout sells the cart line by line in order. Each line commits on its
// own; the first failing line aborts the remainder, and its index comes back
// on the error. On full success the cart is cleared.
func (s *Service) Checkout(actor *auth.User, dto CheckoutDTO) (*CheckoutResult, error) {
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

	cart, err := s.repo.GetCartBySeller(actor.ID)
	if err != nil || cart == nil {
		return nil, internal.ErrCartNotFound
	}
	items, err := s.repo.GetCartItems(cart.ID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, internal.NewValidationError("cart is empty", internal.ErrCodeValidationFailed)
	}

	result := &CheckoutResult{Sales: make([]*Sale, 0, len(items)), Total: decimal.Zero}
	for i, item := range items {
		qty := item.Quantity
		dm, err := s.sellOne(scope, actor, CreateSaleDTO{
			ProductID:   item.ProductID,
			BuyerName:   dto.BuyerName,
			Quantity:    &qty,
			PaymentType: dto.PaymentType,
		})
		if err != nil {
			idx := i
			result.FailedLine = &idx
			s.logger.Warn("checkout aborted", "cart_id", cart.ID, "failed_line", i, "error", err)
			return result, lineError(i, err, result)
		}
		result.Sales = append(result.Sales, FromDataModel(dm))
		result.Total = result.Total.Add(dm.SalePrice)
	}

	if err := s.repo.ClearCart(cart.ID); err != nil {
		return result, err
	}

	s.logger.Info("checkout completed", "cart_id", cart.ID, "lines", len(items), "total", result.Total.String())
	return result, nil
}

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
		s.logger.Warn("operation outside working hours", "actor_id", actor.ID)
		return internal.ErrOutsideWorkingHours
	}
	return nil
}

// deductStock validates the amount against the product's inventory mode and
// subtracts it, returning the line total.
func deductStock(p *productDatamodel.Product, quantity *int64, weight *decimal.Decimal) (decimal.Decimal, error) {
	price := p.Price.Decimal

	switch {
	case quantity != nil:
		if p.Quantity == nil {
			return decimal.Zero, internal.NewValidationError("product stock is tracked by weight, not quantity", internal.ErrCodeInvalidInventory)
		}
		if *quantity > *p.Quantity {
			return decimal.Zero, internal.ErrInsufficientStock
		}
		remaining := *p.Quantity - *quantity
		p.Quantity = &remaining
		return price.Mul(decimal.NewFromInt(*quantity)).Round(2), nil
	case weight != nil:
		if !p.Weight.Valid {
			return decimal.Zero, internal.NewValidationError("product stock is tracked by quantity, not weight", internal.ErrCodeInvalidInventory)
		}
		if weight.GreaterThan(p.Weight.Decimal) {
			return decimal.Zero, internal.ErrInsufficientStock
		}
		p.Weight.Decimal = p.Weight.Decimal.Sub(*weight)
		return price.Mul(*weight).Round(2), nil
	}
	return decimal.Zero, internal.NewValidationError("exactly one of quantity or product_weight is required", internal.ErrCodeInvalidInventory)
}

// restoreStock puts a cancelled sale's amount back.
func restoreStock(p *productDatamodel.Product, quantity *int64, weight *decimal.Decimal) {
	switch {
	case quantity != nil && p.Quantity != nil:
		restored := *p.Quantity + *quantity
		p.Quantity = &restored
	case weight != nil && p.Weight.Valid:
		p.Weight.Decimal = p.Weight.Decimal.Add(*weight)
	}
}

// lineError keeps the underlying error's kind while pointing at the failing
// cart line and carrying the partial result.
func lineError(line int, err error, result *CheckoutResult) error {
	if appErr, ok := internal.IsAppError(err); ok {
		wrapped := *appErr
		wrapped.Message = fmt.Sprintf("line %d: %s", line, appErr.Message)
		wrapped.Details = result
		return &wrapped
	}
	return err
}
