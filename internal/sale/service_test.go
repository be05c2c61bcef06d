package sale_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/javokhirdev/rental-management/internal"
	"github.com/javokhirdev/rental-management/internal/auth"
	productDatamodel "github.com/javokhirdev/rental-management/internal/core/datamodel/product"
	saleDatamodel "github.com/javokhirdev/rental-management/internal/core/datamodel/sale"
	"github.com/javokhirdev/rental-management/internal/core/events"
	"github.com/javokhirdev/rental-management/internal/product"
	"github.com/javokhirdev/rental-management/internal/sale"
)

func TestSaleService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Sale Service Suite")
}

type mockSaleRepository struct {
	sales      map[int64]*saleDatamodel.Sale
	products   map[int64]*productDatamodel.Product
	carts      map[int64]*saleDatamodel.Cart
	cartItems  map[int64]*saleDatamodel.CartItem
	nextSale   int64
	nextCart   int64
	nextItem   int64
}

func newMockSaleRepository() *mockSaleRepository {
	return &mockSaleRepository{
		sales:     make(map[int64]*saleDatamodel.Sale),
		products:  make(map[int64]*productDatamodel.Product),
		carts:     make(map[int64]*saleDatamodel.Cart),
		cartItems: make(map[int64]*saleDatamodel.CartItem),
		nextSale:  1,
		nextCart:  1,
		nextItem:  1,
	}
}

func (m *mockSaleRepository) Transaction(fn func(sale.RepositoryAPI) error) error {
	return fn(m)
}

func (m *mockSaleRepository) CreateSale(s *saleDatamodel.Sale) error {
	s.ID = m.nextSale
	m.nextSale++
	m.sales[s.ID] = s
	return nil
}

func (m *mockSaleRepository) GetSaleByID(id int64) (*saleDatamodel.Sale, error) {
	return m.sales[id], nil
}

func (m *mockSaleRepository) ListByOwners(ownerIDs []int64) ([]*saleDatamodel.Sale, error) {
	var out []*saleDatamodel.Sale
	for _, s := range m.sales {
		p := m.products[s.ProductID]
		if p == nil {
			continue
		}
		for _, owner := range ownerIDs {
			if p.AdminID == owner {
				out = append(out, s)
			}
		}
	}
	return out, nil
}

func (m *mockSaleRepository) UpdateSale(s *saleDatamodel.Sale) error {
	m.sales[s.ID] = s
	return nil
}

func (m *mockSaleRepository) GetProductForUpdate(id int64) (*productDatamodel.Product, error) {
	return m.products[id], nil
}

func (m *mockSaleRepository) UpdateProduct(p *productDatamodel.Product) error {
	m.products[p.ID] = p
	return nil
}

func (m *mockSaleRepository) ProductsByID(ids []int64) (map[int64]*productDatamodel.Product, error) {
	out := make(map[int64]*productDatamodel.Product)
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (m *mockSaleRepository) GetCartBySeller(sellerID int64) (*saleDatamodel.Cart, error) {
	for _, c := range m.carts {
		if c.SellerID == sellerID {
			return c, nil
		}
	}
	return nil, nil
}

func (m *mockSaleRepository) CreateCart(c *saleDatamodel.Cart) error {
	c.ID = m.nextCart
	m.nextCart++
	m.carts[c.ID] = c
	return nil
}

func (m *mockSaleRepository) GetCartItems(cartID int64) ([]*saleDatamodel.CartItem, error) {
	var out []*saleDatamodel.CartItem
	for id := int64(1); id < m.nextItem; id++ {
		if item, ok := m.cartItems[id]; ok && item.CartID == cartID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *mockSaleRepository) GetCartItem(id int64) (*saleDatamodel.CartItem, error) {
	return m.cartItems[id], nil
}

func (m *mockSaleRepository) AddCartItem(item *saleDatamodel.CartItem) error {
	item.ID = m.nextItem
	m.nextItem++
	m.cartItems[item.ID] = item
	return nil
}

func (m *mockSaleRepository) UpdateCartItem(item *saleDatamodel.CartItem) error {
	m.cartItems[item.ID] = item
	return nil
}

func (m *mockSaleRepository) DeleteCartItem(id int64) error {
	delete(m.cartItems, id)
	return nil
}

func (m *mockSaleRepository) ClearCart(cartID int64) error {
	for id, item := range m.cartItems {
		if item.CartID == cartID {
			delete(m.cartItems, id)
		}
	}
	return nil
}

type mockChildLister struct {
	children map[int64][]int64
}

func (m *mockChildLister) ChildIDs(parentID int64) ([]int64, error) {
	return m.children[parentID], nil
}

type mockDirectorLookup struct {
	users map[int64]*auth.User
}

func (m *mockDirectorLookup) GetActor(userID int64) (*auth.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, internal.ErrUserNotFound
	}
	return u, nil
}

func qty(v int64) *int64 { return &v }

func dec(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func unitProduct(id, ownerID, stock int64, price string) *productDatamodel.Product {
	return &productDatamodel.Product{
		ID:          id,
		Name:        "rice bag",
		Choice:      product.ChoiceSell,
		Price:       decimal.NullDecimal{Decimal: decimal.RequireFromString(price), Valid: true},
		Status:      product.StatusAvailable,
		Quantity:    qty(stock),
		AdminID:     ownerID,
		CreatedByID: ownerID,
	}
}

func weighedProduct(id, ownerID int64, stock, price string) *productDatamodel.Product {
	return &productDatamodel.Product{
		ID:          id,
		Name:        "flour",
		Choice:      product.ChoiceSell,
		Price:       decimal.NullDecimal{Decimal: decimal.RequireFromString(price), Valid: true},
		Status:      product.StatusAvailable,
		Weight:      decimal.NullDecimal{Decimal: decimal.RequireFromString(stock), Valid: true},
		AdminID:     ownerID,
		CreatedByID: ownerID,
	}
}

var _ = Describe("Sale Service", func() {
	var (
		repo     *mockSaleRepository
		svc      *sale.Service
		director *auth.User
		seller   *auth.User
	)

	directorID := int64(1)

	BeforeEach(func() {
		repo = newMockSaleRepository()
		testLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
		children := &mockChildLister{children: map[int64][]int64{1: {3}}}

		director = &auth.User{ID: 1, Role: auth.RoleDirector}
		seller = &auth.User{ID: 3, Role: auth.RoleSeller, CreatedByID: &directorID}
		directors := &mockDirectorLookup{users: map[int64]*auth.User{1: director}}

		bus := events.NewEventBus(testLogger)
		svc = sale.NewService(repo, children, directors, bus, testLogger)

		repo.products[10] = unitProduct(10, directorID, 10, "10.00")
	})

	Describe("CreateSale", func() {
		It("decrements stock and totals the line", func() {
			s, err := svc.CreateSale(seller, sale.CreateSaleDTO{
				ProductID: 10, BuyerName: "Aziz", Quantity: qty(3),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Status).To(Equal(sale.StatusPending))
			Expect(s.PaymentType).To(Equal(sale.PaymentCash))
			Expect(s.SalePrice.StringFixed(2)).To(Equal("30.00"))
			Expect(*repo.products[10].Quantity).To(Equal(int64(7)))
		})

		It("rejects overselling", func() {
			repo.products[10].Quantity = qty(5)
			_, err := svc.CreateSale(seller, sale.CreateSaleDTO{
				ProductID: 10, Quantity: qty(6),
			})
			Expect(err).To(Equal(internal.ErrInsufficientStock))
			Expect(*repo.products[10].Quantity).To(Equal(int64(5)))
		})

		It("rejects a quantity for a weighed product", func() {
			repo.products[20] = weighedProduct(20, directorID, "100.00", "2.50")
			_, err := svc.CreateSale(seller, sale.CreateSaleDTO{
				ProductID: 20, Quantity: qty(2),
			})
			Expect(err).To(HaveOccurred())
		})

		It("sells by weight with decimal stock", func() {
			repo.products[20] = weighedProduct(20, directorID, "100.00", "2.50")
			s, err := svc.CreateSale(seller, sale.CreateSaleDTO{
				ProductID: 20, ProductWeight: dec("12.50"),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.SalePrice.StringFixed(2)).To(Equal("31.25"))
			Expect(repo.products[20].Weight.Decimal.StringFixed(2)).To(Equal("87.50"))
		})

		It("refuses a RENT product", func() {
			repo.products[10].Choice = product.ChoiceRent
			_, err := svc.CreateSale(seller, sale.CreateSaleDTO{ProductID: 10, Quantity: qty(1)})
			Expect(err).To(Equal(internal.ErrProductNotSellable))
		})

		It("reads a foreign product as not found", func() {
			repo.products[30] = unitProduct(30, 99, 5, "1.00")
			_, err := svc.CreateSale(seller, sale.CreateSaleDTO{ProductID: 30, Quantity: qty(1)})
			Expect(err).To(Equal(internal.ErrProductNotFound))
		})

		It("blocks sales outside working hours", func() {
			now := time.Now()
			director.WorkStartTime = now.Add(2 * time.Hour).Format("15:04")
			director.WorkEndTime = now.Add(3 * time.Hour).Format("15:04")

			_, err := svc.CreateSale(seller, sale.CreateSaleDTO{ProductID: 10, Quantity: qty(1)})
			Expect(err).To(Equal(internal.ErrOutsideWorkingHours))
		})
	})

	Describe("UpdateSaleStatus", func() {
		var saleID int64

		BeforeEach(func() {
			s, err := svc.CreateSale(seller, sale.CreateSaleDTO{ProductID: 10, Quantity: qty(3)})
			Expect(err).NotTo(HaveOccurred())
			saleID = s.ID
			Expect(*repo.products[10].Quantity).To(Equal(int64(7)))
		})

		It("restores stock on cancellation and re-decrements on reinstate", func() {
			s, err := svc.UpdateSaleStatus(seller, saleID, sale.UpdateSaleStatusDTO{Status: sale.StatusCancelled})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Status).To(Equal(sale.StatusCancelled))
			Expect(*repo.products[10].Quantity).To(Equal(int64(10)))

			s, err = svc.UpdateSaleStatus(seller, saleID, sale.UpdateSaleStatusDTO{Status: sale.StatusCompleted})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Status).To(Equal(sale.StatusCompleted))
			Expect(*repo.products[10].Quantity).To(Equal(int64(7)))
		})

		It("refuses reinstating when stock has run out", func() {
			_, err := svc.UpdateSaleStatus(seller, saleID, sale.UpdateSaleStatusDTO{Status: sale.StatusCancelled})
			Expect(err).NotTo(HaveOccurred())

			repo.products[10].Quantity = qty(1)
			_, err = svc.UpdateSaleStatus(seller, saleID, sale.UpdateSaleStatusDTO{Status: sale.StatusPending})
			Expect(err).To(Equal(internal.ErrInsufficientStock))

			got, _ := repo.GetSaleByID(saleID)
			Expect(got.Status).To(Equal(sale.StatusCancelled))
		})

		It("moves PENDING to COMPLETED without touching stock", func() {
			_, err := svc.UpdateSaleStatus(seller, saleID, sale.UpdateSaleStatusDTO{Status: sale.StatusCompleted})
			Expect(err).NotTo(HaveOccurred())
			Expect(*repo.products[10].Quantity).To(Equal(int64(7)))
		})

		It("rejects unknown statuses", func() {
			_, err := svc.UpdateSaleStatus(seller, saleID, sale.UpdateSaleStatusDTO{Status: "REFUNDED"})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("cart and checkout", func() {
		BeforeEach(func() {
			repo.products[11] = unitProduct(11, directorID, 2, "5.00")
		})

		It("accumulates quantities for repeated products", func() {
			_, err := svc.AddCartItem(seller, sale.AddCartItemDTO{ProductID: 10, Quantity: 2})
			Expect(err).NotTo(HaveOccurred())
			cart, err := svc.AddCartItem(seller, sale.AddCartItemDTO{ProductID: 10, Quantity: 3})
			Expect(err).NotTo(HaveOccurred())
			Expect(cart.Items).To(HaveLen(1))
			Expect(cart.Items[0].Quantity).To(Equal(int64(5)))
		})

		It("sells every line and clears the cart", func() {
			_, err := svc.AddCartItem(seller, sale.AddCartItemDTO{ProductID: 10, Quantity: 4})
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.AddCartItem(seller, sale.AddCartItemDTO{ProductID: 11, Quantity: 2})
			Expect(err).NotTo(HaveOccurred())

			result, err := svc.Checkout(seller, sale.CheckoutDTO{BuyerName: "Aziz"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Sales).To(HaveLen(2))
			Expect(result.Total.StringFixed(2)).To(Equal("50.00"))
			Expect(*repo.products[10].Quantity).To(Equal(int64(6)))
			Expect(*repo.products[11].Quantity).To(Equal(int64(0)))

			cart, err := svc.GetCart(seller)
			Expect(err).NotTo(HaveOccurred())
			Expect(cart.Items).To(BeEmpty())
		})

		It("aborts at the first failing line and keeps earlier lines", func() {
			_, err := svc.AddCartItem(seller, sale.AddCartItemDTO{ProductID: 10, Quantity: 4})
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.AddCartItem(seller, sale.AddCartItemDTO{ProductID: 11, Quantity: 5})
			Expect(err).NotTo(HaveOccurred())

			result, err := svc.Checkout(seller, sale.CheckoutDTO{})
			Expect(err).To(HaveOccurred())
			Expect(result.Sales).To(HaveLen(1))
			Expect(*result.FailedLine).To(Equal(1))

			// the first line stays committed, the failing line's stock is untouched
			Expect(*repo.products[10].Quantity).To(Equal(int64(6)))
			Expect(*repo.products[11].Quantity).To(Equal(int64(2)))

			// the cart is kept for a retry
			cart, err := svc.GetCart(seller)
			Expect(err).NotTo(HaveOccurred())
			Expect(cart.Items).To(HaveLen(2))
		})

		It("refuses weighed products in the cart", func() {
			repo.products[20] = weighedProduct(20, directorID, "50.00", "2.00")
			_, err := svc.AddCartItem(seller, sale.AddCartItemDTO{ProductID: 20, Quantity: 1})
			Expect(err).To(HaveOccurred())
		})

		It("rejects checkout of an empty or missing cart", func() {
			_, err := svc.Checkout(seller, sale.CheckoutDTO{})
			Expect(err).To(Equal(internal.ErrCartNotFound))
		})
	})

	Describe("inventory conservation", func() {
		It("holds stock = initial minus non-cancelled amounts over any order", func() {
			s1, err := svc.CreateSale(seller, sale.CreateSaleDTO{ProductID: 10, Quantity: qty(2)})
			Expect(err).NotTo(HaveOccurred())
			s2, err := svc.CreateSale(seller, sale.CreateSaleDTO{ProductID: 10, Quantity: qty(3)})
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.UpdateSaleStatus(seller, s1.ID, sale.UpdateSaleStatusDTO{Status: sale.StatusCancelled})
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.UpdateSaleStatus(seller, s2.ID, sale.UpdateSaleStatusDTO{Status: sale.StatusCompleted})
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.UpdateSaleStatus(seller, s1.ID, sale.UpdateSaleStatusDTO{Status: sale.StatusCompleted})
			Expect(err).NotTo(HaveOccurred())

			// initial 10, non-cancelled amounts 2+3
			Expect(*repo.products[10].Quantity).To(Equal(int64(5)))
		})
	})
})
