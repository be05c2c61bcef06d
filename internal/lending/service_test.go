package lending_test

import (
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/javokhirdev/rental-management/internal"
	"github.com/javokhirdev/rental-management/internal/auth"
	"github.com/javokhirdev/rental-management/internal/core/common/schedule"
	lendingDatamodel "github.com/javokhirdev/rental-management/internal/core/datamodel/lending"
	productDatamodel "github.com/javokhirdev/rental-management/internal/core/datamodel/product"
	"github.com/javokhirdev/rental-management/internal/core/events"
	"github.com/javokhirdev/rental-management/internal/lending"
	"github.com/javokhirdev/rental-management/internal/product"
)

func TestLendingService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Lending Service Suite")
}

type mockLendingRepository struct {
	lendings map[int64]*lendingDatamodel.Lending
	products map[int64]*productDatamodel.Product
	nextID   int64
}

func newMockLendingRepository() *mockLendingRepository {
	return &mockLendingRepository{
		lendings: make(map[int64]*lendingDatamodel.Lending),
		products: make(map[int64]*productDatamodel.Product),
		nextID:   1,
	}
}

func (m *mockLendingRepository) Transaction(fn func(lending.RepositoryAPI) error) error {
	return fn(m)
}

func (m *mockLendingRepository) Create(l *lendingDatamodel.Lending) error {
	l.ID = m.nextID
	m.nextID++
	m.lendings[l.ID] = l
	return nil
}

func (m *mockLendingRepository) GetByID(id int64) (*lendingDatamodel.Lending, error) {
	return m.lendings[id], nil
}

func (m *mockLendingRepository) ListByOwners(ownerIDs []int64) ([]*lendingDatamodel.Lending, error) {
	var out []*lendingDatamodel.Lending
	for _, l := range m.lendings {
		p := m.products[l.ProductID]
		if p == nil {
			continue
		}
		for _, owner := range ownerIDs {
			if p.AdminID == owner {
				out = append(out, l)
			}
		}
	}
	return out, nil
}

func (m *mockLendingRepository) Update(l *lendingDatamodel.Lending) error {
	m.lendings[l.ID] = l
	return nil
}

func (m *mockLendingRepository) GetProductForUpdate(id int64) (*productDatamodel.Product, error) {
	return m.products[id], nil
}

func (m *mockLendingRepository) UpdateProduct(p *productDatamodel.Product) error {
	m.products[p.ID] = p
	return nil
}

func (m *mockLendingRepository) ProductsByID(ids []int64) (map[int64]*productDatamodel.Product, error) {
	out := make(map[int64]*productDatamodel.Product)
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
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

func rentProduct(id, ownerID int64, price string) *productDatamodel.Product {
	return &productDatamodel.Product{
		ID:          id,
		Name:        "drill",
		Choice:      product.ChoiceRent,
		RentalPrice: decimal.NullDecimal{Decimal: decimal.RequireFromString(price), Valid: true},
		Status:      product.StatusAvailable,
		AdminID:     ownerID,
		CreatedByID: ownerID,
	}
}

var _ = Describe("Lending Service", func() {
	var (
		repo      *mockLendingRepository
		directors *mockDirectorLookup
		svc       *lending.Service
		director  *auth.User
		seller    *auth.User
	)

	directorID := int64(1)
	returnDate := time.Now().AddDate(0, 0, 7).Format("2006-01-02")

	BeforeEach(func() {
		repo = newMockLendingRepository()
		testLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
		children := &mockChildLister{children: map[int64][]int64{1: {3}}}

		director = &auth.User{ID: 1, Role: auth.RoleDirector}
		seller = &auth.User{ID: 3, Role: auth.RoleSeller, CreatedByID: &directorID}
		directors = &mockDirectorLookup{users: map[int64]*auth.User{1: director}}

		bus := events.NewEventBus(testLogger)
		svc = lending.NewService(repo, children, directors, bus, testLogger)

		repo.products[10] = rentProduct(10, directorID, "1000.00")
	})

	Describe("CreateLending", func() {
		It("derives the payment split from the rental price", func() {
			l, err := svc.CreateLending(seller, lending.CreateLendingDTO{
				ProductID:    10,
				BorrowerName: "Karim",
				ReturnDate:   returnDate,
				Percentage:   25,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(l.Status).To(Equal(lending.StatusLent))
			Expect(l.AmountGiven.StringFixed(2)).To(Equal("250.00"))
			Expect(l.AmountRemaining.StringFixed(2)).To(Equal("750.00"))
			Expect(*l.RemainingPercentage).To(Equal(lending.Percentage(75)))
		})

		It("stamps the borrow date at business-day midnight", func() {
			l, err := svc.CreateLending(seller, lending.CreateLendingDTO{
				ProductID: 10, BorrowerName: "Karim", ReturnDate: returnDate, Percentage: 25,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(l.BorrowDate.Equal(schedule.DayOf(time.Now()))).To(BeTrue())
		})

		It("flips the product to LENT_OUT and bumps lend_count", func() {
			_, err := svc.CreateLending(seller, lending.CreateLendingDTO{
				ProductID: 10, BorrowerName: "Karim", ReturnDate: returnDate, Percentage: 50,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.products[10].Status).To(Equal(product.StatusLentOut))
			Expect(repo.products[10].LendCount).To(Equal(int64(1)))
		})

		It("refuses a product that is already lent out", func() {
			repo.products[10].Status = product.StatusLentOut
			_, err := svc.CreateLending(seller, lending.CreateLendingDTO{
				ProductID: 10, BorrowerName: "Karim", ReturnDate: returnDate, Percentage: 25,
			})
			Expect(err).To(Equal(internal.ErrProductNotAvailable))
		})

		It("refuses a SELL product", func() {
			repo.products[10].Choice = product.ChoiceSell
			_, err := svc.CreateLending(seller, lending.CreateLendingDTO{
				ProductID: 10, BorrowerName: "Karim", ReturnDate: returnDate, Percentage: 25,
			})
			Expect(err).To(Equal(internal.ErrProductNotRentable))
		})

		It("reads a foreign product as not found", func() {
			repo.products[20] = rentProduct(20, 99, "500.00")
			_, err := svc.CreateLending(seller, lending.CreateLendingDTO{
				ProductID: 20, BorrowerName: "Karim", ReturnDate: returnDate, Percentage: 25,
			})
			Expect(err).To(Equal(internal.ErrProductNotFound))
		})

		It("rejects percentages outside the ladder", func() {
			_, err := svc.CreateLending(seller, lending.CreateLendingDTO{
				ProductID: 10, BorrowerName: "Karim", ReturnDate: returnDate, Percentage: 30,
			})
			Expect(err).To(HaveOccurred())
		})

		It("blocks operations outside the director's working hours", func() {
			now := time.Now()
			director.WorkStartTime = now.Add(2 * time.Hour).Format("15:04")
			director.WorkEndTime = now.Add(3 * time.Hour).Format("15:04")

			_, err := svc.CreateLending(seller, lending.CreateLendingDTO{
				ProductID: 10, BorrowerName: "Karim", ReturnDate: returnDate, Percentage: 25,
			})
			Expect(err).To(Equal(internal.ErrOutsideWorkingHours))
		})
	})

	Describe("ReturnProduct", func() {
		var lendingID int64

		BeforeEach(func() {
			l, err := svc.CreateLending(seller, lending.CreateLendingDTO{
				ProductID: 10, BorrowerName: "Karim", ReturnDate: returnDate, Percentage: 25,
			})
			Expect(err).NotTo(HaveOccurred())
			lendingID = l.ID
		})

		It("closes the lending and frees the product", func() {
			l, err := svc.ReturnProduct(seller, lendingID)
			Expect(err).NotTo(HaveOccurred())
			Expect(l.Status).To(Equal(lending.StatusReturned))
			Expect(l.ActualReturnDate).NotTo(BeNil())
			Expect(repo.products[10].Status).To(Equal(product.StatusAvailable))
		})

		It("treats RETURNED as terminal", func() {
			_, err := svc.ReturnProduct(seller, lendingID)
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.ReturnProduct(seller, lendingID)
			Expect(err).To(Equal(internal.ErrLendingReturned))
		})

		It("keeps lend_count after the cycle", func() {
			_, err := svc.ReturnProduct(seller, lendingID)
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.products[10].LendCount).To(Equal(int64(1)))
		})
	})

	Describe("Percentage JSON form", func() {
		It("serializes as a percent literal", func() {
			b, err := json.Marshal(lending.Percentage(25))
			Expect(err).NotTo(HaveOccurred())
			Expect(string(b)).To(Equal(`"25%"`))
		})

		It("accepts both literal and numeric forms", func() {
			var p lending.Percentage
			Expect(json.Unmarshal([]byte(`"75%"`), &p)).To(Succeed())
			Expect(p).To(Equal(lending.Percentage(75)))

			Expect(json.Unmarshal([]byte(`50`), &p)).To(Succeed())
			Expect(p).To(Equal(lending.Percentage(50)))
		})
	})

	Describe("ListLendings", func() {
		It("fills the payment view for every row", func() {
			_, err := svc.CreateLending(seller, lending.CreateLendingDTO{
				ProductID: 10, BorrowerName: "Karim", ReturnDate: returnDate, Percentage: 100,
			})
			Expect(err).NotTo(HaveOccurred())

			lendings, err := svc.ListLendings(director)
			Expect(err).NotTo(HaveOccurred())
			Expect(lendings).To(HaveLen(1))
			Expect(lendings[0].AmountGiven.StringFixed(2)).To(Equal("1000.00"))
			Expect(lendings[0].AmountRemaining.StringFixed(2)).To(Equal("0.00"))
		})
	})
})
