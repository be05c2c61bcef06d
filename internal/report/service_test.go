package report_test

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
	withdrawalDatamodel "github.com/javokhirdev/rental-management/internal/core/datamodel/withdrawal"
	"github.com/javokhirdev/rental-management/internal/report"
)

func TestReportService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Report Service Suite")
}

type mockReportRepository struct {
	saleRows    []report.RevenueRow
	lendingRows []report.RevenueRow
	withdrawals map[int64]*withdrawalDatamodel.CashWithdrawal
	nextID      int64
}

func newMockReportRepository() *mockReportRepository {
	return &mockReportRepository{
		withdrawals: make(map[int64]*withdrawalDatamodel.CashWithdrawal),
		nextID:      1,
	}
}

func inRange(rows []report.RevenueRow, from, to time.Time) []report.RevenueRow {
	var out []report.RevenueRow
	for _, row := range rows {
		if !row.Day.Before(from) && row.Day.Before(to) {
			out = append(out, row)
		}
	}
	return out
}

func (m *mockReportRepository) SaleRevenue(ownerIDs []int64, from, to time.Time) ([]report.RevenueRow, error) {
	return inRange(m.saleRows, from, to), nil
}

func (m *mockReportRepository) LendingRevenue(ownerIDs []int64, from, to time.Time) ([]report.RevenueRow, error) {
	return inRange(m.lendingRows, from, to), nil
}

func (m *mockReportRepository) ListWithdrawals(sellerIDs []int64) ([]*withdrawalDatamodel.CashWithdrawal, error) {
	var out []*withdrawalDatamodel.CashWithdrawal
	for _, w := range m.withdrawals {
		for _, id := range sellerIDs {
			if w.SellerID == id {
				out = append(out, w)
			}
		}
	}
	return out, nil
}

func (m *mockReportRepository) CreateWithdrawal(dm *withdrawalDatamodel.CashWithdrawal) error {
	dm.ID = m.nextID
	m.nextID++
	m.withdrawals[dm.ID] = dm
	return nil
}

type mockChildLister struct {
	children map[int64][]int64
}

func (m *mockChildLister) ChildIDs(parentID int64) ([]int64, error) {
	return m.children[parentID], nil
}

type mockActorLookup struct {
	users map[int64]*auth.User
}

func (m *mockActorLookup) GetActor(userID int64) (*auth.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, internal.ErrUserNotFound
	}
	return u, nil
}

func amount(v string) decimal.Decimal { return decimal.RequireFromString(v) }

var _ = Describe("Report Service", func() {
	var (
		repo     *mockReportRepository
		svc      *report.Service
		director *auth.User
		seller   *auth.User
	)

	directorID := int64(1)
	// noon UTC is the same calendar day on the business wall clock, so the
	// expected period strings can be formatted in UTC
	day := func(offset int) time.Time {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
	}

	BeforeEach(func() {
		repo = newMockReportRepository()
		testLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

		director = &auth.User{ID: 1, Role: auth.RoleDirector}
		seller = &auth.User{ID: 3, Role: auth.RoleSeller, CreatedByID: &directorID}
		otherSeller := &auth.User{ID: 5, Role: auth.RoleSeller, CreatedByID: &directorID}
		foreignSeller := &auth.User{ID: 9, Role: auth.RoleSeller}
		foreignDirector := int64(8)
		foreignSeller.CreatedByID = &foreignDirector

		children := &mockChildLister{children: map[int64][]int64{1: {2, 3, 5}}}
		users := &mockActorLookup{users: map[int64]*auth.User{
			1: director, 3: seller, 5: otherSeller, 9: foreignSeller,
			2: {ID: 2, Role: auth.RoleAdmin, CreatedByID: &directorID},
		}}

		svc = report.NewService(repo, children, users, testLogger)
	})

	Describe("Revenue", func() {
		BeforeEach(func() {
			repo.saleRows = []report.RevenueRow{
				{Day: day(-2), SellerID: 3, Amount: amount("30.00")},
				{Day: day(-2), SellerID: 5, Amount: amount("20.00")},
				{Day: day(-1), SellerID: 3, Amount: amount("10.00")},
			}
			repo.lendingRows = []report.RevenueRow{
				{Day: day(-2), SellerID: 3, Amount: amount("250.00")},
			}
		})

		It("buckets sales and lending income by day", func() {
			points, err := svc.Revenue(director, report.RevenueQuery{Bucket: report.BucketDay})
			Expect(err).NotTo(HaveOccurred())
			Expect(points).To(HaveLen(2))

			Expect(points[0].Period).To(Equal(day(-2).Format("2006-01-02")))
			Expect(points[0].SalesRevenue.StringFixed(2)).To(Equal("50.00"))
			Expect(points[0].LendingRevenue.StringFixed(2)).To(Equal("250.00"))
			Expect(points[0].Total.StringFixed(2)).To(Equal("300.00"))

			Expect(points[1].Period).To(Equal(day(-1).Format("2006-01-02")))
			Expect(points[1].Total.StringFixed(2)).To(Equal("10.00"))
		})

		It("rolls everything into one monthly bucket", func() {
			repo.lendingRows = nil
			repo.saleRows = []report.RevenueRow{
				{Day: day(-2), SellerID: 3, Amount: amount("30.00")},
				{Day: day(-1), SellerID: 3, Amount: amount("10.00")},
			}
			// pin both rows into the same month
			repo.saleRows[0].Day = repo.saleRows[1].Day

			points, err := svc.Revenue(director, report.RevenueQuery{Bucket: report.BucketMonth})
			Expect(err).NotTo(HaveOccurred())
			Expect(points).To(HaveLen(1))
			Expect(points[0].Total.StringFixed(2)).To(Equal("40.00"))
		})

		It("rejects an unknown bucket", func() {
			_, err := svc.Revenue(director, report.RevenueQuery{Bucket: "year"})
			Expect(err).To(HaveOccurred())
		})

		It("dates late-evening activity to the business day", func() {
			// 21:00 UTC is 02:00 the next morning in Asia/Tashkent
			repo.lendingRows = nil
			repo.saleRows = []report.RevenueRow{
				{Day: time.Date(2026, 3, 10, 21, 0, 0, 0, time.UTC), SellerID: 3, Amount: amount("10.00")},
			}

			points, err := svc.Revenue(director, report.RevenueQuery{
				Bucket: report.BucketDay,
				From:   "2026-03-01",
				To:     "2026-03-20",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(points).To(HaveLen(1))
			Expect(points[0].Period).To(Equal("2026-03-11"))
		})

		It("honours the queried range", func() {
			from := day(-1).Format("2006-01-02")
			points, err := svc.Revenue(director, report.RevenueQuery{From: from})
			Expect(err).NotTo(HaveOccurred())
			Expect(points).To(HaveLen(1))
			Expect(points[0].Total.StringFixed(2)).To(Equal("10.00"))
		})
	})

	Describe("SellerKPIs", func() {
		BeforeEach(func() {
			repo.saleRows = []report.RevenueRow{
				{Day: day(-2), SellerID: 3, Amount: amount("30.00")},
				{Day: day(-1), SellerID: 3, Amount: amount("10.00")},
				{Day: day(-1), SellerID: 5, Amount: amount("20.00")},
			}
			repo.lendingRows = []report.RevenueRow{
				{Day: day(-2), SellerID: 3, Amount: amount("250.00")},
			}
		})

		It("aggregates per seller", func() {
			kpis, err := svc.SellerKPIs(director, report.RevenueQuery{})
			Expect(err).NotTo(HaveOccurred())
			Expect(kpis).To(HaveLen(2))

			Expect(kpis[0].SellerID).To(Equal(int64(3)))
			Expect(kpis[0].SaleCount).To(Equal(int64(2)))
			Expect(kpis[0].SalesRevenue.StringFixed(2)).To(Equal("40.00"))
			Expect(kpis[0].LendingCount).To(Equal(int64(1)))
			Expect(kpis[0].LendingRevenue.StringFixed(2)).To(Equal("250.00"))

			Expect(kpis[1].SellerID).To(Equal(int64(5)))
			Expect(kpis[1].SaleCount).To(Equal(int64(1)))
		})

		It("is closed to sellers", func() {
			_, err := svc.SellerKPIs(seller, report.RevenueQuery{})
			Expect(err).To(Equal(internal.ErrPermissionDenied))
		})
	})

	Describe("withdrawals and balances", func() {
		It("lets a seller record their own withdrawal", func() {
			w, err := svc.RecordWithdrawal(seller, report.CreateWithdrawalDTO{Amount: amount("100.00")})
			Expect(err).NotTo(HaveOccurred())
			Expect(w.SellerID).To(Equal(int64(3)))
		})

		It("stops a seller withdrawing for someone else", func() {
			_, err := svc.RecordWithdrawal(seller, report.CreateWithdrawalDTO{SellerID: 5, Amount: amount("100.00")})
			Expect(err).To(Equal(internal.ErrPermissionDenied))
		})

		It("lets a director record for a seller in scope", func() {
			w, err := svc.RecordWithdrawal(director, report.CreateWithdrawalDTO{SellerID: 5, Amount: amount("40.00")})
			Expect(err).NotTo(HaveOccurred())
			Expect(w.SellerID).To(Equal(int64(5)))
		})

		It("hides foreign sellers", func() {
			_, err := svc.RecordWithdrawal(director, report.CreateWithdrawalDTO{SellerID: 9, Amount: amount("40.00")})
			Expect(err).To(Equal(internal.ErrUserNotFound))
		})

		It("refuses non-seller targets", func() {
			_, err := svc.RecordWithdrawal(director, report.CreateWithdrawalDTO{SellerID: 2, Amount: amount("40.00")})
			Expect(err).To(Equal(internal.ErrUserNotFound))
		})

		It("rejects non-positive amounts", func() {
			_, err := svc.RecordWithdrawal(seller, report.CreateWithdrawalDTO{Amount: amount("0")})
			Expect(err).To(HaveOccurred())
		})

		It("shows a seller only their own ledger", func() {
			_, err := svc.RecordWithdrawal(seller, report.CreateWithdrawalDTO{Amount: amount("100.00")})
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.RecordWithdrawal(director, report.CreateWithdrawalDTO{SellerID: 5, Amount: amount("40.00")})
			Expect(err).NotTo(HaveOccurred())

			own, err := svc.ListWithdrawals(seller)
			Expect(err).NotTo(HaveOccurred())
			Expect(own).To(HaveLen(1))
			Expect(own[0].SellerID).To(Equal(int64(3)))

			all, err := svc.ListWithdrawals(director)
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(2))
		})

		It("nets withdrawals against revenue per seller", func() {
			repo.saleRows = []report.RevenueRow{
				{Day: day(-1), SellerID: 3, Amount: amount("300.00")},
			}
			_, err := svc.RecordWithdrawal(seller, report.CreateWithdrawalDTO{Amount: amount("120.00")})
			Expect(err).NotTo(HaveOccurred())

			balances, err := svc.SellerBalances(director)
			Expect(err).NotTo(HaveOccurred())
			Expect(balances).To(HaveLen(1))
			Expect(balances[0].SellerID).To(Equal(int64(3)))
			Expect(balances[0].Revenue.StringFixed(2)).To(Equal("300.00"))
			Expect(balances[0].Withdrawn.StringFixed(2)).To(Equal("120.00"))
			Expect(balances[0].Balance.StringFixed(2)).To(Equal("180.00"))
		})
	})
})
