package tariff_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/javokhirdev/rental-management/internal"
	"github.com/javokhirdev/rental-management/internal/auth"
	tariffDatamodel "github.com/javokhirdev/rental-management/internal/core/datamodel/tariff"
	"github.com/javokhirdev/rental-management/internal/tariff"
)

func TestTariffService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Tariff Service Suite")
}

type mockTariffRepository struct {
	tariffs map[int64][]*tariffDatamodel.Tariff
	usage   map[string]int64
	nextID  int64
}

func newMockTariffRepository() *mockTariffRepository {
	return &mockTariffRepository{
		tariffs: make(map[int64][]*tariffDatamodel.Tariff),
		usage:   make(map[string]int64),
		nextID:  1,
	}
}

func (m *mockTariffRepository) CreateAndActivate(t *tariffDatamodel.Tariff) error {
	for _, existing := range m.tariffs[t.DirectorID] {
		existing.Status = tariff.StatusInactive
	}
	t.ID = m.nextID
	m.nextID++
	t.Status = tariff.StatusActive
	m.tariffs[t.DirectorID] = append(m.tariffs[t.DirectorID], t)
	return nil
}

func (m *mockTariffRepository) GetActive(directorID int64) (*tariffDatamodel.Tariff, error) {
	for _, t := range m.tariffs[directorID] {
		if t.Status == tariff.StatusActive {
			return t, nil
		}
	}
	return nil, nil
}

func (m *mockTariffRepository) ListByDirector(directorID int64) ([]*tariffDatamodel.Tariff, error) {
	return m.tariffs[directorID], nil
}

func (m *mockTariffRepository) CountUsage(directorID int64, kind string) (int64, error) {
	return m.usage[kind], nil
}

var _ = Describe("Tariff Service", func() {
	var (
		repo     *mockTariffRepository
		svc      *tariff.Service
		director *auth.User
		seller   *auth.User
	)

	directorID := int64(1)
	yesterday := time.Now().AddDate(0, 0, -1)
	nextMonth := time.Now().AddDate(0, 1, 0)

	BeforeEach(func() {
		repo = newMockTariffRepository()
		testLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
		svc = tariff.NewService(repo, testLogger)

		director = &auth.User{ID: directorID, Role: auth.RoleDirector}
		seller = &auth.User{ID: 3, Role: auth.RoleSeller, CreatedByID: &directorID}
	})

	Describe("CreateTariff", func() {
		It("activates a tariff and deactivates the previous one", func() {
			first, err := svc.CreateTariff(director, tariff.CreateTariffDTO{
				AdminCount: 2, SellerCount: 5, ProductCount: 10, CategoryCount: 3,
				StartDate: yesterday.Format("2006-01-02"),
				EndDate:   nextMonth.Format("2006-01-02"),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(first.Status).To(Equal(tariff.StatusActive))

			second, err := svc.CreateTariff(director, tariff.CreateTariffDTO{
				AdminCount: 4, SellerCount: 10, ProductCount: 20, CategoryCount: 6,
				StartDate: yesterday.Format("2006-01-02"),
				EndDate:   nextMonth.Format("2006-01-02"),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(second.Status).To(Equal(tariff.StatusActive))

			active, err := svc.GetActiveTariff(director)
			Expect(err).NotTo(HaveOccurred())
			Expect(active.ID).To(Equal(second.ID))
			Expect(active.AdminCount).To(Equal(int64(4)))
		})

		It("rejects non-directors", func() {
			_, err := svc.CreateTariff(seller, tariff.CreateTariffDTO{
				StartDate: yesterday.Format("2006-01-02"),
				EndDate:   nextMonth.Format("2006-01-02"),
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeForbidden))
		})

		It("rejects an inverted validity window", func() {
			_, err := svc.CreateTariff(director, tariff.CreateTariffDTO{
				StartDate: nextMonth.Format("2006-01-02"),
				EndDate:   yesterday.Format("2006-01-02"),
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("WithinQuota", func() {
		BeforeEach(func() {
			_, err := svc.CreateTariff(director, tariff.CreateTariffDTO{
				AdminCount: 2, SellerCount: 5, ProductCount: 2, CategoryCount: 3,
				StartDate: yesterday.Format("2006-01-02"),
				EndDate:   nextMonth.Format("2006-01-02"),
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("allows creation under the ceiling", func() {
			repo.usage[tariff.QuotaProducts] = 1
			Expect(svc.WithinQuota(directorID, tariff.QuotaProducts)).To(Succeed())
		})

		It("blocks creation at the ceiling", func() {
			repo.usage[tariff.QuotaProducts] = 2
			err := svc.WithinQuota(directorID, tariff.QuotaProducts)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeQuotaExceeded))
		})

		It("fails when no tariff exists", func() {
			err := svc.WithinQuota(99, tariff.QuotaSellers)
			Expect(err).To(Equal(internal.ErrNoActiveTariff))
		})

		It("fails when the active tariff has expired", func() {
			lastYear := time.Now().AddDate(-1, 0, 0)
			_, err := svc.CreateTariff(director, tariff.CreateTariffDTO{
				AdminCount: 2, SellerCount: 5, ProductCount: 2, CategoryCount: 3,
				StartDate: lastYear.Format("2006-01-02"),
				EndDate:   lastYear.AddDate(0, 1, 0).Format("2006-01-02"),
			})
			Expect(err).NotTo(HaveOccurred())

			err = svc.WithinQuota(directorID, tariff.QuotaSellers)
			Expect(err).To(Equal(internal.ErrNoActiveTariff))
		})
	})
})
