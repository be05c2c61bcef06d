package postgres_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/javokhirdev/rental-management/internal/category"
	categoryPostgres "github.com/javokhirdev/rental-management/internal/category/postgres"
	categoryDatamodel "github.com/javokhirdev/rental-management/internal/core/datamodel/category"
)

func TestCategoryPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Category Postgres Suite")
}

var _ = Describe("Category Repository", func() {
	var (
		db   *gorm.DB
		repo category.RepositoryAPI
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&categoryDatamodel.Category{})
		Expect(err).NotTo(HaveOccurred())

		repo = categoryPostgres.NewCategoryRepository(db)
	})

	Describe("Create", func() {
		It("creates a category", func() {
			c := &categoryDatamodel.Category{Name: "electronics", CreatedByID: 1}
			Expect(repo.Create(c)).To(Succeed())
			Expect(c.ID).To(BeNumerically(">", 0))
			Expect(c.CreatedAt).NotTo(BeZero())
		})

		It("rejects duplicate names for the same owner", func() {
			Expect(repo.Create(&categoryDatamodel.Category{Name: "tools", CreatedByID: 1})).To(Succeed())
			err := repo.Create(&categoryDatamodel.Category{Name: "tools", CreatedByID: 1})
			Expect(err).To(HaveOccurred())
		})

		It("allows the same name under different owners", func() {
			Expect(repo.Create(&categoryDatamodel.Category{Name: "tools", CreatedByID: 1})).To(Succeed())
			Expect(repo.Create(&categoryDatamodel.Category{Name: "tools", CreatedByID: 2})).To(Succeed())
		})
	})

	Describe("ListByOwner", func() {
		BeforeEach(func() {
			Expect(repo.Create(&categoryDatamodel.Category{Name: "drills", CreatedByID: 1})).To(Succeed())
			Expect(repo.Create(&categoryDatamodel.Category{Name: "cement", CreatedByID: 1})).To(Succeed())
			Expect(repo.Create(&categoryDatamodel.Category{Name: "foreign", CreatedByID: 2})).To(Succeed())
		})

		It("returns only the owner's categories sorted by name", func() {
			categories, err := repo.ListByOwner(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(categories).To(HaveLen(2))
			Expect(categories[0].Name).To(Equal("cement"))
			Expect(categories[1].Name).To(Equal("drills"))
		})
	})

	Describe("GetByName", func() {
		It("matches only within the owner's tree", func() {
			Expect(repo.Create(&categoryDatamodel.Category{Name: "tools", CreatedByID: 1})).To(Succeed())

			c, err := repo.GetByName("tools", 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(c).NotTo(BeNil())

			c, err = repo.GetByName("tools", 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(c).To(BeNil())
		})
	})

	Describe("GetByID", func() {
		It("returns nil for a missing category", func() {
			c, err := repo.GetByID(9999)
			Expect(err).NotTo(HaveOccurred())
			Expect(c).To(BeNil())
		})
	})

	Describe("Delete", func() {
		It("removes the row", func() {
			c := &categoryDatamodel.Category{Name: "temp", CreatedByID: 1}
			Expect(repo.Create(c)).To(Succeed())
			Expect(repo.Delete(c.ID)).To(Succeed())

			got, err := repo.GetByID(c.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeNil())
		})
	})
})
