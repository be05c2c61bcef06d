package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/javokhirdev/rental-management/internal/auth"
	categoryDatamodel "github.com/javokhirdev/rental-management/internal/core/datamodel/category"
	productDatamodel "github.com/javokhirdev/rental-management/internal/core/datamodel/product"
	tariffDatamodel "github.com/javokhirdev/rental-management/internal/core/datamodel/tariff"
	userDatamodel "github.com/javokhirdev/rental-management/internal/core/datamodel/user"
	"github.com/javokhirdev/rental-management/internal/product"
	"github.com/javokhirdev/rental-management/internal/tariff"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := openGorm(cfg.Database.Source)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		if clearData {
			for _, table := range []string{
				"cash_withdrawals", "cart_items", "carts", "sales", "lendings",
				"products", "categories", "tariffs", "users",
			} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		hash, err := auth.HashPassword("password", cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}

		director := seedUser(db, &userDatamodel.User{
			Username:     "davron",
			Name:         "Davron",
			PasswordHash: hash,
			Role:         auth.RoleDirector,
			IsActive:     true,
		})
		admin := seedUser(db, &userDatamodel.User{
			Username:     "otabek",
			Name:         "Otabek",
			PasswordHash: hash,
			Role:         auth.RoleAdmin,
			CreatedByID:  &director.ID,
			IsActive:     true,
		})
		seedUser(db, &userDatamodel.User{
			Username:     "aziza",
			Name:         "Aziza",
			PasswordHash: hash,
			Role:         auth.RoleSeller,
			CreatedByID:  &director.ID,
			IsActive:     true,
		})

		today := time.Now().Truncate(24 * time.Hour)
		var tariffCount int64
		db.Model(&tariffDatamodel.Tariff{}).Where("director_id = ?", director.ID).Count(&tariffCount)
		if tariffCount == 0 {
			if err := db.Create(&tariffDatamodel.Tariff{
				DirectorID:    director.ID,
				AdminCount:    5,
				SellerCount:   20,
				ProductCount:  500,
				CategoryCount: 50,
				StartDate:     today,
				EndDate:       today.AddDate(1, 0, 0),
				Status:        tariff.StatusActive,
			}).Error; err != nil {
				log.Fatalf("failed to seed tariff: %v", err)
			}
			fmt.Println("Seeded tariff for director:", director.Username)
		}

		tools := seedCategory(db, &categoryDatamodel.Category{Name: "Power tools", CreatedByID: director.ID})
		seedCategory(db, &categoryDatamodel.Category{Name: "Groceries", CreatedByID: director.ID})

		rentalPrice := decimal.NewFromInt(1000)
		salePrice := decimal.RequireFromString("12.50")
		qty := int64(40)
		seedProduct(db, &productDatamodel.Product{
			Name:        "Concrete mixer",
			Choice:      product.ChoiceRent,
			RentalPrice: decimal.NullDecimal{Decimal: rentalPrice, Valid: true},
			Status:      product.StatusAvailable,
			Quantity:    &qty,
			CategoryID:  &tools.ID,
			AdminID:     admin.ID,
			CreatedByID: admin.ID,
		})
		seedProduct(db, &productDatamodel.Product{
			Name:        "Rice bag 10kg",
			Choice:      product.ChoiceSell,
			Price:       decimal.NullDecimal{Decimal: salePrice, Valid: true},
			Status:      product.StatusAvailable,
			Quantity:    &qty,
			AdminID:     admin.ID,
			CreatedByID: admin.ID,
		})
	},
}

func seedUser(db *gorm.DB, u *userDatamodel.User) *userDatamodel.User {
	var existing userDatamodel.User
	err := db.Where("username = ?", u.Username).First(&existing).Error
	if err == nil {
		fmt.Println("user already exists:", u.Username)
		return &existing
	}
	if err != gorm.ErrRecordNotFound {
		log.Fatalf("failed to check user %s: %v", u.Username, err)
	}
	if err := db.Create(u).Error; err != nil {
		log.Fatalf("failed to seed user %s: %v", u.Username, err)
	}
	fmt.Println("Seeded user:", u.Username)
	return u
}

func seedCategory(db *gorm.DB, c *categoryDatamodel.Category) *categoryDatamodel.Category {
	var existing categoryDatamodel.Category
	err := db.Where("name = ? AND created_by = ?", c.Name, c.CreatedByID).First(&existing).Error
	if err == nil {
		return &existing
	}
	if err != gorm.ErrRecordNotFound {
		log.Fatalf("failed to check category %s: %v", c.Name, err)
	}
	if err := db.Create(c).Error; err != nil {
		log.Fatalf("failed to seed category %s: %v", c.Name, err)
	}
	fmt.Println("Seeded category:", c.Name)
	return c
}

func seedProduct(db *gorm.DB, p *productDatamodel.Product) {
	var existing productDatamodel.Product
	err := db.Where("name = ? AND admin_id = ?", p.Name, p.AdminID).First(&existing).Error
	if err == nil {
		return
	}
	if err != gorm.ErrRecordNotFound {
		log.Fatalf("failed to check product %s: %v", p.Name, err)
	}
	if err := db.Create(p).Error; err != nil {
		log.Fatalf("failed to seed product %s: %v", p.Name, err)
	}
	fmt.Println("Seeded product:", p.Name)
}
