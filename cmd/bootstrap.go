package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/javokhirdev/rental-management/internal/auth"
	userDatamodel "github.com/javokhirdev/rental-management/internal/core/datamodel/user"
)

// bootstrapCmd creates the first Director account. Every other account is
// created through the API by a Director or one of their Admins, so a fresh
// deployment needs exactly one of these.
var (
	bootstrapCmd = &cobra.Command{
		Use:   "bootstrap",
		Short: "Create the initial Director account",
		Run: func(cmd *cobra.Command, args []string) {
			runBootstrap()
		},
	}
	bootstrapUsername string
	bootstrapPassword string
	bootstrapName     string
)

func init() {
	bootstrapCmd.Flags().StringVar(&bootstrapUsername, "username", "", "Director username")
	bootstrapCmd.Flags().StringVar(&bootstrapPassword, "password", "", "Director password")
	bootstrapCmd.Flags().StringVar(&bootstrapName, "name", "", "Director display name")
	_ = bootstrapCmd.MarkFlagRequired("username")
	_ = bootstrapCmd.MarkFlagRequired("password")
}

func runBootstrap() {
	cfg, err := loadConfig(".")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := openGorm(cfg.Database.Source)
	if err != nil {
		log.Fatalf("failed to init db: %v", err)
	}

	var count int64
	if err := db.Model(&userDatamodel.User{}).Where("username = ?", bootstrapUsername).Count(&count).Error; err != nil {
		log.Fatalf("failed to check existing users: %v", err)
	}
	if count > 0 {
		fmt.Println("user already exists:", bootstrapUsername)
		return
	}

	hash, err := auth.HashPassword(bootstrapPassword, cfg.Security.BCryptCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	director := &userDatamodel.User{
		Username:      bootstrapUsername,
		Name:          bootstrapName,
		PasswordHash:  hash,
		Role:          auth.RoleDirector,
		WorkStartTime: cfg.Workday.DefaultStart,
		WorkEndTime:   cfg.Workday.DefaultEnd,
		IsActive:      true,
	}
	if err := db.Create(director).Error; err != nil {
		log.Fatalf("failed to create director: %v", err)
	}

	fmt.Printf("Created director %s (id %d)\n", director.Username, director.ID)
}

func openGorm(source string) (*gorm.DB, error) {
	return gorm.Open(gormPostgres.Open(source), &gorm.Config{})
}
