package database

import (
	"fmt"
	"log"
	"os"

	"github.com/stevejford/sassiart/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=sassiart port=5432 sslmode=disable"
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	// Ensure PostgreSQL has gen_random_uuid() available (pgcrypto extension).
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		return fmt.Errorf("failed to enable pgcrypto extension: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Student{},
		&models.ProductCategory{},
		&models.Product{},
		&models.Artwork{},
		&models.Order{},
		&models.OrderItem{},
		&models.Subscription{},
		&models.PasswordResetToken{},
		&models.RefreshToken{},
	); err != nil {
		return err
	}

	return nil
}

// CreateDefaultAdmin seeds an admin account so a fresh deployment can log
// into the admin area. Admins live in the students table with is_admin set,
// matching how the storefront treats staff.
func CreateDefaultAdmin(db *gorm.DB) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminEmail == "" {
		adminEmail = "admin@sassiart.com"
	}
	if adminPassword == "" {
		adminPassword = "admin123"
	}

	var existing models.Student
	result := db.Where("email = ?", adminEmail).First(&existing)
	if result.Error == nil {
		// Admin already exists
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.Student{
		Name:     "Admin",
		Email:    adminEmail,
		Password: string(hashedPassword),
		IsAdmin:  true,
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("Default admin created: %s", adminEmail)
	return nil
}
