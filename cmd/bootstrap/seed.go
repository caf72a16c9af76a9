package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"clinic-management/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedOptions describes the first branch and its super admin.
type SeedOptions struct {
	BranchName    string
	AdminEmail    string
	AdminPassword string
	// WithCatalog also seeds a starter service catalog for the branch.
	WithCatalog bool
}

var starterCatalog = []struct {
	name  string
	price string
}{
	{"Consultation", "150.00"},
	{"Scaling", "300.00"},
	{"Composite Filling", "350.00"},
	{"Tooth Extraction", "400.00"},
	{"Panoramic X-Ray", "250.00"},
}

// Seed creates the first branch and a super admin. Running it again is a no-op
// once the admin email exists.
func Seed(db *gorm.DB, log *logrus.Logger, opts SeedOptions) error {
	email := strings.ToLower(strings.TrimSpace(opts.AdminEmail))
	if email == "" || len(opts.AdminPassword) < 8 {
		return fmt.Errorf("seed needs an admin email and a password of at least 8 characters")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(opts.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&entity.User{}).Where("LOWER(email) = ?", email).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			log.Infof("Seed skipped: %s already exists", email)
			return nil
		}

		now := time.Now().UTC()
		branch := &entity.Branch{
			ID:          uuid.New(),
			Name:        opts.BranchName,
			OpeningTime: "08:00",
			ClosingTime: "20:00",
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.Create(branch).Error; err != nil {
			return fmt.Errorf("seed branch: %w", err)
		}

		admin := &entity.User{
			ID:        uuid.New(),
			BranchID:  branch.ID,
			Role:      entity.RoleSuperAdmin,
			Email:     email,
			Password:  string(hashedPassword),
			FirstName: "Super",
			LastName:  "Admin",
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).
			Create(admin).Error; err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}

		if opts.WithCatalog {
			services := make([]entity.Service, 0, len(starterCatalog))
			for _, item := range starterCatalog {
				services = append(services, entity.Service{
					ID:        uuid.New(),
					BranchID:  branch.ID,
					Name:      item.name,
					Price:     decimal.RequireFromString(item.price),
					IsActive:  true,
					CreatedAt: now,
					UpdatedAt: now,
				})
			}
			if err := tx.Create(&services).Error; err != nil {
				return fmt.Errorf("seed catalog: %w", err)
			}
		}

		log.Infof("Seeded branch %q (%s) with super admin %s", branch.Name, branch.ID, admin.Email)
		return nil
	})
}
