package bootstrap

import (
	"log"
	"strings"

	"anoa.com/freelancehub/internal/entity"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// oneAcceptedPerProject backs the accept transition: at most one accepted
// application may exist for a project.
const oneAcceptedPerProject = `CREATE UNIQUE INDEX IF NOT EXISTS idx_applications_one_accepted
ON applications (project_id) WHERE status = 'accepted'`

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&entity.User{},
		&entity.FreelancerProfile{},
		&entity.Project{},
		&entity.Application{},
		&entity.Rating{},
		&entity.Notification{},
	); err != nil {
		return err
	}
	return db.Exec(oneAcceptedPerProject).Error
}

func SeedAdminUser(db *gorm.DB, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	var count int64
	if err := db.Model(&entity.User{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}

	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	adminUser := entity.User{
		Email:        email,
		FullName:     "Administrator",
		Phone:        "00000000",
		PasswordHash: string(hashedPasswordBytes),
		Role:         entity.RoleAdmin,
		IsActive:     true,
	}

	if err := db.Create(&adminUser).Error; err != nil {
		return err
	}

	log.Println("✅ Admin user seeded successfully")
	log.Printf("   Email: %s", email)

	return nil
}
