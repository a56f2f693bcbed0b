package boot

import (
	"buspass/src/db"
	"buspass/src/models"
	"buspass/src/types"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Application{},
		&models.Payment{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

// SeedAdmin creates the administrative account from ADMIN_EMAIL and
// ADMIN_PASSWORD when it does not exist yet. Registration via the API always
// produces student accounts.
func SeedAdmin(gdb *gorm.DB) {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}
	var count int64
	if err := gdb.
		Model(&models.User{}).
		Where(&models.User{Email: email}).
		Count(&count).
		Error; err != nil {
		log.Printf("Error checking for admin account: %s\n", err.Error())
		return
	}
	if count > 0 {
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Error hashing admin password: %s\n", err.Error())
		return
	}
	admin := models.User{
		Name:         "Administrator",
		Email:        email,
		Role:         types.ROLE_ADMIN,
		PasswordHash: string(hash),
	}
	if err := gdb.Create(&admin).Error; err != nil {
		log.Printf("Error seeding admin account: %s\n", err.Error())
		return
	}
	log.Printf("Seeded admin account [%d]\n", admin.ID)
}
