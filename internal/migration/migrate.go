package migration

import (
	"github.com/pulsechat/pulse-backend/internal/domain"
	"gorm.io/gorm"
)

// Run executes AutoMigrate for the messaging schema. Tables are created
// when missing and new columns are added; nothing is dropped.
func Run(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Message{},
		&domain.Contact{},
	)
}
