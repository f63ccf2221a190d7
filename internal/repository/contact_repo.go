package repository

import (
	"time"

	"github.com/pulsechat/pulse-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ContactRepository contact book data access interface
type ContactRepository interface {
	// Upsert stores (userID, phone) pairs, ignoring ones already present
	Upsert(userID uint64, phones []string) error
}

type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new ContactRepository
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

// Upsert inserts contact pairs with ON CONFLICT DO NOTHING, so syncing
// the same phone book twice leaves a single row per pair.
func (r *contactRepository) Upsert(userID uint64, phones []string) error {
	if len(phones) == 0 {
		return nil
	}

	now := time.Now()
	contacts := make([]domain.Contact, 0, len(phones))
	for _, phone := range phones {
		contacts = append(contacts, domain.Contact{
			UserID:       userID,
			ContactPhone: phone,
			CreatedAt:    now,
		})
	}

	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "contact_phone"}},
		DoNothing: true,
	}).Create(&contacts).Error
}
