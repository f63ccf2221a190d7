package domain

import "time"

// Contact records that a user has a phone number in their address book.
// The relation is one-directional: it scopes the owner's directory view
// and implies nothing about the other side.
type Contact struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID       uint64    `gorm:"column:user_id;uniqueIndex:idx_contacts_user_phone;not null" json:"user_id"`
	ContactPhone string    `gorm:"column:contact_phone;size:30;uniqueIndex:idx_contacts_user_phone;not null" json:"contact_phone"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Contact) TableName() string {
	return "contacts"
}

// SyncContactsRequest represents a contact book upload
type SyncContactsRequest struct {
	PhoneNumbers []string `json:"phone_numbers" binding:"required"`
}
