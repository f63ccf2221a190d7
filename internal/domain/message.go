package domain

import "time"

// Message represents a direct message between two users (messages table)
type Message struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SenderID   uint64    `gorm:"column:sender_id;index;not null" json:"sender_id"`
	ReceiverID uint64    `gorm:"column:receiver_id;index;not null" json:"receiver_id"`
	Text       string    `gorm:"column:message_text;type:text;not null" json:"message_text"`
	IsRead     bool      `gorm:"column:is_read;default:false" json:"is_read"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`

	Sender   *User `gorm:"foreignKey:SenderID" json:"-"`
	Receiver *User `gorm:"foreignKey:ReceiverID" json:"-"`
}

func (Message) TableName() string {
	return "messages"
}

// SendMessageRequest represents a send message request
type SendMessageRequest struct {
	ReceiverID uint64 `json:"receiver_id" binding:"required"`
	Text       string `json:"message_text" binding:"required"`
}

// ThreadMessage is a message enriched with sender/receiver display metadata
type ThreadMessage struct {
	ID             uint64    `json:"id"`
	SenderID       uint64    `json:"sender_id"`
	ReceiverID     uint64    `json:"receiver_id"`
	Text           string    `json:"message_text"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
	SenderName     string    `json:"sender_name"`
	SenderAvatar   string    `json:"sender_avatar"`
	ReceiverName   string    `json:"receiver_name"`
	ReceiverAvatar string    `json:"receiver_avatar"`
}

// ChatDigest is one inbox row per conversation partner: the latest
// message exchanged with that partner plus the caller's unread count.
type ChatDigest struct {
	PeerID      uint64    `json:"id"`
	Name        string    `json:"name"`
	Avatar      string    `json:"avatar"`
	Status      string    `json:"status"`
	LastMessage string    `json:"lastMessage"`
	Time        time.Time `json:"time"`
	Unread      int64     `json:"unread"`
}
