package repository

import (
	"time"

	"github.com/pulsechat/pulse-backend/internal/domain"
	"gorm.io/gorm"
)

// MessageRepository message data access interface
type MessageRepository interface {
	Create(msg *domain.Message) error
	// FindThread returns all messages between the two users ordered by
	// creation time ascending, with sender/receiver display metadata, and
	// marks unread peer->user messages read in the same transaction.
	FindThread(userID, peerID uint64) ([]*domain.ThreadMessage, error)
	// FindChatDigests returns one row per conversation partner: the most
	// recent message plus the unread count from that partner.
	FindChatDigests(userID uint64) ([]*domain.ChatDigest, error)
	// DeleteOwned removes a message only when ownerID sent it and reports
	// how many rows went away.
	DeleteOwned(id, ownerID uint64) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create inserts a message with a server-assigned timestamp
func (r *messageRepository) Create(msg *domain.Message) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	return r.db.Create(msg).Error
}

// FindThread fetches the two-way thread and flips the caller's unread
// messages from the peer to read. Both statements share one transaction
// so a reader never observes the mark without the fetch it belongs to.
func (r *messageRepository) FindThread(userID, peerID uint64) ([]*domain.ThreadMessage, error) {
	var thread []*domain.ThreadMessage

	err := r.db.Transaction(func(tx *gorm.DB) error {
		rows := tx.Table("messages m").
			Select(`m.id, m.sender_id, m.receiver_id, m.message_text AS text, m.is_read, m.created_at,
				u1.display_name AS sender_name, u1.avatar AS sender_avatar,
				u2.display_name AS receiver_name, u2.avatar AS receiver_avatar`).
			Joins("JOIN users u1 ON m.sender_id = u1.id").
			Joins("JOIN users u2 ON m.receiver_id = u2.id").
			Where("(m.sender_id = ? AND m.receiver_id = ?) OR (m.sender_id = ? AND m.receiver_id = ?)",
				userID, peerID, peerID, userID).
			Order("m.created_at ASC, m.id ASC")
		if err := rows.Scan(&thread).Error; err != nil {
			return err
		}

		// is_read only ever moves false -> true
		return tx.Model(&domain.Message{}).
			Where("receiver_id = ? AND sender_id = ? AND is_read = ?", userID, peerID, false).
			Update("is_read", true).Error
	})
	if err != nil {
		return nil, err
	}
	if thread == nil {
		thread = []*domain.ThreadMessage{}
	}
	return thread, nil
}

// FindChatDigests picks the latest message per partner via MAX(id) over a
// normalized (peer_id, id) projection, then attaches the partner profile
// and a correlated unread count. Written in plain SQL that runs on both
// Postgres and SQLite.
func (r *messageRepository) FindChatDigests(userID uint64) ([]*domain.ChatDigest, error) {
	var digests []*domain.ChatDigest

	err := r.db.Raw(`
		SELECT
			p.peer_id,
			u.display_name AS name,
			u.avatar,
			u.status,
			m.message_text AS last_message,
			m.created_at AS time,
			(SELECT COUNT(*) FROM messages
			 WHERE receiver_id = ? AND sender_id = p.peer_id AND is_read = ?) AS unread
		FROM (
			SELECT
				CASE WHEN sender_id = ? THEN receiver_id ELSE sender_id END AS peer_id,
				MAX(id) AS last_id
			FROM messages
			WHERE sender_id = ? OR receiver_id = ?
			GROUP BY CASE WHEN sender_id = ? THEN receiver_id ELSE sender_id END
		) p
		JOIN messages m ON m.id = p.last_id
		JOIN users u ON u.id = p.peer_id
		ORDER BY m.created_at DESC`,
		userID, false, userID, userID, userID, userID).
		Scan(&digests).Error
	if err != nil {
		return nil, err
	}
	if digests == nil {
		digests = []*domain.ChatDigest{}
	}
	return digests, nil
}

// DeleteOwned deletes a message when the caller is its sender. Zero rows
// affected is not an error: missing and non-owned ids fall through the
// WHERE clause silently.
func (r *messageRepository) DeleteOwned(id, ownerID uint64) (int64, error) {
	result := r.db.Where("id = ? AND sender_id = ?", id, ownerID).
		Delete(&domain.Message{})
	return result.RowsAffected, result.Error
}
