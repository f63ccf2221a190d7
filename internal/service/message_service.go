package service

import (
	"fmt"
	"strings"

	"github.com/pulsechat/pulse-backend/internal/common"
	"github.com/pulsechat/pulse-backend/internal/domain"
	"github.com/pulsechat/pulse-backend/internal/repository"
)

// MessageService business logic for direct messages
type MessageService interface {
	Send(senderID uint64, req *domain.SendMessageRequest) (*domain.Message, error)
	GetThread(userID, peerID uint64) ([]*domain.ThreadMessage, error)
	GetChatDigests(userID uint64) ([]*domain.ChatDigest, error)
	Delete(userID, messageID uint64) error
}

type messageService struct {
	repo     repository.MessageRepository
	userRepo repository.UserRepository
}

// NewMessageService creates a new MessageService
func NewMessageService(repo repository.MessageRepository, userRepo repository.UserRepository) MessageService {
	return &messageService{
		repo:     repo,
		userRepo: userRepo,
	}
}

// Send validates and stores a message
func (s *messageService) Send(senderID uint64, req *domain.SendMessageRequest) (*domain.Message, error) {
	text := strings.TrimSpace(req.Text)
	if req.ReceiverID == 0 || text == "" {
		return nil, fmt.Errorf("%w: receiver id and message text required", common.ErrInvalidInput)
	}

	// Friendlier than letting the FK violation surface as a 500
	exists, err := s.userRepo.ExistsByID(req.ReceiverID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, common.ErrReceiverNotFound
	}

	msg := &domain.Message{
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
		Text:       text,
	}

	if err := s.repo.Create(msg); err != nil {
		return nil, err
	}

	return msg, nil
}

// GetThread returns the full conversation with peerID, marking unread
// peer->caller messages read as a side effect
func (s *messageService) GetThread(userID, peerID uint64) ([]*domain.ThreadMessage, error) {
	if peerID == 0 {
		return nil, fmt.Errorf("%w: peer user id required", common.ErrInvalidInput)
	}
	return s.repo.FindThread(userID, peerID)
}

// GetChatDigests returns one summarized row per conversation partner
func (s *messageService) GetChatDigests(userID uint64) ([]*domain.ChatDigest, error) {
	return s.repo.FindChatDigests(userID)
}

// Delete removes a message the caller sent. A missing or non-owned id
// deletes nothing and still reports success.
func (s *messageService) Delete(userID, messageID uint64) error {
	if messageID == 0 {
		return fmt.Errorf("%w: message id required", common.ErrInvalidInput)
	}
	_, err := s.repo.DeleteOwned(messageID, userID)
	return err
}
