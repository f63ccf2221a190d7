package service

import (
	"context"
	"strings"
	"time"

	"github.com/pulsechat/pulse-backend/internal/domain"
	"github.com/pulsechat/pulse-backend/internal/repository"
	"github.com/pulsechat/pulse-backend/pkg/logger"
	"github.com/pulsechat/pulse-backend/pkg/presence"
)

// DirectoryService contacts-scoped user directory logic
type DirectoryService interface {
	List(ctx context.Context, userID uint64, search string) ([]*domain.DirectoryEntry, error)
	SyncContacts(userID uint64, phoneNumbers []string) error
	PingOnline(ctx context.Context, userID uint64) error
}

type directoryService struct {
	userRepo    repository.UserRepository
	contactRepo repository.ContactRepository
	tracker     *presence.Tracker
}

// NewDirectoryService creates a new DirectoryService
func NewDirectoryService(userRepo repository.UserRepository, contactRepo repository.ContactRepository, tracker *presence.Tracker) DirectoryService {
	return &directoryService{
		userRepo:    userRepo,
		contactRepo: contactRepo,
		tracker:     tracker,
	}
}

// List returns the caller's contacts present on the platform. With Redis
// wired, online status comes from live presence markers; otherwise the
// stored is_online column is used as-is.
func (s *directoryService) List(ctx context.Context, userID uint64, search string) ([]*domain.DirectoryEntry, error) {
	users, err := s.userRepo.FindContactsOf(userID, strings.TrimSpace(search))
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.DirectoryEntry, 0, len(users))
	for _, u := range users {
		entries = append(entries, &domain.DirectoryEntry{
			ID:          u.ID,
			Username:    u.Username,
			DisplayName: u.DisplayName,
			Avatar:      u.Avatar,
			Status:      u.Status,
			Online:      u.IsOnline,
			LastSeen:    u.LastSeen,
		})
	}

	if s.tracker.Available() && len(entries) > 0 {
		ids := make([]uint64, len(entries))
		for i, e := range entries {
			ids[i] = e.ID
		}
		online, err := s.tracker.OnlineSet(ctx, ids)
		if err != nil {
			logger.Warn("presence lookup failed: %v", err)
		} else {
			for _, e := range entries {
				e.Online = online[e.ID]
			}
		}
	}

	return entries, nil
}

// SyncContacts stores the caller's phone book, ignoring pairs already
// present. Safe to call repeatedly with the same numbers.
func (s *directoryService) SyncContacts(userID uint64, phoneNumbers []string) error {
	// Dedupe within the request: Postgres rejects ON CONFLICT hitting
	// the same row twice in one statement.
	seen := make(map[string]struct{}, len(phoneNumbers))
	phones := make([]string, 0, len(phoneNumbers))
	for _, raw := range phoneNumbers {
		phone := strings.TrimSpace(raw)
		if phone == "" {
			continue
		}
		if _, dup := seen[phone]; dup {
			continue
		}
		seen[phone] = struct{}{}
		phones = append(phones, phone)
	}

	return s.contactRepo.Upsert(userID, phones)
}

// PingOnline marks the caller online now, in the users table and in the
// presence tracker when one is wired
func (s *directoryService) PingOnline(ctx context.Context, userID uint64) error {
	if err := s.userRepo.MarkOnline(userID, time.Now()); err != nil {
		return err
	}
	if err := s.tracker.Touch(ctx, userID); err != nil {
		logger.Warn("presence touch failed for user %d: %v", userID, err)
	}
	return nil
}
