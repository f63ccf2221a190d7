package service

import (
	"testing"

	"github.com/pulsechat/pulse-backend/internal/common"
	"github.com/pulsechat/pulse-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// --- Mock MessageRepository ---

type mockMessageRepo struct {
	mock.Mock
}

func (m *mockMessageRepo) Create(msg *domain.Message) error {
	return m.Called(msg).Error(0)
}

func (m *mockMessageRepo) FindThread(userID, peerID uint64) ([]*domain.ThreadMessage, error) {
	args := m.Called(userID, peerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ThreadMessage), args.Error(1)
}

func (m *mockMessageRepo) FindChatDigests(userID uint64) ([]*domain.ChatDigest, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ChatDigest), args.Error(1)
}

func (m *mockMessageRepo) DeleteOwned(id, ownerID uint64) (int64, error) {
	args := m.Called(id, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

// --- Send ---

func TestSend_Success(t *testing.T) {
	msgRepo := new(mockMessageRepo)
	userRepo := new(mockUserRepo)
	svc := NewMessageService(msgRepo, userRepo)

	userRepo.On("ExistsByID", uint64(2)).Return(true, nil)
	msgRepo.On("Create", mock.AnythingOfType("*domain.Message")).Run(func(args mock.Arguments) {
		args.Get(0).(*domain.Message).ID = 11
	}).Return(nil)

	msg, err := svc.Send(1, &domain.SendMessageRequest{ReceiverID: 2, Text: "hello"})

	assert.NoError(t, err)
	assert.Equal(t, uint64(11), msg.ID)
	assert.Equal(t, uint64(1), msg.SenderID)
	assert.Equal(t, uint64(2), msg.ReceiverID)
	assert.Equal(t, "hello", msg.Text)
	assert.False(t, msg.IsRead)
}

func TestSend_BlankTextRejected(t *testing.T) {
	msgRepo := new(mockMessageRepo)
	userRepo := new(mockUserRepo)
	svc := NewMessageService(msgRepo, userRepo)

	_, err := svc.Send(1, &domain.SendMessageRequest{ReceiverID: 2, Text: "   "})

	assert.ErrorIs(t, err, common.ErrInvalidInput)
	msgRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestSend_MissingReceiverRejected(t *testing.T) {
	msgRepo := new(mockMessageRepo)
	userRepo := new(mockUserRepo)
	svc := NewMessageService(msgRepo, userRepo)

	_, err := svc.Send(1, &domain.SendMessageRequest{ReceiverID: 0, Text: "hi"})

	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestSend_UnknownReceiver(t *testing.T) {
	msgRepo := new(mockMessageRepo)
	userRepo := new(mockUserRepo)
	svc := NewMessageService(msgRepo, userRepo)

	userRepo.On("ExistsByID", uint64(99)).Return(false, nil)

	_, err := svc.Send(1, &domain.SendMessageRequest{ReceiverID: 99, Text: "hi"})

	assert.ErrorIs(t, err, common.ErrReceiverNotFound)
	msgRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestSend_TrimsText(t *testing.T) {
	msgRepo := new(mockMessageRepo)
	userRepo := new(mockUserRepo)
	svc := NewMessageService(msgRepo, userRepo)

	userRepo.On("ExistsByID", uint64(2)).Return(true, nil)
	msgRepo.On("Create", mock.MatchedBy(func(m *domain.Message) bool {
		return m.Text == "hello"
	})).Return(nil)

	_, err := svc.Send(1, &domain.SendMessageRequest{ReceiverID: 2, Text: "  hello  "})

	assert.NoError(t, err)
	msgRepo.AssertExpectations(t)
}

// --- Thread / digests ---

func TestGetThread_RequiresPeer(t *testing.T) {
	msgRepo := new(mockMessageRepo)
	userRepo := new(mockUserRepo)
	svc := NewMessageService(msgRepo, userRepo)

	_, err := svc.GetThread(1, 0)

	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestGetThread_DelegatesToRepo(t *testing.T) {
	msgRepo := new(mockMessageRepo)
	userRepo := new(mockUserRepo)
	svc := NewMessageService(msgRepo, userRepo)

	thread := []*domain.ThreadMessage{{ID: 1, SenderID: 2, ReceiverID: 1, Text: "hey"}}
	msgRepo.On("FindThread", uint64(1), uint64(2)).Return(thread, nil)

	got, err := svc.GetThread(1, 2)

	assert.NoError(t, err)
	assert.Equal(t, thread, got)
}

func TestGetChatDigests_DelegatesToRepo(t *testing.T) {
	msgRepo := new(mockMessageRepo)
	userRepo := new(mockUserRepo)
	svc := NewMessageService(msgRepo, userRepo)

	digests := []*domain.ChatDigest{{PeerID: 2, Name: "Bob", LastMessage: "bye", Unread: 3}}
	msgRepo.On("FindChatDigests", uint64(1)).Return(digests, nil)

	got, err := svc.GetChatDigests(1)

	assert.NoError(t, err)
	assert.Equal(t, digests, got)
}

// --- Delete ---

func TestDelete_NonOwnedSilentlySucceeds(t *testing.T) {
	msgRepo := new(mockMessageRepo)
	userRepo := new(mockUserRepo)
	svc := NewMessageService(msgRepo, userRepo)

	// zero rows affected: the message belongs to someone else or is gone
	msgRepo.On("DeleteOwned", uint64(42), uint64(1)).Return(int64(0), nil)

	err := svc.Delete(1, 42)

	assert.NoError(t, err)
}

func TestDelete_RequiresMessageID(t *testing.T) {
	msgRepo := new(mockMessageRepo)
	userRepo := new(mockUserRepo)
	svc := NewMessageService(msgRepo, userRepo)

	err := svc.Delete(1, 0)

	assert.ErrorIs(t, err, common.ErrInvalidInput)
}
