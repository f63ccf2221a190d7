package service

import (
	"errors"
	"testing"
	"time"

	"github.com/pulsechat/pulse-backend/internal/common"
	"github.com/pulsechat/pulse-backend/internal/domain"
	"github.com/pulsechat/pulse-backend/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// --- Mock UserRepository ---

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) FindByID(id uint64) (*domain.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) FindByUsername(username string) (*domain.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) Create(user *domain.User) error {
	return m.Called(user).Error(0)
}

func (m *mockUserRepo) UpdatePassword(id uint64, passwordHash string) error {
	return m.Called(id, passwordHash).Error(0)
}

func (m *mockUserRepo) MarkOnline(id uint64, at time.Time) error {
	return m.Called(id, at).Error(0)
}

func (m *mockUserRepo) ExistsByID(id uint64) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) ExistsByUsername(username string) (bool, error) {
	args := m.Called(username)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) ExistsByPhone(phone string) (bool, error) {
	args := m.Called(phone)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) FindContactsOf(userID uint64, search string) ([]*domain.User, error) {
	args := m.Called(userID, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

func newTestJWTManager() *jwt.Manager {
	return jwt.NewManager("test-secret", 900, 86400)
}

// --- Register ---

func TestRegister_Success(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewAuthService(repo, newTestJWTManager())

	repo.On("ExistsByUsername", "ann").Return(false, nil)
	repo.On("ExistsByPhone", "+15550001").Return(false, nil)
	repo.On("Create", mock.AnythingOfType("*domain.User")).Run(func(args mock.Arguments) {
		args.Get(0).(*domain.User).ID = 1
	}).Return(nil)

	resp, err := svc.Register(&domain.RegisterRequest{
		Username: "ann",
		Password: "secret",
		Phone:    "+15550001",
	})

	assert.NoError(t, err)
	assert.Equal(t, uint64(1), resp.User.ID)
	assert.Equal(t, "ann", resp.User.Username)
	// Display name falls back to username, avatar to the default emoji
	assert.Equal(t, "ann", resp.User.DisplayName)
	assert.Equal(t, "👤", resp.User.Avatar)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	repo.AssertExpectations(t)
}

func TestRegister_HashesPasswordWithBcrypt(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewAuthService(repo, newTestJWTManager())

	var created *domain.User
	repo.On("ExistsByUsername", "bob").Return(false, nil)
	repo.On("ExistsByPhone", "+15550002").Return(false, nil)
	repo.On("Create", mock.AnythingOfType("*domain.User")).Run(func(args mock.Arguments) {
		created = args.Get(0).(*domain.User)
	}).Return(nil)

	_, err := svc.Register(&domain.RegisterRequest{
		Username: "bob",
		Password: "hunter2",
		Phone:    "+15550002",
	})

	assert.NoError(t, err)
	assert.NotEqual(t, "hunter2", created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("hunter2")))
}

func TestRegister_DuplicateUsername(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewAuthService(repo, newTestJWTManager())

	repo.On("ExistsByUsername", "ann").Return(true, nil)

	_, err := svc.Register(&domain.RegisterRequest{
		Username: "ann",
		Password: "y",
		Phone:    "+2",
	})

	assert.ErrorIs(t, err, common.ErrUsernameAlreadyExists)
	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestRegister_DuplicatePhone(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewAuthService(repo, newTestJWTManager())

	repo.On("ExistsByUsername", "carol").Return(false, nil)
	repo.On("ExistsByPhone", "+15550001").Return(true, nil)

	_, err := svc.Register(&domain.RegisterRequest{
		Username: "carol",
		Password: "x",
		Phone:    "+15550001",
	})

	assert.ErrorIs(t, err, common.ErrPhoneAlreadyRegistered)
	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestRegister_DuplicateKeyOnInsert(t *testing.T) {
	// Two concurrent registrations can both pass the existence checks;
	// the unique constraint rejects the second insert and the error must
	// still surface as a conflict, not a 500.
	repo := new(mockUserRepo)
	svc := NewAuthService(repo, newTestJWTManager())

	repo.On("ExistsByUsername", "ann").Return(false, nil)
	repo.On("ExistsByPhone", "+1").Return(false, nil)
	repo.On("Create", mock.AnythingOfType("*domain.User")).Return(gorm.ErrDuplicatedKey)

	_, err := svc.Register(&domain.RegisterRequest{
		Username: "ann",
		Password: "x",
		Phone:    "+1",
	})

	assert.ErrorIs(t, err, common.ErrUsernameAlreadyExists)
}

func TestRegister_DuplicateKeyOnInsert_PhoneRace(t *testing.T) {
	// When a concurrent registration claims the phone between the
	// existence check and the insert, the re-check after the constraint
	// failure picks the phone conflict message.
	repo := new(mockUserRepo)
	svc := NewAuthService(repo, newTestJWTManager())

	repo.On("ExistsByUsername", "ann").Return(false, nil)
	repo.On("ExistsByPhone", "+1").Return(false, nil).Once()
	repo.On("Create", mock.AnythingOfType("*domain.User")).Return(gorm.ErrDuplicatedKey)
	repo.On("ExistsByPhone", "+1").Return(true, nil).Once()

	_, err := svc.Register(&domain.RegisterRequest{
		Username: "ann",
		Password: "x",
		Phone:    "+1",
	})

	assert.ErrorIs(t, err, common.ErrPhoneAlreadyRegistered)
}

func TestRegister_MissingFields(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewAuthService(repo, newTestJWTManager())

	_, err := svc.Register(&domain.RegisterRequest{Username: "  ", Password: "x", Phone: "+1"})
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = svc.Register(&domain.RegisterRequest{Username: "ann", Password: "x", Phone: " "})
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

// --- Login ---

func TestLogin_Success(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewAuthService(repo, newTestJWTManager())

	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.DefaultCost)
	repo.On("FindByUsername", "ann").Return(&domain.User{
		ID:           7,
		Username:     "ann",
		PasswordHash: string(hashed),
	}, nil)

	resp, err := svc.Login("ann", "secret")

	assert.NoError(t, err)
	assert.Equal(t, uint64(7), resp.User.ID)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewAuthService(repo, newTestJWTManager())

	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.DefaultCost)
	repo.On("FindByUsername", "ann").Return(&domain.User{
		ID:           7,
		Username:     "ann",
		PasswordHash: string(hashed),
	}, nil)

	_, err := svc.Login("ann", "wrong")

	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestLogin_UnknownUserSameError(t *testing.T) {
	// An unknown username must produce the same error as a wrong
	// password so responses never leak account existence.
	repo := new(mockUserRepo)
	svc := NewAuthService(repo, newTestJWTManager())

	repo.On("FindByUsername", "ghost").Return(nil, errors.New("record not found"))

	_, err := svc.Login("ghost", "whatever")

	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestLogin_LegacyHashUpgradedToBcrypt(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewAuthService(repo, newTestJWTManager())

	// unsalted SHA-256 of "secret", as stored by the legacy system
	legacy := "2bb80d537b1da3e38bd30361aa855686bde0eacd7162fef6a25fe97bf527a25b"
	repo.On("FindByUsername", "old").Return(&domain.User{
		ID:           3,
		Username:     "old",
		PasswordHash: legacy,
	}, nil)
	repo.On("UpdatePassword", uint64(3), mock.MatchedBy(func(hash string) bool {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte("secret")) == nil
	})).Return(nil)

	resp, err := svc.Login("old", "secret")

	assert.NoError(t, err)
	assert.Equal(t, uint64(3), resp.User.ID)
	repo.AssertExpectations(t)
}

// --- RefreshToken ---

func TestRefreshToken_RoundTrip(t *testing.T) {
	repo := new(mockUserRepo)
	manager := newTestJWTManager()
	svc := NewAuthService(repo, manager)

	refresh, err := manager.GenerateRefreshToken(5)
	assert.NoError(t, err)

	repo.On("FindByID", uint64(5)).Return(&domain.User{ID: 5, Username: "eve"}, nil)

	pair, err := svc.RefreshToken(refresh)

	assert.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
}

func TestRefreshToken_RejectsAccessToken(t *testing.T) {
	repo := new(mockUserRepo)
	manager := newTestJWTManager()
	svc := NewAuthService(repo, manager)

	access, err := manager.GenerateAccessToken(5, "eve")
	assert.NoError(t, err)

	_, err = svc.RefreshToken(access)

	assert.ErrorIs(t, err, common.ErrInvalidToken)
	repo.AssertNotCalled(t, "FindByID", mock.Anything)
}

func TestRefreshToken_Invalid(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewAuthService(repo, newTestJWTManager())

	_, err := svc.RefreshToken("not-a-token")

	assert.ErrorIs(t, err, common.ErrInvalidToken)
}
