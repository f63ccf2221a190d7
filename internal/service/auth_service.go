package service

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/pulsechat/pulse-backend/internal/common"
	"github.com/pulsechat/pulse-backend/internal/domain"
	"github.com/pulsechat/pulse-backend/internal/repository"
	"github.com/pulsechat/pulse-backend/pkg/jwt"
	"github.com/pulsechat/pulse-backend/pkg/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const defaultAvatar = "👤"

// AuthService authentication business logic
type AuthService interface {
	Register(req *domain.RegisterRequest) (*AuthResponse, error)
	Login(username, password string) (*AuthResponse, error)
	RefreshToken(refreshToken string) (*TokenPair, error)
	GetCurrentUser(userID uint64) (*domain.UserResponse, error)
}

// AuthResponse login/register response
type AuthResponse struct {
	User         *domain.UserResponse `json:"user"`
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
}

// TokenPair token pair
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type authService struct {
	userRepo   repository.UserRepository
	jwtManager *jwt.Manager
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, jwtManager *jwt.Manager) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
	}
}

// Register creates a new user account
func (s *authService) Register(req *domain.RegisterRequest) (*AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	password := strings.TrimSpace(req.Password)
	phone := strings.TrimSpace(req.Phone)

	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password required", common.ErrInvalidInput)
	}
	if phone == "" {
		return nil, fmt.Errorf("%w: phone number required", common.ErrInvalidInput)
	}

	// Fast-path duplicate checks. The unique constraints on username and
	// phone remain the real guarantee: two concurrent registrations can
	// both pass these lookups, and the second insert fails at commit.
	exists, err := s.userRepo.ExistsByUsername(username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.ErrUsernameAlreadyExists
	}

	exists, err = s.userRepo.ExistsByPhone(phone)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.ErrPhoneAlreadyRegistered
	}

	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		displayName = username
	}
	avatar := req.Avatar
	if avatar == "" {
		avatar = defaultAvatar
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(hashed),
		DisplayName:  displayName,
		Avatar:       avatar,
		Phone:        phone,
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// The driver does not say which constraint fired; a losing
			// phone race re-checks as taken here.
			if taken, checkErr := s.userRepo.ExistsByPhone(phone); checkErr == nil && taken {
				return nil, common.ErrPhoneAlreadyRegistered
			}
			return nil, common.ErrUsernameAlreadyExists
		}
		return nil, err
	}

	return s.issueTokens(user)
}

// Login authenticates a user and returns tokens. Every failure path maps
// to the same invalid-credentials error so responses never reveal
// whether the username exists.
func (s *authService) Login(username, password string) (*AuthResponse, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password required", common.ErrInvalidInput)
	}

	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return nil, common.ErrInvalidCredentials
	}

	if !verifyPassword(password, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	// Accounts migrated from the legacy system carry unsalted SHA-256
	// digests; upgrade them to bcrypt on first successful login.
	if !isBcryptHash(user.PasswordHash) {
		if upgraded, hashErr := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost); hashErr == nil {
			if updateErr := s.userRepo.UpdatePassword(user.ID, string(upgraded)); updateErr != nil {
				logger.Warn("password upgrade failed for user %s: %v", username, updateErr)
			}
		}
	}

	return s.issueTokens(user)
}

// RefreshToken exchanges a valid refresh token for a new pair
func (s *authService) RefreshToken(refreshToken string) (*TokenPair, error) {
	claims, err := s.jwtManager.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, common.ErrUserNotFound
	}

	access, err := s.jwtManager.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refresh, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// GetCurrentUser returns the user record for an authenticated caller
func (s *authService) GetCurrentUser(userID uint64) (*domain.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, common.ErrUserNotFound
	}
	return user.ToResponse(), nil
}

func (s *authService) issueTokens(user *domain.User) (*AuthResponse, error) {
	access, err := s.jwtManager.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refresh, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	return &AuthResponse{
		User:         user.ToResponse(),
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

// verifyPassword tries bcrypt first, then the legacy unsalted SHA-256
// hex digest used by the previous system.
func verifyPassword(password, stored string) bool {
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}

	sum := sha256.Sum256([]byte(password))
	digest := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(digest), []byte(strings.ToLower(stored))) == 1
}

func isBcryptHash(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") || strings.HasPrefix(hash, "$2b$") || strings.HasPrefix(hash, "$2y$")
}
