package repository

import (
	"time"

	"github.com/pulsechat/pulse-backend/internal/domain"
	"gorm.io/gorm"
)

// UserRepository user data access interface
type UserRepository interface {
	// Read operations
	FindByID(id uint64) (*domain.User, error)
	FindByUsername(username string) (*domain.User, error)

	// Write operations
	Create(user *domain.User) error
	UpdatePassword(id uint64, passwordHash string) error
	MarkOnline(id uint64, at time.Time) error

	// Validation operations
	ExistsByID(id uint64) (bool, error)
	ExistsByUsername(username string) (bool, error)
	ExistsByPhone(phone string) (bool, error)

	// Directory operations
	FindContactsOf(userID uint64, search string) ([]*domain.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// FindByID finds a user by primary key
func (r *userRepository) FindByID(id uint64) (*domain.User, error) {
	var user domain.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *userRepository) FindByUsername(username string) (*domain.User, error) {
	var user domain.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create creates a new user
func (r *userRepository) Create(user *domain.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	return r.db.Create(user).Error
}

// UpdatePassword replaces a user's password hash
func (r *userRepository) UpdatePassword(id uint64, passwordHash string) error {
	return r.db.Model(&domain.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash).Error
}

// MarkOnline flips the online flag and stamps last_seen
func (r *userRepository) MarkOnline(id uint64, at time.Time) error {
	return r.db.Model(&domain.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_online": true,
			"last_seen": at,
		}).Error
}

// ExistsByID checks whether a user id exists
func (r *userRepository) ExistsByID(id uint64) (bool, error) {
	var count int64
	err := r.db.Model(&domain.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// ExistsByUsername checks whether a username is taken
func (r *userRepository) ExistsByUsername(username string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// ExistsByPhone checks whether a phone number is registered
func (r *userRepository) ExistsByPhone(phone string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.User{}).Where("phone = ?", phone).Count(&count).Error
	return count > 0, err
}

// FindContactsOf returns the users whose phone appears in userID's contact
// list, optionally filtered by a case-insensitive substring on display
// name or username. LOWER/LIKE keeps the filter portable across Postgres
// and the SQLite test database.
func (r *userRepository) FindContactsOf(userID uint64, search string) ([]*domain.User, error) {
	var users []*domain.User
	q := r.db.Model(&domain.User{}).
		Joins("JOIN contacts ON contacts.contact_phone = users.phone AND contacts.user_id = ?", userID).
		Where("users.id <> ?", userID)
	if search != "" {
		pattern := "%" + search + "%"
		q = q.Where("LOWER(users.display_name) LIKE LOWER(?) OR LOWER(users.username) LIKE LOWER(?)", pattern, pattern)
	}
	err := q.Order("users.display_name").Find(&users).Error
	return users, err
}
