package domain

import "time"

// User domain model (users table)
type User struct {
	ID           uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Username     string     `gorm:"column:username;size:50;uniqueIndex;not null" json:"username"`
	PasswordHash string     `gorm:"column:password_hash;size:255;not null" json:"-"`
	DisplayName  string     `gorm:"column:display_name;size:100" json:"display_name"`
	Avatar       string     `gorm:"column:avatar;size:500" json:"avatar"`
	Phone        string     `gorm:"column:phone;size:30;uniqueIndex;not null" json:"phone"`
	Status       string     `gorm:"column:status;size:255" json:"status"`
	IsOnline     bool       `gorm:"column:is_online;default:false" json:"is_online"`
	LastSeen     *time.Time `gorm:"column:last_seen" json:"last_seen,omitempty"`
	CreatedAt    time.Time  `gorm:"column:created_at" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar"`
	Phone       string `json:"phone"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserResponse represents a user in API responses (no password hash)
type UserResponse struct {
	ID          uint64 `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar"`
	Status      string `json:"status"`
	Phone       string `json:"phone"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Avatar:      u.Avatar,
		Status:      u.Status,
		Phone:       u.Phone,
	}
}

// DirectoryEntry is one row of the contacts-scoped directory listing
type DirectoryEntry struct {
	ID          uint64     `json:"id"`
	Username    string     `json:"username"`
	DisplayName string     `json:"name"`
	Avatar      string     `json:"avatar"`
	Status      string     `json:"status"`
	Online      bool       `json:"online"`
	LastSeen    *time.Time `json:"last_seen,omitempty"`
}
