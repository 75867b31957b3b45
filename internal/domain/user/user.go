package user

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Role distinguishes residents from colony administrators
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the known values
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents a resident or administrator account
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Name         string    `json:"name" gorm:"not null"`
	PhoneNo      string    `json:"phoneno" gorm:"not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Address      string    `json:"address"`
	Role         Role      `json:"role" gorm:"not null;default:'user'"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (User) TableName() string {
	return "users"
}

// BeforeCreate sets a UUID before creating the record
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// New creates a user with a bcrypt-hashed password
func New(name, phoneNo, password, address string, role Role) (*User, error) {
	if role == "" {
		role = RoleUser
	}

	u := &User{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		PhoneNo:   strings.TrimSpace(phoneNo),
		Address:   strings.TrimSpace(address),
		Role:      role,
		CreatedAt: time.Now(),
	}

	if err := u.SetPassword(password); err != nil {
		return nil, err
	}

	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

// Validate checks if the user data is valid
func (u *User) Validate() error {
	if u.Name == "" {
		return fmt.Errorf("name is required")
	}
	if u.PhoneNo == "" {
		return fmt.Errorf("phoneno is required")
	}
	if u.PasswordHash == "" {
		return fmt.Errorf("password is required")
	}
	if !u.Role.Valid() {
		return fmt.Errorf("invalid role: %s", u.Role)
	}
	return nil
}

// SetPassword replaces the stored hash with a bcrypt hash of the given password
func (u *User) SetPassword(password string) error {
	if password == "" {
		return fmt.Errorf("password is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether the given password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Sanitized returns the fields safe to include in API responses
func (u *User) Sanitized() map[string]interface{} {
	return map[string]interface{}{
		"_id":       u.ID.String(),
		"name":      u.Name,
		"phoneno":   u.PhoneNo,
		"address":   u.Address,
		"role":      u.Role,
		"createdAt": u.CreatedAt,
	}
}
