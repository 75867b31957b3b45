package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/colonyconnect/colony-api/internal/domain/user"
	"github.com/colonyconnect/colony-api/internal/logger"
)

// ErrUserNotFound is returned when no user matches the lookup
var ErrUserNotFound = errors.New("user not found")

// ErrPhoneTaken is returned when a phone number is already registered
var ErrPhoneTaken = errors.New("phone number already registered")

// PostgresUserRepository implements UserRepository using GORM
type PostgresUserRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresUserRepository creates a new PostgreSQL user repository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{
		db:  db,
		log: logger.Repository("user"),
	}
}

func (r *PostgresUserRepository) Create(u *user.User) error {
	r.log.Debug("creating new user", "name", u.Name, "phone_no", u.PhoneNo, "role", u.Role)

	var count int64
	if err := r.db.Model(&user.User{}).Where("phone_no = ?", u.PhoneNo).Count(&count).Error; err != nil {
		r.log.Error("failed to check phone number", "error", err)
		return fmt.Errorf("failed to check phone number: %w", err)
	}
	if count > 0 {
		r.log.Debug("phone number already registered", "phone_no", u.PhoneNo)
		return ErrPhoneTaken
	}

	if err := r.db.Create(u).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrPhoneTaken
		}
		r.log.Error("failed to create user", "error", err)
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.log.Info("user created successfully", "user_id", u.ID, "role", u.Role)
	return nil
}

func (r *PostgresUserRepository) GetByID(id string) (*user.User, error) {
	r.log.Debug("retrieving user by ID", "user_id", id)

	userID, err := uuid.Parse(id)
	if err != nil {
		r.log.Error("invalid user ID format", "user_id", id, "error", err)
		return nil, ErrUserNotFound
	}

	var u user.User
	if err := r.db.First(&u, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found", "user_id", id)
			return nil, ErrUserNotFound
		}
		r.log.Error("failed to retrieve user", "user_id", id, "error", err)
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	return &u, nil
}

func (r *PostgresUserRepository) GetByPhone(phoneNo string) (*user.User, error) {
	r.log.Debug("retrieving user by phone number")

	var u user.User
	if err := r.db.Where("phone_no = ?", phoneNo).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		r.log.Error("failed to retrieve user by phone", "error", err)
		return nil, fmt.Errorf("failed to retrieve user by phone: %w", err)
	}

	return &u, nil
}

func (r *PostgresUserRepository) GetAll() ([]*user.User, error) {
	r.log.Debug("retrieving all users")

	var users []*user.User
	if err := r.db.Order("created_at DESC").Find(&users).Error; err != nil {
		r.log.Error("failed to retrieve users", "error", err)
		return nil, fmt.Errorf("failed to retrieve users: %w", err)
	}

	r.log.Debug("users retrieved successfully", "count", len(users))
	return users, nil
}

func (r *PostgresUserRepository) Update(u *user.User) error {
	r.log.Debug("updating user", "user_id", u.ID)

	result := r.db.Model(&user.User{}).Where("id = ?", u.ID).Updates(map[string]interface{}{
		"name":          u.Name,
		"phone_no":      u.PhoneNo,
		"password_hash": u.PasswordHash,
		"address":       u.Address,
		"role":          u.Role,
	})
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return ErrPhoneTaken
		}
		r.log.Error("failed to update user", "user_id", u.ID, "error", result.Error)
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	r.log.Info("user updated successfully", "user_id", u.ID)
	return nil
}

func (r *PostgresUserRepository) Delete(id string) error {
	r.log.Debug("deleting user", "user_id", id)

	userID, err := uuid.Parse(id)
	if err != nil {
		r.log.Error("invalid user ID format", "user_id", id, "error", err)
		return ErrUserNotFound
	}

	result := r.db.Delete(&user.User{}, userID)
	if result.Error != nil {
		r.log.Error("failed to delete user", "user_id", id, "error", result.Error)
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	r.log.Info("user deleted successfully", "user_id", id)
	return nil
}

func (r *PostgresUserRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&user.User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

func (r *PostgresUserRepository) CountByRole(role user.Role) (int64, error) {
	var count int64
	if err := r.db.Model(&user.User{}).Where("role = ?", role).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users by role: %w", err)
	}
	return count, nil
}

func (r *PostgresUserRepository) CountCreatedSince(since time.Time) (int64, error) {
	var count int64
	if err := r.db.Model(&user.User{}).Where("created_at >= ?", since).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count recent users: %w", err)
	}
	return count, nil
}
