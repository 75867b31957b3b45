package alert

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/colonyconnect/colony-api/internal/domain/user"
)

// Priority levels for community alerts
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Alert is a time-sensitive notice published by an administrator
type Alert struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Title       string     `json:"title" gorm:"not null"`
	Message     string     `json:"message" gorm:"not null"`
	Priority    string     `json:"priority" gorm:"not null;default:'medium'"`
	CreatedByID uuid.UUID  `json:"created_by_id" gorm:"type:uuid;not null"`
	ExpiryDate  *time.Time `json:"expiry_date"`
	IsActive    bool       `json:"is_active" gorm:"not null;default:true"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	CreatedBy *user.User `json:"created_by,omitempty" gorm:"foreignKey:CreatedByID"`
}

// TableName overrides the table name used by GORM
func (Alert) TableName() string {
	return "alerts"
}

// BeforeCreate sets a UUID before creating the record
func (a *Alert) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// New creates an active alert
func New(title, message, priority string, createdBy uuid.UUID, expiryDate *time.Time) (*Alert, error) {
	if priority == "" {
		priority = PriorityMedium
	}

	a := &Alert{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(title),
		Message:     message,
		Priority:    priority,
		CreatedByID: createdBy,
		ExpiryDate:  expiryDate,
		IsActive:    true,
		CreatedAt:   time.Now(),
	}

	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks if the alert data is valid
func (a *Alert) Validate() error {
	if a.Title == "" {
		return fmt.Errorf("title is required")
	}
	if a.Message == "" {
		return fmt.Errorf("message is required")
	}
	switch a.Priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
	default:
		return fmt.Errorf("invalid priority: %s", a.Priority)
	}
	if a.CreatedByID == uuid.Nil {
		return fmt.Errorf("created_by is required")
	}
	return nil
}

// IsExpired reports whether the alert's expiry date has passed
func (a *Alert) IsExpired(now time.Time) bool {
	return a.ExpiryDate != nil && a.ExpiryDate.Before(now)
}

// TimeAgo renders the alert's age the way the mobile frontend shows it
func (a *Alert) TimeAgo(now time.Time) string {
	days := int(now.Sub(a.CreatedAt).Hours() / 24)
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}

// CreatorName returns the display name of the alert's creator
func (a *Alert) CreatorName() string {
	if a.CreatedBy != nil && a.CreatedBy.Name != "" {
		return a.CreatedBy.Name
	}
	return "Admin"
}
