package announcement

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/colonyconnect/colony-api/internal/domain/user"
)

// Workflow states of an announcement
const (
	StatusPending    = "pending"
	StatusCompleted  = "completed"
	StatusInProgress = "in-progress"
	StatusCancelled  = "cancelled"
)

// Priority bands: 1 = high, 2 = medium, 3 = low
const (
	PriorityHigh   = 1
	PriorityMedium = 2
	PriorityLow    = 3
)

var categories = []string{"maintenance", "security", "facilities", "events", "rules", "general"}

// Announcement is a scheduled community notice with a workflow status
type Announcement struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Title       string    `json:"title" gorm:"not null"`
	Date        string    `json:"date" gorm:"not null"`
	Status      string    `json:"status" gorm:"not null;default:'pending'"`
	Details     string    `json:"details" gorm:"not null"`
	Category    string    `json:"category" gorm:"not null;default:'general'"`
	Priority    int       `json:"priority" gorm:"not null;default:2"`
	CreatedByID uuid.UUID `json:"created_by_id" gorm:"type:uuid;not null"`
	IsActive    bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	CreatedBy *user.User `json:"created_by,omitempty" gorm:"foreignKey:CreatedByID"`
}

// TableName overrides the table name used by GORM
func (Announcement) TableName() string {
	return "announcements"
}

// BeforeCreate sets a UUID before creating the record
func (a *Announcement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// New creates an active pending announcement
func New(title, date, details, category string, priority int, createdBy uuid.UUID) (*Announcement, error) {
	if category == "" {
		category = "general"
	}
	if priority == 0 {
		priority = PriorityMedium
	}

	a := &Announcement{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(title),
		Date:        strings.TrimSpace(date),
		Status:      StatusPending,
		Details:     details,
		Category:    category,
		Priority:    priority,
		CreatedByID: createdBy,
		IsActive:    true,
		CreatedAt:   time.Now(),
	}

	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks if the announcement data is valid
func (a *Announcement) Validate() error {
	if a.Title == "" {
		return fmt.Errorf("title is required")
	}
	if a.Date == "" {
		return fmt.Errorf("date is required")
	}
	if a.Details == "" {
		return fmt.Errorf("details are required")
	}
	switch a.Status {
	case StatusPending, StatusCompleted, StatusInProgress, StatusCancelled:
	default:
		return fmt.Errorf("invalid status: %s", a.Status)
	}
	if !validCategory(a.Category) {
		return fmt.Errorf("invalid category: %s", a.Category)
	}
	if a.Priority < PriorityHigh || a.Priority > PriorityLow {
		return fmt.Errorf("priority must be 1, 2 or 3")
	}
	if a.CreatedByID == uuid.Nil {
		return fmt.Errorf("created_by is required")
	}
	return nil
}

// IsCompleted reports whether the announcement reached the completed status
func (a *Announcement) IsCompleted() bool {
	return a.Status == StatusCompleted
}

// ShortDetails truncates the details to maxLen runes for list views.
// Truncation counts runes, not bytes, so multi-byte text is never cut
// mid-character.
func (a *Announcement) ShortDetails(maxLen int) string {
	runes := []rune(a.Details)
	if len(runes) <= maxLen {
		return a.Details
	}
	return string(runes[:maxLen]) + "..."
}

// CreatorName returns the display name of the announcement's creator
func (a *Announcement) CreatorName() string {
	if a.CreatedBy != nil && a.CreatedBy.Name != "" {
		return a.CreatedBy.Name
	}
	return "Admin"
}

func validCategory(c string) bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}
