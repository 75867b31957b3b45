package event

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/colonyconnect/colony-api/internal/domain/user"
)

var categories = []string{"celebration", "meeting", "cleanup", "social", "other"}

// Registration errors surfaced to handlers.
var (
	ErrAlreadyRegistered = errors.New("user already registered for this event")
	ErrEventFull         = errors.New("event is full")
)

// Event is a scheduled community gathering residents can register for
type Event struct {
	ID                uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Title             string         `json:"title" gorm:"not null"`
	Description       string         `json:"description" gorm:"not null"`
	Date              time.Time      `json:"date" gorm:"not null"`
	Time              string         `json:"time" gorm:"not null"`
	Location          string         `json:"location" gorm:"not null"`
	Category          string         `json:"category" gorm:"not null;default:'other'"`
	ImageURL          string         `json:"image_url"`
	Organizer         string         `json:"organizer" gorm:"not null;default:'Colony Management'"`
	CreatedByID       uuid.UUID      `json:"created_by_id" gorm:"type:uuid;not null"`
	IsActive          bool           `json:"is_active" gorm:"not null;default:true"`
	MaxParticipants   int            `json:"max_participants" gorm:"not null;default:0"`
	RegisteredUserIDs pq.StringArray `json:"registered_user_ids" gorm:"type:uuid[]"`
	CreatedAt         time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time      `json:"updated_at" gorm:"autoUpdateTime"`

	CreatedBy *user.User `json:"created_by,omitempty" gorm:"foreignKey:CreatedByID"`
}

// TableName overrides the table name used by GORM
func (Event) TableName() string {
	return "events"
}

// BeforeCreate sets a UUID before creating the record
func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// New creates an active event
func New(title, description string, date time.Time, timeOfDay, location, category, organizer string, maxParticipants int, createdBy uuid.UUID) (*Event, error) {
	if category == "" {
		category = "other"
	}
	if organizer == "" {
		organizer = "Colony Management"
	}

	e := &Event{
		ID:                uuid.New(),
		Title:             strings.TrimSpace(title),
		Description:       description,
		Date:              date,
		Time:              timeOfDay,
		Location:          strings.TrimSpace(location),
		Category:          category,
		Organizer:         organizer,
		CreatedByID:       createdBy,
		IsActive:          true,
		MaxParticipants:   maxParticipants,
		RegisteredUserIDs: pq.StringArray{},
		CreatedAt:         time.Now(),
	}

	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Validate checks if the event data is valid
func (e *Event) Validate() error {
	if e.Title == "" {
		return fmt.Errorf("title is required")
	}
	if len(e.Title) > 100 {
		return fmt.Errorf("title cannot be more than 100 characters")
	}
	if e.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(e.Description) > 500 {
		return fmt.Errorf("description cannot be more than 500 characters")
	}
	if e.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	if e.Time == "" {
		return fmt.Errorf("time is required")
	}
	if e.Location == "" {
		return fmt.Errorf("location is required")
	}
	if !slices.Contains(categories, e.Category) {
		return fmt.Errorf("invalid category: %s", e.Category)
	}
	if e.MaxParticipants < 0 {
		return fmt.Errorf("max_participants cannot be negative")
	}
	if e.CreatedByID == uuid.Nil {
		return fmt.Errorf("created_by is required")
	}
	return nil
}

// IsFull reports whether the registration limit has been reached.
// A limit of zero means unlimited.
func (e *Event) IsFull() bool {
	return e.MaxParticipants > 0 && len(e.RegisteredUserIDs) >= e.MaxParticipants
}

// IsRegistered reports whether the user already registered for the event
func (e *Event) IsRegistered(userID uuid.UUID) bool {
	return slices.Contains(e.RegisteredUserIDs, userID.String())
}

// Register adds a user to the event's registration list
func (e *Event) Register(userID uuid.UUID) error {
	if e.IsRegistered(userID) {
		return ErrAlreadyRegistered
	}
	if e.IsFull() {
		return ErrEventFull
	}
	e.RegisteredUserIDs = append(e.RegisteredUserIDs, userID.String())
	return nil
}

// FormattedDate renders the event date the way the frontend shows it
func (e *Event) FormattedDate(now time.Time) string {
	if e.Date.Year() == now.Year() && e.Date.YearDay() == now.YearDay() {
		return "Today"
	}
	return e.Date.Format("Mon, Jan 2")
}

// CreatorName returns the display name of the event's creator
func (e *Event) CreatorName() string {
	if e.CreatedBy != nil && e.CreatedBy.Name != "" {
		return e.CreatedBy.Name
	}
	return "Admin"
}
