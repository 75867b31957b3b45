package complaint

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Triage states of a complaint
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusResolved   = "resolved"
)

// Complaint is a resident-submitted issue report
type Complaint struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Name        string    `json:"name" gorm:"not null"`
	PhoneNo     string    `json:"phoneno" gorm:"not null"`
	Description string    `json:"description" gorm:"not null"`
	ImageURL    string    `json:"image"`
	Status      string    `json:"status" gorm:"not null;default:'pending'"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (Complaint) TableName() string {
	return "complaints"
}

// BeforeCreate sets a UUID before creating the record
func (c *Complaint) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// New creates a pending complaint
func New(name, phoneNo, description, imageURL string) (*Complaint, error) {
	c := &Complaint{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(name),
		PhoneNo:     strings.TrimSpace(phoneNo),
		Description: strings.TrimSpace(description),
		ImageURL:    imageURL,
		Status:      StatusPending,
		CreatedAt:   time.Now(),
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks if the complaint data is valid
func (c *Complaint) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if c.PhoneNo == "" {
		return fmt.Errorf("phoneno is required")
	}
	if c.Description == "" {
		return fmt.Errorf("description is required")
	}
	if !ValidStatus(c.Status) {
		return fmt.Errorf("invalid status: %s", c.Status)
	}
	return nil
}

// ValidStatus reports whether the status is one of the triage states
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusInProgress || s == StatusResolved
}
