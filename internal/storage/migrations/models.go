package migrations

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Migration-local schema models. These mirror the domain entities but are
// kept separate so schema changes are driven by migrations, not by edits
// to domain code.

// User represents residents and administrators
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Name         string    `gorm:"not null"`
	PhoneNo      string    `gorm:"not null;uniqueIndex"`
	PasswordHash string    `gorm:"not null"`
	Address      string
	Role         string    `gorm:"type:user_role;not null;default:'user'"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

// Poll represents a community poll
type Poll struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Question    string    `gorm:"not null"`
	Category    string    `gorm:"not null;default:'general'"`
	TotalVotes  int       `gorm:"not null;default:0"`
	Status      string    `gorm:"type:poll_status;not null;default:'active'"`
	CreatedByID uuid.UUID `gorm:"type:uuid;not null"`
	ExpiryDate  *time.Time
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`

	CreatedBy User `gorm:"foreignKey:CreatedByID"`
}

func (Poll) TableName() string {
	return "polls"
}

// PollOption represents one answer choice of a poll
type PollOption struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	PollID   uuid.UUID `gorm:"type:uuid;not null"`
	Text     string    `gorm:"not null"`
	Votes    int       `gorm:"not null;default:0"`
	Position int       `gorm:"not null;default:0"`

	Poll Poll `gorm:"foreignKey:PollID"`
}

func (PollOption) TableName() string {
	return "poll_options"
}

// PollVote is the per-voter ledger backing duplicate detection
type PollVote struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	PollID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_poll_votes_poll_voter"`
	OptionID uuid.UUID `gorm:"type:uuid;not null"`
	VoterID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_poll_votes_poll_voter"`
	VotedAt  time.Time `gorm:"autoCreateTime"`

	Poll   Poll       `gorm:"foreignKey:PollID"`
	Option PollOption `gorm:"foreignKey:OptionID"`
	Voter  User       `gorm:"foreignKey:VoterID"`
}

func (PollVote) TableName() string {
	return "poll_votes"
}

// Alert represents an urgent community notice
type Alert struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Title       string    `gorm:"not null"`
	Message     string    `gorm:"not null"`
	Priority    string    `gorm:"not null;default:'medium'"`
	CreatedByID uuid.UUID `gorm:"type:uuid;not null"`
	ExpiryDate  *time.Time
	IsActive    bool      `gorm:"not null;default:true"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`

	CreatedBy User `gorm:"foreignKey:CreatedByID"`
}

func (Alert) TableName() string {
	return "alerts"
}

// Announcement represents a scheduled community notice
type Announcement struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Title       string    `gorm:"not null"`
	Date        string    `gorm:"not null"`
	Status      string    `gorm:"not null;default:'pending'"`
	Details     string    `gorm:"not null"`
	Category    string    `gorm:"not null;default:'general'"`
	Priority    int       `gorm:"not null;default:2"`
	CreatedByID uuid.UUID `gorm:"type:uuid;not null"`
	IsActive    bool      `gorm:"not null;default:true"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`

	CreatedBy User `gorm:"foreignKey:CreatedByID"`
}

func (Announcement) TableName() string {
	return "announcements"
}

// Event represents a community gathering
type Event struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Title             string    `gorm:"not null"`
	Description       string    `gorm:"not null"`
	Date              time.Time `gorm:"not null"`
	Time              string    `gorm:"not null"`
	Location          string    `gorm:"not null"`
	Category          string    `gorm:"not null;default:'other'"`
	ImageURL          string
	Organizer         string         `gorm:"not null;default:'Colony Management'"`
	CreatedByID       uuid.UUID      `gorm:"type:uuid;not null"`
	IsActive          bool           `gorm:"not null;default:true"`
	MaxParticipants   int            `gorm:"not null;default:0"`
	RegisteredUserIDs pq.StringArray `gorm:"type:uuid[]"`
	CreatedAt         time.Time      `gorm:"autoCreateTime"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime"`

	CreatedBy User `gorm:"foreignKey:CreatedByID"`
}

func (Event) TableName() string {
	return "events"
}

// Complaint represents a resident complaint
type Complaint struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Name        string    `gorm:"not null"`
	PhoneNo     string    `gorm:"not null"`
	Description string    `gorm:"not null"`
	ImageURL    string
	Status      string    `gorm:"not null;default:'pending'"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Complaint) TableName() string {
	return "complaints"
}

// AllModels returns a slice of all models for migration
func AllModels() []any {
	return []any{
		&User{},
		&Poll{},
		&PollOption{},
		&PollVote{},
		&Alert{},
		&Announcement{},
		&Event{},
		&Complaint{},
	}
}
