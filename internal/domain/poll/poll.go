package poll

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/colonyconnect/colony-api/internal/domain/user"
)

// Domain errors surfaced by the voting engine
var (
	ErrNotFound      = errors.New("poll not found")
	ErrNotActive     = errors.New("poll is not active for voting")
	ErrExpired       = errors.New("poll has expired")
	ErrAlreadyVoted  = errors.New("you have already voted in this poll")
	ErrInvalidOption = errors.New("invalid option")
)

// Poll represents a community poll with a fixed set of candidate options
type Poll struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Question    string     `json:"question" gorm:"not null"`
	Category    Category   `json:"category" gorm:"not null;default:'general'"`
	Options     []Option   `json:"options" gorm:"foreignKey:PollID"`
	TotalVotes  int        `json:"total_votes" gorm:"not null;default:0"`
	Status      Status     `json:"status" gorm:"type:poll_status;not null;default:'active'"`
	CreatedByID uuid.UUID  `json:"created_by_id" gorm:"type:uuid;not null"`
	ExpiryDate  *time.Time `json:"expiry_date"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	CreatedBy *user.User `json:"created_by,omitempty" gorm:"foreignKey:CreatedByID"`
}

// Option is one candidate answer within a poll. Options are exclusively
// owned by their poll and the set is fixed at creation.
type Option struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	PollID   uuid.UUID `json:"poll_id" gorm:"type:uuid;not null"`
	Text     string    `json:"text" gorm:"not null"`
	Votes    int       `json:"votes" gorm:"not null;default:0"`
	Position int       `json:"position" gorm:"not null;default:0"`
}

// VoteRecord is the vote ledger: one row per (poll, voter). The unique
// composite index is the per-poll voter set that makes duplicate
// detection O(1) and atomic; option_id keeps the per-option voter list
// for audit and result display.
type VoteRecord struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	PollID   uuid.UUID `json:"poll_id" gorm:"type:uuid;not null;uniqueIndex:idx_poll_votes_poll_voter"`
	OptionID uuid.UUID `json:"option_id" gorm:"type:uuid;not null"`
	VoterID  uuid.UUID `json:"voter_id" gorm:"type:uuid;not null;uniqueIndex:idx_poll_votes_poll_voter"`
	VotedAt  time.Time `json:"voted_at" gorm:"autoCreateTime"`
}

// TableName overrides the table name
func (Poll) TableName() string {
	return "polls"
}

// TableName overrides the table name
func (Option) TableName() string {
	return "poll_options"
}

// TableName overrides the table name
func (VoteRecord) TableName() string {
	return "poll_votes"
}

// BeforeCreate will set a UUID rather than numeric ID.
func (p *Poll) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// BeforeCreate will set a UUID rather than numeric ID.
func (o *Option) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// BeforeCreate will set a UUID rather than numeric ID.
func (v *VoteRecord) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// NewPoll builds a poll from a question and option texts. The option set
// is fixed after this point. A positive expiryDays sets the expiry to
// now + that many days; otherwise the poll has no expiry.
func NewPoll(question string, optionTexts []string, category Category, expiryDays int, createdBy uuid.UUID) (*Poll, error) {
	p := &Poll{
		ID:          uuid.New(),
		Question:    strings.TrimSpace(question),
		Category:    category.OrDefault(),
		Status:      StatusActive,
		CreatedByID: createdBy,
		CreatedAt:   time.Now(),
	}

	for i, text := range optionTexts {
		p.Options = append(p.Options, Option{
			ID:       uuid.New(),
			PollID:   p.ID,
			Text:     strings.TrimSpace(text),
			Position: i,
		})
	}

	if expiryDays > 0 {
		expiry := time.Now().AddDate(0, 0, expiryDays)
		p.ExpiryDate = &expiry
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks if the poll data is valid
func (p *Poll) Validate() error {
	if p.Question == "" {
		return fmt.Errorf("question is required")
	}
	if len(p.Options) < 2 {
		return fmt.Errorf("at least 2 options are required")
	}
	for _, opt := range p.Options {
		if strings.TrimSpace(opt.Text) == "" {
			return fmt.Errorf("option text is required")
		}
	}
	if !p.Category.Valid() {
		return fmt.Errorf("invalid category: %s", p.Category)
	}
	if p.CreatedByID == uuid.Nil {
		return fmt.Errorf("created_by is required")
	}
	return nil
}

// IsExpired reports whether the poll's expiry date has passed
func (p *Poll) IsExpired(now time.Time) bool {
	return p.ExpiryDate != nil && p.ExpiryDate.Before(now)
}

// EffectiveStatus derives the poll status as a pure function of the
// stored status, the expiry date and the current time. Expiry is never
// detected by a background job; every read and write entry point goes
// through here.
func (p *Poll) EffectiveStatus(now time.Time) Status {
	if p.Status == StatusCompleted || p.IsExpired(now) {
		return StatusCompleted
	}
	return StatusActive
}

// FindOption resolves an option ID within the poll's own option set
func (p *Poll) FindOption(optionID uuid.UUID) *Option {
	for i := range p.Options {
		if p.Options[i].ID == optionID {
			return &p.Options[i]
		}
	}
	return nil
}

// ApplyVote records one vote for the given option on the in-memory
// entity: the option tally and the poll total move together so that
// TotalVotes stays equal to the sum of option votes. Duplicate-voter
// detection lives in the ledger, not here.
func (p *Poll) ApplyVote(optionID uuid.UUID, now time.Time) (*Option, error) {
	if p.Status != StatusActive {
		return nil, ErrNotActive
	}
	if p.IsExpired(now) {
		return nil, ErrExpired
	}

	opt := p.FindOption(optionID)
	if opt == nil {
		return nil, ErrInvalidOption
	}

	opt.Votes++
	p.TotalVotes++
	return opt, nil
}

// CreatorName returns the display name of the poll's creator
func (p *Poll) CreatorName() string {
	if p.CreatedBy != nil && p.CreatedBy.Name != "" {
		return p.CreatedBy.Name
	}
	return "Admin"
}

// Status represents the lifecycle state of a poll
type Status byte

const (
	StatusActive Status = iota
	StatusCompleted
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// MarshalJSON implements the json.Marshaler interface
func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (s *Status) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}

	status, valid := StatusFromString(str)
	if !valid {
		return fmt.Errorf("invalid status: %s", str)
	}
	*s = status
	return nil
}

// StatusFromString converts a string to a Status
func StatusFromString(s string) (Status, bool) {
	switch s {
	case "active":
		return StatusActive, true
	case "completed":
		return StatusCompleted, true
	default:
		return StatusActive, false
	}
}

// Scan implements the sql.Scanner interface for database deserialization
func (s *Status) Scan(value interface{}) error {
	if value == nil {
		*s = StatusActive
		return nil
	}

	str, ok := value.(string)
	if !ok {
		return fmt.Errorf("cannot scan %T into Status", value)
	}

	status, valid := StatusFromString(str)
	if !valid {
		return fmt.Errorf("invalid status value: %s", str)
	}
	*s = status
	return nil
}

// Value implements the driver.Valuer interface for database serialization
func (s Status) Value() (driver.Value, error) {
	return s.String(), nil
}

// Category classifies a poll for the community frontend
type Category string

const (
	CategoryFacilities  Category = "facilities"
	CategoryMaintenance Category = "maintenance"
	CategorySecurity    Category = "security"
	CategoryEvents      Category = "events"
	CategoryGeneral     Category = "general"
)

// Valid reports whether the category is one of the known values
func (c Category) Valid() bool {
	switch c {
	case CategoryFacilities, CategoryMaintenance, CategorySecurity, CategoryEvents, CategoryGeneral:
		return true
	}
	return false
}

// OrDefault falls back to the general category when unset
func (c Category) OrDefault() Category {
	if c == "" {
		return CategoryGeneral
	}
	return c
}
