package postgres

import (
	"time"

	"github.com/google/uuid"

	"github.com/colonyconnect/colony-api/internal/domain/alert"
	"github.com/colonyconnect/colony-api/internal/domain/announcement"
	"github.com/colonyconnect/colony-api/internal/domain/complaint"
	"github.com/colonyconnect/colony-api/internal/domain/event"
	"github.com/colonyconnect/colony-api/internal/domain/poll"
	"github.com/colonyconnect/colony-api/internal/domain/user"
)

// UserRepository defines persistence for resident and admin accounts
type UserRepository interface {
	Create(u *user.User) error
	GetByID(id string) (*user.User, error)
	GetByPhone(phoneNo string) (*user.User, error)
	GetAll() ([]*user.User, error)
	Update(u *user.User) error
	Delete(id string) error
	Count() (int64, error)
	CountByRole(role user.Role) (int64, error)
	CountCreatedSince(since time.Time) (int64, error)
}

// PollRepository defines persistence for polls and the vote ledger.
// CastVote is the single atomic read-modify-write unit of the voting
// engine; all duplicate detection and expiry handling happens inside it.
type PollRepository interface {
	Create(p *poll.Poll) error
	GetByID(id string) (*poll.Poll, error)
	GetAll() ([]*poll.Poll, error)
	ListActive(now time.Time) ([]*poll.Poll, error)
	ListCompleted(now time.Time) ([]*poll.Poll, error)
	SetStatus(id string, status poll.Status) (*poll.Poll, error)
	Delete(id string) error
	HasVoted(pollID, voterID string) (bool, error)
	VotedPollIDs(voterID string) (map[string]bool, error)
	CastVote(pollID, optionID, voterID string, now time.Time) (int, error)
}

// AlertRepository defines persistence for community alerts
type AlertRepository interface {
	Create(a *alert.Alert) error
	GetByID(id string) (*alert.Alert, error)
	GetAll() ([]*alert.Alert, error)
	ListActive(now time.Time) ([]*alert.Alert, error)
	Update(a *alert.Alert) error
	Delete(id string) error
}

// AnnouncementRepository defines persistence for announcements
type AnnouncementRepository interface {
	Create(a *announcement.Announcement) error
	GetByID(id string) (*announcement.Announcement, error)
	GetAll() ([]*announcement.Announcement, error)
	ListActive() ([]*announcement.Announcement, error)
	ListRecent(limit int) ([]*announcement.Announcement, error)
	Update(a *announcement.Announcement) error
	Delete(id string) error
}

// EventRepository defines persistence for community events
type EventRepository interface {
	Create(e *event.Event) error
	GetByID(id string) (*event.Event, error)
	GetAll() ([]*event.Event, error)
	ListUpcoming(now time.Time) ([]*event.Event, error)
	ListPast(now time.Time, limit int) ([]*event.Event, error)
	Register(id string, userID uuid.UUID) (*event.Event, error)
	Update(e *event.Event) error
	Delete(id string) error
}

// ComplaintRepository defines persistence for complaints
type ComplaintRepository interface {
	Create(c *complaint.Complaint) error
	GetByID(id string) (*complaint.Complaint, error)
	GetAll() ([]*complaint.Complaint, error)
	List(status, search string) ([]*complaint.Complaint, error)
	Update(c *complaint.Complaint) error
	Delete(id string) error
	CountByStatus() (map[string]int64, error)
}
