package postgres

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/colonyconnect/colony-api/internal/domain/poll"
	"github.com/colonyconnect/colony-api/internal/logger"
)

// PostgresPollRepository implements PollRepository using GORM
type PostgresPollRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresPollRepository creates a new PostgreSQL poll repository
func NewPostgresPollRepository(db *gorm.DB) *PostgresPollRepository {
	return &PostgresPollRepository{
		db:  db,
		log: logger.Repository("poll"),
	}
}

func (r *PostgresPollRepository) Create(p *poll.Poll) error {
	r.log.Debug("creating new poll", "question", p.Question, "options", len(p.Options))

	if err := p.Validate(); err != nil {
		r.log.Error("poll validation failed", "error", err)
		return fmt.Errorf("poll validation failed: %w", err)
	}

	if err := r.db.Create(p).Error; err != nil {
		r.log.Error("failed to create poll", "error", err)
		return fmt.Errorf("failed to create poll: %w", err)
	}

	r.log.Info("poll created successfully", "poll_id", p.ID, "question", p.Question)
	return nil
}

func (r *PostgresPollRepository) GetByID(id string) (*poll.Poll, error) {
	r.log.Debug("retrieving poll by ID", "poll_id", id)

	pollID, err := uuid.Parse(id)
	if err != nil {
		r.log.Error("invalid poll ID format", "poll_id", id, "error", err)
		return nil, poll.ErrNotFound
	}

	var p poll.Poll
	err = r.db.
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("poll_options.position ASC")
		}).
		Preload("CreatedBy").
		First(&p, pollID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("poll not found", "poll_id", id)
			return nil, poll.ErrNotFound
		}
		r.log.Error("failed to retrieve poll", "poll_id", id, "error", err)
		return nil, fmt.Errorf("failed to retrieve poll: %w", err)
	}

	return &p, nil
}

func (r *PostgresPollRepository) GetAll() ([]*poll.Poll, error) {
	r.log.Debug("retrieving all polls")

	var polls []*poll.Poll
	err := r.db.
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("poll_options.position ASC")
		}).
		Preload("CreatedBy").
		Order("created_at DESC").
		Find(&polls).Error
	if err != nil {
		r.log.Error("failed to retrieve polls", "error", err)
		return nil, fmt.Errorf("failed to retrieve polls: %w", err)
	}

	r.log.Debug("polls retrieved successfully", "count", len(polls))
	return polls, nil
}

// ListActive returns polls that are active and not past their expiry date.
// Polls whose expiry has passed but whose stored status is still active are
// transitioned to completed here, so readers never see a stale active poll.
func (r *PostgresPollRepository) ListActive(now time.Time) ([]*poll.Poll, error) {
	r.log.Debug("retrieving active polls")

	if err := r.expireOverduePolls(now); err != nil {
		return nil, err
	}

	var polls []*poll.Poll
	err := r.db.
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("poll_options.position ASC")
		}).
		Preload("CreatedBy").
		Where("status = ?", poll.StatusActive).
		Order("created_at DESC").
		Find(&polls).Error
	if err != nil {
		r.log.Error("failed to retrieve active polls", "error", err)
		return nil, fmt.Errorf("failed to retrieve active polls: %w", err)
	}

	r.log.Debug("active polls retrieved successfully", "count", len(polls))
	return polls, nil
}

// ListCompleted returns completed polls, including ones whose expiry date has
// passed since the last write touched them.
func (r *PostgresPollRepository) ListCompleted(now time.Time) ([]*poll.Poll, error) {
	r.log.Debug("retrieving completed polls")

	if err := r.expireOverduePolls(now); err != nil {
		return nil, err
	}

	var polls []*poll.Poll
	err := r.db.
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("poll_options.position ASC")
		}).
		Preload("CreatedBy").
		Where("status = ?", poll.StatusCompleted).
		Order("created_at DESC").
		Find(&polls).Error
	if err != nil {
		r.log.Error("failed to retrieve completed polls", "error", err)
		return nil, fmt.Errorf("failed to retrieve completed polls: %w", err)
	}

	r.log.Debug("completed polls retrieved successfully", "count", len(polls))
	return polls, nil
}

// expireOverduePolls flips active polls past their expiry date to completed.
func (r *PostgresPollRepository) expireOverduePolls(now time.Time) error {
	result := r.db.Model(&poll.Poll{}).
		Where("status = ? AND expiry_date IS NOT NULL AND expiry_date < ?", poll.StatusActive, now).
		Update("status", poll.StatusCompleted)
	if result.Error != nil {
		r.log.Error("failed to expire overdue polls", "error", result.Error)
		return fmt.Errorf("failed to expire overdue polls: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		r.log.Info("expired overdue polls", "count", result.RowsAffected)
	}
	return nil
}

func (r *PostgresPollRepository) SetStatus(id string, status poll.Status) (*poll.Poll, error) {
	r.log.Debug("updating poll status", "poll_id", id, "status", status)

	pollID, err := uuid.Parse(id)
	if err != nil {
		r.log.Error("invalid poll ID format", "poll_id", id, "error", err)
		return nil, poll.ErrNotFound
	}

	result := r.db.Model(&poll.Poll{}).Where("id = ?", pollID).Update("status", status)
	if result.Error != nil {
		r.log.Error("failed to update poll status", "poll_id", id, "error", result.Error)
		return nil, fmt.Errorf("failed to update poll status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		r.log.Debug("poll not found for status update", "poll_id", id)
		return nil, poll.ErrNotFound
	}

	r.log.Info("poll status updated", "poll_id", id, "status", status)
	return r.GetByID(id)
}

func (r *PostgresPollRepository) Delete(id string) error {
	r.log.Debug("deleting poll", "poll_id", id)

	pollID, err := uuid.Parse(id)
	if err != nil {
		r.log.Error("invalid poll ID format", "poll_id", id, "error", err)
		return poll.ErrNotFound
	}

	err = r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("poll_id = ?", pollID).Delete(&poll.VoteRecord{}).Error; err != nil {
			return fmt.Errorf("failed to delete poll votes: %w", err)
		}
		if err := tx.Where("poll_id = ?", pollID).Delete(&poll.Option{}).Error; err != nil {
			return fmt.Errorf("failed to delete poll options: %w", err)
		}
		result := tx.Delete(&poll.Poll{}, pollID)
		if result.Error != nil {
			return fmt.Errorf("failed to delete poll: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return poll.ErrNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, poll.ErrNotFound) {
			r.log.Debug("poll not found for deletion", "poll_id", id)
			return err
		}
		r.log.Error("failed to delete poll", "poll_id", id, "error", err)
		return err
	}

	r.log.Info("poll deleted successfully", "poll_id", id)
	return nil
}

func (r *PostgresPollRepository) HasVoted(pollID, voterID string) (bool, error) {
	pollUUID, err := uuid.Parse(pollID)
	if err != nil {
		return false, poll.ErrNotFound
	}
	voterUUID, err := uuid.Parse(voterID)
	if err != nil {
		return false, errors.New("invalid voter ID format")
	}

	var count int64
	err = r.db.Model(&poll.VoteRecord{}).
		Where("poll_id = ? AND voter_id = ?", pollUUID, voterUUID).
		Count(&count).Error
	if err != nil {
		r.log.Error("failed to check vote record", "poll_id", pollID, "voter_id", voterID, "error", err)
		return false, fmt.Errorf("failed to check vote record: %w", err)
	}

	return count > 0, nil
}

// VotedPollIDs returns the set of poll IDs the voter has already voted on.
// Used to annotate poll listings without one ledger query per poll.
func (r *PostgresPollRepository) VotedPollIDs(voterID string) (map[string]bool, error) {
	voterUUID, err := uuid.Parse(voterID)
	if err != nil {
		return nil, errors.New("invalid voter ID format")
	}

	var records []poll.VoteRecord
	if err := r.db.Select("poll_id").Where("voter_id = ?", voterUUID).Find(&records).Error; err != nil {
		r.log.Error("failed to retrieve voter ledger", "voter_id", voterID, "error", err)
		return nil, fmt.Errorf("failed to retrieve voter ledger: %w", err)
	}

	voted := make(map[string]bool, len(records))
	for _, rec := range records {
		voted[rec.PollID.String()] = true
	}
	return voted, nil
}

// CastVote records a single vote atomically. The poll row is locked for the
// duration of the transaction so concurrent votes serialize; the unique
// (poll_id, voter_id) index on the ledger is the backstop against duplicates
// that race past the pre-check. Returns the new total vote count.
func (r *PostgresPollRepository) CastVote(pollID, optionID, voterID string, now time.Time) (int, error) {
	r.log.Debug("casting vote", "poll_id", pollID, "option_id", optionID, "voter_id", voterID)

	pollUUID, err := uuid.Parse(pollID)
	if err != nil {
		return 0, poll.ErrNotFound
	}
	optionUUID, err := uuid.Parse(optionID)
	if err != nil {
		return 0, poll.ErrInvalidOption
	}
	voterUUID, err := uuid.Parse(voterID)
	if err != nil {
		return 0, errors.New("invalid voter ID format")
	}

	var total int
	var expired bool

	err = r.db.Transaction(func(tx *gorm.DB) error {
		var p poll.Poll
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, pollUUID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return poll.ErrNotFound
			}
			return fmt.Errorf("failed to lock poll: %w", err)
		}

		if p.Status != poll.StatusActive {
			return poll.ErrNotActive
		}

		if p.IsExpired(now) {
			expired = true
			return poll.ErrExpired
		}

		var dupes int64
		err = tx.Model(&poll.VoteRecord{}).
			Where("poll_id = ? AND voter_id = ?", pollUUID, voterUUID).
			Count(&dupes).Error
		if err != nil {
			return fmt.Errorf("failed to check vote record: %w", err)
		}
		if dupes > 0 {
			return poll.ErrAlreadyVoted
		}

		var opt poll.Option
		err = tx.Where("id = ? AND poll_id = ?", optionUUID, pollUUID).First(&opt).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return poll.ErrInvalidOption
			}
			return fmt.Errorf("failed to look up option: %w", err)
		}

		record := &poll.VoteRecord{
			PollID:   pollUUID,
			OptionID: optionUUID,
			VoterID:  voterUUID,
			VotedAt:  now,
		}
		if err := tx.Create(record).Error; err != nil {
			if isUniqueViolation(err) {
				return poll.ErrAlreadyVoted
			}
			return fmt.Errorf("failed to record vote: %w", err)
		}

		err = tx.Model(&poll.Option{}).
			Where("id = ?", optionUUID).
			Update("votes", gorm.Expr("votes + 1")).Error
		if err != nil {
			return fmt.Errorf("failed to increment option tally: %w", err)
		}

		err = tx.Model(&poll.Poll{}).
			Where("id = ?", pollUUID).
			Update("total_votes", gorm.Expr("total_votes + 1")).Error
		if err != nil {
			return fmt.Errorf("failed to increment poll total: %w", err)
		}

		total = p.TotalVotes + 1
		return nil
	})

	// The expiry transition must survive the rolled-back vote transaction,
	// so it runs as its own statement afterwards.
	if expired {
		persistErr := r.db.Model(&poll.Poll{}).
			Where("id = ? AND status = ?", pollUUID, poll.StatusActive).
			Update("status", poll.StatusCompleted).Error
		if persistErr != nil {
			r.log.Error("failed to persist poll expiry", "poll_id", pollID, "error", persistErr)
		} else {
			r.log.Info("poll expired on vote attempt", "poll_id", pollID)
		}
	}

	if err != nil {
		switch {
		case errors.Is(err, poll.ErrNotFound),
			errors.Is(err, poll.ErrNotActive),
			errors.Is(err, poll.ErrExpired),
			errors.Is(err, poll.ErrAlreadyVoted),
			errors.Is(err, poll.ErrInvalidOption):
			r.log.Debug("vote rejected", "poll_id", pollID, "voter_id", voterID, "reason", err)
		default:
			r.log.Error("failed to cast vote", "poll_id", pollID, "voter_id", voterID, "error", err)
		}
		return 0, err
	}

	r.log.Info("vote cast successfully", "poll_id", pollID, "option_id", optionID, "voter_id", voterID, "total_votes", total)
	return total, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && (errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "duplicate key value") ||
		strings.Contains(err.Error(), "SQLSTATE 23505"))
}
