package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/colonyconnect/colony-api/internal/domain/event"
	"github.com/colonyconnect/colony-api/internal/logger"
)

// ErrEventNotFound is returned when no event matches the lookup
var ErrEventNotFound = errors.New("event not found")

// PostgresEventRepository implements EventRepository using GORM
type PostgresEventRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresEventRepository creates a new PostgreSQL event repository
func NewPostgresEventRepository(db *gorm.DB) *PostgresEventRepository {
	return &PostgresEventRepository{
		db:  db,
		log: logger.Repository("event"),
	}
}

func (r *PostgresEventRepository) Create(e *event.Event) error {
	r.log.Debug("creating new event", "title", e.Title, "category", e.Category, "date", e.Date)

	if err := e.Validate(); err != nil {
		r.log.Error("event validation failed", "error", err)
		return fmt.Errorf("event validation failed: %w", err)
	}

	if err := r.db.Create(e).Error; err != nil {
		r.log.Error("failed to create event", "error", err)
		return fmt.Errorf("failed to create event: %w", err)
	}

	r.log.Info("event created successfully", "event_id", e.ID, "title", e.Title)
	return nil
}

func (r *PostgresEventRepository) GetByID(id string) (*event.Event, error) {
	eventID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrEventNotFound
	}

	var e event.Event
	if err := r.db.Preload("CreatedBy").First(&e, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		r.log.Error("failed to retrieve event", "event_id", id, "error", err)
		return nil, fmt.Errorf("failed to retrieve event: %w", err)
	}

	return &e, nil
}

func (r *PostgresEventRepository) GetAll() ([]*event.Event, error) {
	var events []*event.Event
	err := r.db.Preload("CreatedBy").Order("date DESC").Find(&events).Error
	if err != nil {
		r.log.Error("failed to retrieve events", "error", err)
		return nil, fmt.Errorf("failed to retrieve events: %w", err)
	}

	r.log.Debug("events retrieved successfully", "count", len(events))
	return events, nil
}

// ListUpcoming returns active events whose date is today or later, soonest first
func (r *PostgresEventRepository) ListUpcoming(now time.Time) ([]*event.Event, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var events []*event.Event
	err := r.db.Preload("CreatedBy").
		Where("is_active = ? AND date >= ?", true, dayStart).
		Order("date ASC").
		Find(&events).Error
	if err != nil {
		r.log.Error("failed to retrieve upcoming events", "error", err)
		return nil, fmt.Errorf("failed to retrieve upcoming events: %w", err)
	}

	r.log.Debug("upcoming events retrieved successfully", "count", len(events))
	return events, nil
}

// ListPast returns the most recent events that have already happened
func (r *PostgresEventRepository) ListPast(now time.Time, limit int) ([]*event.Event, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if limit <= 0 {
		limit = 10
	}

	var events []*event.Event
	err := r.db.Preload("CreatedBy").
		Where("is_active = ? AND date < ?", true, dayStart).
		Order("date DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		r.log.Error("failed to retrieve past events", "error", err)
		return nil, fmt.Errorf("failed to retrieve past events: %w", err)
	}

	return events, nil
}

func (r *PostgresEventRepository) Update(e *event.Event) error {
	r.log.Debug("updating event", "event_id", e.ID)

	result := r.db.Model(&event.Event{}).Where("id = ?", e.ID).Updates(map[string]interface{}{
		"title":               e.Title,
		"description":         e.Description,
		"date":                e.Date,
		"time":                e.Time,
		"location":            e.Location,
		"category":            e.Category,
		"image_url":           e.ImageURL,
		"organizer":           e.Organizer,
		"is_active":           e.IsActive,
		"max_participants":    e.MaxParticipants,
		"registered_user_ids": e.RegisteredUserIDs,
	})
	if result.Error != nil {
		r.log.Error("failed to update event", "event_id", e.ID, "error", result.Error)
		return fmt.Errorf("failed to update event: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}

	r.log.Info("event updated successfully", "event_id", e.ID)
	return nil
}

// Register adds a user to the event's registration list. The event row
// is locked for the duration of the transaction so concurrent
// registrations cannot push the count past max_participants.
func (r *PostgresEventRepository) Register(id string, userID uuid.UUID) (*event.Event, error) {
	eventID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrEventNotFound
	}

	var e event.Event
	err = r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&e, eventID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return fmt.Errorf("failed to lock event: %w", err)
		}

		if err := e.Register(userID); err != nil {
			return err
		}

		err = tx.Model(&event.Event{}).Where("id = ?", e.ID).
			Update("registered_user_ids", e.RegisteredUserIDs).Error
		if err != nil {
			return fmt.Errorf("failed to save registration: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrEventNotFound) || errors.Is(err, event.ErrAlreadyRegistered) || errors.Is(err, event.ErrEventFull) {
			return nil, err
		}
		r.log.Error("failed to register for event", "event_id", id, "user_id", userID, "error", err)
		return nil, err
	}

	r.log.Info("user registered for event", "event_id", e.ID, "user_id", userID, "registered", len(e.RegisteredUserIDs))
	return &e, nil
}

func (r *PostgresEventRepository) Delete(id string) error {
	eventID, err := uuid.Parse(id)
	if err != nil {
		return ErrEventNotFound
	}

	result := r.db.Delete(&event.Event{}, eventID)
	if result.Error != nil {
		r.log.Error("failed to delete event", "event_id", id, "error", result.Error)
		return fmt.Errorf("failed to delete event: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}

	r.log.Info("event deleted successfully", "event_id", id)
	return nil
}
