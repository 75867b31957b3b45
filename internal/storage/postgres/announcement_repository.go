package postgres

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/colonyconnect/colony-api/internal/domain/announcement"
	"github.com/colonyconnect/colony-api/internal/logger"
)

// ErrAnnouncementNotFound is returned when no announcement matches the lookup
var ErrAnnouncementNotFound = errors.New("announcement not found")

// PostgresAnnouncementRepository implements AnnouncementRepository using GORM
type PostgresAnnouncementRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresAnnouncementRepository creates a new PostgreSQL announcement repository
func NewPostgresAnnouncementRepository(db *gorm.DB) *PostgresAnnouncementRepository {
	return &PostgresAnnouncementRepository{
		db:  db,
		log: logger.Repository("announcement"),
	}
}

func (r *PostgresAnnouncementRepository) Create(a *announcement.Announcement) error {
	r.log.Debug("creating new announcement", "title", a.Title, "category", a.Category)

	if err := a.Validate(); err != nil {
		r.log.Error("announcement validation failed", "error", err)
		return fmt.Errorf("announcement validation failed: %w", err)
	}

	if err := r.db.Create(a).Error; err != nil {
		r.log.Error("failed to create announcement", "error", err)
		return fmt.Errorf("failed to create announcement: %w", err)
	}

	r.log.Info("announcement created successfully", "announcement_id", a.ID)
	return nil
}

func (r *PostgresAnnouncementRepository) GetByID(id string) (*announcement.Announcement, error) {
	announcementID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrAnnouncementNotFound
	}

	var a announcement.Announcement
	if err := r.db.Preload("CreatedBy").First(&a, announcementID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnnouncementNotFound
		}
		r.log.Error("failed to retrieve announcement", "announcement_id", id, "error", err)
		return nil, fmt.Errorf("failed to retrieve announcement: %w", err)
	}

	return &a, nil
}

func (r *PostgresAnnouncementRepository) GetAll() ([]*announcement.Announcement, error) {
	var announcements []*announcement.Announcement
	err := r.db.Preload("CreatedBy").Order("created_at DESC").Find(&announcements).Error
	if err != nil {
		r.log.Error("failed to retrieve announcements", "error", err)
		return nil, fmt.Errorf("failed to retrieve announcements: %w", err)
	}

	r.log.Debug("announcements retrieved successfully", "count", len(announcements))
	return announcements, nil
}

func (r *PostgresAnnouncementRepository) ListActive() ([]*announcement.Announcement, error) {
	var announcements []*announcement.Announcement
	err := r.db.Preload("CreatedBy").
		Where("is_active = ?", true).
		Order("priority ASC, created_at DESC").
		Find(&announcements).Error
	if err != nil {
		r.log.Error("failed to retrieve active announcements", "error", err)
		return nil, fmt.Errorf("failed to retrieve active announcements: %w", err)
	}

	return announcements, nil
}

// ListRecent returns the newest active announcements, capped at limit
func (r *PostgresAnnouncementRepository) ListRecent(limit int) ([]*announcement.Announcement, error) {
	if limit <= 0 {
		limit = 5
	}

	var announcements []*announcement.Announcement
	err := r.db.Preload("CreatedBy").
		Where("is_active = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&announcements).Error
	if err != nil {
		r.log.Error("failed to retrieve recent announcements", "error", err)
		return nil, fmt.Errorf("failed to retrieve recent announcements: %w", err)
	}

	return announcements, nil
}

func (r *PostgresAnnouncementRepository) Update(a *announcement.Announcement) error {
	r.log.Debug("updating announcement", "announcement_id", a.ID)

	if err := a.Validate(); err != nil {
		r.log.Error("announcement validation failed", "error", err)
		return fmt.Errorf("announcement validation failed: %w", err)
	}

	result := r.db.Model(&announcement.Announcement{}).Where("id = ?", a.ID).Updates(map[string]interface{}{
		"title":     a.Title,
		"date":      a.Date,
		"status":    a.Status,
		"details":   a.Details,
		"category":  a.Category,
		"priority":  a.Priority,
		"is_active": a.IsActive,
	})
	if result.Error != nil {
		r.log.Error("failed to update announcement", "announcement_id", a.ID, "error", result.Error)
		return fmt.Errorf("failed to update announcement: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAnnouncementNotFound
	}

	r.log.Info("announcement updated successfully", "announcement_id", a.ID)
	return nil
}

func (r *PostgresAnnouncementRepository) Delete(id string) error {
	announcementID, err := uuid.Parse(id)
	if err != nil {
		return ErrAnnouncementNotFound
	}

	result := r.db.Delete(&announcement.Announcement{}, announcementID)
	if result.Error != nil {
		r.log.Error("failed to delete announcement", "announcement_id", id, "error", result.Error)
		return fmt.Errorf("failed to delete announcement: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAnnouncementNotFound
	}

	r.log.Info("announcement deleted successfully", "announcement_id", id)
	return nil
}
