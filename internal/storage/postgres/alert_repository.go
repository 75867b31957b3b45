package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/colonyconnect/colony-api/internal/domain/alert"
	"github.com/colonyconnect/colony-api/internal/logger"
)

// ErrAlertNotFound is returned when no alert matches the lookup
var ErrAlertNotFound = errors.New("alert not found")

// PostgresAlertRepository implements AlertRepository using GORM
type PostgresAlertRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresAlertRepository creates a new PostgreSQL alert repository
func NewPostgresAlertRepository(db *gorm.DB) *PostgresAlertRepository {
	return &PostgresAlertRepository{
		db:  db,
		log: logger.Repository("alert"),
	}
}

func (r *PostgresAlertRepository) Create(a *alert.Alert) error {
	r.log.Debug("creating new alert", "title", a.Title, "priority", a.Priority)

	if err := a.Validate(); err != nil {
		r.log.Error("alert validation failed", "error", err)
		return fmt.Errorf("alert validation failed: %w", err)
	}

	if err := r.db.Create(a).Error; err != nil {
		r.log.Error("failed to create alert", "error", err)
		return fmt.Errorf("failed to create alert: %w", err)
	}

	r.log.Info("alert created successfully", "alert_id", a.ID, "priority", a.Priority)
	return nil
}

func (r *PostgresAlertRepository) GetByID(id string) (*alert.Alert, error) {
	alertID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrAlertNotFound
	}

	var a alert.Alert
	if err := r.db.Preload("CreatedBy").First(&a, alertID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAlertNotFound
		}
		r.log.Error("failed to retrieve alert", "alert_id", id, "error", err)
		return nil, fmt.Errorf("failed to retrieve alert: %w", err)
	}

	return &a, nil
}

func (r *PostgresAlertRepository) GetAll() ([]*alert.Alert, error) {
	var alerts []*alert.Alert
	err := r.db.Preload("CreatedBy").Order("created_at DESC").Find(&alerts).Error
	if err != nil {
		r.log.Error("failed to retrieve alerts", "error", err)
		return nil, fmt.Errorf("failed to retrieve alerts: %w", err)
	}

	r.log.Debug("alerts retrieved successfully", "count", len(alerts))
	return alerts, nil
}

// ListActive returns alerts that are flagged active and not yet expired
func (r *PostgresAlertRepository) ListActive(now time.Time) ([]*alert.Alert, error) {
	var alerts []*alert.Alert
	err := r.db.Preload("CreatedBy").
		Where("is_active = ? AND (expiry_date IS NULL OR expiry_date > ?)", true, now).
		Order("created_at DESC").
		Find(&alerts).Error
	if err != nil {
		r.log.Error("failed to retrieve active alerts", "error", err)
		return nil, fmt.Errorf("failed to retrieve active alerts: %w", err)
	}

	r.log.Debug("active alerts retrieved successfully", "count", len(alerts))
	return alerts, nil
}

func (r *PostgresAlertRepository) Update(a *alert.Alert) error {
	r.log.Debug("updating alert", "alert_id", a.ID)

	if err := a.Validate(); err != nil {
		r.log.Error("alert validation failed", "error", err)
		return fmt.Errorf("alert validation failed: %w", err)
	}

	result := r.db.Model(&alert.Alert{}).Where("id = ?", a.ID).Updates(map[string]interface{}{
		"title":       a.Title,
		"message":     a.Message,
		"priority":    a.Priority,
		"is_active":   a.IsActive,
		"expiry_date": a.ExpiryDate,
	})
	if result.Error != nil {
		r.log.Error("failed to update alert", "alert_id", a.ID, "error", result.Error)
		return fmt.Errorf("failed to update alert: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAlertNotFound
	}

	r.log.Info("alert updated successfully", "alert_id", a.ID)
	return nil
}

func (r *PostgresAlertRepository) Delete(id string) error {
	alertID, err := uuid.Parse(id)
	if err != nil {
		return ErrAlertNotFound
	}

	result := r.db.Delete(&alert.Alert{}, alertID)
	if result.Error != nil {
		r.log.Error("failed to delete alert", "alert_id", id, "error", result.Error)
		return fmt.Errorf("failed to delete alert: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAlertNotFound
	}

	r.log.Info("alert deleted successfully", "alert_id", id)
	return nil
}
