package postgres

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/colonyconnect/colony-api/internal/domain/complaint"
	"github.com/colonyconnect/colony-api/internal/logger"
)

// ErrComplaintNotFound is returned when no complaint matches the lookup
var ErrComplaintNotFound = errors.New("complaint not found")

// PostgresComplaintRepository implements ComplaintRepository using GORM
type PostgresComplaintRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresComplaintRepository creates a new PostgreSQL complaint repository
func NewPostgresComplaintRepository(db *gorm.DB) *PostgresComplaintRepository {
	return &PostgresComplaintRepository{
		db:  db,
		log: logger.Repository("complaint"),
	}
}

func (r *PostgresComplaintRepository) Create(c *complaint.Complaint) error {
	r.log.Debug("creating new complaint", "name", c.Name)

	if err := c.Validate(); err != nil {
		r.log.Error("complaint validation failed", "error", err)
		return fmt.Errorf("complaint validation failed: %w", err)
	}

	if err := r.db.Create(c).Error; err != nil {
		r.log.Error("failed to create complaint", "error", err)
		return fmt.Errorf("failed to create complaint: %w", err)
	}

	r.log.Info("complaint created successfully", "complaint_id", c.ID)
	return nil
}

func (r *PostgresComplaintRepository) GetByID(id string) (*complaint.Complaint, error) {
	complaintID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrComplaintNotFound
	}

	var c complaint.Complaint
	if err := r.db.First(&c, complaintID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrComplaintNotFound
		}
		r.log.Error("failed to retrieve complaint", "complaint_id", id, "error", err)
		return nil, fmt.Errorf("failed to retrieve complaint: %w", err)
	}

	return &c, nil
}

func (r *PostgresComplaintRepository) GetAll() ([]*complaint.Complaint, error) {
	var complaints []*complaint.Complaint
	err := r.db.Order("created_at DESC").Find(&complaints).Error
	if err != nil {
		r.log.Error("failed to retrieve complaints", "error", err)
		return nil, fmt.Errorf("failed to retrieve complaints: %w", err)
	}

	r.log.Debug("complaints retrieved successfully", "count", len(complaints))
	return complaints, nil
}

// List returns complaints filtered by status and a case-insensitive
// search over name and description. Empty filters match everything.
func (r *PostgresComplaintRepository) List(status, search string) ([]*complaint.Complaint, error) {
	query := r.db.Model(&complaint.Complaint{})
	if status != "" && status != "all" {
		query = query.Where("status = ?", status)
	}
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	var complaints []*complaint.Complaint
	if err := query.Order("created_at DESC").Find(&complaints).Error; err != nil {
		r.log.Error("failed to search complaints", "status", status, "error", err)
		return nil, fmt.Errorf("failed to search complaints: %w", err)
	}

	r.log.Debug("complaints searched successfully", "count", len(complaints), "status", status)
	return complaints, nil
}

func (r *PostgresComplaintRepository) Update(c *complaint.Complaint) error {
	r.log.Debug("updating complaint", "complaint_id", c.ID, "status", c.Status)

	result := r.db.Model(&complaint.Complaint{}).Where("id = ?", c.ID).Updates(map[string]interface{}{
		"name":        c.Name,
		"phone_no":    c.PhoneNo,
		"description": c.Description,
		"image_url":   c.ImageURL,
		"status":      c.Status,
	})
	if result.Error != nil {
		r.log.Error("failed to update complaint", "complaint_id", c.ID, "error", result.Error)
		return fmt.Errorf("failed to update complaint: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrComplaintNotFound
	}

	r.log.Info("complaint updated successfully", "complaint_id", c.ID, "status", c.Status)
	return nil
}

func (r *PostgresComplaintRepository) Delete(id string) error {
	complaintID, err := uuid.Parse(id)
	if err != nil {
		return ErrComplaintNotFound
	}

	result := r.db.Delete(&complaint.Complaint{}, complaintID)
	if result.Error != nil {
		r.log.Error("failed to delete complaint", "complaint_id", id, "error", result.Error)
		return fmt.Errorf("failed to delete complaint: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrComplaintNotFound
	}

	r.log.Info("complaint deleted successfully", "complaint_id", id)
	return nil
}

// CountByStatus returns complaint counts grouped by status
func (r *PostgresComplaintRepository) CountByStatus() (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}

	var rows []statusCount
	err := r.db.Model(&complaint.Complaint{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		r.log.Error("failed to count complaints by status", "error", err)
		return nil, fmt.Errorf("failed to count complaints by status: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
