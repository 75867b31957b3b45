package postgres

import (
	"fmt"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/colonyconnect/colony-api/internal/config"
	"github.com/colonyconnect/colony-api/internal/logger"
)

// Container holds all repositories backed by one database connection
type Container struct {
	db               *gorm.DB
	log              *log.Logger
	userRepo         UserRepository
	pollRepo         PollRepository
	alertRepo        AlertRepository
	announcementRepo AnnouncementRepository
	eventRepo        EventRepository
	complaintRepo    ComplaintRepository
}

// NewContainer connects to the database, runs migrations and wires all repositories
func NewContainer(cfg *config.Config) (*Container, error) {
	log := logger.Repository("postgres_container")
	log.Info("Initializing PostgreSQL repository container...")

	db, err := Connect(cfg)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := AutoMigrate(db); err != nil {
		log.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	container := NewContainerWithDB(db)

	if err := container.Health(); err != nil {
		log.Error("Container health check failed", "error", err)
		return nil, fmt.Errorf("container health check failed: %w", err)
	}

	log.Info("PostgreSQL repository container initialized successfully")
	return container, nil
}

// NewContainerWithDB creates a container with an existing database connection
func NewContainerWithDB(db *gorm.DB) *Container {
	return &Container{
		db:               db,
		log:              logger.Repository("postgres_container"),
		userRepo:         NewPostgresUserRepository(db),
		pollRepo:         NewPostgresPollRepository(db),
		alertRepo:        NewPostgresAlertRepository(db),
		announcementRepo: NewPostgresAnnouncementRepository(db),
		eventRepo:        NewPostgresEventRepository(db),
		complaintRepo:    NewPostgresComplaintRepository(db),
	}
}

// Users returns the user repository
func (c *Container) Users() UserRepository {
	return c.userRepo
}

// Polls returns the poll repository
func (c *Container) Polls() PollRepository {
	return c.pollRepo
}

// Alerts returns the alert repository
func (c *Container) Alerts() AlertRepository {
	return c.alertRepo
}

// Announcements returns the announcement repository
func (c *Container) Announcements() AnnouncementRepository {
	return c.announcementRepo
}

// Events returns the event repository
func (c *Container) Events() EventRepository {
	return c.eventRepo
}

// Complaints returns the complaint repository
func (c *Container) Complaints() ComplaintRepository {
	return c.complaintRepo
}

// Health performs a health check on the database connection and core tables
func (c *Container) Health() error {
	c.log.Debug("Performing container health check...")

	if err := HealthCheck(c.db); err != nil {
		c.log.Error("Database health check failed", "error", err)
		return fmt.Errorf("database health check failed: %w", err)
	}

	tables := []string{"users", "polls", "poll_options", "poll_votes", "alerts", "announcements", "events", "complaints"}
	for _, table := range tables {
		var count int64
		if err := c.db.Table(table).Count(&count).Error; err != nil {
			c.log.Error("Table health check failed", "table", table, "error", err)
			return fmt.Errorf("table %s health check failed: %w", table, err)
		}
	}

	c.log.Debug("Container health check completed successfully")
	return nil
}

// GetDB returns the underlying database connection
func (c *Container) GetDB() *gorm.DB {
	return c.db
}

// Close gracefully shuts down the container and closes the database connection
func (c *Container) Close() error {
	c.log.Info("Closing PostgreSQL repository container...")

	if c.db == nil {
		c.log.Warn("Database connection is nil, nothing to close")
		return nil
	}

	if err := Close(); err != nil {
		c.log.Error("Failed to close database connection", "error", err)
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	c.db = nil
	c.log.Info("PostgreSQL repository container closed successfully")
	return nil
}
