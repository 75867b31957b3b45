package handlers

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/colonyconnect/colony-api/internal/domain/announcement"
	"github.com/colonyconnect/colony-api/internal/logger"
	"github.com/colonyconnect/colony-api/internal/middleware"
	"github.com/colonyconnect/colony-api/internal/response"
	"github.com/colonyconnect/colony-api/internal/storage/postgres"
	"github.com/colonyconnect/colony-api/internal/validation"
)

// AnnouncementHandler serves scheduled community notices
type AnnouncementHandler struct {
	announcementRepo postgres.AnnouncementRepository
	log              *log.Logger
}

// NewAnnouncementHandler creates a new announcement handler
func NewAnnouncementHandler(announcementRepo postgres.AnnouncementRepository) *AnnouncementHandler {
	return &AnnouncementHandler{
		announcementRepo: announcementRepo,
		log:              logger.Handler("announcement"),
	}
}

type CreateAnnouncementRequest struct {
	Title    string `json:"title" binding:"required"`
	Date     string `json:"date" binding:"required"`
	Details  string `json:"details" binding:"required"`
	Category string `json:"category"`
	Priority int    `json:"priority"`
}

type UpdateAnnouncementRequest struct {
	Title    string `json:"title"`
	Date     string `json:"date"`
	Details  string `json:"details"`
	Category string `json:"category"`
	Priority int    `json:"priority"`
	Status   string `json:"status"`
	IsActive *bool  `json:"isActive"`
}

// GetAnnouncements handles GET /api/announcements
func (h *AnnouncementHandler) GetAnnouncements(c *gin.Context) {
	announcements, err := h.announcementRepo.ListActive()
	if err != nil {
		h.log.Error("failed to list announcements", "error", err)
		response.Internal(c, "Failed to fetch announcements")
		return
	}

	response.Success(c, http.StatusOK, "", announcements)
}

// GetRecentAnnouncements handles GET /api/announcements/recent
func (h *AnnouncementHandler) GetRecentAnnouncements(c *gin.Context) {
	announcements, err := h.announcementRepo.ListRecent(10)
	if err != nil {
		h.log.Error("failed to list recent announcements", "error", err)
		response.Internal(c, "Failed to fetch announcements")
		return
	}

	// Compact view for the home screen card.
	views := make([]gin.H, 0, len(announcements))
	for _, a := range announcements {
		views = append(views, gin.H{
			"id":          a.ID.String(),
			"title":       a.Title,
			"date":        a.Date,
			"status":      a.Status,
			"details":     a.ShortDetails(100),
			"isCompleted": a.IsCompleted(),
		})
	}

	response.Success(c, http.StatusOK, "", views)
}

// GetAnnouncement handles GET /api/announcements/:announcement_id
func (h *AnnouncementHandler) GetAnnouncement(c *gin.Context) {
	announcementID := c.Param("announcement_id")
	if err := validation.ValidateUUID(announcementID, "announcement_id"); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	a, err := h.announcementRepo.GetByID(announcementID)
	if err != nil {
		if errors.Is(err, postgres.ErrAnnouncementNotFound) {
			response.NotFound(c, "Announcement not found")
			return
		}
		h.log.Error("failed to fetch announcement", "announcement_id", announcementID, "error", err)
		response.Internal(c, "Failed to fetch announcement")
		return
	}

	response.Success(c, http.StatusOK, "", a)
}

// GetAllAnnouncements handles GET /api/admin/announcements
func (h *AnnouncementHandler) GetAllAnnouncements(c *gin.Context) {
	announcements, err := h.announcementRepo.GetAll()
	if err != nil {
		h.log.Error("failed to list announcements", "error", err)
		response.Internal(c, "Failed to fetch announcements")
		return
	}

	response.Success(c, http.StatusOK, "", announcements)
}

// CreateAnnouncement handles POST /api/admin/announcements
func (h *AnnouncementHandler) CreateAnnouncement(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Not authorized")
		return
	}

	var req CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	a, err := announcement.New(req.Title, req.Date, req.Details, req.Category, req.Priority, u.ID)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.announcementRepo.Create(a); err != nil {
		h.log.Error("failed to create announcement", "error", err)
		response.Internal(c, "Failed to create announcement")
		return
	}

	h.log.Info("announcement created", "announcement_id", a.ID, "created_by", u.ID)
	response.Success(c, http.StatusCreated, "Announcement created successfully", a)
}

// UpdateAnnouncement handles PUT /api/admin/announcements/:announcement_id
func (h *AnnouncementHandler) UpdateAnnouncement(c *gin.Context) {
	announcementID := c.Param("announcement_id")
	if err := validation.ValidateUUID(announcementID, "announcement_id"); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var req UpdateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	a, err := h.announcementRepo.GetByID(announcementID)
	if err != nil {
		if errors.Is(err, postgres.ErrAnnouncementNotFound) {
			response.NotFound(c, "Announcement not found")
			return
		}
		h.log.Error("failed to fetch announcement", "announcement_id", announcementID, "error", err)
		response.Internal(c, "Failed to update announcement")
		return
	}

	if req.Title != "" {
		a.Title = req.Title
	}
	if req.Date != "" {
		a.Date = req.Date
	}
	if req.Details != "" {
		a.Details = req.Details
	}
	if req.Category != "" {
		a.Category = req.Category
	}
	if req.Priority != 0 {
		a.Priority = req.Priority
	}
	if req.Status != "" {
		a.Status = req.Status
	}
	if req.IsActive != nil {
		a.IsActive = *req.IsActive
	}

	if err := h.announcementRepo.Update(a); err != nil {
		if errors.Is(err, postgres.ErrAnnouncementNotFound) {
			response.NotFound(c, "Announcement not found")
			return
		}
		h.log.Error("failed to update announcement", "announcement_id", announcementID, "error", err)
		response.Internal(c, "Failed to update announcement")
		return
	}

	h.log.Info("announcement updated", "announcement_id", announcementID)
	response.Success(c, http.StatusOK, "Announcement updated successfully", a)
}

type UpdateAnnouncementStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateAnnouncementStatus handles PATCH /api/admin/announcements/:announcement_id/status
func (h *AnnouncementHandler) UpdateAnnouncementStatus(c *gin.Context) {
	announcementID := c.Param("announcement_id")
	if err := validation.ValidateUUID(announcementID, "announcement_id"); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var req UpdateAnnouncementStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "status is required")
		return
	}

	switch req.Status {
	case announcement.StatusPending, announcement.StatusCompleted,
		announcement.StatusInProgress, announcement.StatusCancelled:
	default:
		response.BadRequest(c, "Invalid status")
		return
	}

	a, err := h.announcementRepo.GetByID(announcementID)
	if err != nil {
		if errors.Is(err, postgres.ErrAnnouncementNotFound) {
			response.NotFound(c, "Announcement not found")
			return
		}
		h.log.Error("failed to fetch announcement", "announcement_id", announcementID, "error", err)
		response.Internal(c, "Failed to update announcement")
		return
	}

	a.Status = req.Status
	if err := h.announcementRepo.Update(a); err != nil {
		h.log.Error("failed to update announcement status", "announcement_id", announcementID, "error", err)
		response.Internal(c, "Failed to update announcement")
		return
	}

	h.log.Info("announcement status updated", "announcement_id", announcementID, "status", req.Status)
	response.Success(c, http.StatusOK, "Announcement marked as "+req.Status, gin.H{
		"id":          a.ID.String(),
		"title":       a.Title,
		"status":      a.Status,
		"isCompleted": a.IsCompleted(),
	})
}

// DeleteAnnouncement handles DELETE /api/admin/announcements/:announcement_id
func (h *AnnouncementHandler) DeleteAnnouncement(c *gin.Context) {
	announcementID := c.Param("announcement_id")
	if err := validation.ValidateUUID(announcementID, "announcement_id"); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.announcementRepo.Delete(announcementID); err != nil {
		if errors.Is(err, postgres.ErrAnnouncementNotFound) {
			response.NotFound(c, "Announcement not found")
			return
		}
		h.log.Error("failed to delete announcement", "announcement_id", announcementID, "error", err)
		response.Internal(c, "Failed to delete announcement")
		return
	}

	h.log.Info("announcement deleted", "announcement_id", announcementID)
	response.Success(c, http.StatusOK, "Announcement deleted successfully", nil)
}
