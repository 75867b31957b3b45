package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/colonyconnect/colony-api/internal/domain/alert"
	"github.com/colonyconnect/colony-api/internal/logger"
	"github.com/colonyconnect/colony-api/internal/middleware"
	"github.com/colonyconnect/colony-api/internal/response"
	"github.com/colonyconnect/colony-api/internal/storage/postgres"
	"github.com/colonyconnect/colony-api/internal/validation"
)

// AlertHandler serves urgent community notices
type AlertHandler struct {
	alertRepo postgres.AlertRepository
	log       *log.Logger
}

// NewAlertHandler creates a new alert handler
func NewAlertHandler(alertRepo postgres.AlertRepository) *AlertHandler {
	return &AlertHandler{
		alertRepo: alertRepo,
		log:       logger.Handler("alert"),
	}
}

type CreateAlertRequest struct {
	Title      string `json:"title" binding:"required"`
	Message    string `json:"message" binding:"required"`
	Priority   string `json:"priority"`
	ExpiryDays int    `json:"expiryDays"`
}

type alertView struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Priority  string `json:"priority"`
	CreatedBy string `json:"createdBy"`
	TimeAgo   string `json:"timeAgo"`
	IsActive  bool   `json:"isActive"`
}

func formatAlert(a *alert.Alert, now time.Time) alertView {
	return alertView{
		ID:        a.ID.String(),
		Title:     a.Title,
		Message:   a.Message,
		Priority:  a.Priority,
		CreatedBy: a.CreatorName(),
		TimeAgo:   a.TimeAgo(now),
		IsActive:  a.IsActive && !a.IsExpired(now),
	}
}

// GetActiveAlerts handles GET /api/alerts
func (h *AlertHandler) GetActiveAlerts(c *gin.Context) {
	now := time.Now()
	alerts, err := h.alertRepo.ListActive(now)
	if err != nil {
		h.log.Error("failed to list active alerts", "error", err)
		response.Internal(c, "Failed to fetch alerts")
		return
	}

	views := make([]alertView, 0, len(alerts))
	for _, a := range alerts {
		views = append(views, formatAlert(a, now))
	}

	response.Success(c, http.StatusOK, "", views)
}

// GetAlert handles GET /api/alerts/:alert_id and GET /api/admin/alerts/:alert_id
func (h *AlertHandler) GetAlert(c *gin.Context) {
	alertID := c.Param("alert_id")
	if err := validation.ValidateUUID(alertID, "alert_id"); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	a, err := h.alertRepo.GetByID(alertID)
	if err != nil {
		if errors.Is(err, postgres.ErrAlertNotFound) {
			response.NotFound(c, "Alert not found")
			return
		}
		h.log.Error("failed to fetch alert", "alert_id", alertID, "error", err)
		response.Internal(c, "Failed to fetch alert")
		return
	}

	response.Success(c, http.StatusOK, "", formatAlert(a, time.Now()))
}

// GetAllAlerts handles GET /api/admin/alerts
func (h *AlertHandler) GetAllAlerts(c *gin.Context) {
	alerts, err := h.alertRepo.GetAll()
	if err != nil {
		h.log.Error("failed to list alerts", "error", err)
		response.Internal(c, "Failed to fetch alerts")
		return
	}

	now := time.Now()
	views := make([]alertView, 0, len(alerts))
	for _, a := range alerts {
		views = append(views, formatAlert(a, now))
	}

	response.Success(c, http.StatusOK, "", views)
}

// CreateAlert handles POST /api/admin/alerts
func (h *AlertHandler) CreateAlert(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Not authorized")
		return
	}

	var req CreateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	var expiry *time.Time
	if req.ExpiryDays > 0 {
		e := time.Now().AddDate(0, 0, req.ExpiryDays)
		expiry = &e
	}

	a, err := alert.New(req.Title, req.Message, req.Priority, u.ID, expiry)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.alertRepo.Create(a); err != nil {
		h.log.Error("failed to create alert", "error", err)
		response.Internal(c, "Failed to create alert")
		return
	}

	h.log.Info("alert created", "alert_id", a.ID, "priority", a.Priority, "created_by", u.ID)
	response.Success(c, http.StatusCreated, "Alert created successfully", formatAlert(a, time.Now()))
}

type UpdateAlertRequest struct {
	Title      string `json:"title"`
	Message    string `json:"message"`
	Priority   string `json:"priority"`
	IsActive   *bool  `json:"isActive"`
	ExpiryDays *int   `json:"expiryDays"`
}

// UpdateAlert handles PUT /api/admin/alerts/:alert_id
func (h *AlertHandler) UpdateAlert(c *gin.Context) {
	alertID := c.Param("alert_id")
	if err := validation.ValidateUUID(alertID, "alert_id"); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var req UpdateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	a, err := h.alertRepo.GetByID(alertID)
	if err != nil {
		if errors.Is(err, postgres.ErrAlertNotFound) {
			response.NotFound(c, "Alert not found")
			return
		}
		h.log.Error("failed to fetch alert", "alert_id", alertID, "error", err)
		response.Internal(c, "Failed to update alert")
		return
	}

	if req.Title != "" {
		a.Title = req.Title
	}
	if req.Message != "" {
		a.Message = req.Message
	}
	if req.Priority != "" {
		a.Priority = req.Priority
	}
	if req.IsActive != nil {
		a.IsActive = *req.IsActive
	}
	if req.ExpiryDays != nil {
		if *req.ExpiryDays > 0 {
			e := time.Now().AddDate(0, 0, *req.ExpiryDays)
			a.ExpiryDate = &e
		} else {
			a.ExpiryDate = nil
		}
	}

	if err := a.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.alertRepo.Update(a); err != nil {
		h.log.Error("failed to update alert", "alert_id", alertID, "error", err)
		response.Internal(c, "Failed to update alert")
		return
	}

	h.log.Info("alert updated", "alert_id", alertID)
	response.Success(c, http.StatusOK, "Alert updated successfully", formatAlert(a, time.Now()))
}

// DeleteAlert handles DELETE /api/admin/alerts/:alert_id
func (h *AlertHandler) DeleteAlert(c *gin.Context) {
	alertID := c.Param("alert_id")
	if err := validation.ValidateUUID(alertID, "alert_id"); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.alertRepo.Delete(alertID); err != nil {
		if errors.Is(err, postgres.ErrAlertNotFound) {
			response.NotFound(c, "Alert not found")
			return
		}
		h.log.Error("failed to delete alert", "alert_id", alertID, "error", err)
		response.Internal(c, "Failed to delete alert")
		return
	}

	h.log.Info("alert deleted", "alert_id", alertID)
	response.Success(c, http.StatusOK, "Alert deleted successfully", nil)
}
