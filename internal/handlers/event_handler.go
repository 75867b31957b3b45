package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/colonyconnect/colony-api/internal/domain/event"
	"github.com/colonyconnect/colony-api/internal/logger"
	"github.com/colonyconnect/colony-api/internal/middleware"
	"github.com/colonyconnect/colony-api/internal/response"
	"github.com/colonyconnect/colony-api/internal/storage/postgres"
	"github.com/colonyconnect/colony-api/internal/validation"
)

// EventHandler serves community events and registrations
type EventHandler struct {
	eventRepo postgres.EventRepository
	log       *log.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventRepo postgres.EventRepository) *EventHandler {
	return &EventHandler{
		eventRepo: eventRepo,
		log:       logger.Handler("event"),
	}
}

type CreateEventRequest struct {
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description" binding:"required"`
	Date            string `json:"date" binding:"required"`
	Time            string `json:"time" binding:"required"`
	Location        string `json:"location" binding:"required"`
	Category        string `json:"category"`
	Organizer       string `json:"organizer"`
	ImageURL        string `json:"imageUrl"`
	MaxParticipants int    `json:"maxParticipants"`
}

type eventView struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	Location        string `json:"location"`
	Category        string `json:"category"`
	ImageURL        string `json:"imageUrl,omitempty"`
	Organizer       string `json:"organizer"`
	MaxParticipants int    `json:"maxParticipants"`
	Registered      int    `json:"registered"`
	IsFull          bool   `json:"isFull"`
	IsRegistered    bool   `json:"isRegistered"`
}

func (h *EventHandler) formatEvent(e *event.Event, viewerID string, now time.Time) eventView {
	view := eventView{
		ID:              e.ID.String(),
		Title:           e.Title,
		Description:     e.Description,
		Date:            e.FormattedDate(now),
		Time:            e.Time,
		Location:        e.Location,
		Category:        e.Category,
		ImageURL:        e.ImageURL,
		Organizer:       e.Organizer,
		MaxParticipants: e.MaxParticipants,
		Registered:      len(e.RegisteredUserIDs),
		IsFull:          e.IsFull(),
	}
	for _, id := range e.RegisteredUserIDs {
		if id == viewerID {
			view.IsRegistered = true
			break
		}
	}
	return view
}

// GetEvents handles GET /api/events: upcoming events plus the last few past ones
func (h *EventHandler) GetEvents(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Not authorized")
		return
	}

	now := time.Now()
	upcoming, err := h.eventRepo.ListUpcoming(now)
	if err != nil {
		h.log.Error("failed to list upcoming events", "error", err)
		response.Internal(c, "Failed to fetch events")
		return
	}

	past, err := h.eventRepo.ListPast(now, 10)
	if err != nil {
		h.log.Error("failed to list past events", "error", err)
		response.Internal(c, "Failed to fetch events")
		return
	}

	viewerID := u.ID.String()
	upcomingViews := make([]eventView, 0, len(upcoming))
	for _, e := range upcoming {
		upcomingViews = append(upcomingViews, h.formatEvent(e, viewerID, now))
	}
	pastViews := make([]eventView, 0, len(past))
	for _, e := range past {
		pastViews = append(pastViews, h.formatEvent(e, viewerID, now))
	}

	response.Success(c, http.StatusOK, "", gin.H{
		"upcoming": upcomingViews,
		"past":     pastViews,
	})
}

// RegisterForEvent handles POST /api/events/:event_id/register
func (h *EventHandler) RegisterForEvent(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Not authorized")
		return
	}

	eventID := c.Param("event_id")
	if err := validation.ValidateUUID(eventID, "event_id"); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	e, err := h.eventRepo.Register(eventID, u.ID)
	if err != nil {
		switch {
		case errors.Is(err, postgres.ErrEventNotFound):
			response.NotFound(c, "Event not found")
		case errors.Is(err, event.ErrAlreadyRegistered), errors.Is(err, event.ErrEventFull):
			response.BadRequest(c, err.Error())
		default:
			h.log.Error("failed to register for event", "event_id", eventID, "user_id", u.ID, "error", err)
			response.Internal(c, "Failed to register for event")
		}
		return
	}

	h.log.Info("event registration", "event_id", eventID, "user_id", u.ID)
	response.Success(c, http.StatusOK, "Registered for event", h.formatEvent(e, u.ID.String(), time.Now()))
}

// GetEvent handles GET /api/events/:event_id and GET /api/admin/events/:event_id
func (h *EventHandler) GetEvent(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Not authorized")
		return
	}

	eventID := c.Param("event_id")
	if err := validation.ValidateUUID(eventID, "event_id"); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	e, err := h.eventRepo.GetByID(eventID)
	if err != nil {
		if errors.Is(err, postgres.ErrEventNotFound) {
			response.NotFound(c, "Event not found")
			return
		}
		h.log.Error("failed to fetch event", "event_id", eventID, "error", err)
		response.Internal(c, "Failed to fetch event")
		return
	}

	response.Success(c, http.StatusOK, "", h.formatEvent(e, u.ID.String(), time.Now()))
}

// GetAllEvents handles GET /api/admin/events
func (h *EventHandler) GetAllEvents(c *gin.Context) {
	events, err := h.eventRepo.GetAll()
	if err != nil {
		h.log.Error("failed to list events", "error", err)
		response.Internal(c, "Failed to fetch events")
		return
	}

	response.Success(c, http.StatusOK, "", events)
}

// CreateEvent handles POST /api/admin/events
func (h *EventHandler) CreateEvent(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Not authorized")
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		response.BadRequest(c, "Invalid date format, expected YYYY-MM-DD")
		return
	}
	if err := validation.ValidateFutureDate(date, "date"); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	e, err := event.New(req.Title, req.Description, date, req.Time, req.Location, req.Category, req.Organizer, req.MaxParticipants, u.ID)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	e.ImageURL = req.ImageURL

	if err := h.eventRepo.Create(e); err != nil {
		h.log.Error("failed to create event", "error", err)
		response.Internal(c, "Failed to create event")
		return
	}

	h.log.Info("event created", "event_id", e.ID, "created_by", u.ID)
	response.Success(c, http.StatusCreated, "Event created successfully", e)
}

type UpdateEventRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	Location        string `json:"location"`
	Category        string `json:"category"`
	ImageURL        string `json:"imageUrl"`
	Organizer       string `json:"organizer"`
	MaxParticipants *int   `json:"maxParticipants"`
	IsActive        *bool  `json:"isActive"`
}

// UpdateEvent handles PUT /api/admin/events/:event_id
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	eventID := c.Param("event_id")
	if err := validation.ValidateUUID(eventID, "event_id"); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	e, err := h.eventRepo.GetByID(eventID)
	if err != nil {
		if errors.Is(err, postgres.ErrEventNotFound) {
			response.NotFound(c, "Event not found")
			return
		}
		h.log.Error("failed to fetch event", "event_id", eventID, "error", err)
		response.Internal(c, "Failed to update event")
		return
	}

	if req.Title != "" {
		e.Title = req.Title
	}
	if req.Description != "" {
		e.Description = req.Description
	}
	if req.Date != "" {
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			response.BadRequest(c, "Invalid date format, expected YYYY-MM-DD")
			return
		}
		e.Date = date
	}
	if req.Time != "" {
		e.Time = req.Time
	}
	if req.Location != "" {
		e.Location = req.Location
	}
	if req.Category != "" {
		e.Category = req.Category
	}
	if req.ImageURL != "" {
		e.ImageURL = req.ImageURL
	}
	if req.Organizer != "" {
		e.Organizer = req.Organizer
	}
	if req.MaxParticipants != nil {
		e.MaxParticipants = *req.MaxParticipants
	}
	if req.IsActive != nil {
		e.IsActive = *req.IsActive
	}

	if err := e.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.eventRepo.Update(e); err != nil {
		h.log.Error("failed to update event", "event_id", eventID, "error", err)
		response.Internal(c, "Failed to update event")
		return
	}

	h.log.Info("event updated", "event_id", eventID)
	response.Success(c, http.StatusOK, "Event updated successfully", e)
}

// ToggleEventActive handles PATCH /api/admin/events/:event_id/toggle-active
func (h *EventHandler) ToggleEventActive(c *gin.Context) {
	eventID := c.Param("event_id")
	if err := validation.ValidateUUID(eventID, "event_id"); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	e, err := h.eventRepo.GetByID(eventID)
	if err != nil {
		if errors.Is(err, postgres.ErrEventNotFound) {
			response.NotFound(c, "Event not found")
			return
		}
		h.log.Error("failed to fetch event", "event_id", eventID, "error", err)
		response.Internal(c, "Failed to update event")
		return
	}

	e.IsActive = !e.IsActive
	if err := h.eventRepo.Update(e); err != nil {
		h.log.Error("failed to toggle event", "event_id", eventID, "error", err)
		response.Internal(c, "Failed to update event")
		return
	}

	state := "deactivated"
	if e.IsActive {
		state = "activated"
	}
	h.log.Info("event toggled", "event_id", eventID, "is_active", e.IsActive)
	response.Success(c, http.StatusOK, "Event "+state+" successfully", gin.H{
		"isActive": e.IsActive,
	})
}

// DeleteEvent handles DELETE /api/admin/events/:event_id
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	eventID := c.Param("event_id")
	if err := validation.ValidateUUID(eventID, "event_id"); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.eventRepo.Delete(eventID); err != nil {
		if errors.Is(err, postgres.ErrEventNotFound) {
			response.NotFound(c, "Event not found")
			return
		}
		h.log.Error("failed to delete event", "event_id", eventID, "error", err)
		response.Internal(c, "Failed to delete event")
		return
	}

	h.log.Info("event deleted", "event_id", eventID)
	response.Success(c, http.StatusOK, "Event deleted successfully", nil)
}
