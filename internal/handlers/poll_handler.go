package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/colonyconnect/colony-api/internal/domain/poll"
	"github.com/colonyconnect/colony-api/internal/logger"
	"github.com/colonyconnect/colony-api/internal/middleware"
	"github.com/colonyconnect/colony-api/internal/response"
	"github.com/colonyconnect/colony-api/internal/storage/postgres"
	"github.com/colonyconnect/colony-api/internal/validation"
)

// PollHandler serves poll listing, detail and voting endpoints
type PollHandler struct {
	pollRepo postgres.PollRepository
	log      *log.Logger
}

// NewPollHandler creates a new poll handler
func NewPollHandler(pollRepo postgres.PollRepository) *PollHandler {
	return &PollHandler{
		pollRepo: pollRepo,
		log:      logger.Handler("poll"),
	}
}

type CreatePollRequest struct {
	Question   string   `json:"question" binding:"required"`
	Options    []string `json:"options" binding:"required"`
	Category   string   `json:"category"`
	ExpiryDays int      `json:"expiryDays"`
}

type VoteRequest struct {
	OptionID string `json:"optionId" binding:"required"`
}

type UpdatePollStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// GetActivePolls handles GET /api/polls/active
func (h *PollHandler) GetActivePolls(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Not authorized")
		return
	}

	now := time.Now()
	polls, err := h.pollRepo.ListActive(now)
	if err != nil {
		h.log.Error("failed to list active polls", "error", err)
		response.Internal(c, "Failed to fetch polls")
		return
	}

	voted, err := h.pollRepo.VotedPollIDs(u.ID.String())
	if err != nil {
		h.log.Error("failed to load voter ledger", "user_id", u.ID, "error", err)
		response.Internal(c, "Failed to fetch polls")
		return
	}

	views := make([]poll.View, 0, len(polls))
	for _, p := range polls {
		views = append(views, p.FormatForViewer(voted[p.ID.String()], now))
	}

	response.Success(c, http.StatusOK, "", gin.H{
		"polls":       views,
		"activeCount": len(views),
	})
}

// GetCompletedPolls handles GET /api/polls/completed
func (h *PollHandler) GetCompletedPolls(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Not authorized")
		return
	}

	now := time.Now()
	polls, err := h.pollRepo.ListCompleted(now)
	if err != nil {
		h.log.Error("failed to list completed polls", "error", err)
		response.Internal(c, "Failed to fetch polls")
		return
	}

	voted, err := h.pollRepo.VotedPollIDs(u.ID.String())
	if err != nil {
		h.log.Error("failed to load voter ledger", "user_id", u.ID, "error", err)
		response.Internal(c, "Failed to fetch polls")
		return
	}

	views := make([]poll.View, 0, len(polls))
	for _, p := range polls {
		views = append(views, p.FormatForViewer(voted[p.ID.String()], now))
	}

	response.Success(c, http.StatusOK, "", gin.H{
		"polls":          views,
		"completedCount": len(views),
	})
}

// GetPoll handles GET /api/polls/:poll_id
func (h *PollHandler) GetPoll(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Not authorized")
		return
	}

	pollID := c.Param("poll_id")
	if err := validation.ValidateUUID(pollID, "poll_id"); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	p, err := h.pollRepo.GetByID(pollID)
	if err != nil {
		if errors.Is(err, poll.ErrNotFound) {
			response.NotFound(c, "Poll not found")
			return
		}
		h.log.Error("failed to fetch poll", "poll_id", pollID, "error", err)
		response.Internal(c, "Failed to fetch poll")
		return
	}

	hasVoted, err := h.pollRepo.HasVoted(pollID, u.ID.String())
	if err != nil {
		h.log.Error("failed to check vote record", "poll_id", pollID, "user_id", u.ID, "error", err)
		response.Internal(c, "Failed to fetch poll")
		return
	}

	response.Success(c, http.StatusOK, "", gin.H{
		"poll": p.FormatForViewer(hasVoted, time.Now()),
	})
}

// Vote handles POST /api/polls/:poll_id/vote
func (h *PollHandler) Vote(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Not authorized")
		return
	}

	pollID := c.Param("poll_id")
	if err := validation.ValidateUUID(pollID, "poll_id"); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "optionId is required")
		return
	}
	if err := validation.ValidateUUID(req.OptionID, "optionId"); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	now := time.Now()
	total, err := h.pollRepo.CastVote(pollID, req.OptionID, u.ID.String(), now)
	if err != nil {
		switch {
		case errors.Is(err, poll.ErrNotFound):
			response.NotFound(c, "Poll not found")
		case errors.Is(err, poll.ErrNotActive):
			response.BadRequest(c, "Poll is not active for voting")
		case errors.Is(err, poll.ErrExpired):
			response.BadRequest(c, "Poll has expired")
		case errors.Is(err, poll.ErrAlreadyVoted):
			response.BadRequest(c, "You have already voted in this poll")
		case errors.Is(err, poll.ErrInvalidOption):
			response.BadRequest(c, "Invalid option")
		default:
			h.log.Error("failed to cast vote", "poll_id", pollID, "user_id", u.ID, "error", err)
			response.Internal(c, "Failed to record vote")
		}
		return
	}

	response.Success(c, http.StatusOK, "Vote submitted successfully", gin.H{
		"totalVotes": total,
	})
}

// CreatePoll handles POST /api/admin/polls
func (h *PollHandler) CreatePoll(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Not authorized")
		return
	}

	var req CreatePollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	var pollValidation validation.PollValidation
	if err := pollValidation.ValidateQuestion(req.Question); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := pollValidation.ValidateOptions(req.Options); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	category := poll.Category(req.Category).OrDefault()
	if !category.Valid() {
		response.BadRequest(c, "Invalid category: "+req.Category)
		return
	}

	p, err := poll.NewPoll(req.Question, req.Options, category, req.ExpiryDays, u.ID)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.pollRepo.Create(p); err != nil {
		h.log.Error("failed to create poll", "error", err)
		response.Internal(c, "Failed to create poll")
		return
	}

	h.log.Info("poll created", "poll_id", p.ID, "created_by", u.ID)
	response.Success(c, http.StatusCreated, "Poll created successfully", gin.H{
		"poll": p.FormatForViewer(true, time.Now()),
	})
}

// GetAllPolls handles GET /api/admin/polls
func (h *PollHandler) GetAllPolls(c *gin.Context) {
	polls, err := h.pollRepo.GetAll()
	if err != nil {
		h.log.Error("failed to list polls", "error", err)
		response.Internal(c, "Failed to fetch polls")
		return
	}

	// Admins always see live tallies.
	now := time.Now()
	views := make([]poll.View, 0, len(polls))
	for _, p := range polls {
		views = append(views, p.FormatForViewer(true, now))
	}

	response.Success(c, http.StatusOK, "", gin.H{
		"polls": views,
		"total": len(views),
	})
}

// UpdatePollStatus handles PATCH /api/admin/polls/:poll_id/status
func (h *PollHandler) UpdatePollStatus(c *gin.Context) {
	pollID := c.Param("poll_id")
	if err := validation.ValidateUUID(pollID, "poll_id"); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var req UpdatePollStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "status is required")
		return
	}

	status, valid := poll.StatusFromString(req.Status)
	if !valid {
		response.BadRequest(c, "Invalid status: "+req.Status)
		return
	}

	p, err := h.pollRepo.SetStatus(pollID, status)
	if err != nil {
		if errors.Is(err, poll.ErrNotFound) {
			response.NotFound(c, "Poll not found")
			return
		}
		h.log.Error("failed to update poll status", "poll_id", pollID, "error", err)
		response.Internal(c, "Failed to update poll status")
		return
	}

	h.log.Info("poll status updated", "poll_id", pollID, "status", status)
	response.Success(c, http.StatusOK, "Poll marked as "+status.String(), gin.H{
		"poll": p.FormatForViewer(true, time.Now()),
	})
}

// DeletePoll handles DELETE /api/admin/polls/:poll_id
func (h *PollHandler) DeletePoll(c *gin.Context) {
	pollID := c.Param("poll_id")
	if err := validation.ValidateUUID(pollID, "poll_id"); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.pollRepo.Delete(pollID); err != nil {
		if errors.Is(err, poll.ErrNotFound) {
			response.NotFound(c, "Poll not found")
			return
		}
		h.log.Error("failed to delete poll", "poll_id", pollID, "error", err)
		response.Internal(c, "Failed to delete poll")
		return
	}

	h.log.Info("poll deleted", "poll_id", pollID)
	response.Success(c, http.StatusOK, "Poll deleted successfully", nil)
}
