package handlers

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/colonyconnect/colony-api/internal/domain/complaint"
	"github.com/colonyconnect/colony-api/internal/logger"
	"github.com/colonyconnect/colony-api/internal/response"
	"github.com/colonyconnect/colony-api/internal/storage/postgres"
	"github.com/colonyconnect/colony-api/internal/validation"
)

// ComplaintHandler serves resident complaints. Submitting and listing
// complaints is open; status changes are admin only.
type ComplaintHandler struct {
	complaintRepo postgres.ComplaintRepository
	log           *log.Logger
}

// NewComplaintHandler creates a new complaint handler
func NewComplaintHandler(complaintRepo postgres.ComplaintRepository) *ComplaintHandler {
	return &ComplaintHandler{
		complaintRepo: complaintRepo,
		log:           logger.Handler("complaint"),
	}
}

type CreateComplaintRequest struct {
	Name        string `json:"name" binding:"required"`
	PhoneNo     string `json:"phoneno" binding:"required"`
	Description string `json:"description" binding:"required"`
	ImageURL    string `json:"imageUrl"`
}

type UpdateComplaintStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateComplaint handles POST /api/complaints/add
func (h *ComplaintHandler) CreateComplaint(c *gin.Context) {
	var req CreateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	if err := validation.ValidatePhoneNumber(req.PhoneNo); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	comp, err := complaint.New(req.Name, req.PhoneNo, req.Description, req.ImageURL)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.complaintRepo.Create(comp); err != nil {
		h.log.Error("failed to create complaint", "error", err)
		response.Internal(c, "Failed to submit complaint")
		return
	}

	h.log.Info("complaint submitted", "complaint_id", comp.ID)
	response.Success(c, http.StatusCreated, "Complaint submitted successfully", comp)
}

// GetAllComplaints handles GET /api/complaints/getAll
func (h *ComplaintHandler) GetAllComplaints(c *gin.Context) {
	complaints, err := h.complaintRepo.GetAll()
	if err != nil {
		h.log.Error("failed to list complaints", "error", err)
		response.Internal(c, "Failed to fetch complaints")
		return
	}

	response.Success(c, http.StatusOK, "", complaints)
}

// ListComplaints handles GET /api/admin/complaints with optional status
// and search query filters, plus the per-status counts the triage screen
// shows alongside the list.
func (h *ComplaintHandler) ListComplaints(c *gin.Context) {
	status := c.Query("status")
	search := c.Query("search")

	complaints, err := h.complaintRepo.List(status, search)
	if err != nil {
		h.log.Error("failed to search complaints", "error", err)
		response.Internal(c, "Failed to fetch complaints")
		return
	}

	counts, err := h.complaintRepo.CountByStatus()
	if err != nil {
		h.log.Error("failed to count complaints", "error", err)
		response.Internal(c, "Failed to fetch complaints")
		return
	}

	var total int64
	for _, n := range counts {
		total += n
	}

	response.Success(c, http.StatusOK, "", gin.H{
		"count":      len(complaints),
		"complaints": complaints,
		"stats": gin.H{
			"total":      total,
			"pending":    counts[complaint.StatusPending],
			"inProgress": counts[complaint.StatusInProgress],
			"resolved":   counts[complaint.StatusResolved],
		},
	})
}

// GetComplaint handles GET /api/admin/complaints/:complaint_id
func (h *ComplaintHandler) GetComplaint(c *gin.Context) {
	complaintID := c.Param("complaint_id")
	if err := validation.ValidateUUID(complaintID, "complaint_id"); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	comp, err := h.complaintRepo.GetByID(complaintID)
	if err != nil {
		if errors.Is(err, postgres.ErrComplaintNotFound) {
			response.NotFound(c, "Complaint not found")
			return
		}
		h.log.Error("failed to fetch complaint", "complaint_id", complaintID, "error", err)
		response.Internal(c, "Failed to fetch complaint")
		return
	}

	response.Success(c, http.StatusOK, "", comp)
}

type UpdateComplaintRequest struct {
	Name        string `json:"name"`
	PhoneNo     string `json:"phoneno"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

// UpdateComplaint handles PUT /api/admin/complaints/:complaint_id
func (h *ComplaintHandler) UpdateComplaint(c *gin.Context) {
	complaintID := c.Param("complaint_id")
	if err := validation.ValidateUUID(complaintID, "complaint_id"); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var req UpdateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	comp, err := h.complaintRepo.GetByID(complaintID)
	if err != nil {
		if errors.Is(err, postgres.ErrComplaintNotFound) {
			response.NotFound(c, "Complaint not found")
			return
		}
		h.log.Error("failed to fetch complaint", "complaint_id", complaintID, "error", err)
		response.Internal(c, "Failed to update complaint")
		return
	}

	if req.Name != "" {
		comp.Name = req.Name
	}
	if req.PhoneNo != "" {
		if err := validation.ValidatePhoneNumber(req.PhoneNo); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		comp.PhoneNo = req.PhoneNo
	}
	if req.Description != "" {
		comp.Description = req.Description
	}
	if req.ImageURL != "" {
		comp.ImageURL = req.ImageURL
	}

	if err := h.complaintRepo.Update(comp); err != nil {
		h.log.Error("failed to update complaint", "complaint_id", complaintID, "error", err)
		response.Internal(c, "Failed to update complaint")
		return
	}

	h.log.Info("complaint updated", "complaint_id", complaintID)
	response.Success(c, http.StatusOK, "Complaint updated successfully", comp)
}

// UpdateComplaintStatus handles PATCH /api/admin/complaints/:complaint_id/status
func (h *ComplaintHandler) UpdateComplaintStatus(c *gin.Context) {
	complaintID := c.Param("complaint_id")
	if err := validation.ValidateUUID(complaintID, "complaint_id"); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var req UpdateComplaintStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "status is required")
		return
	}

	if !complaint.ValidStatus(req.Status) {
		response.BadRequest(c, "Invalid status: "+req.Status)
		return
	}

	comp, err := h.complaintRepo.GetByID(complaintID)
	if err != nil {
		if errors.Is(err, postgres.ErrComplaintNotFound) {
			response.NotFound(c, "Complaint not found")
			return
		}
		h.log.Error("failed to fetch complaint", "complaint_id", complaintID, "error", err)
		response.Internal(c, "Failed to update complaint")
		return
	}

	comp.Status = req.Status
	if err := h.complaintRepo.Update(comp); err != nil {
		h.log.Error("failed to update complaint", "complaint_id", complaintID, "error", err)
		response.Internal(c, "Failed to update complaint")
		return
	}

	h.log.Info("complaint status updated", "complaint_id", complaintID, "status", req.Status)
	response.Success(c, http.StatusOK, "Complaint updated successfully", comp)
}

// DeleteComplaint handles DELETE /api/admin/complaints/:complaint_id
func (h *ComplaintHandler) DeleteComplaint(c *gin.Context) {
	complaintID := c.Param("complaint_id")
	if err := validation.ValidateUUID(complaintID, "complaint_id"); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.complaintRepo.Delete(complaintID); err != nil {
		if errors.Is(err, postgres.ErrComplaintNotFound) {
			response.NotFound(c, "Complaint not found")
			return
		}
		h.log.Error("failed to delete complaint", "complaint_id", complaintID, "error", err)
		response.Internal(c, "Failed to delete complaint")
		return
	}

	h.log.Info("complaint deleted", "complaint_id", complaintID)
	response.Success(c, http.StatusOK, "Complaint deleted successfully", nil)
}

// ComplaintStats handles GET /api/admin/complaints/stats/overview
func (h *ComplaintHandler) ComplaintStats(c *gin.Context) {
	counts, err := h.complaintRepo.CountByStatus()
	if err != nil {
		h.log.Error("failed to count complaints", "error", err)
		response.Internal(c, "Failed to fetch complaint stats")
		return
	}

	var total int64
	for _, n := range counts {
		total += n
	}

	response.Success(c, http.StatusOK, "", gin.H{
		"total":      total,
		"pending":    counts[complaint.StatusPending],
		"inProgress": counts[complaint.StatusInProgress],
		"resolved":   counts[complaint.StatusResolved],
	})
}
