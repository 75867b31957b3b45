package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyconnect/colony-api/internal/domain/complaint"
)

func newComplaintRouter(t *testing.T, repo *fakeComplaintRepository) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	handler := NewComplaintHandler(repo)

	router := gin.New()
	router.POST("/api/complaints/add", handler.CreateComplaint)
	router.GET("/api/complaints/getAll", handler.GetAllComplaints)
	router.GET("/api/admin/complaints", handler.ListComplaints)
	router.GET("/api/admin/complaints/stats/overview", handler.ComplaintStats)
	router.PATCH("/api/admin/complaints/:complaint_id/status", handler.UpdateComplaintStatus)
	router.DELETE("/api/admin/complaints/:complaint_id", handler.DeleteComplaint)

	return router
}

func TestCreateComplaint(t *testing.T) {
	repo := newFakeComplaintRepository()
	router := newComplaintRouter(t, repo)

	w := doJSON(router, http.MethodPost, "/api/complaints/add", gin.H{
		"name":        "Sana",
		"phoneno":     "9876543210",
		"description": "Street light near gate 2 has been out for a week",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, repo.complaints, 1)
	for _, comp := range repo.complaints {
		assert.Equal(t, complaint.StatusPending, comp.Status)
	}
}

func TestCreateComplaintBadPhone(t *testing.T) {
	repo := newFakeComplaintRepository()
	router := newComplaintRouter(t, repo)

	w := doJSON(router, http.MethodPost, "/api/complaints/add", gin.H{
		"name":        "Sana",
		"phoneno":     "not-a-phone",
		"description": "Broken light",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, repo.complaints)
}

func TestUpdateComplaintStatus(t *testing.T) {
	repo := newFakeComplaintRepository()
	comp, err := complaint.New("Sana", "9876543210", "Broken light", "")
	require.NoError(t, err)
	require.NoError(t, repo.Create(comp))

	router := newComplaintRouter(t, repo)

	path := fmt.Sprintf("/api/admin/complaints/%s/status", comp.ID)

	w := doJSON(router, http.MethodPatch, path, gin.H{"status": "resolved"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, complaint.StatusResolved, comp.Status)

	w = doJSON(router, http.MethodPatch, path, gin.H{"status": "escalated"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid status")
}

func TestComplaintStats(t *testing.T) {
	repo := newFakeComplaintRepository()
	for i, status := range []string{complaint.StatusPending, complaint.StatusPending, complaint.StatusResolved} {
		comp, err := complaint.New("Resident", "9876543210", fmt.Sprintf("Issue %d", i), "")
		require.NoError(t, err)
		comp.Status = status
		require.NoError(t, repo.Create(comp))
	}

	router := newComplaintRouter(t, repo)

	w := doJSON(router, http.MethodGet, "/api/admin/complaints/stats/overview", nil)
	require.Equal(t, http.StatusOK, w.Code)

	env := decodeEnvelope(t, w)
	data := env.Data.(map[string]interface{})
	assert.Equal(t, float64(3), data["total"])
	assert.Equal(t, float64(2), data["pending"])
	assert.Equal(t, float64(1), data["resolved"])
	assert.Equal(t, float64(0), data["inProgress"])
}

func TestListComplaintsFilter(t *testing.T) {
	repo := newFakeComplaintRepository()
	pending, err := complaint.New("A", "9876543210", "Leaking pipe", "")
	require.NoError(t, err)
	require.NoError(t, repo.Create(pending))

	resolved, err := complaint.New("B", "9876543211", "Noise at night", "")
	require.NoError(t, err)
	resolved.Status = complaint.StatusResolved
	require.NoError(t, repo.Create(resolved))

	router := newComplaintRouter(t, repo)

	w := doJSON(router, http.MethodGet, "/api/admin/complaints?status=resolved", nil)
	require.Equal(t, http.StatusOK, w.Code)

	env := decodeEnvelope(t, w)
	data := env.Data.(map[string]interface{})
	assert.Equal(t, float64(1), data["count"])
}
