package announcement

import (
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	a, err := New("  Annual General Meeting  ", "2026-09-20", "Agenda attached to the notice board.", "", 0, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, "Annual General Meeting", a.Title)
	assert.Equal(t, StatusPending, a.Status)
	assert.Equal(t, "general", a.Category)
	assert.Equal(t, PriorityMedium, a.Priority)
	assert.True(t, a.IsActive)
}

func TestNewValidation(t *testing.T) {
	creator := uuid.New()

	_, err := New("", "2026-09-20", "details", "general", PriorityMedium, creator)
	assert.EqualError(t, err, "title is required")

	_, err = New("title", "", "details", "general", PriorityMedium, creator)
	assert.EqualError(t, err, "date is required")

	_, err = New("title", "2026-09-20", "", "general", PriorityMedium, creator)
	assert.EqualError(t, err, "details are required")

	_, err = New("title", "2026-09-20", "details", "general", 5, creator)
	assert.EqualError(t, err, "priority must be 1, 2 or 3")

	_, err = New("title", "2026-09-20", "details", "general", PriorityMedium, uuid.Nil)
	assert.EqualError(t, err, "created_by is required")
}

func TestIsCompleted(t *testing.T) {
	a := &Announcement{Status: StatusPending}
	assert.False(t, a.IsCompleted())

	a.Status = StatusCompleted
	assert.True(t, a.IsCompleted())
}

func TestShortDetails(t *testing.T) {
	a := &Announcement{Details: "short"}
	assert.Equal(t, "short", a.ShortDetails(10))

	a.Details = "a much longer description that needs truncation"
	assert.Equal(t, "a much lon...", a.ShortDetails(10))
}

func TestShortDetailsMultiByte(t *testing.T) {
	a := &Announcement{Details: "Asamblea número uno: revisión de cuotas y áreas comunes"}

	got := a.ShortDetails(20)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "Asamblea número uno:...", got)
	assert.Equal(t, 23, utf8.RuneCountInString(got))

	// Exactly at the limit nothing is cut.
	a.Details = "señal"
	assert.Equal(t, "señal", a.ShortDetails(5))
}
