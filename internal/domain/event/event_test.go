package event

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEvent(t *testing.T, maxParticipants int) *Event {
	t.Helper()
	e, err := New("Diwali Celebration", "Community celebration in the main garden.", time.Now().AddDate(0, 0, 3), "6:00 PM", "Main Garden", "celebration", "", maxParticipants, uuid.New())
	require.NoError(t, err)
	return e
}

func TestNew(t *testing.T) {
	e := newTestEvent(t, 50)

	assert.Equal(t, "Diwali Celebration", e.Title)
	assert.Equal(t, "Colony Management", e.Organizer)
	assert.True(t, e.IsActive)
	assert.Empty(t, e.RegisteredUserIDs)
	assert.NotNil(t, e.RegisteredUserIDs)
}

func TestNewValidation(t *testing.T) {
	creator := uuid.New()
	date := time.Now().AddDate(0, 0, 3)

	_, err := New("", "desc", date, "6:00 PM", "Garden", "other", "", 0, creator)
	assert.EqualError(t, err, "title is required")

	_, err = New(strings.Repeat("x", 101), "desc", date, "6:00 PM", "Garden", "other", "", 0, creator)
	assert.EqualError(t, err, "title cannot be more than 100 characters")

	_, err = New("title", strings.Repeat("x", 501), date, "6:00 PM", "Garden", "other", "", 0, creator)
	assert.EqualError(t, err, "description cannot be more than 500 characters")

	_, err = New("title", "desc", date, "6:00 PM", "Garden", "concert", "", 0, creator)
	assert.EqualError(t, err, "invalid category: concert")

	_, err = New("title", "desc", date, "6:00 PM", "Garden", "other", "", -1, creator)
	assert.EqualError(t, err, "max_participants cannot be negative")
}

func TestRegister(t *testing.T) {
	e := newTestEvent(t, 2)
	first := uuid.New()
	second := uuid.New()

	require.NoError(t, e.Register(first))
	assert.True(t, e.IsRegistered(first))
	assert.False(t, e.IsFull())

	err := e.Register(first)
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
	assert.EqualError(t, err, "user already registered for this event")

	require.NoError(t, e.Register(second))
	assert.True(t, e.IsFull())

	err = e.Register(uuid.New())
	assert.ErrorIs(t, err, ErrEventFull)
	assert.EqualError(t, err, "event is full")
}

func TestZeroMaxParticipantsMeansUnlimited(t *testing.T) {
	e := newTestEvent(t, 0)

	for i := 0; i < 100; i++ {
		require.NoError(t, e.Register(uuid.New()))
	}
	assert.False(t, e.IsFull())
}

func TestFormattedDate(t *testing.T) {
	now := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)

	e := &Event{Date: now.Add(3 * time.Hour)}
	assert.Equal(t, "Today", e.FormattedDate(now))

	e.Date = time.Date(2026, time.March, 21, 18, 0, 0, 0, time.UTC)
	assert.Equal(t, "Sat, Mar 21", e.FormattedDate(now))
}
