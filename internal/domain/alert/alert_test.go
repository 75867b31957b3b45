package alert

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	creator := uuid.New()

	a, err := New("  Water supply interruption  ", "Maintenance on the main line from 10am.", PriorityHigh, creator, nil)
	require.NoError(t, err)

	assert.Equal(t, "Water supply interruption", a.Title)
	assert.Equal(t, PriorityHigh, a.Priority)
	assert.True(t, a.IsActive)
	assert.Nil(t, a.ExpiryDate)
}

func TestNewDefaultsPriority(t *testing.T) {
	a, err := New("Power cut", "Scheduled outage tonight.", "", uuid.New(), nil)
	require.NoError(t, err)
	assert.Equal(t, PriorityMedium, a.Priority)
}

func TestNewValidation(t *testing.T) {
	creator := uuid.New()

	_, err := New("", "message", PriorityLow, creator, nil)
	assert.EqualError(t, err, "title is required")

	_, err = New("title", "", PriorityLow, creator, nil)
	assert.EqualError(t, err, "message is required")

	_, err = New("title", "message", "urgent", creator, nil)
	assert.EqualError(t, err, "invalid priority: urgent")

	_, err = New("title", "message", PriorityLow, uuid.Nil, nil)
	assert.EqualError(t, err, "created_by is required")
}

func TestIsExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	a := &Alert{}
	assert.False(t, a.IsExpired(now))

	a.ExpiryDate = &future
	assert.False(t, a.IsExpired(now))

	a.ExpiryDate = &past
	assert.True(t, a.IsExpired(now))
}

func TestTimeAgo(t *testing.T) {
	now := time.Now()

	a := &Alert{CreatedAt: now.Add(-2 * time.Hour)}
	assert.Equal(t, "Today", a.TimeAgo(now))

	a.CreatedAt = now.Add(-30 * time.Hour)
	assert.Equal(t, "Yesterday", a.TimeAgo(now))

	a.CreatedAt = now.Add(-5 * 24 * time.Hour)
	assert.Equal(t, "5 days ago", a.TimeAgo(now))
}

func TestCreatorName(t *testing.T) {
	a := &Alert{}
	assert.Equal(t, "Admin", a.CreatorName())
}
