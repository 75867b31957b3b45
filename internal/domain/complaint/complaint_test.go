package complaint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	c, err := New("  Ravi Kumar  ", " 9876543210 ", "  Streetlight near gate 2 is broken.  ", "")
	require.NoError(t, err)

	assert.Equal(t, "Ravi Kumar", c.Name)
	assert.Equal(t, "9876543210", c.PhoneNo)
	assert.Equal(t, "Streetlight near gate 2 is broken.", c.Description)
	assert.Equal(t, StatusPending, c.Status)
}

func TestNewValidation(t *testing.T) {
	_, err := New("", "9876543210", "description", "")
	assert.EqualError(t, err, "name is required")

	_, err = New("Ravi", "", "description", "")
	assert.EqualError(t, err, "phoneno is required")

	_, err = New("Ravi", "9876543210", "", "")
	assert.EqualError(t, err, "description is required")
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusPending))
	assert.True(t, ValidStatus(StatusInProgress))
	assert.True(t, ValidStatus(StatusResolved))
	assert.False(t, ValidStatus("closed"))
	assert.False(t, ValidStatus(""))
}
