package poll

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPoll(t *testing.T, optionTexts []string) *Poll {
	t.Helper()
	p, err := NewPoll("Should the gym stay open until midnight?", optionTexts, CategoryFacilities, 0, uuid.New())
	require.NoError(t, err)
	return p
}

func TestNewPoll(t *testing.T) {
	creator := uuid.New()

	p, err := NewPoll("  Install solar panels?  ", []string{"Yes", "No", "Need more info"}, CategoryGeneral, 7, creator)
	require.NoError(t, err)

	assert.Equal(t, "Install solar panels?", p.Question)
	assert.Equal(t, StatusActive, p.Status)
	assert.Equal(t, creator, p.CreatedByID)
	assert.Len(t, p.Options, 3)
	require.NotNil(t, p.ExpiryDate)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 7), *p.ExpiryDate, time.Minute)

	for i, opt := range p.Options {
		assert.Equal(t, i, opt.Position)
		assert.Equal(t, p.ID, opt.PollID)
		assert.Zero(t, opt.Votes)
	}
}

func TestNewPollWithoutExpiry(t *testing.T) {
	p := newTestPoll(t, []string{"Yes", "No"})
	assert.Nil(t, p.ExpiryDate)
	assert.False(t, p.IsExpired(time.Now().AddDate(10, 0, 0)))
}

func TestNewPollValidation(t *testing.T) {
	creator := uuid.New()

	_, err := NewPoll("", []string{"Yes", "No"}, CategoryGeneral, 0, creator)
	assert.EqualError(t, err, "question is required")

	_, err = NewPoll("One option only?", []string{"Yes"}, CategoryGeneral, 0, creator)
	assert.EqualError(t, err, "at least 2 options are required")

	_, err = NewPoll("Blank option?", []string{"Yes", "   "}, CategoryGeneral, 0, creator)
	assert.EqualError(t, err, "option text is required")

	_, err = NewPoll("Bad category?", []string{"Yes", "No"}, Category("bogus"), 0, creator)
	assert.EqualError(t, err, "invalid category: bogus")

	_, err = NewPoll("No creator?", []string{"Yes", "No"}, CategoryGeneral, 0, uuid.Nil)
	assert.EqualError(t, err, "created_by is required")
}

func TestApplyVote(t *testing.T) {
	p := newTestPoll(t, []string{"Yes", "No"})
	now := time.Now()

	opt, err := p.ApplyVote(p.Options[0].ID, now)
	require.NoError(t, err)
	assert.Equal(t, 1, opt.Votes)
	assert.Equal(t, 1, p.TotalVotes)

	_, err = p.ApplyVote(p.Options[1].ID, now)
	require.NoError(t, err)
	assert.Equal(t, 2, p.TotalVotes)

	sum := 0
	for _, o := range p.Options {
		sum += o.Votes
	}
	assert.Equal(t, p.TotalVotes, sum)
}

func TestApplyVoteInvalidOption(t *testing.T) {
	p := newTestPoll(t, []string{"Yes", "No"})

	_, err := p.ApplyVote(uuid.New(), time.Now())
	assert.ErrorIs(t, err, ErrInvalidOption)
	assert.Zero(t, p.TotalVotes)
}

func TestApplyVoteOnCompletedPoll(t *testing.T) {
	p := newTestPoll(t, []string{"Yes", "No"})
	p.Status = StatusCompleted

	_, err := p.ApplyVote(p.Options[0].ID, time.Now())
	assert.ErrorIs(t, err, ErrNotActive)
}

func TestApplyVoteOnExpiredPoll(t *testing.T) {
	p := newTestPoll(t, []string{"Yes", "No"})
	expiry := time.Now().Add(-time.Hour)
	p.ExpiryDate = &expiry

	_, err := p.ApplyVote(p.Options[0].ID, time.Now())
	assert.ErrorIs(t, err, ErrExpired)
	assert.Zero(t, p.TotalVotes)
}

func TestEffectiveStatus(t *testing.T) {
	p := newTestPoll(t, []string{"Yes", "No"})
	now := time.Now()

	assert.Equal(t, StatusActive, p.EffectiveStatus(now))

	expiry := now.Add(time.Hour)
	p.ExpiryDate = &expiry
	assert.Equal(t, StatusActive, p.EffectiveStatus(now))
	assert.Equal(t, StatusCompleted, p.EffectiveStatus(now.Add(2*time.Hour)))

	p.ExpiryDate = nil
	p.Status = StatusCompleted
	assert.Equal(t, StatusCompleted, p.EffectiveStatus(now))
}

func TestExpiryBoundaryInstant(t *testing.T) {
	p := newTestPoll(t, []string{"Yes", "No"})
	now := time.Now()
	p.ExpiryDate = &now

	// At the exact expiry instant the poll is still active and votable;
	// it only expires once the instant has passed. The listing sweep and
	// the vote path must agree on this edge.
	assert.False(t, p.IsExpired(now))
	assert.Equal(t, StatusActive, p.EffectiveStatus(now))

	_, err := p.ApplyVote(p.Options[0].ID, now)
	assert.NoError(t, err)

	assert.True(t, p.IsExpired(now.Add(time.Nanosecond)))
	assert.Equal(t, StatusCompleted, p.EffectiveStatus(now.Add(time.Nanosecond)))
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 75, Percentage(3, 4))
	assert.Equal(t, 25, Percentage(1, 4))
	assert.Equal(t, 33, Percentage(1, 3))
	assert.Equal(t, 67, Percentage(2, 3))
	assert.Equal(t, 100, Percentage(5, 5))
	assert.Equal(t, 0, Percentage(0, 5))
	assert.Equal(t, 0, Percentage(0, 0))
	assert.Equal(t, 0, Percentage(3, 0))
}

func TestWinnerTieBreaksToFirstOption(t *testing.T) {
	p := newTestPoll(t, []string{"Red", "Blue", "Green"})
	p.Options[0].Votes = 2
	p.Options[1].Votes = 2
	p.Options[2].Votes = 1
	p.TotalVotes = 5

	winner := p.Winner()
	require.NotNil(t, winner)
	assert.Equal(t, "Red", winner.Text)
}

func TestWinnerEmptyOptions(t *testing.T) {
	p := &Poll{}
	assert.Nil(t, p.Winner())
}

func TestFormatForViewerHidesTalliesBeforeVoting(t *testing.T) {
	p := newTestPoll(t, []string{"Yes", "No"})
	p.Options[0].Votes = 3
	p.Options[1].Votes = 1
	p.TotalVotes = 4

	view := p.FormatForViewer(false, time.Now())

	assert.Equal(t, "Open for voting", view.Status)
	assert.False(t, view.HasVoted)
	assert.Equal(t, HiddenTally, view.TotalVotes)
	assert.Empty(t, view.Result)
	assert.Nil(t, view.ResultPercentage)
	for _, opt := range view.Options {
		assert.Equal(t, HiddenTally, opt.Votes)
		assert.Nil(t, opt.Percentage)
	}
}

func TestFormatForViewerRevealsTalliesAfterVoting(t *testing.T) {
	p := newTestPoll(t, []string{"Yes", "No"})
	p.Options[0].Votes = 3
	p.Options[1].Votes = 1
	p.TotalVotes = 4

	view := p.FormatForViewer(true, time.Now())

	assert.True(t, view.HasVoted)
	assert.Equal(t, 4, view.TotalVotes)
	assert.Equal(t, "Yes", view.Result)
	require.NotNil(t, view.ResultPercentage)
	assert.Equal(t, 75, *view.ResultPercentage)

	require.Len(t, view.Options, 2)
	assert.Equal(t, 3, view.Options[0].Votes)
	require.NotNil(t, view.Options[0].Percentage)
	assert.Equal(t, 75, *view.Options[0].Percentage)
	require.NotNil(t, view.Options[1].Percentage)
	assert.Equal(t, 25, *view.Options[1].Percentage)
}

func TestFormatForViewerCompletedPollAlwaysReveals(t *testing.T) {
	p := newTestPoll(t, []string{"Yes", "No"})
	p.Status = StatusCompleted
	p.Options[0].Votes = 1
	p.TotalVotes = 1

	view := p.FormatForViewer(false, time.Now())

	assert.Equal(t, "Completed", view.Status)
	assert.Equal(t, 1, view.TotalVotes)
	assert.Equal(t, "Yes", view.Result)
}

func TestFormatForViewerExpiredPollRevealsWithoutVote(t *testing.T) {
	p := newTestPoll(t, []string{"Yes", "No"})
	expiry := time.Now().Add(-time.Hour)
	p.ExpiryDate = &expiry
	p.Options[1].Votes = 2
	p.TotalVotes = 2

	view := p.FormatForViewer(false, time.Now())

	assert.Equal(t, "Completed", view.Status)
	assert.Equal(t, 2, view.TotalVotes)
	assert.Equal(t, "No", view.Result)
}

func TestStatusRoundTrip(t *testing.T) {
	for _, s := range []Status{StatusActive, StatusCompleted} {
		parsed, valid := StatusFromString(s.String())
		assert.True(t, valid)
		assert.Equal(t, s, parsed)

		value, err := s.Value()
		require.NoError(t, err)

		var scanned Status
		require.NoError(t, scanned.Scan(value))
		assert.Equal(t, s, scanned)
	}

	_, valid := StatusFromString("archived")
	assert.False(t, valid)
}

func TestStatusJSON(t *testing.T) {
	data, err := StatusActive.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"active"`, string(data))

	var s Status
	require.NoError(t, s.UnmarshalJSON([]byte(`"completed"`)))
	assert.Equal(t, StatusCompleted, s)

	assert.Error(t, s.UnmarshalJSON([]byte(`"archived"`)))
}

func TestCategoryOrDefault(t *testing.T) {
	assert.Equal(t, CategoryGeneral, Category("").OrDefault())
	assert.Equal(t, CategorySecurity, CategorySecurity.OrDefault())
	assert.False(t, Category("bogus").Valid())
}
