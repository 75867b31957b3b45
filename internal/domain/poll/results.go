package poll

import (
	"math"
	"time"
)

// HiddenTally is the sentinel rendered in place of vote counts for
// viewers who have not voted yet on an active poll.
const HiddenTally = "Hidden"

// OptionView is one option as presented to a viewer
type OptionView struct {
	OptionID   string      `json:"optionId"`
	Text       string      `json:"text"`
	Votes      interface{} `json:"votes,omitempty"`
	Percentage *int        `json:"percentage,omitempty"`
}

// View is the poll as presented to a specific viewer at a specific time
type View struct {
	ID               string       `json:"id"`
	Question         string       `json:"question"`
	Category         Category     `json:"category"`
	Options          []OptionView `json:"options"`
	TotalVotes       interface{}  `json:"totalVotes"`
	Status           string       `json:"status"`
	HasVoted         bool         `json:"hasVoted"`
	CreatedBy        string       `json:"createdBy"`
	ExpiryDate       *time.Time   `json:"expiryDate,omitempty"`
	Result           string       `json:"result,omitempty"`
	ResultPercentage *int         `json:"resultPercentage,omitempty"`
}

// Percentage returns the rounded share of total an option's votes make up
func Percentage(votes, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(votes) / float64(total) * 100))
}

// Winner returns the option with the most votes. Ties break to the first
// option in stored order.
func (p *Poll) Winner() *Option {
	if len(p.Options) == 0 {
		return nil
	}
	winner := &p.Options[0]
	for i := range p.Options {
		if p.Options[i].Votes > winner.Votes {
			winner = &p.Options[i]
		}
	}
	return winner
}

// FormatForViewer renders the poll for one viewer. Live tallies on an
// active poll stay hidden until the viewer has voted; completed polls
// and viewers who voted get counts, percentages and the winning option.
func (p *Poll) FormatForViewer(hasVoted bool, now time.Time) View {
	status := p.EffectiveStatus(now)

	view := View{
		ID:         p.ID.String(),
		Question:   p.Question,
		Category:   p.Category,
		Status:     statusLabel(status),
		HasVoted:   hasVoted,
		CreatedBy:  p.CreatorName(),
		ExpiryDate: p.ExpiryDate,
	}

	if status == StatusActive && !hasVoted {
		for _, opt := range p.Options {
			view.Options = append(view.Options, OptionView{
				OptionID: opt.ID.String(),
				Text:     opt.Text,
				Votes:    HiddenTally,
			})
		}
		view.TotalVotes = HiddenTally
		return view
	}

	for _, opt := range p.Options {
		pct := Percentage(opt.Votes, p.TotalVotes)
		view.Options = append(view.Options, OptionView{
			OptionID:   opt.ID.String(),
			Text:       opt.Text,
			Votes:      opt.Votes,
			Percentage: &pct,
		})
	}
	view.TotalVotes = p.TotalVotes

	if winner := p.Winner(); winner != nil {
		winnerPct := Percentage(winner.Votes, p.TotalVotes)
		view.Result = winner.Text
		view.ResultPercentage = &winnerPct
	}

	return view
}

func statusLabel(s Status) string {
	if s == StatusActive {
		return "Open for voting"
	}
	return "Completed"
}
