package interaction

import (
	"errors"
	"math"

	"github.com/3pWEBQUERY/TGND/internal/models"

	"gorm.io/gorm"
)

var (
	// ErrPollNotFound means the poll row is missing.
	ErrPollNotFound = errors.New("interaction: poll not found")
	// ErrOptionNotFound means the option does not belong to the poll.
	ErrOptionNotFound = errors.New("interaction: option not found")
	// ErrVoteNotFound means there is no vote to retract.
	ErrVoteNotFound = errors.New("interaction: vote not found")
)

// VoteOutcome describes what CastVote did.
type VoteOutcome string

const (
	// VoteCreated is the NoVote -> VotedForOption transition.
	VoteCreated VoteOutcome = "created"
	// VoteSwitched re-points the existing vote row at another option.
	VoteSwitched VoteOutcome = "switched"
	// VoteUnchanged is the same-option no-op.
	VoteUnchanged VoteOutcome = "unchanged"
)

// CastVote records the user's vote on a poll. A user holds at most one vote
// row per poll: voting again for a different option updates that row's
// OptionID instead of inserting, voting for the same option does nothing.
func (e *Engine) CastVote(userID, pollID, optionID string) (VoteOutcome, *models.Vote, error) {
	var poll models.Poll
	err := e.db.Preload("Options").Where("id = ?", pollID).First(&poll).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, ErrPollNotFound
	}
	if err != nil {
		return "", nil, err
	}

	optionIDs := make([]string, 0, len(poll.Options))
	valid := false
	for _, opt := range poll.Options {
		optionIDs = append(optionIDs, opt.ID)
		if opt.ID == optionID {
			valid = true
		}
	}
	if !valid {
		return "", nil, ErrOptionNotFound
	}

	var outcome VoteOutcome
	var vote models.Vote
	err = e.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND option_id IN ?", userID, optionIDs).
			First(&vote).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			vote = models.Vote{UserID: userID, OptionID: optionID}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
			outcome = VoteCreated
		case err != nil:
			return err
		case vote.OptionID == optionID:
			outcome = VoteUnchanged
		default:
			if err := tx.Model(&vote).Update("option_id", optionID).Error; err != nil {
				return err
			}
			vote.OptionID = optionID
			outcome = VoteSwitched
		}
		return nil
	})
	if err != nil {
		return "", nil, err
	}
	return outcome, &vote, nil
}

// RetractVote deletes the user's vote on the poll, returning to NoVote.
func (e *Engine) RetractVote(userID, pollID string) error {
	var poll models.Poll
	err := e.db.Preload("Options").Where("id = ?", pollID).First(&poll).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrPollNotFound
	}
	if err != nil {
		return err
	}

	optionIDs := make([]string, 0, len(poll.Options))
	for _, opt := range poll.Options {
		optionIDs = append(optionIDs, opt.ID)
	}

	var vote models.Vote
	err = e.db.Where("user_id = ? AND option_id IN ?", userID, optionIDs).
		First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrVoteNotFound
	}
	if err != nil {
		return err
	}

	return e.db.Delete(&vote).Error
}

// OptionResult is a poll option annotated with its tally for the viewer.
type OptionResult struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	VoteCount  int    `json:"voteCount"`
	Percentage int    `json:"percentage"`
	HasVoted   bool   `json:"hasVoted"`
}

// PollResults is the read-time aggregation of a poll. Percentages are rounded
// independently per option and may not sum to exactly 100.
type PollResults struct {
	Poll       models.Poll    `json:"-"`
	Options    []OptionResult `json:"options"`
	TotalVotes int            `json:"totalVotes"`
	HasVoted   bool           `json:"hasVoted"`
}

// Results computes per-option vote counts, percentages and the viewer's vote
// flags for a poll. viewerID may be empty, in which case all HasVoted flags
// are false.
func (e *Engine) Results(viewerID, pollID string) (*PollResults, error) {
	var poll models.Poll
	err := e.db.Preload("Options").Where("id = ?", pollID).First(&poll).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPollNotFound
	}
	if err != nil {
		return nil, err
	}
	return e.resultsFor(viewerID, &poll)
}

// ResultsForPoll is Results for an already loaded poll (options included).
func (e *Engine) ResultsForPoll(viewerID string, poll *models.Poll) (*PollResults, error) {
	return e.resultsFor(viewerID, poll)
}

func (e *Engine) resultsFor(viewerID string, poll *models.Poll) (*PollResults, error) {
	optionIDs := make([]string, len(poll.Options))
	for i, opt := range poll.Options {
		optionIDs[i] = opt.ID
	}

	countByOption := make(map[string]int)
	if len(optionIDs) > 0 {
		type countRow struct {
			OptionID string
			Count    int
		}
		var rows []countRow
		err := e.db.Model(&models.Vote{}).
			Select("option_id, COUNT(*) as count").
			Where("option_id IN ?", optionIDs).
			Group("option_id").
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			countByOption[r.OptionID] = r.Count
		}
	}

	votedOption := ""
	if viewerID != "" && len(optionIDs) > 0 {
		var vote models.Vote
		err := e.db.Where("user_id = ? AND option_id IN ?", viewerID, optionIDs).
			First(&vote).Error
		if err == nil {
			votedOption = vote.OptionID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	total := 0
	for _, n := range countByOption {
		total += n
	}

	results := &PollResults{
		Poll:       *poll,
		Options:    make([]OptionResult, len(poll.Options)),
		TotalVotes: total,
		HasVoted:   votedOption != "",
	}
	for i, opt := range poll.Options {
		n := countByOption[opt.ID]
		results.Options[i] = OptionResult{
			ID:         opt.ID,
			Text:       opt.Text,
			VoteCount:  n,
			Percentage: percentage(n, total),
			HasVoted:   opt.ID == votedOption,
		}
	}
	return results, nil
}

// percentage is round(n/total*100), 0 when the poll has no votes.
func percentage(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(total) * 100))
}
