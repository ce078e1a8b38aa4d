// Package missions implements the mission engine: condition evaluation
// against the entry log and one-time reward bookkeeping.
package missions

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/puntos/internal/common"
	"github.com/dmitrijs2005/puntos/internal/models"
	"github.com/google/uuid"
)

var newID = uuid.NewString

// Result carries the outcome of one evaluation pass.
type Result struct {
	// Missions is the updated mission set.
	Missions []models.Mission
	// Bonus is the total reward earned by missions completed in this pass.
	// It is added to the score once and is not itself re-evaluated, so a
	// single entry cannot cascade completions.
	Bonus int
	// Completed lists the missions that completed in this pass, for the
	// display layer.
	Completed []models.Mission
}

// New validates the mission fields and returns a fresh mission.
func New(title, description string, target, reward int, condition models.MissionCondition) (models.Mission, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Mission{}, common.ErrEmptyTitle
	}
	if target < 1 {
		return models.Mission{}, fmt.Errorf("%w: %d", common.ErrInvalidTarget, target)
	}
	if reward < 1 {
		return models.Mission{}, fmt.Errorf("%w: %d", common.ErrInvalidReward, reward)
	}
	if !condition.Valid() {
		return models.Mission{}, fmt.Errorf("%w: %q", common.ErrUnknownCondition, condition)
	}
	return models.Mission{
		ID:          newID(),
		Title:       title,
		Description: strings.TrimSpace(description),
		Target:      target,
		Condition:   condition,
		Reward:      reward,
	}, nil
}

// Evaluate runs one pass over the mission set for a newly appended entry.
// Completed missions are never touched again: progress is frozen and the
// reward is not re-awarded. Pure: input slice is not mutated.
//
// Per-condition rules:
//   - total_score: high-water mark of the current score; a later score
//     decrease does not regress progress.
//   - total_entries: full recount of the log.
//   - positive_points: positive entries advance progress by their quantity
//     (1 for single adds).
//   - detailed_reasons: entries with a reason of at least
//     models.MinDetailedReasonLen characters advance progress by one.
func Evaluate(ms []models.Mission, entry models.Entry, currentScore int, allEntries []models.Entry) Result {
	out := Result{Missions: make([]models.Mission, len(ms))}
	copy(out.Missions, ms)

	for i := range out.Missions {
		m := &out.Missions[i]
		if m.Completed {
			continue
		}

		switch m.Condition {
		case models.ConditionTotalScore:
			if currentScore > m.Progress {
				m.Progress = currentScore
			}
		case models.ConditionTotalEntries:
			m.Progress = len(allEntries)
		case models.ConditionPositivePoints:
			if entry.Type == models.EntryTypePositive {
				inc := 1
				if entry.IsBulk() {
					inc = entry.Quantity
				}
				m.Progress += inc
			}
		case models.ConditionDetailedReasons:
			if len(entry.Reason) >= models.MinDetailedReasonLen {
				m.Progress++
			}
		}

		if m.Progress > m.Target {
			m.Progress = m.Target
		}
		if m.Progress >= m.Target {
			m.Completed = true
			out.Bonus += m.Reward
			out.Completed = append(out.Completed, *m)
		}
	}

	return out
}

// Delete removes the mission with the given id. An already earned reward is
// never reversed. Returns common.ErrMissionNotFound when absent.
func Delete(ms []models.Mission, id string) ([]models.Mission, error) {
	for i, m := range ms {
		if m.ID == id {
			out := make([]models.Mission, 0, len(ms)-1)
			out = append(out, ms[:i]...)
			out = append(out, ms[i+1:]...)
			return out, nil
		}
	}
	return ms, common.ErrMissionNotFound
}

// Progress renders "progress/target" for display.
func Progress(m models.Mission) string {
	return fmt.Sprintf("%d/%d", m.Progress, m.Target)
}
