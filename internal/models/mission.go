package models

// MissionCondition selects the rule by which a mission's progress advances.
type MissionCondition string

const (
	// ConditionTotalScore tracks the high-water mark of the current score.
	ConditionTotalScore MissionCondition = "total_score"
	// ConditionTotalEntries tracks the total number of logged entries.
	ConditionTotalEntries MissionCondition = "total_entries"
	// ConditionPositivePoints counts positive points earned (bulk entries
	// count their full quantity).
	ConditionPositivePoints MissionCondition = "positive_points"
	// ConditionDetailedReasons counts entries whose reason is at least
	// MinDetailedReasonLen characters long.
	ConditionDetailedReasons MissionCondition = "detailed_reasons"
)

// MinDetailedReasonLen is the reason length that qualifies an entry for
// detailed_reasons missions.
const MinDetailedReasonLen = 20

// Valid reports whether c is a known condition.
func (c MissionCondition) Valid() bool {
	switch c {
	case ConditionTotalScore, ConditionTotalEntries, ConditionPositivePoints, ConditionDetailedReasons:
		return true
	}
	return false
}

// Mission is a goal tracker that awards a one-time score bonus on
// completion. Once Completed is true, Progress and Completed never change
// again and the reward has been added to the score exactly once.
type Mission struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Target      int              `json:"target"`
	Progress    int              `json:"progress"`
	Condition   MissionCondition `json:"condition"`
	Reward      int              `json:"reward"`
	Completed   bool             `json:"completed"`
}
