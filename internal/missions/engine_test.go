package missions

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/puntos/internal/common"
	"github.com/dmitrijs2005/puntos/internal/models"
)

func singleEntry(typ models.EntryType, reason string) models.Entry {
	return models.Entry{ID: "e", Kind: models.KindSingle, Type: typ, Points: typ.UnitValue(), Reason: reason}
}

func TestNew_Validation(t *testing.T) {
	_, err := New("", "", 5, 1, models.ConditionTotalScore)
	require.ErrorIs(t, err, common.ErrEmptyTitle)

	_, err = New("t", "", 0, 1, models.ConditionTotalScore)
	require.ErrorIs(t, err, common.ErrInvalidTarget)

	_, err = New("t", "", 5, 0, models.ConditionTotalScore)
	require.ErrorIs(t, err, common.ErrInvalidReward)

	_, err = New("t", "", 5, 1, models.MissionCondition("streak"))
	require.ErrorIs(t, err, common.ErrUnknownCondition)

	m, err := New("  Read more  ", " desc ", 5, 2, models.ConditionDetailedReasons)
	require.NoError(t, err)
	assert.Equal(t, "Read more", m.Title)
	assert.Equal(t, "desc", m.Description)
	assert.NotEmpty(t, m.ID)
	assert.False(t, m.Completed)
	assert.Zero(t, m.Progress)
}

func TestEvaluate_TotalScoreHighWaterMark(t *testing.T) {
	ms := []models.Mission{{ID: "m1", Target: 10, Condition: models.ConditionTotalScore, Reward: 5}}

	// score climbs to 15: mission completes, progress capped at target
	res := Evaluate(ms, singleEntry(models.EntryTypePositive, "r"), 15, nil)
	require.Len(t, res.Completed, 1)
	assert.Equal(t, 5, res.Bonus)
	assert.True(t, res.Missions[0].Completed)
	assert.Equal(t, 10, res.Missions[0].Progress)

	// score later drops hard: completed mission is frozen, no regression
	res2 := Evaluate(res.Missions, singleEntry(models.EntryTypeNegative, "r"), -5, nil)
	assert.Empty(t, res2.Completed)
	assert.Zero(t, res2.Bonus)
	assert.True(t, res2.Missions[0].Completed)
	assert.Equal(t, 10, res2.Missions[0].Progress)
}

func TestEvaluate_TotalScoreDoesNotRegressBeforeCompletion(t *testing.T) {
	ms := []models.Mission{{ID: "m1", Target: 100, Condition: models.ConditionTotalScore}}

	res := Evaluate(ms, singleEntry(models.EntryTypePositive, "r"), 7, nil)
	assert.Equal(t, 7, res.Missions[0].Progress)

	// score decreases, high-water mark stays
	res = Evaluate(res.Missions, singleEntry(models.EntryTypeNegative, "r"), 3, nil)
	assert.Equal(t, 7, res.Missions[0].Progress)
}

func TestEvaluate_RewardAwardedExactlyOnce(t *testing.T) {
	ms := []models.Mission{{ID: "m1", Target: 1, Condition: models.ConditionTotalScore, Reward: 50}}

	res := Evaluate(ms, singleEntry(models.EntryTypePositive, "r"), 1, nil)
	require.Equal(t, 50, res.Bonus)

	// re-evaluating an already completed mission must not double-award
	res = Evaluate(res.Missions, singleEntry(models.EntryTypePositive, "r"), 2, nil)
	assert.Zero(t, res.Bonus)
	assert.Empty(t, res.Completed)
}

// A completion bonus is not run back through the engine in the same pass,
// so it cannot cascade a second total_score completion.
func TestEvaluate_NoCascadingCompletions(t *testing.T) {
	ms := []models.Mission{
		{ID: "m1", Target: 10, Condition: models.ConditionTotalScore, Reward: 100},
		{ID: "m2", Target: 50, Condition: models.ConditionTotalScore, Reward: 1},
	}

	// score 10 completes m1; score+bonus would be 110 but m2 only sees 10
	res := Evaluate(ms, singleEntry(models.EntryTypePositive, "r"), 10, nil)
	require.Len(t, res.Completed, 1)
	assert.Equal(t, "m1", res.Completed[0].ID)
	assert.False(t, res.Missions[1].Completed)
	assert.Equal(t, 10, res.Missions[1].Progress)
}

func TestEvaluate_TotalEntriesRecounts(t *testing.T) {
	ms := []models.Mission{{ID: "m1", Target: 3, Condition: models.ConditionTotalEntries, Reward: 2}}

	all := []models.Entry{singleEntry(models.EntryTypePositive, "a"), singleEntry(models.EntryTypeNeutral, "b")}
	res := Evaluate(ms, all[1], 1, all)
	assert.Equal(t, 2, res.Missions[0].Progress)
	assert.False(t, res.Missions[0].Completed)

	all = append(all, singleEntry(models.EntryTypeNegative, "c"))
	res = Evaluate(res.Missions, all[2], 0, all)
	assert.True(t, res.Missions[0].Completed)
	assert.Equal(t, 2, res.Bonus)
}

func TestEvaluate_PositivePoints(t *testing.T) {
	ms := []models.Mission{{ID: "m1", Target: 5, Condition: models.ConditionPositivePoints, Reward: 1}}

	// negative and neutral entries do not advance progress
	res := Evaluate(ms, singleEntry(models.EntryTypeNegative, "r"), 0, nil)
	assert.Zero(t, res.Missions[0].Progress)
	res = Evaluate(res.Missions, singleEntry(models.EntryTypeNeutral, "r"), 0, nil)
	assert.Zero(t, res.Missions[0].Progress)

	// single positive counts 1
	res = Evaluate(res.Missions, singleEntry(models.EntryTypePositive, "r"), 1, nil)
	assert.Equal(t, 1, res.Missions[0].Progress)

	// bulk positive counts its quantity, capped at target
	bulk := models.Entry{Kind: models.KindBulk, Type: models.EntryTypePositive, Points: 10, Quantity: 10}
	res = Evaluate(res.Missions, bulk, 11, nil)
	assert.True(t, res.Missions[0].Completed)
	assert.Equal(t, 5, res.Missions[0].Progress)
}

func TestEvaluate_DetailedReasons(t *testing.T) {
	ms := []models.Mission{{ID: "m1", Target: 2, Condition: models.ConditionDetailedReasons, Reward: 3}}

	short := singleEntry(models.EntryTypePositive, "short one")
	res := Evaluate(ms, short, 1, nil)
	assert.Zero(t, res.Missions[0].Progress)

	long := singleEntry(models.EntryTypePositive, strings.Repeat("x", models.MinDetailedReasonLen))
	res = Evaluate(res.Missions, long, 2, nil)
	assert.Equal(t, 1, res.Missions[0].Progress)

	res = Evaluate(res.Missions, long, 3, nil)
	assert.True(t, res.Missions[0].Completed)
	assert.Equal(t, 3, res.Bonus)
}

func TestEvaluate_DoesNotMutateInput(t *testing.T) {
	ms := []models.Mission{{ID: "m1", Target: 1, Condition: models.ConditionTotalScore, Reward: 1}}

	_ = Evaluate(ms, singleEntry(models.EntryTypePositive, "r"), 5, nil)

	assert.False(t, ms[0].Completed)
	assert.Zero(t, ms[0].Progress)
}

func TestDelete(t *testing.T) {
	ms := []models.Mission{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	out, err := Delete(ms, "b")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "c", out[1].ID)

	_, err = Delete(out, "b")
	require.ErrorIs(t, err, common.ErrMissionNotFound)
}
