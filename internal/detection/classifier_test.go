package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClassifierRejectsBadThresholds(t *testing.T) {
	_, err := NewClassifier(Thresholds{High: 0.3, Low: 0.6})
	assert.Error(t, err)

	_, err = NewClassifier(Thresholds{High: 0.5, Low: 0.5})
	assert.Error(t, err)

	_, err = NewClassifier(DefaultThresholds())
	assert.NoError(t, err)
}

func TestVerdictTiers(t *testing.T) {
	c, err := NewClassifier(DefaultThresholds())
	require.NoError(t, err)

	assert.Equal(t, VerdictHighRisk, c.Verdict(0.9))
	assert.Equal(t, VerdictHighRisk, c.Verdict(0.6), "high threshold is inclusive")
	assert.Equal(t, VerdictSuspicious, c.Verdict(0.59))
	assert.Equal(t, VerdictSuspicious, c.Verdict(0.3), "low threshold is inclusive")
	assert.Equal(t, VerdictLegitimate, c.Verdict(0.29))
	assert.Equal(t, VerdictLegitimate, c.Verdict(0))
}

func TestClassifyRanksDeterministically(t *testing.T) {
	c, err := NewClassifier(DefaultThresholds())
	require.NoError(t, err)

	records := []ScoreRecord{
		{Sender: "c@x.com", Score: 0.5},
		{Sender: "a@x.com", Score: 0.7},
		{Sender: "b@x.com", Score: 0.5},
		{Sender: "d@x.com", Score: 0.1},
	}
	ranked := c.Classify(records)

	require.Len(t, ranked, 4)
	assert.Equal(t, "a@x.com", ranked[0].Sender)
	assert.Equal(t, "b@x.com", ranked[1].Sender, "equal scores order by sender")
	assert.Equal(t, "c@x.com", ranked[2].Sender)
	assert.Equal(t, "d@x.com", ranked[3].Sender)

	assert.Equal(t, VerdictHighRisk, ranked[0].Verdict)
	assert.Equal(t, VerdictSuspicious, ranked[1].Verdict)
	assert.Equal(t, VerdictSuspicious, ranked[2].Verdict)
	assert.Equal(t, VerdictLegitimate, ranked[3].Verdict)
}

func TestClassifyLeavesInputUntouched(t *testing.T) {
	c, err := NewClassifier(DefaultThresholds())
	require.NoError(t, err)

	records := []ScoreRecord{
		{Sender: "b@x.com", Score: 0.2},
		{Sender: "a@x.com", Score: 0.8},
	}
	_ = c.Classify(records)

	assert.Equal(t, "b@x.com", records[0].Sender)
	assert.Empty(t, records[0].Verdict)
}

func TestTopN(t *testing.T) {
	c, err := NewClassifier(DefaultThresholds())
	require.NoError(t, err)

	ranked := c.Classify([]ScoreRecord{
		{Sender: "a@x.com", Score: 0.9},
		{Sender: "b@x.com", Score: 0.5},
		{Sender: "c@x.com", Score: 0.1},
	})

	top := c.TopN(ranked, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "a@x.com", top[0].Sender)
	assert.Equal(t, "b@x.com", top[1].Sender)

	assert.Len(t, c.TopN(ranked, 10), 3)
	assert.Empty(t, c.TopN(ranked, 0))
	assert.Empty(t, c.TopN(ranked, -1))
}

func TestSummaryTallies(t *testing.T) {
	c, err := NewClassifier(DefaultThresholds())
	require.NoError(t, err)

	ranked := c.Classify([]ScoreRecord{
		{Sender: "a@x.com", Score: 0.95},
		{Sender: "b@x.com", Score: 0.61},
		{Sender: "c@x.com", Score: 0.4},
		{Sender: "d@x.com", Score: 0.05},
	})
	summary := c.Summary(ranked)

	assert.Equal(t, ClassificationSummary{
		HighRisk:   2,
		Suspicious: 1,
		Legitimate: 1,
		Total:      4,
	}, summary)
}
