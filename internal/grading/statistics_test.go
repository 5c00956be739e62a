package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func score(studentID, subjectID string, total float64) Score {
	return Score{StudentID: studentID, SubjectID: subjectID, Exam: &total}
}

func TestScoreTotalTreatsNilAsZero(t *testing.T) {
	ca := 8.0
	exam := 61.0
	assert.Equal(t, 69.0, Score{CA1: &ca, Exam: &exam}.Total())
	assert.Equal(t, 0.0, Score{}.Total())
}

func TestSubjectStatistics(t *testing.T) {
	records := []Score{
		score("s1", "math", 90),
		score("s2", "math", 40),
		score("s3", "math", 65),
		score("s4", "english", 99),
	}
	stats := SubjectStatisticsFor(records, "math")
	assert.Equal(t, 3, stats.TotalStudents)
	assert.Equal(t, 40.0, stats.Lowest)
	assert.Equal(t, 90.0, stats.Highest)
	assert.InDelta(t, 65.0, stats.Average, 1e-9)
}

func TestSubjectStatisticsEmptySet(t *testing.T) {
	assert.Equal(t, SubjectStatistics{}, SubjectStatisticsFor(nil, "math"))
}

func TestSubjectStatisticsExcludesAbsentAndExempt(t *testing.T) {
	high := 95.0
	records := []Score{
		score("s1", "math", 50),
		{StudentID: "s2", SubjectID: "math", Exam: &high, Absent: true},
		{StudentID: "s3", SubjectID: "math", Exam: &high, Exempt: true},
	}
	stats := SubjectStatisticsFor(records, "math")
	assert.Equal(t, 1, stats.TotalStudents)
	assert.Equal(t, 50.0, stats.Highest)

	positions := SubjectPositions(records, "math")
	require.Len(t, positions, 1)
	assert.Equal(t, 1, positions["s1"])
	_, ranked := positions["s2"]
	assert.False(t, ranked)
}

func TestCompetitionRankSkipsAfterTies(t *testing.T) {
	entries := []RankEntry{
		{ID: "a", Score: 90},
		{ID: "b", Score: 80},
		{ID: "c", Score: 80},
		{ID: "d", Score: 70},
	}
	byID := map[string]int{}
	for _, entry := range CompetitionRank(entries) {
		byID[entry.ID] = entry.Position
	}
	assert.Equal(t, map[string]int{"a": 1, "b": 2, "c": 2, "d": 4}, byID)
}

func TestCompetitionRankTieOrderIrrelevant(t *testing.T) {
	forward := CompetitionRank([]RankEntry{{ID: "x", Score: 80}, {ID: "y", Score: 80}})
	backward := CompetitionRank([]RankEntry{{ID: "y", Score: 80}, {ID: "x", Score: 80}})
	for _, ranked := range [][]RankEntry{forward, backward} {
		for _, entry := range ranked {
			assert.Equal(t, 1, entry.Position)
		}
	}
}

func TestSubjectPositionsUnorderedInput(t *testing.T) {
	records := []Score{
		score("low", "math", 10),
		score("top", "math", 95),
		score("mid", "math", 60),
	}
	positions := SubjectPositions(records, "math")
	assert.Equal(t, 1, positions["top"])
	assert.Equal(t, 2, positions["mid"])
	assert.Equal(t, 3, positions["low"])
}
