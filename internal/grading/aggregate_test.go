package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateStudent(t *testing.T) {
	assessments := []Score{
		score("s1", "math", 80),
		score("s1", "english", 60),
		{StudentID: "s1", SubjectID: "physics", Absent: true},
	}
	agg, err := AggregateStudent(assessments, DefaultScale())
	require.NoError(t, err)
	assert.Equal(t, 140.0, agg.TotalScore)
	assert.Equal(t, 2, agg.SubjectCount)
	assert.InDelta(t, 70.0, agg.AverageScore, 1e-9)
	require.NotNil(t, agg.Grade)
	assert.Equal(t, "A2", *agg.Grade)
	assert.Equal(t, "Very Good", *agg.Remark)
}

func TestAggregateStudentNoEligibleSubjects(t *testing.T) {
	agg, err := AggregateStudent([]Score{{StudentID: "s1", SubjectID: "math", Exempt: true}}, DefaultScale())
	require.NoError(t, err)
	assert.Zero(t, agg.SubjectCount)
	assert.Zero(t, agg.AverageScore)
	// average 0 still resolves against the scale (F band in the fallback)
	require.NotNil(t, agg.Grade)
	assert.Equal(t, "F", *agg.Grade)
}

func TestAggregateStudentIdempotent(t *testing.T) {
	assessments := []Score{score("s1", "math", 73), score("s1", "english", 55)}
	first, err := AggregateStudent(assessments, DefaultScale())
	require.NoError(t, err)
	second, err := AggregateStudent(assessments, DefaultScale())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAggregateStudentEmptyScale(t *testing.T) {
	_, err := AggregateStudent(nil, Scale{})
	assert.ErrorIs(t, err, ErrNoBands)
}

func TestClassPositions(t *testing.T) {
	positions := ClassPositions(map[string]float64{
		"a": 88.5,
		"b": 72.0,
		"c": 72.0,
		"d": 40.0,
		"e": 0, // zero gradable subjects ranks at zero
	})
	assert.Equal(t, 1, positions["a"])
	assert.Equal(t, 2, positions["b"])
	assert.Equal(t, 2, positions["c"])
	assert.Equal(t, 4, positions["d"])
	assert.Equal(t, 5, positions["e"])
}

func TestSubjectRows(t *testing.T) {
	peers := []Score{
		score("s1", "math", 90),
		score("s2", "math", 80),
		score("s3", "math", 80),
		score("s4", "math", 70),
		score("s1", "english", 45),
	}
	own := []Score{
		score("s2", "math", 80),
		{StudentID: "s2", SubjectID: "english", Absent: true},
	}
	rows, err := SubjectRows([]string{"math", "english", "civics"}, own, peers, DefaultScale())
	require.NoError(t, err)
	require.Len(t, rows, 3)

	math := rows[0]
	require.NotNil(t, math.Score)
	assert.Equal(t, 80.0, *math.Score)
	require.NotNil(t, math.Grade)
	assert.Equal(t, "A1", *math.Grade)
	require.NotNil(t, math.Position)
	assert.Equal(t, 2, *math.Position)
	require.NotNil(t, math.OutOf)
	assert.Equal(t, 4, *math.OutOf)
	assert.Equal(t, 70.0, *math.Lowest)
	assert.Equal(t, 90.0, *math.Highest)
	assert.Equal(t, 80.0, *math.Average)

	english := rows[1]
	assert.Nil(t, english.Score)
	assert.Nil(t, english.Grade)
	assert.Nil(t, english.Position)
	assert.Nil(t, english.OutOf)
	require.NotNil(t, english.Remark)
	assert.Equal(t, RemarkAbsent, *english.Remark)

	civics := rows[2]
	assert.Nil(t, civics.Score)
	require.NotNil(t, civics.Remark)
	assert.Equal(t, RemarkNotTaken, *civics.Remark)
}

func TestSubjectRowsExempt(t *testing.T) {
	own := []Score{{StudentID: "s1", SubjectID: "crs", Exempt: true}}
	rows, err := SubjectRows([]string{"crs"}, own, own, DefaultScale())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].Score)
	require.NotNil(t, rows[0].Remark)
	assert.Equal(t, RemarkExempt, *rows[0].Remark)
}

func TestSubjectRowsUngradedKeepsNilGrade(t *testing.T) {
	scale := Scale{PassMark: 40, Bands: []Band{{Min: 0, Max: 50, Grade: "P", Remark: "Pass"}}}
	own := []Score{score("s1", "math", 75)}
	rows, err := SubjectRows([]string{"math"}, own, own, scale)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].Grade, "ungraded totals must not fabricate a letter")
	assert.Nil(t, rows[0].Remark)
	require.NotNil(t, rows[0].Score)
	assert.Equal(t, 75.0, *rows[0].Score)
}
