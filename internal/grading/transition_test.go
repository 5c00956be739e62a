package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	assessments := []Score{
		score("s1", "math", 80),
		score("s1", "english", 35),
		score("s1", "civics", 41),
		{StudentID: "s1", SubjectID: "physics", Absent: true},
	}
	summary := Summarize(assessments, 40)
	assert.Equal(t, 3, summary.Offered)
	assert.Equal(t, 2, summary.Passed)
	assert.Equal(t, 1, summary.Failed)
	assert.InDelta(t, 66.666, summary.PassRate, 0.001)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, PassSummary{}, Summarize(nil, 40))
}

func TestDecideEligibility(t *testing.T) {
	cases := []struct {
		name     string
		average  float64
		passRate float64
		failed   int
		passMark float64
		eligible bool
		reason   string
	}{
		{
			name:    "meets all criteria",
			average: 45, passRate: 60, failed: 1, passMark: 40,
			eligible: true, reason: "Excellent performance - meets all criteria",
		},
		{
			name:    "good with few failures",
			average: 35, passRate: 45, failed: 2, passMark: 40,
			eligible: true, reason: "Good performance - acceptable with few failures",
		},
		{
			name:    "high pass rate overrides average",
			average: 25, passRate: 75, failed: 4, passMark: 40,
			eligible: true, reason: "High pass rate - eligible despite lower average",
		},
		{
			name:    "below minimum average",
			average: 20, passRate: 30, failed: 5, passMark: 40,
			eligible: false, reason: "Below minimum average score requirement",
		},
		{
			name:    "too many failures",
			average: 30, passRate: 45, failed: 4, passMark: 40,
			eligible: false, reason: "Too many failed subjects",
		},
		{
			name:    "low pass rate",
			average: 30, passRate: 35, failed: 3, passMark: 40,
			eligible: false, reason: "Low pass rate - needs improvement",
		},
		{
			name:    "generic rejection",
			average: 30, passRate: 45, failed: 3, passMark: 40,
			eligible: false, reason: "Does not meet transition criteria",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := DecideEligibility(tc.average, tc.passRate, tc.failed, tc.passMark)
			assert.Equal(t, tc.eligible, result.Eligible)
			assert.Equal(t, tc.reason, result.Reason)
		})
	}
}

func TestDecideEligibilityRuleOrder(t *testing.T) {
	// Rules 1 and 3 both match; rule 1 must win.
	result := DecideEligibility(50, 80, 0, 40)
	assert.True(t, result.Eligible)
	assert.Equal(t, "Excellent performance - meets all criteria", result.Reason)
}
