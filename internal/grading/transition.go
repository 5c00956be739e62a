package grading

// PassSummary counts a student's pass/fail split across eligible subjects.
type PassSummary struct {
	Offered  int     `json:"subjects_offered"`
	Passed   int     `json:"subjects_passed"`
	Failed   int     `json:"subjects_failed"`
	PassRate float64 `json:"pass_rate"`
}

// Summarize counts subjects passed against the pass mark. Only non-absent,
// non-exempt assessments count as offered; an empty set yields a zero
// summary.
func Summarize(assessments []Score, passMark float64) PassSummary {
	var summary PassSummary
	for _, assessment := range assessments {
		if !assessment.Eligible() {
			continue
		}
		summary.Offered++
		if assessment.Total() >= passMark {
			summary.Passed++
		} else {
			summary.Failed++
		}
	}
	if summary.Offered > 0 {
		summary.PassRate = float64(summary.Passed) / float64(summary.Offered) * 100
	}
	return summary
}

// Eligibility is the advisory outcome of the transition decision list. It
// informs, but does not enforce, whether an administrator executes a
// promotion, transfer, or withdrawal.
type Eligibility struct {
	Eligible bool   `json:"is_eligible"`
	Reason   string `json:"reason"`
}

// DecideEligibility evaluates the ordered decision list; the first matching
// rule wins, so rule order matters even though rules overlap.
func DecideEligibility(averageScore, passRate float64, failedSubjects int, passMark float64) Eligibility {
	switch {
	case averageScore >= passMark && passRate >= 50:
		return Eligibility{Eligible: true, Reason: "Excellent performance - meets all criteria"}
	case averageScore >= passMark*0.8 && failedSubjects <= 2:
		return Eligibility{Eligible: true, Reason: "Good performance - acceptable with few failures"}
	case passRate >= 70:
		return Eligibility{Eligible: true, Reason: "High pass rate - eligible despite lower average"}
	}

	switch {
	case averageScore < passMark*0.6:
		return Eligibility{Reason: "Below minimum average score requirement"}
	case failedSubjects > 3:
		return Eligibility{Reason: "Too many failed subjects"}
	case passRate < 40:
		return Eligibility{Reason: "Low pass rate - needs improvement"}
	}
	return Eligibility{Reason: "Does not meet transition criteria"}
}
