package grading

// Score holds one assessment record for a (student, subject) pair within a
// class-term: up to three continuous-assessment components plus an exam
// component. Components left unrecorded stay nil and count as zero.
type Score struct {
	StudentID string
	SubjectID string
	CA1       *float64
	CA2       *float64
	CA3       *float64
	Exam      *float64
	Absent    bool
	Exempt    bool
}

// Total sums the recorded components. The engine is weight-agnostic; the
// conventional 10/10/10/70 split is a data-entry concern, not enforced here.
func (s Score) Total() float64 {
	total := 0.0
	for _, component := range []*float64{s.CA1, s.CA2, s.CA3, s.Exam} {
		if component != nil {
			total += *component
		}
	}
	return total
}

// Eligible reports whether the record participates in statistics and ranking.
// Absent and exempt records never yield a numeric total, grade, or position.
func (s Score) Eligible() bool {
	return !s.Absent && !s.Exempt
}
