package grading

// Remarks used for subject rows without a gradable score.
const (
	RemarkAbsent   = "Absent"
	RemarkExempt   = "Exempt"
	RemarkNotTaken = "Not Taken"
)

// Aggregate is a student's term-level summary across their eligible subjects.
// Grade and Remark stay nil when the average resolves to no band (ungraded).
type Aggregate struct {
	TotalScore   float64 `json:"total_score"`
	AverageScore float64 `json:"average_score"`
	Grade        *string `json:"grade"`
	Remark       *string `json:"remark"`
	SubjectCount int     `json:"subject_count"`
}

// AggregateStudent folds a student's assessments into their total and average
// and resolves the overall grade. Absent and exempt assessments contribute
// nothing; with zero eligible subjects the average is 0 by convention.
func AggregateStudent(assessments []Score, scale Scale) (Aggregate, error) {
	if err := scale.Validate(); err != nil {
		return Aggregate{}, err
	}
	var agg Aggregate
	for _, assessment := range assessments {
		if !assessment.Eligible() {
			continue
		}
		agg.TotalScore += assessment.Total()
		agg.SubjectCount++
	}
	if agg.SubjectCount > 0 {
		agg.AverageScore = agg.TotalScore / float64(agg.SubjectCount)
	}
	grade, ok, err := scale.Resolve(agg.AverageScore)
	if err != nil {
		return Aggregate{}, err
	}
	if ok {
		agg.Grade = &grade.Letter
		agg.Remark = &grade.Remark
	}
	return agg, nil
}

// ClassPositions ranks students of a class-term by average score using the
// shared competition-rank routine. A student with zero gradable subjects
// carries an average of 0 and ranks alongside genuinely zero-scoring peers.
func ClassPositions(averages map[string]float64) map[string]int {
	entries := make([]RankEntry, 0, len(averages))
	for studentID, average := range averages {
		entries = append(entries, RankEntry{ID: studentID, Score: average})
	}
	positions := make(map[string]int, len(entries))
	for _, entry := range CompetitionRank(entries) {
		positions[entry.ID] = entry.Position
	}
	return positions
}

// SubjectRow is the per-subject display record of a student report: every
// numeric field is nil when the student has no gradable score for the
// subject, and Remark distinguishes why (absent, exempt, or no record).
type SubjectRow struct {
	SubjectID string   `json:"subject_id"`
	Score     *float64 `json:"score"`
	Grade     *string  `json:"grade"`
	Remark    *string  `json:"remark"`
	Position  *int     `json:"position"`
	OutOf     *int     `json:"out_of"`
	Lowest    *float64 `json:"lowest"`
	Highest   *float64 `json:"highest"`
	Average   *float64 `json:"average"`
}

// SubjectRows builds display records for a student across the given subjects.
// own holds the student's assessments; peers holds the full class-term
// assessment set (the student's rows included) from which per-subject
// statistics and positions are derived. An ungraded total keeps Grade nil and
// falls back to no remark rather than a fabricated letter.
func SubjectRows(subjectIDs []string, own []Score, peers []Score, scale Scale) ([]SubjectRow, error) {
	if err := scale.Validate(); err != nil {
		return nil, err
	}
	bySubject := make(map[string]Score, len(own))
	for _, assessment := range own {
		bySubject[assessment.SubjectID] = assessment
	}

	rows := make([]SubjectRow, 0, len(subjectIDs))
	for _, subjectID := range subjectIDs {
		row := SubjectRow{SubjectID: subjectID}
		assessment, recorded := bySubject[subjectID]
		switch {
		case !recorded:
			row.Remark = strPtr(RemarkNotTaken)
		case assessment.Absent:
			row.Remark = strPtr(RemarkAbsent)
		case assessment.Exempt:
			row.Remark = strPtr(RemarkExempt)
		default:
			total := assessment.Total()
			row.Score = &total
			grade, ok, err := scale.Resolve(total)
			if err != nil {
				return nil, err
			}
			if ok {
				row.Grade = &grade.Letter
				row.Remark = &grade.Remark
			}
			stats := SubjectStatisticsFor(peers, subjectID)
			row.OutOf = &stats.TotalStudents
			row.Lowest = &stats.Lowest
			row.Highest = &stats.Highest
			row.Average = &stats.Average
			if position, ranked := SubjectPositions(peers, subjectID)[assessment.StudentID]; ranked {
				row.Position = &position
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func strPtr(s string) *string {
	return &s
}
