package grading

// SubjectStatistics summarises eligible totals for one subject within a
// class-term. The zero value doubles as the documented empty-set convention:
// no eligible records means all four fields are zero, never NaN or null.
type SubjectStatistics struct {
	TotalStudents int     `json:"total_students"`
	Lowest        float64 `json:"lowest"`
	Highest       float64 `json:"highest"`
	Average       float64 `json:"average"`
}

// SubjectStatisticsFor computes count/min/max/mean over the eligible records
// of the given subject. Input ordering is irrelevant.
func SubjectStatisticsFor(records []Score, subjectID string) SubjectStatistics {
	var stats SubjectStatistics
	sum := 0.0
	for _, record := range records {
		if record.SubjectID != subjectID || !record.Eligible() {
			continue
		}
		total := record.Total()
		if stats.TotalStudents == 0 {
			stats.Lowest = total
			stats.Highest = total
		} else {
			if total < stats.Lowest {
				stats.Lowest = total
			}
			if total > stats.Highest {
				stats.Highest = total
			}
		}
		stats.TotalStudents++
		sum += total
	}
	if stats.TotalStudents > 0 {
		stats.Average = sum / float64(stats.TotalStudents)
	}
	return stats
}

// SubjectPositions ranks eligible students of a subject by total score and
// returns their competition positions keyed by student ID. Students without
// an eligible record for the subject do not appear in the map.
func SubjectPositions(records []Score, subjectID string) map[string]int {
	var entries []RankEntry
	for _, record := range records {
		if record.SubjectID != subjectID || !record.Eligible() {
			continue
		}
		entries = append(entries, RankEntry{ID: record.StudentID, Score: record.Total()})
	}
	positions := make(map[string]int, len(entries))
	for _, entry := range CompetitionRank(entries) {
		positions[entry.ID] = entry.Position
	}
	return positions
}
