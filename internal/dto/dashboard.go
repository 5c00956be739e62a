package dto

// SchoolDashboardResponse aggregates the admin landing-page counters and the
// per-class performance leaderboard for a term.
type SchoolDashboardResponse struct {
	SchoolID      string              `json:"school_id"`
	TermID        string              `json:"term_id"`
	Counts        SchoolCounts        `json:"counts"`
	ClassAverages []ClassAverageEntry `json:"class_averages"`
}

// SchoolCounts holds headline entity counts for a school.
type SchoolCounts struct {
	Students int `json:"students"`
	Teachers int `json:"teachers"`
	Parents  int `json:"parents"`
	Classes  int `json:"classes"`
	Subjects int `json:"subjects"`
}

// ClassAverageEntry ranks a class-term by its mean assessment total.
type ClassAverageEntry struct {
	ClassTermID string  `json:"class_term_id"`
	ClassName   string  `json:"class_name"`
	Students    int     `json:"students"`
	Average     float64 `json:"average"`
}
