package grading

import (
	"errors"
	"sort"
)

// ErrNoBands signals a grading scale with an empty band list. Callers must
// surface this instead of falling back to a default letter.
var ErrNoBands = errors.New("grading scale has no bands")

// Band maps an inclusive score range to a letter grade and remark.
type Band struct {
	Min    float64 `json:"min_score"`
	Max    float64 `json:"max_score"`
	Grade  string  `json:"grade"`
	Remark string  `json:"remark"`
}

// Scale is a school's grading system: an ordered set of bands plus the pass
// mark used for pass-rate and eligibility computations.
type Scale struct {
	Bands    []Band  `json:"bands"`
	PassMark float64 `json:"pass_mark"`
}

// Grade is the outcome of a band lookup.
type Grade struct {
	Letter string `json:"grade"`
	Remark string `json:"remark"`
}

// DefaultScale returns the built-in 7-band fallback used when a school has no
// grading system configured. Substituting it is caller policy.
func DefaultScale() Scale {
	return Scale{
		PassMark: 40,
		Bands: []Band{
			{Min: 80, Max: 100, Grade: "A1", Remark: "Excellent"},
			{Min: 70, Max: 79, Grade: "A2", Remark: "Very Good"},
			{Min: 60, Max: 69, Grade: "B1", Remark: "Good"},
			{Min: 50, Max: 59, Grade: "B2", Remark: "Fair"},
			{Min: 45, Max: 49, Grade: "C1", Remark: "Pass"},
			{Min: 40, Max: 44, Grade: "C2", Remark: "Weak Pass"},
			{Min: 0, Max: 39, Grade: "F", Remark: "Fail"},
		},
	}
}

// Validate checks the scale satisfies the engine's precondition.
func (s Scale) Validate() error {
	if len(s.Bands) == 0 {
		return ErrNoBands
	}
	return nil
}

// Resolve maps a score to its band. ok is false when no band covers the score
// (the ungraded outcome, which downstream code renders distinctly rather than
// coercing to a letter). Band order in the slice is irrelevant: the lookup
// always scans in Min-descending order so overlapping bands resolve
// deterministically.
func (s Scale) Resolve(score float64) (Grade, bool, error) {
	if err := s.Validate(); err != nil {
		return Grade{}, false, err
	}
	bands := make([]Band, len(s.Bands))
	copy(bands, s.Bands)
	sort.SliceStable(bands, func(i, j int) bool { return bands[i].Min > bands[j].Min })
	for _, band := range bands {
		if score >= band.Min && score <= band.Max {
			return Grade{Letter: band.Grade, Remark: band.Remark}, true, nil
		}
	}
	return Grade{}, false, nil
}
