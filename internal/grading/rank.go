package grading

import "sort"

// RankEntry pairs an identifier with the score it is ranked on. Position is
// filled in by CompetitionRank.
type RankEntry struct {
	ID       string
	Score    float64
	Position int
}

// CompetitionRank assigns "1224"-style positions: entries sharing a score
// share the lower-numbered position and the sequence skips past the tie
// block. The relative order of tied entries is irrelevant to their position.
// This is the single ranking routine behind both per-subject positions and
// class positions.
func CompetitionRank(entries []RankEntry) []RankEntry {
	ranked := make([]RankEntry, len(entries))
	copy(ranked, entries)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	for i := range ranked {
		if i > 0 && ranked[i].Score == ranked[i-1].Score {
			ranked[i].Position = ranked[i-1].Position
			continue
		}
		ranked[i].Position = i + 1
	}
	return ranked
}
