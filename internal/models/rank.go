package models

// RankGroupBy selects the partition key for ranking.
type RankGroupBy string

const (
	RankByCenter RankGroupBy = "center"
	RankByCourse RankGroupBy = "course"
)

// Valid returns true when the grouping key is supported.
func (g RankGroupBy) Valid() bool {
	return g == RankByCenter || g == RankByCourse
}

// UnknownGroupKey collects students whose partition field is empty.
const UnknownGroupKey = "Unknown"

// RankEntry is a student's standing within one rank group. Derived on demand
// from a score snapshot, never persisted.
type RankEntry struct {
	StudentID int64  `json:"studentId"`
	GroupKey  string `json:"groupKey"`
	Rank      int    `json:"rank"`
	GroupSize int    `json:"groupSize"`
}

// LeaderboardEntry is one ordered row of a group's full standing.
type LeaderboardEntry struct {
	Rank      int    `json:"rank"`
	StudentID int64  `json:"studentId"`
	FullName  string `json:"fullName"`
	Score     int    `json:"score"`
}
