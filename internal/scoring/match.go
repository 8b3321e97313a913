package scoring

import (
	"math"
	"sort"
)

const (
	maxAxisDistance     = MaxScore - MinScore
	StrengthThreshold   = 75
	DivergenceThreshold = 45
)

// Match compares a citizen vector with one candidate vector.
type Match struct {
	CandidateID uint           `json:"candidate_id"`
	Score       int            `json:"match_score"`
	Similarity  map[string]int `json:"per_axis_similarity"`
	Strengths   []string       `json:"strengths"`
	Divergences []string       `json:"divergences"`
}

// MatchCandidate computes the priority-weighted similarity between user and
// candidate. The overall score uses raw distances, not the rounded per-axis
// similarities.
func MatchCandidate(candidateID uint, user Vector, priorities Priorities, candidate Vector) Match {
	m := Match{
		CandidateID: candidateID,
		Similarity:  make(map[string]int, AxisCount),
		Strengths:   []string{},
		Divergences: []string{},
	}

	var weighted, maxWeighted float64
	for _, a := range AllAxes {
		distance := math.Abs(float64(user[a] - candidate[a]))
		p := float64(priorities[a])
		if p < MinPriority {
			p = MinPriority
		}
		weighted += distance * p
		maxWeighted += maxAxisDistance * p

		sim := int(math.Round(100 - distance/2))
		m.Similarity[a.String()] = sim
		switch {
		case sim >= StrengthThreshold:
			m.Strengths = append(m.Strengths, a.String())
		case sim < DivergenceThreshold:
			m.Divergences = append(m.Divergences, a.String())
		}
	}

	m.Score = int(math.Round(100 - 100*weighted/maxWeighted))
	return m
}

// SortMatches orders matches by descending score, then by candidate ID.
func SortMatches(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].CandidateID < matches[j].CandidateID
	})
}
