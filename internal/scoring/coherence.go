package scoring

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinSubjectWordLen is the rune length from which a single subject word is
// enough to tie a ballot to a position.
const MinSubjectWordLen = 5

// voteDerivedScore is the signed score implied by a for/against vote.
const voteDerivedScore = 50

// CoherencePosition is a declared position to check against votes.
type CoherencePosition struct {
	ID      uint
	Subject string
	Score   int
}

// Contradiction records one vote that disagrees with a declared position.
type Contradiction struct {
	PositionID  uint
	BallotTitle string
	VotedFor    bool
}

// CoherenceReport is the outcome of a coherence check.
type CoherenceReport struct {
	Score          int
	Coherent       int
	Incoherent     int
	Contradictions []Contradiction
}

// CheckCoherence compares each position with the votes whose ballot title
// mentions its subject. Positions without any matching vote are skipped.
// With nothing comparable the score is 100.
func CheckCoherence(positions []CoherencePosition, votes []CastVote) CoherenceReport {
	report := CoherenceReport{}
	for _, p := range positions {
		matcher := newSubjectMatcher(p.Subject)
		for _, v := range votes {
			if !matcher.matches(v.BallotTitle) {
				continue
			}
			derived := -voteDerivedScore
			if v.For {
				derived = voteDerivedScore
			}
			if sign(p.Score) == sign(derived) {
				report.Coherent++
				continue
			}
			report.Incoherent++
			report.Contradictions = append(report.Contradictions, Contradiction{
				PositionID:  p.ID,
				BallotTitle: v.BallotTitle,
				VotedFor:    v.For,
			})
		}
	}

	total := report.Coherent + report.Incoherent
	if total == 0 {
		report.Score = 100
		return report
	}
	report.Score = int(math.Round(100 * float64(report.Coherent) / float64(total)))
	return report
}

type subjectMatcher struct {
	subject string
	words   []string
}

func newSubjectMatcher(subject string) subjectMatcher {
	lower := strings.ToLower(strings.TrimSpace(subject))
	m := subjectMatcher{subject: lower}
	for _, w := range strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if utf8.RuneCountInString(w) >= MinSubjectWordLen {
			m.words = append(m.words, w)
		}
	}
	return m
}

func (m subjectMatcher) matches(title string) bool {
	if m.subject == "" {
		return false
	}
	lower := strings.ToLower(title)
	if strings.Contains(lower, m.subject) {
		return true
	}
	for _, w := range m.words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}
