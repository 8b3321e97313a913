package scoring

import (
	"errors"
	"fmt"
)

type QuestionType string

const (
	QuestionDilemma  QuestionType = "dilemma"
	QuestionSlider   QuestionType = "slider"
	QuestionRanking  QuestionType = "ranking"
	QuestionCitation QuestionType = "citation"
)

const (
	ChoiceA    = "A"
	ChoiceB    = "B"
	ChoiceSkip = "skip"

	AgreeYes  = "yes"
	AgreeNo   = "no"
	AgreeSkip = "skip"
)

const (
	DefaultPriority      = 3
	MinPriority          = 1
	topRankPriority      = 5
	defaultCitationScore = 100
	sliderMin, sliderMax = 0, 100
	sliderMidpoint       = 50
)

var ErrInvalidAnswer = errors.New("invalid answer")

// Question is the scoring view of a quiz question.
type Question struct {
	ID            uint
	Type          QuestionType
	Axes          map[Axis]float64
	CitationScore *int
}

// Answer is a citizen's reply. Only the field matching the question type is read.
type Answer struct {
	QuestionID uint
	Choice     string
	Value      *int
	Ranking    []Axis
	Agree      string
}

// Priorities holds the per-axis weight used by matching.
type Priorities [AxisCount]int

func DefaultPriorities() Priorities {
	var p Priorities
	for i := range p {
		p[i] = DefaultPriority
	}
	return p
}

func (p Priorities) Map() map[string]int {
	out := make(map[string]int, AxisCount)
	for _, a := range AllAxes {
		out[a.String()] = p[a]
	}
	return out
}

// Validate checks that the answer has the shape the question type expects.
func (q Question) Validate(a Answer) error {
	switch q.Type {
	case QuestionDilemma:
		switch a.Choice {
		case ChoiceA, ChoiceB, ChoiceSkip:
			return nil
		}
		return fmt.Errorf("%w: dilemma choice must be A, B or skip", ErrInvalidAnswer)
	case QuestionSlider:
		if a.Value == nil || *a.Value < sliderMin || *a.Value > sliderMax {
			return fmt.Errorf("%w: slider value must be between %d and %d", ErrInvalidAnswer, sliderMin, sliderMax)
		}
		return nil
	case QuestionRanking:
		if len(a.Ranking) == 0 {
			return fmt.Errorf("%w: ranking must list at least one axis", ErrInvalidAnswer)
		}
		seen := make(map[Axis]bool, len(a.Ranking))
		for _, ax := range a.Ranking {
			if ax < 0 || int(ax) >= AxisCount {
				return fmt.Errorf("%w: unknown axis in ranking", ErrInvalidAnswer)
			}
			if seen[ax] {
				return fmt.Errorf("%w: axis %s ranked twice", ErrInvalidAnswer, ax)
			}
			seen[ax] = true
		}
		return nil
	case QuestionCitation:
		switch a.Agree {
		case AgreeYes, AgreeNo, AgreeSkip:
			return nil
		}
		return fmt.Errorf("%w: citation answer must be yes, no or skip", ErrInvalidAnswer)
	}
	return fmt.Errorf("%w: unknown question type %q", ErrInvalidAnswer, q.Type)
}

// Impact returns the signed value an answer carries before axis weighting.
// A skip counts as 0 and still weighs in the axis average. The boolean is
// false for ranking questions and malformed answers.
func (q Question) Impact(a Answer) (float64, bool) {
	switch q.Type {
	case QuestionDilemma:
		switch a.Choice {
		case ChoiceA:
			return -100, true
		case ChoiceB:
			return 100, true
		case ChoiceSkip:
			return 0, true
		}
	case QuestionSlider:
		if a.Value != nil {
			return float64((*a.Value - sliderMidpoint) * 2), true
		}
	case QuestionCitation:
		score := defaultCitationScore
		if q.CitationScore != nil {
			score = *q.CitationScore
		}
		switch a.Agree {
		case AgreeYes:
			return float64(score), true
		case AgreeNo:
			return float64(-score), true
		case AgreeSkip:
			return 0, true
		}
	}
	return 0, false
}

// UserProfile derives the citizen's vector and priorities from their answers.
// Answers to unknown questions are ignored. Ranking answers only set
// priorities: the first ranked axis gets 5, the next 4, and so on, never
// below MinPriority. A later ranking answer overrides an earlier one.
func UserProfile(questions map[uint]Question, answers []Answer) (Vector, Priorities) {
	var acc accumulator
	priorities := DefaultPriorities()

	for _, a := range answers {
		q, ok := questions[a.QuestionID]
		if !ok {
			continue
		}
		if q.Type == QuestionRanking {
			for i, ax := range a.Ranking {
				if ax < 0 || int(ax) >= AxisCount {
					continue
				}
				p := topRankPriority - i
				if p < MinPriority {
					p = MinPriority
				}
				priorities[ax] = p
			}
			continue
		}
		impact, ok := q.Impact(a)
		if !ok {
			continue
		}
		for ax, weight := range q.Axes {
			if ax < 0 || int(ax) >= AxisCount {
				continue
			}
			acc.add(ax, impact*weight)
		}
	}
	return acc.vector(), priorities
}
