package models

import (
	"encoding/json"
	"fmt"
	"time"

	"hemicycle/internal/scoring"

	"gorm.io/datatypes"
)

const (
	SessionInProgress = "in_progress"
	SessionComplete   = "complete"
)

type QuizQuestion struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Type          string         `gorm:"size:16;not null" json:"type"` // dilemma, slider, ranking, citation
	Text          string         `gorm:"type:text;not null" json:"text"`
	OptionA       string         `json:"option_a,omitempty"`
	OptionB       string         `json:"option_b,omitempty"`
	Author        string         `json:"author,omitempty"` // citation only
	Axes          datatypes.JSON `json:"axes"`             // {"economie": 1, "social": 0.5}
	CitationScore *int           `json:"-"`
	SortOrder     int            `gorm:"default:0;index" json:"sort_order"`
	CreatedAt     time.Time      `json:"created_at"`
}

// ToScoring decodes the axis weights for the scoring package.
func (q QuizQuestion) ToScoring() (scoring.Question, error) {
	out := scoring.Question{
		ID:            q.ID,
		Type:          scoring.QuestionType(q.Type),
		CitationScore: q.CitationScore,
		Axes:          map[scoring.Axis]float64{},
	}
	if len(q.Axes) == 0 {
		return out, nil
	}
	var raw map[string]float64
	if err := json.Unmarshal(q.Axes, &raw); err != nil {
		return out, fmt.Errorf("question %d axes: %w", q.ID, err)
	}
	for name, w := range raw {
		a, ok := scoring.ParseAxis(name)
		if !ok {
			return out, fmt.Errorf("question %d: unknown axis %q", q.ID, name)
		}
		out.Axes[a] = w
	}
	return out, nil
}

type QuizSession struct {
	ID          uint           `gorm:"primaryKey" json:"-"`
	Token       string         `gorm:"size:36;uniqueIndex;not null" json:"token"`
	Status      string         `gorm:"size:16;not null;default:'in_progress'" json:"status"`
	Scores      datatypes.JSON `json:"scores,omitempty"`
	Priorities  datatypes.JSON `json:"priorities,omitempty"`
	Profile     string         `json:"profile,omitempty"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type QuizAnswer struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	SessionID  uint           `gorm:"not null;uniqueIndex:idx_answer_session_question" json:"-"`
	QuestionID uint           `gorm:"not null;uniqueIndex:idx_answer_session_question" json:"question_id"`
	Choice     string         `gorm:"size:8" json:"choice,omitempty"`
	Value      *int           `json:"value,omitempty"`
	Ranking    datatypes.JSON `json:"ranking,omitempty"`
	Agree      string         `gorm:"size:8" json:"agree,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// ToScoring decodes the stored answer for the scoring package.
func (a QuizAnswer) ToScoring() (scoring.Answer, error) {
	out := scoring.Answer{
		QuestionID: a.QuestionID,
		Choice:     a.Choice,
		Value:      a.Value,
		Agree:      a.Agree,
	}
	if len(a.Ranking) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(a.Ranking, &out.Ranking); err != nil {
		return out, fmt.Errorf("answer %d ranking: %w", a.ID, err)
	}
	return out, nil
}

// MatchResult is one candidate's match against a completed session.
type MatchResult struct {
	ID          uint           `gorm:"primaryKey" json:"-"`
	SessionID   uint           `gorm:"not null;uniqueIndex:idx_match_session_candidate" json:"-"`
	CandidateID uint           `gorm:"not null;uniqueIndex:idx_match_session_candidate" json:"candidate_id"`
	MatchScore  int            `gorm:"not null;index" json:"match_score"`
	Similarity  datatypes.JSON `json:"per_axis_similarity"`
	Strengths   datatypes.JSON `json:"strengths"`
	Divergences datatypes.JSON `json:"divergences"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ToScoring decodes the stored match. Empty columns decode to empty values.
func (m MatchResult) ToScoring() (scoring.Match, error) {
	out := scoring.Match{CandidateID: m.CandidateID, Score: m.MatchScore}
	for _, f := range []struct {
		name string
		raw  datatypes.JSON
		dst  interface{}
	}{
		{"similarity", m.Similarity, &out.Similarity},
		{"strengths", m.Strengths, &out.Strengths},
		{"divergences", m.Divergences, &out.Divergences},
	} {
		if len(f.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(f.raw, f.dst); err != nil {
			return out, fmt.Errorf("match %d %s: %w", m.ID, f.name, err)
		}
	}
	return out, nil
}
