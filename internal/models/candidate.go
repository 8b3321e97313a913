package models

import (
	"time"

	"hemicycle/internal/scoring"

	"gorm.io/datatypes"
)

const (
	IngestionPending    = "pending"
	IngestionProcessing = "processing"
	IngestionReady      = "ready"
	IngestionPublished  = "published"
)

const (
	SourceProgramme   = "programme"
	SourceDeclaration = "declaration"
	SourceVote        = "vote"
)

func ValidSourceType(s string) bool {
	return s == SourceProgramme || s == SourceDeclaration || s == SourceVote
}

// Candidate is a 2027 presidential candidate, optionally linked to a sitting legislator.
type Candidate struct {
	ID                 uint        `gorm:"primaryKey" json:"id"`
	FirstName          string      `gorm:"not null" json:"first_name"`
	LastName           string      `gorm:"not null" json:"last_name"`
	Party              string      `json:"party"`
	LegislatorID       *uint       `gorm:"uniqueIndex" json:"legislator_id"`
	Legislator         *Legislator `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"legislator,omitempty"`
	ScoreEconomie      int         `gorm:"default:0" json:"score_economie"`
	ScoreSocial        int         `gorm:"default:0" json:"score_social"`
	ScoreEcologie      int         `gorm:"default:0" json:"score_ecologie"`
	ScoreSecurite      int         `gorm:"default:0" json:"score_securite"`
	ScoreEurope        int         `gorm:"default:0" json:"score_europe"`
	ScoreImmigration   int         `gorm:"default:0" json:"score_immigration"`
	ScoreInstitutions  int         `gorm:"default:0" json:"score_institutions"`
	ScoreInternational int         `gorm:"default:0" json:"score_international"`
	ScoreType          string      `gorm:"size:16;default:'estimated'" json:"score_type"`
	CoherenceScore     int         `gorm:"default:100" json:"coherence_score"`
	VotesAnalyzed      int         `gorm:"default:0" json:"votes_analyzed"`
	IngestionStatus    string      `gorm:"size:16;default:'pending';index" json:"ingestion_status"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`

	Positions []Position `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"positions,omitempty"`
}

// Scores returns the stored axis columns as a vector.
func (c Candidate) Scores() scoring.Vector {
	var v scoring.Vector
	v[scoring.Economie] = c.ScoreEconomie
	v[scoring.Social] = c.ScoreSocial
	v[scoring.Ecologie] = c.ScoreEcologie
	v[scoring.Securite] = c.ScoreSecurite
	v[scoring.Europe] = c.ScoreEurope
	v[scoring.Immigration] = c.ScoreImmigration
	v[scoring.Institutions] = c.ScoreInstitutions
	v[scoring.International] = c.ScoreInternational
	return v
}

// ScoreColumns maps a vector onto the column names used for updates.
func ScoreColumns(v scoring.Vector) map[string]interface{} {
	return map[string]interface{}{
		"score_economie":      v[scoring.Economie],
		"score_social":        v[scoring.Social],
		"score_ecologie":      v[scoring.Ecologie],
		"score_securite":      v[scoring.Securite],
		"score_europe":        v[scoring.Europe],
		"score_immigration":   v[scoring.Immigration],
		"score_institutions":  v[scoring.Institutions],
		"score_international": v[scoring.International],
	}
}

// Position is a stance declared by a candidate (programme, interview, vote).
type Position struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CandidateID uint      `gorm:"not null;index" json:"candidate_id"`
	Subject     string    `gorm:"not null" json:"subject"`
	Axis        string    `gorm:"size:32;not null" json:"axis"`
	Score       int       `gorm:"not null" json:"score"` // signed, -100..100
	SourceType  string    `gorm:"size:16;not null" json:"source_type"`
	SourceURL   string    `json:"source_url"`
	Coherent    bool      `gorm:"default:true" json:"coherent"`
	Explanation string    `gorm:"type:text" json:"explanation"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

const (
	LogStarted   = "started"
	LogCompleted = "completed"
	LogFailed    = "failed"
)

// IngestionLog is the audit trail of score computations for a candidate.
type IngestionLog struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CandidateID uint           `gorm:"not null;index" json:"candidate_id"`
	Status      string         `gorm:"size:16;not null" json:"status"`
	Error       string         `gorm:"type:text" json:"error"`
	Snapshot    datatypes.JSON `json:"snapshot"`
	StartedAt   time.Time      `json:"started_at"`
	FinishedAt  *time.Time     `json:"finished_at"`
}
