package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	VotePour       = "pour"
	VoteContre     = "contre"
	VoteAbstention = "abstention"
	VoteAbsent     = "absent"
)

func ValidVotePosition(p string) bool {
	switch p {
	case VotePour, VoteContre, VoteAbstention, VoteAbsent:
		return true
	}
	return false
}

const (
	OutcomeAdopte = "adopte"
	OutcomeRejete = "rejete"
)

// Ballot is one scrutin. Counts and tags come from the source dump and are
// never recomputed from the Vote rows.
type Ballot struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Chamber      Chamber        `gorm:"size:16;not null;uniqueIndex:idx_ballot_number_chamber" json:"chamber"`
	Number       int            `gorm:"not null;uniqueIndex:idx_ballot_number_chamber" json:"number"`
	Date         time.Time      `gorm:"not null;index" json:"date"`
	Title        string         `gorm:"type:text;not null" json:"title"`
	Outcome      string         `gorm:"size:16" json:"outcome"`
	VoteType     string         `gorm:"size:64" json:"vote_type"` // ordinaire, solennel, motion...
	ForCount     int            `gorm:"default:0" json:"for_count"`
	AgainstCount int            `gorm:"default:0" json:"against_count"`
	AbstainCount int            `gorm:"default:0" json:"abstain_count"`
	TotalCount   int            `gorm:"default:0" json:"total_count"`
	Tags         datatypes.JSON `json:"tags"`
	Importance   int            `gorm:"default:1" json:"importance"` // 1-5
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`

	Votes []Vote `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"votes,omitempty"`
}

// Vote is one legislator's position on one ballot; at most one per pair.
type Vote struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	LegislatorID uint        `gorm:"not null;uniqueIndex:idx_vote_legislator_ballot" json:"legislator_id"`
	BallotID     uint        `gorm:"not null;uniqueIndex:idx_vote_legislator_ballot;index" json:"ballot_id"`
	Position     string      `gorm:"size:16;not null;index" json:"position"` // pour, contre, abstention, absent
	Delegated    bool        `gorm:"default:false" json:"delegated"`
	Legislator   *Legislator `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"legislator,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}
