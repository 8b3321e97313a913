package services

import (
	"context"
	"fmt"

	"hemicycle/internal/logger"
	"hemicycle/internal/models"
	"hemicycle/internal/scoring"

	"gorm.io/gorm"
)

// CoherenceVoteLimit bounds how many recent votes are compared with positions.
const CoherenceVoteLimit = 500

// CoherenceService cross-checks declared positions against the linked
// legislator's voting record and flags contradictions on the positions.
type CoherenceService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCoherenceService(db *gorm.DB, baseLog *logger.Logger) *CoherenceService {
	return &CoherenceService{db: db, log: baseLog.With("service", "CoherenceService")}
}

// Check scores the candidate's programme and declaration positions against
// votes (most recent first). Contradicted positions are marked incoherent
// with an explanation naming the most recent contradicting ballot. Flags
// are never reset to coherent.
func (s *CoherenceService) Check(ctx context.Context, candidate *models.Candidate, votes []scoring.CastVote) (scoring.CoherenceReport, error) {
	if candidate.LegislatorID == nil {
		return scoring.CoherenceReport{Score: 100}, nil
	}
	if len(votes) > CoherenceVoteLimit {
		votes = votes[:CoherenceVoteLimit]
	}

	var positions []models.Position
	if err := s.db.WithContext(ctx).
		Where("candidate_id = ? AND source_type IN ?", candidate.ID, []string{models.SourceProgramme, models.SourceDeclaration}).
		Order("id ASC").
		Find(&positions).Error; err != nil {
		return scoring.CoherenceReport{}, fmt.Errorf("load positions: %w", err)
	}

	inputs := make([]scoring.CoherencePosition, 0, len(positions))
	byID := make(map[uint]models.Position, len(positions))
	for _, p := range positions {
		inputs = append(inputs, scoring.CoherencePosition{ID: p.ID, Subject: p.Subject, Score: p.Score})
		byID[p.ID] = p
	}

	report := scoring.CheckCoherence(inputs, votes)

	flagged := make(map[uint]bool)
	for _, c := range report.Contradictions {
		if flagged[c.PositionID] {
			continue
		}
		flagged[c.PositionID] = true
		p := byID[c.PositionID]
		explanation := explainContradiction(p, c)
		if err := s.db.WithContext(ctx).Model(&models.Position{}).
			Where("id = ?", c.PositionID).
			Updates(map[string]interface{}{"coherent": false, "explanation": explanation}).Error; err != nil {
			return report, fmt.Errorf("flag position %d: %w", c.PositionID, err)
		}
	}

	s.log.Debug("coherence checked",
		"candidate_id", candidate.ID,
		"coherent", report.Coherent,
		"incoherent", report.Incoherent,
		"score", report.Score,
	)
	return report, nil
}

func explainContradiction(p models.Position, c scoring.Contradiction) string {
	vote := models.VoteContre
	if c.VotedFor {
		vote = models.VotePour
	}
	return fmt.Sprintf("Position déclarée %+d sur « %s », mais vote « %s » au scrutin « %s ».",
		p.Score, p.Subject, vote, c.BallotTitle)
}
