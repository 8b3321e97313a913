package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hemicycle/internal/cache"
	"hemicycle/internal/logger"
	"hemicycle/internal/models"
	"hemicycle/internal/scoring"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ScoringVoteLimit bounds the vote history fetched for axis scoring.
const ScoringVoteLimit = 2000

// CandidateScoreResult is what a scoring run stored on the candidate.
type CandidateScoreResult struct {
	CandidateID    uint              `json:"candidate_id"`
	Scores         scoring.Vector    `json:"scores"`
	CoherenceScore int               `json:"coherence_score"`
	ScoreType      scoring.ScoreType `json:"score_type"`
	VotesAnalyzed  int               `json:"votes_analyzed"`
	Source         string            `json:"source"` // votes or positions
}

type CandidateScoreService struct {
	db        *gorm.DB
	scorer    *scoring.Scorer
	coherence *CoherenceService
	cache     *cache.Cache
	log       *logger.Logger
}

func NewCandidateScoreService(db *gorm.DB, scorer *scoring.Scorer, coherence *CoherenceService, c *cache.Cache, baseLog *logger.Logger) *CandidateScoreService {
	return &CandidateScoreService{
		db:        db,
		scorer:    scorer,
		coherence: coherence,
		cache:     c,
		log:       baseLog.With("service", "CandidateScoreService"),
	}
}

// ComputeAndStore scores a candidate from their voting record, falling back
// to declared positions, runs the coherence check and persists everything.
// Each run is audited in IngestionLog. Failures are logged there and returned
// as *ComputationError; partial writes are left in place since a rerun
// overwrites them.
func (s *CandidateScoreService) ComputeAndStore(ctx context.Context, candidateID uint) (*CandidateScoreResult, error) {
	var candidate models.Candidate
	if err := s.db.WithContext(ctx).Preload("Positions").First(&candidate, candidateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("candidate", candidateID)
		}
		return nil, err
	}

	entry := models.IngestionLog{
		CandidateID: candidate.ID,
		Status:      models.LogStarted,
		StartedAt:   time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("create ingestion log: %w", err)
	}

	result, err := s.run(ctx, &candidate)
	if err != nil {
		s.finish(ctx, &entry, models.LogFailed, err.Error(), nil)
		s.log.Error("candidate scoring failed", "candidate_id", candidate.ID, "error", err)
		return nil, &ComputationError{CandidateID: candidate.ID, Err: err}
	}

	snapshot, _ := json.Marshal(result)
	s.finish(ctx, &entry, models.LogCompleted, "", snapshot)
	s.cache.Invalidate(ctx, CandidateCacheKey(candidate.ID), PublishedCandidatesKey)

	s.log.Info("candidate scored",
		"candidate_id", candidate.ID,
		"source", result.Source,
		"score_type", result.ScoreType,
		"votes_analyzed", result.VotesAnalyzed,
		"coherence", result.CoherenceScore,
	)
	return result, nil
}

func (s *CandidateScoreService) run(ctx context.Context, candidate *models.Candidate) (*CandidateScoreResult, error) {
	if err := s.db.WithContext(ctx).Model(candidate).
		UpdateColumn("ingestion_status", models.IngestionProcessing).Error; err != nil {
		return nil, fmt.Errorf("mark processing: %w", err)
	}

	var votes []scoring.CastVote
	if candidate.LegislatorID != nil {
		var err error
		votes, err = s.recentVotes(ctx, *candidate.LegislatorID, ScoringVoteLimit)
		if err != nil {
			return nil, err
		}
	}

	var (
		res    scoring.Result
		source string
	)
	if len(votes) > 0 {
		res = s.scorer.ScoreVotes(votes)
		source = "votes"
	} else {
		declared, err := declaredPositions(candidate.Positions)
		if err != nil {
			return nil, err
		}
		res = scoring.ScorePositions(declared)
		source = "positions"
	}

	report, err := s.coherence.Check(ctx, candidate, votes)
	if err != nil {
		return nil, err
	}

	updates := models.ScoreColumns(res.Scores)
	updates["score_type"] = string(res.ScoreType)
	updates["coherence_score"] = report.Score
	updates["votes_analyzed"] = res.VotesAnalyzed
	updates["ingestion_status"] = models.IngestionReady
	if err := s.db.WithContext(ctx).Model(candidate).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("store scores: %w", err)
	}

	return &CandidateScoreResult{
		CandidateID:    candidate.ID,
		Scores:         res.Scores,
		CoherenceScore: report.Score,
		ScoreType:      res.ScoreType,
		VotesAnalyzed:  res.VotesAnalyzed,
		Source:         source,
	}, nil
}

// recentVotes returns the legislator's pour/contre votes, most recent ballot first.
func (s *CandidateScoreService) recentVotes(ctx context.Context, legislatorID uint, limit int) ([]scoring.CastVote, error) {
	var rows []struct {
		Title    string
		Position string
	}
	err := s.db.WithContext(ctx).Table("votes").
		Select("ballots.title AS title, votes.position AS position").
		Joins("JOIN ballots ON ballots.id = votes.ballot_id").
		Where("votes.legislator_id = ? AND votes.position IN ?", legislatorID, []string{models.VotePour, models.VoteContre}).
		Order("ballots.date DESC, ballots.id DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load votes: %w", err)
	}

	votes := make([]scoring.CastVote, 0, len(rows))
	for _, r := range rows {
		votes = append(votes, scoring.CastVote{BallotTitle: r.Title, For: r.Position == models.VotePour})
	}
	return votes, nil
}

func declaredPositions(positions []models.Position) ([]scoring.DeclaredPosition, error) {
	out := make([]scoring.DeclaredPosition, 0, len(positions))
	for _, p := range positions {
		a, ok := scoring.ParseAxis(p.Axis)
		if !ok {
			return nil, fmt.Errorf("position %d has unknown axis %q", p.ID, p.Axis)
		}
		out = append(out, scoring.DeclaredPosition{Axis: a, Score: p.Score})
	}
	return out, nil
}

// finish closes the audit entry. It uses a fresh context so a cancelled
// request still records the outcome.
func (s *CandidateScoreService) finish(ctx context.Context, entry *models.IngestionLog, status, message string, snapshot []byte) {
	now := time.Now()
	updates := map[string]interface{}{
		"status":      status,
		"error":       message,
		"finished_at": now,
	}
	if snapshot != nil {
		updates["snapshot"] = datatypes.JSON(snapshot)
	}
	if err := s.db.WithContext(context.WithoutCancel(ctx)).Model(entry).Updates(updates).Error; err != nil {
		s.log.Error("failed to close ingestion log", "log_id", entry.ID, "error", err)
	}
}
