package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"hemicycle/internal/cache"
	"hemicycle/internal/logger"
	"hemicycle/internal/models"
	"hemicycle/internal/scoring"
	"hemicycle/internal/utils"

	"gorm.io/gorm"
)

const PublishedCandidatesKey = "candidates:published"

func CandidateCacheKey(id uint) string {
	return "candidate:" + strconv.FormatUint(uint64(id), 10)
}

type CandidateService struct {
	db     *gorm.DB
	scores *CandidateScoreService
	cache  *cache.Cache
	ttl    time.Duration
	log    *logger.Logger
}

func NewCandidateService(db *gorm.DB, scores *CandidateScoreService, c *cache.Cache, ttl time.Duration, baseLog *logger.Logger) *CandidateService {
	return &CandidateService{db: db, scores: scores, cache: c, ttl: ttl, log: baseLog.With("service", "CandidateService")}
}

// Published lists candidates visible to the public, by last name.
func (s *CandidateService) Published(ctx context.Context) ([]models.Candidate, error) {
	return cache.Remember(ctx, s.cache, PublishedCandidatesKey, s.ttl, func(ctx context.Context) ([]models.Candidate, error) {
		var out []models.Candidate
		err := s.db.WithContext(ctx).
			Where("ingestion_status = ?", models.IngestionPublished).
			Order("last_name ASC, id ASC").
			Find(&out).Error
		return out, err
	})
}

// Get loads a candidate with positions. Unpublished candidates are only
// visible when includeUnpublished is set (admin).
func (s *CandidateService) Get(ctx context.Context, id uint, includeUnpublished bool) (*models.Candidate, error) {
	c, err := cache.Remember(ctx, s.cache, CandidateCacheKey(id), s.ttl, func(ctx context.Context) (*models.Candidate, error) {
		var c models.Candidate
		err := s.db.WithContext(ctx).
			Preload("Positions", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
			Preload("Legislator").
			First(&c, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("candidate", id)
		}
		return &c, err
	})
	if err != nil {
		return nil, err
	}
	if !includeUnpublished && c.IngestionStatus != models.IngestionPublished {
		return nil, notFound("candidate", id)
	}
	return c, nil
}

type CandidateInput struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Party     string `json:"party"`
}

func (s *CandidateService) Create(ctx context.Context, in CandidateInput) (*models.Candidate, error) {
	c := models.Candidate{
		FirstName:       utils.SanitizeText(in.FirstName),
		LastName:        utils.SanitizeText(in.LastName),
		Party:           utils.SanitizeText(in.Party),
		IngestionStatus: models.IngestionPending,
		ScoreType:       string(scoring.ScoreEstimated),
		CoherenceScore:  100,
	}
	if c.FirstName == "" || c.LastName == "" {
		return nil, fmt.Errorf("%w: first and last name are required", ErrInvalidInput)
	}
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// Link attaches a legislator to the candidate and rescores from their votes.
func (s *CandidateService) Link(ctx context.Context, candidateID, legislatorID uint) (*CandidateScoreResult, error) {
	var candidate models.Candidate
	if err := s.db.WithContext(ctx).First(&candidate, candidateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("candidate", candidateID)
		}
		return nil, err
	}
	var leg models.Legislator
	if err := s.db.WithContext(ctx).First(&leg, legislatorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("legislator", legislatorID)
		}
		return nil, err
	}

	var taken int64
	if err := s.db.WithContext(ctx).Model(&models.Candidate{}).
		Where("legislator_id = ? AND id <> ?", legislatorID, candidateID).
		Count(&taken).Error; err != nil {
		return nil, err
	}
	if taken > 0 {
		return nil, fmt.Errorf("%w: legislator %d is already linked to another candidate", ErrInvalidInput, legislatorID)
	}

	if err := s.db.WithContext(ctx).Model(&candidate).UpdateColumn("legislator_id", legislatorID).Error; err != nil {
		return nil, err
	}
	s.log.Info("candidate linked", "candidate_id", candidateID, "legislator_id", legislatorID)
	return s.scores.ComputeAndStore(ctx, candidateID)
}

// Publish makes a scored candidate visible to the quiz. Only ready
// candidates can be published.
func (s *CandidateService) Publish(ctx context.Context, id uint) (*models.Candidate, error) {
	var c models.Candidate
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("candidate", id)
		}
		return nil, err
	}
	if c.IngestionStatus != models.IngestionReady {
		return nil, fmt.Errorf("%w: candidate %d is %s, expected %s", ErrInvalidState, id, c.IngestionStatus, models.IngestionReady)
	}

	res := s.db.WithContext(ctx).Model(&models.Candidate{}).
		Where("id = ? AND ingestion_status = ?", id, models.IngestionReady).
		Update("ingestion_status", models.IngestionPublished)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: candidate %d changed status concurrently", ErrInvalidState, id)
	}
	c.IngestionStatus = models.IngestionPublished
	s.cache.Invalidate(ctx, CandidateCacheKey(id), PublishedCandidatesKey)
	return &c, nil
}

type PositionInput struct {
	Subject    string `json:"subject" binding:"required"`
	Axis       string `json:"axis" binding:"required"`
	Score      int    `json:"score"`
	SourceType string `json:"source_type" binding:"required"`
	SourceURL  string `json:"source_url"`
}

// AddPosition records a declared position. Free text is sanitized.
func (s *CandidateService) AddPosition(ctx context.Context, candidateID uint, in PositionInput) (*models.Position, error) {
	axis, ok := scoring.ParseAxis(in.Axis)
	if !ok {
		return nil, fmt.Errorf("%w: unknown axis %q", ErrInvalidInput, in.Axis)
	}
	if !models.ValidSourceType(in.SourceType) {
		return nil, fmt.Errorf("%w: unknown source type %q", ErrInvalidInput, in.SourceType)
	}
	if in.Score < scoring.MinScore || in.Score > scoring.MaxScore {
		return nil, fmt.Errorf("%w: score must be within [%d, %d]", ErrInvalidInput, scoring.MinScore, scoring.MaxScore)
	}
	subject := utils.SanitizeText(in.Subject)
	if subject == "" {
		return nil, fmt.Errorf("%w: subject is required", ErrInvalidInput)
	}

	var exists int64
	if err := s.db.WithContext(ctx).Model(&models.Candidate{}).Where("id = ?", candidateID).Count(&exists).Error; err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, notFound("candidate", candidateID)
	}

	p := models.Position{
		CandidateID: candidateID,
		Subject:     subject,
		Axis:        axis.String(),
		Score:       in.Score,
		SourceType:  in.SourceType,
		SourceURL:   utils.SanitizeText(in.SourceURL),
		Coherent:    true,
	}
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, CandidateCacheKey(candidateID))
	return &p, nil
}
