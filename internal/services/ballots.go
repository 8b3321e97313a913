package services

import (
	"context"
	"errors"
	"fmt"

	"hemicycle/internal/logger"
	"hemicycle/internal/models"
	"hemicycle/internal/utils"

	"gorm.io/gorm"
)

type BallotService struct {
	db    *gorm.DB
	stats *StatsService
	log   *logger.Logger
}

func NewBallotService(db *gorm.DB, stats *StatsService, baseLog *logger.Logger) *BallotService {
	return &BallotService{db: db, stats: stats, log: baseLog.With("service", "BallotService")}
}

// List returns ballots, most recent first.
func (s *BallotService) List(ctx context.Context, chamber models.Chamber, page utils.Page) (*PageResult[models.Ballot], error) {
	q := s.db.WithContext(ctx).Model(&models.Ballot{})
	if chamber != "" {
		q = q.Where("chamber = ?", chamber)
	}
	return paginate[models.Ballot](q.Order("date DESC, id DESC"), page)
}

// Get loads a ballot with its individual votes.
func (s *BallotService) Get(ctx context.Context, id uint) (*models.Ballot, error) {
	var b models.Ballot
	err := s.db.WithContext(ctx).
		Preload("Votes", func(tx *gorm.DB) *gorm.DB { return tx.Order("legislator_id ASC") }).
		Preload("Votes.Legislator").
		First(&b, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("ballot", id)
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

type VoteInput struct {
	LegislatorID uint   `json:"legislator_id" binding:"required"`
	Position     string `json:"position" binding:"required"`
	Delegated    bool   `json:"delegated"`
}

// ReplaceVotes re-syncs a ballot: its votes are deleted and reinserted in one
// transaction. Ballot counts are left untouched. Cached stats of every
// legislator involved before or after are dropped.
func (s *BallotService) ReplaceVotes(ctx context.Context, ballotID uint, in []VoteInput) (int, error) {
	seen := make(map[uint]bool, len(in))
	rows := make([]models.Vote, 0, len(in))
	for _, v := range in {
		if !models.ValidVotePosition(v.Position) {
			return 0, fmt.Errorf("%w: unknown vote position %q", ErrInvalidInput, v.Position)
		}
		if seen[v.LegislatorID] {
			return 0, fmt.Errorf("%w: legislator %d votes twice", ErrInvalidInput, v.LegislatorID)
		}
		seen[v.LegislatorID] = true
		rows = append(rows, models.Vote{
			LegislatorID: v.LegislatorID,
			BallotID:     ballotID,
			Position:     v.Position,
			Delegated:    v.Delegated,
		})
	}

	var affected []uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ballot models.Ballot
		if err := tx.Select("id").First(&ballot, ballotID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("ballot", ballotID)
			}
			return err
		}

		if len(seen) > 0 {
			ids := make([]uint, 0, len(seen))
			for id := range seen {
				ids = append(ids, id)
			}
			var known int64
			if err := tx.Model(&models.Legislator{}).Where("id IN ?", ids).Count(&known).Error; err != nil {
				return err
			}
			if int(known) != len(ids) {
				return fmt.Errorf("%w: unknown legislator in votes", ErrInvalidInput)
			}
		}

		if err := tx.Model(&models.Vote{}).Where("ballot_id = ?", ballotID).Pluck("legislator_id", &affected).Error; err != nil {
			return err
		}
		if err := tx.Where("ballot_id = ?", ballotID).Delete(&models.Vote{}).Error; err != nil {
			return fmt.Errorf("delete votes: %w", err)
		}
		if len(rows) > 0 {
			if err := tx.CreateInBatches(&rows, 500).Error; err != nil {
				return fmt.Errorf("insert votes: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	for id := range seen {
		affected = append(affected, id)
	}
	s.stats.Invalidate(ctx, affected...)
	s.log.Info("ballot votes replaced", "ballot_id", ballotID, "votes", len(rows))
	return len(rows), nil
}
