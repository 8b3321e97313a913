package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"hemicycle/internal/cache"
	"hemicycle/internal/logger"
	"hemicycle/internal/models"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type AmendmentStats struct {
	Proposed int `json:"proposed"`
	Adopted  int `json:"adopted"`
}

// LegislatorStats is the activity summary shown on legislator pages.
type LegislatorStats struct {
	LegislatorID  uint           `json:"legislator_id"`
	Presence      int            `json:"presence"`
	Loyalty       int            `json:"loyalty"`
	Participation int            `json:"participation"`
	Interventions int            `json:"interventions"`
	Amendments    AmendmentStats `json:"amendments"`
	Questions     int            `json:"questions"`
}

func StatsCacheKey(legislatorID uint) string {
	return "stats:" + strconv.FormatUint(uint64(legislatorID), 10)
}

// StatsService computes presence, loyalty and activity counts. All
// aggregation happens in SQL; vote histories are never loaded in memory.
type StatsService struct {
	db    *gorm.DB
	cache *cache.Cache
	ttl   time.Duration
	log   *logger.Logger
}

func NewStatsService(db *gorm.DB, c *cache.Cache, ttl time.Duration, baseLog *logger.Logger) *StatsService {
	return &StatsService{db: db, cache: c, ttl: ttl, log: baseLog.With("service", "StatsService")}
}

// ComputeStats returns the cached stats of a legislator, computing them on a miss.
func (s *StatsService) ComputeStats(ctx context.Context, legislatorID uint) (*LegislatorStats, error) {
	var leg models.Legislator
	if err := s.db.WithContext(ctx).First(&leg, legislatorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("legislator", legislatorID)
		}
		return nil, err
	}

	stats, err := cache.Remember(ctx, s.cache, StatsCacheKey(leg.ID), s.ttl, func(ctx context.Context) (LegislatorStats, error) {
		return s.compute(ctx, leg)
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// Compare computes stats for several legislators concurrently, keeping input order.
func (s *StatsService) Compare(ctx context.Context, ids []uint) ([]*LegislatorStats, error) {
	out := make([]*LegislatorStats, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			st, err := s.ComputeStats(gctx, id)
			if err != nil {
				return err
			}
			out[i] = st
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Invalidate drops cached stats, e.g. after a ballot re-sync.
func (s *StatsService) Invalidate(ctx context.Context, legislatorIDs ...uint) {
	keys := make([]string, 0, len(legislatorIDs))
	for _, id := range legislatorIDs {
		keys = append(keys, StatsCacheKey(id))
	}
	s.cache.Invalidate(ctx, keys...)
}

func (s *StatsService) compute(ctx context.Context, leg models.Legislator) (LegislatorStats, error) {
	stats := LegislatorStats{LegislatorID: leg.ID}
	start := time.Now()

	// each task writes its own fields
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.Presence, err = s.Presence(gctx, leg.ID, leg.Chamber)
		return err
	})
	g.Go(func() (err error) {
		stats.Loyalty, err = s.Loyalty(gctx, leg.ID, leg.GroupID)
		return err
	})
	g.Go(func() error {
		n, err := s.count(gctx, &models.Vote{}, "legislator_id = ? AND position <> ?", leg.ID, models.VoteAbsent)
		stats.Participation = n
		return err
	})
	g.Go(func() error {
		n, err := s.count(gctx, &models.Intervention{}, "legislator_id = ?", leg.ID)
		stats.Interventions = n
		return err
	})
	g.Go(func() error {
		n, err := s.count(gctx, &models.WrittenQuestion{}, "legislator_id = ?", leg.ID)
		stats.Questions = n
		return err
	})
	g.Go(func() (err error) {
		stats.Amendments, err = s.amendments(gctx, leg.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return LegislatorStats{}, fmt.Errorf("compute stats for legislator %d: %w", leg.ID, err)
	}

	s.log.Debug("stats computed", "legislator_id", leg.ID, "took", time.Since(start))
	return stats, nil
}

const presenceSQL = `
SELECT
  (SELECT COUNT(*)
     FROM votes v
     JOIN ballots b ON b.id = v.ballot_id
    WHERE v.legislator_id = @legislator
      AND v.position <> @absent
      AND b.chamber = @chamber
      AND b.date >= (SELECT MIN(date) FROM ballots WHERE chamber = @chamber)) AS present,
  (SELECT COUNT(*)
     FROM ballots
    WHERE chamber = @chamber
      AND date >= (SELECT MIN(date) FROM ballots WHERE chamber = @chamber)) AS total`

// Presence is the share of the chamber's ballots, since its oldest recorded
// one, on which the legislator was not absent.
func (s *StatsService) Presence(ctx context.Context, legislatorID uint, chamber models.Chamber) (int, error) {
	var row struct {
		Present int64
		Total   int64
	}
	err := s.db.WithContext(ctx).Raw(presenceSQL, map[string]interface{}{
		"legislator": legislatorID,
		"absent":     models.VoteAbsent,
		"chamber":    chamber,
	}).Scan(&row).Error
	if err != nil {
		return 0, fmt.Errorf("presence: %w", err)
	}
	return percent(row.Present, row.Total), nil
}

// The group majority of a ballot is the position ranked first by vote count
// among the group's non-absent voters. Ties fall to whatever order the
// database returns.
const loyaltySQL = `
WITH mine AS (
  SELECT ballot_id, position
    FROM votes
   WHERE legislator_id = @legislator
     AND position <> @absent
),
group_counts AS (
  SELECT v.ballot_id, v.position, COUNT(*) AS cnt
    FROM votes v
    JOIN legislators l ON l.id = v.legislator_id
   WHERE l.group_id = @group
     AND v.position <> @absent
     AND v.ballot_id IN (SELECT ballot_id FROM mine)
   GROUP BY v.ballot_id, v.position
),
ranked AS (
  SELECT ballot_id, position,
         ROW_NUMBER() OVER (PARTITION BY ballot_id ORDER BY cnt DESC) AS rn
    FROM group_counts
)
SELECT COUNT(*) AS total,
       COALESCE(SUM(CASE WHEN r.position = m.position THEN 1 ELSE 0 END), 0) AS loyal
  FROM mine m
  JOIN ranked r ON r.ballot_id = m.ballot_id AND r.rn = 1`

// Loyalty is the share of the legislator's non-absent votes matching their
// group's majority position, computed in a single round trip.
func (s *StatsService) Loyalty(ctx context.Context, legislatorID uint, groupID *uint) (int, error) {
	if groupID == nil {
		return 0, nil
	}
	var row struct {
		Total int64
		Loyal int64
	}
	err := s.db.WithContext(ctx).Raw(loyaltySQL, map[string]interface{}{
		"legislator": legislatorID,
		"group":      *groupID,
		"absent":     models.VoteAbsent,
	}).Scan(&row).Error
	if err != nil {
		return 0, fmt.Errorf("loyalty: %w", err)
	}
	return percent(row.Loyal, row.Total), nil
}

func (s *StatsService) amendments(ctx context.Context, legislatorID uint) (AmendmentStats, error) {
	var row struct {
		Proposed int64
		Adopted  int64
	}
	err := s.db.WithContext(ctx).Model(&models.Amendment{}).
		Select("COUNT(*) AS proposed, COALESCE(SUM(CASE WHEN adopted THEN 1 ELSE 0 END), 0) AS adopted").
		Where("legislator_id = ?", legislatorID).
		Scan(&row).Error
	if err != nil {
		return AmendmentStats{}, fmt.Errorf("amendments: %w", err)
	}
	return AmendmentStats{Proposed: int(row.Proposed), Adopted: int(row.Adopted)}, nil
}

func (s *StatsService) count(ctx context.Context, model interface{}, query string, args ...interface{}) (int, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(model).Where(query, args...).Count(&n).Error; err != nil {
		return 0, err
	}
	return int(n), nil
}

// percent rounds part/total to an integer percentage, 0 when total is 0.
func percent(part, total int64) int {
	if total <= 0 {
		return 0
	}
	p := int(math.Round(100 * float64(part) / float64(total)))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
