// Package app wires configuration, storage and services together for the
// server and the admin CLI.
package app

import (
	"context"
	"time"

	"hemicycle/internal/cache"
	"hemicycle/internal/config"
	"hemicycle/internal/db"
	"hemicycle/internal/logger"
	"hemicycle/internal/router"
	"hemicycle/internal/scoring"
	"hemicycle/internal/services"

	"gorm.io/gorm"
)

const localCacheSize = 4096

type App struct {
	Config config.Config
	Log    *logger.Logger
	DB     *gorm.DB
	Cache  *cache.Cache

	Legislators *services.LegislatorService
	Stats       *services.StatsService
	Ballots     *services.BallotService
	Candidates  *services.CandidateService
	Scores      *services.CandidateScoreService
	Quiz        *services.QuizService

	closers []func() error
}

// New connects to the database and the cache and builds every service.
// Redis is optional: without REDIS_URL, or when it cannot be reached, an
// in-process LRU is used instead.
func New(ctx context.Context, cfg config.Config, log *logger.Logger) (*App, error) {
	a := &App{Config: cfg, Log: log}
	a.DB = db.Init(cfg.DatabaseURL, log)

	store, err := a.cacheStore(ctx)
	if err != nil {
		return nil, err
	}
	a.Cache = cache.New(store, log)

	coherence := services.NewCoherenceService(a.DB, log)
	a.Stats = services.NewStatsService(a.DB, a.Cache, cfg.StatsCacheTTL, log)
	a.Scores = services.NewCandidateScoreService(a.DB, scoring.NewScorer(scoring.DefaultKeywords()), coherence, a.Cache, log)
	a.Legislators = services.NewLegislatorService(a.DB, log)
	a.Ballots = services.NewBallotService(a.DB, a.Stats, log)
	a.Candidates = services.NewCandidateService(a.DB, a.Scores, a.Cache, cfg.CandidateCacheTTL, log)
	a.Quiz = services.NewQuizService(a.DB, scoring.DefaultProfiles(), log)
	return a, nil
}

func (a *App) cacheStore(ctx context.Context) (cache.Store, error) {
	if a.Config.RedisURL != "" {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		rs, err := cache.NewRedisStore(pingCtx, a.Config.RedisURL)
		if err == nil {
			a.closers = append(a.closers, rs.Close)
			a.Log.Info("Using Redis cache")
			return rs, nil
		}
		a.Log.Warn("Redis unavailable, falling back to local cache", "error", err)
	}
	ls, err := cache.NewLocalStore(localCacheSize)
	if err != nil {
		return nil, err
	}
	return ls, nil
}

// RouterDeps exposes the services to the HTTP layer.
func (a *App) RouterDeps() router.Deps {
	return router.Deps{
		DB:           a.DB,
		Legislators:  a.Legislators,
		Stats:        a.Stats,
		Ballots:      a.Ballots,
		Candidates:   a.Candidates,
		Scores:       a.Scores,
		Quiz:         a.Quiz,
		AdminEnabled: a.Config.AdminEnabled,
		AdminToken:   a.Config.AdminToken,
	}
}

func (a *App) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.Log.Warn("close failed", "error", err)
		}
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	a.Log.Sync()
}
