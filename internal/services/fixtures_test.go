package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"hemicycle/internal/cache"
	"hemicycle/internal/db/dbtest"
	"hemicycle/internal/logger"
	"hemicycle/internal/models"
	"hemicycle/internal/scoring"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	t   *testing.T
	ctx context.Context
	db  *gorm.DB
	log *logger.Logger

	cache      *cache.Cache
	stats      *StatsService
	scores     *CandidateScoreService
	candidates *CandidateService
	quiz       *QuizService
	ballots    *BallotService

	ballotNumber int
	day          time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb := dbtest.Open(t)
	log := logger.Nop()
	store, err := cache.NewLocalStore(128)
	require.NoError(t, err)
	c := cache.New(store, log)

	keywords := scoring.NewKeywordTable(map[string]map[scoring.Axis]float64{
		"retraite": {scoring.Social: 40},
		"budget":   {scoring.Economie: 20},
	})
	stats := NewStatsService(gdb, c, time.Hour, log)
	scores := NewCandidateScoreService(gdb, scoring.NewScorer(keywords), NewCoherenceService(gdb, log), c, log)

	return &fixture{
		t:          t,
		ctx:        context.Background(),
		db:         gdb,
		log:        log,
		cache:      c,
		stats:      stats,
		scores:     scores,
		candidates: NewCandidateService(gdb, scores, c, time.Hour, log),
		quiz:       NewQuizService(gdb, scoring.DefaultProfiles(), log),
		ballots:    NewBallotService(gdb, stats, log),
		day:        time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fixture) group(slug string) *models.PoliticalGroup {
	g := &models.PoliticalGroup{Chamber: models.ChamberAssemblee, Slug: slug, Name: slug}
	require.NoError(f.t, f.db.Create(g).Error)
	return g
}

func (f *fixture) legislator(name string, group *models.PoliticalGroup) *models.Legislator {
	l := &models.Legislator{
		ExternalID: "PA" + name,
		Chamber:    models.ChamberAssemblee,
		FirstName:  "Député",
		LastName:   name,
		Active:     true,
	}
	if group != nil {
		l.GroupID = &group.ID
	}
	require.NoError(f.t, f.db.Create(l).Error)
	return l
}

// ballot creates one ballot per call, each a day after the previous one.
func (f *fixture) ballot(title string) *models.Ballot {
	f.ballotNumber++
	b := &models.Ballot{
		Chamber: models.ChamberAssemblee,
		Number:  f.ballotNumber,
		Date:    f.day.AddDate(0, 0, f.ballotNumber),
		Title:   title,
		Outcome: models.OutcomeAdopte,
	}
	require.NoError(f.t, f.db.Create(b).Error)
	return b
}

func (f *fixture) vote(l *models.Legislator, b *models.Ballot, position string) {
	require.NoError(f.t, f.db.Create(&models.Vote{LegislatorID: l.ID, BallotID: b.ID, Position: position}).Error)
}

func (f *fixture) candidate(last string) *models.Candidate {
	c, err := f.candidates.Create(f.ctx, CandidateInput{FirstName: "Camille", LastName: last})
	require.NoError(f.t, err)
	return c
}

func (f *fixture) linkedCandidate(last string, l *models.Legislator) *models.Candidate {
	c := f.candidate(last)
	require.NoError(f.t, f.db.Model(c).UpdateColumn("legislator_id", l.ID).Error)
	c.LegislatorID = &l.ID
	return c
}

// publishedCandidate stores a candidate with fixed scores, ready for the quiz.
func (f *fixture) publishedCandidate(last string, v scoring.Vector) *models.Candidate {
	c := f.candidate(last)
	updates := models.ScoreColumns(v)
	updates["ingestion_status"] = models.IngestionPublished
	require.NoError(f.t, f.db.Model(c).Updates(updates).Error)
	return c
}

func (f *fixture) reload(c *models.Candidate) models.Candidate {
	var out models.Candidate
	require.NoError(f.t, f.db.Preload("Positions").First(&out, c.ID).Error)
	return out
}

func titles(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s n°%d", prefix, i+1)
	}
	return out
}
