package services

import (
	"encoding/json"
	"errors"
	"testing"

	"hemicycle/internal/models"
	"hemicycle/internal/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func (f *fixture) question(kind scoring.QuestionType, axes map[string]float64, order int) *models.QuizQuestion {
	raw, err := json.Marshal(axes)
	require.NoError(f.t, err)
	q := &models.QuizQuestion{Type: string(kind), Text: "Question", Axes: datatypes.JSON(raw), SortOrder: order}
	require.NoError(f.t, f.db.Create(q).Error)
	return q
}

func intPtr(n int) *int { return &n }

func TestQuizScenarioBAndC(t *testing.T) {
	f := newFixture(t)
	slider := f.question(scoring.QuestionSlider, map[string]float64{"ecologie": 1}, 2)
	ranking := f.question(scoring.QuestionRanking, nil, 1)

	session, err := f.quiz.StartSession(f.ctx)
	require.NoError(t, err)
	assert.Len(t, session.Token, 36)

	_, err = f.quiz.SubmitAnswer(f.ctx, session.Token, AnswerInput{QuestionID: slider.ID, Value: intPtr(80)})
	require.NoError(t, err)
	_, err = f.quiz.SubmitAnswer(f.ctx, session.Token, AnswerInput{QuestionID: ranking.ID, Ranking: []string{"economie", "social", "écologie"}})
	require.NoError(t, err)

	res, err := f.quiz.Complete(f.ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, 60, res.Scores[scoring.Ecologie])
	assert.Equal(t, 5, res.Priorities["economie"])
	assert.Equal(t, 4, res.Priorities["social"])
	assert.Equal(t, 3, res.Priorities["ecologie"])
	assert.Equal(t, 3, res.Priorities["europe"])
	assert.Empty(t, res.Results)
	assert.True(t, res.SortedDescending)
	assert.Len(t, res.AxisLabels, scoring.AxisCount)

	qs, err := f.quiz.Questions(f.ctx)
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, ranking.ID, qs[0].ID)
}

func TestQuizExcludesUnpublishedCandidates(t *testing.T) {
	f := newFixture(t)
	q := f.question(scoring.QuestionDilemma, map[string]float64{"economie": 1}, 1)

	near := f.publishedCandidate("Proche", scoring.Vector{-100})
	far := f.publishedCandidate("Loin", scoring.Vector{100})
	hidden := f.candidate("Cache")
	require.NoError(t, f.db.Model(hidden).Updates(map[string]interface{}{"score_economie": -100, "ingestion_status": models.IngestionReady}).Error)

	session, err := f.quiz.StartSession(f.ctx)
	require.NoError(t, err)
	_, err = f.quiz.SubmitAnswer(f.ctx, session.Token, AnswerInput{QuestionID: q.ID, Choice: scoring.ChoiceA})
	require.NoError(t, err)

	res, err := f.quiz.Complete(f.ctx, session.Token)
	require.NoError(t, err)
	require.Len(t, res.Results, 2)
	assert.Equal(t, near.ID, res.Results[0].CandidateID)
	assert.Equal(t, 100, res.Results[0].Score)
	assert.Equal(t, far.ID, res.Results[1].CandidateID)
	assert.Contains(t, res.Results[1].Divergences, "economie")
	for _, m := range res.Results {
		assert.NotEqual(t, hidden.ID, m.CandidateID)
	}

	stored, err := f.quiz.Results(f.ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, res.Profile, stored.Profile)
	assert.Equal(t, res.Scores, stored.Scores)
	assert.Equal(t, res.Results, stored.Results)

	var count int64
	require.NoError(t, f.db.Model(&models.MatchResult{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestQuizCompleteAgainDropsStaleMatches(t *testing.T) {
	f := newFixture(t)
	a := f.publishedCandidate("A", scoring.Vector{})
	b := f.publishedCandidate("B", scoring.Vector{})

	session, err := f.quiz.StartSession(f.ctx)
	require.NoError(t, err)
	_, err = f.quiz.Complete(f.ctx, session.Token)
	require.NoError(t, err)

	require.NoError(t, f.db.Model(b).Update("ingestion_status", models.IngestionReady).Error)
	res, err := f.quiz.Complete(f.ctx, session.Token)
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Equal(t, a.ID, res.Results[0].CandidateID)

	stored, err := f.quiz.Results(f.ctx, session.Token)
	require.NoError(t, err)
	require.Len(t, stored.Results, 1)
}

func TestQuizSessionStates(t *testing.T) {
	f := newFixture(t)
	q := f.question(scoring.QuestionCitation, map[string]float64{"europe": 1}, 1)

	_, err := f.quiz.SubmitAnswer(f.ctx, "missing", AnswerInput{QuestionID: q.ID, Agree: scoring.AgreeYes})
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = f.quiz.Complete(f.ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	session, err := f.quiz.StartSession(f.ctx)
	require.NoError(t, err)

	_, err = f.quiz.Results(f.ctx, session.Token)
	assert.True(t, errors.Is(err, ErrInvalidState))

	_, err = f.quiz.SubmitAnswer(f.ctx, session.Token, AnswerInput{QuestionID: q.ID, Agree: "maybe"})
	assert.True(t, errors.Is(err, ErrInvalidInput))
	_, err = f.quiz.SubmitAnswer(f.ctx, session.Token, AnswerInput{QuestionID: 999, Agree: scoring.AgreeYes})
	assert.True(t, errors.Is(err, ErrInvalidInput))

	// the second answer replaces the first
	_, err = f.quiz.SubmitAnswer(f.ctx, session.Token, AnswerInput{QuestionID: q.ID, Agree: scoring.AgreeYes})
	require.NoError(t, err)
	_, err = f.quiz.SubmitAnswer(f.ctx, session.Token, AnswerInput{QuestionID: q.ID, Agree: scoring.AgreeNo})
	require.NoError(t, err)

	var answers []models.QuizAnswer
	require.NoError(t, f.db.Find(&answers).Error)
	require.Len(t, answers, 1)
	assert.Equal(t, scoring.AgreeNo, answers[0].Agree)

	res, err := f.quiz.Complete(f.ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, -100, res.Scores[scoring.Europe])

	_, err = f.quiz.SubmitAnswer(f.ctx, session.Token, AnswerInput{QuestionID: q.ID, Agree: scoring.AgreeYes})
	assert.True(t, errors.Is(err, ErrInvalidState))
}

func TestQuizRejectsUnknownRankingAxis(t *testing.T) {
	f := newFixture(t)
	q := f.question(scoring.QuestionRanking, nil, 1)
	session, err := f.quiz.StartSession(f.ctx)
	require.NoError(t, err)

	_, err = f.quiz.SubmitAnswer(f.ctx, session.Token, AnswerInput{QuestionID: q.ID, Ranking: []string{"economie", "culture"}})
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestQuizSkipCountsTowardAverage(t *testing.T) {
	f := newFixture(t)
	first := f.question(scoring.QuestionDilemma, map[string]float64{"economie": 1}, 1)
	second := f.question(scoring.QuestionDilemma, map[string]float64{"economie": 1}, 2)

	session, err := f.quiz.StartSession(f.ctx)
	require.NoError(t, err)
	_, err = f.quiz.SubmitAnswer(f.ctx, session.Token, AnswerInput{QuestionID: first.ID, Choice: scoring.ChoiceB})
	require.NoError(t, err)
	_, err = f.quiz.SubmitAnswer(f.ctx, session.Token, AnswerInput{QuestionID: second.ID, Choice: scoring.ChoiceSkip})
	require.NoError(t, err)

	res, err := f.quiz.Complete(f.ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, 50, res.Scores[scoring.Economie])
}

func TestSaveAnswerRejectsCompletedSession(t *testing.T) {
	f := newFixture(t)
	q := f.question(scoring.QuestionCitation, map[string]float64{"europe": 1}, 1)
	session, err := f.quiz.StartSession(f.ctx)
	require.NoError(t, err)

	// completion committed after SubmitAnswer read the session
	require.NoError(t, f.db.Model(session).Update("status", models.SessionComplete).Error)

	err = f.quiz.saveAnswer(f.ctx, &models.QuizAnswer{SessionID: session.ID, QuestionID: q.ID, Agree: scoring.AgreeYes})
	assert.True(t, errors.Is(err, ErrInvalidState))

	var count int64
	require.NoError(t, f.db.Model(&models.QuizAnswer{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestQuizResultsReportsCorruptMatch(t *testing.T) {
	f := newFixture(t)
	q := f.question(scoring.QuestionDilemma, map[string]float64{"economie": 1}, 1)
	f.publishedCandidate("Proche", scoring.Vector{-100})

	session, err := f.quiz.StartSession(f.ctx)
	require.NoError(t, err)
	_, err = f.quiz.SubmitAnswer(f.ctx, session.Token, AnswerInput{QuestionID: q.ID, Choice: scoring.ChoiceA})
	require.NoError(t, err)
	_, err = f.quiz.Complete(f.ctx, session.Token)
	require.NoError(t, err)

	require.NoError(t, f.db.Model(&models.MatchResult{}).
		Where("session_id = ?", session.ID).
		Update("similarity", datatypes.JSON(`{"economie":`)).Error)

	_, err = f.quiz.Results(f.ctx, session.Token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode match")
	assert.False(t, errors.Is(err, ErrInvalidState))
}
