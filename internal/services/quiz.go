package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hemicycle/internal/logger"
	"hemicycle/internal/models"
	"hemicycle/internal/scoring"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// matchWorkers bounds the candidate fan-out during completion.
const matchWorkers = 8

// AnswerInput is the request body for one quiz answer.
type AnswerInput struct {
	QuestionID uint     `json:"question_id" binding:"required"`
	Choice     string   `json:"choice"`
	Value      *int     `json:"value"`
	Ranking    []string `json:"ranking"`
	Agree      string   `json:"agree"`
}

// QuizCompletion is returned when a session is completed or its results are read.
type QuizCompletion struct {
	Token            string                       `json:"token"`
	Profile          string                       `json:"profile"`
	Scores           scoring.Vector               `json:"scores"`
	Priorities       map[string]int               `json:"priorities"`
	AxisLabels       map[string]scoring.AxisLabel `json:"axis_labels"`
	Results          []scoring.Match              `json:"results"`
	SortedDescending bool                         `json:"sorted_descending"`
}

type QuizService struct {
	db       *gorm.DB
	profiles []scoring.Profile
	log      *logger.Logger
}

func NewQuizService(db *gorm.DB, profiles []scoring.Profile, baseLog *logger.Logger) *QuizService {
	return &QuizService{db: db, profiles: profiles, log: baseLog.With("service", "QuizService")}
}

// Questions returns the quiz in display order.
func (s *QuizService) Questions(ctx context.Context) ([]models.QuizQuestion, error) {
	var qs []models.QuizQuestion
	err := s.db.WithContext(ctx).Order("sort_order ASC, id ASC").Find(&qs).Error
	return qs, err
}

// StartSession creates an anonymous session identified by a random token.
func (s *QuizService) StartSession(ctx context.Context) (*models.QuizSession, error) {
	session := models.QuizSession{
		Token:  uuid.NewString(),
		Status: models.SessionInProgress,
	}
	if err := s.db.WithContext(ctx).Create(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *QuizService) session(ctx context.Context, token string) (*models.QuizSession, error) {
	var session models.QuizSession
	err := s.db.WithContext(ctx).Where("token = ?", token).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("quiz session", token)
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// SubmitAnswer records or replaces the answer to one question.
func (s *QuizService) SubmitAnswer(ctx context.Context, token string, in AnswerInput) (*models.QuizAnswer, error) {
	session, err := s.session(ctx, token)
	if err != nil {
		return nil, err
	}
	if session.Status == models.SessionComplete {
		return nil, fmt.Errorf("%w: session is already complete", ErrInvalidState)
	}

	var question models.QuizQuestion
	if err := s.db.WithContext(ctx).First(&question, in.QuestionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: unknown question %d", ErrInvalidInput, in.QuestionID)
		}
		return nil, err
	}
	q, err := question.ToScoring()
	if err != nil {
		return nil, err
	}

	answer := scoring.Answer{QuestionID: in.QuestionID, Choice: in.Choice, Value: in.Value, Agree: in.Agree}
	for _, name := range in.Ranking {
		a, ok := scoring.ParseAxis(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown axis %q", ErrInvalidInput, name)
		}
		answer.Ranking = append(answer.Ranking, a)
	}
	if err := q.Validate(answer); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	row := models.QuizAnswer{
		SessionID:  session.ID,
		QuestionID: in.QuestionID,
	}
	// only the field for this question type is kept
	switch q.Type {
	case scoring.QuestionDilemma:
		row.Choice = answer.Choice
	case scoring.QuestionSlider:
		row.Value = answer.Value
	case scoring.QuestionRanking:
		raw, err := json.Marshal(answer.Ranking)
		if err != nil {
			return nil, fmt.Errorf("encode ranking: %w", err)
		}
		row.Ranking = datatypes.JSON(raw)
	case scoring.QuestionCitation:
		row.Agree = answer.Agree
	}

	if err := s.saveAnswer(ctx, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

// saveAnswer upserts the answer only while its session is in progress. The
// session row is updated first so a concurrent Complete serializes with it.
func (s *QuizService) saveAnswer(ctx context.Context, row *models.QuizAnswer) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.QuizSession{}).
			Where("id = ? AND status = ?", row.SessionID, models.SessionInProgress).
			Update("updated_at", time.Now())
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: session is already complete", ErrInvalidState)
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}, {Name: "question_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"choice", "value", "ranking", "agree", "updated_at"}),
		}).Create(row).Error
	})
}

// Complete derives the citizen profile, matches it against every published
// candidate and stores the results. Completing again recomputes and
// overwrites previous results.
func (s *QuizService) Complete(ctx context.Context, token string) (*QuizCompletion, error) {
	session, err := s.session(ctx, token)
	if err != nil {
		return nil, err
	}

	questions, answers, err := s.loadAnswers(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	user, priorities := scoring.UserProfile(questions, answers)
	profile := scoring.Classify(s.profiles, user)

	var candidates []models.Candidate
	if err := s.db.WithContext(ctx).
		Where("ingestion_status = ?", models.IngestionPublished).
		Order("id ASC").
		Find(&candidates).Error; err != nil {
		return nil, err
	}

	matches := make([]scoring.Match, len(candidates))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(matchWorkers)
	for i, c := range candidates {
		g.Go(func() error {
			matches[i] = scoring.MatchCandidate(c.ID, user, priorities, c.Scores())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	scoring.SortMatches(matches)

	if err := s.store(ctx, session, matches, user, priorities, profile); err != nil {
		return nil, err
	}

	s.log.Info("quiz completed",
		"token", session.Token,
		"profile", profile,
		"answers", len(answers),
		"candidates", len(matches),
	)
	return &QuizCompletion{
		Token:            session.Token,
		Profile:          profile,
		Scores:           user,
		Priorities:       priorities.Map(),
		AxisLabels:       scoring.LabelsByName(),
		Results:          matches,
		SortedDescending: true,
	}, nil
}

func (s *QuizService) loadAnswers(ctx context.Context, sessionID uint) (map[uint]scoring.Question, []scoring.Answer, error) {
	var rows []models.QuizAnswer
	if err := s.db.WithContext(ctx).Where("session_id = ?", sessionID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, nil, err
	}
	var qrows []models.QuizQuestion
	if err := s.db.WithContext(ctx).Find(&qrows).Error; err != nil {
		return nil, nil, err
	}

	questions := make(map[uint]scoring.Question, len(qrows))
	for _, q := range qrows {
		sq, err := q.ToScoring()
		if err != nil {
			return nil, nil, err
		}
		questions[q.ID] = sq
	}
	answers := make([]scoring.Answer, 0, len(rows))
	for _, r := range rows {
		a, err := r.ToScoring()
		if err != nil {
			return nil, nil, err
		}
		answers = append(answers, a)
	}
	return questions, answers, nil
}

func (s *QuizService) store(ctx context.Context, session *models.QuizSession, matches []scoring.Match, user scoring.Vector, priorities scoring.Priorities, profile string) error {
	rows := make([]models.MatchResult, 0, len(matches))
	keep := make([]uint, 0, len(matches))
	for _, m := range matches {
		row, err := matchRow(session.ID, m)
		if err != nil {
			return err
		}
		rows = append(rows, row)
		keep = append(keep, m.CandidateID)
	}
	scores, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode session scores: %w", err)
	}
	prio, err := json.Marshal(priorities.Map())
	if err != nil {
		return fmt.Errorf("encode session priorities: %w", err)
	}
	now := time.Now()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(rows) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "session_id"}, {Name: "candidate_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"match_score", "similarity", "strengths", "divergences", "updated_at"}),
			}).Create(&rows).Error; err != nil {
				return fmt.Errorf("store matches: %w", err)
			}
		}

		// candidates unpublished since a previous completion
		stale := tx.Where("session_id = ?", session.ID)
		if len(keep) > 0 {
			stale = stale.Where("candidate_id NOT IN ?", keep)
		}
		if err := stale.Delete(&models.MatchResult{}).Error; err != nil {
			return fmt.Errorf("drop stale matches: %w", err)
		}

		return tx.Model(session).Updates(map[string]interface{}{
			"status":       models.SessionComplete,
			"scores":       datatypes.JSON(scores),
			"priorities":   datatypes.JSON(prio),
			"profile":      profile,
			"completed_at": now,
		}).Error
	})
}

// Results returns the stored outcome of a completed session.
func (s *QuizService) Results(ctx context.Context, token string) (*QuizCompletion, error) {
	session, err := s.session(ctx, token)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionComplete {
		return nil, fmt.Errorf("%w: session is not complete", ErrInvalidState)
	}

	var rows []models.MatchResult
	if err := s.db.WithContext(ctx).
		Where("session_id = ?", session.ID).
		Order("match_score DESC, candidate_id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := &QuizCompletion{
		Token:            session.Token,
		Profile:          session.Profile,
		AxisLabels:       scoring.LabelsByName(),
		Results:          make([]scoring.Match, 0, len(rows)),
		SortedDescending: true,
	}
	if len(session.Scores) > 0 {
		if err := json.Unmarshal(session.Scores, &out.Scores); err != nil {
			return nil, fmt.Errorf("decode session scores: %w", err)
		}
	}
	if len(session.Priorities) > 0 {
		if err := json.Unmarshal(session.Priorities, &out.Priorities); err != nil {
			return nil, fmt.Errorf("decode session priorities: %w", err)
		}
	}
	for _, r := range rows {
		m, err := r.ToScoring()
		if err != nil {
			return nil, fmt.Errorf("decode match for candidate %d: %w", r.CandidateID, err)
		}
		out.Results = append(out.Results, m)
	}
	return out, nil
}

func matchRow(sessionID uint, m scoring.Match) (models.MatchResult, error) {
	row := models.MatchResult{SessionID: sessionID, CandidateID: m.CandidateID, MatchScore: m.Score}
	for _, f := range []struct {
		dst *datatypes.JSON
		src interface{}
	}{
		{&row.Similarity, m.Similarity},
		{&row.Strengths, m.Strengths},
		{&row.Divergences, m.Divergences},
	} {
		raw, err := json.Marshal(f.src)
		if err != nil {
			return row, fmt.Errorf("encode match for candidate %d: %w", m.CandidateID, err)
		}
		*f.dst = datatypes.JSON(raw)
	}
	return row, nil
}
