package scoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioTable() KeywordTable {
	return NewKeywordTable(map[string]map[Axis]float64{
		"retraite": {Social: 40},
		"budget":   {Economie: 20},
	})
}

func TestScoreVotesScenarioA(t *testing.T) {
	s := NewScorer(scenarioTable())
	res := s.ScoreVotes([]CastVote{
		{BallotTitle: "Réforme des retraites", For: true},
		{BallotTitle: "Budget 2025", For: false},
	})

	assert.Equal(t, 40, res.Scores[Social])
	assert.Equal(t, -20, res.Scores[Economie])
	assert.Equal(t, 2, res.VotesAnalyzed)
	assert.Equal(t, ScoreEstimated, res.ScoreType)
	for _, a := range []Axis{Ecologie, Securite, Europe, Immigration, Institutions, International} {
		assert.Zero(t, res.Scores[a], a.String())
	}
}

func TestScoreVotesSkipsUnmatchedBallots(t *testing.T) {
	s := NewScorer(scenarioTable())
	res := s.ScoreVotes([]CastVote{
		{BallotTitle: "Motion de censure", For: true},
		{BallotTitle: "Projet de loi budget rectificatif", For: true},
	})

	assert.Equal(t, 1, res.VotesAnalyzed)
	assert.Equal(t, 2, res.VotesSeen)
	assert.Equal(t, 20, res.Scores[Economie])
}

func TestScoreVotesMultipleKeywordsAverage(t *testing.T) {
	s := NewScorer(NewKeywordTable(map[string]map[Axis]float64{
		"budget":   {Economie: 20},
		"retraite": {Economie: 60, Social: 40},
	}))
	res := s.ScoreVotes([]CastVote{
		{BallotTitle: "Budget de la sécurité sociale et retraites", For: true},
	})

	// economie: (20 + 60) / 2
	assert.Equal(t, 40, res.Scores[Economie])
	assert.Equal(t, 40, res.Scores[Social])
	assert.Equal(t, 1, res.VotesAnalyzed)
}

func TestScoreVotesVerifiedThreshold(t *testing.T) {
	tests := []struct {
		name     string
		votes    int
		expected ScoreType
	}{
		{name: "19 votes stay estimated", votes: 19, expected: ScoreEstimated},
		{name: "20 votes are verified", votes: 20, expected: ScoreVerified},
		{name: "no votes", votes: 0, expected: ScoreEstimated},
	}

	s := NewScorer(scenarioTable())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			votes := make([]CastVote, 0, tt.votes+3)
			for i := 0; i < tt.votes; i++ {
				votes = append(votes, CastVote{BallotTitle: fmt.Sprintf("Budget n°%d", i), For: i%2 == 0})
			}
			// unmatched ballots never count toward the threshold
			for i := 0; i < 3; i++ {
				votes = append(votes, CastVote{BallotTitle: "Motion diverse", For: true})
			}
			res := s.ScoreVotes(votes)
			assert.Equal(t, tt.votes, res.VotesAnalyzed)
			assert.Equal(t, tt.expected, res.ScoreType)
		})
	}
}

func TestScoreVotesClampAndIdempotence(t *testing.T) {
	s := NewScorer(NewKeywordTable(map[string]map[Axis]float64{
		"climat": {Ecologie: 350, Europe: -500},
	}))
	votes := []CastVote{
		{BallotTitle: "Loi climat", For: true},
		{BallotTitle: "Climat et résilience", For: true},
	}

	first := s.ScoreVotes(votes)
	second := s.ScoreVotes(votes)

	assert.Equal(t, MaxScore, first.Scores[Ecologie])
	assert.Equal(t, MinScore, first.Scores[Europe])
	assert.Equal(t, first, second)
	for _, a := range AllAxes {
		assert.GreaterOrEqual(t, first.Scores[a], MinScore)
		assert.LessOrEqual(t, first.Scores[a], MaxScore)
	}
}

func TestScorePositions(t *testing.T) {
	res := ScorePositions([]DeclaredPosition{
		{Axis: Ecologie, Score: 80},
		{Axis: Ecologie, Score: 41},
		{Axis: Immigration, Score: -30},
		{Axis: Axis(42), Score: 100},
	})

	// round(121/2) = round(60.5) = 61
	assert.Equal(t, 61, res.Scores[Ecologie])
	assert.Equal(t, -30, res.Scores[Immigration])
	assert.Equal(t, ScoreEstimated, res.ScoreType)
	assert.Zero(t, res.VotesAnalyzed)
}

func TestKeywordTableIsCaseInsensitive(t *testing.T) {
	table := NewKeywordTable(map[string]map[Axis]float64{
		"IMMIGRATION": {Immigration: 60},
		"   ":         {Social: 10},
	})
	require.Equal(t, 1, table.Len())

	hits := table.Match("Projet de loi Immigration et intégration")
	require.Len(t, hits, 1)
	assert.Equal(t, Immigration, hits[0].Axis)
	assert.Equal(t, 60.0, hits[0].Weight)
}

func TestDefaultKeywordsContainScenarioRules(t *testing.T) {
	table := DefaultKeywords()
	assert.Contains(t, table.Match("retraite"), AxisWeight{Axis: Social, Weight: 40})
	assert.Contains(t, table.Match("budget"), AxisWeight{Axis: Economie, Weight: 20})
}

func TestParseAxis(t *testing.T) {
	a, ok := ParseAxis("Écologie")
	require.True(t, ok)
	assert.Equal(t, Ecologie, a)

	a, ok = ParseAxis("sécurité")
	require.True(t, ok)
	assert.Equal(t, Securite, a)

	_, ok = ParseAxis("culture")
	assert.False(t, ok)
}

func TestVectorJSON(t *testing.T) {
	v := Vector{}
	v[Economie] = -20
	v[Social] = 40

	data, err := v.MarshalJSON()
	require.NoError(t, err)

	var back Vector
	require.NoError(t, back.UnmarshalJSON(data))
	assert.Equal(t, v, back)
}
