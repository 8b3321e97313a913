package scoring

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestUserProfileScenarioB(t *testing.T) {
	questions := map[uint]Question{
		1: {ID: 1, Type: QuestionSlider, Axes: map[Axis]float64{Ecologie: 1}},
	}
	v, p := UserProfile(questions, []Answer{{QuestionID: 1, Value: intPtr(80)}})

	assert.Equal(t, 60, v[Ecologie])
	assert.Equal(t, DefaultPriorities(), p)
}

func TestUserProfileScenarioC(t *testing.T) {
	questions := map[uint]Question{
		1: {ID: 1, Type: QuestionRanking},
	}
	v, p := UserProfile(questions, []Answer{{
		QuestionID: 1,
		Ranking:    []Axis{Economie, Social, Ecologie},
	}})

	assert.Equal(t, Vector{}, v)
	assert.Equal(t, 5, p[Economie])
	assert.Equal(t, 4, p[Social])
	assert.Equal(t, 3, p[Ecologie])
	for _, a := range []Axis{Securite, Europe, Immigration, Institutions, International} {
		assert.Equal(t, DefaultPriority, p[a], a.String())
	}
}

func TestUserProfileRankingFloorsAtMinimum(t *testing.T) {
	questions := map[uint]Question{1: {ID: 1, Type: QuestionRanking}}
	_, p := UserProfile(questions, []Answer{{QuestionID: 1, Ranking: AllAxes[:]}})

	assert.Equal(t, 5, p[Economie])
	assert.Equal(t, 1, p[Europe])
	assert.Equal(t, MinPriority, p[International])
}

func TestUserProfileMixedTypes(t *testing.T) {
	questions := map[uint]Question{
		1: {ID: 1, Type: QuestionDilemma, Axes: map[Axis]float64{Economie: 1, Social: 0.5}},
		2: {ID: 2, Type: QuestionCitation, Axes: map[Axis]float64{Economie: 1}},
		3: {ID: 3, Type: QuestionCitation, Axes: map[Axis]float64{Immigration: 1}, CitationScore: intPtr(60)},
		4: {ID: 4, Type: QuestionDilemma, Axes: map[Axis]float64{Europe: 1}},
	}
	answers := []Answer{
		{QuestionID: 1, Choice: ChoiceA},
		{QuestionID: 2, Agree: AgreeYes},
		{QuestionID: 3, Agree: AgreeNo},
		{QuestionID: 4, Choice: ChoiceSkip},
		{QuestionID: 99, Choice: ChoiceB},
	}
	v, _ := UserProfile(questions, answers)

	// economie: (-100 + 100) / 2
	assert.Equal(t, 0, v[Economie])
	assert.Equal(t, -50, v[Social])
	assert.Equal(t, -60, v[Immigration])
	// a lone skip averages to 0
	assert.Equal(t, 0, v[Europe])
}

func TestUserProfileSkipCountsAsZero(t *testing.T) {
	questions := map[uint]Question{
		1: {ID: 1, Type: QuestionDilemma, Axes: map[Axis]float64{Economie: 1}},
		2: {ID: 2, Type: QuestionDilemma, Axes: map[Axis]float64{Economie: 1}},
		3: {ID: 3, Type: QuestionCitation, Axes: map[Axis]float64{Social: 1}},
		4: {ID: 4, Type: QuestionCitation, Axes: map[Axis]float64{Social: 1}},
	}
	answers := []Answer{
		{QuestionID: 1, Choice: ChoiceB},
		{QuestionID: 2, Choice: ChoiceSkip},
		{QuestionID: 3, Agree: AgreeYes},
		{QuestionID: 4, Agree: AgreeSkip},
	}
	v, _ := UserProfile(questions, answers)

	// (100 + 0) / 2
	assert.Equal(t, 50, v[Economie])
	assert.Equal(t, 50, v[Social])
}

func TestQuestionImpactSkip(t *testing.T) {
	impact, ok := Question{Type: QuestionDilemma}.Impact(Answer{Choice: ChoiceSkip})
	assert.True(t, ok)
	assert.Zero(t, impact)

	impact, ok = Question{Type: QuestionCitation}.Impact(Answer{Agree: AgreeSkip})
	assert.True(t, ok)
	assert.Zero(t, impact)

	_, ok = Question{Type: QuestionRanking}.Impact(Answer{Ranking: []Axis{Europe}})
	assert.False(t, ok)
}

func TestUserProfileClamps(t *testing.T) {
	questions := map[uint]Question{
		1: {ID: 1, Type: QuestionDilemma, Axes: map[Axis]float64{Securite: 3}},
	}
	v, _ := UserProfile(questions, []Answer{{QuestionID: 1, Choice: ChoiceB}})
	assert.Equal(t, MaxScore, v[Securite])
}

func TestQuestionValidate(t *testing.T) {
	tests := []struct {
		name    string
		q       Question
		a       Answer
		wantErr bool
	}{
		{name: "dilemma A", q: Question{Type: QuestionDilemma}, a: Answer{Choice: ChoiceA}},
		{name: "dilemma skip", q: Question{Type: QuestionDilemma}, a: Answer{Choice: ChoiceSkip}},
		{name: "dilemma garbage", q: Question{Type: QuestionDilemma}, a: Answer{Choice: "C"}, wantErr: true},
		{name: "slider ok", q: Question{Type: QuestionSlider}, a: Answer{Value: intPtr(100)}},
		{name: "slider missing", q: Question{Type: QuestionSlider}, a: Answer{}, wantErr: true},
		{name: "slider out of range", q: Question{Type: QuestionSlider}, a: Answer{Value: intPtr(101)}, wantErr: true},
		{name: "ranking ok", q: Question{Type: QuestionRanking}, a: Answer{Ranking: []Axis{Europe}}},
		{name: "ranking empty", q: Question{Type: QuestionRanking}, a: Answer{}, wantErr: true},
		{name: "ranking duplicate", q: Question{Type: QuestionRanking}, a: Answer{Ranking: []Axis{Europe, Europe}}, wantErr: true},
		{name: "citation no", q: Question{Type: QuestionCitation}, a: Answer{Agree: AgreeNo}},
		{name: "citation garbage", q: Question{Type: QuestionCitation}, a: Answer{Agree: "maybe"}, wantErr: true},
		{name: "unknown type", q: Question{Type: "essay"}, a: Answer{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.q.Validate(tt.a)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidAnswer))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestClassifyOrder(t *testing.T) {
	profiles := DefaultProfiles()

	// satisfies both "Gauche radicale" and "Écologiste"; the first wins
	v := Vector{}
	v[Economie], v[Social], v[Ecologie] = -60, -40, 70
	assert.Equal(t, "Gauche radicale", Classify(profiles, v))

	reversed := []Profile{profiles[1], profiles[0]}
	assert.Equal(t, "Écologiste", Classify(reversed, v))

	assert.Equal(t, "Centriste", Classify(profiles, Vector{}))

	odd := Vector{}
	odd[Economie], odd[Social] = 50, -50
	assert.Equal(t, Unclassifiable, Classify(profiles, odd))
	assert.Equal(t, Unclassifiable, Classify(nil, Vector{}))
}
