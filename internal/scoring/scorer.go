package scoring

// VerifiedThreshold is the number of analyzed votes from which scores are verified.
const VerifiedThreshold = 20

type ScoreType string

const (
	ScoreEstimated ScoreType = "estimated"
	ScoreVerified  ScoreType = "verified"
)

// CastVote is one for/against vote on a titled ballot.
// Abstentions and absences never reach the scorer.
type CastVote struct {
	BallotTitle string
	For         bool
}

// DeclaredPosition is a candidate's own stance on one axis.
type DeclaredPosition struct {
	Axis  Axis
	Score int
}

// Result is the outcome of one scoring pass.
type Result struct {
	Scores        Vector    `json:"scores"`
	ScoreType     ScoreType `json:"score_type"`
	VotesAnalyzed int       `json:"votes_analyzed"`
	VotesSeen     int       `json:"votes_seen"`
}

// Scorer projects votes onto the axes using a keyword table.
type Scorer struct {
	keywords KeywordTable
}

func NewScorer(keywords KeywordTable) *Scorer {
	return &Scorer{keywords: keywords}
}

// ScoreVotes accumulates weight*multiplier for every keyword hit in every
// ballot title, multiplier being +1 for a "pour" vote and -1 for "contre".
// Ballots with no keyword hit are seen but not analyzed.
func (s *Scorer) ScoreVotes(votes []CastVote) Result {
	var acc accumulator
	analyzed := 0
	for _, v := range votes {
		hits := s.keywords.Match(v.BallotTitle)
		if len(hits) == 0 {
			continue
		}
		analyzed++
		multiplier := -1.0
		if v.For {
			multiplier = 1.0
		}
		for _, h := range hits {
			acc.add(h.Axis, h.Weight*multiplier)
		}
	}

	scoreType := ScoreEstimated
	if analyzed >= VerifiedThreshold {
		scoreType = ScoreVerified
	}
	return Result{
		Scores:        acc.vector(),
		ScoreType:     scoreType,
		VotesAnalyzed: analyzed,
		VotesSeen:     len(votes),
	}
}

// ScorePositions averages declared positions per axis. The sign is already
// part of each declared score, so no multiplier applies. Always estimated.
func ScorePositions(positions []DeclaredPosition) Result {
	var acc accumulator
	for _, p := range positions {
		if p.Axis < 0 || int(p.Axis) >= AxisCount {
			continue
		}
		acc.add(p.Axis, float64(p.Score))
	}
	return Result{
		Scores:    acc.vector(),
		ScoreType: ScoreEstimated,
	}
}
