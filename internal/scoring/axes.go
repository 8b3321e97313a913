package scoring

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Axis is one of the eight political dimensions.
type Axis int

const (
	Economie Axis = iota
	Social
	Ecologie
	Securite
	Europe
	Immigration
	Institutions
	International

	AxisCount = 8
)

const (
	MinScore = -100
	MaxScore = 100
)

var axisNames = [AxisCount]string{
	"economie",
	"social",
	"ecologie",
	"securite",
	"europe",
	"immigration",
	"institutions",
	"international",
}

// AllAxes lists the axes in storage order.
var AllAxes = [AxisCount]Axis{Economie, Social, Ecologie, Securite, Europe, Immigration, Institutions, International}

func (a Axis) String() string {
	if a < 0 || int(a) >= AxisCount {
		return fmt.Sprintf("axis(%d)", int(a))
	}
	return axisNames[a]
}

func (a Axis) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Axis) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, ok := ParseAxis(name)
	if !ok {
		return fmt.Errorf("unknown axis %q", name)
	}
	*a = parsed
	return nil
}

// ParseAxis resolves an axis by name. Accented spellings are accepted.
func ParseAxis(name string) (Axis, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.NewReplacer("é", "e", "è", "e", "ê", "e").Replace(n)
	for i, candidate := range axisNames {
		if candidate == n {
			return Axis(i), true
		}
	}
	return 0, false
}

// Vector holds one score per axis, each within [MinScore, MaxScore].
type Vector [AxisCount]int

func (v Vector) Get(a Axis) int { return v[a] }

// Map returns the vector keyed by axis name.
func (v Vector) Map() map[string]int {
	out := make(map[string]int, AxisCount)
	for _, a := range AllAxes {
		out[a.String()] = v[a]
	}
	return out
}

func (v Vector) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Map())
}

func (v *Vector) UnmarshalJSON(data []byte) error {
	var m map[string]int
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	var out Vector
	for name, score := range m {
		a, ok := ParseAxis(name)
		if !ok {
			return fmt.Errorf("unknown axis %q", name)
		}
		out[a] = Clamp(score)
	}
	*v = out
	return nil
}

// Clamp bounds a score to [MinScore, MaxScore].
func Clamp(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

// accumulator keeps a running sum and count per axis.
type accumulator struct {
	sum   [AxisCount]float64
	count [AxisCount]int
}

func (acc *accumulator) add(a Axis, value float64) {
	acc.sum[a] += value
	acc.count[a]++
}

// vector normalizes to round(sum/count), clamped. Axes never touched stay 0.
func (acc *accumulator) vector() Vector {
	var v Vector
	for _, a := range AllAxes {
		if acc.count[a] == 0 {
			continue
		}
		v[a] = Clamp(int(math.Round(acc.sum[a] / float64(acc.count[a]))))
	}
	return v
}

// AxisLabel describes what each end of an axis means.
type AxisLabel struct {
	Name     string `json:"name"`
	Negative string `json:"negative"`
	Positive string `json:"positive"`
}

// AxisLabels documents the polarity convention of every axis.
var AxisLabels = map[Axis]AxisLabel{
	Economie:      {Name: "Économie", Negative: "Interventionniste", Positive: "Libérale"},
	Social:        {Name: "Société", Negative: "Progressiste", Positive: "Conservatrice"},
	Ecologie:      {Name: "Écologie", Negative: "Productiviste", Positive: "Écologiste"},
	Securite:      {Name: "Sécurité", Negative: "Libertés publiques", Positive: "Ordre et fermeté"},
	Europe:        {Name: "Europe", Negative: "Souverainiste", Positive: "Fédéraliste"},
	Immigration:   {Name: "Immigration", Negative: "Ouverture", Positive: "Restriction"},
	Institutions:  {Name: "Institutions", Negative: "Rupture institutionnelle", Positive: "Stabilité de la Ve République"},
	International: {Name: "International", Negative: "Non-alignement", Positive: "Atlantisme"},
}

// LabelsByName returns AxisLabels keyed by axis name, for API responses.
func LabelsByName() map[string]AxisLabel {
	out := make(map[string]AxisLabel, len(AxisLabels))
	for a, l := range AxisLabels {
		out[a.String()] = l
	}
	return out
}
