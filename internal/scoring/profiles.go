package scoring

// Unclassifiable is the label used when no profile matches.
const Unclassifiable = "Inclassable"

// Profile is a named predicate over a score vector.
type Profile struct {
	Label string
	Match func(Vector) bool
}

// Classify returns the label of the first matching profile. Order matters:
// borderline vectors can satisfy several predicates.
func Classify(profiles []Profile, v Vector) string {
	for _, p := range profiles {
		if p.Match(v) {
			return p.Label
		}
	}
	return Unclassifiable
}

// DefaultProfiles is the ordered production profile list.
func DefaultProfiles() []Profile {
	return []Profile{
		{Label: "Gauche radicale", Match: func(v Vector) bool {
			return v[Economie] <= -50 && v[Social] <= -30
		}},
		{Label: "Écologiste", Match: func(v Vector) bool {
			return v[Ecologie] >= 50 && v[Economie] <= 0
		}},
		{Label: "Social-démocrate", Match: func(v Vector) bool {
			return v[Economie] < 0 && v[Europe] >= 20
		}},
		{Label: "Souverainiste", Match: func(v Vector) bool {
			return v[Immigration] >= 50 && v[Europe] <= -30
		}},
		{Label: "Droite conservatrice", Match: func(v Vector) bool {
			return v[Economie] >= 30 && v[Social] >= 30
		}},
		{Label: "Libéral pro-européen", Match: func(v Vector) bool {
			return v[Economie] >= 30 && v[Europe] >= 30
		}},
		{Label: "Centriste", Match: func(v Vector) bool {
			for _, a := range AllAxes {
				if v[a] < -25 || v[a] > 25 {
					return false
				}
			}
			return true
		}},
	}
}
