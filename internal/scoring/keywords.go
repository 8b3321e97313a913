package scoring

import (
	"sort"
	"strings"
)

// AxisWeight is a signed contribution of a keyword to one axis.
type AxisWeight struct {
	Axis   Axis
	Weight float64
}

type keywordRule struct {
	keyword string
	weights []AxisWeight
}

// KeywordTable maps lower-case title substrings to axis weights.
// The zero value matches nothing. A table is never mutated after construction.
type KeywordTable struct {
	rules []keywordRule
}

// NewKeywordTable copies the given rules into an immutable table.
// Keywords are lower-cased; empty keywords are ignored.
func NewKeywordTable(rules map[string]map[Axis]float64) KeywordTable {
	out := make([]keywordRule, 0, len(rules))
	for kw, weights := range rules {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" || len(weights) == 0 {
			continue
		}
		ws := make([]AxisWeight, 0, len(weights))
		for a, w := range weights {
			ws = append(ws, AxisWeight{Axis: a, Weight: w})
		}
		sort.Slice(ws, func(i, j int) bool { return ws[i].Axis < ws[j].Axis })
		out = append(out, keywordRule{keyword: kw, weights: ws})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].keyword < out[j].keyword })
	return KeywordTable{rules: out}
}

func (t KeywordTable) Len() int { return len(t.rules) }

// Match returns every (axis, weight) pair triggered by the title.
// One title can hit several keywords and several axes per keyword.
func (t KeywordTable) Match(title string) []AxisWeight {
	lower := strings.ToLower(title)
	var hits []AxisWeight
	for _, r := range t.rules {
		if strings.Contains(lower, r.keyword) {
			hits = append(hits, r.weights...)
		}
	}
	return hits
}

// DefaultKeywords is the production keyword table for French ballot titles.
func DefaultKeywords() KeywordTable {
	return NewKeywordTable(map[string]map[Axis]float64{
		// économie
		"budget":            {Economie: 20},
		"loi de finances":   {Economie: 30},
		"impôt":             {Economie: -30},
		"fiscal":            {Economie: 25},
		"cotisation":        {Economie: -20},
		"privatisation":     {Economie: 60},
		"nationalisation":   {Economie: -60},
		"smic":              {Economie: -40, Social: -20},
		"salaire minimum":   {Economie: -40},
		"assurance chômage": {Economie: 40, Social: 20},
		"entreprise":        {Economie: 30},
		"dette":             {Economie: 20},
		"retraite":          {Social: 40},
		"service public":    {Economie: -40},
		"logement social":   {Economie: -30, Social: -20},
		// société
		"mariage":    {Social: -50},
		"bioéthique": {Social: -40},
		"fin de vie": {Social: -50},
		"avortement": {Social: -60},
		"ivg":        {Social: -60},
		"laïcité":    {Social: 20, Institutions: 10},
		"famille":    {Social: 30},
		// écologie
		"climat":                {Ecologie: 60},
		"environnement":         {Ecologie: 50},
		"énergie renouvelable":  {Ecologie: 60},
		"nucléaire":             {Ecologie: -30},
		"biodiversité":          {Ecologie: 60},
		"pesticide":             {Ecologie: -50},
		"glyphosate":            {Ecologie: -60},
		"agricole":              {Ecologie: -10, Economie: 10},
		"transition écologique": {Ecologie: 70},
		// sécurité
		"sécurité":       {Securite: 50},
		"police":         {Securite: 40},
		"terrorisme":     {Securite: 60},
		"renseignement":  {Securite: 50},
		"état d'urgence": {Securite: 70, Institutions: 20},
		"surveillance":   {Securite: 50},
		"justice":        {Securite: 20},
		// europe
		"européen":         {Europe: 50},
		"union européenne": {Europe: 60},
		"traité":           {Europe: 30, International: 20},
		"souveraineté":     {Europe: -50},
		// immigration
		"immigration": {Immigration: 60},
		"asile":       {Immigration: 40},
		"étrangers":   {Immigration: 50},
		"nationalité": {Immigration: 40},
		"intégration": {Immigration: 30},
		// institutions
		"constitution":     {Institutions: 40},
		"49.3":             {Institutions: 60},
		"référendum":       {Institutions: -40},
		"proportionnelle":  {Institutions: -50},
		"décentralisation": {Institutions: -20},
		// international
		"otan":                    {International: 60},
		"défense":                 {International: 40, Securite: 20},
		"programmation militaire": {International: 50, Securite: 30},
		"ukraine":                 {International: 50},
		"coopération":             {International: -20},
		"accord commercial":       {International: 30, Economie: 40},
	})
}
