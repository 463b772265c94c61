package textnorm

import (
	"math"
	"strings"
)

// builtinKeywords maps legal terms to importance multipliers. Multi-word
// terms are underscore-joined; only those the normalizer emits as a single
// token (see legalIdioms) can ever match a query token.
var builtinKeywords = map[string]float64{
	// Offenses
	"murder": 1.5, "homicide": 1.5, "manslaughter": 1.5,
	"robbery": 1.3, "theft": 1.3, "burglary": 1.3, "larceny": 1.3,
	"assault": 1.3, "battery": 1.3, "rape": 1.5, "fraud": 1.3,
	"forgery": 1.3, "perjury": 1.3, "bribery": 1.3,
	"custody": 1.2, "bail": 1.2, "parole": 1.2, "probation": 1.2,
	"dowry": 1.5, "cybercrime": 1.5, "terrorism": 1.5, "sedition": 1.5,
	"defamation": 1.4, "cheating": 1.3, "extortion": 1.4, "abetment": 1.3,
	"conspiracy": 1.4, "negligence": 1.3, "mischief": 1.2,

	// Procedure
	"evidence": 1.4, "testimony": 1.4, "witness": 1.4,
	"defendant": 1.2, "plaintiff": 1.2, "petitioner": 1.2,
	"appellant": 1.2, "respondent": 1.2, "prosecutor": 1.2,
	"acquittal": 1.4, "conviction": 1.4, "sentence": 1.3,
	"plea": 1.3, "guilty": 1.3, "not_guilty": 1.3,
	"appeal": 1.3, "revision": 1.3, "review": 1.2,
	"investigation": 1.3, "charge_sheet": 1.4, "chargesheet": 1.4,
	"summons": 1.2, "warrant": 1.3, "cognizable": 1.4, "non_cognizable": 1.4,
	"bailable": 1.3, "non_bailable": 1.3, "compoundable": 1.2,

	// Reasoning
	"precedent": 1.5, "ruling": 1.4, "judgment": 1.4,
	"statute": 1.4, "regulation": 1.3, "code": 1.4,
	"constitution": 1.4, "amendment": 1.3, "right": 1.3,
	"reasonable": 1.2, "burden_of_proof": 1.4, "beyond_reasonable_doubt": 1.5,
	"preponderance_of_evidence": 1.4, "motive": 1.3, "intention": 1.3,
	"mens_rea": 1.4, "actus_reus": 1.4, "ratio_decidendi": 1.5,
	"obiter_dicta": 1.4, "doctrine": 1.3, "jurisprudence": 1.4,
	"interpretation": 1.3, "construction": 1.2, "harmonious": 1.2,

	// Indian statutes and courts
	"ipc": 1.8, "crpc": 1.8, "cpc": 1.8, "it_act": 1.7, "mvc": 1.7,
	"section": 1.5, "act": 1.4, "article": 1.4,
	"fir": 1.5, "high_court": 1.5, "supreme_court": 1.6, "district_court": 1.4,
	"writ": 1.5, "petition": 1.3, "habeas_corpus": 1.5, "mandamus": 1.5,
	"certiorari": 1.5, "quo_warranto": 1.5, "prohibition": 1.4,
	"suo_moto": 1.4, "cognizance": 1.4, "first_information_report": 1.5,
	"fundamental_right": 1.6, "directive_principle": 1.5, "constitutional": 1.5,
	"nyaya_panchayat": 1.3, "lok_adalat": 1.3, "uniform_civil_code": 1.5,
	"personal_law": 1.4, "hindu_law": 1.4, "muslim_law": 1.4, "family_law": 1.4,
}

var defaultKeywords = NewKeywordTable(builtinKeywords)

// KeywordTable is an immutable term -> multiplier mapping
type KeywordTable struct {
	weights map[string]float64
}

// NewKeywordTable copies weights into a new table. Keys are lowercased and
// spaces become underscores; multipliers below 1.0 are raised to 1.0.
func NewKeywordTable(weights map[string]float64) *KeywordTable {
	t := &KeywordTable{weights: make(map[string]float64, len(weights))}
	for term, w := range weights {
		key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(term)), " ", "_")
		if key == "" {
			continue
		}
		t.weights[key] = math.Max(w, 1.0)
	}
	return t
}

// DefaultKeywords returns the built-in legal keyword table
func DefaultKeywords() *KeywordTable {
	return defaultKeywords
}

// BoostFactor returns the multiplier for token, 1.0 when absent
func (t *KeywordTable) BoostFactor(token string) float64 {
	if t == nil {
		return 1.0
	}
	if w, ok := t.weights[token]; ok {
		return w
	}
	return 1.0
}

// Has reports whether token carries a weight
func (t *KeywordTable) Has(token string) bool {
	if t == nil {
		return false
	}
	_, ok := t.weights[token]
	return ok
}


// EnhanceQuery normalizes raw and repeats every weighted token
// round(boost)-1 extra times immediately after itself, so raw term frequency
// carries the legal weight into the vectorizer.
func (t *KeywordTable) EnhanceQuery(raw string) string {
	tokens := Tokens(raw)
	enhanced := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		enhanced = append(enhanced, tok)
		if !t.Has(tok) {
			continue
		}
		extra := int(math.Round(t.BoostFactor(tok))) - 1
		for i := 0; i < extra; i++ {
			enhanced = append(enhanced, tok)
		}
	}
	return strings.Join(enhanced, " ")
}
