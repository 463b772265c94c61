package score

import (
	"math"
	"sort"
	"strings"

	"github.com/ppiankov/casematch/internal/model"
	"github.com/ppiankov/casematch/internal/textnorm"
)

// Base relevance priors
const (
	SpecificDefenseBase = 0.9
	GenericDefenseBase  = 0.7

	NonBailableBailRight = 0.9
	BailableBailRight    = 0.7
	AppealRight          = 0.8
	RepresentationRight  = 1.0
	OtherRight           = 0.6

	// FallbackRight is used for general rights when the offense is unknown
	FallbackRight = 0.5

	boostPerTerm = 0.1
	maxBoost     = 0.3
)

// Scorer ranks rights and defense options for a case description
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// ScoreCandidates scores defense options. Candidates in specific start at
// SpecificDefenseBase, all others at GenericDefenseBase; both get the lexical
// boost. Duplicates keep their first position.
func (s *Scorer) ScoreCandidates(candidates []string, description string, specific map[string]bool) []model.ScoredCandidate {
	descTerms := textnorm.TokenSet(description)

	scored := make([]model.ScoredCandidate, 0, len(candidates))
	for _, c := range dedupe(candidates) {
		base := GenericDefenseBase
		if specific[c] {
			base = SpecificDefenseBase
		}
		scored = append(scored, model.ScoredCandidate{
			Candidate: c,
			Relevance: finalize(base + boost(c, descTerms)),
		})
	}

	rank(scored)
	return scored
}

// ScoreDefenses scores common followed by specific options
func (s *Scorer) ScoreDefenses(common, specific []string, description string) []model.ScoredCandidate {
	set := make(map[string]bool, len(specific))
	for _, o := range specific {
		set[o] = true
	}

	all := make([]string, 0, len(common)+len(specific))
	all = append(all, common...)
	all = append(all, specific...)
	return s.ScoreCandidates(all, description, set)
}

// ScoreRights scores rights by category prior plus the lexical boost.
// Priors are checked in order: bail (depends on bail status), appeal,
// legal representation, everything else.
func (s *Scorer) ScoreRights(rights []string, description string, bail model.BailStatus) []model.ScoredCandidate {
	descTerms := textnorm.TokenSet(description)

	scored := make([]model.ScoredCandidate, 0, len(rights))
	for _, r := range dedupe(rights) {
		scored = append(scored, model.ScoredCandidate{
			Candidate: r,
			Relevance: finalize(rightPrior(r, bail) + boost(r, descTerms)),
		})
	}

	rank(scored)
	return scored
}

// FallbackRights returns the general rights at FallbackRight in catalogue
// order, used when the offense cannot be found
func (s *Scorer) FallbackRights(general []string) []model.ScoredCandidate {
	out := make([]model.ScoredCandidate, 0, len(general))
	for _, r := range dedupe(general) {
		out = append(out, model.ScoredCandidate{Candidate: r, Relevance: FallbackRight})
	}
	return out
}

// LexicalBoost returns min(0.3, 0.1 * shared distinct normalized terms)
func LexicalBoost(candidate, description string) float64 {
	return boost(candidate, textnorm.TokenSet(description))
}

func rightPrior(right string, bail model.BailStatus) float64 {
	lower := strings.ToLower(right)
	switch {
	case strings.Contains(lower, "bail"):
		if bail.IsNonBailable() {
			return NonBailableBailRight
		}
		return BailableBailRight
	case strings.Contains(lower, "appeal"):
		return AppealRight
	case strings.Contains(lower, "legal representation"):
		return RepresentationRight
	default:
		return OtherRight
	}
}

func boost(candidate string, descTerms map[string]struct{}) float64 {
	shared := 0
	for term := range textnorm.TokenSet(candidate) {
		if _, ok := descTerms[term]; ok {
			shared++
		}
	}
	return math.Min(maxBoost, float64(shared)*boostPerTerm)
}

// finalize clamps to [0,1] and rounds to 4 decimals so 0.7+0.1 reads as 0.8
func finalize(x float64) float64 {
	x = math.Max(0, math.Min(1, x))
	return math.Round(x*1e4) / 1e4
}

// rank sorts by relevance descending; ties keep catalogue order
func rank(scored []model.ScoredCandidate) {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Relevance > scored[j].Relevance
	})
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out
}
