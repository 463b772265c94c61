// Package match ranks precedents against a case narrative
package match

import (
	"sort"

	"github.com/ppiankov/casematch/internal/logger"
	"github.com/ppiankov/casematch/internal/model"
	"github.com/ppiankov/casematch/internal/similarity"
	"github.com/ppiankov/casematch/internal/textnorm"
)

// DegradedNote is attached to results that could not be ranked
const DegradedNote = "Similarity calculation failed, showing relevant precedents without ranking"

// PrecedentSource supplies the precedent corpus
type PrecedentSource interface {
	Precedents() []model.Precedent
	PrecedentsForSection(section string, act model.Act) []model.Precedent
}

// Matcher finds the precedents most similar to a query
type Matcher struct {
	source     PrecedentSource
	keywords   *textnorm.KeywordTable
	vectorizer *similarity.Vectorizer
}

// NewMatcher creates a matcher. A nil keyword table or vectorizer falls back
// to the defaults.
func NewMatcher(source PrecedentSource, keywords *textnorm.KeywordTable, vectorizer *similarity.Vectorizer) *Matcher {
	if keywords == nil {
		keywords = textnorm.DefaultKeywords()
	}
	if vectorizer == nil {
		vectorizer = similarity.NewVectorizer(similarity.DefaultOptions())
	}
	return &Matcher{
		source:     source,
		keywords:   keywords,
		vectorizer: vectorizer,
	}
}

// FindSimilar returns up to topK precedents ranked by similarity to query.
// When both section and act are set, only precedents for that act whose
// section field contains section are considered. topK <= 0 means
// model.DefaultTopK.
func (m *Matcher) FindSimilar(query, section string, act model.Act, topK int) model.MatchResult {
	if topK <= 0 {
		topK = model.DefaultTopK
	}

	candidates := m.candidates(section, act)
	if len(candidates) == 0 {
		return model.MatchResult{Precedents: []model.SimilarityResult{}, Ranked: true}
	}

	corpus := make([]string, len(candidates))
	for i, p := range candidates {
		corpus[i] = textnorm.Normalize(p.Summary)
	}
	enhanced := m.keywords.EnhanceQuery(query)

	scores, err := m.vectorizer.Similarity(corpus, enhanced)
	if err != nil {
		logger.Warn("precedent ranking degraded: %v", err)
		return degraded(candidates, topK)
	}

	results := make([]model.SimilarityResult, len(candidates))
	for i, p := range candidates {
		results[i] = toResult(p, i)
		s := scores[i]
		results[i].Similarity = &s
	}

	sort.SliceStable(results, func(i, j int) bool {
		return *results[i].Similarity > *results[j].Similarity
	})

	if len(results) > topK {
		results = results[:topK]
	}
	logger.Debug("ranked %d of %d precedents", len(results), len(candidates))

	return model.MatchResult{Precedents: results, Ranked: true}
}

func (m *Matcher) candidates(section string, act model.Act) []model.Precedent {
	if section != "" && act != "" {
		return m.source.PrecedentsForSection(section, act)
	}
	return m.source.Precedents()
}

func degraded(candidates []model.Precedent, topK int) model.MatchResult {
	n := min(topK, len(candidates))
	results := make([]model.SimilarityResult, n)
	for i := range n {
		results[i] = toResult(candidates[i], i)
	}
	return model.MatchResult{Precedents: results, Ranked: false, Note: DegradedNote}
}

func toResult(p model.Precedent, index int) model.SimilarityResult {
	return model.SimilarityResult{
		CaseName:  p.CaseName,
		Citation:  p.Citation,
		Summary:   p.Summary,
		KeyPoints: p.KeyPoints,
		Index:     index,
	}
}
