// Package similarity implements the lexical vector space used to rank
// precedents: sublinear TF-IDF over unigrams and bigrams with cosine scoring.
//
// A Vectorizer holds only options. Every call builds its vocabulary from the
// documents it is given, so one Vectorizer is safe for concurrent use.
package similarity

import (
	"errors"
	"math"
	"sort"
	"strings"
	"unicode/utf8"
)

// ErrEmptyVocabulary is returned when no document yields a single feature
var ErrEmptyVocabulary = errors.New("empty vocabulary: documents contain no usable terms")

const (
	DefaultMaxFeatures = 10000
	DefaultNGramMax    = 2
	DefaultMinTokenLen = 2
)

// Options configures feature extraction and weighting
type Options struct {
	MaxFeatures int
	NGramMax    int
	MinTokenLen int
	SublinearTF bool
	SmoothIDF   bool
}

// DefaultOptions returns the settings used for precedent retrieval
func DefaultOptions() Options {
	return Options{
		MaxFeatures: DefaultMaxFeatures,
		NGramMax:    DefaultNGramMax,
		MinTokenLen: DefaultMinTokenLen,
		SublinearTF: true,
		SmoothIDF:   true,
	}
}

// Vectorizer turns pre-normalized documents into L2-normalized TF-IDF rows
type Vectorizer struct {
	opts Options
}

// NewVectorizer creates a vectorizer. Zero or negative numeric options fall
// back to their defaults.
func NewVectorizer(opts Options) *Vectorizer {
	if opts.MaxFeatures <= 0 {
		opts.MaxFeatures = DefaultMaxFeatures
	}
	if opts.NGramMax <= 0 {
		opts.NGramMax = DefaultNGramMax
	}
	if opts.MinTokenLen <= 0 {
		opts.MinTokenLen = DefaultMinTokenLen
	}
	return &Vectorizer{opts: opts}
}

// Vector is a sparse row keyed by feature index
type Vector map[int]float64

// Dot returns the inner product of two sparse vectors
func (a Vector) Dot(b Vector) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for i, x := range a {
		sum += x * b[i]
	}
	return sum
}

// Norm returns the Euclidean length of the vector
func (a Vector) Norm() float64 {
	var sum float64
	for _, x := range a {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Cosine returns (a·b)/(|a||b|) clamped to [0,1]; 0 when either norm is 0
func Cosine(a, b Vector) float64 {
	na, nb := a.Norm(), b.Norm()
	if na == 0 || nb == 0 {
		return 0
	}
	return clamp01(a.Dot(b) / (na * nb))
}

// Space is a fitted vocabulary with one weighted row per input document
type Space struct {
	Vocabulary []string
	Rows       []Vector
}

// Fit builds a vector space over docs. Documents are expected to be already
// normalized; tokens are whitespace-separated.
func (v *Vectorizer) Fit(docs []string) (*Space, error) {
	grams := make([][]string, len(docs))
	totals := make(map[string]int)
	for i, doc := range docs {
		grams[i] = v.features(doc)
		for _, g := range grams[i] {
			totals[g]++
		}
	}
	if len(totals) == 0 {
		return nil, ErrEmptyVocabulary
	}

	vocab := topTerms(totals, v.opts.MaxFeatures)
	index := make(map[string]int, len(vocab))
	for i, term := range vocab {
		index[term] = i
	}

	counts := make([]map[int]int, len(docs))
	df := make([]int, len(vocab))
	for i, doc := range grams {
		counts[i] = make(map[int]int)
		for _, g := range doc {
			if j, ok := index[g]; ok {
				counts[i][j]++
			}
		}
		for j := range counts[i] {
			df[j]++
		}
	}

	idf := make([]float64, len(vocab))
	n := float64(len(docs))
	for j, d := range df {
		if v.opts.SmoothIDF {
			idf[j] = math.Log((1+n)/(1+float64(d))) + 1
		} else {
			idf[j] = math.Log(n/float64(d)) + 1
		}
	}

	rows := make([]Vector, len(docs))
	for i, c := range counts {
		row := make(Vector, len(c))
		for j, count := range c {
			tf := float64(count)
			if v.opts.SublinearTF {
				tf = 1 + math.Log(tf)
			}
			row[j] = tf * idf[j]
		}
		normalize(row)
		rows[i] = row
	}

	return &Space{Vocabulary: vocab, Rows: rows}, nil
}

// Similarity scores query against every corpus entry, returning one value in
// [0,1] per entry in corpus order. The space is built over corpus+query.
func (v *Vectorizer) Similarity(corpus []string, query string) ([]float64, error) {
	if len(corpus) == 0 {
		return []float64{}, nil
	}

	docs := make([]string, 0, len(corpus)+1)
	docs = append(docs, corpus...)
	docs = append(docs, query)

	space, err := v.Fit(docs)
	if err != nil {
		return nil, err
	}

	q := space.Rows[len(corpus)]
	scores := make([]float64, len(corpus))
	for i := range corpus {
		scores[i] = Cosine(q, space.Rows[i])
	}
	return scores, nil
}

// Pairwise returns the symmetric cosine similarity matrix of docs
func (v *Vectorizer) Pairwise(docs []string) ([][]float64, error) {
	space, err := v.Fit(docs)
	if err != nil {
		return nil, err
	}

	m := make([][]float64, len(docs))
	for i := range m {
		m[i] = make([]float64, len(docs))
	}
	for i := range space.Rows {
		for j := i; j < len(space.Rows); j++ {
			s := Cosine(space.Rows[i], space.Rows[j])
			m[i][j] = s
			m[j][i] = s
		}
	}
	return m, nil
}

// features expands doc into unigrams and adjacent n-grams up to NGramMax.
// Tokens shorter than MinTokenLen runes are dropped before n-grams form.
func (v *Vectorizer) features(doc string) []string {
	var tokens []string
	for _, tok := range strings.Fields(doc) {
		if utf8.RuneCountInString(tok) >= v.opts.MinTokenLen {
			tokens = append(tokens, tok)
		}
	}

	out := make([]string, 0, len(tokens)*v.opts.NGramMax)
	out = append(out, tokens...)
	for n := 2; n <= v.opts.NGramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}

// topTerms keeps the max most frequent terms; equal counts sort by term.
// The result is in vocabulary (lexicographic) order.
func topTerms(totals map[string]int, max int) []string {
	terms := make([]string, 0, len(totals))
	for t := range totals {
		terms = append(terms, t)
	}

	if len(terms) > max {
		sort.Slice(terms, func(i, j int) bool {
			if totals[terms[i]] != totals[terms[j]] {
				return totals[terms[i]] > totals[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:max]
	}

	sort.Strings(terms)
	return terms
}

func normalize(row Vector) {
	norm := row.Norm()
	if norm == 0 {
		return
	}
	for j := range row {
		row[j] /= norm
	}
}

func clamp01(x float64) float64 {
	switch {
	case x < 0:
		return 0
	case x > 1:
		return 1
	default:
		return x
	}
}
