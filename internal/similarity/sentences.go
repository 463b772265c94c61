package similarity

import (
	"sort"

	"github.com/ppiankov/casematch/internal/textnorm"
)

// KeySentences returns the n most central sentences of text in document
// order. Centrality is the row sum of the sentence similarity matrix. When
// text has n or fewer sentences, or no sentence carries a usable term, the
// sentences come back unranked.
func (v *Vectorizer) KeySentences(text string, n int) []string {
	sentences := textnorm.SplitSentences(text, 1)
	if n <= 0 {
		return nil
	}
	if len(sentences) <= n {
		return sentences
	}

	docs := make([]string, len(sentences))
	for i, s := range sentences {
		docs[i] = textnorm.Normalize(s)
	}

	matrix, err := v.Pairwise(docs)
	if err != nil {
		return sentences[:n]
	}

	scores := make([]float64, len(matrix))
	for i, row := range matrix {
		for _, s := range row {
			scores[i] += s
		}
	}

	order := make([]int, len(sentences))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	top := order[:n]
	sort.Ints(top)

	out := make([]string, 0, n)
	for _, i := range top {
		out = append(out, sentences[i])
	}
	return out
}
