// Package textnorm turns free legal text into normalized token streams and
// applies the legal keyword weighting used to build similarity queries.
package textnorm

import (
	"regexp"
	"strings"
)

var (
	// "section 302" / "Section 304A" -> section_302 / section_304a
	sectionPattern = regexp.MustCompile(`\bsection\s+(\d+[a-z]*)\b`)
	nonWordPattern = regexp.MustCompile(`[^\p{L}\p{N}_\s]+`)
)

// legalIdioms are rewritten to single underscore-joined tokens
var legalIdioms = []string{
	"beyond reasonable doubt",
	"burden of proof",
	"prima facie",
	"mens rea",
	"actus reus",
	"habeas corpus",
	"amicus curiae",
	"sui generis",
	"sine qua non",
	"res judicata",
}

var idiomPatterns = compileIdioms(legalIdioms)

type idiomPattern struct {
	re    *regexp.Regexp
	token string
}

func compileIdioms(idioms []string) []idiomPattern {
	out := make([]idiomPattern, 0, len(idioms))
	for _, idiom := range idioms {
		out = append(out, idiomPattern{
			re:    regexp.MustCompile(`\b` + regexp.QuoteMeta(idiom) + `\b`),
			token: strings.ReplaceAll(idiom, " ", "_"),
		})
	}
	return out
}

// Normalize lowercases text, keeps section references and legal idioms as
// single tokens, strips punctuation, standalone numbers and stopwords, and
// returns the remaining tokens joined by single spaces. Empty input yields "".
func Normalize(text string) string {
	return strings.Join(Tokens(text), " ")
}

// Tokens is Normalize without the final join
func Tokens(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	s := strings.ToLower(text)
	s = sectionPattern.ReplaceAllString(s, "section_$1")
	s = nonWordPattern.ReplaceAllString(s, " ")
	s = strings.Join(strings.Fields(s), " ")
	for _, p := range idiomPatterns {
		s = p.re.ReplaceAllString(s, p.token)
	}

	fields := strings.Fields(s)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if isDigits(f) || stopwords[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// TokenSet returns the distinct normalized tokens of text
func TokenSet(text string) map[string]struct{} {
	tokens := Tokens(text)
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// Overlap counts the distinct normalized tokens shared by a and b
func Overlap(a, b string) int {
	setA := TokenSet(a)
	count := 0
	for t := range TokenSet(b) {
		if _, ok := setA[t]; ok {
			count++
		}
	}
	return count
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
