package textnorm

import "strings"

// SplitSentences splits text on '.', '!' and '?' followed by whitespace.
// Fragments shorter than minLen bytes are dropped.
func SplitSentences(text string, minLen int) []string {
	text = strings.ReplaceAll(text, "\n", " ")

	var sentences []string
	var current strings.Builder

	flush := func() {
		sentence := strings.TrimSpace(current.String())
		if sentence != "" && len(sentence) >= minLen {
			sentences = append(sentences, sentence)
		}
		current.Reset()
	}

	runes := []rune(text)
	for i, r := range runes {
		current.WriteRune(r)
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		// "No. 12" and "Rs.500" stay in one sentence
		if i+1 < len(runes) && (runes[i+1] == ' ' || runes[i+1] == '\t') && !isAbbreviation(current.String()) {
			flush()
		}
	}
	flush()

	return sentences
}

var abbreviations = map[string]bool{
	"no.": true, "nos.": true, "vs.": true, "v.": true, "sec.": true,
	"s.": true, "art.": true, "rs.": true, "mr.": true, "mrs.": true,
	"ms.": true, "dr.": true, "hon'ble.": true, "ltd.": true, "co.": true,
}

func isAbbreviation(s string) bool {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return false
	}
	return abbreviations[strings.ToLower(fields[len(fields)-1])]
}
