package refstore

import (
	"strings"

	"github.com/ppiankov/casematch/internal/model"
)

// SearchResults groups free-text search hits
type SearchResults struct {
	Sections   []model.LegalSection `json:"sections"`
	Precedents []model.Precedent    `json:"precedents"`
}

// Empty reports whether nothing matched
func (r SearchResults) Empty() bool {
	return len(r.Sections) == 0 && len(r.Precedents) == 0
}

// Search does a case-insensitive substring search over section ids and titles
// of every act, and over precedent names, summaries and key points
func (s *Store) Search(query string) SearchResults {
	q := strings.ToLower(strings.TrimSpace(query))
	results := SearchResults{
		Sections:   []model.LegalSection{},
		Precedents: []model.Precedent{},
	}
	if q == "" {
		return results
	}

	for _, act := range model.KnownActs {
		for _, sec := range s.sections[act] {
			if strings.Contains(strings.ToLower(sec.Title), q) || strings.Contains(strings.ToLower(sec.Section), q) {
				results.Sections = append(results.Sections, sec)
			}
		}
	}

	for _, p := range s.precedents {
		if precedentMatches(p, q) {
			results.Precedents = append(results.Precedents, clonePrecedent(p))
		}
	}

	return results
}

func precedentMatches(p model.Precedent, q string) bool {
	if strings.Contains(strings.ToLower(p.CaseName), q) || strings.Contains(strings.ToLower(p.Summary), q) {
		return true
	}
	for _, point := range p.KeyPoints {
		if strings.Contains(strings.ToLower(point), q) {
			return true
		}
	}
	return false
}
