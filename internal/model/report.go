package model

import "time"

// Outcome classifies how a retrieval finished
type Outcome string

const (
	OutcomeOK           Outcome = "ok"            // Full result
	OutcomeNotFound     Outcome = "not_found"     // Section/act absent from the reference store
	OutcomeDegraded     Outcome = "degraded"      // Similarity ranking could not run
	OutcomeInvalidInput Outcome = "invalid_input" // Required field missing
)

// SimilarityResult pairs a precedent with its similarity to the query.
// Similarity is nil when ranking was not possible.
type SimilarityResult struct {
	CaseName   string   `json:"case_name"`
	Citation   string   `json:"citation"`
	Similarity *float64 `json:"similarity,omitempty"`
	Summary    string   `json:"summary"`
	KeyPoints  []string `json:"key_points"`
	Index      int      `json:"-"` // Position in the filtered corpus
}

// MatchResult is the Precedent Matcher's output
type MatchResult struct {
	Precedents []SimilarityResult `json:"precedents"`
	Ranked     bool               `json:"ranked"`
	Note       string             `json:"note,omitempty"`
}

// ScoredCandidate is a right or defense option with its per-query relevance
type ScoredCandidate struct {
	Candidate string  `json:"candidate"`
	Relevance float64 `json:"relevance"`
}

// Report is the complete analysis of one query
type Report struct {
	QueryID     string            `json:"query_id,omitempty"`
	Query       QueryContext      `json:"query"`
	Outcome     Outcome           `json:"outcome"`
	Message     string            `json:"message,omitempty"`
	GeneratedAt time.Time         `json:"generated_at"`
	Offense     *OffenseDetails   `json:"offense,omitempty"`
	Precedents  *MatchResult      `json:"precedents,omitempty"`
	Rights      []ScoredCandidate `json:"rights,omitempty"`
	Defenses    []ScoredCandidate `json:"defenses,omitempty"`
	// Sections the description itself mentions ("section 34 of the IPC")
	MentionedSections []SectionMention `json:"mentioned_sections,omitempty"`
	KeySentences      []string         `json:"key_sentences,omitempty"`
	Source            *SourceDocument  `json:"source,omitempty"` // Set when the description was fetched by URL
	Notes             []string         `json:"notes,omitempty"`
}

// NotFoundMessage renders the standard message for an unknown section/act pair
func NotFoundMessage(section string, act Act) string {
	return "Section " + section + " not found in " + string(act)
}

// SectionMention is a statute reference found in a case description
type SectionMention struct {
	Section string `json:"section"`
	Act     Act    `json:"act,omitempty"`
	Known   bool   `json:"known"` // Present in the reference store
}

// SourceDocument records where a fetched description came from
type SourceDocument struct {
	URL          string    `json:"url"`
	Subject      string    `json:"subject,omitempty"`
	LastModified string    `json:"last_modified,omitempty"`
	FetchedAt    time.Time `json:"fetched_at"`
}
