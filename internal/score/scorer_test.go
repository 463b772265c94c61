package score

import (
	"math"
	"testing"

	"github.com/ppiankov/casematch/internal/model"
	"github.com/ppiankov/casematch/internal/refstore"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScorer_ScoreDefenses_Murder(t *testing.T) {
	store, err := refstore.Default()
	if err != nil {
		t.Fatalf("load store: %v", err)
	}
	common, specific := store.DefenseOptions("302", model.ActIPC)

	scored := NewScorer().ScoreDefenses(common, specific, "no evidence of premeditation")

	if len(scored) != len(common)+len(specific) {
		t.Fatalf("Expected %d options, got %d", len(common)+len(specific), len(scored))
	}

	// Offense-specific options lead at 0.9
	for i := 0; i < len(specific); i++ {
		if scored[i].Candidate != specific[i] || !approx(scored[i].Relevance, 0.9) {
			t.Errorf("Position %d: expected %q at 0.9, got %q at %.2f", i, specific[i], scored[i].Candidate, scored[i].Relevance)
		}
	}

	// "evidence" overlap lifts the admissibility challenge above other generic options
	next := scored[len(specific)]
	if next.Candidate != "Challenge the admissibility of evidence" || !approx(next.Relevance, 0.8) {
		t.Errorf("Expected admissibility challenge at 0.8, got %q at %.2f", next.Candidate, next.Relevance)
	}

	for _, sc := range scored[len(specific)+1:] {
		if !approx(sc.Relevance, 0.7) {
			t.Errorf("Expected %q at 0.7, got %.2f", sc.Candidate, sc.Relevance)
		}
	}
}

func TestScorer_ScoreCandidates_BoostIsMonotonic(t *testing.T) {
	scorer := NewScorer()
	candidate := "Challenge chain of custody for electronic evidence"
	descriptions := []string{
		"phone seized",
		"phone seized as evidence",
		"electronic evidence on the phone",
		"electronic evidence custody gaps",
		"electronic evidence custody chain broken",
	}

	prev := -1.0
	for _, d := range descriptions {
		scored := scorer.ScoreCandidates([]string{candidate}, d, nil)
		if scored[0].Relevance < prev {
			t.Errorf("Relevance dropped from %.2f to %.2f for %q", prev, scored[0].Relevance, d)
		}
		prev = scored[0].Relevance
	}

	if !approx(prev, 1.0) {
		t.Errorf("Expected 0.7 + 0.3 boost = 1.0, got %.2f", prev)
	}
}

func TestScorer_ScoreCandidates_CappedAtOne(t *testing.T) {
	scored := NewScorer().ScoreCandidates(
		[]string{"Challenge breathalyzer calibration testing procedure"},
		"breathalyzer calibration testing procedure was faulty",
		map[string]bool{"Challenge breathalyzer calibration testing procedure": true},
	)

	if scored[0].Relevance != 1.0 {
		t.Errorf("Expected relevance capped at 1.0, got %.4f", scored[0].Relevance)
	}
}

func TestLexicalBoost(t *testing.T) {
	tests := []struct {
		candidate   string
		description string
		want        float64
	}{
		{"Establish alibi", "accused was abroad", 0.0},
		{"Question witness credibility", "sole witness is hostile", 0.1},
		{"Question witness credibility", "witness credibility doubtful", 0.2},
		{"alpha beta gamma delta", "alpha beta gamma delta", 0.3},
		{"Establish alibi", "", 0.0},
	}

	for _, tt := range tests {
		if got := LexicalBoost(tt.candidate, tt.description); !approx(got, tt.want) {
			t.Errorf("LexicalBoost(%q, %q) = %.2f, want %.2f", tt.candidate, tt.description, got, tt.want)
		}
	}
}

func TestScorer_ScoreRights_Priors(t *testing.T) {
	rights := []string{
		"Right to remain silent",
		"Right to appeal to higher courts",
		"Right to apply for regular bail under Section 439 of CrPC",
		"Right to legal representation",
	}

	tests := []struct {
		name  string
		bail  model.BailStatus
		order []string
		rel   []float64
	}{
		{
			name: "non-bailable",
			bail: model.NonBailable,
			order: []string{
				"Right to legal representation",
				"Right to apply for regular bail under Section 439 of CrPC",
				"Right to appeal to higher courts",
				"Right to remain silent",
			},
			rel: []float64{1.0, 0.9, 0.8, 0.6},
		},
		{
			name: "bailable",
			bail: model.Bailable,
			order: []string{
				"Right to legal representation",
				"Right to appeal to higher courts",
				"Right to apply for regular bail under Section 439 of CrPC",
				"Right to remain silent",
			},
			rel: []float64{1.0, 0.8, 0.7, 0.6},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scored := NewScorer().ScoreRights(rights, "", tt.bail)
			if len(scored) != len(tt.order) {
				t.Fatalf("Expected %d rights, got %d", len(tt.order), len(scored))
			}
			for i := range scored {
				if scored[i].Candidate != tt.order[i] || !approx(scored[i].Relevance, tt.rel[i]) {
					t.Errorf("Position %d: expected %q at %.1f, got %q at %.2f",
						i, tt.order[i], tt.rel[i], scored[i].Candidate, scored[i].Relevance)
				}
			}
		})
	}
}

func TestScorer_ScoreRights_BailCheckedBeforeAppeal(t *testing.T) {
	scored := NewScorer().ScoreRights([]string{"Right to appeal against rejection of bail"}, "", model.NonBailable)

	if !approx(scored[0].Relevance, 0.9) {
		t.Errorf("Expected bail prior 0.9, got %.2f", scored[0].Relevance)
	}
}

func TestScorer_ScoreRights_LexicalBoost(t *testing.T) {
	scored := NewScorer().ScoreRights([]string{"Right to speedy trial"}, "trial delayed for years", model.Bailable)

	if !approx(scored[0].Relevance, 0.7) {
		t.Errorf("Expected 0.6 + 0.1, got %.2f", scored[0].Relevance)
	}
}

func TestScorer_Dedupe(t *testing.T) {
	scored := NewScorer().ScoreCandidates([]string{"Establish alibi", "Self-defense", "Establish alibi"}, "", nil)

	if len(scored) != 2 {
		t.Fatalf("Expected 2 unique candidates, got %d", len(scored))
	}
	if scored[0].Candidate != "Establish alibi" || scored[1].Candidate != "Self-defense" {
		t.Errorf("Expected first-occurrence order, got %v", scored)
	}
}

func TestScorer_TiesKeepCatalogueOrder(t *testing.T) {
	candidates := []string{"Delta", "Alpha", "Charlie", "Bravo"}
	scored := NewScorer().ScoreCandidates(candidates, "nothing shared", nil)

	for i, c := range candidates {
		if scored[i].Candidate != c {
			t.Errorf("Position %d: expected %q, got %q", i, c, scored[i].Candidate)
		}
	}
}

func TestScorer_FallbackRights(t *testing.T) {
	general := []string{"Right to legal representation", "Right to remain silent"}
	scored := NewScorer().FallbackRights(general)

	if len(scored) != 2 {
		t.Fatalf("Expected 2 rights, got %d", len(scored))
	}
	for i, sc := range scored {
		if sc.Candidate != general[i] || sc.Relevance != FallbackRight {
			t.Errorf("Position %d: expected %q at %.1f, got %q at %.2f", i, general[i], FallbackRight, sc.Candidate, sc.Relevance)
		}
	}
}

func TestScorer_AllWithinBounds(t *testing.T) {
	store, err := refstore.Default()
	if err != nil {
		t.Fatalf("load store: %v", err)
	}
	r := store.Rights()
	all := append(append(r.General, r.Bail...), r.Trial...)

	for _, sc := range NewScorer().ScoreRights(all, "bail appeal trial witnesses evidence interpreter charges", model.NonBailable) {
		if sc.Relevance < 0 || sc.Relevance > 1 {
			t.Errorf("%q out of bounds: %.2f", sc.Candidate, sc.Relevance)
		}
	}
}
