package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/casematch/internal/logger"
	"github.com/ppiankov/casematch/internal/model"
	"github.com/ppiankov/casematch/internal/refstore"
)

const murderNarrative = "The accused stabbed the victim with a knife after a quarrel. " +
	"Two eyewitnesses saw the attack. The weapon was recovered from his house."

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func newTestPipeline(t *testing.T, mutate func(*model.Config)) *Pipeline {
	t.Helper()
	store, err := refstore.Default()
	if err != nil {
		t.Fatalf("Failed to load reference data: %v", err)
	}
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.Fetch.RespectRobots = false
	cfg.Fetch.Timeout = 5 * time.Second
	if mutate != nil {
		mutate(cfg)
	}
	p := NewPipeline(cfg, store)
	p.renderer.SetOutput(io.Discard)
	return p
}

func TestAnalyze_Murder(t *testing.T) {
	p := newTestPipeline(t, nil)

	report, err := p.Analyze(context.Background(), model.QueryContext{
		ID:              "q-1",
		Section:         "302",
		Act:             model.ActIPC,
		CaseDescription: murderNarrative,
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if report.Outcome != model.OutcomeOK {
		t.Fatalf("Expected ok outcome, got %s (%s)", report.Outcome, report.Message)
	}
	if report.QueryID != "q-1" {
		t.Errorf("Expected query ID to be carried, got %q", report.QueryID)
	}
	if report.Offense == nil || report.Offense.Bail != model.NonBailable {
		t.Fatalf("Expected non-bailable offense details, got %+v", report.Offense)
	}
	if report.Precedents == nil || !report.Precedents.Ranked {
		t.Fatalf("Expected ranked precedents, got %+v", report.Precedents)
	}
	if len(report.Precedents.Precedents) != 1 || report.Precedents.Precedents[0].CaseName != "Bachan Singh v. State of Punjab" {
		t.Errorf("Unexpected precedents: %+v", report.Precedents.Precedents)
	}
	if len(report.Rights) == 0 || report.Rights[0].Candidate != "Right to legal representation" || report.Rights[0].Relevance != 1.0 {
		t.Errorf("Expected legal representation first at 1.0, got %+v", report.Rights)
	}
	for _, r := range report.Rights {
		if strings.Contains(strings.ToLower(r.Candidate), "bail") && r.Relevance < 0.9 {
			t.Errorf("Bail right %q should carry the non-bailable prior, got %.2f", r.Candidate, r.Relevance)
		}
	}
	if len(report.Defenses) < 6 {
		t.Errorf("Expected common and specific defenses, got %d", len(report.Defenses))
	}
	for i := 1; i < len(report.Defenses); i++ {
		if report.Defenses[i].Relevance > report.Defenses[i-1].Relevance {
			t.Fatalf("Defenses not sorted at %d: %+v", i, report.Defenses)
		}
	}
	if len(report.KeySentences) != 3 {
		t.Errorf("Expected 3 key sentences, got %v", report.KeySentences)
	}
}

func TestAnalyze_InvalidInput(t *testing.T) {
	p := newTestPipeline(t, nil)

	report, err := p.Analyze(context.Background(), model.QueryContext{Section: "302", Act: model.ActIPC})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if report.Outcome != model.OutcomeInvalidInput {
		t.Errorf("Expected invalid_input, got %s", report.Outcome)
	}
	if !strings.Contains(report.Message, "case_description") {
		t.Errorf("Expected message to name the missing field, got %q", report.Message)
	}
	if report.Precedents != nil || report.Rights != nil {
		t.Error("Expected no computation for invalid input")
	}
}

func TestAnalyze_NotFound(t *testing.T) {
	p := newTestPipeline(t, nil)

	report, err := p.Analyze(context.Background(), model.QueryContext{
		Section:         "66A",
		Act:             model.ActIT,
		CaseDescription: "Offensive messages were posted on a social media platform.",
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if report.Outcome != model.OutcomeNotFound {
		t.Fatalf("Expected not_found, got %s", report.Outcome)
	}
	if report.Message != "Section 66A not found in IT Act" {
		t.Errorf("Unexpected message: %q", report.Message)
	}
	if report.Offense != nil {
		t.Error("Expected no offense details")
	}
	if len(report.Rights) != 7 {
		t.Errorf("Expected the 7 general rights, got %d", len(report.Rights))
	}
	for _, r := range report.Rights {
		if r.Relevance != 0.5 {
			t.Errorf("Expected fallback relevance 0.5, got %.2f for %q", r.Relevance, r.Candidate)
		}
	}
	if report.Precedents == nil || len(report.Precedents.Precedents) != 1 ||
		report.Precedents.Precedents[0].CaseName != "Shreya Singhal v. Union of India" {
		t.Errorf("Expected the Shreya Singhal precedent, got %+v", report.Precedents)
	}
}

func TestAnalyze_NoPrecedents(t *testing.T) {
	p := newTestPipeline(t, nil)

	report, _ := p.Analyze(context.Background(), model.QueryContext{
		Section:         "420",
		Act:             model.ActIPC,
		CaseDescription: "The accused sold land he did not own.",
	})
	if report.Outcome != model.OutcomeOK {
		t.Fatalf("Expected ok, got %s", report.Outcome)
	}
	if !report.Precedents.Ranked || len(report.Precedents.Precedents) != 0 {
		t.Errorf("Expected empty ranked result, got %+v", report.Precedents)
	}
	if len(report.Notes) != 1 {
		t.Errorf("Expected a note about missing precedents, got %v", report.Notes)
	}
}

func TestAnalyze_StripsMarkup(t *testing.T) {
	p := newTestPipeline(t, nil)

	report, _ := p.Analyze(context.Background(), model.QueryContext{
		Section:         "302",
		Act:             model.ActIPC,
		CaseDescription: "<div><p>The accused stabbed the victim.</p><script>track()</script></div>",
	})
	if report.Query.CaseDescription != "The accused stabbed the victim." {
		t.Errorf("Expected visible text only, got %q", report.Query.CaseDescription)
	}
}

func TestAnalyze_MarkupWithoutTextIsInvalid(t *testing.T) {
	p := newTestPipeline(t, nil)

	for _, desc := range []string{"<p> </p>", "<p>   </p><script>x()</script>"} {
		report, err := p.Analyze(context.Background(), model.QueryContext{
			Section:         "302",
			Act:             model.ActIPC,
			CaseDescription: desc,
		})
		if err != nil {
			t.Fatalf("Expected no error for %q, got %v", desc, err)
		}
		if report.Outcome != model.OutcomeInvalidInput {
			t.Errorf("%q: expected invalid_input, got %s", desc, report.Outcome)
		}
		if !strings.Contains(report.Message, "case_description") {
			t.Errorf("%q: expected message to name case_description, got %q", desc, report.Message)
		}
		if report.Precedents != nil || report.Rights != nil || report.KeySentences != nil {
			t.Errorf("%q: expected no computation for a markup-only description", desc)
		}
	}
}

func TestAnalyze_MentionedSections(t *testing.T) {
	p := newTestPipeline(t, nil)

	report, _ := p.Analyze(context.Background(), model.QueryContext{
		Section:         "302",
		Act:             model.ActIPC,
		CaseDescription: "Charged under section 302 of the IPC read with section 34.",
	})

	want := []model.SectionMention{
		{Section: "302", Act: model.ActIPC, Known: true},
		{Section: "34"},
	}
	if len(report.MentionedSections) != len(want) {
		t.Fatalf("Expected %d mentions, got %+v", len(want), report.MentionedSections)
	}
	for i := range want {
		if report.MentionedSections[i] != want[i] {
			t.Errorf("Mention %d: got %+v, want %+v", i, report.MentionedSections[i], want[i])
		}
	}
}

func TestAnalyze_DefaultTopKFromConfig(t *testing.T) {
	p := newTestPipeline(t, func(cfg *model.Config) { cfg.Engine.TopK = 2 })

	report, _ := p.Analyze(context.Background(), model.QueryContext{
		Section:         "302",
		Act:             model.ActIPC,
		CaseDescription: murderNarrative,
	})
	if report.Query.TopK != 2 {
		t.Errorf("Expected configured top_k 2, got %d", report.Query.TopK)
	}
}

func TestAnalyze_Cached(t *testing.T) {
	p := newTestPipeline(t, func(cfg *model.Config) {
		cfg.Cache.Enabled = true
		cfg.Cache.Dir = t.TempDir()
	})

	calls := 0
	p.now = func() time.Time {
		calls++
		return time.Date(2024, 1, calls, 0, 0, 0, 0, time.UTC)
	}

	q := model.QueryContext{ID: "first", Section: "302", Act: model.ActIPC, CaseDescription: murderNarrative}
	first, _ := p.Analyze(context.Background(), q)

	q.ID = "second"
	q.CaseDescription = "  " + murderNarrative + "\n"
	second, _ := p.Analyze(context.Background(), q)

	if !second.GeneratedAt.Equal(first.GeneratedAt) {
		t.Errorf("Expected cached report, generated at %v and %v", first.GeneratedAt, second.GeneratedAt)
	}
	if second.QueryID != "second" || second.Query.ID != "second" {
		t.Errorf("Expected cached report to carry the new query ID, got %q", second.QueryID)
	}
}

func TestAnalyze_Canceled(t *testing.T) {
	p := newTestPipeline(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.Analyze(ctx, model.QueryContext{Section: "302", Act: model.ActIPC, CaseDescription: "x"}); err == nil {
		t.Error("Expected error for canceled context")
	}
}

func TestAnalyzeURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Header().Set("Last-Modified", "Mon, 01 Jan 2024 00:00:00 GMT")
		_, _ = fmt.Fprint(w, "<html><body><p>The accused stabbed the victim with a knife.</p></body></html>")
	}))
	defer server.Close()

	p := newTestPipeline(t, nil)
	report, err := p.AnalyzeURL(context.Background(), server.URL+"/judgments/state-v-ram", model.QueryContext{
		Section: "302",
		Act:     model.ActIPC,
	})
	if err != nil {
		t.Fatalf("AnalyzeURL failed: %v", err)
	}
	if report.Outcome != model.OutcomeOK {
		t.Errorf("Expected ok, got %s (%s)", report.Outcome, report.Message)
	}
	if report.Source == nil || report.Source.Subject != "state v ram" {
		t.Errorf("Unexpected source: %+v", report.Source)
	}
	if report.Query.CaseDescription != "The accused stabbed the victim with a knife." {
		t.Errorf("Unexpected description: %q", report.Query.CaseDescription)
	}
}

func TestAnalyzeURL_FetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	p := newTestPipeline(t, nil)
	if _, err := p.AnalyzeURL(context.Background(), server.URL, model.QueryContext{Section: "302", Act: model.ActIPC}); err == nil {
		t.Error("Expected fetch error")
	}
}

func TestRenderer_Markdown(t *testing.T) {
	p := newTestPipeline(t, nil)
	report, _ := p.Analyze(context.Background(), model.QueryContext{
		Section:         "302",
		Act:             model.ActIPC,
		CaseDescription: murderNarrative,
	})

	md := NewRenderer(true).Markdown(report)
	for _, want := range []string{
		"# Case analysis: Section 302, IPC",
		"## Offense",
		"## Similar precedents",
		"Bachan Singh v. State of Punjab",
		"## Rights",
		"## Defense options",
		footer,
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Expected markdown to contain %q", want)
		}
	}

	if strings.Contains(NewRenderer(false).Markdown(report), footer) {
		t.Error("Expected no footer when disabled")
	}
}

func TestRenderer_UnrankedSimilarity(t *testing.T) {
	report := &model.Report{
		Query:   model.QueryContext{Section: "302", Act: model.ActIPC},
		Outcome: model.OutcomeDegraded,
		Precedents: &model.MatchResult{
			Precedents: []model.SimilarityResult{{CaseName: "A v. B", Citation: "(1980) 1 SCC 1"}},
			Note:       "unranked note",
		},
	}
	md := NewRenderer(false).Markdown(report)
	if !strings.Contains(md, "| 1 | A v. B | (1980) 1 SCC 1 | unranked |") {
		t.Errorf("Expected unranked row, got:\n%s", md)
	}
	if !strings.Contains(md, "_unranked note_") {
		t.Error("Expected degraded note in markdown")
	}
}

func TestRenderReport_WritesFiles(t *testing.T) {
	p := newTestPipeline(t, nil)
	report, _ := p.Analyze(context.Background(), model.QueryContext{
		Section:         "302",
		Act:             model.ActIPC,
		CaseDescription: murderNarrative,
	})

	var summary bytes.Buffer
	p.Renderer().SetOutput(&summary)

	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "out", "report.json")
	mdPath := filepath.Join(dir, "out", "report.md")
	if err := p.RenderReport(report, jsonPath, mdPath); err != nil {
		t.Fatalf("RenderReport failed: %v", err)
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("Expected JSON file: %v", err)
	}
	var decoded model.Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if decoded.Outcome != model.OutcomeOK {
		t.Errorf("Unexpected decoded outcome: %s", decoded.Outcome)
	}
	if _, err := os.Stat(mdPath); err != nil {
		t.Errorf("Expected markdown file: %v", err)
	}
	if !strings.Contains(summary.String(), "Section 302, IPC: ok") {
		t.Errorf("Unexpected summary: %s", summary.String())
	}
}
