// Package pipeline runs a full case analysis: offense lookup, precedent
// matching, rights and defense scoring, and report rendering.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ppiankov/casematch/internal/cache"
	"github.com/ppiankov/casematch/internal/logger"
	"github.com/ppiankov/casematch/internal/match"
	"github.com/ppiankov/casematch/internal/model"
	"github.com/ppiankov/casematch/internal/refstore"
	"github.com/ppiankov/casematch/internal/score"
	"github.com/ppiankov/casematch/internal/similarity"
	"github.com/ppiankov/casematch/internal/textnorm"
)

// keySentenceCount is how many central sentences a report quotes
const keySentenceCount = 3

// Pipeline orchestrates the analysis of one query
type Pipeline struct {
	store      *refstore.Store
	matcher    *match.Matcher
	scorer     *score.Scorer
	vectorizer *similarity.Vectorizer
	fetcher    *Fetcher
	cache      cache.Cache
	renderer   *Renderer
	config     *model.Config
	now        func() time.Time
}

// NewPipeline creates a pipeline over store with the given configuration
func NewPipeline(cfg *model.Config, store *refstore.Store) *Pipeline {
	opts := similarity.DefaultOptions()
	if cfg.Engine.MaxFeatures > 0 {
		opts.MaxFeatures = cfg.Engine.MaxFeatures
	}
	if cfg.Engine.NGramMax > 0 {
		opts.NGramMax = cfg.Engine.NGramMax
	}
	vectorizer := similarity.NewVectorizer(opts)

	return &Pipeline{
		store:      store,
		matcher:    match.NewMatcher(store, textnorm.DefaultKeywords(), vectorizer),
		scorer:     score.NewScorer(),
		vectorizer: vectorizer,
		fetcher:    NewFetcher(cfg.Fetch),
		cache:      cache.New(cfg.Cache),
		renderer:   NewRenderer(cfg.Output.IncludeFooter),
		config:     cfg,
		now:        time.Now,
	}
}

// Store returns the reference store the pipeline reads from
func (p *Pipeline) Store() *refstore.Store {
	return p.store
}

// Matcher returns the precedent matcher
func (p *Pipeline) Matcher() *match.Matcher {
	return p.matcher
}

// Scorer returns the relevance scorer
func (p *Pipeline) Scorer() *score.Scorer {
	return p.scorer
}

// Renderer returns the report renderer
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}

// Analyze produces the full report for q. Domain failures (invalid input,
// unknown offense, degraded ranking) are reported through Report.Outcome;
// the error is reserved for cancellation.
func (p *Pipeline) Analyze(ctx context.Context, q model.QueryContext) (*model.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if q.TopK <= 0 && p.config.Engine.TopK > 0 {
		q.TopK = p.config.Engine.TopK
	}

	// Markup-only descriptions have no narrative left to validate.
	if textnorm.LooksLikeHTML(q.CaseDescription) {
		text, err := textnorm.VisibleText(q.CaseDescription)
		if err != nil {
			logger.Warn("could not strip markup from description: %v", err)
		} else {
			q.CaseDescription = text
		}
	}

	if err := q.Validate(); err != nil {
		return &model.Report{
			QueryID:     q.ID,
			Query:       q,
			Outcome:     model.OutcomeInvalidInput,
			Message:     err.Error(),
			GeneratedAt: p.now().UTC(),
		}, nil
	}

	key := cache.QueryKey(q)
	if report, ok := p.cached(key); ok {
		report.QueryID = q.ID
		report.Query.ID = q.ID
		logger.Debug("cache hit for %s %s", q.Act, q.Section)
		return report, nil
	}

	done := logger.Timed(fmt.Sprintf("analyze %s %s", q.Act, q.Section))
	report := p.analyze(q)
	done()

	p.remember(key, report)
	return report, nil
}

// AnalyzeURL fetches a case document and analyzes its text as the
// description
func (p *Pipeline) AnalyzeURL(ctx context.Context, rawURL string, q model.QueryContext) (*model.Report, error) {
	doc, err := p.fetcher.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch case document: %w", err)
	}
	logger.Info("fetched %s (%d chars)", doc.URL, len(doc.Text))

	q.CaseDescription = doc.Text
	report, err := p.Analyze(ctx, q)
	if err != nil {
		return nil, err
	}
	report.Source = &model.SourceDocument{
		URL:          doc.URL,
		Subject:      doc.Subject,
		LastModified: doc.LastModified,
		FetchedAt:    p.now().UTC(),
	}
	return report, nil
}

func (p *Pipeline) analyze(q model.QueryContext) *model.Report {
	report := &model.Report{
		QueryID:           q.ID,
		Query:             q,
		Outcome:           model.OutcomeOK,
		GeneratedAt:       p.now().UTC(),
		MentionedSections: p.mentions(q.CaseDescription),
		KeySentences:      p.vectorizer.KeySentences(q.CaseDescription, keySentenceCount),
	}

	offense, err := p.store.OffenseDetails(q.Section, q.Act)
	if errors.Is(err, refstore.ErrNotFound) {
		report.Outcome = model.OutcomeNotFound
		report.Message = err.Error()
		report.Rights = p.scorer.FallbackRights(p.store.Rights().General)
		matched := p.Precedents(q)
		report.Precedents = &matched
		report.Notes = append(report.Notes, "Rights are the general catalogue at fallback relevance")
		return report
	}
	report.Offense = &offense

	// Bail status comes from the offense lookup and is reused for scoring.
	report.Rights = p.rightsFor(offense, q.CaseDescription)
	report.Defenses = p.Defenses(q)

	matched := p.Precedents(q)
	report.Precedents = &matched
	if !matched.Ranked {
		report.Outcome = model.OutcomeDegraded
		report.Notes = append(report.Notes, matched.Note)
	}
	if len(matched.Precedents) == 0 {
		report.Notes = append(report.Notes, fmt.Sprintf("No precedents on record for section %s of %s", q.Section, q.Act))
	}

	return report
}

func (p *Pipeline) mentions(description string) []model.SectionMention {
	refs := textnorm.ExtractSectionRefs(description)
	if len(refs) == 0 {
		return nil
	}
	out := make([]model.SectionMention, 0, len(refs))
	for _, ref := range refs {
		m := model.SectionMention{Section: ref.Section, Act: ref.Act}
		if ref.Act != "" {
			_, m.Known = p.store.Section(ref.Section, ref.Act)
		}
		out = append(out, m)
	}
	return out
}

func (p *Pipeline) cached(key string) (*model.Report, bool) {
	if p.cache == nil {
		return nil, false
	}
	data, ok := p.cache.Get(key)
	if !ok {
		return nil, false
	}
	var report model.Report
	if err := json.Unmarshal(data, &report); err != nil {
		logger.Warn("discarding unreadable cache entry: %v", err)
		_ = p.cache.Delete(key)
		return nil, false
	}
	return &report, true
}

func (p *Pipeline) remember(key string, report *model.Report) {
	if p.cache == nil {
		return
	}
	data, err := json.Marshal(report)
	if err != nil {
		logger.Warn("could not encode report for cache: %v", err)
		return
	}
	if err := p.cache.Set(key, data, 0); err != nil {
		logger.Warn("could not cache report: %v", err)
	}
}

// RenderReport writes the report to the requested outputs and prints a
// summary to stdout
func (p *Pipeline) RenderReport(report *model.Report, jsonPath string, mdPath string) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		logger.Info("wrote JSON: %s", jsonPath)
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		logger.Info("wrote Markdown: %s", mdPath)
	}

	p.renderer.RenderSummary(report)
	return nil
}
