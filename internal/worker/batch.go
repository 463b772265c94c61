package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/casematch/internal/logger"
	"github.com/ppiankov/casematch/internal/model"
)

// batchKey is the limiter key shared by every query of a batch run
const batchKey = "batch"

// Analyzer produces a report for one query
type Analyzer interface {
	Analyze(ctx context.Context, q model.QueryContext) (*model.Report, error)
}

// QueryJob analyzes one query of a batch
type QueryJob struct {
	Index    int
	Query    model.QueryContext
	Analyzer Analyzer
	Limiter  *Limiter
}

// Execute waits for the limiter and runs the analysis
func (j *QueryJob) Execute(ctx context.Context) Result {
	res := &QueryResult{Index: j.Index, Query: j.Query}
	start := time.Now()

	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, batchKey); err != nil {
			res.Error = fmt.Errorf("rate limit: %w", err)
			return res
		}
	}

	res.Report, res.Error = j.Analyzer.Analyze(ctx, j.Query)
	res.Duration = time.Since(start)
	return res
}

// QueryResult is the outcome of one batch query
type QueryResult struct {
	Index    int
	Query    model.QueryContext
	Report   *model.Report
	Error    error
	Duration time.Duration
}

// GetError returns the error from the analysis
func (r *QueryResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes many queries concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
	limiter     *Limiter
}

// NewBatchProcessor creates a batch processor. queriesPerSecond <= 0 runs
// unpaced.
func NewBatchProcessor(analyzer Analyzer, concurrency int, queriesPerSecond float64, burst int) *BatchProcessor {
	b := &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
	if queriesPerSecond > 0 {
		b.limiter = NewLimiter(queriesPerSecond, burst)
	}
	return b
}

// ProcessQueries analyzes queries and returns results in input order.
// Queries without an ID are assigned one.
func (b *BatchProcessor) ProcessQueries(ctx context.Context, queries []model.QueryContext) []*QueryResult {
	if len(queries) == 0 {
		return []*QueryResult{}
	}

	pool := NewPoolWithContext(ctx, b.concurrency)
	pool.Start()

	out := make([]*QueryResult, len(queries))
	for i, q := range queries {
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		job := &QueryJob{Index: i, Query: q, Analyzer: b.analyzer, Limiter: b.limiter}
		if !pool.Submit(job) {
			out[i] = &QueryResult{Index: i, Query: q, Error: ctx.Err()}
		}
	}

	for _, r := range pool.Wait() {
		res := r.(*QueryResult)
		out[res.Index] = res
	}

	for i, res := range out {
		if res == nil {
			out[i] = &QueryResult{Index: i, Query: queries[i], Error: context.Canceled}
		}
	}

	logger.Debug("batch finished: %d queries", len(out))
	return out
}

// ProcessFile reads queries from a YAML file and analyzes them
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*QueryResult, error) {
	queries, err := ReadQueriesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read queries: %w", err)
	}

	return b.ProcessQueries(ctx, queries), nil
}

// queryFile is the batch file schema. A bare YAML list of queries is also
// accepted.
type queryFile struct {
	Queries []model.QueryContext `yaml:"queries"`
}

// ReadQueriesFromFile reads a YAML batch file
func ReadQueriesFromFile(filePath string) ([]model.QueryContext, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	return ParseQueries(data)
}

// ParseQueries decodes either a {queries: [...]} document or a bare list.
// Duplicate non-empty IDs are rejected.
func ParseQueries(data []byte) ([]model.QueryContext, error) {
	var doc queryFile
	if err := yaml.Unmarshal(data, &doc); err != nil || doc.Queries == nil {
		var list []model.QueryContext
		if listErr := yaml.Unmarshal(data, &list); listErr != nil {
			if err != nil {
				return nil, fmt.Errorf("parse queries: %w", err)
			}
			return nil, fmt.Errorf("parse queries: %w", listErr)
		}
		doc.Queries = list
	}

	if len(doc.Queries) == 0 {
		return nil, errors.New("no queries in file")
	}

	seen := make(map[string]bool)
	for _, q := range doc.Queries {
		if q.ID == "" {
			continue
		}
		if seen[q.ID] {
			return nil, fmt.Errorf("duplicate query id %q", q.ID)
		}
		seen[q.ID] = true
	}
	return doc.Queries, nil
}
