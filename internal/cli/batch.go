package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/casematch/internal/model"
	"github.com/ppiankov/casematch/internal/pipeline"
	"github.com/ppiankov/casematch/internal/worker"
)

var (
	concurrency   int
	outputDir     string
	batchTimeout  time.Duration
	batchNoCache  bool
	batchNoFooter bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze many cases from a YAML file in parallel",
	Long: `Batch analyzes every query in a YAML file concurrently and writes one
JSON and one Markdown report per query.

The file holds either a list of queries or a "queries:" key:

  queries:
    - id: fir-101
      section: "302"
      act: IPC
      case_description: The accused stabbed the victim during a quarrel.`,
	Example: `  casematch batch cases.yaml
  casematch batch cases.yaml --concurrency 8 --output-dir ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./casematch-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&batchNoCache, "no-cache", false, "disable the result cache")
	batchCmd.Flags().BoolVar(&batchNoFooter, "no-footer", false, "disable footer in Markdown reports")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	cfg, store, err := loadConfigAndStore()
	if err != nil {
		return err
	}
	if batchNoCache {
		cfg.Cache.Enabled = false
	}
	if batchNoFooter {
		cfg.Output.IncludeFooter = false
	}

	workers := concurrency
	if workers <= 0 {
		workers = cfg.Concurrency.Workers
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p := pipeline.NewPipeline(cfg, store)
	processor := worker.NewBatchProcessor(p, workers, cfg.Concurrency.QueriesPerSecond, cfg.Concurrency.QueriesBurst)

	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	renderer := p.Renderer()
	counts := make(map[model.Outcome]int)
	failures := 0

	for _, result := range results {
		label := result.Query.ID
		if result.Error != nil {
			failures++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", label, result.Error)
			continue
		}

		report := result.Report
		counts[report.Outcome]++

		slug := sanitizeFilename(label)
		jsonPath := filepath.Join(outputDir, slug+".json")
		mdPath := filepath.Join(outputDir, slug+".md")

		if err := renderer.RenderJSON(report, jsonPath); err != nil {
			failures++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", label, err)
			continue
		}
		if err := renderer.RenderMarkdown(report, mdPath); err != nil {
			failures++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", label, err)
			continue
		}

		fmt.Fprintf(os.Stderr, "✓ %s: %s (%s)\n", label, report.Outcome, result.Duration.Round(time.Millisecond))
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:         %d queries\n", len(results))
	fmt.Fprintf(os.Stderr, "  OK:            %d\n", counts[model.OutcomeOK])
	fmt.Fprintf(os.Stderr, "  Degraded:      %d\n", counts[model.OutcomeDegraded])
	fmt.Fprintf(os.Stderr, "  Not found:     %d\n", counts[model.OutcomeNotFound])
	fmt.Fprintf(os.Stderr, "  Invalid input: %d\n", counts[model.OutcomeInvalidInput])
	fmt.Fprintf(os.Stderr, "  Failures:      %d\n", failures)
	fmt.Fprintf(os.Stderr, "  Output:        %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if failures > 0 {
		return fmt.Errorf("%d of %d queries failed", failures, len(results))
	}
	return nil
}

var filenameReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
	" ", "-",
)

// sanitizeFilename turns a query ID into a safe file name
func sanitizeFilename(s string) string {
	s = filenameReplacer.Replace(strings.TrimSpace(s))
	s = strings.Trim(s, ".")
	if s == "" {
		s = "query"
	}
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}
