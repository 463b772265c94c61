package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/casematch/internal/model"
	"github.com/ppiankov/casematch/internal/pipeline"
)

var (
	analyzeFlags queryFlags
	sourceURL    string
	outJSON      string
	outMD        string
	timeout      time.Duration
	userAgent    string
	noCache      bool
	noFooter     bool
	insecureTLS  bool
	ignoreRobots bool
	httpProxy    string
	httpsProxy   string
)

// analyzeCmd runs the full pipeline on one case
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a case: offense, precedents, rights and defenses",
	Long: `Analyze runs the full pipeline on one case:
- Look up the offense and its bail status
- Rank similar precedents
- Score rights and defense options against the description
- Quote the central sentences and the sections the description mentions

The description can come from a flag, a file, stdin, or a URL (a judgment,
FIR or order page; markup is stripped and robots.txt is honored).`,
	Example: `  casematch analyze -s 302 -a IPC -d "The accused stabbed the victim"
  casematch analyze -s 420 -a IPC -f complaint.txt --json report.json --md report.md
  casematch analyze -s 66 -a "IT Act" --url https://example.org/orders/123`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	addQueryFlags(analyzeCmd, &analyzeFlags)
	analyzeCmd.Flags().StringVar(&sourceURL, "url", "", "fetch the case description from a URL")

	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "write the JSON report to this path")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "write the Markdown report to this path")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")

	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall timeout")
	analyzeCmd.Flags().StringVar(&userAgent, "ua", "", "HTTP User-Agent for --url (default from config)")
	analyzeCmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification for --url")
	analyzeCmd.Flags().BoolVar(&ignoreRobots, "ignore-robots", false, "fetch --url even if robots.txt disallows it")
	analyzeCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	analyzeCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
}

// applyFetchFlags overlays command-line fetch settings on cfg
func applyFetchFlags(cfg *model.Config) {
	if userAgent != "" {
		cfg.Fetch.UserAgent = userAgent
	}
	if insecureTLS {
		cfg.Fetch.InsecureTLS = true
	}
	if ignoreRobots {
		cfg.Fetch.RespectRobots = false
	}
	if httpProxy != "" {
		cfg.Fetch.HTTPProxy = httpProxy
	}
	if httpsProxy != "" {
		cfg.Fetch.HTTPSProxy = httpsProxy
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noFooter {
		cfg.Output.IncludeFooter = false
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	cfg, store, err := loadConfigAndStore()
	if err != nil {
		return err
	}
	applyFetchFlags(cfg)

	q, err := analyzeFlags.query()
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing: section %s, %s\n", q.Section, q.Act)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	p := pipeline.NewPipeline(cfg, store)

	var report *model.Report
	if sourceURL != "" {
		report, err = p.AnalyzeURL(ctx, sourceURL, q)
	} else {
		report, err = p.Analyze(ctx, q)
	}
	if err != nil {
		return fmt.Errorf("analyze failed: %w", err)
	}

	if outputFormat(analyzeFlags.format, cfg) == "json" && outJSON == "" && outMD == "" {
		return printJSON(report)
	}

	if err := p.RenderReport(report, outJSON, outMD); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	if report.Outcome == model.OutcomeInvalidInput {
		return fmt.Errorf("%s", report.Message)
	}
	return nil
}
