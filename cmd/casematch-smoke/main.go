// Smoke program: runs sample cases through the full pipeline against the
// built-in reference dataset and prints what comes back.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/casematch/internal/model"
	"github.com/ppiankov/casematch/internal/pipeline"
	"github.com/ppiankov/casematch/internal/refstore"
)

var samples = []model.QueryContext{
	{
		ID:              "murder",
		Section:         "302",
		Act:             model.ActIPC,
		CaseDescription: "The accused stabbed the victim with a knife during a quarrel over land. Two eyewitnesses saw the attack.",
	},
	{
		ID:              "online-speech",
		Section:         "66A",
		Act:             model.ActIT,
		CaseDescription: "The accused posted offensive messages about a politician on social media.",
	},
	{
		ID:              "cheating",
		Section:         "420",
		Act:             model.ActIPC,
		CaseDescription: "The accused took an advance for a flat that was never built and stopped answering calls.",
	},
}

func main() {
	fmt.Println("=== casematch smoke run ===")
	fmt.Println()

	store, err := refstore.Default()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load reference data: %v\n", err)
		os.Exit(1)
	}

	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	p := pipeline.NewPipeline(cfg, store)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, q := range samples {
		fmt.Printf("Case %s: section %s, %s\n", q.ID, q.Section, q.Act)
		fmt.Println(strings.Repeat("-", 60))

		report, err := p.Analyze(ctx, q)
		if err != nil {
			fmt.Printf("  analyze error: %v\n\n", err)
			continue
		}

		fmt.Printf("  Outcome: %s\n", report.Outcome)
		if report.Message != "" {
			fmt.Printf("  Message: %s\n", report.Message)
		}
		if report.Precedents != nil {
			for _, r := range report.Precedents.Precedents {
				sim := "unranked"
				if r.Similarity != nil {
					sim = fmt.Sprintf("%.3f", *r.Similarity)
				}
				fmt.Printf("  - %s [%s]\n", r.CaseName, sim)
			}
		}
		if len(report.Rights) > 0 {
			top := report.Rights[0]
			fmt.Printf("  Top right: %s (%.2f)\n", top.Candidate, top.Relevance)
		}
		if len(report.Defenses) > 0 {
			top := report.Defenses[0]
			fmt.Printf("  Top defense: %s (%.2f)\n", top.Candidate, top.Relevance)
		}
		for _, n := range report.Notes {
			fmt.Printf("  Note: %s\n", n)
		}
		fmt.Println()
	}

	fmt.Println("=== Smoke run complete ===")
}
