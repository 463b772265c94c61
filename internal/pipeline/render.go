package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/casematch/internal/model"
)

const footer = "_Generated by casematch. Relevance scores are heuristic and are not legal advice._"

// Renderer writes reports as JSON, Markdown, or a terminal summary
type Renderer struct {
	includeFooter bool
	out           io.Writer
}

// NewRenderer creates a renderer that prints summaries to stdout
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter, out: os.Stdout}
}

// SetOutput redirects summaries
func (r *Renderer) SetOutput(w io.Writer) {
	r.out = w
}

// JSON encodes the report with two-space indentation
func (r *Renderer) JSON(report *model.Report) ([]byte, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return append(data, '\n'), nil
}

// RenderJSON writes the JSON report to path
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := r.JSON(report)
	if err != nil {
		return err
	}
	return writeFile(path, data)
}

// RenderMarkdown writes the Markdown report to path
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return writeFile(path, []byte(r.Markdown(report)))
}

// Markdown renders the report as a Markdown document
func (r *Renderer) Markdown(report *model.Report) string {
	var b strings.Builder
	q := report.Query

	fmt.Fprintf(&b, "# Case analysis: Section %s, %s\n\n", q.Section, q.Act)
	fmt.Fprintf(&b, "- **Outcome:** %s\n", report.Outcome)
	if report.QueryID != "" {
		fmt.Fprintf(&b, "- **Query ID:** %s\n", report.QueryID)
	}
	fmt.Fprintf(&b, "- **Generated:** %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	if report.Source != nil {
		fmt.Fprintf(&b, "- **Source:** %s\n", report.Source.URL)
	}
	if report.Message != "" {
		fmt.Fprintf(&b, "\n> %s\n", report.Message)
	}
	b.WriteString("\n")

	if o := report.Offense; o != nil {
		b.WriteString("## Offense\n\n")
		fmt.Fprintf(&b, "**%s** (Section %s, %s), %s.\n\n", o.Title, o.Section, o.Act, o.Bail)
		if o.BailGuideline.Description != "" {
			fmt.Fprintf(&b, "%s\n\n", o.BailGuideline.Description)
		}
		for _, step := range o.BailGuideline.Procedure {
			fmt.Fprintf(&b, "- %s\n", step)
		}
		if len(o.BailGuideline.Procedure) > 0 {
			b.WriteString("\n")
		}
	}

	if len(report.KeySentences) > 0 {
		b.WriteString("## Key facts\n\n")
		for _, s := range report.KeySentences {
			fmt.Fprintf(&b, "> %s\n>\n", s)
		}
		b.WriteString("\n")
	}

	if len(report.MentionedSections) > 0 {
		b.WriteString("## Sections mentioned\n\n")
		for _, m := range report.MentionedSections {
			act := string(m.Act)
			if act == "" {
				act = "unspecified act"
			}
			known := ""
			if !m.Known {
				known = " (not in reference data)"
			}
			fmt.Fprintf(&b, "- Section %s, %s%s\n", m.Section, act, known)
		}
		b.WriteString("\n")
	}

	if m := report.Precedents; m != nil {
		b.WriteString("## Similar precedents\n\n")
		if m.Note != "" {
			fmt.Fprintf(&b, "_%s_\n\n", m.Note)
		}
		if len(m.Precedents) == 0 {
			b.WriteString("None on record.\n\n")
		} else {
			b.WriteString("| # | Case | Citation | Similarity |\n")
			b.WriteString("|---|------|----------|------------|\n")
			for i, p := range m.Precedents {
				fmt.Fprintf(&b, "| %d | %s | %s | %s |\n", i+1, p.CaseName, p.Citation, similarityText(p.Similarity))
			}
			b.WriteString("\n")
			for _, p := range m.Precedents {
				fmt.Fprintf(&b, "### %s\n\n%s\n\n", p.CaseName, p.Summary)
				for _, kp := range p.KeyPoints {
					fmt.Fprintf(&b, "- %s\n", kp)
				}
				b.WriteString("\n")
			}
		}
	}

	writeCandidates(&b, "Rights", report.Rights)
	writeCandidates(&b, "Defense options", report.Defenses)

	if len(report.Notes) > 0 {
		b.WriteString("## Notes\n\n")
		for _, n := range report.Notes {
			fmt.Fprintf(&b, "- %s\n", n)
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		b.WriteString("---\n\n")
		b.WriteString(footer + "\n")
	}

	return b.String()
}

// RenderSummary prints a short summary of the report
func (r *Renderer) RenderSummary(report *model.Report) {
	w := r.out
	q := report.Query

	fmt.Fprintf(w, "\nSection %s, %s: %s\n", q.Section, q.Act, report.Outcome)
	if report.Message != "" {
		fmt.Fprintf(w, "  %s\n", report.Message)
	}
	if o := report.Offense; o != nil {
		fmt.Fprintf(w, "  %s (%s)\n", o.Title, o.Bail)
	}
	if m := report.Precedents; m != nil {
		fmt.Fprintf(w, "  Precedents: %d\n", len(m.Precedents))
		for i, p := range m.Precedents {
			fmt.Fprintf(w, "    %d. %s [%s]\n", i+1, p.CaseName, similarityText(p.Similarity))
		}
	}
	if len(report.Rights) > 0 {
		top := report.Rights[0]
		fmt.Fprintf(w, "  Top right: %s (%.2f)\n", top.Candidate, top.Relevance)
	}
	if len(report.Defenses) > 0 {
		top := report.Defenses[0]
		fmt.Fprintf(w, "  Top defense: %s (%.2f)\n", top.Candidate, top.Relevance)
	}
	for _, n := range report.Notes {
		fmt.Fprintf(w, "  Note: %s\n", n)
	}
}

func writeCandidates(b *strings.Builder, title string, items []model.ScoredCandidate) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", title)
	b.WriteString("| Relevance | Option |\n")
	b.WriteString("|-----------|--------|\n")
	for _, c := range items {
		fmt.Fprintf(b, "| %.2f | %s |\n", c.Relevance, c.Candidate)
	}
	b.WriteString("\n")
}

func similarityText(s *float64) string {
	if s == nil {
		return "unranked"
	}
	return fmt.Sprintf("%.3f", *s)
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	return os.WriteFile(path, data, 0644)
}
