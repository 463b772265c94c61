package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/casematch/internal/logger"
	"github.com/ppiankov/casematch/internal/model"
	"github.com/ppiankov/casematch/internal/textnorm"
)

// queryFlags are the per-command flags that describe a case
type queryFlags struct {
	section     string
	act         string
	description string
	file        string
	topK        int
	format      string
}

func addQueryFlags(cmd *cobra.Command, f *queryFlags) {
	cmd.Flags().StringVarP(&f.section, "section", "s", "", "statute section, e.g. 302 or 66A")
	cmd.Flags().StringVarP(&f.act, "act", "a", "", "act name: IPC, CrPC, CPC, Evidence Act, IT Act, MV Act")
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "case description")
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "read the case description from a file (- for stdin)")
	cmd.Flags().IntVarP(&f.topK, "top", "k", 0, "number of precedents to return (default from config)")
	addFormatFlag(cmd, &f.format)
}

func addFormatFlag(cmd *cobra.Command, format *string) {
	cmd.Flags().StringVar(format, "format", "", "output format: text or json (default from config)")
}

// query builds the query from flags. Unknown act names are passed through
// so lookups report them as not found.
func (f *queryFlags) query() (model.QueryContext, error) {
	q := model.QueryContext{
		Section:         strings.TrimSpace(f.section),
		CaseDescription: f.description,
		TopK:            f.topK,
	}

	if f.act != "" {
		act, known := textnorm.ResolveAct(f.act)
		if !known {
			logger.Warn("unknown act %q", f.act)
		}
		q.Act = act
	}

	if f.file != "" {
		text, err := readDescription(f.file)
		if err != nil {
			return q, err
		}
		q.CaseDescription = text
	}

	return q, nil
}

func readDescription(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read description: %w", err)
	}
	return string(data), nil
}

// outputFormat resolves the --format flag against the configured default
func outputFormat(flag string, cfg *model.Config) string {
	if flag != "" {
		return flag
	}
	if cfg.Output.Format != "" {
		return cfg.Output.Format
	}
	return "text"
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printCandidates(title string, items []model.ScoredCandidate) {
	fmt.Printf("%s:\n", title)
	if len(items) == 0 {
		fmt.Println("  (none)")
		return
	}
	for i, c := range items {
		fmt.Printf("  %2d. [%.2f] %s\n", i+1, c.Relevance, c.Candidate)
	}
}

func printMatch(m model.MatchResult) {
	if m.Note != "" {
		fmt.Printf("Note: %s\n", m.Note)
	}
	if len(m.Precedents) == 0 {
		fmt.Println("No precedents found.")
		return
	}
	for i, p := range m.Precedents {
		sim := "unranked"
		if p.Similarity != nil {
			sim = fmt.Sprintf("%.3f", *p.Similarity)
		}
		fmt.Printf("%d. %s, %s [%s]\n", i+1, p.CaseName, p.Citation, sim)
		fmt.Printf("   %s\n", p.Summary)
		for _, kp := range p.KeyPoints {
			fmt.Printf("   - %s\n", kp)
		}
	}
}
