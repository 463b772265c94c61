package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/casematch/internal/model"
	"github.com/ppiankov/casematch/internal/pipeline"
	"github.com/ppiankov/casematch/internal/refstore"
)

var (
	precedentsFlags queryFlags
	rightsFlags     queryFlags
	defensesFlags   queryFlags
)

var precedentsCmd = &cobra.Command{
	Use:   "precedents",
	Short: "Rank precedents by similarity to a case description",
	Long: `Precedents ranks the recorded precedents by TF-IDF cosine similarity to
the case description. With both --section and --act, only precedents for
that section are considered.`,
	Example: `  casematch precedents -d "posted offensive messages online" -k 3
  casematch precedents -s 302 -a IPC -f fir.txt`,
	RunE: runPrecedents,
}

var rightsCmd = &cobra.Command{
	Use:   "rights",
	Short: "Score the defendant's rights for a case",
	RunE:  runRights,
}

var defensesCmd = &cobra.Command{
	Use:   "defenses",
	Short: "Score defense options for a case",
	RunE:  runDefenses,
}

func init() {
	rootCmd.AddCommand(precedentsCmd, rightsCmd, defensesCmd)
	addQueryFlags(precedentsCmd, &precedentsFlags)
	addQueryFlags(rightsCmd, &rightsFlags)
	addQueryFlags(defensesCmd, &defensesFlags)
}

func newPipeline() (*model.Config, *pipeline.Pipeline, error) {
	cfg, store, err := loadConfigAndStore()
	if err != nil {
		return nil, nil, err
	}
	return cfg, pipeline.NewPipeline(cfg, store), nil
}

func runPrecedents(cmd *cobra.Command, args []string) error {
	cfg, p, err := newPipeline()
	if err != nil {
		return err
	}
	q, err := precedentsFlags.query()
	if err != nil {
		return err
	}
	if strings.TrimSpace(q.CaseDescription) == "" {
		return &model.InvalidInputError{Fields: []string{"case_description"}}
	}

	result := p.Precedents(q)
	if outputFormat(precedentsFlags.format, cfg) == "json" {
		return printJSON(result)
	}
	printMatch(result)
	return nil
}

func runRights(cmd *cobra.Command, args []string) error {
	cfg, p, err := newPipeline()
	if err != nil {
		return err
	}
	q, err := rightsFlags.query()
	if err != nil {
		return err
	}
	if err := q.Validate(); err != nil {
		return err
	}

	rights, err := p.Rights(q)
	notFound := errors.Is(err, refstore.ErrNotFound)
	if err != nil && !notFound {
		return err
	}

	if outputFormat(rightsFlags.format, cfg) == "json" {
		out := struct {
			Outcome model.Outcome           `json:"outcome"`
			Message string                  `json:"message,omitempty"`
			Rights  []model.ScoredCandidate `json:"rights"`
		}{Outcome: model.OutcomeOK, Rights: rights}
		if notFound {
			out.Outcome = model.OutcomeNotFound
			out.Message = err.Error()
		}
		return printJSON(out)
	}

	if notFound {
		fmt.Printf("%s; showing general rights.\n\n", err)
	}
	printCandidates("Rights", rights)
	return nil
}

func runDefenses(cmd *cobra.Command, args []string) error {
	cfg, p, err := newPipeline()
	if err != nil {
		return err
	}
	q, err := defensesFlags.query()
	if err != nil {
		return err
	}
	if err := q.Validate(); err != nil {
		return err
	}

	defenses := p.Defenses(q)
	if outputFormat(defensesFlags.format, cfg) == "json" {
		return printJSON(struct {
			Defenses []model.ScoredCandidate `json:"defenses"`
		}{defenses})
	}
	printCandidates("Defense options", defenses)
	return nil
}
