package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/casematch/internal/model"
	"github.com/ppiankov/casematch/internal/textnorm"
)

var lookupFlags queryFlags

// lookupCmd shows the reference record for one section
var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Show offense details, bail status and precedents for a section",
	Example: `  casematch lookup -s 302 -a IPC
  casematch lookup -s 66 -a "IT Act" --format json`,
	RunE: runLookup,
}

var sectionsFormat string

var sectionsCmd = &cobra.Command{
	Use:   "sections [act]",
	Short: "List the sections on record, for one act or all of them",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSections,
}

var searchFormat string

var searchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Search section titles and precedents",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

var jurisdictionFormat string

var jurisdictionCmd = &cobra.Command{
	Use:   "jurisdiction",
	Short: "Describe the jurisdiction types of the court system",
	Args:  cobra.NoArgs,
	RunE:  runJurisdiction,
}

func init() {
	rootCmd.AddCommand(lookupCmd, sectionsCmd, searchCmd, jurisdictionCmd)

	lookupCmd.Flags().StringVarP(&lookupFlags.section, "section", "s", "", "statute section")
	lookupCmd.Flags().StringVarP(&lookupFlags.act, "act", "a", "", "act name")
	addFormatFlag(lookupCmd, &lookupFlags.format)
	_ = lookupCmd.MarkFlagRequired("section")
	_ = lookupCmd.MarkFlagRequired("act")

	addFormatFlag(sectionsCmd, &sectionsFormat)
	addFormatFlag(searchCmd, &searchFormat)
	addFormatFlag(jurisdictionCmd, &jurisdictionFormat)
}

func runLookup(cmd *cobra.Command, args []string) error {
	cfg, store, err := loadConfigAndStore()
	if err != nil {
		return err
	}
	q, err := lookupFlags.query()
	if err != nil {
		return err
	}

	offense, err := store.OffenseDetails(q.Section, q.Act)
	if err != nil {
		return err
	}
	precedents := store.PrecedentsForSection(q.Section, q.Act)

	if outputFormat(lookupFlags.format, cfg) == "json" {
		return printJSON(struct {
			Offense    model.OffenseDetails `json:"offense"`
			Precedents []model.Precedent    `json:"precedents"`
		}{offense, precedents})
	}

	fmt.Printf("Section %s, %s: %s\n", offense.Section, offense.Act, offense.Title)
	fmt.Printf("Bail: %s\n", offense.Bail)
	if g := offense.BailGuideline; g.Description != "" {
		fmt.Printf("  %s\n", g.Description)
		for _, step := range g.Procedure {
			fmt.Printf("  - %s\n", step)
		}
	}
	if offense.Bail.IsNonBailable() {
		special := store.SpecialBailProvisions()
		if special.Description != "" {
			fmt.Printf("Special provisions: %s\n", special.Description)
			for _, d := range special.Details {
				fmt.Printf("  - %s\n", d)
			}
		}
	}
	fmt.Println("Rights:")
	for _, r := range offense.Rights {
		fmt.Printf("  - %s\n", r)
	}
	fmt.Println("Precedents:")
	if len(precedents) == 0 {
		fmt.Println("  (none on record)")
	}
	for _, p := range precedents {
		fmt.Printf("  - %s, %s\n", p.CaseName, p.Citation)
	}
	return nil
}

func runSections(cmd *cobra.Command, args []string) error {
	cfg, store, err := loadConfigAndStore()
	if err != nil {
		return err
	}

	acts := model.KnownActs
	if len(args) == 1 {
		act, known := textnorm.ResolveAct(args[0])
		if !known {
			return fmt.Errorf("unknown act %q", args[0])
		}
		acts = []model.Act{act}
	}

	if outputFormat(sectionsFormat, cfg) == "json" {
		out := make(map[model.Act][]model.LegalSection, len(acts))
		for _, act := range acts {
			out[act] = store.Sections(act)
		}
		return printJSON(out)
	}

	for _, act := range acts {
		sections := store.Sections(act)
		if len(sections) == 0 {
			continue
		}
		fmt.Printf("%s\n", act)
		for _, s := range sections {
			marker := ""
			if store.BailStatus(s.Section, act).IsNonBailable() {
				marker = " [non-bailable]"
			}
			fmt.Printf("  %-6s %s%s\n", s.Section, s.Title, marker)
		}
	}
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, store, err := loadConfigAndStore()
	if err != nil {
		return err
	}

	results := store.Search(strings.Join(args, " "))
	if outputFormat(searchFormat, cfg) == "json" {
		return printJSON(results)
	}

	if results.Empty() {
		fmt.Println("No matches.")
		return nil
	}
	if len(results.Sections) > 0 {
		fmt.Println("Sections:")
		for _, s := range results.Sections {
			fmt.Printf("  %s %s: %s\n", s.Act, s.Section, s.Title)
		}
	}
	if len(results.Precedents) > 0 {
		fmt.Println("Precedents:")
		for _, p := range results.Precedents {
			fmt.Printf("  %s, %s (Section %s, %s)\n", p.CaseName, p.Citation, p.Section, p.Act)
		}
	}
	return nil
}

func runJurisdiction(cmd *cobra.Command, args []string) error {
	cfg, store, err := loadConfigAndStore()
	if err != nil {
		return err
	}

	jurisdictions := store.Jurisdictions()
	if outputFormat(jurisdictionFormat, cfg) == "json" {
		return printJSON(jurisdictions)
	}

	for _, j := range jurisdictions {
		fmt.Printf("%s\n  %s\n", j.Name, j.Description)
		for _, item := range j.Items {
			fmt.Printf("  - %s\n", item)
		}
	}
	return nil
}
