package cli

import (
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/ppiankov/casematch/internal/argue"
)

var (
	argueFlags  queryFlags
	prosecution bool
	argueCount  int
	argueSeed   uint64
	bailFlags   queryFlags
	bailAgainst bool
	bailCount   int
)

var argueCmd = &cobra.Command{
	Use:   "argue",
	Short: "Draft trial arguments for the defense or the prosecution",
	Long: `Argue fills argument templates with case elements detected in the
description, the section, constitutional rights and the precedents on
record for the section. Output is a drafting aid, not legal advice.`,
	Example: `  casematch argue -s 302 -a IPC -d "The accused stabbed the victim" -n 3
  casematch argue -s 420 -a IPC -f complaint.txt --prosecution --seed 7`,
	RunE: runArgue,
}

var bailCmd = &cobra.Command{
	Use:   "bail",
	Short: "Draft bail-hearing arguments for or against release",
	RunE:  runBail,
}

func init() {
	rootCmd.AddCommand(argueCmd, bailCmd)

	addQueryFlags(argueCmd, &argueFlags)
	argueCmd.Flags().BoolVar(&prosecution, "prosecution", false, "argue for the prosecution instead of the defense")
	argueCmd.Flags().IntVarP(&argueCount, "count", "n", argue.DefaultCount, "number of arguments")
	argueCmd.Flags().Uint64Var(&argueSeed, "seed", 0, "random seed for reproducible output (0 = random)")

	addQueryFlags(bailCmd, &bailFlags)
	bailCmd.Flags().BoolVar(&bailAgainst, "against", false, "argue against bail")
	bailCmd.Flags().IntVarP(&bailCount, "count", "n", argue.DefaultCount, "number of arguments")
}

func newGenerator(ref argue.Reference, seed uint64) *argue.Generator {
	if seed == 0 {
		return argue.NewGenerator(ref, nil)
	}
	return argue.NewGenerator(ref, rand.New(rand.NewPCG(seed, seed)))
}

func runArgue(cmd *cobra.Command, args []string) error {
	cfg, store, err := loadConfigAndStore()
	if err != nil {
		return err
	}
	q, err := argueFlags.query()
	if err != nil {
		return err
	}

	result, err := newGenerator(store, argueSeed).Generate(q, !prosecution, argueCount)
	if err != nil {
		return err
	}

	if outputFormat(argueFlags.format, cfg) == "json" {
		return printJSON(result)
	}

	fmt.Printf("%s arguments, section %s of %s (%s)\n\n", title(string(result.Position)), q.Section, q.Act, result.Offense.Title)
	for i, a := range result.Arguments {
		fmt.Printf("%d. %s\n", i+1, a)
	}
	fmt.Printf("\nElements: %v\n", result.Elements)
	return nil
}

func runBail(cmd *cobra.Command, args []string) error {
	cfg, store, err := loadConfigAndStore()
	if err != nil {
		return err
	}
	q, err := bailFlags.query()
	if err != nil {
		return err
	}

	result, err := newGenerator(store, 0).GenerateBail(q, !bailAgainst, bailCount)
	if err != nil {
		return err
	}

	if outputFormat(bailFlags.format, cfg) == "json" {
		return printJSON(result)
	}

	fmt.Printf("Bail arguments (%s), section %s of %s: offense is %s\n\n", result.Position, q.Section, q.Act, result.Bail)
	for i, a := range result.Arguments {
		fmt.Printf("%d. %s\n", i+1, a)
	}
	return nil
}

func title(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
