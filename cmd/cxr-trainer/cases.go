// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/cxr-trainer/internal/fetch"
	"github.com/pdiddy/cxr-trainer/pkg/types"
)

var casesCmd = &cobra.Command{
	Use:   "cases",
	Short: "Browse and import teaching cases",
	Long: `Cases manages the teaching case library. Built-in cases ship with the
binary; additional bundles can be imported from YAML files or URLs.`,
}

// --- list subcommand ---

var casesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List teaching cases with optional filters",
	RunE:  runCasesList,
}

func runCasesList(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	lib, err := openLibrary(cfg)
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	filter := types.CaseFilter{
		Difficulty: types.CaseDifficulty(flagString(cmd, "difficulty")),
		Category:   types.CaseCategory(flagString(cmd, "category")),
	}

	builtIn := lib.FilterCases(filter)
	imported, err := st.ListCases(context.Background(), filter)
	if err != nil {
		return err
	}

	if flagBool(cmd, "json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(append(builtIn, imported...))
	}

	fmt.Fprintf(os.Stdout, "%-28s  %-36s  %-12s  %-12s  %s\n",
		"ID", "Title", "Difficulty", "Category", "Source")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for _, c := range builtIn {
		printCaseRow(c, "built-in")
	}
	for _, c := range imported {
		printCaseRow(c, "imported")
	}
	fmt.Fprintf(os.Stdout, "\n%d cases\n", len(builtIn)+len(imported))
	return nil
}

func printCaseRow(c types.Case, source string) {
	title := c.Title
	if len(title) > 36 {
		title = title[:33] + "..."
	}
	fmt.Fprintf(os.Stdout, "%-28s  %-36s  %-12s  %-12s  %s\n",
		c.ID, title, c.Difficulty, c.Category, source)
}

// --- show subcommand ---

var casesShowCmd = &cobra.Command{
	Use:   "show <case-id>",
	Short: "Show a teaching case",
	Long: `Show prints a case's history and described radiograph. The diagnosis,
key findings, and teaching points stay hidden unless --reveal is given,
so you can attempt the case first.`,
	Args: cobra.ExactArgs(1),
	RunE: runCasesShow,
}

func runCasesShow(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	lib, err := openLibrary(cfg)
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	c, ok := lib.Case(args[0])
	if !ok {
		c, err = st.GetCase(context.Background(), args[0])
		if err != nil {
			return err
		}
	}

	fmt.Printf("%s  [%s, %s]\n\n", c.Title, c.Difficulty, c.Category)
	fmt.Printf("History:\n  %s\n\n", c.History)
	if c.ClinicalContext != "" {
		fmt.Printf("Clinical context:\n  %s\n\n", c.ClinicalContext)
	}
	fmt.Printf("Radiograph:\n  %s\n", c.ImageDescription)

	if !flagBool(cmd, "reveal") {
		fmt.Println("\n(diagnosis hidden; rerun with --reveal after your attempt)")
		return nil
	}

	fmt.Printf("\nDiagnosis:\n  %s\n", c.Diagnosis)
	if len(c.KeyFindings) > 0 {
		fmt.Println("\nKey findings:")
		for _, f := range c.KeyFindings {
			fmt.Printf("  - %s\n", f)
		}
	}
	if len(c.TeachingPoints) > 0 {
		fmt.Println("\nTeaching points:")
		for _, p := range c.TeachingPoints {
			fmt.Printf("  - %s\n", p)
		}
	}
	if len(c.DifferentialsConsidered) > 0 {
		fmt.Println("\nDifferentials considered:")
		for _, d := range c.DifferentialsConsidered {
			fmt.Printf("  - %s\n", d)
		}
	}
	return nil
}

// --- import subcommand ---

var casesImportCmd = &cobra.Command{
	Use:   "import <path-or-url>",
	Short: "Import a YAML case bundle from a file or URL",
	Long: `Import loads a case bundle, validates every case, and stores the cases
for use alongside the built-ins. Cases whose IDs already exist are
skipped unless --overwrite is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runCasesImport,
}

func runCasesImport(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	bundle, err := fetch.Bundle(ctx, cfg.Import, args[0])
	if err != nil {
		return err
	}

	overwrite := flagBool(cmd, "overwrite")
	stored, skipped := 0, 0
	for _, c := range bundle.Cases {
		err := st.PutCase(ctx, c, bundle.Source, overwrite)
		if errors.Is(err, types.ErrCaseExists) {
			fmt.Printf("skipped %s (already exists)\n", c.ID)
			skipped++
			continue
		}
		if err != nil {
			return err
		}
		fmt.Printf("stored %s\n", c.ID)
		stored++
	}

	fmt.Printf("\nBundle %q: %d stored, %d skipped\n", bundle.Name, stored, skipped)
	return nil
}

// --- shared helpers ---

func flagString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

func flagBool(cmd *cobra.Command, name string) bool {
	v, _ := cmd.Flags().GetBool(name)
	return v
}

func init() {
	casesListCmd.Flags().String("difficulty", "", "filter by difficulty (beginner, intermediate, advanced)")
	casesListCmd.Flags().String("category", "", "filter by category (air_space, interstitial, nodule, pleural, mediastinal, technical)")
	casesListCmd.Flags().Bool("json", false, "output JSON")

	casesShowCmd.Flags().Bool("reveal", false, "show the diagnosis and teaching points")

	casesImportCmd.Flags().Bool("overwrite", false, "replace cases with matching IDs")

	casesCmd.AddCommand(casesListCmd, casesShowCmd, casesImportCmd)
	rootCmd.AddCommand(casesCmd)
}
