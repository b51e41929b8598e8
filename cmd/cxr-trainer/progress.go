// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pdiddy/cxr-trainer/pkg/types"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show learning progress across stored case attempts",
	RunE:  runProgress,
}

func runProgress(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	summary, err := st.Progress(context.Background())
	if err != nil {
		return err
	}

	if flagBool(cmd, "json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	fmt.Printf("Sessions: %d\n", summary.SessionCount)
	fmt.Printf("Case attempts: %d (%d correct, %.0f%% accuracy)\n",
		summary.AttemptCount, summary.CorrectCount, summary.Accuracy()*100)
	if summary.AttemptCount > 0 {
		fmt.Printf("Regions reviewed before submitting: %.1f on average\n",
			summary.AvgRegionsReviewed)
	}

	if summary.SessionCount > 0 {
		fmt.Println("\nRegion completion:")
		for _, region := range types.ReviewSequence {
			fmt.Printf("  %-12s  %d sessions\n", region, summary.ByRegion[region])
		}
	}

	if len(summary.ByCategory) == 0 {
		return nil
	}

	categories := make([]string, 0, len(summary.ByCategory))
	for cat := range summary.ByCategory {
		categories = append(categories, string(cat))
	}
	sort.Strings(categories)

	fmt.Println("\nBy category:")
	for _, cat := range categories {
		p := summary.ByCategory[types.CaseCategory(cat)]
		fmt.Printf("  %-14s  %d attempted, %d correct\n", cat, p.Attempted, p.Correct)
	}
	return nil
}

func init() {
	progressCmd.Flags().Bool("json", false, "output JSON")
	rootCmd.AddCommand(progressCmd)
}
