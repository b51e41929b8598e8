// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/cxr-trainer/internal/store"
	"github.com/pdiddy/cxr-trainer/pkg/types"
)

var knowledgeCmd = &cobra.Command{
	Use:   "knowledge [query]",
	Short: "Search the reference library",
	Long: `Knowledge runs full-text search over the indexed reference material:
checklist prompts, pattern variants with their differentials, and
teaching cases. Combine a query with --type or --region filters.`,
	RunE: runKnowledge,
}

func runKnowledge(cmd *cobra.Command, args []string) error {
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

	ctx := context.Background()
	if err := st.IndexLibrary(ctx, lib); err != nil {
		return err
	}

	opts := store.QueryOptions{
		Query:  strings.Join(args, " "),
		Type:   store.SearchItemType(flagString(cmd, "type")),
		Region: types.Region(flagString(cmd, "region")),
	}
	if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 {
		opts.MaxResults = limit
	}
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --type, or --region")
	}

	results, err := st.Search(ctx, opts)
	if err != nil {
		return err
	}

	return formatSearchOutput(results, flagBool(cmd, "json"))
}

func formatSearchOutput(results []store.SearchResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-12s  %-44s  %-12s  %s\n",
		"Rank", "Type", "Title", "Region", "Content")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for i, r := range results {
		title := r.Title
		if len(title) > 44 {
			title = title[:41] + "..."
		}
		content := r.Content
		if len(content) > 40 {
			content = content[:37] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-12s  %-44s  %-12s  %s\n",
			i+1, r.Type, title, r.Region, content)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

func init() {
	knowledgeCmd.Flags().String("type", "", "filter by entry type (checklist, differential, case)")
	knowledgeCmd.Flags().String("region", "", "filter checklist entries by review region")
	knowledgeCmd.Flags().Int("limit", 0, "maximum results (default from config)")
	knowledgeCmd.Flags().Bool("json", false, "output JSON")
	rootCmd.AddCommand(knowledgeCmd)
}
