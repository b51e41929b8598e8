// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/cxr-trainer/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report <session-id>",
	Short: "Render the structured report for a stored session",
	Long: `Report generates the structured findings report for a review session:
the technical quality block, per-region findings in the canonical
review order, and the pattern analysis with differentials. Every value
you selected appears verbatim.`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
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

	session, err := st.GetSession(context.Background(), args[0])
	if err != nil {
		return err
	}

	format, err := report.ParseFormat(flagString(cmd, "format"))
	if err != nil {
		return err
	}

	rep, err := report.Generate(lib, session)
	if err != nil {
		return err
	}
	out, err := rep.Render(format)
	if err != nil {
		return err
	}

	fmt.Println(out)
	return nil
}

func init() {
	reportCmd.Flags().String("format", "text", "output format (text, json, yaml)")
	rootCmd.AddCommand(reportCmd)
}
