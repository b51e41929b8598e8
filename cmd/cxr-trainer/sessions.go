// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List and delete stored review sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored sessions, most recently updated first",
	RunE:  runSessionsList,
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	sessions, err := st.ListSessions(context.Background())
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("No stored sessions.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-8s  %-26s  %-20s  %s\n",
		"ID", "Kind", "Case", "Created", "Updated")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))
	for _, s := range sessions {
		caseID := s.CaseID
		if caseID == "" {
			caseID = "-"
		}
		fmt.Fprintf(os.Stdout, "%-36s  %-8s  %-26s  %-20s  %s\n",
			s.ID, s.Kind, caseID,
			s.CreatedAt.Format("2006-01-02 15:04"),
			s.UpdatedAt.Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(os.Stdout, "\n%d sessions\n", len(sessions))
	return nil
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a stored session and its attempts",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsDelete,
}

func runSessionsDelete(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.DeleteSession(context.Background(), args[0]); err != nil {
		return err
	}
	fmt.Printf("deleted session %s\n", args[0])
	return nil
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd, sessionsDeleteCmd)
	rootCmd.AddCommand(sessionsCmd)
}
