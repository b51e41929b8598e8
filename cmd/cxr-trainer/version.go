package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of cxr-trainer",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("cxr-trainer %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
