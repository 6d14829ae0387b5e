/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var eventKind string

// journalCmd represents the journal command
var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Prints the stored journal entries of one kind",
	Long: `Prints the journal entries stored in the database for the event kind given by --kind
(deposited, withdrawn, returns_distributed, claim_issued, claim_financed, claim_repaid).`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		defaultDependencyInject()
		defer logger.Sync()
		if historyInteractor == nil {
			fmt.Printf("⛔️ No database configured\n")
			os.Exit(1)
		}

		entries, err := historyInteractor.Events(eventKind)
		if err != nil {
			fmt.Printf("⛔️ %v\n", err.Error())
			os.Exit(1)
		}

		fmt.Printf("------------- JOURNAL ------------------------\n")
		for _, entry := range entries {
			fmt.Printf("%v %v %v\n", entry.CreateTime.Format(time.RFC3339), entry.ID, string(entry.Payload))
		}
		fmt.Printf("%v entries of %v\n", len(entries), eventKind)
	},
}

func init() {
	rootCmd.AddCommand(journalCmd)

	journalCmd.Flags().StringVar(&eventKind, "kind", "", "event kind to print")
	journalCmd.MarkFlagRequired("kind")
}
