/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"
	"vault/domain/util"
	"vault/interface/repository"

	"github.com/spf13/cobra"
)

var claimStatus string

// claimsCmd represents the claims command
var claimsCmd = &cobra.Command{
	Use:   "claims [id]",
	Short: "Lists the claims mirrored in the database",
	Long: `Lists the claims as they were last mirrored by the journal, either one claim by id
or all claims with the status given by --status (pending, financed, repaid, defaulted).`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		defaultDependencyInject()
		defer logger.Sync()
		if historyInteractor == nil {
			fmt.Printf("⛔️ No database configured\n")
			os.Exit(1)
		}

		records, err := findClaims(args, claimStatus)
		if err != nil {
			fmt.Printf("⛔️ %v\n", err.Error())
			os.Exit(1)
		}
		printOutClaims(records)
	},
}

func findClaims(args []string, status string) ([]repository.ClaimRecord, error) {
	if len(args) == 0 {
		if status == "" {
			return nil, fmt.Errorf("either a claim id or --status is required")
		}
		return historyInteractor.ClaimsByStatus(status)
	}

	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid claim id '%v'", args[0])
	}
	record, err := historyInteractor.Claim(id)
	if err != nil {
		return nil, err
	}
	return []repository.ClaimRecord{*record}, nil
}

func printOutClaims(records []repository.ClaimRecord) {
	fmt.Printf("------------- CLAIMS -------------------------\n")
	for _, r := range records {
		fmt.Printf("#%-5v %-10v %-22v repaid %-20v holder %v, due %v\n",
			r.ID, r.Status, util.UnitsToUSDCString(r.FaceValue), util.UnitsToUSDCString(r.AmountRepaid),
			r.Holder, r.DueDate.Format(time.RFC3339))
	}
	fmt.Printf("%v claims\n", len(records))
}

func init() {
	rootCmd.AddCommand(claimsCmd)

	claimsCmd.Flags().StringVar(&claimStatus, "status", "", "list the claims with this status")
}
