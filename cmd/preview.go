/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"time"
	"vault/domain"
	"vault/domain/util"
	"vault/usecase"

	"github.com/spf13/cobra"
)

// previewCmd represents the preview command
var previewCmd = &cobra.Command{
	Use:   "preview <amount>",
	Short: "Shows the fee and net shares of a deposit",
	Long:  `Shows the origination fee and the net shares minted for a deposit of the given amount, using the configured fee rate.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		amount, err := domain.ParseUnits(args[0])
		if err != nil {
			fmt.Printf("⛔️ %v\n", err.Error())
			os.Exit(1)
		}

		vaultDependencyInject(configuredSettings(), usecase.NewClock(time.Now), nil, nil, nil)
		net, fee := vaultInteractor.PreviewDeposit(amount)

		fmt.Printf("Deposit:    %v (%v)\n", util.UnitsToUSDCString(amount), util.UnitsString(amount))
		fmt.Printf("Fee rate:   %v\n", util.BasisPointsString(vaultInteractor.FeeRate()))
		fmt.Printf("Fee:        %v (%v)\n", util.UnitsToUSDCString(fee), util.UnitsString(fee))
		fmt.Printf("Net shares: %v (%v)\n", util.SharesString(net), domain.FormatUnits(net))
		if net <= 0 {
			fmt.Printf("🟡 This deposit would be rejected, it mints no shares.\n")
		}
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
}
