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

// simulateCmd represents the simulate command
var simulateCmd = &cobra.Command{
	Use:   "simulate <scenario.yaml>",
	Short: "Replays a scenario against a fresh in-memory vault",
	Long: `Replays the steps of a YAML scenario against a fresh in-memory vault and prints
the outcome of every step and the final state of the vault. Values missing in the
scenario header are taken from the configuration.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		file, err := os.Open(args[0])
		if err != nil {
			fmt.Printf("⛔️ Unable to open scenario - %v\n", err.Error())
			os.Exit(1)
		}
		scenario, err := domain.ReadScenario(file)
		file.Close()
		if err != nil {
			fmt.Printf("⛔️ Invalid scenario - %v\n", err.Error())
			os.Exit(1)
		}

		vaultDependencyInject(scenarioSettings(scenario), usecase.FixedClock(time.Now().UTC().Truncate(time.Second)), nil, nil, nil)
		defer logger.Sync()

		results, err := simulationInteractor.Run(scenario)
		printOutResults(scenario, results)
		printOutStats()

		if err != nil {
			fmt.Printf("❌ %v\n", err.Error())
			os.Exit(1)
		}
	},
}

func scenarioSettings(scenario *domain.Scenario) vaultSettings {
	settings := configuredSettings()
	if scenario.FeeRate != nil {
		settings.feeRate = *scenario.FeeRate
	}
	if scenario.Vault != "" {
		settings.account = scenario.Vault
	}
	if scenario.Admin != "" {
		settings.admin = scenario.Admin
	}
	distributors := append([]string{settings.admin}, scenario.Distributors...)
	if len(scenario.Distributors) == 0 {
		distributors = append(distributors, settings.distributors...)
	}
	settings.distributors = distributors
	return settings
}

func printOutResults(scenario *domain.Scenario, results []usecase.StepResult) {
	fmt.Printf("------------- SCENARIO STEPS -----------------\n")
	for _, result := range results {
		mark := "✅"
		if !result.Expected(scenario.Steps[result.Index]) {
			mark = "❌"
		} else if result.Err != nil {
			mark = "☑️ "
		}
		fmt.Printf("%v #%03d %-14v %v\n", mark, result.Index, result.Op, result.Detail)
	}
	if skipped := len(scenario.Steps) - len(results); skipped > 0 {
		fmt.Printf("   %v more steps skipped\n", skipped)
	}
}

func printOutStats() {
	stats, _ := statisticInteractor.Collect()
	s := stats.Snapshot

	fmt.Printf("------------- VAULT STATE --------------------\n")
	fmt.Printf("Fee rate:                %v\n", util.BasisPointsString(s.FeeRate))
	fmt.Printf("Total value locked:      %v\n", util.UnitsToUSDCString(s.TotalValueLocked))
	fmt.Printf("Assets under management: %v\n", util.UnitsToUSDCString(s.AssetsUnderManagement))
	fmt.Printf("Fees collected:          %v\n", util.UnitsToUSDCString(s.FeesCollected))
	fmt.Printf("Senior supply:           %v\n", util.SharesString(s.SeniorSupply))
	fmt.Printf("Junior supply:           %v\n", util.SharesString(s.JuniorSupply))
	fmt.Printf("Distributed:             senior %v, junior %v\n", util.UnitsToUSDCString(s.SeniorDistributed), util.UnitsToUSDCString(s.JuniorDistributed))
	fmt.Printf("Deployed capital:        %v\n", util.UnitsToUSDCString(s.DeployedCapital))
	fmt.Printf("Claims:                  %v (%v overdue, %v outstanding)\n", stats.ClaimCount, stats.OverdueClaims, util.UnitsToUSDCString(stats.OverdueAmount))
	fmt.Printf("Journal:                 %v entries\n", journalInteractor.Pending())
}

func init() {
	rootCmd.AddCommand(simulateCmd)
}
