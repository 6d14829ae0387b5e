/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"vault/domain"

	"github.com/spf13/cobra"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vault",
	Short: "Two-tranche structured finance vault",
	Long: `Runs a senior/junior tranche vault that takes deposits net of an origination
fee, distributes returns through a proportional waterfall and finances invoice claims.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml when present)")
}

func initConfig() {
	filePath := cfgFile
	if filePath == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			filePath = "config.yaml"
		}
	}

	warning, err := domain.ReadConfig(filePath)
	if warning != nil {
		fmt.Printf("🟡 Config file is not loaded, using defaults and environment - %v\n", warning.Error())
	}
	if err != nil {
		fmt.Printf("⛔️ Invalid configuration - %v\n", err.Error())
		os.Exit(1)
	}
}
