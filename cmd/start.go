/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"
	"vault/domain"
	"vault/interface/exporter"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var quit = make(chan bool)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Starts the vault service",
	Long: `Starts the vault service: exports the metrics, flushes the journal and collects
statistics periodically. If a bootstrap scenario is configured, it is replayed first.
To stop it, send SIGINT or SIGTERM.`,
	Run: func(cmd *cobra.Command, args []string) {
		defaultDependencyInject()
		defer logger.Sync()

		exporter.Init()
		server := &http.Server{Addr: domain.GetMetricsAddress(), Handler: metricsHandler()}
		go func() {
			logger.Info("serving metrics", zap.String("address", server.Addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server stopped", zap.Error(err))
			}
		}()

		logPreviousSnapshot()

		if path := domain.GetBootstrapScenario(); path != "" {
			if err := bootstrap(path); err != nil {
				logger.Error("bootstrap scenario failed", zap.String("path", path), zap.Error(err))
			}
		}

		flushTicker := schedule(flush, domain.GetFlushInterval(), quit)
		statsTicker := schedule(collect, domain.GetStatsInterval(), quit)

		signal.Ignore()
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		s := <-stop
		logger.Info("stopping", zap.Stringer("signal", s))

		flushTicker.Stop()
		statsTicker.Stop()
		close(quit)

		flush()
		collect()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(ctx)
		if dbPool != nil {
			dbPool.Close()
		}
	},
}

func metricsHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func schedule(task func(), interval time.Duration, done chan bool) *time.Ticker {
	ticker := time.NewTicker(interval)
	go func() {
		for {
			select {

			case <-ticker.C:
				ticker.Stop()
				task()
				ticker.Reset(interval)

			case <-done:
				return
			}
		}
	}()
	return ticker
}

func flush() {
	if err := journalInteractor.Flush(); err != nil {
		fmt.Printf("❌ Journal is not flushed, %v entries pending - %v\n", journalInteractor.Pending(), err.Error())
	}
}

func collect() {
	stats, err := statisticInteractor.Collect()
	if err != nil {
		fmt.Printf("❌ Snapshot is not stored - %v\n", err.Error())
	}
	logger.Debug("statistics collected",
		zap.Int64("aum", stats.Snapshot.AssetsUnderManagement),
		zap.Int64("tvl", stats.Snapshot.TotalValueLocked),
		zap.Int("claims", stats.ClaimCount))
}

func bootstrap(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scenario, err := domain.ReadScenario(file)
	if err != nil {
		return err
	}
	if err := checkBootstrapScenario(scenario, configuredSettings()); err != nil {
		return err
	}

	results, err := simulationInteractor.Run(scenario)
	printOutResults(scenario, results)
	return err
}

// checkBootstrapScenario rejects a scenario whose header asks for a vault other
// than the configured one.
func checkBootstrapScenario(scenario *domain.Scenario, settings vaultSettings) error {
	if scenario.FeeRate != nil && *scenario.FeeRate != settings.feeRate {
		return fmt.Errorf("%w: fee_bps %v, configured %v", domain.ErrorScenarioMismatch, *scenario.FeeRate, settings.feeRate)
	}
	if scenario.Vault != "" && scenario.Vault != settings.account {
		return fmt.Errorf("%w: vault '%v', configured '%v'", domain.ErrorScenarioMismatch, scenario.Vault, settings.account)
	}
	if scenario.Admin != "" && scenario.Admin != settings.admin {
		return fmt.Errorf("%w: admin '%v', configured '%v'", domain.ErrorScenarioMismatch, scenario.Admin, settings.admin)
	}
	for _, d := range scenario.Distributors {
		if !slices.Contains(settings.distributors, d) {
			return fmt.Errorf("%w: '%v' is not a configured distributor", domain.ErrorScenarioMismatch, d)
		}
	}
	return nil
}

func logPreviousSnapshot() {
	if historyInteractor == nil {
		return
	}
	snapshot, err := historyInteractor.LatestSnapshot()
	if err != nil || snapshot == nil {
		return
	}
	logger.Info("previous snapshot",
		zap.Time("time", snapshot.Time),
		zap.Int64("aum", snapshot.AssetsUnderManagement),
		zap.Int64("tvl", snapshot.TotalValueLocked),
		zap.Int64("fees", snapshot.FeesCollected),
		zap.Int64("deployed", snapshot.DeployedCapital))
}

func init() {
	rootCmd.AddCommand(startCmd)
}
