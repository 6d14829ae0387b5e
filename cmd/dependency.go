package cmd

import (
	"database/sql"
	"log"
	"time"
	"vault/domain"
	"vault/infrastructure/dbhandler"
	"vault/infrastructure/ledger"
	zaplog "vault/infrastructure/logger"
	"vault/interface/repository"
	"vault/usecase"

	"go.uber.org/zap"
)

// vaultSettings are the parameters of one vault instance.
type vaultSettings struct {
	feeRate      int64
	account      string
	admin        string
	distributors []string
}

func configuredSettings() vaultSettings {
	return vaultSettings{
		feeRate:      domain.GetFeeRate(),
		account:      domain.GetVaultAccount(),
		admin:        domain.GetAdminAccount(),
		distributors: domain.GetDistributors(),
	}
}

func defaultDependencyInject() {
	logger = zaplog.New(domain.GetLogLevel(), domain.GetLogFormat())

	var journalStore usecase.JournalStore
	var claimStore usecase.ClaimStore
	var snapshotStore usecase.SnapshotStore

	if domain.HasDatabase() {
		var err error
		dbPool, err = sql.Open("postgres", domain.GetDbUri())
		if err != nil {
			log.Fatal(err)
		}
		dbPool.SetMaxOpenConns(20)
		dbPool.SetMaxIdleConns(5)
		dbPool.SetConnMaxIdleTime(1 * time.Minute)
		dbPool.SetConnMaxLifetime(4 * time.Hour)

		dbHandler := dbhandler.DBHandler{DB: dbPool, Logger: logger.Named("db")}
		if err := dbHandler.Migrate(); err != nil {
			logger.Fatal("unable to prepare database", zap.Error(err))
		}

		journalRepository := repository.NewJournalRepository(dbHandler)
		claimRepository := repository.NewClaimRepository(dbHandler)
		snapshotRepository := repository.NewSnapshotRepository(dbHandler)

		journalStore = journalRepository
		claimStore = claimRepository
		snapshotStore = snapshotRepository
		historyInteractor = usecase.NewHistoryInteractor(claimRepository, journalRepository, snapshotRepository, logger)
	} else {
		logger.Warn("no database configured, journal is kept in memory")
	}

	vaultDependencyInject(configuredSettings(), usecase.NewClock(time.Now), journalStore, claimStore, snapshotStore)
}

// vaultDependencyInject wires an in-memory vault world. Nil stores keep the journal in memory.
func vaultDependencyInject(settings vaultSettings,
	vaultClock *usecase.Clock,
	journalStore usecase.JournalStore,
	claimStore usecase.ClaimStore,
	snapshotStore usecase.SnapshotStore) {

	if logger == nil {
		logger = zaplog.New(domain.GetLogLevel(), domain.GetLogFormat())
	}
	clock = vaultClock

	assetLedger = ledger.NewAssetLedger()
	claimRegistry = ledger.NewClaimRegistry(settings.admin, clock.Now)

	journalInteractor = usecase.NewJournalInteractor(journalStore, claimStore, claimRegistry, logger, clock.Now)
	claimRegistry.OnIssue(journalInteractor.ClaimIssued)

	var err error
	vaultInteractor, err = usecase.NewVaultInteractor(usecase.VaultSettings{
		Account:      settings.account,
		FeeRate:      settings.feeRate,
		Distributors: settings.distributors,
		Now:          clock.Now,
	},
		ledger.NewShareLedger(domain.Senior),
		ledger.NewShareLedger(domain.Junior),
		claimRegistry,
		assetLedger,
		journalInteractor,
		logger)
	if err != nil {
		logger.Fatal("unable to create vault", zap.Error(err))
	}

	statisticInteractor = usecase.NewStatisticInteractor(vaultInteractor, claimRegistry, snapshotStore, logger)
	simulationInteractor = usecase.NewSimulationInteractor(assetLedger, claimRegistry, vaultInteractor, clock, logger)
}

var dbPool *sql.DB
var logger *zap.Logger
var clock *usecase.Clock
var assetLedger *ledger.AssetLedger
var claimRegistry *ledger.ClaimRegistry
var vaultInteractor *usecase.VaultInteractor
var journalInteractor *usecase.JournalInteractor
var statisticInteractor *usecase.StatisticInteractor
var simulationInteractor *usecase.SimulationInteractor
var historyInteractor *usecase.HistoryInteractor
