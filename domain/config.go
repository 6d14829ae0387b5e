package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultFeeRate = 200

	DefaultVaultAccount   = "vault"
	DefaultMetricsAddress = ":9090"
)

var (
	ErrorInvalidFeeRate       = fmt.Errorf("origination_fee_bps must be between 0 and %d", BasisPoints)
	ErrorInvalidVaultAccount  = fmt.Errorf("vault_account must not be empty")
	ErrorInvalidAdminAccount  = fmt.Errorf("admin_account must not be empty")
	ErrorInvalidFlushInterval = fmt.Errorf("invalid time interval for journal flush")
	ErrorInvalidStatsInterval = fmt.Errorf("invalid time interval for statistics")
	ErrorInvalidLogLevel      = fmt.Errorf("log_level must be one of debug, info, warn, error")
	ErrorInvalidLogFormat     = fmt.Errorf("log_format must be either 'console' or 'json'")
)

var (
	TrailingSlashRE = regexp.MustCompile("/+$")
)

var (
	dbUri string

	feeRate      int64
	vaultAccount string
	adminAccount string
	distributors []string

	metricsAddress    string
	logLevel          string
	logFormat         string
	bootstrapScenario string

	flushInterval time.Duration
	statsInterval time.Duration
)

func init() {
	viper.SetDefault("origination_fee_bps", DefaultFeeRate)
	viper.SetDefault("vault_account", DefaultVaultAccount)
	viper.SetDefault("admin_account", "admin")
	viper.SetDefault("metrics_address", DefaultMetricsAddress)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "console")
	viper.SetDefault("flush_interval", "30s")
	viper.SetDefault("stats_interval", "1m")
}

// ReadConfig loads the configuration file, lets environment variables override
// it, and processes the values. A missing file is not an error as long as the
// processed values are valid.
func ReadConfig(filePath string) (warning error, err error) {
	if filePath != "" {
		viper.SetConfigFile(filePath)
	}

	viper.AutomaticEnv()

	if filePath != "" {
		if err := viper.ReadInConfig(); err != nil {
			warning = err
		}
	}

	return warning, initializeVariables()
}

// This method processes the configuration parameters and keeps the processed values
// in some variables for later accesses rapidly.
func initializeVariables() error {

	// Database stuff
	dbUri = TrailingSlashRE.ReplaceAllString(strings.TrimSpace(viper.GetString("service_db_uri")), "")

	// Vault stuff
	feeRate = viper.GetInt64("origination_fee_bps")
	if feeRate < 0 || feeRate > BasisPoints {
		return ErrorInvalidFeeRate
	}

	vaultAccount = strings.TrimSpace(viper.GetString("vault_account"))
	if vaultAccount == "" {
		return ErrorInvalidVaultAccount
	}

	adminAccount = strings.TrimSpace(viper.GetString("admin_account"))
	if adminAccount == "" {
		return ErrorInvalidAdminAccount
	}

	distributors = make([]string, 0, 2)
	for _, d := range viper.GetStringSlice("distributors") {
		d = strings.TrimSpace(d)
		if d != "" {
			distributors = append(distributors, d)
		}
	}

	bootstrapScenario = strings.TrimSpace(viper.GetString("bootstrap_scenario"))

	// Observability stuff
	metricsAddress = strings.TrimSpace(viper.GetString("metrics_address"))

	logLevel = strings.ToLower(strings.TrimSpace(viper.GetString("log_level")))
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return ErrorInvalidLogLevel
	}

	logFormat = strings.ToLower(strings.TrimSpace(viper.GetString("log_format")))
	if logFormat != "console" && logFormat != "json" {
		return ErrorInvalidLogFormat
	}

	//---------------------------------------------------------------
	// flush interval
	var err error
	flushInterval, err = time.ParseDuration(viper.GetString("flush_interval"))
	if err != nil || flushInterval <= 0 {
		return ErrorInvalidFlushInterval
	}

	//---------------------------------------------------------------
	// stats interval
	statsInterval, err = time.ParseDuration(viper.GetString("stats_interval"))
	if err != nil || statsInterval <= 0 {
		return ErrorInvalidStatsInterval
	}

	return nil
}

//-------------------------------------------------------------------
// Normal configuration values

func GetDbUri() string {
	return dbUri
}

func GetFeeRate() int64 {
	return feeRate
}

func GetVaultAccount() string {
	return vaultAccount
}

func GetAdminAccount() string {
	return adminAccount
}

// GetDistributors returns the accounts allowed to distribute returns and finance
// claims. The admin account is always one of them.
func GetDistributors() []string {
	res := make([]string, 0, len(distributors)+1)
	res = append(res, adminAccount)
	for _, d := range distributors {
		if d != adminAccount {
			res = append(res, d)
		}
	}
	return res
}

func GetMetricsAddress() string {
	return metricsAddress
}

func GetLogLevel() string {
	return logLevel
}

func GetLogFormat() string {
	return logFormat
}

func GetBootstrapScenario() string {
	return bootstrapScenario
}

func GetFlushInterval() time.Duration {
	return flushInterval
}

func GetStatsInterval() time.Duration {
	return statsInterval
}

// -------------------------------------------------------------------
// Evaluating values

func HasDatabase() bool {
	return dbUri != ""
}
