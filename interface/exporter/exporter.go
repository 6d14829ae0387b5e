package exporter

import (
	"sync"
	"vault/domain"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	METRIC_ERROR_COUNT     = "error_count"
	METRIC_OPERATION_COUNT = "operation_count"
	METRIC_EVENT_COUNT     = "event_count"
	METRIC_JOURNAL_PENDING = "journal_pending"

	METRIC_AUM            = "assets_under_management"
	METRIC_TVL            = "total_value_locked"
	METRIC_TRANCHE_SUPPLY = "tranche_supply"
	METRIC_FEES_COLLECTED = "fees_collected"
	METRIC_DEPLOYED       = "deployed_capital"
	METRIC_OVERDUE_CLAIMS = "overdue_claims"
)

var (
	once sync.Once

	counters = map[string]*prometheus.CounterVec{
		METRIC_ERROR_COUNT: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rwa",
			Subsystem: "vault",
			Name:      METRIC_ERROR_COUNT,
			Help:      "Counts the rejected operations by operation and error kind",
		}, []string{"operation", "kind"}),
		METRIC_OPERATION_COUNT: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rwa",
			Subsystem: "vault",
			Name:      METRIC_OPERATION_COUNT,
			Help:      "Counts the committed operations",
		}, []string{"operation"}),
		METRIC_EVENT_COUNT: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rwa",
			Subsystem: "vault",
			Name:      METRIC_EVENT_COUNT,
			Help:      "Counts the journaled events by kind",
		}, []string{"kind"}),
	}

	gauges = map[string]*prometheus.GaugeVec{
		METRIC_AUM:             newGauge(METRIC_AUM, "Assets under management, in base units"),
		METRIC_TVL:             newGauge(METRIC_TVL, "Base asset held by the vault, in base units"),
		METRIC_TRANCHE_SUPPLY:  newGauge(METRIC_TRANCHE_SUPPLY, "Share supply per tranche, in base units", "tranche"),
		METRIC_FEES_COLLECTED:  newGauge(METRIC_FEES_COLLECTED, "Retained origination fees, in base units"),
		METRIC_DEPLOYED:        newGauge(METRIC_DEPLOYED, "Outstanding face value of financed claims, in base units"),
		METRIC_OVERDUE_CLAIMS:  newGauge(METRIC_OVERDUE_CLAIMS, "Financed claims past due date"),
		METRIC_JOURNAL_PENDING: newGauge(METRIC_JOURNAL_PENDING, "Journal entries waiting to be stored"),
	}
)

func newGauge(name, help string, labels ...string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "rwa",
		Subsystem: "vault",
		Name:      name,
		Help:      help,
	}, labels)
}

// Init registers the metrics with the default registerer. Metrics are updated
// even when Init is never called, they are just not exported.
func Init() {
	once.Do(func() {
		for _, c := range counters {
			prometheus.MustRegister(c)
		}
		for _, g := range gauges {
			prometheus.MustRegister(g)
		}
	})
}

func GetCounter(name string, labels ...string) prometheus.Counter {
	return counters[name].WithLabelValues(labels...)
}

func GetGauge(name string, labels ...string) prometheus.Gauge {
	return gauges[name].WithLabelValues(labels...)
}

func IncErrorCount(operation string, kind string) {
	counters[METRIC_ERROR_COUNT].WithLabelValues(operation, kind).Inc()
}

func IncOperationCount(operation string) {
	counters[METRIC_OPERATION_COUNT].WithLabelValues(operation).Inc()
}

func IncEventCount(kind domain.EventKind) {
	counters[METRIC_EVENT_COUNT].WithLabelValues(string(kind)).Inc()
}

func SetJournalPending(n int) {
	gauges[METRIC_JOURNAL_PENDING].WithLabelValues().Set(float64(n))
}

func SetStats(stats domain.VaultStats) {
	s := stats.Snapshot
	gauges[METRIC_AUM].WithLabelValues().Set(float64(s.AssetsUnderManagement))
	gauges[METRIC_TVL].WithLabelValues().Set(float64(s.TotalValueLocked))
	gauges[METRIC_TRANCHE_SUPPLY].WithLabelValues(domain.Senior.String()).Set(float64(s.SeniorSupply))
	gauges[METRIC_TRANCHE_SUPPLY].WithLabelValues(domain.Junior.String()).Set(float64(s.JuniorSupply))
	gauges[METRIC_FEES_COLLECTED].WithLabelValues().Set(float64(s.FeesCollected))
	gauges[METRIC_DEPLOYED].WithLabelValues().Set(float64(s.DeployedCapital))
	gauges[METRIC_OVERDUE_CLAIMS].WithLabelValues().Set(float64(stats.OverdueClaims))
}
