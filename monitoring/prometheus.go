package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wipeforge/logx"
)

type nodePromMetrics struct {
	nodeUpUnixSeconds prometheus.Gauge
	chainHeight       prometheus.Gauge
	appendedRecords   prometheus.Counter
	completedWipes    *prometheus.CounterVec
	validationRuns    prometheus.Counter
	tamperDetections  prometheus.Counter
	panicCount        prometheus.Counter
}

func newNodePromMetrics() *nodePromMetrics {
	return &nodePromMetrics{
		nodeUpUnixSeconds: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "wipeforge_node_up_timestamp_unix_seconds",
				Help: "Unix timestamp of the node",
			},
		),
		chainHeight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "wipeforge_chain_height",
				Help: "The position of the latest chain record",
			},
		),
		appendedRecords: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "wipeforge_records_appended_total",
				Help: "The total number of records appended to the chain",
			},
		),
		completedWipes: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wipeforge_wipes_completed_total",
				Help: "The total number of completed wipe simulations",
			},
			[]string{"method"},
		),
		validationRuns: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "wipeforge_validation_runs_total",
				Help: "The total number of full chain validation passes",
			},
		),
		tamperDetections: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "wipeforge_tamper_detections_total",
				Help: "The total number of validation passes that found failures",
			},
		),
		panicCount: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "wipeforge_panic_total",
				Help: "The total number of recovered panics",
			},
		),
	}
}

var nodeMetrics *nodePromMetrics

// InitMetrics initializes node metrics without exposing them yet
func InitMetrics() {
	nodeMetrics = newNodePromMetrics()
	nodeMetrics.nodeUpUnixSeconds.SetToCurrentTime()
}

// RegisterMetrics attaches the prometheus handler to the given mux
func RegisterMetrics(mux *http.ServeMux) {
	logx.Info("METRICS", "Registering prometheus metrics")
	mux.Handle("/metrics", promhttp.Handler())
}

func SetChainHeight(position uint64) {
	if nodeMetrics == nil {
		return
	}
	nodeMetrics.chainHeight.Set(float64(position))
}

func IncreaseAppendedRecords() {
	if nodeMetrics == nil {
		return
	}
	nodeMetrics.appendedRecords.Inc()
}

func RecordCompletedWipe(method string) {
	if nodeMetrics == nil {
		return
	}
	nodeMetrics.completedWipes.With(prometheus.Labels{"method": method}).Inc()
}

func IncreaseValidationRuns() {
	if nodeMetrics == nil {
		return
	}
	nodeMetrics.validationRuns.Inc()
}

func IncreaseTamperDetections() {
	if nodeMetrics == nil {
		return
	}
	nodeMetrics.tamperDetections.Inc()
}

func IncreasePanicCount() {
	if nodeMetrics == nil {
		return
	}
	nodeMetrics.panicCount.Inc()
}
