package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "txledger"

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	Transactions   *prometheus.CounterVec
	AccountsLocked prometheus.Counter
	Accounts       prometheus.Gauge

	// Decoder metrics
	RecordsRead  prometheus.Counter
	DecodeErrors *prometheus.CounterVec

	// Output metrics
	AccountsWritten *prometheus.CounterVec
	WriteErrors     *prometheus.CounterVec
	SinkRetries     prometheus.Counter

	LoadDuration prometheus.Histogram
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Transactions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transactions_total",
				Help:      "Transactions handed to the ledger by type and outcome",
			},
			[]string{"type", "outcome"},
		),
		AccountsLocked: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "accounts_locked_total",
			Help:      "Accounts locked by a chargeback",
		}),
		Accounts: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "accounts",
			Help:      "Client accounts known to the ledger",
		}),

		RecordsRead: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_read_total",
			Help:      "Input records read, valid or not",
		}),
		DecodeErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "decode_errors_total",
				Help:      "Input records rejected by the decoder by kind",
			},
			[]string{"kind"},
		),

		AccountsWritten: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "accounts_written_total",
				Help:      "Accounts written to the output sink",
			},
			[]string{"sink"},
		),
		WriteErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "write_errors_total",
				Help:      "Output sink write failures",
			},
			[]string{"sink"},
		),
		SinkRetries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_retries_total",
			Help:      "Retried output sink batches",
		}),

		LoadDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "load_duration_seconds",
			Help:      "Time spent reading and applying the input stream",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
	}
}

// WriteTextfile dumps everything gathered by g in the node exporter
// textfile collector format.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
