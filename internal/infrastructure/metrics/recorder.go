package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"summerschool.lol/lolcoin/internal/domain/entity"
)

// Recorder implements the Recorder port on a private Prometheus registry
type Recorder struct {
	registry  *prometheus.Registry
	polls     *prometheus.CounterVec
	accounts  prometheus.Gauge
	transfers *prometheus.CounterVec
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		polls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lolcoin_ledger_polls_total",
			Help: "Number of ledger polls by result.",
		}, []string{"result"}),
		accounts: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lolcoin_ledger_accounts",
			Help: "Number of accounts in the last successful poll.",
		}),
		transfers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lolcoin_transfers_total",
			Help: "Number of settled transfer attempts by outcome.",
		}, []string{"outcome"}),
	}
	r.registry.MustRegister(r.polls, r.accounts, r.transfers)
	return r
}

// RecordPoll counts one poll and, when it succeeded, its account count.
func (r *Recorder) RecordPoll(ok bool, accounts int) {
	if !ok {
		r.polls.WithLabelValues("error").Inc()
		return
	}
	r.polls.WithLabelValues("ok").Inc()
	r.accounts.Set(float64(accounts))
}

// RecordTransfer counts one settled transfer.
func (r *Recorder) RecordTransfer(kind entity.OutcomeKind) {
	r.transfers.WithLabelValues(string(kind)).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
