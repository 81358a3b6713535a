// Package metrics records what stores fetch and mutate.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder receives store activity. Implementations must be safe for concurrent use.
type Recorder interface {
	// FetchSettled is called once per fetch stage with its outcome.
	FetchSettled(store, stage string, elapsed time.Duration, err error)
	// Mutation is called for every applied create, update or remove.
	Mutation(store, collection, action string)
	// StaleDiscarded is called when a fetch result arrives for a scope that is no
	// longer selected.
	StaleDiscarded(store, stage string)
}

type nop struct{}

// Nop discards everything.
func Nop() Recorder { return nop{} }

func (nop) FetchSettled(string, string, time.Duration, error) {}
func (nop) Mutation(string, string, string) {}
func (nop) StaleDiscarded(string, string) {}

type Prometheus struct {
	fetches   *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	mutations *prometheus.CounterVec
	stale     *prometheus.CounterVec
}

// NewPrometheus creates the collectors under namespace and registers them with reg.
func NewPrometheus(namespace string, reg prometheus.Registerer) (*Prometheus, error) {
	p := &Prometheus{
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_fetches_total",
			Help:      "Fetch stages settled, by store, stage and outcome.",
		}, []string{"store", "stage", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_fetch_duration_seconds",
			Help:      "Time spent in a fetch stage.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"store", "stage"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_mutations_total",
			Help:      "Collection mutations applied.",
		}, []string{"store", "collection", "action"}),
		stale: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_stale_results_total",
			Help:      "Fetch results discarded because the scope changed.",
		}, []string{"store", "stage"}),
	}

	for _, c := range []prometheus.Collector{p.fetches, p.duration, p.mutations, p.stale} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Prometheus) FetchSettled(store, stage string, elapsed time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	p.fetches.WithLabelValues(store, stage, outcome).Inc()
	p.duration.WithLabelValues(store, stage).Observe(elapsed.Seconds())
}

func (p *Prometheus) Mutation(store, collection, action string) {
	p.mutations.WithLabelValues(store, collection, action).Inc()
}

func (p *Prometheus) StaleDiscarded(store, stage string) {
	p.stale.WithLabelValues(store, stage).Inc()
}
