// Package metrics records wastegrid operation counters on a private
// Prometheus registry and renders them in the text exposition format.
//
// Nothing is served over the network; the CLI prints WriteText output on
// demand. A nil *Metrics is valid and records nothing.
package metrics

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const namespace = "wastegrid"

// Result label values.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics holds the collectors and the registry they are registered on.
type Metrics struct {
	Registry *prometheus.Registry

	// FacilityMutations counts registry changes.
	// Labels: op (register, update, remove), result.
	FacilityMutations *prometheus.CounterVec

	// GraphMutations counts graph changes.
	// Labels: op (add_node, rename_node, remove_node, add_edge, set_weight, remove_edge), result.
	GraphMutations *prometheus.CounterVec

	// RouteQueries counts shortest-path queries.
	// Labels: strategy (heap, relax), result (ok, no_path, error).
	RouteQueries *prometheus.CounterVec

	// RouteLatency measures shortest-path query duration in seconds.
	RouteLatency prometheus.Histogram

	// StoreOperations counts persistence calls.
	// Labels: op (load, save), backend, result.
	StoreOperations *prometheus.CounterVec
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		FacilityMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "facility_mutations_total",
			Help:      "Facility registry mutations by operation and result",
		}, []string{"op", "result"}),
		GraphMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graph_mutations_total",
			Help:      "Routing graph mutations by operation and result",
		}, []string{"op", "result"}),
		RouteQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "route_queries_total",
			Help:      "Shortest-path queries by strategy and result",
		}, []string{"strategy", "result"}),
		RouteLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "route_query_seconds",
			Help:      "Shortest-path query latency in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		StoreOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "Persistence operations by backend and result",
		}, []string{"op", "backend", "result"}),
	}
	m.Registry.MustRegister(m.FacilityMutations, m.GraphMutations, m.RouteQueries, m.RouteLatency, m.StoreOperations)

	return m
}

// Result maps an error to a result label.
func Result(err error) string {
	if err != nil {
		return ResultError
	}

	return ResultOK
}

// FacilityMutation records one registry mutation.
func (m *Metrics) FacilityMutation(op string, err error) {
	if m == nil {
		return
	}
	m.FacilityMutations.WithLabelValues(op, Result(err)).Inc()
}

// GraphMutation records one graph mutation.
func (m *Metrics) GraphMutation(op string, err error) {
	if m == nil {
		return
	}
	m.GraphMutations.WithLabelValues(op, Result(err)).Inc()
}

// RouteQuery records one shortest-path query and its duration.
func (m *Metrics) RouteQuery(strategy, result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RouteQueries.WithLabelValues(strategy, result).Inc()
	m.RouteLatency.Observe(elapsed.Seconds())
}

// StoreOperation records one persistence call.
func (m *Metrics) StoreOperation(op, backend string, err error) {
	if m == nil {
		return
	}
	m.StoreOperations.WithLabelValues(op, backend, Result(err)).Inc()
}

// WriteText gathers the registry and writes every family in the Prometheus
// text format.
func (m *Metrics) WriteText(w io.Writer) error {
	if m == nil {
		return nil
	}
	families, err := m.Registry.Gather()
	if err != nil {
		return fmt.Errorf("metrics: gather: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("metrics: write %s: %w", mf.GetName(), err)
		}
	}

	return nil
}
