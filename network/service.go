// Package network ties the facility registry and the routing graph into one
// service: it resolves facility ids to graph nodes, keeps facility locations
// in step with node renames, answers route and reachability queries, keeps
// the emission ledger and persists everything through a store.Store.
//
// A Service serialises every call with one mutex. Mutations are not saved
// automatically; call Save after each committed change.
package network

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/katalvlaran/wastegrid/core"
	"github.com/katalvlaran/wastegrid/dijkstra"
	"github.com/katalvlaran/wastegrid/emission"
	"github.com/katalvlaran/wastegrid/facility"
	"github.com/katalvlaran/wastegrid/metrics"
	"github.com/katalvlaran/wastegrid/store"
)

// Options configures New.
type Options struct {
	// Store is the backing store. Nil keeps everything in memory and makes
	// Save a no-op.
	Store store.Store

	// Backend labels store metrics. Default "memory" when Store is nil.
	Backend string

	// MultiEdges selects the accumulating parallel-edge policy.
	MultiEdges bool

	// BaseFactor is the emission factor per distance unit. Zero means
	// emission.DefaultBaseFactor.
	BaseFactor float64

	// ClosedAt marks roads with weight >= ClosedAt as closed: routes,
	// reachability and isolation checks ignore them. Zero disables it.
	ClosedAt float64

	// Logger defaults to a discarding logger.
	Logger *slog.Logger

	// Metrics may be nil.
	Metrics *metrics.Metrics
}

// Service is the facade over registry, graph, ledger and store.
type Service struct {
	mu sync.Mutex

	registry  *facility.Registry
	graph     *core.Graph
	ledger    *emission.Ledger
	estimator *emission.Estimator

	store      store.Store
	backend    string
	multiEdges bool
	closedAt   float64

	log     *slog.Logger
	metrics *metrics.Metrics
}

// New builds a Service and loads the store. A load failure, or stored data
// that has to be repaired, is logged as a warning and the service starts
// with whatever could be recovered (possibly nothing). Only invalid options
// are returned as errors.
func New(ctx context.Context, opts Options) (*Service, error) {
	base := opts.BaseFactor
	if base == 0 {
		base = emission.DefaultBaseFactor
	}
	est, err := emission.NewEstimator(base)
	if err != nil {
		return nil, classify(err)
	}
	if math.IsNaN(opts.ClosedAt) || opts.ClosedAt < 0 {
		return nil, classify(fmt.Errorf("%w: closed-road weight %v", dijkstra.ErrBadInfThreshold, opts.ClosedAt))
	}
	s := &Service{
		registry:   facility.NewRegistry(),
		ledger:     emission.NewLedger(),
		estimator:  est,
		store:      opts.Store,
		backend:    opts.Backend,
		multiEdges: opts.MultiEdges,
		closedAt:   opts.ClosedAt,
		log:        opts.Logger,
		metrics:    opts.Metrics,
	}
	if s.log == nil {
		s.log = slog.New(slog.DiscardHandler)
	}
	if s.backend == "" && s.store == nil {
		s.backend = "memory"
	}
	s.graph = core.NewGraph(s.graphOptions()...)
	s.load(ctx)

	return s, nil
}

func (s *Service) graphOptions() []core.GraphOption {
	if s.multiEdges {
		return []core.GraphOption{core.WithMultiEdges()}
	}

	return nil
}

func (s *Service) load(ctx context.Context) {
	if s.store == nil {
		return
	}
	snap, err := s.store.Load(ctx)
	s.metrics.StoreOperation("load", s.backend, err)
	if err != nil {
		s.log.Warn("load failed, starting empty", slog.String("backend", s.backend), slog.Any("error", err))
		return
	}

	reg, err := facility.FromRecords(snap.Facilities)
	if err != nil {
		s.log.Warn("skipped invalid facility records", slog.Any("error", err))
	}
	g, err := core.FromSnapshot(snap.Graph, s.graphOptions()...)
	if err != nil {
		s.log.Warn("repaired stored graph", slog.Any("error", err))
	}
	s.registry, s.graph = reg, g
	s.log.Info("loaded",
		slog.String("backend", s.backend),
		slog.Int("facilities", reg.Len()),
		slog.Int("nodes", g.NodeCount()),
		slog.Int("edges", g.EdgeCount()))
}

// Save writes the registry and the graph to the store.
func (s *Service) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		return nil
	}
	err := s.store.Save(ctx, store.Snapshot{Facilities: s.registry.List(), Graph: s.graph.Snapshot()})
	s.metrics.StoreOperation("save", s.backend, err)
	if err != nil {
		s.log.Error("save failed", slog.String("backend", s.backend), slog.Any("error", err))
		return classify(err)
	}
	s.log.Debug("saved", slog.String("backend", s.backend))

	return nil
}

// Close closes the store.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		return nil
	}

	return classify(s.store.Close())
}

// Metrics returns the metrics the service records into, possibly nil.
func (s *Service) Metrics() *metrics.Metrics { return s.metrics }

// Check verifies the registry tree and graph symmetry.
func (s *Service) Check() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return errors.Join(s.registry.Check(), s.graph.CheckSymmetry())
}

// resolve maps a reference to a graph node name. A node name matches first;
// otherwise ref is taken as a facility id and its location is used.
func (s *Service) resolve(ref string) (string, error) {
	if s.graph.HasNode(ref) {
		return ref, nil
	}
	rec, ok := s.registry.Lookup(ref)
	if !ok {
		return "", fmt.Errorf("%w: %q is neither a node nor a facility", core.ErrNodeNotFound, ref)
	}
	if !s.graph.HasNode(rec.Location) {
		return "", fmt.Errorf("%w: facility %q is at %q, which is not on the map", core.ErrNodeNotFound, ref, rec.Location)
	}

	return rec.Location, nil
}
