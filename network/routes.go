package network

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/katalvlaran/wastegrid/bfs"
	"github.com/katalvlaran/wastegrid/dijkstra"
	"github.com/katalvlaran/wastegrid/emission"
)

// routeOptions appends the closed-road threshold, if any, to opts.
func (s *Service) routeOptions(opts ...dijkstra.Option) []dijkstra.Option {
	if s.closedAt > 0 {
		opts = append(opts, dijkstra.WithInfEdgeThreshold(s.closedAt))
	}

	return opts
}

// Destination is one entry of RouteAll.
type Destination struct {
	Node     string
	Distance float64
	Path     []string
}

// Route returns the shortest route between two references. Each reference is
// a node name or a facility id.
func (s *Service) Route(from, to string, strategy dijkstra.Strategy) (dijkstra.Path, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.route(from, to, strategy)
}

func (s *Service) route(from, to string, strategy dijkstra.Strategy) (p dijkstra.Path, err error) {
	start := time.Now()
	defer func() { s.metrics.RouteQuery(strategy.String(), routeResult(err), time.Since(start)) }()

	src, err := s.resolve(from)
	if err != nil {
		return dijkstra.Path{Distance: dijkstra.Unreachable}, classify(err)
	}
	dst, err := s.resolve(to)
	if err != nil {
		return dijkstra.Path{Distance: dijkstra.Unreachable}, classify(err)
	}
	p, err = dijkstra.ShortestPath(s.graph, src, dst, s.routeOptions(dijkstra.WithStrategy(strategy))...)
	if err != nil {
		return p, classify(err)
	}
	s.log.Debug("route", slog.String("from", src), slog.String("to", dst), slog.Float64("distance", p.Distance))

	return p, nil
}

// RouteAll returns the shortest route from ref to every other reachable node,
// nearest first, ties by name.
func (s *Service) RouteAll(from string, strategy dijkstra.Strategy) (dests []Destination, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	defer func() { s.metrics.RouteQuery(strategy.String(), routeResult(err), time.Since(start)) }()

	src, err := s.resolve(from)
	if err != nil {
		return nil, classify(err)
	}
	res, err := dijkstra.Dijkstra(s.graph, s.routeOptions(dijkstra.Source(src), dijkstra.WithStrategy(strategy))...)
	if err != nil {
		return nil, classify(err)
	}
	for _, n := range res.Reachable() {
		if n == src {
			continue
		}
		d, _ := res.Distance(n)
		path, _ := res.PathTo(n)
		dests = append(dests, Destination{Node: n, Distance: d, Path: path})
	}

	return dests, nil
}

// Nearest returns the route to the closest node reachable from ref.
func (s *Service) Nearest(from string) (p dijkstra.Path, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	defer func() { s.metrics.RouteQuery(dijkstra.StrategyHeap.String(), routeResult(err), time.Since(start)) }()

	src, err := s.resolve(from)
	if err != nil {
		return dijkstra.Path{Distance: dijkstra.Unreachable}, classify(err)
	}
	p, err = dijkstra.Nearest(s.graph, src, s.routeOptions()...)

	return p, classify(err)
}

// Reachable lists the nodes at most maxHops legs from ref in breadth-first
// order, ref's node excluded. maxHops == 0 means no limit.
func (s *Service) Reachable(ctx context.Context, from string, maxHops int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, err := s.resolve(from)
	if err != nil {
		return nil, classify(err)
	}
	nodes, err := bfs.Within(ctx, s.graph, src, maxHops, bfs.SkipClosed(s.closedAt))

	return nodes, classify(err)
}

// HopPath returns the route with the fewest legs from one reference to
// another, ignoring road lengths.
func (s *Service) HopPath(ctx context.Context, from, to string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, err := s.resolve(from)
	if err != nil {
		return nil, classify(err)
	}
	dst, err := s.resolve(to)
	if err != nil {
		return nil, classify(err)
	}
	res, err := bfs.BFS(s.graph, src, bfs.WithContext(ctx), bfs.SkipClosed(s.closedAt))
	if err != nil {
		return nil, classify(err)
	}
	path, err := res.PathTo(dst)
	if errors.Is(err, bfs.ErrNotReached) {
		return nil, classify(errors.Join(dijkstra.ErrNoPath, err))
	}

	return path, classify(err)
}

// RecordTrip computes the shortest route between two references, estimates
// the emission of moving waste of the given type along it and records the
// trip in the ledger. An unknown waste type counts as general waste.
func (s *Service) RecordTrip(from, to, wasteType string) (emission.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wt, ok := emission.ParseWasteType(wasteType)
	if !ok {
		s.log.Warn("unknown waste type, using general", slog.String("waste_type", wasteType))
	}
	p, err := s.route(from, to, dijkstra.StrategyEdgeRelaxation)
	if err != nil {
		return emission.Trip{}, err
	}
	e, err := s.estimator.Estimate(p.Distance, wt)
	if err != nil {
		return emission.Trip{}, classify(err)
	}
	trip := emission.Trip{
		From:      p.Nodes[0],
		To:        p.Nodes[len(p.Nodes)-1],
		Distance:  p.Distance,
		WasteType: wt,
		Emission:  e,
	}
	s.ledger.Record(trip)
	s.log.Info("trip recorded",
		slog.String("from", trip.From),
		slog.String("to", trip.To),
		slog.String("waste_type", string(wt)),
		slog.Float64("emission", e))

	return trip, nil
}

// EmissionRanking returns nodes by descending recorded emission.
func (s *Service) EmissionRanking() []emission.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ledger.Ranking()
}

// Trips returns every recorded trip.
func (s *Service) Trips() []emission.Trip {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ledger.Trips()
}

func routeResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, dijkstra.ErrNoPath):
		return "no_path"
	default:
		return "error"
	}
}
