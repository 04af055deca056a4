package network

import (
	"context"
	"log/slog"

	"github.com/katalvlaran/wastegrid/bfs"
	"github.com/katalvlaran/wastegrid/facility"
)

// RegisterFacility adds rec or merges its quantity into the existing record.
func (s *Service) RegisterFacility(rec facility.Record) (merged bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged, err = s.registry.Register(rec)
	s.metrics.FacilityMutation("register", err)
	if err != nil {
		return false, classify(err)
	}
	if merged {
		s.log.Info("facility merged", slog.String("id", rec.ID), slog.Float64("added", rec.Quantity))
	} else {
		s.log.Info("facility registered", slog.String("id", rec.ID), slog.String("location", rec.Location))
	}
	if !merged && !s.graph.HasNode(rec.Location) {
		s.log.Warn("facility location is not on the map", slog.String("id", rec.ID), slog.String("location", rec.Location))
	}

	return merged, nil
}

// UpdateFacility replaces location and quantity of an existing facility.
func (s *Service) UpdateFacility(id, location string, quantity float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.registry.Update(id, location, quantity)
	s.metrics.FacilityMutation("update", err)
	if err != nil {
		return classify(err)
	}
	s.log.Info("facility updated", slog.String("id", id))

	return nil
}

// RemoveFacility deletes a facility.
func (s *Service) RemoveFacility(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.registry.Remove(id)
	s.metrics.FacilityMutation("remove", err)
	if err != nil {
		return classify(err)
	}
	s.log.Info("facility removed", slog.String("id", id))

	return nil
}

// Facility returns the record registered under id.
func (s *Service) Facility(id string) (facility.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.registry.Lookup(id)
}

// Facilities returns every record by ascending id.
func (s *Service) Facilities() []facility.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.registry.List()
}

// TotalQuantity sums all facility quantities.
func (s *Service) TotalQuantity() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.registry.TotalQuantity()
}

// FacilitiesWithin returns the facilities located at most maxHops legs from
// ref, excluding facilities at ref's own node. maxHops == 0 means no limit.
func (s *Service) FacilitiesWithin(ctx context.Context, ref string, maxHops int) ([]facility.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start, err := s.resolve(ref)
	if err != nil {
		return nil, classify(err)
	}
	nodes, err := bfs.Within(ctx, s.graph, start, maxHops, bfs.SkipClosed(s.closedAt))
	if err != nil {
		return nil, classify(err)
	}
	in := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		in[n] = true
	}
	var out []facility.Record
	for rec := range s.registry.Records() {
		if in[rec.Location] {
			out = append(out, rec)
		}
	}

	return out, nil
}

// IsolatedFacilities returns, by ascending id, the facilities that no route
// can reach: their location is not a node, or the node has no open road.
func (s *Service) IsolatedFacilities(ctx context.Context) ([]facility.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []facility.Record
	for rec := range s.registry.Records() {
		if !s.graph.HasNode(rec.Location) {
			out = append(out, rec)
			continue
		}
		near, err := bfs.Within(ctx, s.graph, rec.Location, 1, bfs.SkipClosed(s.closedAt))
		if err != nil {
			return nil, classify(err)
		}
		if len(near) == 0 {
			out = append(out, rec)
		}
	}

	return out, nil
}
