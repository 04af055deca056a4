package network

import (
	"log/slog"

	"github.com/katalvlaran/wastegrid/core"
)

// AddNode puts a new location on the map.
func (s *Service) AddNode(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.graph.AddNode(name)
	s.metrics.GraphMutation("add_node", err)
	if err != nil {
		return classify(err)
	}
	s.log.Info("node added", slog.String("node", name))

	return nil
}

// RenameNode renames a node and moves every facility located there, and the
// node's emission total, to the new name. It returns the number of facilities
// moved.
func (s *Service) RenameNode(oldName, newName string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.graph.RenameNodeByName(oldName, newName)
	s.metrics.GraphMutation("rename_node", err)
	if err != nil {
		return 0, classify(err)
	}

	moved := 0
	if oldName != newName {
		var ids []string
		for rec := range s.registry.Records() {
			if rec.Location == oldName {
				ids = append(ids, rec.ID)
			}
		}
		for _, id := range ids {
			rec, _ := s.registry.Lookup(id)
			if err := s.registry.Update(id, newName, rec.Quantity); err == nil {
				moved++
			}
		}
		s.ledger.Rename(oldName, newName)
	}
	s.log.Info("node renamed", slog.String("from", oldName), slog.String("to", newName), slog.Int("facilities", moved))

	return moved, nil
}

// RemoveNode deletes a node and its roads. Facilities located there are
// kept; they become isolated until a node with that name is added again.
func (s *Service) RemoveNode(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.graph.RemoveNodeByName(name)
	s.metrics.GraphMutation("remove_node", err)
	if err != nil {
		return classify(err)
	}
	s.ledger.Forget(name)
	s.log.Info("node removed", slog.String("node", name))

	return nil
}

// AddEdge connects two nodes by a road of length w and returns the edge id.
func (s *Service) AddEdge(u, v string, w float64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.graph.AddEdge(u, v, w)
	s.metrics.GraphMutation("add_edge", err)
	if err != nil {
		return "", classify(err)
	}
	s.log.Info("edge added", slog.String("id", id), slog.String("u", u), slog.String("v", v), slog.Float64("weight", w))

	return id, nil
}

// UpdateEdge sets the length of every road between u and v.
func (s *Service) UpdateEdge(u, v string, w float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.graph.SetEdgeWeight(u, v, w)
	s.metrics.GraphMutation("set_weight", err)
	if err != nil {
		return classify(err)
	}
	s.log.Info("edge updated", slog.String("u", u), slog.String("v", v), slog.Float64("weight", w))

	return nil
}

// RemoveEdge deletes every road between u and v.
func (s *Service) RemoveEdge(u, v string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.graph.RemoveEdge(u, v)
	s.metrics.GraphMutation("remove_edge", err)
	if err != nil {
		return classify(err)
	}
	s.log.Info("edge removed", slog.String("u", u), slog.String("v", v))

	return nil
}

// Nodes returns node names in slot order.
func (s *Service) Nodes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.graph.NodeNames()
}

// Edges returns every road in creation order.
func (s *Service) Edges() []core.Edge {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.graph.Edges()
}

// Neighbors returns the roads leaving node.
func (s *Service) Neighbors(node string) ([]core.Neighbor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nb, err := s.graph.Neighbors(node)

	return nb, classify(err)
}
