package network_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/wastegrid/core"
	"github.com/katalvlaran/wastegrid/dijkstra"
	"github.com/katalvlaran/wastegrid/emission"
	"github.com/katalvlaran/wastegrid/facility"
	"github.com/katalvlaran/wastegrid/metrics"
	"github.com/katalvlaran/wastegrid/network"
	"github.com/katalvlaran/wastegrid/store"
)

// city builds the triangle Depot–Market(1), Market–School(2), Depot–School(5)
// plus an unconnected Landfill, with facilities C1@Depot, C2@School and
// C3@Landfill.
func city(t *testing.T, svc *network.Service) {
	t.Helper()
	for _, n := range []string{"Depot", "Market", "School", "Landfill"} {
		require.NoError(t, svc.AddNode(n))
	}
	for _, e := range []struct {
		u, v string
		w    float64
	}{{"Depot", "Market", 1}, {"Market", "School", 2}, {"Depot", "School", 5}} {
		_, err := svc.AddEdge(e.u, e.v, e.w)
		require.NoError(t, err)
	}
	for _, r := range []facility.Record{
		{ID: "C1", Location: "Depot", Quantity: 10},
		{ID: "C2", Location: "School", Quantity: 4},
		{ID: "C3", Location: "Landfill", Quantity: 50},
	} {
		_, err := svc.RegisterFacility(r)
		require.NoError(t, err)
	}
}

func newService(t *testing.T, dir string) (*network.Service, *metrics.Metrics) {
	t.Helper()
	st, err := store.NewFileStore(dir)
	require.NoError(t, err)
	m := metrics.New()
	svc, err := network.New(t.Context(), network.Options{Store: st, Backend: store.BackendFile, Metrics: m})
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })

	return svc, m
}

func TestRoute_ResolvesFacilityIDs(t *testing.T) {
	svc, m := newService(t, t.TempDir())
	city(t, svc)

	for _, s := range []dijkstra.Strategy{dijkstra.StrategyHeap, dijkstra.StrategyEdgeRelaxation} {
		p, err := svc.Route("C1", "C2", s)
		require.NoError(t, err)
		assert.Equal(t, []string{"Depot", "Market", "School"}, p.Nodes)
		assert.Equal(t, 3.0, p.Distance)
	}
	p, err := svc.Route("Market", "C1", dijkstra.StrategyHeap)
	require.NoError(t, err)
	assert.Equal(t, []string{"Market", "Depot"}, p.Nodes)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RouteQueries.WithLabelValues("heap", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RouteQueries.WithLabelValues("relax", "ok")))
}

func TestRoute_Errors(t *testing.T) {
	svc, m := newService(t, t.TempDir())
	city(t, svc)

	_, err := svc.Route("Nowhere", "Depot", dijkstra.StrategyHeap)
	assert.ErrorIs(t, err, network.ErrNotFound)
	assert.ErrorIs(t, err, core.ErrNodeNotFound)

	p, err := svc.Route("C1", "C3", dijkstra.StrategyHeap)
	assert.ErrorIs(t, err, network.ErrNotFound)
	assert.ErrorIs(t, err, dijkstra.ErrNoPath)
	assert.Equal(t, dijkstra.Unreachable, p.Distance)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RouteQueries.WithLabelValues("heap", "no_path")))

	_, err = svc.RegisterFacility(facility.Record{ID: "C9", Location: "Mars", Quantity: 1})
	require.NoError(t, err)
	_, err = svc.Route("C9", "Depot", dijkstra.StrategyHeap)
	assert.ErrorIs(t, err, core.ErrNodeNotFound)
}

func TestRouteAllAndNearest(t *testing.T) {
	svc, _ := newService(t, t.TempDir())
	city(t, svc)

	dests, err := svc.RouteAll("Depot", dijkstra.StrategyHeap)
	require.NoError(t, err)
	require.Len(t, dests, 2)
	assert.Equal(t, network.Destination{Node: "Market", Distance: 1, Path: []string{"Depot", "Market"}}, dests[0])
	assert.Equal(t, network.Destination{Node: "School", Distance: 3, Path: []string{"Depot", "Market", "School"}}, dests[1])

	p, err := svc.Nearest("C2")
	require.NoError(t, err)
	assert.Equal(t, []string{"School", "Market"}, p.Nodes)

	_, err = svc.Nearest("Landfill")
	assert.ErrorIs(t, err, dijkstra.ErrNoPath)
}

func TestReachabilityQueries(t *testing.T) {
	svc, _ := newService(t, t.TempDir())
	city(t, svc)
	require.NoError(t, svc.AddNode("Farm"))
	_, err := svc.AddEdge("School", "Farm", 1)
	require.NoError(t, err)
	_, err = svc.RegisterFacility(facility.Record{ID: "F1", Location: "Farm", Quantity: 3})
	require.NoError(t, err)

	near, err := svc.Reachable(t.Context(), "Depot", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Market", "School"}, near)

	all, err := svc.Reachable(t.Context(), "C1", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Market", "School", "Farm"}, all)

	recs, err := svc.FacilitiesWithin(t.Context(), "Depot", 1)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "C2", recs[0].ID)

	hops, err := svc.HopPath(t.Context(), "Depot", "Farm")
	require.NoError(t, err)
	assert.Equal(t, []string{"Depot", "School", "Farm"}, hops)

	_, err = svc.HopPath(t.Context(), "Depot", "Landfill")
	assert.ErrorIs(t, err, dijkstra.ErrNoPath)

	iso, err := svc.IsolatedFacilities(t.Context())
	require.NoError(t, err)
	require.Len(t, iso, 1)
	assert.Equal(t, "C3", iso[0].ID)

	_, err = svc.Reachable(t.Context(), "Depot", -1)
	assert.ErrorIs(t, err, network.ErrInvalidArgument)
}

func TestRenameAndRemoveNodeKeepFacilitiesConsistent(t *testing.T) {
	svc, _ := newService(t, t.TempDir())
	city(t, svc)
	_, err := svc.RecordTrip("Depot", "Market", "Metal")
	require.NoError(t, err)

	moved, err := svc.RenameNode("Depot", "Central Depot")
	require.NoError(t, err)
	assert.Equal(t, 1, moved)
	rec, ok := svc.Facility("C1")
	require.True(t, ok)
	assert.Equal(t, "Central Depot", rec.Location)
	assert.Equal(t, 10.0, rec.Quantity)

	p, err := svc.Route("C1", "C2", dijkstra.StrategyHeap)
	require.NoError(t, err)
	assert.Equal(t, 3.0, p.Distance)

	ranking := svc.EmissionRanking()
	require.Len(t, ranking, 2)
	assert.Equal(t, "Central Depot", ranking[0].Node, "emission totals follow the rename")
	assert.Equal(t, "Market", ranking[1].Node)
	assert.Equal(t, "Central Depot", svc.Trips()[0].From)

	require.NoError(t, svc.RemoveNode("Central Depot"))
	ranking = svc.EmissionRanking()
	require.Len(t, ranking, 1)
	assert.Equal(t, "Market", ranking[0].Node)
	require.NoError(t, svc.AddNode("Central Depot"))
	_, err = svc.AddEdge("Central Depot", "Market", 1)
	require.NoError(t, err)
	_, err = svc.AddEdge("Central Depot", "School", 5)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveNode("School"))
	assert.Equal(t, []string{"Central Depot", "Market", "Landfill"}, svc.Nodes())
	assert.Len(t, svc.Edges(), 1)
	_, ok = svc.Facility("C2")
	assert.True(t, ok, "facilities outlive their node")

	iso, err := svc.IsolatedFacilities(t.Context())
	require.NoError(t, err)
	ids := make([]string, len(iso))
	for i, r := range iso {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"C2", "C3"}, ids)
	require.NoError(t, svc.Check())
}

func TestMutationErrorsAreClassified(t *testing.T) {
	svc, m := newService(t, t.TempDir())
	city(t, svc)

	_, err := svc.AddEdge("Depot", "Depot", 1)
	assert.ErrorIs(t, err, network.ErrInvalidArgument)
	assert.ErrorIs(t, err, core.ErrLoopNotAllowed)

	_, err = svc.AddEdge("Depot", "Market", -2)
	assert.ErrorIs(t, err, core.ErrNegativeWeight)

	err = svc.UpdateEdge("Depot", "Landfill", 1)
	assert.ErrorIs(t, err, network.ErrNotFound)
	assert.ErrorIs(t, err, core.ErrEdgeNotFound)

	assert.ErrorIs(t, svc.AddNode("Depot"), core.ErrDuplicateNode)
	assert.ErrorIs(t, svc.RemoveFacility("nope"), facility.ErrNotFound)

	_, err = svc.RegisterFacility(facility.Record{ID: " ", Quantity: 1})
	assert.ErrorIs(t, err, network.ErrInvalidArgument)

	assert.Nil(t, network.Kind(errors.New("plain")))
	assert.Equal(t, network.ErrNotFound, network.Kind(svc.RemoveEdge("Market", "Landfill")))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.GraphMutations.WithLabelValues("add_edge", metrics.ResultError)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.GraphMutations.WithLabelValues("add_edge", metrics.ResultOK)))
}

func TestFacilityMerge(t *testing.T) {
	svc, _ := newService(t, t.TempDir())
	city(t, svc)

	merged, err := svc.RegisterFacility(facility.Record{ID: "C1", Location: "Elsewhere", Quantity: 3})
	require.NoError(t, err)
	assert.True(t, merged)
	rec, _ := svc.Facility("C1")
	assert.Equal(t, facility.Record{ID: "C1", Location: "Depot", Quantity: 13}, rec)
	assert.Len(t, svc.Facilities(), 3)
	assert.Equal(t, 67.0, svc.TotalQuantity())

	require.NoError(t, svc.UpdateFacility("C1", "Market", 1))
	rec, _ = svc.Facility("C1")
	assert.Equal(t, "Market", rec.Location)
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	svc, m := newService(t, dir)
	city(t, svc)
	require.NoError(t, svc.RemoveNode("Market"))
	require.NoError(t, svc.Save(t.Context()))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreOperations.WithLabelValues("save", store.BackendFile, metrics.ResultOK)))

	again, _ := newService(t, dir)
	assert.Equal(t, svc.Nodes(), again.Nodes())
	assert.Equal(t, svc.Facilities(), again.Facilities())
	p, err := again.Route("C1", "C2", dijkstra.StrategyHeap)
	require.NoError(t, err)
	assert.Equal(t, 5.0, p.Distance)
}

func TestLoadFailureStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, store.GraphFile), []byte("many\n"), 0o600))
	st, err := store.NewFileStore(dir)
	require.NoError(t, err)

	var logs bytes.Buffer
	m := metrics.New()
	svc, err := network.New(t.Context(), network.Options{
		Store:   st,
		Backend: store.BackendFile,
		Metrics: m,
		Logger:  slog.New(slog.NewTextHandler(&logs, nil)),
	})
	require.NoError(t, err)
	assert.Empty(t, svc.Nodes())
	assert.Empty(t, svc.Facilities())
	assert.Contains(t, logs.String(), "load failed")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreOperations.WithLabelValues("load", store.BackendFile, metrics.ResultError)))

	require.NoError(t, svc.AddNode("Depot"), "service stays usable")
}

type failingStore struct{}

func (failingStore) Load(context.Context) (store.Snapshot, error) { return store.Snapshot{}, nil }
func (failingStore) Save(context.Context, store.Snapshot) error {
	return fmt.Errorf("%w: disk full", store.ErrIO)
}
func (failingStore) Close() error { return nil }

func TestSaveFailureIsReturned(t *testing.T) {
	svc, err := network.New(t.Context(), network.Options{Store: failingStore{}})
	require.NoError(t, err)
	require.NoError(t, svc.AddNode("Depot"))

	err = svc.Save(t.Context())
	assert.ErrorIs(t, err, network.ErrIOFailure)
	assert.ErrorIs(t, err, store.ErrIO)
	assert.Equal(t, []string{"Depot"}, svc.Nodes())
}

func TestMemoryServiceSaveIsNoop(t *testing.T) {
	svc, err := network.New(t.Context(), network.Options{})
	require.NoError(t, err)
	require.NoError(t, svc.Save(t.Context()))
	require.NoError(t, svc.Close())
}

func TestNew_RejectsBadFactor(t *testing.T) {
	_, err := network.New(t.Context(), network.Options{BaseFactor: -1})
	assert.ErrorIs(t, err, emission.ErrBadFactor)
	assert.ErrorIs(t, err, network.ErrInvalidArgument)

	_, err = network.New(t.Context(), network.Options{ClosedAt: -1})
	assert.ErrorIs(t, err, network.ErrInvalidArgument)
}

func TestClosedRoads(t *testing.T) {
	open, err := network.New(t.Context(), network.Options{})
	require.NoError(t, err)
	closed, err := network.New(t.Context(), network.Options{ClosedAt: 999})
	require.NoError(t, err)
	for _, svc := range []*network.Service{open, closed} {
		city(t, svc)
		_, err := svc.AddEdge("Market", "Landfill", 999)
		require.NoError(t, err)
	}

	p, err := open.Route("C1", "C3", dijkstra.StrategyHeap)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, p.Distance)

	for _, s := range []dijkstra.Strategy{dijkstra.StrategyHeap, dijkstra.StrategyEdgeRelaxation} {
		_, err = closed.Route("C1", "C3", s)
		assert.ErrorIs(t, err, dijkstra.ErrNoPath, "strategy %v", s)
	}
	dests, err := closed.RouteAll("Depot", dijkstra.StrategyHeap)
	require.NoError(t, err)
	assert.Len(t, dests, 2)

	_, err = closed.HopPath(t.Context(), "Depot", "Landfill")
	assert.ErrorIs(t, err, network.ErrNotFound)
	reach, err := closed.Reachable(t.Context(), "Depot", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Market", "School"}, reach)
	near, err := closed.FacilitiesWithin(t.Context(), "Market", 1)
	require.NoError(t, err)
	require.Len(t, near, 2)
	assert.Equal(t, "C1", near[0].ID)

	iso, err := closed.IsolatedFacilities(t.Context())
	require.NoError(t, err)
	require.Len(t, iso, 1)
	assert.Equal(t, "C3", iso[0].ID)
	iso, err = open.IsolatedFacilities(t.Context())
	require.NoError(t, err)
	assert.Empty(t, iso)
}

func TestRecordTripAndRanking(t *testing.T) {
	svc, _ := newService(t, t.TempDir())
	city(t, svc)

	trip, err := svc.RecordTrip("C1", "C2", "plastic")
	require.NoError(t, err)
	assert.Equal(t, "Depot", trip.From)
	assert.Equal(t, "School", trip.To)
	assert.Equal(t, 3.0, trip.Distance)
	assert.Equal(t, emission.Plastic, trip.WasteType)
	assert.InDelta(t, 9.36, trip.Emission, 1e-9)

	_, err = svc.RecordTrip("Market", "School", "Metal")
	require.NoError(t, err)

	rank := svc.EmissionRanking()
	require.Len(t, rank, 3)
	assert.Equal(t, "School", rank[0].Node)
	assert.InDelta(t, 17.16, rank[0].Emission, 1e-9)
	assert.Equal(t, "Depot", rank[1].Node)
	assert.Equal(t, "Market", rank[2].Node)
	assert.Len(t, svc.Trips(), 2)

	_, err = svc.RecordTrip("Depot", "Landfill", "organic")
	assert.ErrorIs(t, err, dijkstra.ErrNoPath)
	assert.Len(t, svc.Trips(), 2)

	require.NoError(t, svc.RemoveNode("School"))
	for _, e := range svc.EmissionRanking() {
		assert.NotEqual(t, "School", e.Node)
	}
}
