package metrics_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/wastegrid/metrics"
)

func TestCounters(t *testing.T) {
	m := metrics.New()
	m.FacilityMutation("register", nil)
	m.FacilityMutation("register", nil)
	m.FacilityMutation("remove", errors.New("x"))
	m.GraphMutation("add_edge", nil)
	m.StoreOperation("save", "file", nil)
	m.RouteQuery("heap", "no_path", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.FacilityMutations.WithLabelValues("register", metrics.ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FacilityMutations.WithLabelValues("remove", metrics.ResultError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GraphMutations.WithLabelValues("add_edge", metrics.ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreOperations.WithLabelValues("save", "file", metrics.ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RouteQueries.WithLabelValues("heap", "no_path")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RouteLatency))
}

func TestWriteText(t *testing.T) {
	m := metrics.New()
	m.GraphMutation("add_node", nil)

	var sb strings.Builder
	require.NoError(t, m.WriteText(&sb))
	out := sb.String()
	assert.Contains(t, out, "# TYPE wastegrid_graph_mutations_total counter")
	assert.Contains(t, out, `wastegrid_graph_mutations_total{op="add_node",result="ok"} 1`)
	assert.Contains(t, out, "wastegrid_route_query_seconds")
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *metrics.Metrics
	m.FacilityMutation("register", nil)
	m.RouteQuery("heap", "ok", time.Second)
	var sb strings.Builder
	assert.NoError(t, m.WriteText(&sb))
	assert.Empty(t, sb.String())
}
