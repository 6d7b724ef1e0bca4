package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCollector_AggregatesTraces(t *testing.T) {
	mc := NewMetricsCollector()
	defer mc.Stop()

	now := time.Now()
	mc.RecordTrace(RequestTrace{Method: "GET", Path: "/api/v1/tasks", Status: 200, StartTime: now, TotalDuration: 10 * time.Millisecond})
	mc.RecordTrace(RequestTrace{Method: "GET", Path: "/api/v1/tasks", Status: 500, StartTime: now, TotalDuration: 30 * time.Millisecond})
	mc.RecordTrace(RequestTrace{Method: "POST", Path: "/api/v1/dashboards", Status: 201, StartTime: now, TotalDuration: 5 * time.Millisecond})

	require.Eventually(t, func() bool {
		summary := mc.GetSummary()
		return summary["totalRequests"] == int64(3)
	}, time.Second, 10*time.Millisecond)

	summary := mc.GetSummary()
	assert.Equal(t, int64(1), summary["totalErrors"])
	assert.Equal(t, 2, summary["routeCount"])

	routes := mc.GetSlowestRoutes(10)
	require.Len(t, routes, 2)
	assert.Equal(t, "/api/v1/tasks", routes[0].Path)
	assert.Equal(t, 20*time.Millisecond, routes[0].AvgTime)
	assert.Equal(t, 10*time.Millisecond, routes[0].MinTime)
	assert.Equal(t, 30*time.Millisecond, routes[0].MaxTime)
}

func TestMetricsCollector_SlowestRoutesLimit(t *testing.T) {
	mc := NewMetricsCollector()
	defer mc.Stop()

	now := time.Now()
	mc.RecordTrace(RequestTrace{Method: "GET", Path: "/a", Status: 200, StartTime: now, TotalDuration: time.Millisecond})
	mc.RecordTrace(RequestTrace{Method: "GET", Path: "/b", Status: 200, StartTime: now, TotalDuration: 2 * time.Millisecond})
	mc.RecordTrace(RequestTrace{Method: "GET", Path: "/c", Status: 200, StartTime: now, TotalDuration: 3 * time.Millisecond})

	require.Eventually(t, func() bool {
		return mc.GetSummary()["totalRequests"] == int64(3)
	}, time.Second, 10*time.Millisecond)

	routes := mc.GetSlowestRoutes(2)
	require.Len(t, routes, 2)
	assert.Equal(t, "/c", routes[0].Path)
}

func TestNormalizeRoutePath(t *testing.T) {
	assert.Equal(t, "/api/v1/tasks/{id}", normalizeRoutePath("/api/v1/tasks/5fc51f58c72ff10004dca382"))
	assert.Equal(t, "/api/v1/dashboards/{id}/widgets", normalizeRoutePath("/api/v1/dashboards/5fc51f58c72ff10004dca382/widgets"))
	assert.Equal(t, "/api/v1/tasks", normalizeRoutePath("/api/v1/tasks"))
}
