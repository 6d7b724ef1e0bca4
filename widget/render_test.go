package widget

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/infinitelyweird/OpenClaw-Dashboard/models"
)

func newTestSession(baseURL string) *Session {
	return NewSession(
		NewResolver(staticSource{}),
		NewFetcher(baseURL, "", 2*time.Second),
	)
}

func runtimeWidget(typ, defaultConfig, instanceConfig, dataSource string) models.RuntimeWidget {
	return models.RuntimeWidget{
		WidgetInstance: models.WidgetInstance{
			ID:         primitive.NewObjectID(),
			Title:      "Test Widget",
			ConfigJSON: instanceConfig,
		},
		Type:          typ,
		DefaultConfig: defaultConfig,
		DataSource:    dataSource,
	}
}

func jsonServer(t *testing.T, payload interface{}) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestRenderKPIValue(t *testing.T) {
	ts := jsonServer(t, map[string]interface{}{"cpu": map[string]interface{}{"load": 42.66}})

	s := newTestSession(ts.URL)
	w := runtimeWidget("kpi", `{"label":"CPU","valuePath":"cpu.load","unit":"%"}`, "", "/data")

	out := s.Render(context.Background(), w)

	require.Empty(t, out.Error)
	assert.Equal(t, w.ID.Hex(), out.InstanceID)
	assert.Equal(t, "kpi", out.Type)
	payload, ok := out.Payload.(KPIPayload)
	require.True(t, ok)
	assert.Equal(t, "CPU", payload.Label)
	assert.Equal(t, "42.7", payload.Value)
	assert.Equal(t, "%", payload.Unit)
}

func TestRenderKPIMissingValueShowsPlaceholder(t *testing.T) {
	ts := jsonServer(t, map[string]interface{}{"other": 1})

	s := newTestSession(ts.URL)
	out := s.Render(context.Background(), runtimeWidget("kpi", `{"valuePath":"cpu.load"}`, "", "/data"))

	require.Empty(t, out.Error)
	assert.Equal(t, emptyValue, out.Payload.(KPIPayload).Value)
}

func TestRenderKPITimeFormat(t *testing.T) {
	s := newTestSession("")
	out := s.Render(context.Background(), runtimeWidget("kpi", `{"format":"time","timezone":"UTC","label":"Clock"}`, "", ""))

	require.Empty(t, out.Error)
	payload := out.Payload.(KPIPayload)
	assert.Regexp(t, regexp.MustCompile(`^\d{2}:\d{2}:\d{2}$`), payload.Value)
	require.Len(t, payload.Secondary, 1)
}

func TestRenderKPICountdownFormat(t *testing.T) {
	target := time.Now().Add(49*time.Hour + 30*time.Minute).UTC().Format("2006-01-02T15:04:05")
	cfg := fmt.Sprintf(`{"format":"countdown","targetDate":"%s","label":"Countdown"}`, target)

	s := newTestSession("")
	out := s.Render(context.Background(), runtimeWidget("kpi", cfg, "", ""))

	require.Empty(t, out.Error)
	assert.Regexp(t, regexp.MustCompile(`^2d \d{1,2}h \d{1,2}m$`), out.Payload.(KPIPayload).Value)
}

func TestRenderKPICountdownPastTargetReadsExpired(t *testing.T) {
	s := newTestSession("")
	out := s.Render(context.Background(), runtimeWidget("kpi", `{"format":"countdown","targetDate":"2020-01-01T00:00:00"}`, "", ""))

	require.Empty(t, out.Error)
	assert.Equal(t, "Expired", out.Payload.(KPIPayload).Value)
}

func TestRenderKPISecondaryPathsCarryUnits(t *testing.T) {
	ts := jsonServer(t, map[string]interface{}{"load": 1.5, "temp": 61.0})

	s := newTestSession(ts.URL)
	cfg := `{"valuePath":"load","secondaryPaths":[{"label":"Temp","path":"temp","unit":"°C"}]}`
	out := s.Render(context.Background(), runtimeWidget("kpi", cfg, "", "/data"))

	require.Empty(t, out.Error)
	payload := out.Payload.(KPIPayload)
	require.Len(t, payload.Secondary, 1)
	assert.Equal(t, KPIEntry{Label: "Temp", Value: "61", Unit: "°C"}, payload.Secondary[0])
}

func TestRenderGaugeClampsPercent(t *testing.T) {
	ts := jsonServer(t, map[string]interface{}{"load": 180.0})

	s := newTestSession(ts.URL)
	out := s.Render(context.Background(), runtimeWidget("gauge", `{"valuePath":"load","max":100}`, "", "/data"))

	require.Empty(t, out.Error)
	payload := out.Payload.(GaugePayload)
	assert.Equal(t, float64(1), payload.Percent)
	assert.Equal(t, float64(180), payload.Value)
}

func TestRenderGaugeThresholdColors(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		cfg   string
		want  string
	}{
		{"no thresholds", 50, `{"valuePath":"v"}`, "accent"},
		{"below warning", 40, `{"valuePath":"v","thresholds":{"warning":70,"critical":90}}`, "success"},
		{"above warning", 75, `{"valuePath":"v","thresholds":{"warning":70,"critical":90}}`, "warning"},
		{"above critical", 95, `{"valuePath":"v","thresholds":{"warning":70,"critical":90}}`, "danger"},
		{"inverted healthy", 80, `{"valuePath":"v","thresholds":{"warning":30,"critical":10},"invertThresholds":true}`, "success"},
		{"inverted low", 20, `{"valuePath":"v","thresholds":{"warning":30,"critical":10},"invertThresholds":true}`, "warning"},
		{"inverted critical", 5, `{"valuePath":"v","thresholds":{"warning":30,"critical":10},"invertThresholds":true}`, "danger"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := jsonServer(t, map[string]interface{}{"v": tt.value})
			s := newTestSession(ts.URL)

			out := s.Render(context.Background(), runtimeWidget("gauge", tt.cfg, "", "/data"))

			require.Empty(t, out.Error)
			assert.Equal(t, tt.want, out.Payload.(GaugePayload).Color)
		})
	}
}

func TestRenderGaugeComputeExpression(t *testing.T) {
	ts := jsonServer(t, map[string]interface{}{"used": 6.0, "total": 16.0})

	s := newTestSession(ts.URL)
	out := s.Render(context.Background(), runtimeWidget("gauge", `{"compute":"used / total * 100"}`, "", "/data"))

	require.Empty(t, out.Error)
	assert.Equal(t, 37.5, out.Payload.(GaugePayload).Value)
}

func TestRenderGaugeBadComputeBecomesInlineError(t *testing.T) {
	ts := jsonServer(t, map[string]interface{}{"v": 1})

	s := newTestSession(ts.URL)
	out := s.Render(context.Background(), runtimeWidget("gauge", `{"compute":"v +* 2"}`, "", "/data"))

	assert.Nil(t, out.Payload)
	assert.Contains(t, out.Error, "Error:")
	assert.Contains(t, out.Error, "compute")
}

func TestRenderChartLineHistoryEvictsOldest(t *testing.T) {
	var sample float64
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sample++
		fmt.Fprintf(w, `{"v":%g}`, sample)
	}))
	defer ts.Close()

	s := newTestSession(ts.URL)
	w := runtimeWidget("chart", `{"chartType":"line","history":true,"valuePath":"v","maxPoints":3}`, "", "/data")

	var out models.RenderedWidget
	for i := 0; i < 5; i++ {
		out = s.Render(context.Background(), w)
		require.Empty(t, out.Error)
	}

	series := out.Payload.(ChartPayload).Series
	require.Len(t, series, 3)
	assert.Equal(t, float64(3), series[0].Value)
	assert.Equal(t, float64(5), series[2].Value)
}

func TestRenderChartHistoryIsPerInstance(t *testing.T) {
	ts := jsonServer(t, map[string]interface{}{"v": 1.0})

	s := newTestSession(ts.URL)
	a := runtimeWidget("chart", `{"chartType":"line","history":true,"valuePath":"v"}`, "", "/data")
	b := runtimeWidget("chart", `{"chartType":"line","history":true,"valuePath":"v"}`, "", "/data")

	s.Render(context.Background(), a)
	s.Render(context.Background(), a)
	out := s.Render(context.Background(), b)

	assert.Len(t, out.Payload.(ChartPayload).Series, 1)
}

func TestRenderChartLineWithoutHistoryChartsArrayData(t *testing.T) {
	ts := jsonServer(t, []interface{}{
		map[string]interface{}{"testedAt": "08:00", "download": 412.5},
		map[string]interface{}{"testedAt": "09:00", "download": 388.1},
	})

	s := newTestSession(ts.URL)
	w := runtimeWidget("chart", `{"chartType":"line","labelPath":"testedAt","valuePath":"download"}`, "", "/data")

	// Rendered twice: without the history flag nothing accumulates.
	s.Render(context.Background(), w)
	out := s.Render(context.Background(), w)

	require.Empty(t, out.Error)
	payload := out.Payload.(ChartPayload)
	assert.Empty(t, payload.Series)
	require.Len(t, payload.Segments, 2)
	assert.Equal(t, ChartSegment{Label: "08:00", Value: 412.5}, payload.Segments[0])
}

func TestRenderChartDonutKeepsDataMapOrder(t *testing.T) {
	ts := jsonServer(t, map[string]interface{}{"zeta": 3.0, "alpha": 1.0, "mid": 2.0})

	s := newTestSession(ts.URL)
	w := runtimeWidget("chart",
		`{"chartType":"donut","dataMap":{"zeta":"zeta","alpha":"alpha","mid":"mid"}}`, "", "/data")

	out := s.Render(context.Background(), w)

	require.Empty(t, out.Error)
	segments := out.Payload.(ChartPayload).Segments
	require.Len(t, segments, 3)
	assert.Equal(t, "zeta", segments[0].Label)
	assert.Equal(t, "alpha", segments[1].Label)
	assert.Equal(t, "mid", segments[2].Label)
	assert.Equal(t, float64(1), segments[1].Value)
}

func TestRenderChartBarFromArray(t *testing.T) {
	ts := jsonServer(t, []interface{}{
		map[string]interface{}{"name": "api", "count": 12.0},
		map[string]interface{}{"name": "worker", "count": 7.0},
	})

	s := newTestSession(ts.URL)
	w := runtimeWidget("chart", `{"chartType":"bar","labelPath":"name","valuePath":"count"}`, "", "/data")

	out := s.Render(context.Background(), w)

	require.Empty(t, out.Error)
	segments := out.Payload.(ChartPayload).Segments
	require.Len(t, segments, 2)
	assert.Equal(t, ChartSegment{Label: "api", Value: 12}, segments[0])
}

func TestRenderTableInfersSortedColumnsAndCapsRows(t *testing.T) {
	rows := make([]interface{}, 60)
	for i := range rows {
		rows[i] = map[string]interface{}{"name": fmt.Sprintf("row-%d", i), "age": float64(i)}
	}
	ts := jsonServer(t, rows)

	s := newTestSession(ts.URL)
	out := s.Render(context.Background(), runtimeWidget("table", `{}`, "", "/data"))

	require.Empty(t, out.Error)
	payload := out.Payload.(TablePayload)
	assert.Equal(t, []string{"age", "name"}, payload.Columns)
	assert.Len(t, payload.Rows, tableRowCap)
	assert.Equal(t, "row-0", payload.Rows[0]["name"])
}

func TestRenderTableUsesDataPath(t *testing.T) {
	ts := jsonServer(t, map[string]interface{}{
		"result": map[string]interface{}{
			"items": []interface{}{map[string]interface{}{"id": "a"}},
		},
	})

	s := newTestSession(ts.URL)
	out := s.Render(context.Background(), runtimeWidget("table", `{"dataPath":"result.items","columns":["id"]}`, "", "/data"))

	require.Empty(t, out.Error)
	payload := out.Payload.(TablePayload)
	assert.Equal(t, []string{"id"}, payload.Columns)
	require.Len(t, payload.Rows, 1)
	assert.Equal(t, "a", payload.Rows[0]["id"])
}

func TestRenderListItemTemplate(t *testing.T) {
	ts := jsonServer(t, []interface{}{
		map[string]interface{}{"name": "build", "count": 4.0},
		map[string]interface{}{"name": "deploy"},
	})

	s := newTestSession(ts.URL)
	out := s.Render(context.Background(), runtimeWidget("list", `{"itemTemplate":"{{name}}: {{count}}"}`, "", "/data"))

	require.Empty(t, out.Error)
	items := out.Payload.(ListPayload).Items
	require.Len(t, items, 2)
	assert.Equal(t, "build: 4", items[0].Text)
	// Fields absent from the entry keep their placeholder.
	assert.Equal(t, "deploy: {{count}}", items[1].Text)
}

func TestRenderListCapsItems(t *testing.T) {
	entries := make([]interface{}, 30)
	for i := range entries {
		entries[i] = map[string]interface{}{"name": fmt.Sprintf("item-%d", i)}
	}
	ts := jsonServer(t, entries)

	s := newTestSession(ts.URL)
	out := s.Render(context.Background(), runtimeWidget("list", `{"itemTemplate":"{{name}}"}`, "", "/data"))

	assert.Len(t, out.Payload.(ListPayload).Items, listItemCap)
}

func TestRenderListStaticLinks(t *testing.T) {
	s := newTestSession("")
	cfg := `{"links":[{"label":"Grafana","url":"https://grafana.local"},{"title":"Wiki","url":"https://wiki.local"}]}`

	out := s.Render(context.Background(), runtimeWidget("list", cfg, "", ""))

	require.Empty(t, out.Error)
	items := out.Payload.(ListPayload).Items
	require.Len(t, items, 2)
	assert.Equal(t, ListItem{Text: "Grafana", URL: "https://grafana.local"}, items[0])
	assert.Equal(t, ListItem{Text: "Wiki", URL: "https://wiki.local"}, items[1])
}

func TestRenderStatusBucketsArrayStates(t *testing.T) {
	ts := jsonServer(t, []interface{}{
		map[string]interface{}{"name": "api", "state": "running"},
		map[string]interface{}{"name": "queue", "state": "pending"},
		map[string]interface{}{"name": "db", "state": "crashed"},
	})

	s := newTestSession(ts.URL)
	out := s.Render(context.Background(), runtimeWidget("status", `{"statusPath":"state"}`, "", "/data"))

	require.Empty(t, out.Error)
	entries := out.Payload.(StatusPayload).Entries
	require.Len(t, entries, 3)
	assert.Equal(t, StatusEntry{Name: "api", State: "green"}, entries[0])
	assert.Equal(t, StatusEntry{Name: "queue", State: "yellow"}, entries[1])
	assert.Equal(t, StatusEntry{Name: "db", State: "red"}, entries[2])
}

func TestRenderStatusSingleFlag(t *testing.T) {
	ts := jsonServer(t, map[string]interface{}{"status": "operational"})

	s := newTestSession(ts.URL)
	out := s.Render(context.Background(), runtimeWidget("status", `{"statusPath":"status","label":"API"}`, "", "/data"))

	require.Empty(t, out.Error)
	entries := out.Payload.(StatusPayload).Entries
	require.Len(t, entries, 1)
	assert.Equal(t, StatusEntry{Name: "API", State: "green"}, entries[0])
}

func TestRenderStatusProbesConfiguredServices(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer up.Close()
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer down.Close()

	s := newTestSession("")
	cfg := fmt.Sprintf(`{"services":[{"name":"up","url":"%s"},{"name":"down","url":"%s"}]}`, up.URL, down.URL)

	out := s.Render(context.Background(), runtimeWidget("status", cfg, "", ""))

	require.Empty(t, out.Error)
	entries := out.Payload.(StatusPayload).Entries
	require.Len(t, entries, 2)
	assert.Equal(t, StatusEntry{Name: "up", State: "green"}, entries[0])
	assert.Equal(t, StatusEntry{Name: "down", State: "red"}, entries[1])
}

func TestRenderTextSanitizesMarkdown(t *testing.T) {
	s := newTestSession("")
	out := s.Render(context.Background(), runtimeWidget("text", `{"content":"# Notes\n<script>alert(1)</script>"}`, "", ""))

	require.Empty(t, out.Error)
	html := out.Payload.(TextPayload).HTML
	assert.Contains(t, html, "<h1>Notes</h1>")
	assert.NotContains(t, html, "<script")
}

func TestRenderIframeAppliesDefaultSandbox(t *testing.T) {
	s := newTestSession("")
	out := s.Render(context.Background(), runtimeWidget("iframe", `{"url":"https://status.example.com"}`, "", ""))

	require.Empty(t, out.Error)
	payload := out.Payload.(IframePayload)
	assert.Equal(t, "https://status.example.com", payload.URL)
	assert.Equal(t, defaultSandbox, payload.Sandbox)
}

func TestRenderAPIPollInteractiveDescriptor(t *testing.T) {
	s := newTestSession("")
	cfg := `{"endpoint":"https://api.example.com/lookup/{{input}}","jsonPath":"result","label":"Lookup"}`

	out := s.Render(context.Background(), runtimeWidget("api-poll", cfg, "", ""))

	require.Empty(t, out.Error)
	payload := out.Payload.(APIPollPayload)
	assert.Equal(t, "interactive", payload.Mode)
	assert.Equal(t, "https://api.example.com/lookup/{{input}}", payload.Endpoint)
	assert.Equal(t, "GET", payload.Method)
	assert.Equal(t, "result", payload.JSONPath)
}

func TestRenderAPIPollPassiveDisplay(t *testing.T) {
	ts := jsonServer(t, map[string]interface{}{"result": map[string]interface{}{"ping": 12.34}})

	s := newTestSession(ts.URL)
	cfg := fmt.Sprintf(`{"endpoint":"%s/poll","jsonPath":"result.ping"}`, ts.URL)

	out := s.Render(context.Background(), runtimeWidget("api-poll", cfg, "", ""))

	require.Empty(t, out.Error)
	payload := out.Payload.(APIPollPayload)
	assert.Equal(t, "display", payload.Mode)
	assert.Equal(t, "12.3", payload.Value)
}

func TestRenderKPIFetchesConfiguredEndpoint(t *testing.T) {
	ts := jsonServer(t, map[string]interface{}{"stars": 1284.0})

	s := newTestSession(ts.URL)
	cfg := `{"endpoint":"/repo/stats","jsonPath":"","valuePath":"stars","label":"Stars"}`
	out := s.Render(context.Background(), runtimeWidget("kpi", cfg, "", ""))

	require.Empty(t, out.Error)
	assert.Equal(t, "1284", out.Payload.(KPIPayload).Value)
}

func TestRenderAPIPollPrintsWholeDocument(t *testing.T) {
	ts := jsonServer(t, map[string]interface{}{"status": "ok", "version": "2.1"})

	s := newTestSession(ts.URL)
	out := s.Render(context.Background(), runtimeWidget("api-poll", `{"endpoint":"/health","jsonPath":""}`, "", ""))

	require.Empty(t, out.Error)
	payload := out.Payload.(APIPollPayload)
	assert.Equal(t, "display", payload.Mode)
	assert.Contains(t, payload.Value, `"status": "ok"`)
	assert.Contains(t, payload.Value, `"version": "2.1"`)
}

func TestRenderUnknownTypeReturnsError(t *testing.T) {
	s := newTestSession("")
	out := s.Render(context.Background(), runtimeWidget("hologram", `{}`, "", ""))

	assert.Nil(t, out.Payload)
	assert.Contains(t, out.Error, "unknown widget type")
}

func TestRenderInstanceOverridesTemplateConfig(t *testing.T) {
	ts := jsonServer(t, map[string]interface{}{"v": 50.0})

	s := newTestSession(ts.URL)
	w := runtimeWidget("gauge", `{"valuePath":"v","max":100}`, `{"max":50}`, "/data")

	out := s.Render(context.Background(), w)

	require.Empty(t, out.Error)
	assert.Equal(t, float64(1), out.Payload.(GaugePayload).Percent)
}

func TestRenderResolvesVariablesInDataSource(t *testing.T) {
	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"v":1}`))
	}))
	defer ts.Close()

	s := NewSession(
		NewResolver(staticSource{vars: []models.WidgetVariable{{Name: "env", Value: "prod"}}}),
		NewFetcher(ts.URL, "", 2*time.Second),
	)
	out := s.Render(context.Background(), runtimeWidget("kpi", `{"valuePath":"v"}`, "", "/metrics/{{env}}/cpu"))

	require.Empty(t, out.Error)
	assert.Equal(t, "/metrics/prod/cpu", gotPath)
}

func TestSessionRegistryIsolatesDashboards(t *testing.T) {
	reg := NewSessionRegistry(NewResolver(staticSource{}), NewFetcher("", "", time.Second))

	a := reg.Session("dash-a")
	assert.Same(t, a, reg.Session("dash-a"))
	assert.NotSame(t, a, reg.Session("dash-b"))

	reg.Drop("dash-a")
	assert.NotSame(t, a, reg.Session("dash-a"))
}
