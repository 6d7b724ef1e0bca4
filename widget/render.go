package widget

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/infinitelyweird/OpenClaw-Dashboard/models"
)

// WidgetType enumerates the renderers. Dispatch is a closed switch over this
// set; anything else renders an error payload instead of falling through to
// arbitrary behavior.
type WidgetType string

const (
	TypeKPI     WidgetType = "kpi"
	TypeGauge   WidgetType = "gauge"
	TypeChart   WidgetType = "chart"
	TypeTable   WidgetType = "table"
	TypeList    WidgetType = "list"
	TypeStatus  WidgetType = "status"
	TypeText    WidgetType = "text"
	TypeIframe  WidgetType = "iframe"
	TypeAPIPoll WidgetType = "api-poll"
)

// ParseWidgetType validates a stored type string against the closed set.
func ParseWidgetType(s string) (WidgetType, bool) {
	switch t := WidgetType(s); t {
	case TypeKPI, TypeGauge, TypeChart, TypeTable, TypeList, TypeStatus, TypeText, TypeIframe, TypeAPIPoll:
		return t, true
	}
	return "", false
}

const (
	tableRowCap    = 50
	listItemCap    = 20
	emptyValue     = "—"
	defaultSandbox = "allow-scripts allow-same-origin"
)

var listFieldRe = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Session renders widgets for one dashboard view. It owns the chart history
// buffers, so two dashboards polling the same template never share a rolling
// window and closing a session frees its state.
type Session struct {
	resolver *Resolver
	fetcher  *Fetcher

	mu      sync.Mutex
	history map[string]*History
}

// NewSession returns a session using the given resolver and fetcher.
func NewSession(resolver *Resolver, fetcher *Fetcher) *Session {
	return &Session{
		resolver: resolver,
		fetcher:  fetcher,
		history:  make(map[string]*History),
	}
}

// Render runs the full pipeline for one widget: merge template defaults with
// instance overrides, resolve {{variable}} placeholders, fetch the data
// source, and dispatch to the type's renderer. Failures never escape: a
// renderer error or panic becomes an inline error on the returned widget.
func (s *Session) Render(ctx context.Context, w models.RuntimeWidget) (out models.RenderedWidget) {
	out = models.RenderedWidget{
		InstanceID: w.ID.Hex(),
		Type:       w.Type,
		RenderedAt: time.Now().UTC(),
	}
	defer func() {
		if r := recover(); r != nil {
			out.Payload = nil
			out.Error = fmt.Sprintf("Error: %v", r)
		}
	}()

	typ, ok := ParseWidgetType(w.Type)
	if !ok {
		out.Error = fmt.Sprintf("Error: unknown widget type %q", w.Type)
		return out
	}

	cfg := s.resolver.ResolveConfig(ctx, MergeConfig(w.DefaultConfig, w.ConfigJSON))

	src := s.resolver.ResolveText(ctx, w.DataSource)
	if src == "" {
		src = cfgString(cfg, "dataSource")
	}
	if src == "" {
		// Endpoint-only widgets (custom KPIs, passive api-poll) carry their
		// URL in the configuration instead of the template.
		src = cfgString(cfg, "endpoint")
	}
	var data interface{}
	// interactive probe URLs are templates for the client to fill in, not
	// fetchable addresses
	if src != "" && needsData(typ) && !strings.Contains(src, "{{input}}") {
		data = s.fetcher.Fetch(ctx, src)
	}

	payload, err := s.dispatch(ctx, typ, w, cfg, data)
	if err != nil {
		out.Error = "Error: " + err.Error()
		return out
	}
	out.Payload = payload
	return out
}

// needsData reports whether the type reads a fetched data object. Text and
// iframe widgets are wholly configuration-driven.
func needsData(t WidgetType) bool {
	switch t {
	case TypeText, TypeIframe:
		return false
	}
	return true
}

func (s *Session) dispatch(ctx context.Context, t WidgetType, w models.RuntimeWidget, cfg map[string]interface{}, data interface{}) (interface{}, error) {
	switch t {
	case TypeKPI:
		return renderKPI(w, cfg, data), nil
	case TypeGauge:
		return renderGauge(w, cfg, data)
	case TypeChart:
		return s.renderChart(w, cfg, data)
	case TypeTable:
		return renderTable(cfg, data), nil
	case TypeList:
		return renderList(cfg, data), nil
	case TypeStatus:
		return s.renderStatus(ctx, w, cfg, data), nil
	case TypeText:
		return TextPayload{HTML: RenderMarkdown(cfgString(cfg, "content"))}, nil
	case TypeIframe:
		return renderIframe(cfg), nil
	case TypeAPIPoll:
		return renderAPIPoll(cfg, data), nil
	}
	return nil, fmt.Errorf("unknown widget type %q", t)
}

func renderKPI(w models.RuntimeWidget, cfg map[string]interface{}, data interface{}) KPIPayload {
	label := cfgString(cfg, "label")
	if label == "" {
		label = w.Title
	}
	p := KPIPayload{Label: label, Unit: cfgString(cfg, "unit")}

	switch cfgString(cfg, "format") {
	case "time":
		loc := time.UTC
		if tz := cfgString(cfg, "timezone"); tz != "" {
			if l, err := time.LoadLocation(tz); err == nil {
				loc = l
			}
		}
		now := time.Now().In(loc)
		p.Value = now.Format("15:04:05")
		p.Secondary = []KPIEntry{{Label: "date", Value: now.Format("Monday, January 2")}}
		return p
	case "countdown":
		p.Value = countdownValue(cfgString(cfg, "targetDate"))
		return p
	}

	val, found := Lookup(data, cfgString(cfg, "valuePath"))
	if !found {
		p.Value = emptyValue
	} else {
		p.Value = displayValue(val)
	}
	p.Secondary = append(p.Secondary, secondaryEntries(cfg, data)...)
	return p
}

// countdownValue formats the time remaining until the target date. Past
// targets read "Expired" rather than counting negative.
func countdownValue(target string) string {
	if target == "" {
		return emptyValue
	}
	var t time.Time
	var err error
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err = time.Parse(layout, target); err == nil {
			break
		}
	}
	if err != nil {
		return emptyValue
	}
	remaining := time.Until(t)
	if remaining <= 0 {
		return "Expired"
	}
	days := int(remaining.Hours()) / 24
	hours := int(remaining.Hours()) % 24
	minutes := int(remaining.Minutes()) % 60
	return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
}

// secondaryEntries reads the secondaryPaths config: either a list of
// {label, path, unit} objects or a label-to-path map. The map form sorts by
// label so output is stable across renders.
func secondaryEntries(cfg map[string]interface{}, data interface{}) []KPIEntry {
	var entries []KPIEntry
	switch sp := cfg["secondaryPaths"].(type) {
	case []interface{}:
		for _, raw := range sp {
			m, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			entries = append(entries, KPIEntry{
				Label: stringify(m["label"]),
				Value: lookupDisplay(data, stringify(m["path"])),
				Unit:  stringify(m["unit"]),
			})
		}
	case map[string]interface{}:
		labels := make([]string, 0, len(sp))
		for label := range sp {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		for _, label := range labels {
			entries = append(entries, KPIEntry{
				Label: label,
				Value: lookupDisplay(data, stringify(sp[label])),
			})
		}
	}
	return entries
}

func lookupDisplay(data interface{}, path string) string {
	val, found := Lookup(data, path)
	if !found {
		return emptyValue
	}
	return displayValue(val)
}

// displayValue renders a leaf for a readout: numbers round to one decimal,
// everything else stringifies.
func displayValue(v interface{}) string {
	switch v.(type) {
	case float64, float32, int, int32, int64:
		return trimFloat(round1(toNumber(v)))
	}
	return stringify(v)
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%.1f", f)
	return strings.TrimSuffix(s, ".0")
}

func renderGauge(w models.RuntimeWidget, cfg map[string]interface{}, data interface{}) (interface{}, error) {
	label := cfgString(cfg, "label")
	if label == "" {
		label = w.Title
	}

	var value float64
	if expr := cfgString(cfg, "compute"); expr != "" {
		v, err := Evaluate(expr, data)
		if err != nil {
			return nil, fmt.Errorf("bad compute expression: %v", err)
		}
		value = v
	} else {
		value = LookupNumber(data, cfgString(cfg, "valuePath"))
	}

	max := cfgNumber(cfg, "max", 100)
	pct := 0.0
	if max > 0 {
		pct = value / max
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}

	return GaugePayload{
		Label:   label,
		Value:   round1(value),
		Max:     max,
		Percent: pct,
		Unit:    cfgString(cfg, "unit"),
		Color:   gaugeColor(cfg, value),
	}, nil
}

// gaugeColor maps the value against the thresholds object's warning/critical
// bounds. With invertThresholds set, lower readings are the bad ones (free
// disk space, battery charge).
func gaugeColor(cfg map[string]interface{}, value float64) string {
	thresholds, ok := cfg["thresholds"].(map[string]interface{})
	if !ok {
		return "accent"
	}
	warning, hasWarning := cfgLookupNumber(thresholds, "warning")
	critical, hasCritical := cfgLookupNumber(thresholds, "critical")
	if !hasWarning && !hasCritical {
		return "accent"
	}
	inverted := cfgBool(cfg, "invertThresholds")
	if inverted {
		if hasCritical && value <= critical {
			return "danger"
		}
		if hasWarning && value <= warning {
			return "warning"
		}
		return "success"
	}
	if hasCritical && value >= critical {
		return "danger"
	}
	if hasWarning && value >= warning {
		return "warning"
	}
	return "success"
}

func (s *Session) renderChart(w models.RuntimeWidget, cfg map[string]interface{}, data interface{}) (interface{}, error) {
	label := cfgString(cfg, "label")
	if label == "" {
		label = w.Title
	}
	kind := cfgString(cfg, "chartType")
	if kind == "" {
		kind = "line"
	}

	if kind == "line" && cfgBool(cfg, "history") {
		var value float64
		if expr := cfgString(cfg, "compute"); expr != "" {
			v, err := Evaluate(expr, data)
			if err != nil {
				return nil, fmt.Errorf("bad compute expression: %v", err)
			}
			value = v
		} else {
			value = LookupNumber(data, cfgString(cfg, "valuePath"))
		}
		points := s.appendHistory(w.ID.Hex(), value, cfgInt(cfg, "maxPoints", DefaultMaxPoints))
		return ChartPayload{Kind: kind, Label: label, Series: points}, nil
	}

	if _, ok := cfg["dataMap"].(map[string]interface{}); ok {
		return ChartPayload{
			Kind:     kind,
			Label:    label,
			Segments: mappedSegments(w, cfg, data),
		}, nil
	}

	return ChartPayload{
		Kind:     kind,
		Label:    label,
		Segments: arraySegments(cfg, data),
	}, nil
}

// appendHistory records a sample on the instance's rolling window and returns
// the current series.
func (s *Session) appendHistory(instanceID string, value float64, maxPoints int) []HistoryPoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.history[instanceID]
	if !ok {
		h = NewHistory(maxPoints)
		s.history[instanceID] = h
	}
	h.Append(HistoryPoint{Timestamp: time.Now().UTC(), Value: value}, maxPoints)
	return h.Points()
}

// mappedSegments builds segments from an explicit label-to-path map,
// preserving the map's document order from the stored configuration.
func mappedSegments(w models.RuntimeWidget, cfg map[string]interface{}, data interface{}) []ChartSegment {
	dataMap, _ := cfg["dataMap"].(map[string]interface{})
	keys := OrderedKeys(w.DefaultConfig, w.ConfigJSON, "dataMap")
	if len(keys) == 0 {
		keys = make([]string, 0, len(dataMap))
		for k := range dataMap {
			keys = append(keys, k)
		}
		sort.Strings(keys)
	}
	segments := make([]ChartSegment, 0, len(keys))
	for _, label := range keys {
		path, ok := dataMap[label]
		if !ok {
			continue
		}
		segments = append(segments, ChartSegment{
			Label: label,
			Value: round1(LookupNumber(data, stringify(path))),
		})
	}
	return segments
}

// arraySegments builds segments from an array of objects using labelPath and
// valuePath per element.
func arraySegments(cfg map[string]interface{}, data interface{}) []ChartSegment {
	items := dataArray(cfg, data)
	labelPath := cfgString(cfg, "labelPath")
	if labelPath == "" {
		labelPath = "label"
	}
	valuePath := cfgString(cfg, "valuePath")
	if valuePath == "" {
		valuePath = "value"
	}
	segments := make([]ChartSegment, 0, len(items))
	for i, item := range items {
		label := LookupString(item, labelPath)
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
		}
		segments = append(segments, ChartSegment{
			Label: label,
			Value: round1(LookupNumber(item, valuePath)),
		})
	}
	return segments
}

func renderTable(cfg map[string]interface{}, data interface{}) TablePayload {
	items := dataArray(cfg, data)
	if len(items) > tableRowCap {
		items = items[:tableRowCap]
	}

	columns := cfgStrings(cfg, "columns")
	if len(columns) == 0 && len(items) > 0 {
		if first, ok := items[0].(map[string]interface{}); ok {
			for k := range first {
				columns = append(columns, k)
			}
			sort.Strings(columns)
		}
	}

	rows := make([]map[string]string, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		row := make(map[string]string, len(columns))
		for _, col := range columns {
			row[col] = lookupDisplay(obj, col)
		}
		rows = append(rows, row)
	}
	if columns == nil {
		columns = []string{}
	}
	return TablePayload{Columns: columns, Rows: rows}
}

func renderList(cfg map[string]interface{}, data interface{}) ListPayload {
	// Static link lists are fully configured and need no data source.
	if links, ok := cfg["links"].([]interface{}); ok {
		items := make([]ListItem, 0, len(links))
		for _, raw := range links {
			m, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			text := stringify(m["label"])
			if text == "" {
				text = stringify(m["title"])
			}
			items = append(items, ListItem{Text: text, URL: stringify(m["url"])})
			if len(items) == listItemCap {
				break
			}
		}
		return ListPayload{Items: items}
	}

	tmpl := cfgString(cfg, "itemTemplate")
	entries := dataArray(cfg, data)
	if len(entries) > listItemCap {
		entries = entries[:listItemCap]
	}
	items := make([]ListItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, ListItem{Text: listItemText(tmpl, entry)})
	}
	return ListPayload{Items: items}
}

// listItemText expands an item template's {{field}} placeholders from the
// entry's top-level fields. Without a template the entry stringifies whole.
func listItemText(tmpl string, entry interface{}) string {
	if tmpl == "" {
		return stringify(entry)
	}
	obj, _ := entry.(map[string]interface{})
	return listFieldRe.ReplaceAllStringFunc(tmpl, func(match string) string {
		field := listFieldRe.FindStringSubmatch(match)[1]
		if obj == nil {
			return match
		}
		v, ok := obj[field]
		if !ok {
			return match
		}
		return displayValue(v)
	})
}

func (s *Session) renderStatus(ctx context.Context, w models.RuntimeWidget, cfg map[string]interface{}, data interface{}) StatusPayload {
	// Probe mode: a configured service list is checked concurrently.
	if services, ok := cfg["services"].([]interface{}); ok && len(services) > 0 {
		return s.probeServices(ctx, services)
	}

	statusPath := cfgString(cfg, "statusPath")

	if items := dataArray(cfg, data); len(items) > 0 {
		labelPath := cfgString(cfg, "labelPath")
		if labelPath == "" {
			labelPath = "name"
		}
		entries := make([]StatusEntry, 0, len(items))
		for i, item := range items {
			name := LookupString(item, labelPath)
			if name == "" {
				name = fmt.Sprintf("#%d", i+1)
			}
			entries = append(entries, StatusEntry{
				Name:  name,
				State: bucketState(LookupString(item, statusPath)),
			})
		}
		return StatusPayload{Entries: entries}
	}

	// Single-target mode: one truthy flag on the data object.
	name := cfgString(cfg, "label")
	if name == "" {
		name = w.Title
	}
	state := "red"
	if val, found := Lookup(data, statusPath); found && truthyStatus(val) {
		state = "green"
	}
	return StatusPayload{Entries: []StatusEntry{{Name: name, State: state}}}
}

func (s *Session) probeServices(ctx context.Context, services []interface{}) StatusPayload {
	entries := make([]StatusEntry, len(services))
	g, gctx := errgroup.WithContext(ctx)
	for i, raw := range services {
		i, raw := i, raw
		g.Go(func() error {
			m, ok := raw.(map[string]interface{})
			if !ok {
				entries[i] = StatusEntry{Name: fmt.Sprintf("#%d", i+1), State: "red"}
				return nil
			}
			name := stringify(m["name"])
			if name == "" {
				name = stringify(m["url"])
			}
			state := "red"
			if s.fetcher.Check(gctx, stringify(m["url"])) {
				state = "green"
			}
			entries[i] = StatusEntry{Name: name, State: state}
			return nil
		})
	}
	_ = g.Wait() // probes report red instead of returning errors
	return StatusPayload{Entries: entries}
}

// bucketState maps an upstream status string to a traffic light.
func bucketState(status string) string {
	switch strings.ToLower(status) {
	case "success", "active", "running", "online", "healthy", "operational":
		return "green"
	case "warning", "pending", "degraded":
		return "yellow"
	}
	return "red"
}

// truthyStatus accepts the flag spellings upstreams actually use.
func truthyStatus(v interface{}) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		switch strings.ToLower(val) {
		case "true", "enabled", "active", "operational", "ok", "up":
			return true
		}
	case float64:
		return val != 0
	}
	return false
}

func renderIframe(cfg map[string]interface{}) IframePayload {
	sandbox := cfgString(cfg, "sandbox")
	if sandbox == "" {
		sandbox = defaultSandbox
	}
	return IframePayload{URL: cfgString(cfg, "url"), Sandbox: sandbox}
}

func renderAPIPoll(cfg map[string]interface{}, data interface{}) interface{} {
	endpoint := cfgString(cfg, "endpoint")
	jsonPath := cfgString(cfg, "jsonPath")
	label := cfgString(cfg, "label")

	// Interactive probes keep the {{input}} placeholder for the client to
	// fill in; the server only describes the call.
	if strings.Contains(endpoint, "{{input}}") {
		method := strings.ToUpper(cfgString(cfg, "method"))
		if method == "" {
			method = "GET"
		}
		return APIPollPayload{
			Mode:     "interactive",
			Endpoint: endpoint,
			Method:   method,
			JSONPath: jsonPath,
			Label:    label,
		}
	}

	if data == nil {
		return EmptyPayload{Message: "No data"}
	}
	val := data
	if jsonPath != "" {
		v, found := Lookup(data, jsonPath)
		if !found {
			return APIPollPayload{Mode: "display", Label: label, Value: emptyValue}
		}
		val = v
	}
	return APIPollPayload{Mode: "display", Label: label, Value: pollDisplay(val)}
}

// pollDisplay pretty-prints whole documents; scalar leaves render like any
// other readout.
func pollDisplay(val interface{}) string {
	switch val.(type) {
	case map[string]interface{}, []interface{}:
		b, err := json.MarshalIndent(val, "", "  ")
		if err != nil {
			return emptyValue
		}
		return string(b)
	}
	return displayValue(val)
}

// dataArray extracts the array a widget iterates: the data itself when it is
// already an array, otherwise the value at the configured dataPath.
func dataArray(cfg map[string]interface{}, data interface{}) []interface{} {
	if arr, ok := data.([]interface{}); ok {
		return arr
	}
	if path := cfgString(cfg, "dataPath"); path != "" {
		if val, found := Lookup(data, path); found {
			if arr, ok := val.([]interface{}); ok {
				return arr
			}
		}
	}
	return nil
}

func cfgString(cfg map[string]interface{}, key string) string {
	if v, ok := cfg[key].(string); ok {
		return v
	}
	return ""
}

func cfgNumber(cfg map[string]interface{}, key string, fallback float64) float64 {
	if v, ok := cfgLookupNumber(cfg, key); ok {
		return v
	}
	return fallback
}

func cfgLookupNumber(cfg map[string]interface{}, key string) (float64, bool) {
	switch v := cfg[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		if v == "" {
			return 0, false
		}
		n := toNumber(v)
		return n, true
	}
	return 0, false
}

func cfgInt(cfg map[string]interface{}, key string, fallback int) int {
	if v, ok := cfgLookupNumber(cfg, key); ok && v > 0 {
		return int(v)
	}
	return fallback
}

func cfgBool(cfg map[string]interface{}, key string) bool {
	switch v := cfg[key].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true")
	}
	return false
}

func cfgStrings(cfg map[string]interface{}, key string) []string {
	raw, ok := cfg[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
