package widget

// Payload types returned by the renderer. Each widget type produces exactly
// one of these; the handler serializes whichever comes back.

// KPIPayload is a single headline value with optional secondary readouts.
type KPIPayload struct {
	Label     string     `json:"label"`
	Value     string     `json:"value"`
	Unit      string     `json:"unit,omitempty"`
	Secondary []KPIEntry `json:"secondary,omitempty"`
}

// KPIEntry is one secondary label/value pair under the headline.
type KPIEntry struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Unit  string `json:"unit,omitempty"`
}

// GaugePayload is a value plotted against a maximum, with a threshold color.
type GaugePayload struct {
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Max     float64 `json:"max"`
	Percent float64 `json:"percent"`
	Unit    string  `json:"unit,omitempty"`
	Color   string  `json:"color"`
}

// ChartPayload carries either a rolling line series or labeled bar/donut
// segments, depending on Kind.
type ChartPayload struct {
	Kind     string         `json:"kind"`
	Label    string         `json:"label"`
	Series   []HistoryPoint `json:"series,omitempty"`
	Segments []ChartSegment `json:"segments,omitempty"`
}

// ChartSegment is one labeled value in a bar or donut chart.
type ChartSegment struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// TablePayload is a column list plus row cells keyed by column.
type TablePayload struct {
	Columns []string            `json:"columns"`
	Rows    []map[string]string `json:"rows"`
}

// ListPayload is an ordered set of rendered list items.
type ListPayload struct {
	Items []ListItem `json:"items"`
}

// ListItem is one list row; URL is set for link lists.
type ListItem struct {
	Text string `json:"text"`
	URL  string `json:"url,omitempty"`
}

// StatusPayload groups per-target health indicators.
type StatusPayload struct {
	Entries []StatusEntry `json:"entries"`
}

// StatusEntry is one name with a traffic-light state: green, yellow or red.
type StatusEntry struct {
	Name  string `json:"name"`
	State string `json:"state"`
}

// TextPayload is sanitized HTML produced from markdown content.
type TextPayload struct {
	HTML string `json:"html"`
}

// IframePayload tells the client what to embed and with which sandbox.
type IframePayload struct {
	URL     string `json:"url"`
	Sandbox string `json:"sandbox"`
}

// APIPollPayload is either an interactive probe descriptor (Endpoint set) or
// a passive displayed value (Value set).
type APIPollPayload struct {
	Mode     string `json:"mode"`
	Endpoint string `json:"endpoint,omitempty"`
	Method   string `json:"method,omitempty"`
	JSONPath string `json:"jsonPath,omitempty"`
	Label    string `json:"label,omitempty"`
	Value    string `json:"value,omitempty"`
}

// EmptyPayload stands in when a widget has no data to show.
type EmptyPayload struct {
	Message string `json:"message"`
}
