package widget

import "time"

// DefaultMaxPoints caps a chart's rolling window when the configuration does
// not set one.
const DefaultMaxPoints = 30

// HistoryPoint is one sampled value on a line chart.
type HistoryPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// History is a bounded FIFO of sampled points. Appending past the cap drops
// the oldest point. Not safe for concurrent use; the owning session
// serializes access.
type History struct {
	max    int
	points []HistoryPoint
}

// NewHistory returns a history holding at most max points.
func NewHistory(max int) *History {
	if max <= 0 {
		max = DefaultMaxPoints
	}
	return &History{max: max, points: make([]HistoryPoint, 0, max)}
}

// Append records a point, evicting the oldest when full. If the cap changes
// between renders the buffer shrinks to the new cap.
func (h *History) Append(p HistoryPoint, max int) {
	if max <= 0 {
		max = DefaultMaxPoints
	}
	h.max = max
	h.points = append(h.points, p)
	if over := len(h.points) - h.max; over > 0 {
		h.points = h.points[over:]
	}
}

// Points returns a copy of the buffered points, oldest first.
func (h *History) Points() []HistoryPoint {
	out := make([]HistoryPoint, len(h.points))
	copy(out, h.points)
	return out
}

// Len reports the number of buffered points.
func (h *History) Len() int { return len(h.points) }
