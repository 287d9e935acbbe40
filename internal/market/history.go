package market

// History keeps the most recent market states for observers.
type History struct {
	Limit  int     `json:"limit"`
	States []State `json:"states"`
}

// NewHistory creates a history holding at most limit states.
func NewHistory(limit int) *History {
	if limit < 1 {
		limit = 1
	}
	return &History{Limit: limit}
}

// Record appends a state, dropping the oldest past the limit.
func (h *History) Record(s State) {
	h.States = append(h.States, s.Clone())
	if len(h.States) > h.Limit {
		h.States = h.States[len(h.States)-h.Limit:]
	}
}

// TrendCounts tallies how often each trend appears in the window.
func (h *History) TrendCounts() map[Trend]int {
	counts := make(map[Trend]int)
	for _, s := range h.States {
		counts[s.Trend]++
	}
	return counts
}
