package domain

// SyncMode indicates where the currently displayed Snapshot came from.
type SyncMode string

const (
	// ModeLive means the snapshot was obtained from the remote service.
	ModeLive SyncMode = "LIVE"
	// ModeFallback means the snapshot is the built-in substitute dataset.
	ModeFallback SyncMode = "FALLBACK"
)

// Environment holds the named numeric readings of the monitored area.
type Environment struct {
	Temp     float64 `json:"temp" yaml:"temp"`
	Rain     float64 `json:"rain" yaml:"rain"`
	AQI      float64 `json:"aqi" yaml:"aqi"`
	Humidity float64 `json:"humidity" yaml:"humidity"`
}

// Prediction is a single risk-category forecast.
// Score is bounded to [0, 10]; Status is derived from the score banding.
type Prediction struct {
	Score  float64 `json:"score" yaml:"score"`
	Status string  `json:"status" yaml:"status"`
}

// Severity labels for Prediction.Status, banded by score.
const (
	SeverityNormal   = "NORMAL"
	SeverityWarning  = "WARNING"
	SeverityCritical = "CRITICAL"
)

// SeverityFor returns the severity label matching a risk score.
func SeverityFor(score float64) string {
	switch {
	case score >= 7.0:
		return SeverityCritical
	case score >= 4.0:
		return SeverityWarning
	default:
		return SeverityNormal
	}
}

// Agent carries the upstream agent's situation report and its proposed actions.
type Agent struct {
	Summary string   `json:"summary" yaml:"summary"`
	Actions []Action `json:"actions" yaml:"actions"`
}

// Snapshot is the full state of the monitored system at a sync point.
// It is fetched and replaced as one atomic unit.
type Snapshot struct {
	Environment Environment           `json:"environment" yaml:"environment"`
	Predictions map[string]Prediction `json:"predictions" yaml:"predictions"`
	TopTrend    string                `json:"top_trend" yaml:"top_trend"`
	Inventory   map[string]int        `json:"inventory" yaml:"inventory"`
	Agent       Agent                 `json:"ai_agent" yaml:"ai_agent"`
}

// Clone returns a deep copy of the snapshot so callers can hand out state
// without risking mutation of the stored original.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := *s
	out.Predictions = make(map[string]Prediction, len(s.Predictions))
	for k, v := range s.Predictions {
		out.Predictions[k] = v
	}
	out.Inventory = make(map[string]int, len(s.Inventory))
	for k, v := range s.Inventory {
		out.Inventory[k] = v
	}
	out.Agent.Actions = make([]Action, len(s.Agent.Actions))
	for i, a := range s.Agent.Actions {
		out.Agent.Actions[i] = a.Clone()
	}
	return &out
}

// ActionByID returns a pointer to the action with the given id, or nil.
// The pointer addresses the snapshot's own slice; mutate only through
// components that own the snapshot.
func (s *Snapshot) ActionByID(id int) *Action {
	for i := range s.Agent.Actions {
		if s.Agent.Actions[i].ID == id {
			return &s.Agent.Actions[i]
		}
	}
	return nil
}

// TopTrendOf picks the dominant symptom from a keyword -> interest map.
// Ties resolve to the lexicographically smallest keyword so the result is
// deterministic regardless of map iteration order.
func TopTrendOf(trends map[string]int) string {
	best := ""
	bestVal := -1
	for k, v := range trends {
		if v > bestVal || (v == bestVal && k < best) {
			best, bestVal = k, v
		}
	}
	return titleCase(best)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
