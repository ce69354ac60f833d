package domain

import "time"

// ActionStatus tracks the execution lifecycle of a proposed action.
// EXECUTED is terminal: nothing moves an action back to PENDING in a session.
type ActionStatus string

const (
	StatusPending  ActionStatus = "PENDING"
	StatusExecuted ActionStatus = "EXECUTED"
)

// Action priorities as emitted by the upstream agent.
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// Action category tags.
const (
	TypeCommunication = "COMMUNICATION"
	TypeInventory     = "INVENTORY"
	TypeResource      = "RESOURCE"
	TypeProtocol      = "PROTOCOL"
	TypeSystem        = "SYSTEM"
)

// Action is a single proposed or completed remediation step.
//
// Executable=false marks human-only work (cleaning, deploying teams); the
// executor must never accept such an action. Payload is opaque structured
// data forwarded verbatim to the remote service, nil for human-only actions.
type Action struct {
	ID          int            `json:"id" yaml:"id"`
	Title       string         `json:"title" yaml:"title"`
	Description string         `json:"description" yaml:"description"`
	Type        string         `json:"type" yaml:"type"`
	Priority    string         `json:"priority" yaml:"priority"`
	Executable  bool           `json:"executable" yaml:"executable"`
	Payload     map[string]any `json:"function_payload,omitempty" yaml:"function_payload,omitempty"`

	// Status is tracked on the action itself rather than in a side set of
	// completed IDs, so a reconciling sync has a single source of truth.
	Status ActionStatus `json:"status,omitempty" yaml:"status,omitempty"`
}

// Clone returns a deep copy of the action.
func (a Action) Clone() Action {
	out := a
	if a.Payload != nil {
		out.Payload = make(map[string]any, len(a.Payload))
		for k, v := range a.Payload {
			out.Payload[k] = v
		}
	}
	return out
}

// EffectiveStatus normalizes the zero value: actions arriving from the wire
// without an explicit status are pending.
func (a Action) EffectiveStatus() ActionStatus {
	if a.Status == "" {
		return StatusPending
	}
	return a.Status
}

// Ticket marks one action as currently being executed. At most one ticket
// is open at a time (single-flight UI).
type Ticket struct {
	ID        string
	ActionID  int
	StartedAt time.Time
}
