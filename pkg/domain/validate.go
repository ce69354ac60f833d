package domain

import "fmt"

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Key    string // Field path, e.g. "predictions.vector.score"
	Reason string // Human-readable reason for failure
	Value  any    // The offending value
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("field %q: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("field %q: %s (got %v)", e.Key, e.Reason, e.Value)
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// Validate checks the internal consistency a renderable snapshot must have:
// scores within [0,10] with a status label matching the banding, inventory
// quantities non-negative, action ids unique, and human-only actions
// carrying no payload.
func (s *Snapshot) Validate() error {
	var errs []error

	for name, p := range s.Predictions {
		if p.Score < 0 || p.Score > 10 {
			errs = append(errs, &ValidationError{
				Key:    "predictions." + name + ".score",
				Reason: "score outside [0,10]",
				Value:  p.Score,
			})
		}
		if want := SeverityFor(p.Score); p.Status != want {
			errs = append(errs, &ValidationError{
				Key:    "predictions." + name + ".status",
				Reason: fmt.Sprintf("status inconsistent with score banding (want %s)", want),
				Value:  p.Status,
			})
		}
	}

	for item, qty := range s.Inventory {
		if qty < 0 {
			errs = append(errs, &ValidationError{
				Key:    "inventory." + item,
				Reason: "quantity must be >= 0",
				Value:  qty,
			})
		}
	}

	seen := make(map[int]bool, len(s.Agent.Actions))
	for _, a := range s.Agent.Actions {
		key := fmt.Sprintf("ai_agent.actions[%d]", a.ID)
		if seen[a.ID] {
			errs = append(errs, &ValidationError{Key: key, Reason: "duplicate action id"})
		}
		seen[a.ID] = true
		if !a.Executable && a.Payload != nil {
			errs = append(errs, &ValidationError{Key: key, Reason: "human-only action must not carry a payload"})
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return &AggregateError{Errors: errs}
}
