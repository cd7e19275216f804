package state

// Status is a point-in-time view of the toggle: whether an instance holds
// the marker lock and, when it does, what it is confining.
type Status struct {
	Active     bool     `json:"active"`
	MarkerPath string   `json:"markerPath"`
	PID        int      `json:"pid,omitempty"`
	Session    *Session `json:"session,omitempty"`
}
