package services

// State tracks a store's lifecycle. Stores start Uninitialized, pass through
// Hydrating exactly once, and then stay Ready; every later query or mutation
// is a Ready -> Ready transition served from the current cache snapshot.
type State int

const (
	StateUninitialized State = iota
	StateHydrating
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateHydrating:
		return "hydrating"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}
