package domain

import "time"

// ServiceState is the lifecycle state of the corpus service.
type ServiceState string

// Service states. The service moves Unloaded -> Loading -> Ready and then
// Ready -> Reloading -> Ready | Failed on every rebuild.
const (
	StateUnloaded  ServiceState = "unloaded"
	StateLoading   ServiceState = "loading"
	StateReady     ServiceState = "ready"
	StateReloading ServiceState = "reloading"
	StateFailed    ServiceState = "failed"
)

// ServiceStates returns every state in lifecycle order.
func ServiceStates() []ServiceState {
	return []ServiceState{StateUnloaded, StateLoading, StateReady, StateReloading, StateFailed}
}

// IsValid returns true if the state is recognised.
func (s ServiceState) IsValid() bool {
	switch s {
	case StateUnloaded, StateLoading, StateReady, StateReloading, StateFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s ServiceState) String() string {
	return string(s)
}

// Status is a point-in-time view of the corpus service.
type Status struct {
	// State is the lifecycle state.
	State ServiceState

	// Generation counts successful publishes. Zero means nothing published.
	Generation uint64

	// Documents is the number of indexed documents.
	Documents int

	// Shadowed is the number of documents hidden by duplicate ids.
	Shadowed int

	// IndexHash is the content hash of the published index.
	IndexHash string

	// BuiltAt is when the published index was built.
	BuiltAt time.Time

	// LastError is the error of the most recent failed rebuild, if any.
	LastError string

	// Warnings is the number of warnings from the published build.
	Warnings int

	// Stale is true when the most recent rebuild failed and an older
	// index is still being served.
	Stale bool
}

// CorpusChange is a debounced batch of file changes under the corpus root.
type CorpusChange struct {
	// Paths are the changed file paths, relative to the corpus root.
	Paths []string

	// At is when the batch was emitted.
	At time.Time
}
