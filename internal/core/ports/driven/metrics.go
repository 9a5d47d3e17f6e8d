package driven

import "time"

// MetricsRecorder receives build and routing measurements.
type MetricsRecorder interface {
	// ObserveBuild records one rebuild attempt.
	ObserveBuild(duration time.Duration, documents, warnings int, err error)

	// ObserveRoute records one routed query.
	ObserveRoute(duration time.Duration, results int, err error)

	// SetState records the current service state.
	SetState(state string)
}
