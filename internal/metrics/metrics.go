// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Auth metrics
	IncUserRegistered()
	IncLoginSuccess()
	IncLoginFailure()
	IncTokenRevoked()
	IncTokenVerification(outcome string) // outcome: "ok", "revoked", "expired", "invalid"

	// Task metrics
	IncTaskCreated()
	IncTaskUpdated()
	IncTaskDeleted()
	IncOwnershipDenied()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
