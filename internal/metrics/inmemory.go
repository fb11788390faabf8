package metrics

import "sync/atomic"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersRegistered     uint64 `json:"users_registered"`
	LoginSuccesses      uint64 `json:"login_successes"`
	LoginFailures       uint64 `json:"login_failures"`
	TokensRevoked       uint64 `json:"tokens_revoked"`
	VerificationsOK     uint64 `json:"verifications_ok"`
	VerificationsDenied uint64 `json:"verifications_denied"`
	TasksCreated        uint64 `json:"tasks_created"`
	TasksUpdated        uint64 `json:"tasks_updated"`
	TasksDeleted        uint64 `json:"tasks_deleted"`
	OwnershipDenials    uint64 `json:"ownership_denials"`
}

// InMemoryRecorder stores metrics in memory.
// Safe for concurrent use; counters are atomic.
type InMemoryRecorder struct {
	usersRegistered     uint64
	loginSuccesses      uint64
	loginFailures       uint64
	tokensRevoked       uint64
	verificationsOK     uint64
	verificationsDenied uint64
	tasksCreated        uint64
	tasksUpdated        uint64
	tasksDeleted        uint64
	ownershipDenials    uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersRegistered:     atomic.LoadUint64(&m.usersRegistered),
		LoginSuccesses:      atomic.LoadUint64(&m.loginSuccesses),
		LoginFailures:       atomic.LoadUint64(&m.loginFailures),
		TokensRevoked:       atomic.LoadUint64(&m.tokensRevoked),
		VerificationsOK:     atomic.LoadUint64(&m.verificationsOK),
		VerificationsDenied: atomic.LoadUint64(&m.verificationsDenied),
		TasksCreated:        atomic.LoadUint64(&m.tasksCreated),
		TasksUpdated:        atomic.LoadUint64(&m.tasksUpdated),
		TasksDeleted:        atomic.LoadUint64(&m.tasksDeleted),
		OwnershipDenials:    atomic.LoadUint64(&m.ownershipDenials),
	}
}

// IncUserRegistered increments the registration counter.
func (m *InMemoryRecorder) IncUserRegistered() {
	atomic.AddUint64(&m.usersRegistered, 1)
}

// IncLoginSuccess increments the successful login counter.
func (m *InMemoryRecorder) IncLoginSuccess() {
	atomic.AddUint64(&m.loginSuccesses, 1)
}

// IncLoginFailure increments the failed login counter.
func (m *InMemoryRecorder) IncLoginFailure() {
	atomic.AddUint64(&m.loginFailures, 1)
}

// IncTokenRevoked increments the revocation counter.
func (m *InMemoryRecorder) IncTokenRevoked() {
	atomic.AddUint64(&m.tokensRevoked, 1)
}

// IncTokenVerification increments the verification counter for the outcome.
func (m *InMemoryRecorder) IncTokenVerification(outcome string) {
	if outcome == "ok" {
		atomic.AddUint64(&m.verificationsOK, 1)
		return
	}
	atomic.AddUint64(&m.verificationsDenied, 1)
}

// IncTaskCreated increments the task creation counter.
func (m *InMemoryRecorder) IncTaskCreated() {
	atomic.AddUint64(&m.tasksCreated, 1)
}

// IncTaskUpdated increments the task update counter.
func (m *InMemoryRecorder) IncTaskUpdated() {
	atomic.AddUint64(&m.tasksUpdated, 1)
}

// IncTaskDeleted increments the task deletion counter.
func (m *InMemoryRecorder) IncTaskDeleted() {
	atomic.AddUint64(&m.tasksDeleted, 1)
}

// IncOwnershipDenied increments the forbidden-mutation counter.
func (m *InMemoryRecorder) IncOwnershipDenied() {
	atomic.AddUint64(&m.ownershipDenials, 1)
}
