package model

// RuntimeState is the observed state of a container as reported by the
// engine. It is always re-derived by inspection and never cached across
// calls: the engine is the sole source of truth and containers can change
// state out from under the process (manual stop, OOM kill, host restart).
type RuntimeState int8

const (
	// StateUnknown means the engine could not be reached.
	StateUnknown RuntimeState = iota
	// StateAbsent means the engine knows no container for the identity.
	StateAbsent
	// StateCreated means the container exists but is not running.
	StateCreated
	// StateRunning means the container is currently running.
	StateRunning
)

func (s RuntimeState) String() string {
	switch s {
	case StateAbsent:
		return "absent"
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}

// ResolvedEndpoint is the externally reachable address of a running
// container. It is valid only while the container is running and is never
// persisted.
type ResolvedEndpoint struct {
	Hostname string
	Port     string
}

// Identity is the deterministic string key used both as the container name
// and as the synthesized connection identifier. The same logical entity
// always maps to the same identity across requests, which is what makes
// lifecycle operations idempotent.
type Identity string

// NewIdentity derives the identity for a connection base name and the
// username it is provisioned for, mirroring the engine-side container name.
func NewIdentity(baseName, username string) Identity {
	return Identity(baseName + "_" + username)
}

func (i Identity) String() string {
	return string(i)
}
