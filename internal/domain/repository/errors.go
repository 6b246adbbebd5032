package repository

import "errors"

// Engine error taxonomy. Implementations wrap these sentinels with
// fmt.Errorf("...: %w", err) so callers can branch with errors.Is while the
// wrapped message keeps the underlying transport detail.
var (
	// ErrNotFound indicates the engine knows no object for the identity.
	ErrNotFound = errors.New("container not found")

	// ErrAlreadyExists indicates a create raced an existing container with
	// the same identity. Inside the orchestrator's per-identity critical
	// section this signals a lock discipline bug and is escalated.
	ErrAlreadyExists = errors.New("container already exists")

	// ErrNotRunning indicates an endpoint was requested for a container
	// that is not currently running.
	ErrNotRunning = errors.New("container not running")

	// ErrNoPublishedPort indicates the engine has not (yet) published a
	// host port for the requested internal port. Transient right after
	// start on some engines; retried with backoff before escalation.
	ErrNoPublishedPort = errors.New("no published port for container")

	// ErrEngineUnavailable indicates the engine could not be reached.
	ErrEngineUnavailable = errors.New("container engine unavailable")

	// ErrEngineTimeout indicates an engine call exceeded its bounded
	// per-request timeout.
	ErrEngineTimeout = errors.New("container engine request timed out")

	// ErrEndpointUnavailable indicates endpoint resolution exhausted its
	// retry budget without the engine publishing a port.
	ErrEndpointUnavailable = errors.New("container endpoint unavailable")

	// ErrHostUnresolvable indicates the configured engine host does not
	// resolve. Fatal configuration error, never retried per-request.
	ErrHostUnresolvable = errors.New("container engine host unresolvable")

	// ErrInvalidSpec indicates a lifecycle operation was attempted with an
	// incomplete container spec. Caller error, never an engine error.
	ErrInvalidSpec = errors.New("invalid container spec")
)
