package repository

import (
	"context"

	"sessiondock/internal/domain/model"
)

// ContainerEngineRepository is a thin synchronous facade over a remote
// container engine. Every call is a blocking network round trip and may take
// multiple seconds (create and start especially); implementations apply a
// bounded per-request timeout and surface ErrEngineTimeout instead of
// blocking indefinitely.
type ContainerEngineRepository interface {
	// Exists reports whether the engine knows an object (running or not)
	// named by the identity. A "not found" engine response maps to
	// (false, nil), not an error.
	Exists(ctx context.Context, identity model.Identity) (bool, error)

	// Create creates a container for the identity, binding the spec's
	// internal port to an engine-chosen host port. The container is not
	// started. Fails with ErrAlreadyExists if the identity is taken.
	Create(ctx context.Context, identity model.Identity, spec model.ContainerSpec) (string, error)

	// Start starts a previously created container. Fails with ErrNotFound
	// if the container does not exist; it is not no-op safe, callers must
	// check state first.
	Start(ctx context.Context, containerID string) error

	// InspectState re-derives the container's runtime state from the
	// engine.
	InspectState(ctx context.Context, identity model.Identity) (model.RuntimeState, error)

	// InspectEndpoint returns the published host/port pair for the given
	// internal port. Fails with ErrNotRunning if the container is not
	// running, or ErrNoPublishedPort if the engine has not yet published a
	// binding.
	InspectEndpoint(ctx context.Context, identity model.Identity, internalPort int) (model.ResolvedEndpoint, error)

	// Stop stops the container. Fails with ErrNotFound if absent;
	// idempotent on an already-stopped container.
	Stop(ctx context.Context, identity model.Identity) error
}
