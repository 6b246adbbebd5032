// Package lifecycle owns the create, start, resolve and stop state machine
// for provisioned containers. All engine state is re-read per operation; the
// per-identity lock registry is the only mutable state the orchestrator
// itself carries.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sessiondock/internal/application/config"
	"sessiondock/internal/domain/model"
	"sessiondock/internal/domain/repository"
	"sessiondock/pkg/backoff"
	"sessiondock/pkg/log"
)

// Orchestrator serializes lifecycle operations per container identity and
// exposes idempotent high-level operations on top of the engine repository.
type Orchestrator struct {
	engine          repository.ContainerEngineRepository
	locks           *lockRegistry
	endpointRetries int
	retryDelay      time.Duration
}

// NewOrchestrator wires the orchestrator to an engine repository using the
// retry budget from the agent configuration.
func NewOrchestrator(engine repository.ContainerEngineRepository, cfg *config.Config) *Orchestrator {
	retries := cfg.EndpointRetries
	if retries < 1 {
		// A zero or negative budget still means one attempt.
		retries = 1
	}
	return &Orchestrator{
		engine:          engine,
		locks:           newLockRegistry(),
		endpointRetries: retries,
		retryDelay:      cfg.EndpointRetryDelay,
	}
}

// EnsureRunning guarantees that exactly one container exists and is running
// for the identity, and returns its published endpoint. Calling it any
// number of times without an intervening Teardown yields the same endpoint
// and at most one engine create, even under concurrent callers: the
// per-identity lock makes the inspect-create-start sequence atomic with
// respect to other operations on the same identity.
func (o *Orchestrator) EnsureRunning(ctx context.Context, identity model.Identity, spec model.ContainerSpec) (model.ResolvedEndpoint, error) {
	if err := spec.Validate(); err != nil {
		return model.ResolvedEndpoint{}, fmt.Errorf("%w: %v", repository.ErrInvalidSpec, err)
	}

	logger := log.With("identity", identity, "request_id", uuid.NewString())

	release := o.locks.acquire(identity)
	defer release()

	// A caller that gave up while waiting for the lock should not trigger
	// engine work. In-flight engine calls are never cancelled mid-way, so
	// this pre-call check is the only cancellation point before teardown.
	if err := ctx.Err(); err != nil {
		return model.ResolvedEndpoint{}, err
	}

	state, err := o.engine.InspectState(ctx, identity)
	if err != nil {
		return model.ResolvedEndpoint{}, err
	}
	logger.Debug("inspected container state", "state", state.String())

	switch state {
	case model.StateAbsent:
		containerID, err := o.engine.Create(ctx, identity, spec)
		if err != nil {
			if errors.Is(err, repository.ErrAlreadyExists) {
				// Cannot happen while the identity lock is held; if it
				// does, the lock discipline is broken somewhere and
				// swallowing it would mask the bug.
				logger.Error("container appeared during locked create", "error", err)
				return model.ResolvedEndpoint{}, fmt.Errorf("identity lock violated for %s: %w", identity, err)
			}
			return model.ResolvedEndpoint{}, err
		}
		if err := o.engine.Start(ctx, containerID); err != nil {
			return model.ResolvedEndpoint{}, err
		}
		logger.Info("container provisioned", "container_id", containerID)

	case model.StateCreated:
		if err := o.engine.Start(ctx, identity.String()); err != nil {
			return model.ResolvedEndpoint{}, err
		}
		logger.Info("existing container started")

	case model.StateRunning:
		// Nothing to do.

	default:
		// Never create against an unreachable engine: the create could
		// land twice once the engine recovers.
		return model.ResolvedEndpoint{}, fmt.Errorf("%w: state unknown for %s", repository.ErrEngineUnavailable, identity)
	}

	endpoint, err := o.resolveEndpoint(ctx, identity, spec.InternalPort)
	if err != nil {
		return model.ResolvedEndpoint{}, err
	}

	logger.Info("endpoint resolved", "hostname", endpoint.Hostname, "port", endpoint.Port)
	return endpoint, nil
}

// resolveEndpoint reads back the published host port, retrying a bounded
// number of times: port publishing can lag container start by a few hundred
// milliseconds on some engines.
func (o *Orchestrator) resolveEndpoint(ctx context.Context, identity model.Identity, internalPort int) (model.ResolvedEndpoint, error) {
	b := backoff.New(o.retryDelay, o.retryDelay*8)

	var lastErr error
	for attempt := 0; attempt < o.endpointRetries; attempt++ {
		endpoint, err := o.engine.InspectEndpoint(ctx, identity, internalPort)
		if err == nil {
			return endpoint, nil
		}
		if !errors.Is(err, repository.ErrNoPublishedPort) {
			return model.ResolvedEndpoint{}, err
		}
		lastErr = err

		if attempt < o.endpointRetries-1 {
			if err := b.Sleep(ctx); err != nil {
				return model.ResolvedEndpoint{}, err
			}
		}
	}

	return model.ResolvedEndpoint{}, fmt.Errorf("%w: %s after %d attempts: %v",
		repository.ErrEndpointUnavailable, identity, o.endpointRetries, lastErr)
}

// Teardown stops the container for the identity. A container that is already
// gone counts as success: the target state is achieved either way. Failures
// are logged and returned but are best-effort for callers releasing a
// session.
func (o *Orchestrator) Teardown(ctx context.Context, identity model.Identity) error {
	logger := log.With("identity", identity, "request_id", uuid.NewString())

	release := o.locks.acquire(identity)
	defer release()

	if err := ctx.Err(); err != nil {
		return err
	}

	exists, err := o.engine.Exists(ctx, identity)
	if err != nil {
		return err
	}
	if !exists {
		logger.Debug("container already gone")
		return nil
	}

	if err := o.engine.Stop(ctx, identity); err != nil {
		// The container can still vanish between the existence check and
		// the stop; the target state is achieved either way.
		if errors.Is(err, repository.ErrNotFound) {
			logger.Debug("container already gone")
			return nil
		}
		logger.Error("container stop failed", "error", err)
		return err
	}

	logger.Info("container torn down")
	return nil
}
