package catalog

import (
	"context"
	"fmt"
	"sync"

	"sessiondock/internal/domain/model"
	"sessiondock/pkg/log"
)

// ProvisioningState tracks the backing container of a synthesized
// connection. Transitions are driven by the first connect attempt and by
// explicit release, never by directory listing.
type ProvisioningState int8

const (
	StateUnprovisioned ProvisioningState = iota
	StateProvisioning
	StateReady
	StateTornDown
)

func (s ProvisioningState) String() string {
	switch s {
	case StateProvisioning:
		return "provisioning"
	case StateReady:
		return "ready"
	case StateTornDown:
		return "torn down"
	default:
		return "unprovisioned"
	}
}

// Provisioner is the lifecycle surface a container-backed connection needs.
// Satisfied by *lifecycle.Orchestrator.
type Provisioner interface {
	EnsureRunning(ctx context.Context, identity model.Identity, spec model.ContainerSpec) (model.ResolvedEndpoint, error)
	Teardown(ctx context.Context, identity model.Identity) error
}

// ContainerConnection is a connection whose endpoint is served by a
// single-use container provisioned on first use.
type ContainerConnection struct {
	identity    model.Identity
	spec        model.ContainerSpec
	provisioner Provisioner
	base        *model.Connection

	mu    sync.Mutex
	state ProvisioningState
}

// NewContainerConnection synthesizes a connection record for the identity.
// The base connection supplies the human-readable name and any stored
// protocol parameters; the container endpoint is merged in at connect time.
func NewContainerConnection(identity model.Identity, spec model.ContainerSpec, base *model.Connection, provisioner Provisioner) *ContainerConnection {
	return &ContainerConnection{
		identity:    identity,
		spec:        spec,
		provisioner: provisioner,
		base:        base,
	}
}

// Record returns the catalog entry for this connection. The identifier is
// the container identity, so the same logical entity always resolves to the
// same catalog key.
func (c *ContainerConnection) Record() *model.Connection {
	record := c.base.Clone()
	record.Identifier = c.identity.String()
	record.Protocol = c.spec.Protocol
	return record
}

// State returns the current provisioning state.
func (c *ContainerConnection) State() ProvisioningState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connect provisions the backing container if needed and returns the
// connection parameters with the resolved endpoint (and credentials, when
// the spec carries them) merged over the stored protocol configuration.
func (c *ContainerConnection) Connect(ctx context.Context) (map[string]string, error) {
	c.mu.Lock()
	if c.state == StateTornDown {
		c.mu.Unlock()
		return nil, fmt.Errorf("connection %s has been torn down", c.identity)
	}
	c.state = StateProvisioning
	c.mu.Unlock()

	endpoint, err := c.provisioner.EnsureRunning(ctx, c.identity, c.spec)
	if err != nil {
		c.mu.Lock()
		// Back to unprovisioned so a later attempt can retry cleanly.
		if c.state == StateProvisioning {
			c.state = StateUnprovisioned
		}
		c.mu.Unlock()
		return nil, err
	}

	c.mu.Lock()
	if c.state != StateProvisioning {
		// Released while the provision was in flight. TornDown is
		// terminal; undo the container that landed after the release.
		c.mu.Unlock()
		if terr := c.provisioner.Teardown(ctx, c.identity); terr != nil {
			log.Error("failed to tear down container provisioned after release", "identifier", c.identity, "error", terr)
		}
		return nil, fmt.Errorf("connection %s was released during provisioning", c.identity)
	}
	c.state = StateReady
	c.mu.Unlock()

	params := make(map[string]string, len(c.base.Parameters)+5)
	for k, v := range c.base.Parameters {
		params[k] = v
	}
	for k, v := range model.EndpointParameters(endpoint, c.spec.Credentials) {
		params[k] = v
	}

	log.Debug("connection parameters assembled", "identifier", c.identity, "hostname", endpoint.Hostname, "port", endpoint.Port)
	return params, nil
}

// Release tears the backing container down. Safe to call on a connection
// that never provisioned; repeated releases are no-ops.
func (c *ContainerConnection) Release(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateTornDown {
		c.mu.Unlock()
		return nil
	}
	previous := c.state
	c.state = StateTornDown
	c.mu.Unlock()

	if previous == StateUnprovisioned {
		return nil
	}
	return c.provisioner.Teardown(ctx, c.identity)
}
