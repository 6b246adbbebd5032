package catalog

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sessiondock/internal/domain/model"
)

// fakeProvisioner records lifecycle calls without touching an engine.
type fakeProvisioner struct {
	mu            sync.Mutex
	ensureCalls   int
	teardownCalls int
	endpoint      model.ResolvedEndpoint

	// block, when non-nil, parks EnsureRunning until the channel closes.
	block chan struct{}
}

func (p *fakeProvisioner) EnsureRunning(_ context.Context, _ model.Identity, _ model.ContainerSpec) (model.ResolvedEndpoint, error) {
	if p.block != nil {
		<-p.block
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ensureCalls++
	return p.endpoint, nil
}

func (p *fakeProvisioner) Teardown(_ context.Context, _ model.Identity) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.teardownCalls++
	return nil
}

func newTestConnection(p Provisioner) *ContainerConnection {
	base := &model.Connection{
		Identifier: "desktop",
		Name:       "desktop",
		Parameters: map[string]string{"color-depth": "24"},
	}
	spec := model.ContainerSpec{
		Image:        "vnc-box",
		InternalPort: 5901,
		Protocol:     model.ProtocolVNC,
		Credentials:  &model.Credentials{Username: "alice", Password: "secret"},
	}
	return NewContainerConnection(model.NewIdentity("desktop", "alice"), spec, base, p)
}

func TestListingNeverProvisions(t *testing.T) {
	p := &fakeProvisioner{}
	c := NewCatalog(newFakeDirectory())
	conn := newTestConnection(p)

	require.NoError(t, c.AddContainerConnection(conn))

	ids, err := c.Identifiers()
	require.NoError(t, err)
	assert.Contains(t, ids, "desktop_alice")

	_, err = c.Get("desktop_alice")
	require.NoError(t, err)

	assert.Equal(t, 0, p.ensureCalls)
	assert.Equal(t, StateUnprovisioned, conn.State())
}

func TestConnectProvisionsAndMergesParameters(t *testing.T) {
	p := &fakeProvisioner{endpoint: model.ResolvedEndpoint{Hostname: "docker.example.com", Port: "34921"}}
	conn := newTestConnection(p)

	params, err := conn.Connect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateReady, conn.State())
	assert.Equal(t, "docker.example.com", params[model.ParamHostname])
	assert.Equal(t, "34921", params[model.ParamPort])
	assert.Equal(t, "alice", params[model.ParamUsername])
	assert.Equal(t, "secret", params[model.ParamPassword])
	// Stored protocol configuration survives the merge.
	assert.Equal(t, "24", params["color-depth"])
}

func TestReleaseTearsDownProvisionedContainer(t *testing.T) {
	p := &fakeProvisioner{}
	conn := newTestConnection(p)

	_, err := conn.Connect(context.Background())
	require.NoError(t, err)

	require.NoError(t, conn.Release(context.Background()))
	assert.Equal(t, 1, p.teardownCalls)
	assert.Equal(t, StateTornDown, conn.State())

	// Releasing again is a no-op.
	require.NoError(t, conn.Release(context.Background()))
	assert.Equal(t, 1, p.teardownCalls)

	// A released connection cannot be connected again.
	_, err = conn.Connect(context.Background())
	assert.Error(t, err)
}

func TestReleaseDuringConnectStaysTornDown(t *testing.T) {
	p := &fakeProvisioner{block: make(chan struct{})}
	conn := newTestConnection(p)

	connectErr := make(chan error, 1)
	go func() {
		_, err := conn.Connect(context.Background())
		connectErr <- err
	}()

	require.Eventually(t, func() bool {
		return conn.State() == StateProvisioning
	}, time.Second, time.Millisecond)

	// Release while the provision is still in flight.
	require.NoError(t, conn.Release(context.Background()))
	assert.Equal(t, StateTornDown, conn.State())

	close(p.block)
	require.Error(t, <-connectErr)

	// The release stays terminal and the late container is torn down.
	assert.Equal(t, StateTornDown, conn.State())
	p.mu.Lock()
	teardowns := p.teardownCalls
	p.mu.Unlock()
	assert.Equal(t, 2, teardowns)

	_, err := conn.Connect(context.Background())
	assert.Error(t, err)
}

func TestReleaseWithoutConnectSkipsEngine(t *testing.T) {
	p := &fakeProvisioner{}
	conn := newTestConnection(p)

	require.NoError(t, conn.Release(context.Background()))
	assert.Equal(t, 0, p.teardownCalls)
}

func TestReleaseAllTearsDownEveryBackedConnection(t *testing.T) {
	p := &fakeProvisioner{}
	c := NewCatalog(newFakeDirectory())

	for _, user := range []string{"alice", "bob"} {
		base := &model.Connection{Identifier: "desktop", Name: "desktop", Parameters: map[string]string{}}
		conn := NewContainerConnection(model.NewIdentity("desktop", user), model.ContainerSpec{
			Image:        "vnc-box",
			InternalPort: 5901,
		}, base, p)
		require.NoError(t, c.AddContainerConnection(conn))
		_, err := conn.Connect(context.Background())
		require.NoError(t, err)
	}

	require.NoError(t, c.ReleaseAll(context.Background()))
	assert.Equal(t, 2, p.teardownCalls)
}
