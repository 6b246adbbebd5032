package connect_entity

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sessiondock/internal/attributes"
	"sessiondock/internal/catalog"
	"sessiondock/internal/domain/model"
)

type fakeProvisioner struct {
	mu          sync.Mutex
	ensureCalls int
	endpoint    model.ResolvedEndpoint
}

func (p *fakeProvisioner) EnsureRunning(_ context.Context, _ model.Identity, _ model.ContainerSpec) (model.ResolvedEndpoint, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ensureCalls++
	return p.endpoint, nil
}

func (p *fakeProvisioner) Teardown(_ context.Context, _ model.Identity) error {
	return nil
}

func desktopCommand() ConnectEntityCommand {
	return ConnectEntityCommand{
		EntityName: "desktop",
		Username:   "alice",
		Attributes: map[string]string{
			attributes.ImageAttribute:    "vnc-box",
			attributes.PortAttribute:     "5901",
			attributes.ProtocolAttribute: "vnc",
		},
	}
}

func TestHandleProvisionsAndRegistersConnection(t *testing.T) {
	p := &fakeProvisioner{endpoint: model.ResolvedEndpoint{Hostname: "docker.example.com", Port: "34921"}}
	cat := catalog.NewCatalog(catalog.NewMemoryDirectory())
	h := NewConnectEntityHandler(cat, p)

	require.NoError(t, h.Handle(desktopCommand()))

	conn := cat.ContainerConnection("desktop_alice")
	require.NotNil(t, conn)
	assert.Equal(t, catalog.StateReady, conn.State())
	assert.Equal(t, 1, p.ensureCalls)

	listed, err := cat.Get("desktop_alice")
	require.NoError(t, err)
	require.NotNil(t, listed)
	assert.Equal(t, model.ProtocolVNC, listed.Protocol)
}

func TestHandleReusesRegisteredConnection(t *testing.T) {
	p := &fakeProvisioner{}
	cat := catalog.NewCatalog(catalog.NewMemoryDirectory())
	h := NewConnectEntityHandler(cat, p)

	require.NoError(t, h.Handle(desktopCommand()))
	require.NoError(t, h.Handle(desktopCommand()))

	// Same identity, one catalog entry; the provisioner decides idempotence.
	ids, err := cat.Identifiers()
	require.NoError(t, err)
	count := 0
	for _, id := range ids {
		if id == "desktop_alice" {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Equal(t, 2, p.ensureCalls)
}

func TestHandleRejectsEntityWithoutContainerAssociation(t *testing.T) {
	cat := catalog.NewCatalog(catalog.NewMemoryDirectory())
	h := NewConnectEntityHandler(cat, &fakeProvisioner{})

	err := h.Handle(ConnectEntityCommand{
		EntityName: "desktop",
		Username:   "alice",
		Attributes: map[string]string{"guac-full-name": "Alice"},
	})
	require.Error(t, err)
	assert.Nil(t, cat.ContainerConnection("desktop_alice"))
}

func TestHandleRequiresEntityAndUsername(t *testing.T) {
	cat := catalog.NewCatalog(catalog.NewMemoryDirectory())
	h := NewConnectEntityHandler(cat, &fakeProvisioner{})

	assert.Error(t, h.Handle(ConnectEntityCommand{Username: "alice"}))
	assert.Error(t, h.Handle(ConnectEntityCommand{EntityName: "desktop"}))
}
