package connect_entity

import (
	"context"
	"fmt"

	"sessiondock/internal/attributes"
	"sessiondock/internal/catalog"
	"sessiondock/internal/domain/model"
	"sessiondock/pkg/log"
)

// ConnectEntityHandler extracts a container spec from the entity's
// attributes, registers the synthesized connection in the catalog and drives
// its first connect.
type ConnectEntityHandler struct {
	catalog     *catalog.Catalog
	provisioner catalog.Provisioner
}

// Handle executes the ConnectEntityCommand.
func (h *ConnectEntityHandler) Handle(cmd ConnectEntityCommand) error {
	log.Info("processing connect command", "entity", cmd.EntityName, "username", cmd.Username)

	if cmd.EntityName == "" || cmd.Username == "" {
		return fmt.Errorf("entity name and username are required")
	}

	entity := attributes.NewEntity(cmd.EntityName, cmd.Attributes, true, attributes.Extension{})
	spec, ok := entity.ContainerSpec()
	if !ok {
		return fmt.Errorf("entity %s carries no container association", cmd.EntityName)
	}

	identity := entity.Identity(cmd.Username)
	conn := h.catalog.ContainerConnection(identity.String())
	if conn == nil {
		base := &model.Connection{
			Identifier: cmd.EntityName,
			Name:       cmd.EntityName,
			Protocol:   spec.Protocol,
			Parameters: map[string]string{},
		}
		conn = catalog.NewContainerConnection(identity, *spec, base, h.provisioner)
		if err := h.catalog.AddContainerConnection(conn); err != nil {
			return fmt.Errorf("failed to register connection %s: %w", identity, err)
		}
	}

	params, err := conn.Connect(context.Background())
	if err != nil {
		return fmt.Errorf("failed to connect %s: %w", identity, err)
	}

	log.Info("entity connected", "identity", identity, "hostname", params[model.ParamHostname], "port", params[model.ParamPort])
	return nil
}

// NewConnectEntityHandler returns a configured ConnectEntityHandler.
func NewConnectEntityHandler(cat *catalog.Catalog, provisioner catalog.Provisioner) *ConnectEntityHandler {
	return &ConnectEntityHandler{catalog: cat, provisioner: provisioner}
}
