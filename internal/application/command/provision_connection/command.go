package provision_connection

import "sessiondock/internal/domain/model"

// ProvisionConnectionCommand ensures a running container for an identity.
type ProvisionConnectionCommand struct {
	Identity model.Identity
	Spec     model.ContainerSpec
}

// CommandName returns the name of the command.
func (c ProvisionConnectionCommand) CommandName() string {
	return "ProvisionConnection"
}
