package teardown_connection

import "sessiondock/internal/domain/model"

// TeardownConnectionCommand stops the container backing an identity.
type TeardownConnectionCommand struct {
	Identity model.Identity
}

// CommandName returns the name of the command.
func (c TeardownConnectionCommand) CommandName() string {
	return "TeardownConnection"
}
