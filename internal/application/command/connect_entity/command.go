package connect_entity

// ConnectEntityCommand provisions and connects the container-backed
// connection described by an entity's attribute bag.
type ConnectEntityCommand struct {
	EntityName string
	Username   string
	Attributes map[string]string
}

// CommandName returns the name of the command.
func (c ConnectEntityCommand) CommandName() string {
	return "ConnectEntity"
}
