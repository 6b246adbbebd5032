package attributes

import (
	"sessiondock/internal/domain/model"
)

// Entity decorates the attribute bag of a user, user group or connection
// with container provisioning semantics. The wrapped bag stays owned by the
// external store; the decorator only filters what the current caller may see
// and change.
type Entity struct {
	identifier string
	attributes map[string]string
	canUpdate  bool
	extension  Extension
}

// NewEntity decorates an entity's attribute bag. canUpdate is the opaque
// permission predicate evaluated by the caller: whether the current user may
// administer the decorated entity.
func NewEntity(identifier string, attributes map[string]string, canUpdate bool, extension Extension) *Entity {
	if attributes == nil {
		attributes = map[string]string{}
	}
	return &Entity{
		identifier: identifier,
		attributes: attributes,
		canUpdate:  canUpdate,
		extension:  extension,
	}
}

// Identifier returns the decorated entity's identifier.
func (e *Entity) Identifier() string {
	return e.identifier
}

// GetAttributes returns the visible attribute set for the current caller.
func (e *Entity) GetAttributes() map[string]string {
	return e.extension.FilterReadable(e.attributes, e.canUpdate)
}

// SetAttributes applies a write, stripping container attributes the caller
// may not change. The rest of the write always goes through.
func (e *Entity) SetAttributes(attributes map[string]string) {
	filtered := e.extension.FilterWritable(attributes, e.canUpdate)
	for k, v := range filtered {
		e.attributes[k] = v
	}
}

// ContainerSpec extracts the container association, if the entity has one.
// Extraction reads the stored bag directly: an entity's container backing
// does not depend on who is looking at it.
func (e *Entity) ContainerSpec() (*model.ContainerSpec, bool) {
	return e.extension.Extract(e.attributes)
}

// Identity derives the container identity for this entity and the given
// username.
func (e *Entity) Identity(username string) model.Identity {
	return model.NewIdentity(e.identifier, username)
}
