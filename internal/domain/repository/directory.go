package repository

import "sessiondock/internal/domain/model"

// ConnectionDirectory is a read/write view of connection records. The
// external store behind it is owned elsewhere; this subsystem only layers
// synthesized container-backed connections on top.
type ConnectionDirectory interface {
	// Get returns the connection for the identifier, or (nil, nil) when no
	// such connection exists.
	Get(identifier string) (*model.Connection, error)

	// List resolves the given identifiers, preserving the caller's order.
	// Unknown identifiers are skipped.
	List(identifiers []string) ([]*model.Connection, error)

	// Identifiers returns the set of all known connection identifiers.
	Identifiers() ([]string, error)

	// Add inserts a connection. Overlay implementations insert into their
	// local layer only and never write through to the external store.
	Add(connection *model.Connection) error
}
