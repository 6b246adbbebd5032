package catalog

import (
	"fmt"
	"sync"

	"sessiondock/internal/domain/model"
	"sessiondock/internal/domain/repository"
)

// MemoryDirectory is a process-local connection store. It serves as the
// external directory when no real store is wired in, e.g. for the standalone
// agent binary.
type MemoryDirectory struct {
	mu    sync.RWMutex
	conns map[string]*model.Connection
	order []string
}

var _ repository.ConnectionDirectory = (*MemoryDirectory)(nil)

// NewMemoryDirectory creates a directory pre-populated with the given
// connections, in order.
func NewMemoryDirectory(conns ...*model.Connection) *MemoryDirectory {
	d := &MemoryDirectory{conns: make(map[string]*model.Connection, len(conns))}
	for _, c := range conns {
		if _, ok := d.conns[c.Identifier]; !ok {
			d.order = append(d.order, c.Identifier)
		}
		d.conns[c.Identifier] = c.Clone()
	}
	return d
}

// Get returns the connection for the identifier, or (nil, nil) when unknown.
func (d *MemoryDirectory) Get(identifier string) (*model.Connection, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if c, ok := d.conns[identifier]; ok {
		return c.Clone(), nil
	}
	return nil, nil
}

// List resolves identifiers in the caller's order, skipping unknown ones.
func (d *MemoryDirectory) List(identifiers []string) ([]*model.Connection, error) {
	result := make([]*model.Connection, 0, len(identifiers))
	for _, id := range identifiers {
		c, err := d.Get(id)
		if err != nil {
			return nil, err
		}
		if c != nil {
			result = append(result, c)
		}
	}
	return result, nil
}

// Identifiers returns every stored identifier in insertion order.
func (d *MemoryDirectory) Identifiers() ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]string(nil), d.order...), nil
}

// Add inserts or replaces a connection.
func (d *MemoryDirectory) Add(connection *model.Connection) error {
	if connection == nil || connection.Identifier == "" {
		return fmt.Errorf("connection with empty identifier cannot be added")
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.conns[connection.Identifier]; !ok {
		d.order = append(d.order, connection.Identifier)
	}
	d.conns[connection.Identifier] = connection.Clone()
	return nil
}
