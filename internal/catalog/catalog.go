// Package catalog presents the union of externally stored connections and
// container-backed connections synthesized at runtime. The external store is
// never written to; synthesized entries live only for the process lifetime.
package catalog

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"sessiondock/internal/domain/model"
	"sessiondock/internal/domain/repository"
	"sessiondock/pkg/log"
)

// Catalog implements repository.ConnectionDirectory as an overlay: entries
// added locally take precedence over same-keyed entries in the external
// directory.
type Catalog struct {
	external repository.ConnectionDirectory

	mu      sync.RWMutex
	overlay map[string]*model.Connection
	backed  map[string]*ContainerConnection
}

// Compile-time assertion that *Catalog implements the directory interface.
var _ repository.ConnectionDirectory = (*Catalog)(nil)

// NewCatalog wraps the external connection directory.
func NewCatalog(external repository.ConnectionDirectory) *Catalog {
	return &Catalog{
		external: external,
		overlay:  make(map[string]*model.Connection),
		backed:   make(map[string]*ContainerConnection),
	}
}

// Get resolves an identifier, overlay first, external store second.
// Returns (nil, nil) when neither knows the identifier.
func (c *Catalog) Get(identifier string) (*model.Connection, error) {
	c.mu.RLock()
	conn, ok := c.overlay[identifier]
	c.mu.RUnlock()
	if ok {
		return conn.Clone(), nil
	}
	return c.external.Get(identifier)
}

// List resolves identifiers in the caller's order, skipping unknown ones.
func (c *Catalog) List(identifiers []string) ([]*model.Connection, error) {
	result := make([]*model.Connection, 0, len(identifiers))
	for _, id := range identifiers {
		conn, err := c.Get(id)
		if err != nil {
			return nil, err
		}
		if conn != nil {
			result = append(result, conn)
		}
	}
	return result, nil
}

// Identifiers returns the set union of external and overlay identifiers,
// each exactly once. External order is preserved; overlay-only identifiers
// follow.
func (c *Catalog) Identifiers() ([]string, error) {
	externalIDs, err := c.external.Identifiers()
	if err != nil {
		return nil, fmt.Errorf("failed to list external identifiers: %w", err)
	}

	seen := make(map[string]struct{}, len(externalIDs))
	ids := make([]string, 0, len(externalIDs))
	for _, id := range externalIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	for id := range c.overlay {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

// Add inserts a connection into the overlay only. The external store is
// never mutated through the catalog.
func (c *Catalog) Add(connection *model.Connection) error {
	if connection == nil || connection.Identifier == "" {
		return fmt.Errorf("connection with empty identifier cannot be added")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.overlay[connection.Identifier] = connection.Clone()
	return nil
}

// AddContainerConnection registers a synthesized container-backed connection
// and exposes its catalog record through the overlay. The backing container
// is not provisioned here; that happens lazily on first Connect.
func (c *Catalog) AddContainerConnection(conn *ContainerConnection) error {
	record := conn.Record()
	if err := c.Add(record); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.backed[record.Identifier] = conn
	return nil
}

// ContainerConnection returns the synthesized connection for the identifier,
// or nil when the identifier is not container-backed.
func (c *Catalog) ContainerConnection(identifier string) *ContainerConnection {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.backed[identifier]
}

// ReleaseAll tears down every container-backed connection, in parallel.
// Used on shutdown; individual failures are collected, not short-circuited.
func (c *Catalog) ReleaseAll(ctx context.Context) error {
	c.mu.RLock()
	conns := make([]*ContainerConnection, 0, len(c.backed))
	for _, conn := range c.backed {
		conns = append(conns, conn)
	}
	c.mu.RUnlock()

	// Plain group: one failed teardown must not cancel the others.
	var g errgroup.Group
	for _, conn := range conns {
		g.Go(func() error {
			if err := conn.Release(ctx); err != nil {
				log.Error("failed to release connection", "identifier", conn.Record().Identifier, "error", err)
				return err
			}
			return nil
		})
	}
	return g.Wait()
}
