package command

import (
	"fmt"

	"sessiondock/internal/application/command/connect_entity"
	"sessiondock/internal/application/command/provision_connection"
	"sessiondock/internal/application/command/teardown_connection"
	"sessiondock/internal/catalog"
	"sessiondock/internal/lifecycle"
	"sessiondock/pkg/cqrs"
)

// RegisterCommandHandlers wires every command handler into the bus.
func RegisterCommandHandlers(b cqrs.CommandBus, orchestrator *lifecycle.Orchestrator, cat *catalog.Catalog) error {
	if err := b.Register(connect_entity.NewConnectEntityHandler(cat, orchestrator)); err != nil {
		return fmt.Errorf("failed to register connect entity handler: %w", err)
	}

	if err := b.Register(provision_connection.NewProvisionConnectionHandler(orchestrator)); err != nil {
		return fmt.Errorf("failed to register provision connection handler: %w", err)
	}

	if err := b.Register(teardown_connection.NewTeardownConnectionHandler(orchestrator)); err != nil {
		return fmt.Errorf("failed to register teardown connection handler: %w", err)
	}

	return nil
}
