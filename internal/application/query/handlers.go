package query

import (
	"fmt"

	"sessiondock/internal/application/query/get_endpoint"
	"sessiondock/internal/domain/repository"
	"sessiondock/pkg/cqrs"
)

// RegisterQueryHandlers wires every query handler into the bus.
func RegisterQueryHandlers(b cqrs.QueryBus, engine repository.ContainerEngineRepository) error {
	if err := b.Register(get_endpoint.NewGetEndpointHandler(engine)); err != nil {
		return fmt.Errorf("failed to register get endpoint query handler: %w", err)
	}

	return nil
}
