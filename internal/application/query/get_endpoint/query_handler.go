package get_endpoint

import (
	"context"
	"fmt"

	"sessiondock/internal/domain/model"
	"sessiondock/internal/domain/repository"
	"sessiondock/pkg/log"
)

// GetEndpointHandler resolves endpoints straight from the engine.
type GetEndpointHandler struct {
	engine repository.ContainerEngineRepository
}

// Handle executes the GetEndpointQuery.
func (h *GetEndpointHandler) Handle(query GetEndpointQuery) (model.ResolvedEndpoint, error) {
	log.Debug("processing get endpoint query", "identity", query.Identity)

	if query.Identity == "" {
		return model.ResolvedEndpoint{}, fmt.Errorf("identity is required")
	}

	endpoint, err := h.engine.InspectEndpoint(context.Background(), query.Identity, query.InternalPort)
	if err != nil {
		return model.ResolvedEndpoint{}, fmt.Errorf("failed to resolve endpoint for %s: %w", query.Identity, err)
	}
	return endpoint, nil
}

// NewGetEndpointHandler returns a configured GetEndpointHandler.
func NewGetEndpointHandler(engine repository.ContainerEngineRepository) *GetEndpointHandler {
	return &GetEndpointHandler{engine: engine}
}
