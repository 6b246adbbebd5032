package teardown_connection

import (
	"context"
	"fmt"

	"sessiondock/internal/lifecycle"
	"sessiondock/pkg/log"
)

// TeardownConnectionHandler drives the lifecycle orchestrator to execute
// TeardownConnectionCommand.
type TeardownConnectionHandler struct {
	orchestrator *lifecycle.Orchestrator
}

// Handle executes the TeardownConnectionCommand.
func (h *TeardownConnectionHandler) Handle(cmd TeardownConnectionCommand) error {
	log.Info("processing teardown command", "identity", cmd.Identity)

	if cmd.Identity == "" {
		return fmt.Errorf("identity is required")
	}

	if err := h.orchestrator.Teardown(context.Background(), cmd.Identity); err != nil {
		return fmt.Errorf("failed to tear down %s: %w", cmd.Identity, err)
	}

	log.Info("connection torn down", "identity", cmd.Identity)
	return nil
}

// NewTeardownConnectionHandler returns a configured TeardownConnectionHandler.
func NewTeardownConnectionHandler(orchestrator *lifecycle.Orchestrator) *TeardownConnectionHandler {
	return &TeardownConnectionHandler{orchestrator: orchestrator}
}
