package provision_connection

import (
	"context"
	"fmt"

	"sessiondock/internal/lifecycle"
	"sessiondock/pkg/log"
)

// ProvisionConnectionHandler drives the lifecycle orchestrator to execute
// ProvisionConnectionCommand.
type ProvisionConnectionHandler struct {
	orchestrator *lifecycle.Orchestrator
}

// Handle executes the ProvisionConnectionCommand.
func (h *ProvisionConnectionHandler) Handle(cmd ProvisionConnectionCommand) error {
	log.Info("processing provision command", "identity", cmd.Identity)

	if cmd.Identity == "" {
		return fmt.Errorf("identity is required")
	}

	endpoint, err := h.orchestrator.EnsureRunning(context.Background(), cmd.Identity, cmd.Spec)
	if err != nil {
		log.Error("provisioning failed", "identity", cmd.Identity, "error", err)
		return fmt.Errorf("failed to provision %s: %w", cmd.Identity, err)
	}

	log.Info("connection provisioned", "identity", cmd.Identity, "hostname", endpoint.Hostname, "port", endpoint.Port)
	return nil
}

// NewProvisionConnectionHandler returns a configured ProvisionConnectionHandler.
func NewProvisionConnectionHandler(orchestrator *lifecycle.Orchestrator) *ProvisionConnectionHandler {
	return &ProvisionConnectionHandler{orchestrator: orchestrator}
}
