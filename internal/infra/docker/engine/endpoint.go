package engine

import (
	"fmt"
	"strconv"

	"github.com/docker/go-connections/nat"

	"sessiondock/internal/domain/repository"
)

// PublishedHostPort selects the host port the engine published for the given
// internal TCP port. The engine reports a list of host bindings per exposed
// port; the first non-empty binding wins, matching the engine's own
// port-forwarding order.
func PublishedHostPort(ports nat.PortMap, internalPort int) (string, error) {
	port, err := nat.NewPort("tcp", strconv.Itoa(internalPort))
	if err != nil {
		return "", fmt.Errorf("%w: %v", repository.ErrInvalidSpec, err)
	}

	for _, binding := range ports[port] {
		if binding.HostPort != "" {
			return binding.HostPort, nil
		}
	}

	return "", fmt.Errorf("%w: tcp/%d", repository.ErrNoPublishedPort, internalPort)
}
