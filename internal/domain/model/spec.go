package model

import (
	"fmt"
	"strings"
)

// Protocol identifies the remote desktop protocol spoken by the service
// inside a provisioned container.
type Protocol string

const (
	ProtocolRDP    Protocol = "rdp"
	ProtocolSSH    Protocol = "ssh"
	ProtocolTelnet Protocol = "telnet"
	ProtocolVNC    Protocol = "vnc"
)

// DefaultPort returns the conventional TCP port for the protocol. The value
// is a UI hint only; the port actually used to reach a container is always
// the engine-published host port.
func (p Protocol) DefaultPort() int {
	switch p {
	case ProtocolRDP:
		return 3389
	case ProtocolSSH:
		return 22
	case ProtocolTelnet:
		return 23
	case ProtocolVNC:
		return 5901
	default:
		return 0
	}
}

// ParseProtocol converts a protocol name to a Protocol, case-insensitively.
func ParseProtocol(s string) (Protocol, error) {
	switch Protocol(strings.ToLower(s)) {
	case ProtocolRDP:
		return ProtocolRDP, nil
	case ProtocolSSH:
		return ProtocolSSH, nil
	case ProtocolTelnet:
		return ProtocolTelnet, nil
	case ProtocolVNC:
		return ProtocolVNC, nil
	default:
		return "", fmt.Errorf("unknown protocol %q", s)
	}
}

// Credentials holds the optional login material forwarded to the remote
// desktop session inside the container.
type Credentials struct {
	Username string
	Password string
	Domain   string
}

// ContainerSpec describes the container to provision for a connection. It is
// built transiently per request from entity attributes and never persisted.
type ContainerSpec struct {
	// Image is the engine image reference, e.g. "vnc-box:latest". Required.
	Image string

	// InternalPort is the TCP port the service inside the container listens
	// on. The engine maps it to a dynamically chosen host port. Required.
	InternalPort int

	// Command overrides the image's default command when non-empty.
	Command string

	// Env holds KEY=VALUE environment entries passed at creation.
	Env []string

	// Protocol the synthesized connection will speak.
	Protocol Protocol

	// Credentials optionally forwarded into the connection parameters.
	Credentials *Credentials
}

// Validate reports whether the spec is complete enough to drive a lifecycle
// operation. A missing image or port is a caller error, not an engine error.
func (s ContainerSpec) Validate() error {
	if s.Image == "" {
		return fmt.Errorf("container image is required")
	}
	if s.InternalPort < 1 || s.InternalPort > 65535 {
		return fmt.Errorf("container port %d out of range 1-65535", s.InternalPort)
	}
	return nil
}
