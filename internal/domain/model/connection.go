package model

// Parameter names merged into a connection's protocol configuration once the
// backing container is running.
const (
	ParamHostname = "hostname"
	ParamPort     = "port"
	ParamUsername = "username"
	ParamPassword = "password"
	ParamDomain   = "domain"
)

// Connection is a catalog entry: either a record passed through unchanged
// from the external store, or one synthesized for a container-backed session.
type Connection struct {
	// Identifier uniquely names the connection within the catalog.
	Identifier string

	// Name is the human-readable connection name.
	Name string

	// Protocol the connection speaks.
	Protocol Protocol

	// Parameters holds the protocol configuration, e.g. hostname and port.
	Parameters map[string]string
}

// Clone returns a deep copy so catalog callers can mutate results freely.
func (c *Connection) Clone() *Connection {
	params := make(map[string]string, len(c.Parameters))
	for k, v := range c.Parameters {
		params[k] = v
	}
	return &Connection{
		Identifier: c.Identifier,
		Name:       c.Name,
		Protocol:   c.Protocol,
		Parameters: params,
	}
}

// EndpointParameters builds the parameter set for a resolved endpoint,
// including credentials when the spec carries them.
func EndpointParameters(endpoint ResolvedEndpoint, creds *Credentials) map[string]string {
	params := map[string]string{
		ParamHostname: endpoint.Hostname,
		ParamPort:     endpoint.Port,
	}
	if creds != nil {
		if creds.Username != "" {
			params[ParamUsername] = creds.Username
		}
		if creds.Password != "" {
			params[ParamPassword] = creds.Password
		}
		if creds.Domain != "" {
			params[ParamDomain] = creds.Domain
		}
	}
	return params
}
