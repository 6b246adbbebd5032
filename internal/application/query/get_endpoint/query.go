package get_endpoint

import "sessiondock/internal/domain/model"

// GetEndpointQuery asks for the published endpoint of a running container.
type GetEndpointQuery struct {
	Identity     model.Identity
	InternalPort int
}

// QueryName returns the name of the query.
func (q GetEndpointQuery) QueryName() string {
	return "GetEndpoint"
}
